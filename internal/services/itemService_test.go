package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/khojapp/khoj-server/internal/models"
)

func TestBuildListFilterScopesToCollege(t *testing.T) {
	filter := BuildListFilter("X U", ListQuery{})
	assert.Equal(t, bson.M{"college": "X U"}, filter)
}

func TestBuildListFilterEqualityPredicates(t *testing.T) {
	filter := BuildListFilter("X U", ListQuery{
		Type:     "lost",
		Category: "electronics",
		Status:   "active",
		Campus:   "North",
	})
	assert.Equal(t, "X U", filter["college"])
	assert.Equal(t, "lost", filter["type"])
	assert.Equal(t, "electronics", filter["category"])
	assert.Equal(t, "active", filter["status"])
	assert.Equal(t, "North", filter["campus"])
}

func TestBuildListFilterSearch(t *testing.T) {
	filter := BuildListFilter("X U", ListQuery{Search: "black wallet"})
	or, ok := filter["$or"].(bson.A)
	assert.True(t, ok)
	assert.Len(t, or, 4)

	first := or[0].(bson.M)
	re := first["title"].(primitive.Regex)
	assert.Equal(t, "black wallet", re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestBuildListFilterEscapesRegexMeta(t *testing.T) {
	filter := BuildListFilter("X U", ListQuery{Search: "a.c (x)"})
	or := filter["$or"].(bson.A)
	re := or[0].(bson.M)["title"].(primitive.Regex)
	// The term matches literally, not as a pattern.
	assert.Equal(t, `a\.c \(x\)`, re.Pattern)
}

func creator() *models.User {
	return &models.User{
		ID:      primitive.NewObjectID(),
		Name:    "A",
		Email:   "a@x.com",
		Phone:   "12345678",
		College: "X U",
		Campus:  "North",
	}
}

func createInput() CreateItemInput {
	return CreateItemInput{
		Type:        models.ItemLost,
		Title:       "Black wallet",
		Description: "Lost near the main library entrance",
		Category:    "accessories",
		Location:    "Library",
		Date:        time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewItemForcesOwnershipAndCollege(t *testing.T) {
	user := creator()
	item := NewItem(createInput(), user)

	assert.Equal(t, user.ID, item.Owner)
	assert.Equal(t, "X U", item.College)
	assert.Equal(t, "A", item.OwnerName)
	assert.Equal(t, "a@x.com", item.OwnerEmail)
	assert.Equal(t, "12345678", item.OwnerPhone)
	assert.Equal(t, models.StatusActive, item.Status)
	assert.Equal(t, models.ContactBoth, item.ContactPreference)
	assert.NotNil(t, item.Images)
}

func TestNewItemCampusDefaultsToCreators(t *testing.T) {
	item := NewItem(createInput(), creator())
	assert.Equal(t, "North", item.Campus)

	in := createInput()
	in.Campus = "South"
	item = NewItem(in, creator())
	assert.Equal(t, "South", item.Campus)
}

func TestUpdateSetWhitelistsFields(t *testing.T) {
	title := "Updated title"
	status := models.StatusResolved
	set, changed := UpdateSet(UpdateItemInput{Title: &title, Status: &status})
	assert.True(t, changed)
	assert.Equal(t, "Updated title", set["title"])
	assert.Equal(t, "resolved", set["status"])
	assert.Contains(t, set, "updatedAt")
	assert.Len(t, set, 3)
}

func TestUpdateSetEmpty(t *testing.T) {
	set, changed := UpdateSet(UpdateItemInput{})
	assert.False(t, changed)
	assert.Empty(t, set)
}

// A request body naming ownership or snapshot fields must not reach the
// update document; they are not part of the partial-update type at all.
func TestUpdateIgnoresImmutableFields(t *testing.T) {
	body := `{
		"title": "New title",
		"owner": "000000000000000000000000",
		"college": "Y U",
		"ownerEmail": "attacker@y.com",
		"ownerName": "Mallory",
		"ownerPhone": "00000000"
	}`
	var in UpdateItemInput
	assert.NoError(t, json.Unmarshal([]byte(body), &in))

	set, changed := UpdateSet(in)
	assert.True(t, changed)
	assert.Equal(t, "New title", set["title"])
	assert.NotContains(t, set, "owner")
	assert.NotContains(t, set, "college")
	assert.NotContains(t, set, "ownerEmail")
	assert.NotContains(t, set, "ownerName")
	assert.NotContains(t, set, "ownerPhone")
}
