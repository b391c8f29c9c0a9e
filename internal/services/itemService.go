package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khojapp/khoj-server/internal/apperr"
	"github.com/khojapp/khoj-server/internal/models"
)

// ListLimit caps college-wide listings. This is a hard cap, not a page
// boundary; there is no pagination cursor.
const ListLimit = 200

type ItemService struct {
	items *mongo.Collection
}

func NewItemService(items *mongo.Collection) *ItemService {
	return &ItemService{items: items}
}

// ListQuery holds the optional filters for a college-wide listing.
type ListQuery struct {
	Type     string
	Category string
	Status   string
	Campus   string
	Search   string
}

// BuildListFilter composes the Mongo filter for List. College scoping is
// unconditional; the search term is escaped so it matches as a literal
// substring, case-insensitively, across title/description/location/category.
func BuildListFilter(college string, q ListQuery) bson.M {
	filter := bson.M{"college": college}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Campus != "" {
		filter["campus"] = q.Campus
	}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"location": re},
			bson.M{"category": re},
		}
	}
	return filter
}

// List returns items in the requester's college, newest first, capped at
// ListLimit.
func (s *ItemService) List(ctx context.Context, requester *models.User, q ListQuery) ([]models.Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(ListLimit)
	cursor, err := s.items.Find(ctx, BuildListFilter(requester.College, q), opts)
	if err != nil {
		return nil, apperr.Internal("failed to fetch items", err)
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperr.Internal("failed to fetch items", err)
	}
	return items, nil
}

// Mine returns all of the requester's items regardless of college, newest
// first, unbounded.
func (s *ItemService) Mine(ctx context.Context, requester *models.User) ([]models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.items.Find(ctx, bson.M{"owner": requester.ID}, opts)
	if err != nil {
		return nil, apperr.Internal("failed to fetch items", err)
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperr.Internal("failed to fetch items", err)
	}
	return items, nil
}

// CreateItemInput is the validated item payload. Ownership, college and the
// contact snapshot are never taken from the request.
type CreateItemInput struct {
	Type              string    `json:"type" validate:"required,oneof=lost found"`
	Title             string    `json:"title" validate:"required,min=3"`
	Description       string    `json:"description" validate:"required,min=10"`
	Category          string    `json:"category" validate:"required,min=2"`
	Location          string    `json:"location" validate:"required,min=2"`
	Date              time.Time `json:"date" validate:"required"`
	Images            []string  `json:"images" validate:"max=5,dive,url"`
	Urgent            bool      `json:"urgent"`
	ContactPreference string    `json:"contactPreference" validate:"omitempty,oneof=both email phone"`
	Campus            string    `json:"campus"`
}

// NewItem materializes an item from validated input and its creator. The
// college is forced to the creator's college and the owner contact fields
// are snapshotted from the creator's current profile.
func NewItem(in CreateItemInput, creator *models.User) *models.Item {
	campus := in.Campus
	if campus == "" {
		campus = creator.Campus
	}
	contactPref := in.ContactPreference
	if contactPref == "" {
		contactPref = models.ContactBoth
	}
	images := in.Images
	if images == nil {
		images = []string{}
	}
	now := time.Now().UTC()
	return &models.Item{
		ID:                primitive.NewObjectID(),
		Type:              in.Type,
		Title:             in.Title,
		Description:       in.Description,
		Category:          in.Category,
		Location:          in.Location,
		Date:              in.Date,
		Images:            images,
		Urgent:            in.Urgent,
		ContactPreference: contactPref,
		Status:            models.StatusActive,
		Owner:             creator.ID,
		OwnerName:         creator.Name,
		OwnerEmail:        creator.Email,
		OwnerPhone:        creator.Phone,
		College:           creator.College,
		Campus:            campus,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Create persists a new item owned by the requester.
func (s *ItemService) Create(ctx context.Context, requester *models.User, in CreateItemInput) (*models.Item, error) {
	item := NewItem(in, requester)
	if _, err := s.items.InsertOne(ctx, item); err != nil {
		return nil, apperr.Internal("failed to create item", err)
	}
	return item, nil
}

// ownerFilter gates single-item operations. Non-owners get the same
// not-found result as a nonexistent id, so the existence of other users'
// items is never confirmed.
func ownerFilter(id string, requester *models.User) (bson.M, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Item not found")
	}
	return bson.M{"_id": objID, "owner": requester.ID}, nil
}

// Get returns one item, visible only to its owner.
func (s *ItemService) Get(ctx context.Context, requester *models.User, id string) (*models.Item, error) {
	filter, err := ownerFilter(id, requester)
	if err != nil {
		return nil, err
	}
	var item models.Item
	if err := s.items.FindOne(ctx, filter).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Item not found")
		}
		return nil, apperr.Internal("failed to fetch item", err)
	}
	return &item, nil
}

// UpdateItemInput is a partial update. Only the fields listed here may
// change; ownership, college and the contact snapshot are immutable after
// creation, and unknown request fields are dropped at decode time.
type UpdateItemInput struct {
	Type              *string    `json:"type" validate:"omitempty,oneof=lost found"`
	Title             *string    `json:"title" validate:"omitempty,min=3"`
	Description       *string    `json:"description" validate:"omitempty,min=10"`
	Category          *string    `json:"category" validate:"omitempty,min=2"`
	Location          *string    `json:"location" validate:"omitempty,min=2"`
	Date              *time.Time `json:"date"`
	Images            []string   `json:"images" validate:"omitempty,max=5,dive,url"`
	Urgent            *bool      `json:"urgent"`
	ContactPreference *string    `json:"contactPreference" validate:"omitempty,oneof=both email phone"`
	Status            *string    `json:"status" validate:"omitempty,oneof=active resolved"`
	Campus            *string    `json:"campus"`
}

// UpdateSet builds the $set document from the supplied fields. Returns the
// set and whether anything changed.
func UpdateSet(in UpdateItemInput) (bson.M, bool) {
	set := bson.M{}
	if in.Type != nil {
		set["type"] = *in.Type
	}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.Location != nil {
		set["location"] = *in.Location
	}
	if in.Date != nil {
		set["date"] = *in.Date
	}
	if in.Images != nil {
		set["images"] = in.Images
	}
	if in.Urgent != nil {
		set["urgent"] = *in.Urgent
	}
	if in.ContactPreference != nil {
		set["contactPreference"] = *in.ContactPreference
	}
	if in.Status != nil {
		set["status"] = *in.Status
	}
	if in.Campus != nil {
		set["campus"] = *in.Campus
	}
	if len(set) == 0 {
		return set, false
	}
	set["updatedAt"] = time.Now().UTC()
	return set, true
}

// Update applies a partial update, same ownership gate as Get.
func (s *ItemService) Update(ctx context.Context, requester *models.User, id string, in UpdateItemInput) (*models.Item, error) {
	filter, err := ownerFilter(id, requester)
	if err != nil {
		return nil, err
	}

	set, changed := UpdateSet(in)
	if !changed {
		return s.Get(ctx, requester, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.Item
	err = s.items.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("Item not found")
		}
		return nil, apperr.Internal("failed to update item", err)
	}
	return &item, nil
}

// Delete hard-deletes an item, same ownership gate as Get.
func (s *ItemService) Delete(ctx context.Context, requester *models.User, id string) error {
	filter, err := ownerFilter(id, requester)
	if err != nil {
		return err
	}
	res, err := s.items.DeleteOne(ctx, filter)
	if err != nil {
		return apperr.Internal("failed to delete item", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Item not found")
	}
	return nil
}
