package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item type values.
const (
	ItemLost  = "lost"
	ItemFound = "found"
)

// Item status values.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

// Contact preference values.
const (
	ContactBoth  = "both"
	ContactEmail = "email"
	ContactPhone = "phone"
)

// Item is a lost or found posting. OwnerName/OwnerEmail/OwnerPhone are a
// snapshot of the poster's contact details at creation time; later profile
// edits do not propagate to existing items.
type Item struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Type              string             `bson:"type" json:"type"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description" json:"description"`
	Category          string             `bson:"category" json:"category"`
	Location          string             `bson:"location" json:"location"`
	Date              time.Time          `bson:"date" json:"date"`
	Images            []string           `bson:"images" json:"images"`
	Urgent            bool               `bson:"urgent" json:"urgent"`
	ContactPreference string             `bson:"contactPreference" json:"contactPreference"`
	Status            string             `bson:"status" json:"status"`
	Owner             primitive.ObjectID `bson:"owner" json:"owner"`
	OwnerName         string             `bson:"ownerName" json:"ownerName"`
	OwnerEmail        string             `bson:"ownerEmail" json:"ownerEmail"`
	OwnerPhone        string             `bson:"ownerPhone,omitempty" json:"ownerPhone,omitempty"`
	College           string             `bson:"college" json:"college"`
	Campus            string             `bson:"campus,omitempty" json:"campus,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
