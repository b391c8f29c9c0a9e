package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// College is read-only reference data seeded at startup.
type College struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Campuses  []string           `bson:"campuses" json:"campuses"`
	Slug      string             `bson:"slug" json:"slug"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
