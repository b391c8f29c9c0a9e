package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khojapp/khoj-server/internal/apperr"
	"github.com/khojapp/khoj-server/internal/models"
)

// CollegeService reads the seeded reference directory. No mutation is
// exposed past startup seeding.
type CollegeService struct {
	colleges *mongo.Collection
}

func NewCollegeService(colleges *mongo.Collection) *CollegeService {
	return &CollegeService{colleges: colleges}
}

// List returns all colleges sorted by name.
func (s *CollegeService) List(ctx context.Context) ([]models.College, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.colleges.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Internal("failed to fetch colleges", err)
	}
	defer cursor.Close(ctx)

	colleges := []models.College{}
	if err := cursor.All(ctx, &colleges); err != nil {
		return nil, apperr.Internal("failed to fetch colleges", err)
	}
	return colleges, nil
}
