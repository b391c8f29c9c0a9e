// Package seed installs the college/campus reference data the signup and
// login flows validate against.
package seed

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type college struct {
	Name     string
	Campuses []string
}

var colleges = []college{
	{Name: "Delhi University", Campuses: []string{"North Campus", "South Campus"}},
	{Name: "IIT Delhi", Campuses: []string{"Hauz Khas", "Sonipat"}},
	{Name: "IIT Bombay", Campuses: []string{"Powai"}},
	{Name: "BITS Pilani", Campuses: []string{"Pilani", "Goa", "Hyderabad"}},
	{Name: "Jawaharlal Nehru University", Campuses: []string{"Main Campus"}},
	{Name: "Anna University", Campuses: []string{"Guindy", "Taramani"}},
	{Name: "Jadavpur University", Campuses: []string{"Main Campus", "Salt Lake"}},
	{Name: "Manipal Academy of Higher Education", Campuses: []string{"Manipal", "Bengaluru", "Jamshedpur"}},
	{Name: "VIT", Campuses: []string{"Vellore", "Chennai", "Bhopal", "Amaravati"}},
	{Name: "Amity University", Campuses: []string{"Noida", "Gurugram", "Mumbai"}},
	{Name: "SRM Institute of Science and Technology", Campuses: []string{"Kattankulathur", "Ramapuram", "Vadapalani"}},
	{Name: "Savitribai Phule Pune University", Campuses: []string{"Main Campus"}},
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a college name: lowercase,
// runs of non-alphanumerics collapsed to a single hyphen, leading and
// trailing hyphens trimmed.
func Slugify(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// Colleges upserts the reference list keyed by unique name. Each entry is
// written with $setOnInsert, so concurrent cold starts and repeated runs
// converge on the same rows without duplicates.
func Colleges(ctx context.Context, coll *mongo.Collection) error {
	now := time.Now().UTC()
	for _, c := range colleges {
		filter := bson.M{"name": c.Name}
		update := bson.M{"$setOnInsert": bson.M{
			"name":      c.Name,
			"campuses":  c.Campuses,
			"slug":      Slugify(c.Name),
			"createdAt": now,
			"updatedAt": now,
		}}
		_, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed college %q: %w", c.Name, err)
		}
	}
	log.Printf("College reference data ready (%d entries)", len(colleges))
	return nil
}
