package database

import (
	"context"
	"fmt"
	"time"

	"clinic-booking-service/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoMigration is a one-off document rewrite, recorded in schema_migrations once applied.
type MongoMigration struct {
	ID string
	Up func(ctx context.Context, db *mongo.Database) error
}

var mongoMigrations = []MongoMigration{
	{ID: "001_canonical_available_dates", Up: canonicalizeAvailableDates},
}

func RunMongoMigrations(ctx context.Context, provider DatabaseProvider, log *logrus.Logger) error {
	db, err := provider.Database(ctx)
	if err != nil {
		return err
	}
	applied := db.Collection(CollectionSchemaMigrations)

	for _, m := range mongoMigrations {
		count, err := applied.CountDocuments(ctx, bson.M{"_id": m.ID})
		if err != nil {
			return fmt.Errorf("check migration %s: %w", m.ID, err)
		}
		if count > 0 {
			continue
		}

		if err := m.Up(ctx, db); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.ID, err)
		}

		if _, err := applied.InsertOne(ctx, bson.M{"_id": m.ID, "appliedAt": time.Now()}); err != nil {
			return fmt.Errorf("record migration %s: %w", m.ID, err)
		}
		log.Infof("Applied migration %s", m.ID)
	}

	return nil
}

// canonicalizeAvailableDates rewrites availability stored with BSON dates or isBooked
// flags into the calendar-date string form.
func canonicalizeAvailableDates(ctx context.Context, db *mongo.Database) error {
	doctors := db.Collection(CollectionDoctors)

	filter := bson.M{"$or": bson.A{
		bson.M{"availableDates.date": bson.M{"$type": "date"}},
		bson.M{"availableDates.isBooked": bson.M{"$exists": true}},
	}}
	cursor, err := doctors.Find(ctx, filter, options.Find().SetProjection(bson.M{"availableDates": 1}))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID             primitive.ObjectID  `bson:"_id"`
			AvailableDates entity.Availability `bson:"availableDates"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return err
		}

		update := bson.M{"$set": bson.M{"availableDates": doc.AvailableDates.Normalize()}}
		if _, err := doctors.UpdateOne(ctx, bson.M{"_id": doc.ID}, update); err != nil {
			return err
		}
	}

	return cursor.Err()
}
