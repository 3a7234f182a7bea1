package repository

import (
	"context"
	"errors"
	"fmt"

	domainRepo "clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/infrastructure/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// collection resolves name on the provider's database for one operation.
func collection(ctx context.Context, provider database.DatabaseProvider, name string) (*mongo.Collection, error) {
	db, err := provider.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// findOne decodes a single document into out. It reports false when nothing matched.
func findOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOneOptions) (bool, error) {
	err := coll.FindOne(ctx, filter, opts...).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return true, nil
}

// findAll decodes every match into out, which must point to a slice.
func findAll(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return nil
}

func translateWriteError(coll *mongo.Collection, op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return domainRepo.ErrDuplicateKey
	}
	return fmt.Errorf("%s %s: %w", op, coll.Name(), err)
}
