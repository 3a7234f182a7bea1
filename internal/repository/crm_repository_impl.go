package repository

import (
	"context"
	"fmt"
	"time"

	"clinic-booking-service/internal/domain/entity"
	domainRepo "clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/infrastructure/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type crmRepository struct {
	provider database.DatabaseProvider
}

func NewCRMRepository(provider database.DatabaseProvider) domainRepo.CRMRepository {
	return &crmRepository{provider: provider}
}

func (r *crmRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.provider, database.CollectionCRM)
}

func (r *crmRepository) Create(ctx context.Context, entry *entity.CRMEntry) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err = coll.InsertOne(ctx, entry)
	return translateWriteError(coll, "insert", err)
}

func (r *crmRepository) FindAll(ctx context.Context) ([]entity.CRMEntry, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var entries []entity.CRMEntry
	if err := findAll(ctx, coll, bson.M{}, &entries, options.Find().SetSort(newestFirst)); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *crmRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.CRMEntry, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var entry entity.CRMEntry
	found, err := findOne(ctx, coll, bson.M{"_id": id}, &entry)
	if err != nil || !found {
		return nil, err
	}
	return &entry, nil
}

func (r *crmRepository) Update(ctx context.Context, entry *entity.CRMEntry) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	entry.UpdatedAt = time.Now()
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	return translateWriteError(coll, "replace", err)
}

func (r *crmRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	if _, err := coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete crm entries: %w", err)
	}
	return nil
}
