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

type planRepository struct {
	provider database.DatabaseProvider
}

func NewPlanRepository(provider database.DatabaseProvider) domainRepo.PlanRepository {
	return &planRepository{provider: provider}
}

func (r *planRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.provider, database.CollectionPlans)
}

func (r *planRepository) Create(ctx context.Context, plan *entity.Plan) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if plan.ID.IsZero() {
		plan.ID = primitive.NewObjectID()
	}
	plan.CreatedAt = now
	plan.UpdatedAt = now

	_, err = coll.InsertOne(ctx, plan)
	return translateWriteError(coll, "insert", err)
}

func (r *planRepository) FindAll(ctx context.Context) ([]entity.Plan, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var plans []entity.Plan
	if err := findAll(ctx, coll, bson.M{}, &plans, options.Find().SetSort(newestFirst)); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *planRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Plan, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var plan entity.Plan
	found, err := findOne(ctx, coll, bson.M{"_id": id}, &plan)
	if err != nil || !found {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) Update(ctx context.Context, plan *entity.Plan) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	plan.UpdatedAt = time.Now()
	_, err = coll.ReplaceOne(ctx, bson.M{"_id": plan.ID}, plan)
	return translateWriteError(coll, "replace", err)
}

func (r *planRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	if _, err := coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete plans: %w", err)
	}
	return nil
}
