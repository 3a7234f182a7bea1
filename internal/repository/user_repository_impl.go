package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinic-booking-service/internal/domain/entity"
	domainRepo "clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/infrastructure/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepository struct {
	provider database.DatabaseProvider
}

func NewUserRepository(provider database.DatabaseProvider) domainRepo.UserRepository {
	return &userRepository{provider: provider}
}

func (r *userRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.provider, database.CollectionUsers)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var user entity.User
	found, err := findOne(ctx, coll, bson.M{"email": normalizeEmail(email)}, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var user entity.User
	found, err := findOne(ctx, coll, bson.M{"_id": id}, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// UpsertPendingOTP stores a fresh code for email, creating an unverified user when none exists.
func (r *userRepository) UpsertPendingOTP(ctx context.Context, email, otp string, expiry time.Time) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"otp":       otp,
			"otpExpiry": expiry,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"name":       "",
			"role":       entity.RoleUser,
			"isVerified": false,
			"createdAt":  now,
		},
	}

	_, err = coll.UpdateOne(ctx, bson.M{"email": normalizeEmail(email)}, update, options.Update().SetUpsert(true))
	return translateWriteError(coll, "upsert", err)
}

func (r *userRepository) FindByEmailAndOTP(ctx context.Context, email, otp string, now time.Time) (*entity.User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	query := bson.M{
		"email":     normalizeEmail(email),
		"otp":       otp,
		"otpExpiry": bson.M{"$gt": now},
	}

	var user entity.User
	found, err := findOne(ctx, coll, query, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CompleteRegistration(ctx context.Context, id primitive.ObjectID, name, passwordHash string) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"name":       name,
			"password":   passwordHash,
			"isVerified": true,
			"updatedAt":  time.Now(),
		},
		"$unset": bson.M{"otp": "", "otpExpiry": ""},
	}

	_, err = coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	return translateWriteError(coll, "update", err)
}

// DeleteExpiredPending removes unverified users whose code expired before now.
func (r *userRepository) DeleteExpiredPending(ctx context.Context, now time.Time) (int64, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	result, err := coll.DeleteMany(ctx, bson.M{
		"isVerified": false,
		"otpExpiry":  bson.M{"$lt": now},
	})
	if err != nil {
		return 0, fmt.Errorf("delete users: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *userRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_user_email").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}
