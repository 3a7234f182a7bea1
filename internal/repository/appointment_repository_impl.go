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

type appointmentRepository struct {
	provider database.DatabaseProvider
}

func NewAppointmentRepository(provider database.DatabaseProvider) domainRepo.AppointmentRepository {
	return &appointmentRepository{provider: provider}
}

func (r *appointmentRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.provider, database.CollectionAppointments)
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	_, err = coll.InsertOne(ctx, appointment)
	return translateWriteError(coll, "insert", err)
}

func (r *appointmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Appointment, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var appointment entity.Appointment
	found, err := findOne(ctx, coll, bson.M{"_id": id}, &appointment)
	if err != nil || !found {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, filter entity.AppointmentFilter, limit, offset int) ([]entity.Appointment, int64, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := appointmentQuery(filter)

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "appointmentDate", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	var appointments []entity.Appointment
	if err := findAll(ctx, coll, query, &appointments, opts); err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status entity.AppointmentStatus, releaseSlot bool) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	if releaseSlot {
		update["$unset"] = bson.M{"slotKey": ""}
	}

	_, err = coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	return translateWriteError(coll, "update", err)
}

// FindClaimed pages through active appointments from `from` onward that hold a slot claim.
func (r *appointmentRepository) FindClaimed(ctx context.Context, from time.Time, limit, offset int) ([]entity.Appointment, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	query := bson.M{
		"slotKey":         bson.M{"$exists": true},
		"appointmentDate": bson.M{"$gte": from},
		"status":          bson.M{"$in": bson.A{entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	var appointments []entity.Appointment
	if err := findAll(ctx, coll, query, &appointments, opts); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "slotKey", Value: 1}},
			Options: options.Index().
				SetName("uniq_claimed_slot").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slotKey": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "doctorEmail", Value: 1}, {Key: "appointmentDate", Value: -1}}},
		{Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "appointmentDate", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "appointmentDate", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create appointment indexes: %w", err)
	}
	return nil
}

func appointmentQuery(filter entity.AppointmentFilter) bson.M {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.DoctorID != nil {
		query["doctorId"] = *filter.DoctorID
	}
	if filter.DoctorEmail != "" {
		query["doctorEmail"] = filter.DoctorEmail
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	window := bson.M{}
	if filter.From != nil {
		window["$gte"] = *filter.From
	}
	if filter.To != nil {
		window["$lte"] = *filter.To
	}
	if len(window) > 0 {
		query["appointmentDate"] = window
	}

	return query
}
