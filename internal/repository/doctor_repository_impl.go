package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"clinic-booking-service/internal/domain/entity"
	domainRepo "clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/infrastructure/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// withoutPassword is applied to every doctor read
var withoutPassword = bson.M{"password": 0}

type doctorRepository struct {
	provider database.DatabaseProvider
}

func NewDoctorRepository(provider database.DatabaseProvider) domainRepo.DoctorRepository {
	return &doctorRepository{provider: provider}
}

func (r *doctorRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.provider, database.CollectionDoctors)
}

func (r *doctorRepository) Create(ctx context.Context, doctor *entity.Doctor) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}
	doctor.CreatedAt = now
	doctor.UpdatedAt = now

	_, err = coll.InsertOne(ctx, doctor)
	return translateWriteError(coll, "insert", err)
}

func (r *doctorRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string, excludeID *primitive.ObjectID) (bool, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return false, err
	}

	query := bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"phone": phone}}}
	if excludeID != nil {
		query["_id"] = bson.M{"$ne": *excludeID}
	}

	count, err := coll.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count doctors: %w", err)
	}
	return count > 0, nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Doctor, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var doctor entity.Doctor
	found, err := findOne(ctx, coll, bson.M{"_id": id}, &doctor, options.FindOne().SetProjection(withoutPassword))
	if err != nil || !found {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetProjection(withoutPassword).
		SetSort(newestFirst)

	var doctors []entity.Doctor
	if err := findAll(ctx, coll, doctorQuery(filter), &doctors, opts); err != nil {
		return nil, err
	}
	return doctors, nil
}

// Update overwrites every editable field with the values in doctor. The password is left untouched.
func (r *doctorRepository) Update(ctx context.Context, doctor *entity.Doctor) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	doctor.UpdatedAt = time.Now()
	set := bson.M{
		"name":               doctor.Name,
		"email":              doctor.Email,
		"phone":              doctor.Phone,
		"address":            doctor.Address,
		"experience":         doctor.Experience,
		"category":           doctor.Category,
		"specialization":     doctor.Specialization,
		"price":              doctor.Price,
		"consultationFee":    doctor.ConsultationFee,
		"image":              doctor.Image,
		"clinicName":         doctor.ClinicName,
		"degree":             doctor.Degree,
		"registrationAgency": doctor.RegistrationAgency,
		"registrationNumber": doctor.RegistrationNumber,
		"isVerified":         doctor.IsVerified,
		"isActive":           doctor.IsActive,
		"availableDates":     doctor.AvailableDates,
		"updatedAt":          doctor.UpdatedAt,
	}

	_, err = coll.UpdateOne(ctx, bson.M{"_id": doctor.ID}, bson.M{"$set": set})
	return translateWriteError(coll, "update", err)
}

func (r *doctorRepository) ReplaceAvailability(ctx context.Context, id primitive.ObjectID, availability entity.Availability, expectedUpdatedAt time.Time) (time.Time, bool, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return time.Time{}, false, err
	}

	guard := bson.M{"_id": id, "updatedAt": expectedUpdatedAt}
	if expectedUpdatedAt.IsZero() {
		guard["updatedAt"] = bson.M{"$exists": false}
	}

	// BSON dates keep milliseconds
	updatedAt := time.Now().Truncate(time.Millisecond)
	result, err := coll.UpdateOne(ctx, guard,
		bson.M{"$set": bson.M{"availableDates": availability, "updatedAt": updatedAt}},
	)
	if err != nil {
		return time.Time{}, false, translateWriteError(coll, "update", err)
	}
	if result.MatchedCount != 1 {
		return time.Time{}, false, nil
	}
	return updatedAt, true, nil
}

func (r *doctorRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return false, err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete doctors: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *doctorRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_doctor_email").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create doctor indexes: %w", err)
	}
	return nil
}

// doctorQuery applies the first non-empty criterion of email, id and category.
func doctorQuery(filter entity.DoctorFilter) bson.M {
	switch {
	case filter.Email != "":
		return bson.M{"email": filter.Email}
	case filter.ID != nil:
		return bson.M{"_id": *filter.ID}
	case filter.Category != "":
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Category), Options: "i"}
		return bson.M{"$or": bson.A{
			bson.M{"category": pattern},
			bson.M{"specialization": pattern},
		}}
	default:
		return bson.M{}
	}
}
