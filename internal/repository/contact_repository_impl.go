package repository

import (
	"context"
	"time"

	"clinic-booking-service/internal/domain/entity"
	domainRepo "clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/internal/infrastructure/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type contactRepository struct {
	provider database.DatabaseProvider
}

func NewContactRepository(provider database.DatabaseProvider) domainRepo.ContactRepository {
	return &contactRepository{provider: provider}
}

func (r *contactRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.provider, database.CollectionContacts)
}

func (r *contactRepository) Create(ctx context.Context, contact *entity.Contact) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	contact.CreatedAt = now
	contact.UpdatedAt = now

	_, err = coll.InsertOne(ctx, contact)
	return translateWriteError(coll, "insert", err)
}

func (r *contactRepository) FindAll(ctx context.Context) ([]entity.Contact, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var contacts []entity.Contact
	if err := findAll(ctx, coll, bson.M{}, &contacts, options.Find().SetSort(newestFirst)); err != nil {
		return nil, err
	}
	return contacts, nil
}

type contactMessageRepository struct {
	provider database.DatabaseProvider
}

func NewContactMessageRepository(provider database.DatabaseProvider) domainRepo.ContactMessageRepository {
	return &contactMessageRepository{provider: provider}
}

func (r *contactMessageRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	return collection(ctx, r.provider, database.CollectionContactMessages)
}

func (r *contactMessageRepository) Create(ctx context.Context, message *entity.ContactMessage) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if message.ID.IsZero() {
		message.ID = primitive.NewObjectID()
	}
	if message.Status == "" {
		message.Status = entity.ContactMessageStatusNew
	}
	message.CreatedAt = now
	message.UpdatedAt = now

	_, err = coll.InsertOne(ctx, message)
	return translateWriteError(coll, "insert", err)
}

func (r *contactMessageRepository) FindAll(ctx context.Context) ([]entity.ContactMessage, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var messages []entity.ContactMessage
	if err := findAll(ctx, coll, bson.M{}, &messages, options.Find().SetSort(newestFirst)); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *contactMessageRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.ContactMessage, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var message entity.ContactMessage
	found, err := findOne(ctx, coll, bson.M{"_id": id}, &message)
	if err != nil || !found {
		return nil, err
	}
	return &message, nil
}

func (r *contactMessageRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	_, err = coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	return translateWriteError(coll, "update", err)
}
