package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/morshidulrahman/testomg-babe/app/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names of the document store.
const (
	UsersCollection         = "users"
	PaymentCollection       = "payment"
	WebhookEventsCollection = "billing_webhook_events"
)

// NewMongoRepositories creates MongoDB-backed repositories
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		User:         &mongoUserRepository{col: db.Collection(UsersCollection)},
		Payment:      &mongoPaymentRepository{col: db.Collection(PaymentCollection)},
		WebhookEvent: &mongoWebhookEventRepository{col: db.Collection(WebhookEventsCollection)},
	}
}

// EnsureMongoIndexes creates the unique indexes the repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []struct {
		collection string
		keys       bson.D
	}{
		{UsersCollection, bson.D{{Key: "external_id", Value: 1}}},
		{UsersCollection, bson.D{{Key: "email", Value: 1}}},
		{PaymentCollection, bson.D{{Key: "userId", Value: 1}}},
		{WebhookEventsCollection, bson.D{{Key: "provider", Value: 1}, {Key: "provider_event_id", Value: 1}}},
	}
	for _, idx := range indexes {
		_, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    idx.keys,
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func normalizeMongoErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

type mongoUserRepository struct {
	col *mongo.Collection
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	user.EnsureID()
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Plan == "" {
		user.Plan = models.PlanFree
	}
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, normalizeMongoErr(err)
	}
	return &user, nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))}})
}

func (r *mongoUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "external_id", Value: externalID}})
}

func (r *mongoUserRepository) EnsureFromIdentity(ctx context.Context, externalID, email string) (*models.User, error) {
	existing, err := r.GetByExternalID(ctx, externalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user, err := models.NewUser(externalID, email)
	if err != nil {
		return nil, err
	}
	if err := r.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.GetByExternalID(ctx, externalID)
		}
		return nil, err
	}
	return user, nil
}

func (r *mongoUserRepository) UpdateCustomerID(ctx context.Context, id, customerID string) error {
	return r.set(ctx, id, "customerId", customerID)
}

func (r *mongoUserRepository) UpdatePlan(ctx context.Context, id, plan string) error {
	return r.set(ctx, id, "plan", plan)
}

func (r *mongoUserRepository) set(ctx context.Context, id, field, value string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: field, Value: value},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoPaymentRepository struct {
	col *mongo.Collection
}

func (r *mongoPaymentRepository) UpsertByUser(ctx context.Context, payment *models.Payment) error {
	payment.EnsureID()
	now := time.Now().UTC()
	payment.UpdatedAt = now

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "email", Value: payment.Email},
			{Key: "startDate", Value: payment.StartDate},
			{Key: "endDate", Value: payment.EndDate},
			{Key: "country", Value: payment.Country},
			{Key: "city", Value: payment.City},
			{Key: "address", Value: payment.Address},
			{Key: "zipCode", Value: payment.ZipCode},
			{Key: "transactionId", Value: payment.TransactionID},
			{Key: "amountTotal", Value: payment.AmountTotal},
			{Key: "currency", Value: payment.Currency},
			{Key: "status", Value: payment.Status},
			{Key: "paymentMethod", Value: payment.PaymentMethod},
			{Key: "plan", Value: payment.Plan},
			{Key: "period", Value: payment.Period},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: payment.ID},
			{Key: "created_at", Value: now},
		}},
	}
	_, err := r.col.UpdateOne(ctx,
		bson.D{{Key: "userId", Value: payment.UserID}},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return err
	}

	stored, err := r.GetByUserID(ctx, payment.UserID)
	if err != nil {
		return err
	}
	payment.ID = stored.ID
	payment.CreatedAt = stored.CreatedAt
	return nil
}

func (r *mongoPaymentRepository) GetByUserID(ctx context.Context, userID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.col.FindOne(ctx, bson.D{{Key: "userId", Value: userID}}).Decode(&payment); err != nil {
		return nil, normalizeMongoErr(err)
	}
	return &payment, nil
}

func (r *mongoPaymentRepository) ListByUserID(ctx context.Context, userID string) ([]models.Payment, error) {
	cur, err := r.col.Find(ctx,
		bson.D{{Key: "userId", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var payments []models.Payment
	if err := cur.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

type mongoWebhookEventRepository struct {
	col *mongo.Collection
}

func (r *mongoWebhookEventRepository) CreateIfNotExists(ctx context.Context, event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	event.EnsureID()
	now := time.Now().UTC()
	event.CreatedAt, event.UpdatedAt = now, now

	_, err := r.col.InsertOne(ctx, event)
	if err == nil {
		return true, event, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, nil, err
	}

	var existing models.BillingWebhookEvent
	err = r.col.FindOne(ctx, bson.D{
		{Key: "provider", Value: event.Provider},
		{Key: "provider_event_id", Value: event.ProviderEventID},
	}).Decode(&existing)
	if err != nil {
		return false, nil, normalizeMongoErr(err)
	}
	return false, &existing, nil
}

func (r *mongoWebhookEventRepository) MarkProcessed(ctx context.Context, id string, processingError string) error {
	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "processed_at", Value: now},
			{Key: "processing_error", Value: processingError},
			{Key: "updated_at", Value: now},
		}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
