package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/homenest/property-service/internal/domain"
	"github.com/homenest/property-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const notificationCollectionName = "notifications"

// NotificationRepository implements domain.NotificationRepository using MongoDB.
type NotificationRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewNotificationRepository creates the repository and ensures its indexes.
func NewNotificationRepository(db *mongo.Database, log *logger.Logger) *NotificationRepository {
	collection := db.Collection(notificationCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "to", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "to", Value: 1}, {Key: "read", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for notifications collection", zap.Error(err))
	}

	return &NotificationRepository{
		collection: collection,
		logger:     log.Named("NotificationRepository"),
	}
}

// Create inserts a new notification and returns the assigned identifier.
func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) (string, error) {
	doc := toNotificationDocument(notification)

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("Failed to insert notification", zap.Error(err))
		return "", fmt.Errorf("db insert failed: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	notification.ID = insertedID.Hex()
	return notification.ID, nil
}

// FindByRecipient returns the recipient's notifications, newest first, capped
// at limit.
func (r *NotificationRepository) FindByRecipient(ctx context.Context, email string, limit int64) ([]*domain.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"to": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := make([]*domain.Notification, 0)
	for cursor.Next(ctx) {
		var doc notificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("db decode failed: %w", err)
		}
		notifications = append(notifications, toNotificationEntity(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("db cursor failed: %w", err)
	}
	return notifications, nil
}

// MarkRead sets the read flag on one notification. Idempotent; returns the
// modified count.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrInvalidID
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.Error(err), zap.String("notification_id", id))
		return 0, fmt.Errorf("db update failed: %w", err)
	}
	return result.ModifiedCount, nil
}

// MarkAllRead sets the read flag on all of a recipient's unread notifications.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, email string) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"to": email, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		r.logger.Error("Failed to mark all notifications read", zap.Error(err), zap.String("recipient", email))
		return 0, fmt.Errorf("db update failed: %w", err)
	}
	return result.ModifiedCount, nil
}

// Delete removes one notification; returns the deleted count.
func (r *NotificationRepository) Delete(ctx context.Context, id string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, domain.ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		r.logger.Error("Failed to delete notification", zap.Error(err), zap.String("notification_id", id))
		return 0, fmt.Errorf("db delete failed: %w", err)
	}
	return result.DeletedCount, nil
}

// DeleteByRecipient removes all of a recipient's notifications.
func (r *NotificationRepository) DeleteByRecipient(ctx context.Context, email string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"to": email})
	if err != nil {
		r.logger.Error("Failed to clear notifications", zap.Error(err), zap.String("recipient", email))
		return 0, fmt.Errorf("db delete failed: %w", err)
	}
	return result.DeletedCount, nil
}
