package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"devicepulse/internal/model"
)

const notificationsCollection = "notifications"

// notificationRepository implements NotificationRepository over a MongoDB collection
type notificationRepository struct {
	coll *mongo.Collection
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{coll: db.Collection(notificationsCollection)}
}

// Create inserts a new notification, assigning its document ID.
func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	n.ID = uuid.NewString()

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by document ID.
func (r *notificationRepository) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification by id: %w", err)
	}
	return &n, nil
}

// GetByUserID returns a user's notifications, newest first.
func (r *notificationRepository) GetByUserID(ctx context.Context, userID string) ([]model.Notification, error) {
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	notifications := []model.Notification{}
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

// Update applies a partial $set to a notification document.
func (r *notificationRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return nil
}

// Delete removes a notification document.
func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// CountUnread counts a user's unread notifications.
func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID, "isRead": false})
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return int(count), nil
}
