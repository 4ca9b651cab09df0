package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"devicepulse/internal/model"
)

const deviceTokensCollection = "expoTokens"

type deviceTokenRepository struct {
	coll *mongo.Collection
}

func NewDeviceTokenRepository(db *mongo.Database) DeviceTokenRepository {
	return &deviceTokenRepository{coll: db.Collection(deviceTokensCollection)}
}

// Upsert creates or replaces the push token registered for a user.
// If the user already has a token record, the token and platform are
// replaced (device changed or the app refreshed its token).
func (r *deviceTokenRepository) Upsert(ctx context.Context, userID, token, platform string) error {
	now := time.Now()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set": bson.M{
				"token":     token,
				"platform":  platform,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{
				"_id":       uuid.NewString(),
				"userId":    userID,
				"createdAt": now,
			},
		},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert device token: %w", err)
	}
	return nil
}

// GetByUserID returns the push token registered for a user.
func (r *deviceTokenRepository) GetByUserID(ctx context.Context, userID string) (*model.DeviceToken, error) {
	var t model.DeviceToken
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrDeviceTokenNotFound
		}
		return nil, fmt.Errorf("get device token: %w", err)
	}
	return &t, nil
}

// Delete removes a token wherever it is registered.
func (r *deviceTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("delete device token: %w", err)
	}
	return nil
}
