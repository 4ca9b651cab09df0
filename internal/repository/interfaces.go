package repository

import (
	"context"

	"devicepulse/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetAll(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update applies a partial $set; a missing id is not an error here,
	// callers surface NotFound via the follow-up read
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type DeviceRepository interface {
	Create(ctx context.Context, device *model.Device) error
	// GetAll returns devices ordered by creation time, newest first
	GetAll(ctx context.Context) ([]model.Device, error)
	GetByID(ctx context.Context, id string) (*model.Device, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	// GetByStatus filters on status, ordered by lastPing descending
	GetByStatus(ctx context.Context, status string) ([]model.Device, error)
	// GetByDeviceID filters on the device_id field, ordered by creation
	// time ascending so the earliest record wins the upsert tie-break
	GetByDeviceID(ctx context.Context, deviceID string) ([]model.Device, error)
	// GetByType runs the same device_id filter for reads, newest first
	GetByType(ctx context.Context, deviceType string) ([]model.Device, error)
	// IsEmpty reports whether the whole collection is empty
	IsEmpty(ctx context.Context) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	// GetByUserID returns a user's notifications, newest first
	GetByUserID(ctx context.Context, userID string) ([]model.Notification, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	// CountUnread counts a user's notifications with isRead=false
	CountUnread(ctx context.Context, userID string) (int, error)
}

type DeviceTokenRepository interface {
	// Upsert creates or replaces the push token registered for a user
	Upsert(ctx context.Context, userID, token, platform string) error
	// GetByUserID returns the token registered for a user
	GetByUserID(ctx context.Context, userID string) (*model.DeviceToken, error)
	// Delete removes a token wherever it is registered
	Delete(ctx context.Context, token string) error
}
