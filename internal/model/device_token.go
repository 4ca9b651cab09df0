package model

import (
	"errors"
	"time"
)

// DeviceToken represents a user's registered Expo push token in the
// expoTokens collection. One token per user; re-registering replaces it.
type DeviceToken struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"user_id"`
	Token     string    `bson:"token" json:"-"`
	Platform  string    `bson:"platform" json:"platform"` // "expo", "ios" or "android"
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// RegisterTokenRequest is the request body for registering a push token.
type RegisterTokenRequest struct {
	UserID   string `json:"userId"`
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// RemoveTokenRequest is the request body for removing a push token.
type RemoveTokenRequest struct {
	Token string `json:"token"`
}

var (
	// ErrDeviceTokenNotFound is returned when no push token is registered
	ErrDeviceTokenNotFound = errors.New("device token not found")
)
