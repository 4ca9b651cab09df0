package model

import (
	"errors"
	"time"
)

// Notification types
const (
	NotificationTypeInfo    = "info"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
	NotificationTypeSuccess = "success"
)

// Delivery statuses set after a push attempt
const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// Notification represents a notification record in the notifications collection.
// Status is empty until a push delivery has been attempted.
type Notification struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId" json:"user_id"`
	Title     string    `bson:"title" json:"title"`
	Message   string    `bson:"message" json:"message"`
	Type      string    `bson:"type" json:"type"`
	IsRead    bool      `bson:"isRead" json:"is_read"`
	Status    string    `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// CreateNotificationRequest is the request body for creating a notification.
// Push defaults to true; set it to false to persist the record without
// attempting delivery.
type CreateNotificationRequest struct {
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Push    *bool  `json:"push"`
}

// UpdateNotificationRequest carries the optional fields of a partial update.
type UpdateNotificationRequest struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
	Type    *string `json:"type"`
	IsRead  *bool   `json:"is_read"`
	Status  *string `json:"status"`
}

// UnreadCountResponse wraps the unread counter for badge display.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

var (
	// ErrNotificationNotFound is returned when a notification cannot be found
	ErrNotificationNotFound = errors.New("notification not found")
)

// ValidNotificationType reports whether t is one of the known severity types.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeWarning, NotificationTypeError, NotificationTypeSuccess:
		return true
	}
	return false
}
