package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"devicepulse/internal/model"
	"devicepulse/internal/repository"
)

// NotificationService handles notification records and the push tokens
// they are delivered against.
type NotificationService struct {
	notifRepo repository.NotificationRepository
	tokenRepo repository.DeviceTokenRepository
}

func NewNotificationService(
	notifRepo repository.NotificationRepository,
	tokenRepo repository.DeviceTokenRepository,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		tokenRepo: tokenRepo,
	}
}

// Create persists a new notification. The read flag always starts false.
func (s *NotificationService) Create(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", model.ErrValidation)
	}

	notifType := req.Type
	if notifType == "" {
		notifType = model.NotificationTypeInfo
	}
	if !model.ValidNotificationType(notifType) {
		return nil, fmt.Errorf("%w: unknown notification type %q", model.ErrValidation, notifType)
	}

	now := time.Now()
	notification := &model.Notification{
		UserID:    req.UserID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      notifType,
		IsRead:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notifRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}

// GetByID retrieves a notification by ID.
func (s *NotificationService) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	return s.notifRepo.GetByID(ctx, id)
}

// GetUserNotifications returns all of a user's notifications, newest first.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.notifRepo.GetByUserID(ctx, userID)
}

// Update merges partial fields and refreshes the update timestamp.
func (s *NotificationService) Update(ctx context.Context, id string, req *model.UpdateNotificationRequest) (*model.Notification, error) {
	fields := map[string]any{
		"updatedAt": time.Now(),
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Message != nil {
		fields["message"] = *req.Message
	}
	if req.Type != nil {
		if !model.ValidNotificationType(*req.Type) {
			return nil, fmt.Errorf("%w: unknown notification type %q", model.ErrValidation, *req.Type)
		}
		fields["type"] = *req.Type
	}
	if req.IsRead != nil {
		fields["isRead"] = *req.IsRead
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	if err := s.notifRepo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update notification: %w", err)
	}

	return s.notifRepo.GetByID(ctx, id)
}

// SetDeliveryStatus records the outcome of a push attempt ("sent" or
// "failed") on an existing notification.
func (s *NotificationService) SetDeliveryStatus(ctx context.Context, id, status string) (*model.Notification, error) {
	return s.Update(ctx, id, &model.UpdateNotificationRequest{Status: &status})
}

// MarkAsRead sets the read flag on a single notification.
func (s *NotificationService) MarkAsRead(ctx context.Context, id string) (*model.Notification, error) {
	isRead := true
	return s.Update(ctx, id, &model.UpdateNotificationRequest{IsRead: &isRead})
}

// MarkAllAsRead marks every unread notification of a user as read. Each
// record is updated independently and concurrently; there is no shared
// transaction, so one failed update does not roll back the others. The
// first error, if any, is returned after all updates have settled.
// Calling this twice in a row is a no-op the second time.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	notifications, err := s.notifRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	var g errgroup.Group
	for _, n := range notifications {
		if n.IsRead {
			continue
		}
		n := n
		g.Go(func() error {
			_, err := s.MarkAsRead(ctx, n.ID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}

// Delete removes a notification. Deleting an unknown id succeeds.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return s.notifRepo.Delete(ctx, id)
}

// GetUnreadCount returns the number of a user's unread notifications.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

// GetDeviceToken returns the push token registered for a user.
func (s *NotificationService) GetDeviceToken(ctx context.Context, userID string) (*model.DeviceToken, error) {
	return s.tokenRepo.GetByUserID(ctx, userID)
}

// RegisterDeviceToken stores or replaces a user's Expo push token.
// Called when the user logs in on a new device or the mobile app
// refreshes its token.
func (s *NotificationService) RegisterDeviceToken(ctx context.Context, userID, token, platform string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: userId is required", model.ErrValidation)
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is required", model.ErrValidation)
	}
	if platform == "" {
		platform = "expo"
	}

	return s.tokenRepo.Upsert(ctx, userID, token, platform)
}

// RemoveDeviceToken removes a push token (e.g. on logout).
func (s *NotificationService) RemoveDeviceToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is required", model.ErrValidation)
	}
	return s.tokenRepo.Delete(ctx, token)
}
