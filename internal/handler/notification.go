package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devicepulse/internal/httputil"
	"devicepulse/internal/model"
	"devicepulse/internal/service"
)

// NotificationHandler groups notification HTTP endpoints, including the
// push dispatch flow.
type NotificationHandler struct {
	notifService *service.NotificationService
	expoPush     *service.ExpoPushClient
}

func NewNotificationHandler(notifService *service.NotificationService, expoPush *service.ExpoPushClient) *NotificationHandler {
	return &NotificationHandler{
		notifService: notifService,
		expoPush:     expoPush,
	}
}

// DispatchResult pairs a created notification with its delivery ticket.
type DispatchResult struct {
	Notification *model.Notification     `json:"notification"`
	Ticket       *service.ExpoPushTicket `json:"ticket,omitempty"`
}

// PushRequest is the body for the ad-hoc push endpoint.
type PushRequest struct {
	Token   string         `json:"token"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// ListForUser handles GET /notification/user/{userId}
func (h *NotificationHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notifService.GetUserNotifications(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		log.Printf("[ERROR] List notifications: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, notifications)
}

// GetByID handles GET /notification/{id}
func (h *NotificationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	notification, err := h.notifService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, notification)
}

// Create handles POST /notification: create the record and dispatch a
// push to the owning user's registered device.
//
// Terminal outcomes:
//   - no registered token: 404, nothing persisted
//   - invalid token format: 400, record persisted without delivery status
//   - delivery succeeded: 201 with the record (status "sent") and ticket
//   - delivery failed: 500, record retained with status "failed"
//   - push explicitly skipped: 201 with the bare record
//
// Every remote call is single-attempt; a failed push is recorded, never
// retried or rolled back.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Push != nil && !*req.Push {
		notification, err := h.notifService.Create(r.Context(), &req)
		if err != nil {
			httputil.WriteServiceError(w, err)
			return
		}
		httputil.WriteData(w, http.StatusCreated, notification)
		return
	}

	if req.UserID == "" {
		httputil.WriteBadRequest(w, "userId is required")
		return
	}

	// Resolve the push token first: an unresolvable token aborts the
	// whole request before anything is persisted.
	token, err := h.notifService.GetDeviceToken(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, model.ErrDeviceTokenNotFound) {
			httputil.WriteNotFound(w, "Device token not found")
			return
		}
		log.Printf("[ERROR] Dispatch token lookup: user=%s err=%v", req.UserID, err)
		httputil.WriteServiceError(w, err)
		return
	}

	notification, err := h.notifService.Create(r.Context(), &req)
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	if !service.IsExpoPushToken(token.Token) {
		httputil.WriteBadRequest(w, "Invalid Expo push token")
		return
	}

	ticket, err := h.expoPush.SendToToken(r.Context(), token.Token, notification.Title, notification.Message, map[string]any{
		"type":            notification.Type,
		"notification_id": notification.ID,
	})
	if err != nil {
		log.Printf("[ERROR] Push delivery: notification=%s err=%v", notification.ID, err)

		if _, uerr := h.notifService.SetDeliveryStatus(r.Context(), notification.ID, model.DeliveryStatusFailed); uerr != nil {
			log.Printf("[ERROR] Record delivery failure: notification=%s err=%v", notification.ID, uerr)
		}
		httputil.WriteInternalError(w, "Failed to deliver push notification")
		return
	}

	notification, err = h.notifService.SetDeliveryStatus(r.Context(), notification.ID, model.DeliveryStatusSent)
	if err != nil {
		log.Printf("[ERROR] Record delivery success: err=%v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusCreated, DispatchResult{
		Notification: notification,
		Ticket:       ticket,
	})
}

// SendPush handles POST /notification/push-notification: an ad-hoc push
// to an explicit token, persisting nothing.
func (h *NotificationHandler) SendPush(w http.ResponseWriter, r *http.Request) {
	var req PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if !service.IsExpoPushToken(req.Token) {
		httputil.WriteBadRequest(w, "Invalid Expo push token")
		return
	}

	ticket, err := h.expoPush.SendToToken(r.Context(), req.Token, req.Title, req.Message, req.Data)
	if err != nil {
		log.Printf("[ERROR] Ad-hoc push: err=%v", err)
		httputil.WriteInternalError(w, "Failed to deliver push notification")
		return
	}

	httputil.WriteData(w, http.StatusOK, ticket)
}

// Update handles PUT /notification/{id}
func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	notification, err := h.notifService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		log.Printf("[ERROR] Update notification: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, notification)
}

// MarkRead handles PATCH /notification/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notification, err := h.notifService.MarkAsRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, notification)
}

// MarkAllRead handles POST /notification/user/{userId}/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifService.MarkAllAsRead(r.Context(), chi.URLParam(r, "userId")); err != nil {
		log.Printf("[ERROR] Mark all notifications read: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "All notifications marked as read")
}

// UnreadCount handles GET /notification/user/{userId}/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifService.GetUnreadCount(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		log.Printf("[ERROR] Get unread count: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, model.UnreadCountResponse{Count: count})
}

// Delete handles DELETE /notification/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notifService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.Printf("[ERROR] Delete notification: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Notification deleted successfully")
}

// RegisterToken handles POST /devices/token
func (h *NotificationHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Token != "" && !service.IsExpoPushToken(req.Token) {
		httputil.WriteBadRequest(w, "Invalid Expo push token")
		return
	}

	if err := h.notifService.RegisterDeviceToken(r.Context(), req.UserID, req.Token, req.Platform); err != nil {
		log.Printf("[ERROR] Register device token: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Device token registered")
}

// RemoveToken handles DELETE /devices/token
func (h *NotificationHandler) RemoveToken(w http.ResponseWriter, r *http.Request) {
	var req model.RemoveTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.notifService.RemoveDeviceToken(r.Context(), req.Token); err != nil {
		log.Printf("[ERROR] Remove device token: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Device token removed")
}
