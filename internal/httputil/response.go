package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"devicepulse/internal/model"
)

// DataResponse is the success envelope wrapping a payload.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// MessageResponse is the envelope for message-only responses, success or not.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataMessageResponse pairs a payload with a human-readable message.
type DataMessageResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			// Headers already sent, nothing left to do
			return
		}
	}
}

// WriteData writes {"success": true, "data": ...}
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, DataResponse{Success: true, Data: data})
}

// WriteDataMessage writes {"success": true, "data": ..., "message": "..."}
func WriteDataMessage(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, DataMessageResponse{Success: true, Data: data, Message: message})
}

// WriteMessage writes {"success": true, "message": "..."}
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Success: true, Message: message})
}

// WriteError writes {"success": false, "message": "..."}
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, MessageResponse{Success: false, Message: message})
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteServiceError maps a service-layer error to a status code by kind:
// NotFound sentinels become 404, validation errors 400, bad credentials
// 401, and everything else (store or push failures included) 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrDeviceNotFound),
		errors.Is(err, model.ErrNotificationNotFound),
		errors.Is(err, model.ErrDeviceTokenNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrValidation):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrInvalidCredentials):
		WriteUnauthorized(w, err.Error())
	default:
		WriteInternalError(w, err.Error())
	}
}
