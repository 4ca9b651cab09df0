package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"devicepulse/internal/httputil"
	"devicepulse/internal/model"
	"devicepulse/internal/service"
)

// DeviceHandler groups device HTTP endpoints.
type DeviceHandler struct {
	deviceService *service.DeviceService
}

func NewDeviceHandler(deviceService *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

// List handles GET /devices
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.deviceService.GetAll(r.Context())
	if err != nil {
		log.Printf("[ERROR] List devices: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, devices)
}

// Create handles POST /devices as a create-or-update keyed by the
// submitted device identifier. When a record with that identifier already
// exists, its fields and timestamps are refreshed instead of inserting a
// duplicate; the earliest-created match wins when duplicates exist.
func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	existing, err := h.deviceService.GetByDeviceID(r.Context(), req.DeviceID)
	if err != nil {
		log.Printf("[ERROR] Upsert device lookup: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	if len(existing) > 0 {
		device, err := h.deviceService.Refresh(r.Context(), existing[0].ID, &req)
		if err != nil {
			log.Printf("[ERROR] Upsert device update: %v", err)
			httputil.WriteServiceError(w, err)
			return
		}

		httputil.WriteDataMessage(w, http.StatusCreated, device, "Device updated")
		return
	}

	device, err := h.deviceService.Create(r.Context(), &req)
	if err != nil {
		log.Printf("[ERROR] Create device: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteDataMessage(w, http.StatusCreated, device, "Device created")
}

// GetByID handles GET /devices/{id}
func (h *DeviceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	device, err := h.deviceService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, device)
}

// UpdateStatus handles PUT /devices/{id}/status
func (h *DeviceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	device, err := h.deviceService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		log.Printf("[ERROR] Update device status: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, device)
}

// UpdateMetrics handles PUT /devices/{id}/metrics
func (h *DeviceHandler) UpdateMetrics(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	device, err := h.deviceService.UpdateMetrics(r.Context(), chi.URLParam(r, "id"), req.Metrics)
	if err != nil {
		log.Printf("[ERROR] Update device metrics: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, device)
}

// Delete handles DELETE /devices/{id}
func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.deviceService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.Printf("[ERROR] Delete device: %v", err)
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Device deleted successfully")
}

// ListByStatus handles GET /devices/status/{status}
func (h *DeviceHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	devices, err := h.deviceService.GetByStatus(r.Context(), chi.URLParam(r, "status"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, devices)
}

// ListByType handles GET /devices/type/{type}
func (h *DeviceHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	devices, err := h.deviceService.GetByType(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		httputil.WriteServiceError(w, err)
		return
	}

	httputil.WriteData(w, http.StatusOK, devices)
}
