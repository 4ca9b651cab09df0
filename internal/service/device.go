package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devicepulse/internal/model"
	"devicepulse/internal/repository"
)

// DeviceService handles business logic for device status operations
type DeviceService struct {
	repo repository.DeviceRepository
}

func NewDeviceService(repo repository.DeviceRepository) *DeviceService {
	return &DeviceService{repo: repo}
}

// Create inserts a new device with a fresh ping and timestamps.
func (s *DeviceService) Create(ctx context.Context, req *model.CreateDeviceRequest) (*model.Device, error) {
	if strings.TrimSpace(req.DeviceID) == "" {
		return nil, fmt.Errorf("%w: device_id is required", model.ErrValidation)
	}
	if req.Status != "" && !model.ValidDeviceStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrValidation, req.Status)
	}

	status := req.Status
	if status == "" {
		status = model.DeviceStatusOffline
	}

	now := time.Now()
	device := &model.Device{
		DeviceID:  req.DeviceID,
		Name:      req.Name,
		Type:      req.Type,
		Status:    status,
		LastPing:  now,
		Metrics:   req.Metrics,
		Location:  req.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	return device, nil
}

// GetAll returns all devices, newest first.
func (s *DeviceService) GetAll(ctx context.Context) ([]model.Device, error) {
	return s.repo.GetAll(ctx)
}

// GetByID retrieves a device by ID.
func (s *DeviceService) GetByID(ctx context.Context, id string) (*model.Device, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus merges partial fields into a device and refreshes the
// update timestamp. An absent id surfaces NotFound via the follow-up read.
func (s *DeviceService) UpdateStatus(ctx context.Context, id string, req *model.UpdateDeviceRequest) (*model.Device, error) {
	if req.Status != nil && !model.ValidDeviceStatus(*req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrValidation, *req.Status)
	}

	fields := map[string]any{
		"updatedAt": time.Now(),
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Metrics != nil {
		fields["metrics"] = req.Metrics
	}
	if req.Location != nil {
		fields["location"] = req.Location
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update device: %w", err)
	}

	return s.repo.GetByID(ctx, id)
}

// Refresh applies a device report onto an existing record: every
// submitted field is merged and both lastPing and updatedAt move forward.
// The upsert handler uses this when the device identifier already exists.
func (s *DeviceService) Refresh(ctx context.Context, id string, req *model.CreateDeviceRequest) (*model.Device, error) {
	if req.Status != "" && !model.ValidDeviceStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrValidation, req.Status)
	}

	now := time.Now()
	fields := map[string]any{
		"lastPing":  now,
		"updatedAt": now,
	}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Type != "" {
		fields["type"] = req.Type
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	if req.Metrics != nil {
		fields["metrics"] = req.Metrics
	}
	if req.Location != nil {
		fields["location"] = req.Location
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update device: %w", err)
	}

	return s.repo.GetByID(ctx, id)
}

// UpdateMetrics replaces a device's metrics and refreshes its last ping.
func (s *DeviceService) UpdateMetrics(ctx context.Context, id string, metrics map[string]float64) (*model.Device, error) {
	fields := map[string]any{
		"metrics":   metrics,
		"lastPing":  time.Now(),
		"updatedAt": time.Now(),
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update device metrics: %w", err)
	}

	return s.repo.GetByID(ctx, id)
}

// Delete removes a device. Deleting an unknown id succeeds.
func (s *DeviceService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// GetByStatus returns devices with the given status, most recent ping first.
func (s *DeviceService) GetByStatus(ctx context.Context, status string) ([]model.Device, error) {
	if !model.ValidDeviceStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", model.ErrValidation, status)
	}
	return s.repo.GetByStatus(ctx, status)
}

// GetByDeviceID returns the records sharing a device identifier,
// earliest created first. The upsert updates the first match, so this
// ordering is its tie-break.
func (s *DeviceService) GetByDeviceID(ctx context.Context, deviceID string) ([]model.Device, error) {
	empty, err := s.repo.IsEmpty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		return []model.Device{}, nil
	}

	return s.repo.GetByDeviceID(ctx, deviceID)
}

// GetByType returns devices matching a device identifier, newest first.
// The emptiness check short-circuits the filtered query on a fresh
// collection; the filter runs on the device_id field, which is what the
// upsert relies on.
func (s *DeviceService) GetByType(ctx context.Context, deviceType string) ([]model.Device, error) {
	empty, err := s.repo.IsEmpty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		return []model.Device{}, nil
	}

	return s.repo.GetByType(ctx, deviceType)
}
