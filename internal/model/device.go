package model

import (
	"errors"
	"time"
)

// Device statuses
const (
	DeviceStatusOnline      = "online"
	DeviceStatusOffline     = "offline"
	DeviceStatusMaintenance = "maintenance"
)

// Location is an optional device position.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Device represents a device record in the devices collection.
// Metrics holds arbitrary numeric readings (temperature, humidity, battery...).
type Device struct {
	ID        string             `bson:"_id" json:"id"`
	DeviceID  string             `bson:"device_id" json:"device_id"`
	Name      string             `bson:"name" json:"name"`
	Type      string             `bson:"type" json:"type"`
	Status    string             `bson:"status" json:"status"`
	LastPing  time.Time          `bson:"lastPing" json:"last_ping"`
	Metrics   map[string]float64 `bson:"metrics,omitempty" json:"metrics,omitempty"`
	Location  *Location          `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}

// CreateDeviceRequest is the request body for the device upsert endpoint.
type CreateDeviceRequest struct {
	DeviceID string             `json:"device_id"`
	Name     string             `json:"name"`
	Type     string             `json:"type"`
	Status   string             `json:"status"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Location *Location          `json:"location,omitempty"`
}

// UpdateDeviceRequest carries the optional fields of a partial device update.
type UpdateDeviceRequest struct {
	Name     *string            `json:"name"`
	Type     *string            `json:"type"`
	Status   *string            `json:"status"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Location *Location          `json:"location,omitempty"`
}

// UpdateMetricsRequest is the request body for the metrics endpoint.
type UpdateMetricsRequest struct {
	Metrics map[string]float64 `json:"metrics"`
}

var (
	// ErrDeviceNotFound is returned when a device cannot be found
	ErrDeviceNotFound = errors.New("device not found")
)

// ValidDeviceStatus reports whether s is one of the known device statuses.
func ValidDeviceStatus(s string) bool {
	switch s {
	case DeviceStatusOnline, DeviceStatusOffline, DeviceStatusMaintenance:
		return true
	}
	return false
}
