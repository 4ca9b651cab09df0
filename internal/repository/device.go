package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"devicepulse/internal/model"
)

const devicesCollection = "devices"

// deviceRepository implements DeviceRepository over a MongoDB collection
type deviceRepository struct {
	coll *mongo.Collection
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *mongo.Database) DeviceRepository {
	return &deviceRepository{coll: db.Collection(devicesCollection)}
}

// Create inserts a new device, assigning its document ID.
func (r *deviceRepository) Create(ctx context.Context, d *model.Device) error {
	d.ID = uuid.NewString()

	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to insert device: %w", err)
	}
	return nil
}

// GetAll returns every device, newest first.
func (r *deviceRepository) GetAll(ctx context.Context) ([]model.Device, error) {
	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	devices := []model.Device{}
	if err := cur.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

// GetByID retrieves a device by document ID.
func (r *deviceRepository) GetByID(ctx context.Context, id string) (*model.Device, error) {
	var d model.Device
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device by id: %w", err)
	}
	return &d, nil
}

// Update applies a partial $set to a device document.
func (r *deviceRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}
	return nil
}

// Delete removes a device document. Deleting an absent id is not an error.
func (r *deviceRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return nil
}

// GetByStatus returns devices with the given status, most recent ping first.
func (r *deviceRepository) GetByStatus(ctx context.Context, status string) ([]model.Device, error) {
	cur, err := r.coll.Find(ctx, bson.M{"status": status},
		options.Find().SetSort(bson.D{{Key: "lastPing", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get devices by status: %w", err)
	}

	devices := []model.Device{}
	if err := cur.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

// GetByDeviceID returns devices matching a device identifier, earliest
// created first. The upsert updates the first match, so ordering here is
// the tie-break when duplicates exist.
func (r *deviceRepository) GetByDeviceID(ctx context.Context, deviceID string) ([]model.Device, error) {
	cur, err := r.coll.Find(ctx, bson.M{"device_id": deviceID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get devices by device id: %w", err)
	}

	devices := []model.Device{}
	if err := cur.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

// GetByType returns devices matching a device identifier for the read
// route, newest created first.
func (r *deviceRepository) GetByType(ctx context.Context, deviceType string) ([]model.Device, error) {
	cur, err := r.coll.Find(ctx, bson.M{"device_id": deviceType},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to get devices by type: %w", err)
	}

	devices := []model.Device{}
	if err := cur.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

// IsEmpty reports whether the devices collection has no documents.
func (r *deviceRepository) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check collection: %w", err)
	}
	return count == 0, nil
}
