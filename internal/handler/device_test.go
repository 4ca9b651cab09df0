package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"devicepulse/internal/model"
	"devicepulse/internal/service"
)

// fakeDeviceRepository is an in-memory devices collection preserving
// insertion order, so the upsert's earliest-created tie-break is
// observable.
type fakeDeviceRepository struct {
	mu      sync.Mutex
	devices []*model.Device
	nextID  int
}

func (f *fakeDeviceRepository) Create(ctx context.Context, d *model.Device) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	d.ID = fmt.Sprintf("d-%d", f.nextID)
	clone := *d
	f.devices = append(f.devices, &clone)
	return nil
}

func (f *fakeDeviceRepository) GetAll(ctx context.Context) ([]model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Device, 0, len(f.devices))
	for i := len(f.devices) - 1; i >= 0; i-- {
		out = append(out, *f.devices[i])
	}
	return out, nil
}

func (f *fakeDeviceRepository) GetByID(ctx context.Context, id string) (*model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.devices {
		if d.ID == id {
			clone := *d
			return &clone, nil
		}
	}
	return nil, model.ErrDeviceNotFound
}

func (f *fakeDeviceRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.devices {
		if d.ID != id {
			continue
		}
		if v, ok := fields["name"].(string); ok {
			d.Name = v
		}
		if v, ok := fields["type"].(string); ok {
			d.Type = v
		}
		if v, ok := fields["status"].(string); ok {
			d.Status = v
		}
		if v, ok := fields["metrics"].(map[string]float64); ok {
			d.Metrics = v
		}
		return nil
	}
	return nil
}

func (f *fakeDeviceRepository) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.devices {
		if d.ID == id {
			f.devices = append(f.devices[:i], f.devices[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeDeviceRepository) GetByStatus(ctx context.Context, status string) ([]model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Device{}
	for _, d := range f.devices {
		if d.Status == status {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeviceRepository) GetByDeviceID(ctx context.Context, deviceID string) ([]model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Device{}
	for _, d := range f.devices { // insertion order = creation order
		if d.DeviceID == deviceID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeviceRepository) GetByType(ctx context.Context, deviceType string) ([]model.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Device{}
	for i := len(f.devices) - 1; i >= 0; i-- { // newest first for reads
		if f.devices[i].DeviceID == deviceType {
			out = append(out, *f.devices[i])
		}
	}
	return out, nil
}

func (f *fakeDeviceRepository) IsEmpty(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.devices) == 0, nil
}

func (f *fakeDeviceRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.devices)
}

func postDevice(t *testing.T, h *DeviceHandler, body model.CreateDeviceRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/devices", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func decodeUpsert(t *testing.T, rec *httptest.ResponseRecorder) (model.Device, string) {
	t.Helper()
	var resp struct {
		Success bool         `json:"success"`
		Data    model.Device `json:"data"`
		Message string       `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	if !resp.Success {
		t.Fatalf("expected success envelope, got: %s", rec.Body.String())
	}
	return resp.Data, resp.Message
}

func TestDeviceHandler_Create_InsertsNewDevice(t *testing.T) {
	repo := &fakeDeviceRepository{}
	h := NewDeviceHandler(service.NewDeviceService(repo))

	rec := postDevice(t, h, model.CreateDeviceRequest{
		DeviceID: "sensor-42",
		Name:     "Greenhouse sensor",
		Type:     "sensor",
		Status:   model.DeviceStatusOnline,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.count() != 1 {
		t.Fatalf("expected one device, got %d", repo.count())
	}
	if _, message := decodeUpsert(t, rec); message != "Device created" {
		t.Fatalf("expected %q message, got %q", "Device created", message)
	}
}

func TestDeviceHandler_Create_UpsertsExistingDevice(t *testing.T) {
	repo := &fakeDeviceRepository{}
	h := NewDeviceHandler(service.NewDeviceService(repo))

	postDevice(t, h, model.CreateDeviceRequest{
		DeviceID: "sensor-42",
		Name:     "Greenhouse sensor",
		Type:     "sensor",
		Status:   model.DeviceStatusOnline,
	})

	// Re-submitting the same device identifier must update, not insert.
	rec := postDevice(t, h, model.CreateDeviceRequest{
		DeviceID: "sensor-42",
		Status:   model.DeviceStatusMaintenance,
		Metrics:  map[string]float64{"battery": 12},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if repo.count() != 1 {
		t.Fatalf("device count grew on upsert: got %d", repo.count())
	}
	if _, message := decodeUpsert(t, rec); message != "Device updated" {
		t.Fatalf("expected %q message, got %q", "Device updated", message)
	}

	updated, err := repo.GetByDeviceID(context.Background(), "sensor-42")
	if err != nil {
		t.Fatal(err)
	}
	if updated[0].Status != model.DeviceStatusMaintenance {
		t.Fatalf("expected refreshed status, got %q", updated[0].Status)
	}
	if updated[0].Metrics["battery"] != 12 {
		t.Fatalf("expected refreshed metrics, got %v", updated[0].Metrics)
	}
	if updated[0].Name != "Greenhouse sensor" {
		t.Fatalf("unsubmitted fields must be preserved, got %q", updated[0].Name)
	}
}

func TestDeviceHandler_Create_UpsertUpdatesEarliestDuplicate(t *testing.T) {
	repo := &fakeDeviceRepository{}
	h := NewDeviceHandler(service.NewDeviceService(repo))

	// Two records with the same identifier (legacy duplicates).
	svc := service.NewDeviceService(repo)
	first, err := svc.Create(context.Background(), &model.CreateDeviceRequest{DeviceID: "dup", Status: model.DeviceStatusOffline})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(context.Background(), &model.CreateDeviceRequest{DeviceID: "dup", Status: model.DeviceStatusOffline}); err != nil {
		t.Fatal(err)
	}

	postDevice(t, h, model.CreateDeviceRequest{DeviceID: "dup", Status: model.DeviceStatusOnline})

	got, err := repo.GetByID(context.Background(), first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.DeviceStatusOnline {
		t.Fatalf("the earliest-created duplicate must be the one updated, got %q", got.Status)
	}
}

func TestDeviceHandler_ListByType_NewestFirst(t *testing.T) {
	repo := &fakeDeviceRepository{}
	svc := service.NewDeviceService(repo)
	h := NewDeviceHandler(svc)

	first, err := svc.Create(context.Background(), &model.CreateDeviceRequest{DeviceID: "dup"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(context.Background(), &model.CreateDeviceRequest{DeviceID: "dup"})
	if err != nil {
		t.Fatal(err)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("type", "dup")
	req := httptest.NewRequest(http.MethodGet, "/devices/type/dup", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	h.ListByType(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data []model.Device `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected both records, got %d", len(resp.Data))
	}
	// Reads order newest first, unlike the upsert's earliest-first lookup.
	if resp.Data[0].ID != second.ID || resp.Data[1].ID != first.ID {
		t.Fatalf("expected newest-first ordering, got [%s %s]", resp.Data[0].ID, resp.Data[1].ID)
	}
}
