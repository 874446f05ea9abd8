package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	aggdomain "event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/events/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type fakeStoreEventUseCase struct {
	ExecuteFunc         func(ctx context.Context, in usecase.StoreEventInput) error
	BulkCreateFunc      func(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error)
	LastExecuteInput    usecase.StoreEventInput
	LastBulkCreateInput usecase.BulkCreateEventsInput
	executeCalled       bool
}

func (f *fakeStoreEventUseCase) Execute(ctx context.Context, in usecase.StoreEventInput) error {
	f.executeCalled = true
	f.LastExecuteInput = in
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, in)
	}
	return nil
}

func (f *fakeStoreEventUseCase) BulkCreateEvents(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error) {
	f.LastBulkCreateInput = in
	if f.BulkCreateFunc != nil {
		return f.BulkCreateFunc(ctx, in)
	}
	return usecase.BulkCreateEventsResult{Created: len(in.Events)}, nil
}

type fakeObserver struct {
	total int
}

func (o *fakeObserver) AddEventsIngested(n int) {
	o.total += n
}

// helper: create fiber app and routes
func setupTestApp(uc StoreEventUseCase, obs IngestObserver) *fiber.App {
	app := fiber.New()
	h := NewEventHandler(uc, obs)

	app.Post("/events", h.CreateEvent)
	app.Post("/events/bulk", h.BulkCreateEvents)

	return app
}

// helper: send request
func doRequest(t *testing.T, app *fiber.App, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf io.Reader
	switch b := body.(type) {
	case string:
		buf = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	var out map[string]any
	if err := json.Unmarshal(respBody, &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", respBody, err)
	}
	return resp, out
}

// ------------------------------------------------------------
// CREATE EVENT
// ------------------------------------------------------------

func TestCreateEvent_Success(t *testing.T) {
	uc := &fakeStoreEventUseCase{}
	obs := &fakeObserver{}
	app := setupTestApp(uc, obs)

	resp, body := doRequest(t, app, "/events", `{"dt":"2022-09-01T00:00:00","value":42}`)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body: %v)", http.StatusCreated, resp.StatusCode, body)
	}
	if body["status"] != "created" {
		t.Errorf("expected status=created, got %v", body["status"])
	}
	if uc.LastExecuteInput.Dt != "2022-09-01T00:00:00" {
		t.Errorf("unexpected dt: %s", uc.LastExecuteInput.Dt)
	}
	if uc.LastExecuteInput.Value == nil || *uc.LastExecuteInput.Value != 42 {
		t.Errorf("unexpected value: %v", uc.LastExecuteInput.Value)
	}
	if obs.total != 1 {
		t.Errorf("expected 1 ingested event, got %d", obs.total)
	}
}

func TestCreateEvent_MissingValueReachesUseCaseAsNil(t *testing.T) {
	uc := &fakeStoreEventUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.StoreEventInput) error {
			if in.Value != nil {
				t.Fatalf("expected nil value")
			}
			return fmt.Errorf("%w: value is required", usecase.ErrInvalidEvent)
		},
	}
	obs := &fakeObserver{}
	app := setupTestApp(uc, obs)

	resp, body := doRequest(t, app, "/events", `{"dt":"2022-09-01T00:00:00"}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if body["error"] != "invalid_event" {
		t.Errorf("expected error=invalid_event, got %v", body["error"])
	}
	if body["message"] != "invalid event: value is required" {
		t.Errorf("unexpected message: %v", body["message"])
	}
	if obs.total != 0 {
		t.Errorf("expected no ingested events, got %d", obs.total)
	}
}

func TestCreateEvent_InvalidJSON(t *testing.T) {
	uc := &fakeStoreEventUseCase{}
	app := setupTestApp(uc, nil)

	resp, body := doRequest(t, app, "/events", `{"dt":`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if body["error"] != "invalid_json" {
		t.Errorf("expected error=invalid_json, got %v", body["error"])
	}
	if uc.executeCalled {
		t.Errorf("usecase must not be called for invalid json")
	}
}

func TestCreateEvent_StoreErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"store unavailable", fmt.Errorf("%w: %w", aggdomain.ErrStoreUnavailable, errors.New("timeout")), http.StatusServiceUnavailable, "store_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeStoreEventUseCase{
				ExecuteFunc: func(ctx context.Context, in usecase.StoreEventInput) error {
					return tt.err
				},
			}
			app := setupTestApp(uc, nil)

			resp, body := doRequest(t, app, "/events", `{"dt":"2022-09-01T00:00:00","value":1}`)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if body["error"] != tt.wantError {
				t.Errorf("expected error=%s, got %v", tt.wantError, body["error"])
			}
		})
	}
}

// ------------------------------------------------------------
// BULK
// ------------------------------------------------------------

func TestBulkCreateEvents_Success(t *testing.T) {
	uc := &fakeStoreEventUseCase{}
	obs := &fakeObserver{}
	app := setupTestApp(uc, obs)

	one, two := 1.0, 2.5
	req := BulkCreateEventsRequest{Events: []CreateEventRequest{
		{Dt: "2022-09-01T00:00:00", Value: &one},
		{Dt: "2022-09-01T01:00:00", Value: &two},
	}}

	resp, body := doRequest(t, app, "/events/bulk", req)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body: %v)", http.StatusCreated, resp.StatusCode, body)
	}
	if body["created"] != float64(2) {
		t.Errorf("expected created=2, got %v", body["created"])
	}
	if len(uc.LastBulkCreateInput.Events) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(uc.LastBulkCreateInput.Events))
	}
	if *uc.LastBulkCreateInput.Events[1].Value != 2.5 {
		t.Errorf("unexpected second value: %v", *uc.LastBulkCreateInput.Events[1].Value)
	}
	if obs.total != 2 {
		t.Errorf("expected 2 ingested events, got %d", obs.total)
	}
}

func TestBulkCreateEvents_EmptyEvents(t *testing.T) {
	uc := &fakeStoreEventUseCase{}
	app := setupTestApp(uc, nil)

	resp, body := doRequest(t, app, "/events/bulk", `{"events":[]}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if body["error"] != "events_list_required" {
		t.Errorf("expected error=events_list_required, got %v", body["error"])
	}
}

func TestBulkCreateEvents_InvalidJSON(t *testing.T) {
	uc := &fakeStoreEventUseCase{}
	app := setupTestApp(uc, nil)

	resp, body := doRequest(t, app, "/events/bulk", `not json`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if body["error"] != "invalid_json" {
		t.Errorf("expected error=invalid_json, got %v", body["error"])
	}
}

func TestBulkCreateEvents_ValidationError(t *testing.T) {
	uc := &fakeStoreEventUseCase{
		BulkCreateFunc: func(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error) {
			return usecase.BulkCreateEventsResult{}, fmt.Errorf("events[1]: %w", usecase.ErrInvalidEvent)
		},
	}
	obs := &fakeObserver{}
	app := setupTestApp(uc, obs)

	resp, body := doRequest(t, app, "/events/bulk", `{"events":[{"dt":"2022-09-01T00:00:00","value":1},{"dt":"bad","value":2}]}`)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
	if body["error"] != "invalid_event" {
		t.Errorf("expected error=invalid_event, got %v", body["error"])
	}
	if obs.total != 0 {
		t.Errorf("expected no ingested events, got %d", obs.total)
	}
}

func TestBulkCreateEvents_InternalError(t *testing.T) {
	uc := &fakeStoreEventUseCase{
		BulkCreateFunc: func(ctx context.Context, in usecase.BulkCreateEventsInput) (usecase.BulkCreateEventsResult, error) {
			return usecase.BulkCreateEventsResult{}, errors.New("boom")
		},
	}
	app := setupTestApp(uc, nil)

	resp, body := doRequest(t, app, "/events/bulk", `{"events":[{"dt":"2022-09-01T00:00:00","value":1}]}`)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, resp.StatusCode)
	}
	if body["error"] != "internal_server_error" {
		t.Errorf("expected error=internal_server_error, got %v", body["error"])
	}
}
