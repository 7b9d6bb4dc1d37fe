package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type mockDB struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockDB) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

var testOptions = Options{
	AllowedOrigins: []string{"http://localhost:5500"},
	SiteName:       "LoumShoes",
}

func TestHealth_OK(t *testing.T) {
	h := New(&mockDB{}, testOptions)
	h.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "OK" {
		t.Errorf("expected status=OK, got %q", resp.Status)
	}
	if resp.Message != "LoumShoes server online" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if !resp.Timestamp.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timestamp %v", resp.Timestamp)
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	h := New(&mockDB{
		pingFunc: func(ctx context.Context) error {
			return errors.New("connection refused")
		},
	}, testOptions)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "unhealthy" {
		t.Errorf("expected status=unhealthy, got %q", resp.Status)
	}
	if resp.Message != "connection refused" {
		t.Errorf("expected ping error as message, got %q", resp.Message)
	}
}

func TestHealth_UnhealthyProductionHidesDetail(t *testing.T) {
	opts := testOptions
	opts.Production = true
	h := New(&mockDB{
		pingFunc: func(ctx context.Context) error {
			return errors.New("dial tcp 10.0.3.12:5432: connect: connection refused")
		},
	}, opts)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	var resp healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "store unavailable" {
		t.Errorf("expected generic message, got %q", resp.Message)
	}
}
