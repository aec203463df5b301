package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReportItemLocation(t *testing.T) {
	var got itemLocationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/asset/item-location" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c := New(server.URL)
	if err := c.ReportItemLocation(context.Background(), "ITM-1", "Lab 3"); err != nil {
		t.Fatalf("ReportItemLocation: %v", err)
	}
	if got.ItemID != "ITM-1" || got.TemporaryLocation != "Lab 3" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestReportItemLocationErrorSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": "tracking store unavailable"})
	}))
	t.Cleanup(server.Close)

	c := New(server.URL)
	err := c.ReportItemLocation(context.Background(), "ITM-1", "Lab 3")
	if err == nil {
		t.Fatal("expected error for non-success response")
	}
	if err.Error() != "tracking store unavailable" {
		t.Errorf("expected service message surfaced, got %q", err.Error())
	}
}

func TestReportItemLocationDisabled(t *testing.T) {
	var c *Client
	if err := c.ReportItemLocation(context.Background(), "ITM-1", "Lab 3"); err != nil {
		t.Errorf("nil client should be a no-op, got %v", err)
	}

	c = New("")
	if err := c.ReportItemLocation(context.Background(), "ITM-1", "Lab 3"); err != nil {
		t.Errorf("empty base URL should be a no-op, got %v", err)
	}
}
