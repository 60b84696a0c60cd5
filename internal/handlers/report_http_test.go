package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"cms-admin/internal/models"
)

func TestMetricsPassthrough(t *testing.T) {
	router := complaintRouter(fakeComplaints{
		metricsFn: func(ctx context.Context, uid string) (models.ComplaintMetrics, error) {
			if uid != "user-1" {
				t.Fatalf("expected metrics scoped to user-1, got %q", uid)
			}
			return models.ComplaintMetrics{Total: 42, Open: 10, Overdue: 3, ResolvedMonth: 12, MyOpen: 4, LoggedToday: 2}, nil
		},
	})

	resp := doJSON(t, router, http.MethodGet, "/api/complaints/metrics", nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var m models.ComplaintMetrics
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if m.Total != 42 || m.MyOpen != 4 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestMetricsDegradeToZeros(t *testing.T) {
	router := complaintRouter(fakeComplaints{
		metricsFn: func(ctx context.Context, uid string) (models.ComplaintMetrics, error) {
			return models.ComplaintMetrics{}, errors.New("connection refused")
		},
	})

	resp := doJSON(t, router, http.MethodGet, "/api/complaints/metrics", nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("metrics must not fail the dashboard, got %d", resp.Code)
	}
	var m models.ComplaintMetrics
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if m != (models.ComplaintMetrics{}) {
		t.Fatalf("expected all-zero counters, got %+v", m)
	}
}

func TestBreakdownByStatus(t *testing.T) {
	router := complaintRouter(fakeComplaints{
		breakFn: func(ctx context.Context, dimension string) ([]models.BreakdownRow, error) {
			if dimension != "status" {
				t.Fatalf("expected dimension status, got %q", dimension)
			}
			return []models.BreakdownRow{{Label: "new", Count: 5}, {Label: "triage", Count: 2}}, nil
		},
	})

	resp := doJSON(t, router, http.MethodGet, "/api/complaints/breakdown?by=status", nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var out struct {
		Rows []models.BreakdownRow `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.Rows) != 2 || out.Rows[0].Label != "new" {
		t.Fatalf("unexpected rows: %+v", out.Rows)
	}
}

func TestBreakdownUnknownDimensionIsEmpty(t *testing.T) {
	router := complaintRouter(fakeComplaints{
		breakFn: func(ctx context.Context, dimension string) ([]models.BreakdownRow, error) {
			return []models.BreakdownRow{}, nil
		},
	})

	resp := doJSON(t, router, http.MethodGet, "/api/complaints/breakdown?by=channel", nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var out struct {
		Rows []models.BreakdownRow `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Rows == nil || len(out.Rows) != 0 {
		t.Fatalf("expected empty rows, got %s", resp.Body.String())
	}
}
