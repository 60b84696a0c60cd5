package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"cms-admin/internal/models"
	"cms-admin/internal/repository"
)

func exportFixtures() []models.Complaint {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return []models.Complaint{
		{
			ComplaintCode: "CMP-20260310-0001", Summary: "Damaged parcel",
			Status: models.StatusInProgress, Priority: models.PriorityHigh, Channel: models.ChannelWeb,
			CustomerName: "Ada Lovelace", CustomerEmail: "ada@example.com",
			AssignedName: "Agent Smith", DueDate: &due,
			CreatedAt: time.Date(2026, 3, 10, 14, 22, 5, 0, time.UTC),
		},
		{
			ComplaintCode: "CMP-20260311-0002", Summary: "Wrong invoice amount",
			Status: models.StatusNew, Priority: models.PriorityMedium, Channel: models.ChannelEmail,
			CustomerName: "Grace Hopper", CustomerEmail: "grace@example.com",
			CreatedAt: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportCSV(t *testing.T) {
	var gotFilter repository.ComplaintFilter
	router := complaintRouter(fakeComplaints{
		listFn: func(ctx context.Context, f repository.ComplaintFilter, uid string) ([]models.Complaint, error) {
			gotFilter = f
			return exportFixtures(), nil
		},
	})

	resp := doJSON(t, router, http.MethodGet, "/api/complaints/export?format=csv&assigned=all&limit=1", nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotFilter.Limit != 0 {
		t.Fatalf("exports must be uncapped, got limit %d", gotFilter.Limit)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "complaints-export-") {
		t.Fatalf("unexpected content disposition: %q", cd)
	}

	records, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "Code" || records[0][9] != "Created At" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][0] != "CMP-20260310-0001" || records[2][0] != "CMP-20260311-0002" {
		t.Fatalf("unexpected codes: %v / %v", records[1][0], records[2][0])
	}
	if records[1][8] != "2026-04-01" {
		t.Fatalf("expected due date 2026-04-01, got %q", records[1][8])
	}
	if records[2][8] != "" {
		t.Fatalf("missing due date should be empty, got %q", records[2][8])
	}
}

func TestExportJSONEnvelope(t *testing.T) {
	router := complaintRouter(fakeComplaints{
		listFn: func(ctx context.Context, f repository.ComplaintFilter, uid string) ([]models.Complaint, error) {
			return exportFixtures(), nil
		},
	})

	resp := doJSON(t, router, http.MethodGet, "/api/complaints/export?format=json&status=triage&assigned=all", nil)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var out struct {
		GeneratedAt string             `json:"generated_at"`
		Filters     map[string]string  `json:"filters"`
		Data        []models.Complaint `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, out.GeneratedAt); err != nil {
		t.Fatalf("generated_at is not RFC3339: %q", out.GeneratedAt)
	}
	if out.Filters["status"] != "triage" || out.Filters["assigned"] != "all" {
		t.Fatalf("unexpected filters: %+v", out.Filters)
	}
	if len(out.Data) != 2 || out.Data[0].ComplaintCode != "CMP-20260310-0001" {
		t.Fatalf("unexpected data: %+v", out.Data)
	}
}

// Both formats run the same query, so the same filter yields the same rows.
func TestExportFormatsAgreeOnRows(t *testing.T) {
	router := complaintRouter(fakeComplaints{
		listFn: func(ctx context.Context, f repository.ComplaintFilter, uid string) ([]models.Complaint, error) {
			return exportFixtures(), nil
		},
	})

	csvResp := doJSON(t, router, http.MethodGet, "/api/complaints/export?format=csv&assigned=all", nil)
	records, err := csv.NewReader(csvResp.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	var csvCodes []string
	for _, rec := range records[1:] {
		csvCodes = append(csvCodes, rec[0])
	}

	jsonResp := doJSON(t, router, http.MethodGet, "/api/complaints/export?format=json&assigned=all", nil)
	var out struct {
		Data []models.Complaint `json:"data"`
	}
	if err := json.NewDecoder(jsonResp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	var jsonCodes []string
	for _, c := range out.Data {
		jsonCodes = append(jsonCodes, c.ComplaintCode)
	}

	if strings.Join(csvCodes, ",") != strings.Join(jsonCodes, ",") {
		t.Fatalf("formats disagree: csv=%v json=%v", csvCodes, jsonCodes)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	router := complaintRouter(fakeComplaints{})

	resp := doJSON(t, router, http.MethodGet, "/api/complaints/export?format=xml", nil)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
