package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"cms-admin/internal/models"
	"cms-admin/internal/repository"
)

// memComplaints is a stateful in-memory register used to walk a complaint
// through its whole lifecycle over HTTP.
type memComplaints struct {
	seq      int
	byID     map[string]*models.Complaint
	timeline map[string][]models.ComplaintUpdate
	now      time.Time
}

func newMemComplaints(now time.Time) *memComplaints {
	return &memComplaints{
		byID:     map[string]*models.Complaint{},
		timeline: map[string][]models.ComplaintUpdate{},
		now:      now,
	}
}

func (m *memComplaints) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memComplaints) append(id, kind, text, before, after, actor string) {
	m.timeline[id] = append(m.timeline[id], models.ComplaintUpdate{
		ID:           fmt.Sprintf("u-%d", len(m.timeline[id])+1),
		ComplaintID:  id,
		UpdateType:   kind,
		UpdateText:   text,
		StatusBefore: before,
		StatusAfter:  after,
		AddedBy:      actor,
		CreatedAt:    m.now,
	})
}

func (m *memComplaints) List(ctx context.Context, f repository.ComplaintFilter, uid string) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range m.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memComplaints) Get(ctx context.Context, id string) (*models.Complaint, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrComplaintNotFound
	}
	cp := *c
	cp.Updates = append([]models.ComplaintUpdate{}, m.timeline[id]...)
	return &cp, nil
}

func (m *memComplaints) Create(ctx context.Context, in repository.CreateComplaintInput) (*models.Complaint, error) {
	now := m.tick()
	var last string
	if m.seq > 0 {
		last = fmt.Sprintf("%s-%04d", repository.CodePrefix(now), m.seq)
	}
	m.seq++

	c := &models.Complaint{
		ID:            fmt.Sprintf("c-%d", m.seq),
		ComplaintCode: repository.NextComplaintCode(last, now),
		Channel:       in.Channel,
		Priority:      in.Priority,
		Status:        in.Status,
		Summary:       in.Summary,
		CustomerName:  in.CustomerName,
		AssignedTo:    in.AssignedTo,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
		DueDate:       in.DueDate,
	}
	m.byID[c.ID] = c
	if strings.TrimSpace(in.InitialNote) != "" {
		m.append(c.ID, models.UpdateTypeNote, in.InitialNote, "", "", in.CreatedBy)
	}
	return c, nil
}

func (m *memComplaints) UpdateStatus(ctx context.Context, id, status, comment, actorID string) (*models.Complaint, error) {
	if !models.ValidStatus(status) {
		return nil, repository.ErrInvalidStatus
	}
	c, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrComplaintNotFound
	}
	before := c.Status
	c.ApplyStatusChange(status, actorID, m.tick())
	m.append(id, models.UpdateTypeStatusChange, comment, before, status, actorID)
	return m.Get(ctx, id)
}

func (m *memComplaints) Assign(ctx context.Context, id, assigneeID, note, actorID string) (*models.Complaint, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrComplaintNotFound
	}
	c.AssignedTo = assigneeID
	c.UpdatedBy = actorID
	c.UpdatedAt = m.tick()
	m.append(id, models.UpdateTypeAssignment, note, "", "", actorID)
	return m.Get(ctx, id)
}

func (m *memComplaints) AddNote(ctx context.Context, id, text string, internalOnly bool, actorID string) (*models.ComplaintUpdate, error) {
	if _, ok := m.byID[id]; !ok {
		return nil, repository.ErrComplaintNotFound
	}
	m.tick()
	m.append(id, models.UpdateTypeNote, text, "", "", actorID)
	entries := m.timeline[id]
	return &entries[len(entries)-1], nil
}

func (m *memComplaints) Metrics(ctx context.Context, uid string) (models.ComplaintMetrics, error) {
	return models.ComplaintMetrics{}, nil
}

func (m *memComplaints) Breakdown(ctx context.Context, dimension string) ([]models.BreakdownRow, error) {
	return []models.BreakdownRow{}, nil
}

var codePattern = regexp.MustCompile(`^CMP-\d{8}-\d{4}$`)

func TestComplaintLifecycle(t *testing.T) {
	store := newMemComplaints(time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC))
	router := complaintRouter(store)

	// Intake.
	resp := doJSON(t, router, http.MethodPost, "/api/complaints", map[string]string{
		"summary":      "Package arrived opened",
		"customerName": "Ada Lovelace",
		"priority":     "high",
		"channel":      "phone",
		"initialNote":  "customer called at 8am",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("intake failed: %d %s", resp.Code, resp.Body.String())
	}
	var created models.Complaint
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if !codePattern.MatchString(created.ComplaintCode) {
		t.Fatalf("bad complaint code %q", created.ComplaintCode)
	}
	if created.Status != models.StatusNew {
		t.Fatalf("expected status new, got %q", created.Status)
	}

	id := created.ID
	fetch := func() models.Complaint {
		t.Helper()
		resp := doJSON(t, router, http.MethodGet, "/api/complaints/"+id, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("get failed: %d", resp.Code)
		}
		var c models.Complaint
		if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
			t.Fatalf("decode complaint: %v", err)
		}
		return c
	}

	// Triage, then pick it up.
	for _, status := range []string{models.StatusTriage, models.StatusInProgress} {
		resp = doJSON(t, router, http.MethodPost, "/api/complaints/"+id+"/status", map[string]string{
			"status": status,
		})
		if resp.Code != http.StatusOK {
			t.Fatalf("status change to %s failed: %d", status, resp.Code)
		}
	}

	// Hand it to an agent.
	resp = doJSON(t, router, http.MethodPost, "/api/complaints/"+id+"/assign", map[string]string{
		"assignedTo": "agent-3",
		"note":       "taking this one",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("assign failed: %d", resp.Code)
	}

	// Work note.
	resp = doJSON(t, router, http.MethodPost, "/api/complaints/"+id+"/notes", map[string]any{
		"text": "replacement shipped", "internalOnly": false,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("note failed: %d", resp.Code)
	}

	// Resolve.
	resp = doJSON(t, router, http.MethodPost, "/api/complaints/"+id+"/status", map[string]string{
		"status": models.StatusResolved, "comment": "customer confirmed delivery",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("resolve failed: %d", resp.Code)
	}

	c := fetch()
	if c.ResolvedAt == nil {
		t.Fatal("resolved_at not set after resolving")
	}
	resolvedAt := *c.ResolvedAt

	// Close.
	resp = doJSON(t, router, http.MethodPost, "/api/complaints/"+id+"/status", map[string]string{
		"status": models.StatusClosed,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("close failed: %d", resp.Code)
	}

	c = fetch()
	if c.Status != models.StatusClosed {
		t.Fatalf("expected closed, got %q", c.Status)
	}
	if c.ClosedAt == nil {
		t.Fatal("closed_at not set")
	}
	if c.ResolvedAt == nil || !c.ResolvedAt.After(resolvedAt) {
		t.Fatalf("closing should restamp resolved_at: was %v, now %v", resolvedAt, c.ResolvedAt)
	}

	// Timeline: initial note, 2 triage/progress changes, assignment, work
	// note, resolve, close.
	if len(c.Updates) != 7 {
		t.Fatalf("expected 7 timeline entries, got %d: %+v", len(c.Updates), c.Updates)
	}
	var statusChanges int
	for _, u := range c.Updates {
		if u.UpdateType == models.UpdateTypeStatusChange {
			statusChanges++
		}
	}
	if statusChanges != 4 {
		t.Fatalf("expected 4 status changes in timeline, got %d", statusChanges)
	}
}
