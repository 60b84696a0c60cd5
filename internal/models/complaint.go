package models

import "time"

// Complaint statuses. Closed and cancelled are terminal; any known status may
// be set from any other one (there is no adjacency check, only membership).
const (
	StatusNew              = "new"
	StatusTriage           = "triage"
	StatusInProgress       = "in_progress"
	StatusAwaitingCustomer = "awaiting_customer"
	StatusResolved         = "resolved"
	StatusClosed           = "closed"
	StatusCancelled        = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	ChannelPhone  = "phone"
	ChannelEmail  = "email"
	ChannelWeb    = "web"
	ChannelMobile = "mobile"
	ChannelWalkIn = "walk_in"
	ChannelOther  = "other"
)

// Timeline entry types.
const (
	UpdateTypeNote         = "note"
	UpdateTypeStatusChange = "status_change"
	UpdateTypeAssignment   = "assignment"
	UpdateTypeEscalation   = "escalation"
)

// OpenStatuses are the statuses counted as "open" by the dashboard metrics.
var OpenStatuses = []string{StatusNew, StatusTriage, StatusInProgress, StatusAwaitingCustomer}

// SettledStatuses are excluded from the overdue count.
var SettledStatuses = []string{StatusResolved, StatusClosed, StatusCancelled}

var knownStatuses = map[string]struct{}{
	StatusNew:              {},
	StatusTriage:           {},
	StatusInProgress:       {},
	StatusAwaitingCustomer: {},
	StatusResolved:         {},
	StatusClosed:           {},
	StatusCancelled:        {},
}

func ValidStatus(s string) bool {
	_, ok := knownStatuses[s]
	return ok
}

var knownPriorities = map[string]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
	PriorityUrgent: {},
}

func ValidPriority(p string) bool {
	_, ok := knownPriorities[p]
	return ok
}

var knownChannels = map[string]struct{}{
	ChannelPhone:  {},
	ChannelEmail:  {},
	ChannelWeb:    {},
	ChannelMobile: {},
	ChannelWalkIn: {},
	ChannelOther:  {},
}

func ValidChannel(c string) bool {
	_, ok := knownChannels[c]
	return ok
}

type Complaint struct {
	ID                string     `json:"id"`
	ComplaintCode     string     `json:"complaintCode"`
	Source            string     `json:"source"`
	Channel           string     `json:"channel"`
	CustomerName      string     `json:"customerName"`
	CustomerEmail     string     `json:"customerEmail"`
	CustomerPhone     string     `json:"customerPhone"`
	CustomerReference string     `json:"customerReference"`
	Category          string     `json:"category"`
	Subcategory       string     `json:"subcategory"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	Summary           string     `json:"summary"`
	Description       string     `json:"description"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	AssignedTo        string     `json:"assignedTo"`
	AssignedName      string     `json:"assignedName,omitempty"`
	CreatedBy         string     `json:"createdBy"`
	CreatedName       string     `json:"createdName,omitempty"`
	UpdatedBy         string     `json:"updatedBy,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	ResolvedAt        *time.Time `json:"resolvedAt,omitempty"`
	ClosedAt          *time.Time `json:"closedAt,omitempty"`

	Updates []ComplaintUpdate `json:"updates,omitempty"`
}

// ComplaintUpdate is an append-only timeline entry. Rows are never edited or
// deleted once written; they go away only via cascade with the parent.
type ComplaintUpdate struct {
	ID           string    `json:"id"`
	ComplaintID  string    `json:"complaintId"`
	UpdateType   string    `json:"updateType"`
	UpdateText   string    `json:"updateText"`
	StatusBefore string    `json:"statusBefore,omitempty"`
	StatusAfter  string    `json:"statusAfter,omitempty"`
	InternalOnly bool      `json:"internalOnly"`
	AddedBy      string    `json:"addedBy,omitempty"`
	AddedByName  string    `json:"addedByName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ComplaintMetrics struct {
	Total         int `json:"total"`
	Open          int `json:"open"`
	Overdue       int `json:"overdue"`
	ResolvedMonth int `json:"resolvedMonth"` // trailing 30 days, not calendar month
	MyOpen        int `json:"myOpen"`
	LoggedToday   int `json:"loggedToday"`
}

type BreakdownRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ApplyStatusChange sets the new status and maintains the derived terminal
// timestamps. Entering resolved or closed stamps resolved_at with the
// transition time (overwriting any earlier value); entering closed also
// stamps closed_at. Leaving a terminal state never clears either timestamp.
func (c *Complaint) ApplyStatusChange(newStatus, actorID string, now time.Time) {
	c.Status = newStatus
	c.UpdatedBy = actorID
	c.UpdatedAt = now
	if newStatus == StatusResolved || newStatus == StatusClosed {
		t := now
		c.ResolvedAt = &t
	}
	if newStatus == StatusClosed {
		t := now
		c.ClosedAt = &t
	}
}
