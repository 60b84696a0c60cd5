package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"cms-admin/internal/middleware"
	"cms-admin/internal/models"
	"cms-admin/internal/repository"
	"cms-admin/internal/utils"

	"github.com/go-chi/chi/v5"
)

// ComplaintHTTP wires the complaint register endpoints to the repository.
type ComplaintHTTP struct {
	complaints repository.ComplaintRepository
}

func NewComplaintHTTP(complaints repository.ComplaintRepository) *ComplaintHTTP {
	return &ComplaintHTTP{complaints: complaints}
}

// filterFromQuery reads the register filters. Defaults mirror the admin
// dashboard: show my open queue first, everything else on request.
func filterFromQuery(r *http.Request, defaultLimit int) repository.ComplaintFilter {
	qv := r.URL.Query()
	f := repository.ComplaintFilter{
		Status:   strings.TrimSpace(qv.Get("status")),
		Priority: strings.TrimSpace(qv.Get("priority")),
		Channel:  strings.TrimSpace(qv.Get("channel")),
		Assigned: strings.TrimSpace(qv.Get("assigned")),
		Search:   strings.TrimSpace(qv.Get("search")),
		Limit:    utils.QueryInt(qv, "limit", defaultLimit),
	}
	if f.Assigned == "" {
		f.Assigned = "mine"
	}
	return f
}

// -----------------------------------------------------------------------------
// GET /api/complaints
// -----------------------------------------------------------------------------
func (h *ComplaintHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		f := filterFromQuery(r, 200)

		items, err := h.complaints.List(r.Context(), f, uid)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []models.Complaint{}
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}

// -----------------------------------------------------------------------------
// GET /api/complaints/{id}
// -----------------------------------------------------------------------------
func (h *ComplaintHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "missing id")
			return
		}
		c, err := h.complaints.Get(r.Context(), id)
		if err != nil {
			writeComplaintErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, c)
	}
}

// -----------------------------------------------------------------------------
// POST /api/complaints
// -----------------------------------------------------------------------------
func (h *ComplaintHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Summary           string `json:"summary"`
		Source            string `json:"source"`
		Channel           string `json:"channel"`
		Priority          string `json:"priority"`
		Status            string `json:"status"`
		CustomerName      string `json:"customerName"`
		CustomerEmail     string `json:"customerEmail"`
		CustomerPhone     string `json:"customerPhone"`
		CustomerReference string `json:"customerReference"`
		Category          string `json:"category"`
		Subcategory       string `json:"subcategory"`
		DueDate           string `json:"dueDate"` // YYYY-MM-DD
		AssignedTo        string `json:"assignedTo"`
		Description       string `json:"description"`
		InitialNote       string `json:"initialNote"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		in.Summary = strings.TrimSpace(in.Summary)
		if in.Summary == "" {
			utils.Error(w, http.StatusBadRequest, "summary is required")
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if uid == "" {
			utils.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		if in.Channel == "" {
			in.Channel = models.ChannelOther
		}
		if in.Priority == "" {
			in.Priority = models.PriorityMedium
		}
		if in.Status == "" {
			in.Status = models.StatusNew
		}
		if !models.ValidChannel(in.Channel) {
			utils.Error(w, http.StatusBadRequest, "invalid channel")
			return
		}
		if !models.ValidPriority(in.Priority) {
			utils.Error(w, http.StatusBadRequest, "invalid priority")
			return
		}
		if !models.ValidStatus(in.Status) {
			utils.Error(w, http.StatusBadRequest, "invalid status")
			return
		}

		var dueDate *time.Time
		if s := strings.TrimSpace(in.DueDate); s != "" {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, "invalid due date, want YYYY-MM-DD")
				return
			}
			dueDate = &d
		}

		c, err := h.complaints.Create(r.Context(), repository.CreateComplaintInput{
			Source:            strings.TrimSpace(in.Source),
			Channel:           in.Channel,
			CustomerName:      strings.TrimSpace(in.CustomerName),
			CustomerEmail:     strings.TrimSpace(in.CustomerEmail),
			CustomerPhone:     strings.TrimSpace(in.CustomerPhone),
			CustomerReference: strings.TrimSpace(in.CustomerReference),
			Category:          strings.TrimSpace(in.Category),
			Subcategory:       strings.TrimSpace(in.Subcategory),
			Priority:          in.Priority,
			Status:            in.Status,
			Summary:           in.Summary,
			Description:       strings.TrimSpace(in.Description),
			DueDate:           dueDate,
			AssignedTo:        strings.TrimSpace(in.AssignedTo),
			CreatedBy:         uid,
			InitialNote:       in.InitialNote,
		})
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusCreated, c)
	}
}

// -----------------------------------------------------------------------------
// POST /api/complaints/{id}/status
// -----------------------------------------------------------------------------
func (h *ComplaintHTTP) UpdateStatus() http.HandlerFunc {
	type inDTO struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		// Reject unknown statuses before touching the store: no row update,
		// no timeline entry.
		if !models.ValidStatus(in.Status) {
			utils.Error(w, http.StatusBadRequest, "invalid status")
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		c, err := h.complaints.UpdateStatus(r.Context(), id, in.Status, strings.TrimSpace(in.Comment), uid)
		if err != nil {
			writeComplaintErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, c)
	}
}

// -----------------------------------------------------------------------------
// POST /api/complaints/{id}/assign
// -----------------------------------------------------------------------------
func (h *ComplaintHTTP) Assign() http.HandlerFunc {
	type inDTO struct {
		AssignedTo string `json:"assignedTo"` // empty clears the assignment
		Note       string `json:"note"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		c, err := h.complaints.Assign(r.Context(), id, strings.TrimSpace(in.AssignedTo), strings.TrimSpace(in.Note), uid)
		if err != nil {
			writeComplaintErr(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, c)
	}
}

// -----------------------------------------------------------------------------
// POST /api/complaints/{id}/notes
// -----------------------------------------------------------------------------
func (h *ComplaintHTTP) AddNote() http.HandlerFunc {
	type inDTO struct {
		Text         string `json:"text"`
		InternalOnly bool   `json:"internalOnly"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Text = strings.TrimSpace(in.Text)
		if in.Text == "" {
			utils.Error(w, http.StatusBadRequest, "text is required")
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		cu, err := h.complaints.AddNote(r.Context(), id, in.Text, in.InternalOnly, uid)
		if err != nil {
			writeComplaintErr(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, cu)
	}
}

func writeComplaintErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrComplaintNotFound):
		utils.Error(w, http.StatusNotFound, "complaint not found")
	case errors.Is(err, repository.ErrInvalidStatus):
		utils.Error(w, http.StatusBadRequest, "invalid status")
	default:
		utils.Error(w, http.StatusInternalServerError, err.Error())
	}
}
