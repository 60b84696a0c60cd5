package handlers

import (
	"net/http"

	"cms-admin/internal/middleware"
	"cms-admin/internal/models"
	"cms-admin/internal/repository"
	"cms-admin/internal/utils"

	"github.com/rs/zerolog"
)

// ReportHTTP serves the dashboard aggregates for the complaint register.
type ReportHTTP struct {
	complaints repository.ComplaintRepository
	log        zerolog.Logger
}

func NewReportHTTP(complaints repository.ComplaintRepository, log zerolog.Logger) *ReportHTTP {
	return &ReportHTTP{complaints: complaints, log: log}
}

// Metrics returns the dashboard counter block. A store failure degrades to
// all-zero counters instead of failing the whole dashboard.
func (h *ReportHTTP) Metrics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)

		m, err := h.complaints.Metrics(r.Context(), uid)
		if err != nil {
			h.log.Error().Err(err).Msg("complaint metrics query failed, serving zeros")
			m = models.ComplaintMetrics{}
		}
		utils.JSON(w, http.StatusOK, m)
	}
}

// Breakdown groups open-register counts by ?by=status or ?by=priority.
// Any other dimension yields an empty result set.
func (h *ReportHTTP) Breakdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := h.complaints.Breakdown(r.Context(), r.URL.Query().Get("by"))
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if rows == nil {
			rows = []models.BreakdownRow{}
		}
		utils.JSON(w, http.StatusOK, map[string]any{"rows": rows})
	}
}
