package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"cms-admin/internal/middleware"
	"cms-admin/internal/models"
	"cms-admin/internal/repository"
	"cms-admin/internal/utils"
)

// ExportHTTP streams the complaint register as CSV or JSON. Exports reuse the
// register filters but are never capped: whatever the filter matches goes out.
type ExportHTTP struct {
	complaints repository.ComplaintRepository
}

func NewExportHTTP(complaints repository.ComplaintRepository) *ExportHTTP {
	return &ExportHTTP{complaints: complaints}
}

var exportHeader = []string{
	"Code", "Summary", "Status", "Priority", "Channel",
	"Customer Name", "Customer Email", "Assigned To", "Due Date", "Created At",
}

func (h *ExportHTTP) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "json" {
			utils.Error(w, http.StatusBadRequest, "format must be csv or json")
			return
		}

		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		f := filterFromQuery(r, 0)
		f.Limit = 0 // exports ignore any limit parameter

		items, err := h.complaints.List(r.Context(), f, uid)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if items == nil {
			items = []models.Complaint{}
		}

		now := time.Now()
		if format == "json" {
			utils.JSON(w, http.StatusOK, map[string]any{
				"generated_at": now.Format(time.RFC3339),
				"filters": map[string]string{
					"status":   f.Status,
					"priority": f.Priority,
					"channel":  f.Channel,
					"assigned": f.Assigned,
					"search":   f.Search,
				},
				"data": items,
			})
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="complaints-export-%s.csv"`, now.Format("20060102-150405")))

		cw := csv.NewWriter(w)
		_ = cw.Write(exportHeader)
		for i := range items {
			_ = cw.Write(exportRow(&items[i]))
		}
		cw.Flush()
	}
}

func exportRow(c *models.Complaint) []string {
	due := ""
	if c.DueDate != nil {
		due = c.DueDate.Format("2006-01-02")
	}
	return []string{
		c.ComplaintCode,
		c.Summary,
		c.Status,
		c.Priority,
		c.Channel,
		c.CustomerName,
		c.CustomerEmail,
		c.AssignedName,
		due,
		c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
