package postgres

import (
	"strings"
	"testing"

	"cms-admin/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestBuildComplaintWhereDefaults(t *testing.T) {
	where, args := buildComplaintWhere(repository.ComplaintFilter{Assigned: "mine"}, "user-1")

	assert.Equal(t, "WHERE 1=1 AND (c.assigned_to = $1 OR (c.assigned_to IS NULL AND c.created_by = $1))", where)
	assert.Equal(t, []any{"user-1"}, args)
}

func TestBuildComplaintWhereAllPassesEverything(t *testing.T) {
	f := repository.ComplaintFilter{Status: "all", Priority: "all", Channel: "all", Assigned: "all"}
	where, args := buildComplaintWhere(f, "user-1")

	assert.Equal(t, "WHERE 1=1", where)
	assert.Empty(t, args)
}

func TestBuildComplaintWhereUnassigned(t *testing.T) {
	where, args := buildComplaintWhere(repository.ComplaintFilter{Assigned: "unassigned"}, "user-1")

	assert.Contains(t, where, "c.assigned_to IS NULL")
	assert.NotContains(t, where, "created_by")
	assert.Empty(t, args)
}

func TestBuildComplaintWhereCombined(t *testing.T) {
	f := repository.ComplaintFilter{
		Status:   "in_progress",
		Priority: "high",
		Channel:  "email",
		Assigned: "mine",
		Search:   "refund",
	}
	where, args := buildComplaintWhere(f, "user-9")

	assert.Equal(t, []any{"in_progress", "high", "email", "user-9", "%refund%", "%refund%", "%refund%"}, args)
	assert.Contains(t, where, "c.status = $1")
	assert.Contains(t, where, "c.priority = $2")
	assert.Contains(t, where, "c.channel = $3")
	assert.Contains(t, where, "c.assigned_to = $4")
	assert.Contains(t, where, "c.complaint_code ILIKE $5")
	assert.Contains(t, where, "c.summary ILIKE $6")
	assert.Contains(t, where, "c.customer_name ILIKE $7")
	// $4 appears twice: assigned-to match plus the created-by fallback
	assert.Equal(t, 8, strings.Count(where, "$"))
}

func TestBuildComplaintWhereTrimsSearch(t *testing.T) {
	where, args := buildComplaintWhere(repository.ComplaintFilter{Search: "  "}, "u")

	assert.NotContains(t, where, "ILIKE")
	assert.Empty(t, args)
}
