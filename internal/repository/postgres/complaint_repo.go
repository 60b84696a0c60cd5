package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"cms-admin/internal/models"
	"cms-admin/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ComplaintRepo struct{ db *pgxpool.Pool }

func NewComplaintRepo(db *pgxpool.Pool) *ComplaintRepo { return &ComplaintRepo{db: db} }

const complaintColumns = `
	c.id, c.complaint_code, c.source, c.channel,
	c.customer_name, c.customer_email, c.customer_phone, c.customer_reference,
	c.category, c.subcategory, c.priority, c.status, c.summary, c.description,
	c.due_date, COALESCE(c.assigned_to::text, ''), c.created_by::text, COALESCE(c.updated_by::text, ''),
	c.created_at, c.updated_at, c.resolved_at, c.closed_at`

func scanComplaint(row pgx.Row, withNames bool) (*models.Complaint, error) {
	var c models.Complaint
	dest := []any{
		&c.ID, &c.ComplaintCode, &c.Source, &c.Channel,
		&c.CustomerName, &c.CustomerEmail, &c.CustomerPhone, &c.CustomerReference,
		&c.Category, &c.Subcategory, &c.Priority, &c.Status, &c.Summary, &c.Description,
		&c.DueDate, &c.AssignedTo, &c.CreatedBy, &c.UpdatedBy,
		&c.CreatedAt, &c.UpdatedAt, &c.ResolvedAt, &c.ClosedAt,
	}
	if withNames {
		dest = append(dest, &c.AssignedName, &c.CreatedName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

// -----------------------------------------------------------------------------
// Listing
// -----------------------------------------------------------------------------

func (r *ComplaintRepo) List(ctx context.Context, f repository.ComplaintFilter, currentUserID string) ([]models.Complaint, error) {
	whereSQL, args := buildComplaintWhere(f, currentUserID)

	sql := `
		SELECT ` + complaintColumns + `,
			COALESCE(u.name, ''), COALESCE(creator.name, '')
		FROM complaints c
		LEFT JOIN users u ON u.id = c.assigned_to
		LEFT JOIN users creator ON creator.id = c.created_by
		` + whereSQL + `
		ORDER BY c.created_at DESC`

	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += " LIMIT $" + itoa(len(args))
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// buildComplaintWhere composes the WHERE clause for the register filters.
// "mine" covers complaints assigned to the user plus unassigned ones the user
// logged; "unassigned" matches NULL assignees only.
func buildComplaintWhere(f repository.ComplaintFilter, currentUserID string) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if s := strings.TrimSpace(f.Status); s != "" && s != "all" {
		args = append(args, s)
		clauses = append(clauses, "c.status = $"+itoa(len(args)))
	}
	if p := strings.TrimSpace(f.Priority); p != "" && p != "all" {
		args = append(args, p)
		clauses = append(clauses, "c.priority = $"+itoa(len(args)))
	}
	if ch := strings.TrimSpace(f.Channel); ch != "" && ch != "all" {
		args = append(args, ch)
		clauses = append(clauses, "c.channel = $"+itoa(len(args)))
	}

	switch f.Assigned {
	case "mine":
		args = append(args, currentUserID)
		n := itoa(len(args))
		clauses = append(clauses, "(c.assigned_to = $"+n+" OR (c.assigned_to IS NULL AND c.created_by = $"+n+"))")
	case "unassigned":
		clauses = append(clauses, "c.assigned_to IS NULL")
	}

	if q := strings.TrimSpace(f.Search); q != "" {
		p := "%" + q + "%"
		args = append(args, p, p, p)
		clauses = append(clauses, "(c.complaint_code ILIKE $"+itoa(len(args)-2)+
			" OR c.summary ILIKE $"+itoa(len(args)-1)+
			" OR c.customer_name ILIKE $"+itoa(len(args))+")")
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// -----------------------------------------------------------------------------
// Single complaint + timeline
// -----------------------------------------------------------------------------

func (r *ComplaintRepo) Get(ctx context.Context, id string) (*models.Complaint, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+complaintColumns+`,
			COALESCE(u.name, ''), COALESCE(creator.name, '')
		FROM complaints c
		LEFT JOIN users u ON u.id = c.assigned_to
		LEFT JOIN users creator ON creator.id = c.created_by
		WHERE c.id = $1
	`, id)
	c, err := scanComplaint(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrComplaintNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT cu.id, cu.complaint_id, cu.update_type, cu.update_text,
			COALESCE(cu.status_before, ''), COALESCE(cu.status_after, ''),
			cu.internal_only, COALESCE(cu.added_by::text, ''), COALESCE(u.name, ''), cu.created_at
		FROM complaint_updates cu
		LEFT JOIN users u ON u.id = cu.added_by
		WHERE cu.complaint_id = $1
		ORDER BY cu.created_at DESC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cu models.ComplaintUpdate
		if err := rows.Scan(
			&cu.ID, &cu.ComplaintID, &cu.UpdateType, &cu.UpdateText,
			&cu.StatusBefore, &cu.StatusAfter,
			&cu.InternalOnly, &cu.AddedBy, &cu.AddedByName, &cu.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.Updates = append(c.Updates, cu)
	}
	return c, rows.Err()
}

// -----------------------------------------------------------------------------
// Mutations. Each one is a single transaction: parent row change plus exactly
// one timeline insert commit or roll back together.
// -----------------------------------------------------------------------------

func (r *ComplaintRepo) Create(ctx context.Context, in repository.CreateComplaintInput) (*models.Complaint, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	now := time.Now()

	// Highest existing code for today; the fixed-width suffix makes the
	// lexicographic max the numeric max.
	var lastCode string
	if err = tx.QueryRow(ctx, `
		SELECT complaint_code FROM complaints
		WHERE complaint_code LIKE $1
		ORDER BY complaint_code DESC
		LIMIT 1
	`, repository.CodePrefix(now)+"%").Scan(&lastCode); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		err = nil
	}
	code := repository.NextComplaintCode(lastCode, now)

	var c models.Complaint
	row := tx.QueryRow(ctx, `
		INSERT INTO complaints (
			complaint_code, source, channel, customer_name, customer_email,
			customer_phone, customer_reference, category, subcategory,
			priority, status, summary, description, due_date, assigned_to,
			created_by, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$17)
		RETURNING
			id, complaint_code, source, channel,
			customer_name, customer_email, customer_phone, customer_reference,
			category, subcategory, priority, status, summary, description,
			due_date, COALESCE(assigned_to::text, ''), created_by::text, COALESCE(updated_by::text, ''),
			created_at, updated_at, resolved_at, closed_at
	`,
		code, in.Source, in.Channel, in.CustomerName, in.CustomerEmail,
		in.CustomerPhone, in.CustomerReference, in.Category, in.Subcategory,
		in.Priority, in.Status, in.Summary, in.Description, in.DueDate,
		nullIfEmpty(in.AssignedTo), in.CreatedBy, now,
	)
	cp, err := scanComplaint(row, false)
	if err != nil {
		return nil, err
	}
	c = *cp

	if note := strings.TrimSpace(in.InitialNote); note != "" {
		if err = insertUpdate(ctx, tx, updateRow{
			ComplaintID: c.ID,
			UpdateType:  models.UpdateTypeNote,
			UpdateText:  note,
			AddedBy:     in.CreatedBy,
		}); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ComplaintRepo) UpdateStatus(ctx context.Context, id, status, comment, actorID string) (*models.Complaint, error) {
	if !models.ValidStatus(status) {
		return nil, repository.ErrInvalidStatus
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	c, err := fetchCurrent(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	before := c.Status
	c.ApplyStatusChange(status, actorID, time.Now())

	_, err = tx.Exec(ctx, `
		UPDATE complaints
		SET status=$1, updated_by=$2, updated_at=$3, resolved_at=$4, closed_at=$5
		WHERE id=$6
	`, c.Status, c.UpdatedBy, c.UpdatedAt, c.ResolvedAt, c.ClosedAt, id)
	if err != nil {
		return nil, err
	}

	if err = insertUpdate(ctx, tx, updateRow{
		ComplaintID:  id,
		UpdateType:   models.UpdateTypeStatusChange,
		UpdateText:   comment,
		StatusBefore: before,
		StatusAfter:  status,
		AddedBy:      actorID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Assign sets or clears (empty assigneeID) the owner. The assignment entry is
// appended even when the assignee does not change.
func (r *ComplaintRepo) Assign(ctx context.Context, id, assigneeID, note, actorID string) (*models.Complaint, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	c, err := fetchCurrent(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.AssignedTo = assigneeID
	c.UpdatedBy = actorID
	c.UpdatedAt = now

	_, err = tx.Exec(ctx, `
		UPDATE complaints
		SET assigned_to=$1, updated_by=$2, updated_at=$3
		WHERE id=$4
	`, nullIfEmpty(assigneeID), actorID, now, id)
	if err != nil {
		return nil, err
	}

	if err = insertUpdate(ctx, tx, updateRow{
		ComplaintID: id,
		UpdateType:  models.UpdateTypeAssignment,
		UpdateText:  note,
		AddedBy:     actorID,
	}); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// AddNote is a pure timeline insert; it intentionally does not bump the
// parent's updated_at.
func (r *ComplaintRepo) AddNote(ctx context.Context, id, text string, internalOnly bool, actorID string) (*models.ComplaintUpdate, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM complaints WHERE id=$1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrComplaintNotFound
	}

	var cu models.ComplaintUpdate
	err := r.db.QueryRow(ctx, `
		INSERT INTO complaint_updates (complaint_id, update_type, update_text, internal_only, added_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, complaint_id, update_type, update_text, internal_only, COALESCE(added_by::text, ''), created_at
	`, id, models.UpdateTypeNote, text, internalOnly, nullIfEmpty(actorID)).Scan(
		&cu.ID, &cu.ComplaintID, &cu.UpdateType, &cu.UpdateText, &cu.InternalOnly, &cu.AddedBy, &cu.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cu, nil
}

// -----------------------------------------------------------------------------
// Metrics and breakdowns
// -----------------------------------------------------------------------------

func (r *ComplaintRepo) Metrics(ctx context.Context, currentUserID string) (models.ComplaintMetrics, error) {
	var m models.ComplaintMetrics

	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = ANY($1)),
			COUNT(*) FILTER (WHERE due_date IS NOT NULL AND due_date < CURRENT_DATE AND NOT (status = ANY($2))),
			COUNT(*) FILTER (WHERE status IN ('resolved','closed') AND resolved_at >= CURRENT_DATE - INTERVAL '30 days'),
			COUNT(*) FILTER (WHERE status = ANY($1) AND (assigned_to = $3 OR (assigned_to IS NULL AND created_by = $3))),
			COUNT(*) FILTER (WHERE created_at::date = CURRENT_DATE)
		FROM complaints
	`, models.OpenStatuses, models.SettledStatuses, currentUserID).Scan(
		&m.Total, &m.Open, &m.Overdue, &m.ResolvedMonth, &m.MyOpen, &m.LoggedToday,
	)
	if err != nil {
		return models.ComplaintMetrics{}, err
	}
	return m, nil
}

// Breakdown groups counts by an allowed dimension. Unknown dimensions yield
// an empty result, not an error.
func (r *ComplaintRepo) Breakdown(ctx context.Context, dimension string) ([]models.BreakdownRow, error) {
	var column string
	switch dimension {
	case "status":
		column = "status"
	case "priority":
		column = "priority"
	default:
		return []models.BreakdownRow{}, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+column+`, COUNT(*) FROM complaints GROUP BY `+column+` ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BreakdownRow{}
	for rows.Next() {
		var b models.BreakdownRow
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

type updateRow struct {
	ComplaintID  string
	UpdateType   string
	UpdateText   string
	StatusBefore string
	StatusAfter  string
	InternalOnly bool
	AddedBy      string
}

func insertUpdate(ctx context.Context, tx pgx.Tx, u updateRow) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO complaint_updates (
			complaint_id, update_type, update_text, internal_only,
			status_before, status_after, added_by
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, u.ComplaintID, u.UpdateType, u.UpdateText, u.InternalOnly,
		nullIfEmpty(u.StatusBefore), nullIfEmpty(u.StatusAfter), nullIfEmpty(u.AddedBy))
	return err
}

func fetchCurrent(ctx context.Context, tx pgx.Tx, id string) (*models.Complaint, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints c
		WHERE c.id = $1
	`, id)
	c, err := scanComplaint(row, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrComplaintNotFound
		}
		return nil, err
	}
	return c, nil
}
