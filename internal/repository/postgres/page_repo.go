package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cms-admin/internal/models"
	"cms-admin/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PageRepo struct{ db *pgxpool.Pool }

func NewPageRepo(db *pgxpool.Pool) repository.PageRepository { return &PageRepo{db: db} }

func (r *PageRepo) List(ctx context.Context, q, status string, limit, offset int) ([]models.Page, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	clauses := []string{"1=1"}
	args := []any{}

	if s := strings.TrimSpace(q); s != "" {
		p := "%" + s + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(title ILIKE $"+itoa(len(args)-1)+" OR slug ILIKE $"+itoa(len(args))+")")
	}
	if s := strings.TrimSpace(status); s != "" {
		args = append(args, s)
		clauses = append(clauses, "status = $"+itoa(len(args)))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pages WHERE `+strings.Join(clauses, " AND "), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	sql := fmt.Sprintf(`
		SELECT id, title, slug, body, status, created_by::text, created_at, updated_at
		FROM pages
		WHERE %s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(clauses, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PageRepo) Get(ctx context.Context, id string) (*models.Page, error) {
	var p models.Page
	err := r.db.QueryRow(ctx, `
		SELECT id, title, slug, body, status, created_by::text, created_at, updated_at
		FROM pages WHERE id=$1`, id).
		Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPageNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PageRepo) Create(ctx context.Context, p *models.Page) error {
	now := time.Now()
	err := r.db.QueryRow(ctx, `
		INSERT INTO pages (title, slug, body, status, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Slug, p.Body, p.Status, p.CreatedBy, now).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapSlugConflict(err)
}

func (r *PageRepo) Update(ctx context.Context, p *models.Page) error {
	p.UpdatedAt = time.Now()
	ct, err := r.db.Exec(ctx, `
		UPDATE pages SET title=$1, slug=$2, body=$3, status=$4, updated_at=$5
		WHERE id=$6
	`, p.Title, p.Slug, p.Body, p.Status, p.UpdatedAt, p.ID)
	if err != nil {
		return mapSlugConflict(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrPageNotFound
	}
	return nil
}

func (r *PageRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM pages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrPageNotFound
	}
	return nil
}
