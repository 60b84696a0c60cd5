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

type PostRepo struct{ db *pgxpool.Pool }

func NewPostRepo(db *pgxpool.Pool) repository.PostRepository { return &PostRepo{db: db} }

func (r *PostRepo) List(ctx context.Context, q, status, categoryID string, limit, offset int) ([]models.Post, int, error) {
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
		clauses = append(clauses, "(p.title ILIKE $"+itoa(len(args)-1)+" OR p.excerpt ILIKE $"+itoa(len(args))+")")
	}
	if s := strings.TrimSpace(status); s != "" {
		args = append(args, s)
		clauses = append(clauses, "p.status = $"+itoa(len(args)))
	}
	if c := strings.TrimSpace(categoryID); c != "" {
		args = append(args, c)
		clauses = append(clauses, "p.category_id = $"+itoa(len(args)))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts p WHERE `+strings.Join(clauses, " AND "), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	sql := fmt.Sprintf(`
		SELECT p.id, p.title, p.slug, p.excerpt, p.body,
			COALESCE(p.category_id::text, ''), COALESCE(c.name, ''),
			p.status, p.published_at, p.created_by::text, p.created_at, p.updated_at
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE %s
		ORDER BY p.updated_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(clauses, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body,
			&p.CategoryID, &p.CategoryName,
			&p.Status, &p.PublishedAt, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostRepo) Get(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := r.db.QueryRow(ctx, `
		SELECT p.id, p.title, p.slug, p.excerpt, p.body,
			COALESCE(p.category_id::text, ''), COALESCE(c.name, ''),
			p.status, p.published_at, p.created_by::text, p.created_at, p.updated_at
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id=$1`, id).
		Scan(
			&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Body,
			&p.CategoryID, &p.CategoryName,
			&p.Status, &p.PublishedAt, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) Create(ctx context.Context, p *models.Post) error {
	now := time.Now()
	if p.Status == models.ContentPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO posts (title, slug, excerpt, body, category_id, status, published_at, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Slug, p.Excerpt, p.Body, nullIfEmpty(p.CategoryID), p.Status, p.PublishedAt, p.CreatedBy, now).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return mapSlugConflict(err)
}

func (r *PostRepo) Update(ctx context.Context, p *models.Post) error {
	now := time.Now()
	if p.Status == models.ContentPublished && p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.UpdatedAt = now
	ct, err := r.db.Exec(ctx, `
		UPDATE posts
		SET title=$1, slug=$2, excerpt=$3, body=$4, category_id=$5, status=$6, published_at=$7, updated_at=$8
		WHERE id=$9
	`, p.Title, p.Slug, p.Excerpt, p.Body, nullIfEmpty(p.CategoryID), p.Status, p.PublishedAt, p.UpdatedAt, p.ID)
	if err != nil {
		return mapSlugConflict(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}
