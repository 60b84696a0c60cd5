package postgres

import (
	"context"

	"cms-admin/internal/models"
	"cms-admin/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepo struct{ db *pgxpool.Pool }

func NewCategoryRepo(db *pgxpool.Pool) repository.CategoryRepository { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, description, created_at
		FROM categories
		ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) Create(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description)
		VALUES ($1,$2,$3)
		RETURNING id, created_at
	`, c.Name, c.Slug, c.Description).Scan(&c.ID, &c.CreatedAt)
	return mapSlugConflict(err)
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrCategoryNotFound
	}
	return nil
}
