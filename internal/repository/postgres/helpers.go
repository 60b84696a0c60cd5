package postgres

import (
	"errors"
	"strconv"
	"strings"

	"cms-admin/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// mapSlugConflict translates a unique-violation on a slug column into the
// repository sentinel so handlers can answer 409 instead of 500.
func mapSlugConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrDuplicateSlug
	}
	return err
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// small helper to avoid fmt on the query-building path.
func itoa(i int) string { return strconv.Itoa(i) }
