package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Store errors are normalized here; callers never see driver errors for
// the not-found and duplicate cases. Ownership mismatches surface as
// ErrNotFound so that existence is not leaked to non-owners.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Repository[T any] interface {
	Create(ctx context.Context, arg *T) (*T, error)
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isDuplicate(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
		return true
	}

	// sqliteshim reports constraint violations as plain errors.
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}
