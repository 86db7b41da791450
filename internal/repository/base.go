// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"eventplanner/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned when a write collides with a unique index.
var ErrDuplicate = errors.New("duplicate record")

// Result reports whether an update or delete matched a row.
type Result struct {
	Matched bool
}

func resultOf(tx *gorm.DB) (Result, error) {
	if tx.Error != nil {
		return Result{}, wrapError(tx.Error)
	}
	return Result{Matched: tx.RowsAffected > 0}, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// wrapError maps unique violations onto ErrDuplicate and everything else onto an internal AppError.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueConstraintError(err) {
		return ErrDuplicate
	}
	return models.NewInternalError(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
