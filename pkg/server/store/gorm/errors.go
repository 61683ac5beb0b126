package gorm

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pmcoe-ai1/conference-app/pkg/server/store"
)

// translate maps driver errors onto store sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case isUniqueViolation(err):
		return store.ErrConflict
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	// postgres (SQLSTATE 23505) and sqlite
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// affected turns a zero-row update into ErrNotFound
func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
