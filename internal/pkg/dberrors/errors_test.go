package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "companies_slug_key"}
	wrapped := fmt.Errorf("insert company: %w", pgErr)

	assert.True(t, IsDuplicateConstraintError(wrapped, "companies_slug_key"))
	assert.True(t, IsDuplicateConstraintError(wrapped, ""))
	assert.False(t, IsDuplicateConstraintError(wrapped, "companies_owner_id_key"))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), ""))
}

func TestIsForeignKeyError(t *testing.T) {
	assert.True(t, IsForeignKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyError(&pgconn.PgError{Code: "23505"}))
}
