package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolationCode})
	fk := &pgconn.PgError{Code: ForeignKeyViolationCode}
	check := &pgconn.PgError{Code: CheckViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsCheckViolation(check))
	assert.False(t, IsUniqueViolation(errors.New("plain")))

	_, ok := AsPgError(sql.ErrNoRows)
	assert.False(t, ok)
	assert.True(t, IsNoRows(fmt.Errorf("find: %w", sql.ErrNoRows)))
}
