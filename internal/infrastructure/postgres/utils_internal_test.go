package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Fabrica-api/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("crear material: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("otro")))
}

func TestPageArgs(t *testing.T) {
	limit, offset := pageArgs(0, -5)
	assert.Nil(t, limit)
	assert.Equal(t, 0, offset)

	limit, offset = pageArgs(20, 40)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	s := nullString("abc")
	if assert.NotNil(t, s) {
		assert.Equal(t, "abc", *s)
	}
	assert.Equal(t, "", fromNull(nil))
	assert.Equal(t, "abc", fromNull(s))
}

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "b.id, b.batch_number, b.end_time", prefixed("b", "id, batch_number,\n\tend_time"))
	assert.Contains(t, prefixed("b", batchColumns), "b.operator_id")
}

func TestApplyPoolLimits(t *testing.T) {
	pc, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/fabrica")
	if !assert.NoError(t, err) {
		return
	}
	applyPoolLimits(pc, config.DBConfig{MaxConns: 10, MinConns: 20})
	assert.Equal(t, int32(10), pc.MaxConns)
	assert.LessOrEqual(t, pc.MinConns, pc.MaxConns)

	applyPoolLimits(pc, config.DBConfig{MaxConns: 10, MinConns: 3})
	assert.Equal(t, int32(3), pc.MinConns)
}
