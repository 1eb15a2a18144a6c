package dbmetrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationOf(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT id FROM appointments", "select"},
		{"  insert INTO appointments (id) VALUES ($1)", "insert"},
		{"UPDATE appointments SET status = $1", "update"},
		{"DELETE FROM blocked_ranges WHERE id = $1", "delete"},
		{"PRAGMA foreign_keys = ON", "other"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, operationOf(tt.query), tt.query)
	}
}

func TestGetExecutor_PrefersTransactionFromContext(t *testing.T) {
	db := &DB{}
	tx := &Tx{}

	assert.Same(t, db, GetExecutor(context.Background(), db))
	assert.False(t, IsInTransaction(context.Background()))

	ctx := WithTx(context.Background(), tx)
	assert.Same(t, tx, GetExecutor(ctx, db))
	assert.True(t, IsInTransaction(ctx))
}
