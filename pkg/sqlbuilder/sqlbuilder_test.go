package sqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_PlaceholdersByDriver(t *testing.T) {
	pg, _, err := New(DriverPostgres).Select("id").From("appointments").
		Where(squirrel.Eq{"business_id": 1}).
		Where(squirrel.Lt{"start_at": 2}).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM appointments WHERE business_id = $1 AND start_at < $2", pg)

	lite, _, err := New(DriverSQLite).Select("id").From("appointments").
		Where(squirrel.Eq{"business_id": 1}).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM appointments WHERE business_id = ?", lite)
}

func TestForUpdate_OnlyForPostgres(t *testing.T) {
	pg, _, err := New(DriverPostgres).ForUpdate(New(DriverPostgres).Select("id").From("appointments")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM appointments FOR UPDATE", pg)

	lite := New(DriverSQLite)
	query, _, err := lite.ForUpdate(lite.Select("id").From("appointments")).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM appointments", query)
}

func TestRebind(t *testing.T) {
	query, err := New(DriverPostgres).Rebind("SELECT 1 WHERE a = ? AND b = ?")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", query)

	query, err = New(DriverSQLite).Rebind("SELECT 1 WHERE a = ?")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 WHERE a = ?", query)
}
