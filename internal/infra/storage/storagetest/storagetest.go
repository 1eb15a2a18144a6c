// Package storagetest поднимает in-memory SQLite со схемой сервиса для тестов репозиториев.
package storagetest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schema"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/sqlbuilder"
)

// NewSQLite возвращает пустую in-memory базу с примененной схемой и построитель запросов для нее
func NewSQLite(t testing.TB) (*dbmetrics.DB, sqlbuilder.Builder) {
	t.Helper()

	db, err := sql.Open(sqlbuilder.DriverSQLite, ":memory:")
	require.NoError(t, err)

	// Каждое новое соединение к :memory: получает свою базу
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, schema.Apply(context.Background(), db, sqlbuilder.DriverSQLite))

	return dbmetrics.Wrap(db, nil), sqlbuilder.New(sqlbuilder.DriverSQLite)
}

// SeedBusiness создает бизнес с услугой и возвращает их ID
func SeedBusiness(t testing.TB, db dbmetrics.DBExecutor, ownerID int64, durationMinutes int) (businessID int64, serviceID int64) {
	t.Helper()
	ctx := context.Background()

	res, err := db.ExecContext(ctx,
		`INSERT INTO businesses (name, owner_id, owner_phone) VALUES (?, ?, ?)`,
		"Barber Shop", ownerID, "+10000000000")
	require.NoError(t, err)
	businessID, err = res.LastInsertId()
	require.NoError(t, err)

	res, err = db.ExecContext(ctx,
		`INSERT INTO services (business_id, name, duration_minutes, active) VALUES (?, ?, ?, ?)`,
		businessID, "Haircut", durationMinutes, true)
	require.NoError(t, err)
	serviceID, err = res.LastInsertId()
	require.NoError(t, err)

	return businessID, serviceID
}
