package schema

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/sqlbuilder"
)

// Моменты времени хранятся как unix-секунды (BIGINT/INTEGER), одинаково для обоих драйверов.

var postgresStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	`CREATE TABLE IF NOT EXISTS businesses (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		owner_id    BIGINT NOT NULL,
		owner_phone TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS weekly_hours (
		business_id BIGINT NOT NULL REFERENCES businesses (id) ON DELETE CASCADE,
		day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		open_time   TEXT NOT NULL,
		close_time  TEXT NOT NULL,
		available   BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (business_id, day_of_week)
	)`,

	`CREATE TABLE IF NOT EXISTS services (
		id               BIGSERIAL PRIMARY KEY,
		business_id      BIGINT NOT NULL REFERENCES businesses (id) ON DELETE CASCADE,
		name             TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		active           BOOLEAN NOT NULL DEFAULT TRUE
	)`,

	`CREATE TABLE IF NOT EXISTS blocked_ranges (
		id          BIGSERIAL PRIMARY KEY,
		business_id BIGINT NOT NULL REFERENCES businesses (id) ON DELETE CASCADE,
		start_at    BIGINT NOT NULL,
		end_at      BIGINT NOT NULL,
		reason      TEXT,
		created_at  BIGINT NOT NULL,
		CHECK (start_at < end_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_blocked_ranges_business_start ON blocked_ranges (business_id, start_at)`,

	`CREATE TABLE IF NOT EXISTS appointments (
		id                     BIGSERIAL PRIMARY KEY,
		business_id            BIGINT NOT NULL REFERENCES businesses (id),
		client_id              BIGINT NOT NULL,
		service_id             BIGINT NOT NULL REFERENCES services (id),
		service_name           TEXT NOT NULL,
		client_name            TEXT NOT NULL DEFAULT '',
		client_phone           TEXT NOT NULL DEFAULT '',
		start_at               BIGINT NOT NULL,
		end_at                 BIGINT NOT NULL,
		status                 TEXT NOT NULL,
		cancellation_reason    TEXT,
		cancelled_at           BIGINT,
		day_before_sent_at     BIGINT,
		day_before_claim       TEXT,
		day_before_claimed_at  BIGINT,
		hour_before_sent_at    BIGINT,
		hour_before_claim      TEXT,
		hour_before_claimed_at BIGINT,
		created_at             BIGINT NOT NULL,
		updated_at             BIGINT NOT NULL,
		CHECK (start_at < end_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_appointments_business_start ON appointments (business_id, start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_start ON appointments (start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_client ON appointments (client_id)`,

	// Страховка от двойного бронирования на уровне БД
	`DO $$
	BEGIN
		ALTER TABLE appointments ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (business_id WITH =, int8range(start_at, end_at) WITH &&)
			WHERE (status IN ('pending', 'confirmed'));
	EXCEPTION
		WHEN duplicate_object THEN NULL;
	END $$`,
}

var sqliteStatements = []string{
	`PRAGMA foreign_keys = ON`,

	`CREATE TABLE IF NOT EXISTS businesses (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		owner_id    INTEGER NOT NULL,
		owner_phone TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS weekly_hours (
		business_id INTEGER NOT NULL REFERENCES businesses (id) ON DELETE CASCADE,
		day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
		open_time   TEXT NOT NULL,
		close_time  TEXT NOT NULL,
		available   INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (business_id, day_of_week)
	)`,

	`CREATE TABLE IF NOT EXISTS services (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id      INTEGER NOT NULL REFERENCES businesses (id) ON DELETE CASCADE,
		name             TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
		active           INTEGER NOT NULL DEFAULT 1
	)`,

	`CREATE TABLE IF NOT EXISTS blocked_ranges (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id INTEGER NOT NULL REFERENCES businesses (id) ON DELETE CASCADE,
		start_at    INTEGER NOT NULL,
		end_at      INTEGER NOT NULL,
		reason      TEXT,
		created_at  INTEGER NOT NULL,
		CHECK (start_at < end_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_blocked_ranges_business_start ON blocked_ranges (business_id, start_at)`,

	`CREATE TABLE IF NOT EXISTS appointments (
		id                     INTEGER PRIMARY KEY AUTOINCREMENT,
		business_id            INTEGER NOT NULL REFERENCES businesses (id),
		client_id              INTEGER NOT NULL,
		service_id             INTEGER NOT NULL REFERENCES services (id),
		service_name           TEXT NOT NULL,
		client_name            TEXT NOT NULL DEFAULT '',
		client_phone           TEXT NOT NULL DEFAULT '',
		start_at               INTEGER NOT NULL,
		end_at                 INTEGER NOT NULL,
		status                 TEXT NOT NULL,
		cancellation_reason    TEXT,
		cancelled_at           INTEGER,
		day_before_sent_at     INTEGER,
		day_before_claim       TEXT,
		day_before_claimed_at  INTEGER,
		hour_before_sent_at    INTEGER,
		hour_before_claim      TEXT,
		hour_before_claimed_at INTEGER,
		created_at             INTEGER NOT NULL,
		updated_at             INTEGER NOT NULL,
		CHECK (start_at < end_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_appointments_business_start ON appointments (business_id, start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_start ON appointments (start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_client ON appointments (client_id)`,
}

// Apply создает схему БД для драйвера. Повторный вызов безопасен.
func Apply(ctx context.Context, db dbmetrics.DBExecutor, driver string) error {
	statements := postgresStatements
	if driver == sqlbuilder.DriverSQLite {
		statements = sqliteStatements
	}

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: statement %d failed: %w", i, err)
		}
	}
	return nil
}
