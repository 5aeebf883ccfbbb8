package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		emp_no        TEXT PRIMARY KEY,
		display_name  TEXT NOT NULL,
		company       TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id               TEXT PRIMARY KEY,
		employee_id      TEXT NOT NULL REFERENCES employees(emp_no),
		shift_start      TEXT NOT NULL,
		shift_end        TEXT,
		status           TEXT NOT NULL CHECK (status IN ('ACTIVE', 'COMPLETED')),
		total_work_hours REAL,
		shift_count      INTEGER,
		marked_by        TEXT NOT NULL,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_employee ON attendance(employee_id, shift_start)`,
	// At most one open shift per employee, enforced by the store itself in
	// addition to the in-process guard.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_single_active
		ON attendance(employee_id) WHERE status = 'ACTIVE'`,
}

// Migrate applies the schema. Statements are idempotent and run inside a
// single transaction.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to apply schema statement: %w", mapSQLiteError(err))
			}
		}
		return nil
	})
}
