package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/attendance-ledger/internal/persistence"
)

// AttendanceRepository implements persistence.AttendanceRepository using SQLite.
type AttendanceRepository struct {
	pool *ConnectionPool
}

// NewAttendanceRepository creates a new SQLite attendance repository.
func NewAttendanceRepository(pool *ConnectionPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

const attendanceColumns = `id, employee_id, shift_start, shift_end, status, total_work_hours, shift_count, marked_by, created_at, updated_at`

// CreateRecord inserts a shift record. The open-shift check and the insert run
// in one transaction so a second open shift can never slip in between them.
func (r *AttendanceRepository) CreateRecord(ctx context.Context, record persistence.AttendanceRecord) error {
	if record.ID == "" || record.EmployeeID == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var existingID string
		err := tx.QueryRow(
			"SELECT id FROM attendance WHERE employee_id = ? AND status = ?",
			record.EmployeeID, persistence.StatusActive,
		).Scan(&existingID)
		switch {
		case err == nil:
			return persistence.ErrDuplicate
		case err != sql.ErrNoRows:
			return mapSQLiteError(err)
		}

		query := `
			INSERT INTO attendance (` + attendanceColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		_, err = tx.Exec(query,
			record.ID,
			record.EmployeeID,
			record.ShiftStart.UTC().Format(time.RFC3339),
			nullableTime(record.ShiftEnd),
			record.Status,
			nullableFloat(record.TotalWorkHours),
			nullableInt(record.ShiftCount),
			record.MarkedBy,
			record.CreatedAt.UTC().Format(time.RFC3339),
			record.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return mapSQLiteError(err)
		}
		return nil
	})
}

// CompleteRecord transitions the employee's ACTIVE row to COMPLETED. Shift
// end, status, and both derived fields land in a single UPDATE so no partial
// state is ever observable.
func (r *AttendanceRepository) CompleteRecord(ctx context.Context, record persistence.AttendanceRecord) error {
	if record.ID == "" {
		return persistence.ErrNotFound
	}
	if record.ShiftEnd == nil || record.TotalWorkHours == nil || record.ShiftCount == nil {
		return fmt.Errorf("attendance: completing %s without derived fields", record.ID)
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE attendance
			SET shift_end = ?, status = ?, total_work_hours = ?, shift_count = ?, marked_by = ?, updated_at = ?
			WHERE id = ? AND status = ?
		`

		result, err := tx.Exec(query,
			record.ShiftEnd.UTC().Format(time.RFC3339),
			persistence.StatusCompleted,
			*record.TotalWorkHours,
			*record.ShiftCount,
			record.MarkedBy,
			record.UpdatedAt.UTC().Format(time.RFC3339),
			record.ID,
			persistence.StatusActive,
		)
		if err != nil {
			return mapSQLiteError(err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

// GetRecord returns a single record by identifier.
func (r *AttendanceRepository) GetRecord(ctx context.Context, id string) (persistence.AttendanceRecord, error) {
	if id == "" {
		return persistence.AttendanceRecord{}, persistence.ErrNotFound
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE id = ?
	`

	return scanRecord(r.pool.db.QueryRowContext(ctx, query, id))
}

// GetActiveRecord returns the employee's open shift, if any.
func (r *AttendanceRepository) GetActiveRecord(ctx context.Context, employeeID string) (persistence.AttendanceRecord, error) {
	if employeeID == "" {
		return persistence.AttendanceRecord{}, persistence.ErrNotFound
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE employee_id = ? AND status = ?
	`

	return scanRecord(r.pool.db.QueryRowContext(ctx, query, employeeID, persistence.StatusActive))
}

// GetLatestRecordBetween returns the most recent record whose shift start
// falls inside [from, to).
func (r *AttendanceRepository) GetLatestRecordBetween(ctx context.Context, employeeID string, from, to time.Time) (persistence.AttendanceRecord, error) {
	if employeeID == "" {
		return persistence.AttendanceRecord{}, persistence.ErrNotFound
	}

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE employee_id = ? AND shift_start >= ? AND shift_start < ?
		ORDER BY shift_start DESC, id DESC
		LIMIT 1
	`

	return scanRecord(r.pool.db.QueryRowContext(ctx, query,
		employeeID,
		from.UTC().Format(time.RFC3339),
		to.UTC().Format(time.RFC3339),
	))
}

// ListRecords returns all records for an employee, newest first.
func (r *AttendanceRepository) ListRecords(ctx context.Context, employeeID string) ([]persistence.AttendanceRecord, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE employee_id = ?
		ORDER BY shift_start DESC, id DESC
	`

	rows, err := r.pool.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var records []persistence.AttendanceRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}

	return records, nil
}

func scanRecord(row rowScanner) (persistence.AttendanceRecord, error) {
	var record persistence.AttendanceRecord
	var shiftStartStr, createdAtStr, updatedAtStr string
	var shiftEnd sql.NullString
	var workHours sql.NullFloat64
	var shiftCount sql.NullInt64

	err := row.Scan(
		&record.ID,
		&record.EmployeeID,
		&shiftStartStr,
		&shiftEnd,
		&record.Status,
		&workHours,
		&shiftCount,
		&record.MarkedBy,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.AttendanceRecord{}, persistence.ErrNotFound
		}
		return persistence.AttendanceRecord{}, mapSQLiteError(err)
	}

	if record.ShiftStart, err = time.Parse(time.RFC3339, shiftStartStr); err != nil {
		return persistence.AttendanceRecord{}, fmt.Errorf("failed to parse shift_start: %w", err)
	}
	if shiftEnd.Valid {
		end, err := time.Parse(time.RFC3339, shiftEnd.String)
		if err != nil {
			return persistence.AttendanceRecord{}, fmt.Errorf("failed to parse shift_end: %w", err)
		}
		record.ShiftEnd = &end
	}
	if workHours.Valid {
		hours := workHours.Float64
		record.TotalWorkHours = &hours
	}
	if shiftCount.Valid {
		count := int(shiftCount.Int64)
		record.ShiftCount = &count
	}
	if record.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.AttendanceRecord{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if record.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.AttendanceRecord{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return record, nil
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339)
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}
