package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/attendance-ledger/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository using SQLite.
type EmployeeRepository struct {
	pool *ConnectionPool
}

// NewEmployeeRepository creates a new SQLite employee repository.
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// CreateEmployee inserts a new directory entry.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	query := `
		INSERT INTO employees (emp_no, display_name, company, role, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.pool.db.ExecContext(ctx, query,
		employee.EmpNo,
		employee.DisplayName,
		employee.Company,
		employee.Role,
		employee.PasswordHash,
		employee.CreatedAt.UTC().Format(time.RFC3339),
		employee.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	return nil
}

// GetEmployee retrieves a directory entry by employee number.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, empNo string) (persistence.Employee, error) {
	if empNo == "" {
		return persistence.Employee{}, persistence.ErrNotFound
	}

	query := `
		SELECT emp_no, display_name, company, role, password_hash, created_at, updated_at
		FROM employees
		WHERE emp_no = ?
	`

	return scanEmployee(r.pool.db.QueryRowContext(ctx, query, empNo))
}

// ListEmployees returns all directory entries ordered by employee number.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	query := `
		SELECT emp_no, display_name, company, role, password_hash, created_at, updated_at
		FROM employees
		ORDER BY emp_no ASC
	`

	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}

	return employees, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var employee persistence.Employee
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&employee.EmpNo,
		&employee.DisplayName,
		&employee.Company,
		&employee.Role,
		&employee.PasswordHash,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Employee{}, persistence.ErrNotFound
		}
		return persistence.Employee{}, mapSQLiteError(err)
	}

	if employee.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Employee{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if employee.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Employee{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return employee, nil
}
