package persistence

import (
	"context"
	"time"
)

// EmployeeRepository exposes directory operations for employees.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, empNo string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// AttendanceRepository stores shift records keyed by employee.
//
// CreateRecord must re-verify, inside the same transaction that inserts, that
// no ACTIVE record exists for the employee and return ErrDuplicate otherwise.
// CompleteRecord must land shift end, status, and both derived fields as a
// single atomic write against the still-ACTIVE row, returning ErrNotFound when
// no such row remains.
type AttendanceRepository interface {
	CreateRecord(ctx context.Context, record AttendanceRecord) error
	CompleteRecord(ctx context.Context, record AttendanceRecord) error
	GetRecord(ctx context.Context, id string) (AttendanceRecord, error)
	GetActiveRecord(ctx context.Context, employeeID string) (AttendanceRecord, error)
	GetLatestRecordBetween(ctx context.Context, employeeID string, from, to time.Time) (AttendanceRecord, error)
	ListRecords(ctx context.Context, employeeID string) ([]AttendanceRecord, error)
}
