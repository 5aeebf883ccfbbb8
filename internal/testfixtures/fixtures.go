package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/attendance-ledger/internal/persistence"
)

var (
	employeeCounter uint64
	recordCounter   uint64
)

var referenceTime = time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*persistence.Employee)

// NewEmployeeFixture returns a deterministic employee record with optional
// overrides.
func NewEmployeeFixture(opts ...EmployeeOption) persistence.Employee {
	idx := atomic.AddUint64(&employeeCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := persistence.Employee{
		EmpNo:        fmt.Sprintf("emp-%03d", idx),
		DisplayName:  fmt.Sprintf("Employee %03d", idx),
		Company:      "acme",
		Role:         "employee",
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEmpNo overrides the generated employee number.
func WithEmpNo(empNo string) EmployeeOption {
	return func(f *persistence.Employee) {
		f.EmpNo = empNo
	}
}

// WithRole overrides the generated role.
func WithRole(role string) EmployeeOption {
	return func(f *persistence.Employee) {
		f.Role = role
	}
}

// WithPasswordHash overrides the generated password hash.
func WithPasswordHash(hash string) EmployeeOption {
	return func(f *persistence.Employee) {
		f.PasswordHash = hash
	}
}

// RecordOption configures the generated attendance record fixture.
type RecordOption func(*persistence.AttendanceRecord)

// NewRecordFixture returns a deterministic open attendance record with
// optional overrides.
func NewRecordFixture(opts ...RecordOption) persistence.AttendanceRecord {
	idx := atomic.AddUint64(&recordCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := persistence.AttendanceRecord{
		ID:         fmt.Sprintf("record-%03d", idx),
		EmployeeID: fmt.Sprintf("emp-%03d", idx),
		ShiftStart: start,
		Status:     persistence.StatusActive,
		MarkedBy:   "admin-001",
		CreatedAt:  start,
		UpdatedAt:  start,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRecordID overrides the generated record identifier.
func WithRecordID(id string) RecordOption {
	return func(f *persistence.AttendanceRecord) {
		f.ID = id
	}
}

// WithRecordEmployee assigns the record to the given employee.
func WithRecordEmployee(employeeID string) RecordOption {
	return func(f *persistence.AttendanceRecord) {
		f.EmployeeID = employeeID
	}
}

// WithShiftStart overrides the shift start timestamp, keeping created and
// updated timestamps in step.
func WithShiftStart(start time.Time) RecordOption {
	return func(f *persistence.AttendanceRecord) {
		f.ShiftStart = start
		f.CreatedAt = start
		f.UpdatedAt = start
	}
}

// WithCompleted closes the record at the given end time with the supplied
// derived fields.
func WithCompleted(end time.Time, workHours float64, shiftCount int) RecordOption {
	return func(f *persistence.AttendanceRecord) {
		f.ShiftEnd = &end
		f.Status = persistence.StatusCompleted
		f.TotalWorkHours = &workHours
		f.ShiftCount = &shiftCount
		f.UpdatedAt = end
	}
}

// WithMarkedBy overrides the marking actor.
func WithMarkedBy(actorID string) RecordOption {
	return func(f *persistence.AttendanceRecord) {
		f.MarkedBy = actorID
	}
}
