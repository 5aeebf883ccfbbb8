package persistence

import "time"

// Shift status values stored in the attendance table.
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
)

// Employee represents a directory entry in the attendance domain.
type Employee struct {
	EmpNo        string
	DisplayName  string
	Company      string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AttendanceRecord represents one shift attempt stored in persistence. A row
// with a nil ShiftEnd is an open shift; TotalWorkHours and ShiftCount are set
// together with ShiftEnd at checkout and never before.
type AttendanceRecord struct {
	ID             string
	EmployeeID     string
	ShiftStart     time.Time
	ShiftEnd       *time.Time
	Status         string
	TotalWorkHours *float64
	ShiftCount     *int
	MarkedBy       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
