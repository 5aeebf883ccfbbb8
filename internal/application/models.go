package application

import "time"

// Roles recognised by the attendance domain. Only acting admins may mark
// attendance for employees.
const (
	RoleActingAdmin = "acting_admin"
	RoleEmployee    = "employee"
)

// Principal represents the authenticated employee invoking a service method.
type Principal struct {
	EmployeeID string
	Role       string
}

// IsActingAdmin reports whether the principal holds the administrative role.
func (p Principal) IsActingAdmin() bool {
	return p.Role == RoleActingAdmin
}

// ShiftStatus enumerates the lifecycle states of an attendance record.
type ShiftStatus string

const (
	// ShiftActive marks a shift that has started but not yet ended.
	ShiftActive ShiftStatus = "ACTIVE"
	// ShiftCompleted marks a shift with both bounds recorded and derived
	// fields computed.
	ShiftCompleted ShiftStatus = "COMPLETED"
)

// AttendanceRecord represents one shift attempt. ShiftEnd, TotalWorkHours,
// and ShiftCount are present exactly when Status is COMPLETED.
type AttendanceRecord struct {
	ID             string
	EmployeeID     string
	ShiftStart     time.Time
	ShiftEnd       *time.Time
	Status         ShiftStatus
	TotalWorkHours *float64
	ShiftCount     *int
	MarkedBy       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EmployeeRef is the directory view the ledger needs to validate a target
// employee.
type EmployeeRef struct {
	EmpNo       string
	CompanyID   string
	DisplayName string
}

// StatusView reports an employee's attendance state for the current day
// window. Record is the open shift when one exists, otherwise the day's most
// recent completed shift, otherwise nil.
type StatusView struct {
	EmployeeID  string
	Record      *AttendanceRecord
	CanCheckIn  bool
	CanCheckOut bool
}

// MarkParams identifies the target employee and the actor performing a
// check-in, checkout, or full-shift mark.
type MarkParams struct {
	EmployeeID string
	ActorID    string
}

// Employee represents a directory entry exposed by the employee service.
type Employee struct {
	EmpNo       string
	DisplayName string
	Company     string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmployeeInput captures caller provided employee attributes.
type EmployeeInput struct {
	EmpNo       string
	DisplayName string
	Company     string
	Role        string
	Password    string
}

// CreateEmployeeParams wraps the data required to register an employee.
type CreateEmployeeParams struct {
	Principal Principal
	Input     EmployeeInput
}

// EmployeeCredentials models the authentication attributes persisted for an
// employee.
type EmployeeCredentials struct {
	Employee     Employee
	PasswordHash string
}

// LoginParams captures the data required to authenticate an employee.
type LoginParams struct {
	EmpNo    string
	Password string
}

// LoginResult captures the outcome of a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Employee  Employee
}
