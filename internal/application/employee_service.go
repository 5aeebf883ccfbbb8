package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/attendance-ledger/internal/persistence"
)

// EmployeeRepository abstracts the employee directory persistence needed by
// the service layer.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee EmployeeCredentials) (Employee, error)
	GetEmployee(ctx context.Context, empNo string) (EmployeeCredentials, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// EmployeeService manages the employee directory. Registration is restricted
// to acting admins; reads are open to any authenticated principal.
type EmployeeService struct {
	employees    EmployeeRepository
	hashPassword func(password string) (string, error)
	now          func() time.Time
	logger       *slog.Logger
}

// NewEmployeeService creates an EmployeeService backed by the given repository.
func NewEmployeeService(employees EmployeeRepository, now func() time.Time) *EmployeeService {
	return NewEmployeeServiceWithLogger(employees, now, nil)
}

// NewEmployeeServiceWithLogger creates an EmployeeService with a specified logger.
func NewEmployeeServiceWithLogger(employees EmployeeRepository, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{
		employees: employees,
		hashPassword: func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		},
		now:    now,
		logger: defaultLogger(logger),
	}
}

func (s *EmployeeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

// CreateEmployee registers a new employee. Only acting admins may register.
func (s *EmployeeService) CreateEmployee(ctx context.Context, params CreateEmployeeParams) (Employee, error) {
	if s == nil {
		return Employee{}, fmt.Errorf("EmployeeService is nil")
	}

	logger := s.loggerWith(ctx, "CreateEmployee", "emp_no", params.Input.EmpNo, "requested_by", params.Principal.EmployeeID)

	if !params.Principal.IsActingAdmin() {
		logger.WarnContext(ctx, "employee registration denied", "role", params.Principal.Role)
		return Employee{}, ErrForbidden
	}

	if vErr := validateEmployeeInput(params.Input); vErr.HasErrors() {
		return Employee{}, vErr
	}

	hash, err := s.hashPassword(params.Input.Password)
	if err != nil {
		logger.ErrorContext(ctx, "password hashing failed", "error", err)
		return Employee{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	credentials := EmployeeCredentials{
		Employee: Employee{
			EmpNo:       strings.TrimSpace(params.Input.EmpNo),
			DisplayName: strings.TrimSpace(params.Input.DisplayName),
			Company:     strings.TrimSpace(params.Input.Company),
			Role:        params.Input.Role,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		PasswordHash: hash,
	}

	created, err := s.employees.CreateEmployee(ctx, credentials)
	if err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			vErr := &ValidationError{}
			vErr.add("emp_no", "an employee with this number already exists")
			return Employee{}, vErr
		}
		logger.ErrorContext(ctx, "employee registration failed", "error", err)
		return Employee{}, mapRecordRepoError(err)
	}

	logger.InfoContext(ctx, "employee registered", "emp_no", created.EmpNo, "role", created.Role)
	return created, nil
}

// GetEmployee returns a single directory entry.
func (s *EmployeeService) GetEmployee(ctx context.Context, empNo string) (Employee, error) {
	if s == nil {
		return Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	empNo = strings.TrimSpace(empNo)
	if empNo == "" {
		vErr := &ValidationError{}
		vErr.add("emp_no", "employee number is required")
		return Employee{}, vErr
	}

	credentials, err := s.employees.GetEmployee(ctx, empNo)
	if err != nil {
		return Employee{}, mapRecordRepoError(err)
	}
	return credentials.Employee, nil
}

// ListEmployees returns every directory entry.
func (s *EmployeeService) ListEmployees(ctx context.Context) ([]Employee, error) {
	if s == nil {
		return nil, fmt.Errorf("EmployeeService is nil")
	}

	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListEmployees").ErrorContext(ctx, "employee listing failed", "error", err)
		return nil, mapRecordRepoError(err)
	}
	return employees, nil
}

func validateEmployeeInput(input EmployeeInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.EmpNo) == "" {
		vErr.add("emp_no", "employee number is required")
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		vErr.add("display_name", "display name is required")
	}
	if strings.TrimSpace(input.Company) == "" {
		vErr.add("company", "company is required")
	}
	switch input.Role {
	case RoleActingAdmin, RoleEmployee:
	default:
		vErr.add("role", "role must be acting_admin or employee")
	}
	if len(input.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}
	return vErr
}
