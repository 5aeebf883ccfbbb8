package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/attendance-ledger/internal/persistence"
	"github.com/example/attendance-ledger/internal/shiftclock"
)

// AttendanceRepository captures the persistence interactions needed by the
// ledger. CreateRecord must reject a second open shift for the same employee
// with a duplicate error; CompleteRecord must write shift end, status, and
// both derived fields atomically.
type AttendanceRepository interface {
	CreateRecord(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)
	CompleteRecord(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)
	ActiveRecord(ctx context.Context, employeeID string) (AttendanceRecord, error)
	LatestRecordBetween(ctx context.Context, employeeID string, from, to time.Time) (AttendanceRecord, error)
	ListRecords(ctx context.Context, employeeID string) ([]AttendanceRecord, error)
}

// EmployeeDirectory resolves target employees. Directory management itself is
// owned elsewhere; the ledger only needs existence and display data.
type EmployeeDirectory interface {
	ResolveEmployee(ctx context.Context, employeeID string) (EmployeeRef, error)
}

// MarkAuthorizer decides whether an actor may mark attendance for employees.
type MarkAuthorizer interface {
	IsAuthorizedToMark(ctx context.Context, actorID string) (bool, error)
}

// EmployeeLocker provides the per-employee exclusive scope wrapping every
// read-validate-write sequence of the ledger.
type EmployeeLocker interface {
	Do(ctx context.Context, key string, fn func() error) error
}

// AttendanceService is the authoritative state machine for employee shifts.
// Every open-shift decision in the system goes through it; no caller
// re-implements the check.
type AttendanceService struct {
	records        AttendanceRepository
	directory      EmployeeDirectory
	authorizer     MarkAuthorizer
	guard          EmployeeLocker
	policy         shiftclock.Policy
	scheduledShift time.Duration
	idGenerator    func() string
	now            func() time.Time
	logger         *slog.Logger
}

// NewAttendanceService wires dependencies for the attendance ledger.
func NewAttendanceService(records AttendanceRepository, directory EmployeeDirectory, authorizer MarkAuthorizer, guard EmployeeLocker, policy shiftclock.Policy, scheduledShift time.Duration, idGenerator func() string, now func() time.Time) *AttendanceService {
	return NewAttendanceServiceWithLogger(records, directory, authorizer, guard, policy, scheduledShift, idGenerator, now, nil)
}

// NewAttendanceServiceWithLogger constructs an AttendanceService with a
// specified logger.
func NewAttendanceServiceWithLogger(records AttendanceRepository, directory EmployeeDirectory, authorizer MarkAuthorizer, guard EmployeeLocker, policy shiftclock.Policy, scheduledShift time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AttendanceService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if policy.WorkHoursCap <= 0 || policy.ShiftUnit <= 0 {
		policy = shiftclock.DefaultPolicy()
	}
	if scheduledShift <= 0 {
		scheduledShift = 8 * time.Hour
	}
	return &AttendanceService{
		records:        records,
		directory:      directory,
		authorizer:     authorizer,
		guard:          guard,
		policy:         policy,
		scheduledShift: scheduledShift,
		idGenerator:    idGenerator,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *AttendanceService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AttendanceService", operation, attrs...)
}

// CheckIn opens a shift for the target employee. It fails with ErrConflict
// when a shift is already open, ErrNotFound for unknown employees, and
// ErrForbidden when the actor may not mark attendance.
func (s *AttendanceService) CheckIn(ctx context.Context, params MarkParams) (AttendanceRecord, error) {
	if s == nil {
		return AttendanceRecord{}, fmt.Errorf("AttendanceService is nil")
	}
	if vErr := validateMarkParams(params); vErr.HasErrors() {
		return AttendanceRecord{}, vErr
	}

	logger := s.loggerWith(ctx, "CheckIn", "employee_id", params.EmployeeID, "marked_by", params.ActorID)

	var persisted AttendanceRecord
	err := s.withEmployeeScope(ctx, params.EmployeeID, func() error {
		if err := s.resolveAndAuthorize(ctx, params); err != nil {
			return err
		}

		// The open-shift check and the insert share the guarded scope, so
		// two concurrent check-ins cannot both observe "no open shift".
		_, err := s.records.ActiveRecord(ctx, params.EmployeeID)
		switch {
		case err == nil:
			return ErrConflict
		case !isNotFound(err):
			return mapRecordRepoError(err)
		}

		now := s.now()
		record := AttendanceRecord{
			ID:         s.idGenerator(),
			EmployeeID: params.EmployeeID,
			ShiftStart: now,
			Status:     ShiftActive,
			MarkedBy:   params.ActorID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		persisted, err = s.records.CreateRecord(ctx, record)
		if err != nil {
			return mapRecordRepoError(err)
		}
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "check-in failed", "error", err, "error_kind", ErrorKind(err))
		return AttendanceRecord{}, err
	}

	logger.InfoContext(ctx, "shift opened", "record_id", persisted.ID, "shift_start", persisted.ShiftStart)
	return persisted, nil
}

// CheckOut closes the employee's open shift, computing work hours and shift
// count from the full timestamps and committing all derived fields together.
func (s *AttendanceService) CheckOut(ctx context.Context, params MarkParams) (AttendanceRecord, error) {
	if s == nil {
		return AttendanceRecord{}, fmt.Errorf("AttendanceService is nil")
	}
	if vErr := validateMarkParams(params); vErr.HasErrors() {
		return AttendanceRecord{}, vErr
	}

	logger := s.loggerWith(ctx, "CheckOut", "employee_id", params.EmployeeID, "marked_by", params.ActorID)

	var persisted AttendanceRecord
	err := s.withEmployeeScope(ctx, params.EmployeeID, func() error {
		if err := s.resolveAndAuthorize(ctx, params); err != nil {
			return err
		}

		active, err := s.records.ActiveRecord(ctx, params.EmployeeID)
		if err != nil {
			if isNotFound(err) {
				return fmt.Errorf("no active shift: %w", ErrNotFound)
			}
			return mapRecordRepoError(err)
		}

		end := s.now()
		result, err := shiftclock.Compute(active.ShiftStart, end, s.policy)
		if err != nil {
			vErr := &ValidationError{}
			vErr.add("shift_end", "shift end must not precede shift start")
			return vErr
		}

		updated := active
		updated.ShiftEnd = &end
		updated.Status = ShiftCompleted
		updated.TotalWorkHours = &result.WorkHours
		updated.ShiftCount = &result.ShiftCount
		updated.MarkedBy = params.ActorID
		updated.UpdatedAt = end

		persisted, err = s.records.CompleteRecord(ctx, updated)
		if err != nil {
			return mapRecordRepoError(err)
		}
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "checkout failed", "error", err, "error_kind", ErrorKind(err))
		return AttendanceRecord{}, err
	}

	logger.InfoContext(ctx, "shift completed",
		"record_id", persisted.ID,
		"total_work_hours", derefFloat(persisted.TotalWorkHours),
		"shift_count", derefInt(persisted.ShiftCount),
	)
	return persisted, nil
}

// MarkShift records a full scheduled shift in one operation: start now, end
// after the configured shift length, derived fields computed the same way a
// checkout computes them. It honors the single-open-shift rule like any other
// mutation.
func (s *AttendanceService) MarkShift(ctx context.Context, params MarkParams) (AttendanceRecord, error) {
	if s == nil {
		return AttendanceRecord{}, fmt.Errorf("AttendanceService is nil")
	}
	if vErr := validateMarkParams(params); vErr.HasErrors() {
		return AttendanceRecord{}, vErr
	}

	logger := s.loggerWith(ctx, "MarkShift", "employee_id", params.EmployeeID, "marked_by", params.ActorID)

	var persisted AttendanceRecord
	err := s.withEmployeeScope(ctx, params.EmployeeID, func() error {
		if err := s.resolveAndAuthorize(ctx, params); err != nil {
			return err
		}

		_, err := s.records.ActiveRecord(ctx, params.EmployeeID)
		switch {
		case err == nil:
			return ErrConflict
		case !isNotFound(err):
			return mapRecordRepoError(err)
		}

		start := s.now()
		end := start.Add(s.scheduledShift)
		result, err := shiftclock.Compute(start, end, s.policy)
		if err != nil {
			return err
		}

		record := AttendanceRecord{
			ID:             s.idGenerator(),
			EmployeeID:     params.EmployeeID,
			ShiftStart:     start,
			ShiftEnd:       &end,
			Status:         ShiftCompleted,
			TotalWorkHours: &result.WorkHours,
			ShiftCount:     &result.ShiftCount,
			MarkedBy:       params.ActorID,
			CreatedAt:      start,
			UpdatedAt:      start,
		}

		persisted, err = s.records.CreateRecord(ctx, record)
		if err != nil {
			return mapRecordRepoError(err)
		}
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "mark failed", "error", err, "error_kind", ErrorKind(err))
		return AttendanceRecord{}, err
	}

	logger.InfoContext(ctx, "scheduled shift recorded", "record_id", persisted.ID)
	return persisted, nil
}

// Status reports the employee's attendance state for the current day window.
// An open shift always surfaces, even one opened before today, so an
// overnight shift keeps blocking check-in until it is closed.
func (s *AttendanceService) Status(ctx context.Context, employeeID string) (StatusView, error) {
	if s == nil {
		return StatusView{}, fmt.Errorf("AttendanceService is nil")
	}
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		vErr := &ValidationError{}
		vErr.add("employee_id", "employee id is required")
		return StatusView{}, vErr
	}

	if _, err := s.directory.ResolveEmployee(ctx, employeeID); err != nil {
		return StatusView{}, mapRecordRepoError(err)
	}

	view := StatusView{EmployeeID: employeeID}

	active, err := s.records.ActiveRecord(ctx, employeeID)
	if err == nil {
		view.Record = &active
		view.CanCheckOut = true
		return view, nil
	}
	if !isNotFound(err) {
		return StatusView{}, mapRecordRepoError(err)
	}

	from, to := dayWindow(s.now())
	latest, err := s.records.LatestRecordBetween(ctx, employeeID, from, to)
	if err != nil {
		if isNotFound(err) {
			view.CanCheckIn = true
			return view, nil
		}
		return StatusView{}, mapRecordRepoError(err)
	}

	view.Record = &latest
	view.CanCheckIn = latest.Status == ShiftCompleted
	return view, nil
}

// ListRecords returns the employee's shift history, newest first.
func (s *AttendanceService) ListRecords(ctx context.Context, employeeID string) ([]AttendanceRecord, error) {
	if s == nil {
		return nil, fmt.Errorf("AttendanceService is nil")
	}
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		vErr := &ValidationError{}
		vErr.add("employee_id", "employee id is required")
		return nil, vErr
	}

	if _, err := s.directory.ResolveEmployee(ctx, employeeID); err != nil {
		return nil, mapRecordRepoError(err)
	}

	records, err := s.records.ListRecords(ctx, employeeID)
	if err != nil {
		return nil, mapRecordRepoError(err)
	}
	return records, nil
}

func (s *AttendanceService) withEmployeeScope(ctx context.Context, employeeID string, fn func() error) error {
	if s.guard == nil {
		return fn()
	}
	return s.guard.Do(ctx, employeeID, fn)
}

func (s *AttendanceService) resolveAndAuthorize(ctx context.Context, params MarkParams) error {
	if s.directory != nil {
		if _, err := s.directory.ResolveEmployee(ctx, params.EmployeeID); err != nil {
			return mapRecordRepoError(err)
		}
	}

	if s.authorizer != nil {
		authorized, err := s.authorizer.IsAuthorizedToMark(ctx, params.ActorID)
		if err != nil {
			return mapRecordRepoError(err)
		}
		if !authorized {
			return ErrForbidden
		}
	}

	return nil
}

func validateMarkParams(params MarkParams) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(params.EmployeeID) == "" {
		vErr.add("employee_id", "employee id is required")
	}
	if strings.TrimSpace(params.ActorID) == "" {
		vErr.add("marked_by", "marking actor is required")
	}
	return vErr
}

func dayWindow(reference time.Time) (time.Time, time.Time) {
	start := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, reference.Location())
	return start, start.AddDate(0, 0, 1)
}

func mapRecordRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, persistence.ErrDuplicate):
		return ErrConflict
	case errors.Is(err, ErrForbidden):
		return ErrForbidden
	case errors.Is(err, persistence.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}

func derefFloat(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}

func derefInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
