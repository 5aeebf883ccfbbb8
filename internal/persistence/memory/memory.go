// Package memory provides a map-backed implementation of the persistence
// repositories. It mirrors the SQLite semantics, including the single-open-
// shift rule, and backs tests that do not need a database file.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/attendance-ledger/internal/persistence"
)

// Store holds employees and attendance records in process memory.
type Store struct {
	mu        sync.RWMutex
	employees map[string]persistence.Employee
	records   map[string]persistence.AttendanceRecord
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		employees: make(map[string]persistence.Employee),
		records:   make(map[string]persistence.AttendanceRecord),
	}
}

// --- EmployeeRepository implementation ---

// CreateEmployee stores a new directory entry.
func (s *Store) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employee.EmpNo]; ok {
		return persistence.ErrDuplicate
	}

	s.employees[employee.EmpNo] = employee
	return nil
}

// GetEmployee retrieves a directory entry by employee number.
func (s *Store) GetEmployee(ctx context.Context, empNo string) (persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[empNo]
	if !ok {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	return employee, nil
}

// ListEmployees returns all directory entries ordered by employee number.
func (s *Store) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]persistence.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		employees = append(employees, employee)
	}

	sort.Slice(employees, func(i, j int) bool {
		return employees[i].EmpNo < employees[j].EmpNo
	})

	return employees, nil
}

// --- AttendanceRepository implementation ---

// CreateRecord stores a shift record, rejecting a second open shift for the
// same employee.
func (s *Store) CreateRecord(ctx context.Context, record persistence.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[record.ID]; ok {
		return persistence.ErrDuplicate
	}

	for _, existing := range s.records {
		if existing.EmployeeID == record.EmployeeID && existing.Status == persistence.StatusActive {
			return persistence.ErrDuplicate
		}
	}

	s.records[record.ID] = cloneRecord(record)
	return nil
}

// CompleteRecord transitions the matching ACTIVE record to COMPLETED in one
// step.
func (s *Store) CompleteRecord(ctx context.Context, record persistence.AttendanceRecord) error {
	if record.ShiftEnd == nil || record.TotalWorkHours == nil || record.ShiftCount == nil {
		return fmt.Errorf("attendance: completing %s without derived fields", record.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[record.ID]
	if !ok || existing.Status != persistence.StatusActive {
		return persistence.ErrNotFound
	}

	existing.ShiftEnd = cloneTime(record.ShiftEnd)
	existing.Status = persistence.StatusCompleted
	existing.TotalWorkHours = cloneFloat(record.TotalWorkHours)
	existing.ShiftCount = cloneInt(record.ShiftCount)
	existing.MarkedBy = record.MarkedBy
	existing.UpdatedAt = record.UpdatedAt

	s.records[record.ID] = existing
	return nil
}

// GetRecord returns a single record by identifier.
func (s *Store) GetRecord(ctx context.Context, id string) (persistence.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return persistence.AttendanceRecord{}, persistence.ErrNotFound
	}
	return cloneRecord(record), nil
}

// GetActiveRecord returns the employee's open shift, if any.
func (s *Store) GetActiveRecord(ctx context.Context, employeeID string) (persistence.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.EmployeeID == employeeID && record.Status == persistence.StatusActive {
			return cloneRecord(record), nil
		}
	}

	return persistence.AttendanceRecord{}, persistence.ErrNotFound
}

// GetLatestRecordBetween returns the most recent record starting in [from, to).
func (s *Store) GetLatestRecordBetween(ctx context.Context, employeeID string, from, to time.Time) (persistence.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest persistence.AttendanceRecord
	found := false
	for _, record := range s.records {
		if record.EmployeeID != employeeID {
			continue
		}
		if record.ShiftStart.Before(from) || !record.ShiftStart.Before(to) {
			continue
		}
		if !found || record.ShiftStart.After(latest.ShiftStart) {
			latest = record
			found = true
		}
	}

	if !found {
		return persistence.AttendanceRecord{}, persistence.ErrNotFound
	}
	return cloneRecord(latest), nil
}

// ListRecords returns all records for an employee, newest first.
func (s *Store) ListRecords(ctx context.Context, employeeID string) ([]persistence.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]persistence.AttendanceRecord, 0)
	for _, record := range s.records {
		if record.EmployeeID != employeeID {
			continue
		}
		records = append(records, cloneRecord(record))
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].ShiftStart.Equal(records[j].ShiftStart) {
			return records[i].ID > records[j].ID
		}
		return records[i].ShiftStart.After(records[j].ShiftStart)
	})

	return records, nil
}

// --- Helpers ---

func cloneRecord(record persistence.AttendanceRecord) persistence.AttendanceRecord {
	record.ShiftEnd = cloneTime(record.ShiftEnd)
	record.TotalWorkHours = cloneFloat(record.TotalWorkHours)
	record.ShiftCount = cloneInt(record.ShiftCount)
	return record
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
