package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/attendance-ledger/internal/persistence"
	"github.com/example/attendance-ledger/internal/testfixtures"
)

func TestEmployeeRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	employee := testfixtures.NewEmployeeFixture(testfixtures.WithRole("acting_admin"))
	if err := harness.Employees.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := harness.Employees.GetEmployee(ctx, employee.EmpNo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.DisplayName != employee.DisplayName {
		t.Fatalf("expected %q, got %q", employee.DisplayName, stored.DisplayName)
	}
	if stored.Role != "acting_admin" {
		t.Fatalf("expected role to round trip, got %q", stored.Role)
	}
	if stored.PasswordHash != employee.PasswordHash {
		t.Fatalf("expected password hash to round trip, got %q", stored.PasswordHash)
	}
}

func TestEmployeeRepository_CreateEmployee_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	employee := testfixtures.NewEmployeeFixture()
	if err := harness.Employees.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := harness.Employees.CreateEmployee(ctx, employee); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestEmployeeRepository_GetEmployee_NotFound(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewSQLiteHarness(t)

	_, err := harness.Employees.GetEmployee(context.Background(), "ghost")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmployeeRepository_ListEmployees_Ordered(t *testing.T) {
	t.Parallel()

	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	for _, empNo := range []string{"emp-zz", "emp-aa", "emp-mm"} {
		employee := testfixtures.NewEmployeeFixture(testfixtures.WithEmpNo(empNo))
		if err := harness.Employees.CreateEmployee(ctx, employee); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	employees, err := harness.Employees.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(employees) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(employees))
	}
	for i := 1; i < len(employees); i++ {
		if employees[i].EmpNo < employees[i-1].EmpNo {
			t.Fatal("expected employees ordered by employee number")
		}
	}
}
