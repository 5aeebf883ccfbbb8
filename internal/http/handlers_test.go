package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/attendance-ledger/internal/application"
)

type attendanceServiceStub struct {
	record  application.AttendanceRecord
	view    application.StatusView
	records []application.AttendanceRecord
	err     error

	lastParams application.MarkParams
}

func (s *attendanceServiceStub) CheckIn(ctx context.Context, params application.MarkParams) (application.AttendanceRecord, error) {
	s.lastParams = params
	if s.err != nil {
		return application.AttendanceRecord{}, s.err
	}
	return s.record, nil
}

func (s *attendanceServiceStub) CheckOut(ctx context.Context, params application.MarkParams) (application.AttendanceRecord, error) {
	s.lastParams = params
	if s.err != nil {
		return application.AttendanceRecord{}, s.err
	}
	return s.record, nil
}

func (s *attendanceServiceStub) MarkShift(ctx context.Context, params application.MarkParams) (application.AttendanceRecord, error) {
	s.lastParams = params
	if s.err != nil {
		return application.AttendanceRecord{}, s.err
	}
	return s.record, nil
}

func (s *attendanceServiceStub) Status(ctx context.Context, employeeID string) (application.StatusView, error) {
	if s.err != nil {
		return application.StatusView{}, s.err
	}
	return s.view, nil
}

func (s *attendanceServiceStub) ListRecords(ctx context.Context, employeeID string) ([]application.AttendanceRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

type authServiceStub struct {
	result application.LoginResult
	err    error
}

func (s *authServiceStub) Login(ctx context.Context, params application.LoginParams) (application.LoginResult, error) {
	if s.err != nil {
		return application.LoginResult{}, s.err
	}
	return s.result, nil
}

type employeeServiceStub struct {
	employee  application.Employee
	employees []application.Employee
	err       error
}

func (s *employeeServiceStub) CreateEmployee(ctx context.Context, params application.CreateEmployeeParams) (application.Employee, error) {
	if s.err != nil {
		return application.Employee{}, s.err
	}
	return s.employee, nil
}

func (s *employeeServiceStub) GetEmployee(ctx context.Context, empNo string) (application.Employee, error) {
	if s.err != nil {
		return application.Employee{}, s.err
	}
	return s.employee, nil
}

func (s *employeeServiceStub) ListEmployees(ctx context.Context) ([]application.Employee, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.employees, nil
}

func sampleRecord() application.AttendanceRecord {
	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	return application.AttendanceRecord{
		ID:         "record-1",
		EmployeeID: "emp-1",
		ShiftStart: start,
		Status:     application.ShiftActive,
		MarkedBy:   "admin-1",
		CreatedAt:  start,
		UpdatedAt:  start,
	}
}

func adminContext(req *http.Request) *http.Request {
	ctx := ContextWithPrincipal(req.Context(), application.Principal{EmployeeID: "admin-1", Role: application.RoleActingAdmin})
	return req.WithContext(ctx)
}

func TestAttendanceHandler_CheckIn_ReturnsRecord(t *testing.T) {
	t.Parallel()

	svc := &attendanceServiceStub{record: sampleRecord()}
	handler := NewAttendanceHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/attendance/checkin", strings.NewReader(`{"employee_id":"emp-1"}`))
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.CheckIn(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var dto recordDTO
	if err := json.NewDecoder(recorder.Body).Decode(&dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if dto.ID != "record-1" || dto.Status != "ACTIVE" {
		t.Fatalf("unexpected payload: %+v", dto)
	}
	if svc.lastParams.ActorID != "admin-1" {
		t.Fatalf("expected the actor from the token, got %q", svc.lastParams.ActorID)
	}
	if svc.lastParams.EmployeeID != "emp-1" {
		t.Fatalf("expected the employee from the body, got %q", svc.lastParams.EmployeeID)
	}
}

func TestAttendanceHandler_CheckIn_RequiresPrincipal(t *testing.T) {
	t.Parallel()

	handler := NewAttendanceHandler(&attendanceServiceStub{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/attendance/checkin", strings.NewReader(`{"employee_id":"emp-1"}`))
	recorder := httptest.NewRecorder()

	handler.CheckIn(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestAttendanceHandler_CheckIn_MapsConflict(t *testing.T) {
	t.Parallel()

	handler := NewAttendanceHandler(&attendanceServiceStub{err: application.ErrConflict}, nil)

	req := httptest.NewRequest(http.MethodPost, "/attendance/checkin", strings.NewReader(`{"employee_id":"emp-1"}`))
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.CheckIn(recorder, req)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", recorder.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ErrorCode != "SHIFT_CONFLICT" {
		t.Fatalf("expected SHIFT_CONFLICT code, got %q", resp.ErrorCode)
	}
}

func TestAttendanceHandler_CheckOut_MapsMissingShift(t *testing.T) {
	t.Parallel()

	handler := NewAttendanceHandler(&attendanceServiceStub{err: application.ErrNotFound}, nil)

	req := httptest.NewRequest(http.MethodPost, "/attendance/checkout", strings.NewReader(`{"employee_id":"emp-1"}`))
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.CheckOut(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestAttendanceHandler_Mark_MapsForbidden(t *testing.T) {
	t.Parallel()

	handler := NewAttendanceHandler(&attendanceServiceStub{err: application.ErrForbidden}, nil)

	req := httptest.NewRequest(http.MethodPost, "/attendance/mark", strings.NewReader(`{"employee_id":"emp-1"}`))
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.Mark(recorder, req)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
}

func TestAttendanceHandler_Mark_MapsValidationError(t *testing.T) {
	t.Parallel()

	vErr := &application.ValidationError{FieldErrors: map[string]string{"employee_id": "employee id is required"}}
	handler := NewAttendanceHandler(&attendanceServiceStub{err: vErr}, nil)

	req := httptest.NewRequest(http.MethodPost, "/attendance/mark", strings.NewReader(`{}`))
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.Mark(recorder, req)

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", recorder.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, ok := resp.Errors["employee_id"]; !ok {
		t.Fatalf("expected field errors, got %+v", resp)
	}
}

func TestAttendanceHandler_Status_ReturnsFlags(t *testing.T) {
	t.Parallel()

	record := sampleRecord()
	svc := &attendanceServiceStub{view: application.StatusView{
		EmployeeID:  "emp-1",
		Record:      &record,
		CanCheckOut: true,
	}}
	handler := NewAttendanceHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/attendance/status?employee_id=emp-1", nil)
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.Status(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var resp statusResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CanCheckIn || !resp.CanCheckOut {
		t.Fatalf("unexpected flags: %+v", resp)
	}
	if resp.Record == nil || resp.Record.ID != "record-1" {
		t.Fatalf("expected the open shift in the payload, got %+v", resp.Record)
	}
}

func TestAttendanceHandler_Status_RequiresEmployeeID(t *testing.T) {
	t.Parallel()

	handler := NewAttendanceHandler(&attendanceServiceStub{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/attendance/status", nil)
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.Status(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestAttendanceHandler_ListRecords(t *testing.T) {
	t.Parallel()

	svc := &attendanceServiceStub{records: []application.AttendanceRecord{sampleRecord()}}
	handler := NewAttendanceHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/attendance/records?employee_id=emp-1", nil)
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.ListRecords(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var resp recordListResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(resp.Records))
	}
}

func TestAuthHandler_Login_ReturnsToken(t *testing.T) {
	t.Parallel()

	svc := &authServiceStub{result: application.LoginResult{
		Token:     "signed-token",
		ExpiresAt: time.Date(2024, 3, 14, 21, 0, 0, 0, time.UTC),
		Employee:  application.Employee{EmpNo: "admin-1", Role: application.RoleActingAdmin},
	}}
	handler := NewAuthHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"emp_no":"admin-1","password":"open sesame"}`))
	recorder := httptest.NewRecorder()

	handler.Login(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var resp loginResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token != "signed-token" {
		t.Fatalf("expected the signed token, got %q", resp.Token)
	}
	if resp.Employee.EmpNo != "admin-1" {
		t.Fatalf("expected the employee payload, got %+v", resp.Employee)
	}
}

func TestAuthHandler_Login_MapsInvalidCredentials(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&authServiceStub{err: application.ErrInvalidCredentials}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"emp_no":"admin-1","password":"wrong"}`))
	recorder := httptest.NewRecorder()

	handler.Login(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
		t.Fatalf("expected AUTH_INVALID_CREDENTIALS, got %q", resp.ErrorCode)
	}
}

func TestAuthHandler_Login_RejectsMalformedBody(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&authServiceStub{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{not json`))
	recorder := httptest.NewRecorder()

	handler.Login(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestEmployeeHandler_Create_ReturnsEmployee(t *testing.T) {
	t.Parallel()

	svc := &employeeServiceStub{employee: application.Employee{EmpNo: "emp-1", DisplayName: "Jordan Smith", Company: "acme", Role: application.RoleEmployee}}
	handler := NewEmployeeHandler(svc, nil)

	body := `{"emp_no":"emp-1","display_name":"Jordan Smith","company":"acme","role":"employee","password":"correct horse battery"}`
	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.Create(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var dto employeeDTO
	if err := json.NewDecoder(recorder.Body).Decode(&dto); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if dto.EmpNo != "emp-1" {
		t.Fatalf("unexpected payload: %+v", dto)
	}
}

func TestEmployeeHandler_Create_MapsForbidden(t *testing.T) {
	t.Parallel()

	handler := NewEmployeeHandler(&employeeServiceStub{err: application.ErrForbidden}, nil)

	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"emp_no":"emp-1"}`))
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.Create(recorder, req)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
}

func TestEmployeeHandler_Get_UsesPathEmpNo(t *testing.T) {
	t.Parallel()

	svc := &employeeServiceStub{employee: application.Employee{EmpNo: "emp-1"}}
	handler := NewEmployeeHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/employees/emp-1", nil)
	req = req.WithContext(ContextWithEmpNo(req.Context(), "emp-1"))
	req = adminContext(req)
	recorder := httptest.NewRecorder()

	handler.Get(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestRouter_RoutesAndMethods(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{
		Auth:       NewAuthHandler(&authServiceStub{}, nil),
		Employees:  NewEmployeeHandler(&employeeServiceStub{}, nil),
		Attendance: NewAttendanceHandler(&attendanceServiceStub{record: sampleRecord()}, nil),
	})

	t.Run("login rejects GET", func(t *testing.T) {
		t.Parallel()

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/login", nil))
		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
	})

	t.Run("checkin rejects GET", func(t *testing.T) {
		t.Parallel()

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/attendance/checkin", nil))
		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
	})

	t.Run("routes checkin to the handler", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/attendance/checkin", strings.NewReader(`{"employee_id":"emp-1"}`))
		req = adminContext(req)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", recorder.Code)
		}
	})

	t.Run("unknown paths return 404", func(t *testing.T) {
		t.Parallel()

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", recorder.Code)
		}
	})
}
