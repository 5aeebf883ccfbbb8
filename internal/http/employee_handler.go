package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/attendance-ledger/internal/application"
)

type employeeService interface {
	CreateEmployee(ctx context.Context, params application.CreateEmployeeParams) (application.Employee, error)
	GetEmployee(ctx context.Context, empNo string) (application.Employee, error)
	ListEmployees(ctx context.Context) ([]application.Employee, error)
}

type EmployeeHandler struct {
	service   employeeService
	responder responder
	logger    *slog.Logger
}

func NewEmployeeHandler(service employeeService, logger *slog.Logger) *EmployeeHandler {
	base := defaultLogger(logger)
	return &EmployeeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EmployeeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "EmployeeHandler", operation, attrs...)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingAuthToken)
		return
	}

	var req employeeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode employee request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "emp_no", req.EmpNo, "requested_by", principal.EmployeeID)

	employee, err := h.service.CreateEmployee(r.Context(), application.CreateEmployeeParams{
		Principal: principal,
		Input: application.EmployeeInput{
			EmpNo:       req.EmpNo,
			DisplayName: req.DisplayName,
			Company:     req.Company,
			Role:        req.Role,
			Password:    req.Password,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "employee registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "employee registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, employeeToDTO(employee))
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	empNo, _ := EmpNoFromContext(r.Context())

	employee, err := h.service.GetEmployee(r.Context(), empNo)
	if err != nil {
		h.log(r.Context(), "Get", "emp_no", empNo).ErrorContext(r.Context(), "employee lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeToDTO(employee))
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employees, err := h.service.ListEmployees(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "employee listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]employeeDTO, 0, len(employees))
	for _, employee := range employees {
		dtos = append(dtos, employeeToDTO(employee))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, employeeListResponse{Employees: dtos})
}

type employeeCreateRequest struct {
	EmpNo       string `json:"emp_no"`
	DisplayName string `json:"display_name"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Password    string `json:"password"`
}

type employeeDTO struct {
	EmpNo       string `json:"emp_no"`
	DisplayName string `json:"display_name"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type employeeListResponse struct {
	Employees []employeeDTO `json:"employees"`
}

func employeeToDTO(employee application.Employee) employeeDTO {
	return employeeDTO{
		EmpNo:       employee.EmpNo,
		DisplayName: employee.DisplayName,
		Company:     employee.Company,
		Role:        employee.Role,
		CreatedAt:   employee.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   employee.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
