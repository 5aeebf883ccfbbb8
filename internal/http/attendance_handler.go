package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/attendance-ledger/internal/application"
)

type attendanceService interface {
	CheckIn(ctx context.Context, params application.MarkParams) (application.AttendanceRecord, error)
	CheckOut(ctx context.Context, params application.MarkParams) (application.AttendanceRecord, error)
	MarkShift(ctx context.Context, params application.MarkParams) (application.AttendanceRecord, error)
	Status(ctx context.Context, employeeID string) (application.StatusView, error)
	ListRecords(ctx context.Context, employeeID string) ([]application.AttendanceRecord, error)
}

type AttendanceHandler struct {
	service   attendanceService
	responder responder
	logger    *slog.Logger
}

func NewAttendanceHandler(service attendanceService, logger *slog.Logger) *AttendanceHandler {
	base := defaultLogger(logger)
	return &AttendanceHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AttendanceHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AttendanceHandler", operation, attrs...)
}

func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, "CheckIn", func(ctx context.Context, params application.MarkParams) (application.AttendanceRecord, error) {
		return h.service.CheckIn(ctx, params)
	})
}

func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, "CheckOut", func(ctx context.Context, params application.MarkParams) (application.AttendanceRecord, error) {
		return h.service.CheckOut(ctx, params)
	})
}

func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, "Mark", func(ctx context.Context, params application.MarkParams) (application.AttendanceRecord, error) {
		return h.service.MarkShift(ctx, params)
	})
}

func (h *AttendanceHandler) mark(w http.ResponseWriter, r *http.Request, operation string, invoke func(context.Context, application.MarkParams) (application.AttendanceRecord, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingAuthToken)
		return
	}

	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode mark request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	employeeID := strings.TrimSpace(req.EmployeeID)
	logger := h.log(r.Context(), operation, "employee_id", employeeID, "marked_by", principal.EmployeeID)

	record, err := invoke(r.Context(), application.MarkParams{
		EmployeeID: employeeID,
		ActorID:    principal.EmployeeID,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "attendance mutation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "attendance recorded", "record_id", record.ID, "status", record.Status)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, recordToDTO(record))
}

func (h *AttendanceHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID := strings.TrimSpace(r.URL.Query().Get("employee_id"))
	if employeeID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingEmployeeID)
		return
	}

	view, err := h.service.Status(r.Context(), employeeID)
	if err != nil {
		h.log(r.Context(), "Status", "employee_id", employeeID).ErrorContext(r.Context(), "status lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := statusResponse{
		EmployeeID:  view.EmployeeID,
		CanCheckIn:  view.CanCheckIn,
		CanCheckOut: view.CanCheckOut,
	}
	if view.Record != nil {
		dto := recordToDTO(*view.Record)
		resp.Record = &dto
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *AttendanceHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	employeeID := strings.TrimSpace(r.URL.Query().Get("employee_id"))
	if employeeID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingEmployeeID)
		return
	}

	records, err := h.service.ListRecords(r.Context(), employeeID)
	if err != nil {
		h.log(r.Context(), "ListRecords", "employee_id", employeeID).ErrorContext(r.Context(), "record listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]recordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, recordToDTO(record))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, recordListResponse{Records: dtos})
}

type markRequest struct {
	EmployeeID string `json:"employee_id"`
}

type recordDTO struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	ShiftStart     string   `json:"shift_start"`
	ShiftEnd       *string  `json:"shift_end,omitempty"`
	Status         string   `json:"status"`
	TotalWorkHours *float64 `json:"total_work_hours,omitempty"`
	ShiftCount     *int     `json:"shift_count,omitempty"`
	MarkedBy       string   `json:"marked_by"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type recordListResponse struct {
	Records []recordDTO `json:"records"`
}

type statusResponse struct {
	EmployeeID  string     `json:"employee_id"`
	Record      *recordDTO `json:"record,omitempty"`
	CanCheckIn  bool       `json:"can_check_in"`
	CanCheckOut bool       `json:"can_check_out"`
}

func recordToDTO(record application.AttendanceRecord) recordDTO {
	dto := recordDTO{
		ID:         record.ID,
		EmployeeID: record.EmployeeID,
		ShiftStart: record.ShiftStart.UTC().Format(time.RFC3339Nano),
		Status:     string(record.Status),
		MarkedBy:   record.MarkedBy,
		CreatedAt:  record.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:  record.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if record.ShiftEnd != nil {
		end := record.ShiftEnd.UTC().Format(time.RFC3339Nano)
		dto.ShiftEnd = &end
	}
	if record.TotalWorkHours != nil {
		hours := *record.TotalWorkHours
		dto.TotalWorkHours = &hours
	}
	if record.ShiftCount != nil {
		count := *record.ShiftCount
		dto.ShiftCount = &count
	}
	return dto
}
