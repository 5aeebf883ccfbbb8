package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/attendance-ledger/internal/application"
	"github.com/example/attendance-ledger/internal/config"
	httptransport "github.com/example/attendance-ledger/internal/http"
	"github.com/example/attendance-ledger/internal/locking"
	"github.com/example/attendance-ledger/internal/persistence"
	"github.com/example/attendance-ledger/internal/persistence/sqlite"
	"github.com/example/attendance-ledger/internal/shiftclock"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := func() string { return uuid.NewString() }
	now := time.Now

	employeeRepo := sqlite.NewEmployeeRepository(storage)
	attendanceRepo := sqlite.NewAttendanceRepository(storage)

	employees := newEmployeeRepositoryAdapter(employeeRepo)
	records := newAttendanceRepositoryAdapter(attendanceRepo)
	directory := newEmployeeDirectoryAdapter(employeeRepo)
	authorizer := newMarkAuthorizerAdapter(employeeRepo)
	guard := locking.NewKeyed()

	policy := shiftclock.Policy{WorkHoursCap: cfg.WorkHoursCap, ShiftUnit: cfg.ShiftUnit}

	attendanceService := application.NewAttendanceServiceWithLogger(records, directory, authorizer, guard, policy, cfg.ScheduledShift, idGenerator, now, logger)
	employeeService := application.NewEmployeeServiceWithLogger(employees, now, logger)
	authService := application.NewAuthServiceWithLogger(employees, []byte(cfg.JWTSecret), cfg.TokenTTL, now, logger)

	authHandler := httptransport.NewAuthHandler(authService, logger)
	employeeHandler := httptransport.NewEmployeeHandler(employeeService, logger)
	attendanceHandler := httptransport.NewAttendanceHandler(attendanceService, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:       authHandler,
		Employees:  employeeHandler,
		Attendance: attendanceHandler,
	})

	protected := httptransport.RequireAuth(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Path, "/login") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("attendance API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type employeeRepositoryAdapter struct {
	repo persistence.EmployeeRepository
}

func newEmployeeRepositoryAdapter(repo persistence.EmployeeRepository) *employeeRepositoryAdapter {
	return &employeeRepositoryAdapter{repo: repo}
}

func (a *employeeRepositoryAdapter) CreateEmployee(ctx context.Context, credentials application.EmployeeCredentials) (application.Employee, error) {
	if err := a.repo.CreateEmployee(ctx, toPersistenceEmployee(credentials)); err != nil {
		return application.Employee{}, err
	}
	stored, err := a.repo.GetEmployee(ctx, credentials.Employee.EmpNo)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(stored), nil
}

func (a *employeeRepositoryAdapter) GetEmployee(ctx context.Context, empNo string) (application.EmployeeCredentials, error) {
	stored, err := a.repo.GetEmployee(ctx, empNo)
	if err != nil {
		return application.EmployeeCredentials{}, err
	}
	return application.EmployeeCredentials{
		Employee:     toApplicationEmployee(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *employeeRepositoryAdapter) ListEmployees(ctx context.Context) ([]application.Employee, error) {
	models, err := a.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	employees := make([]application.Employee, 0, len(models))
	for _, model := range models {
		employees = append(employees, toApplicationEmployee(model))
	}
	return employees, nil
}

type attendanceRepositoryAdapter struct {
	repo persistence.AttendanceRepository
}

func newAttendanceRepositoryAdapter(repo persistence.AttendanceRepository) *attendanceRepositoryAdapter {
	return &attendanceRepositoryAdapter{repo: repo}
}

func (a *attendanceRepositoryAdapter) CreateRecord(ctx context.Context, record application.AttendanceRecord) (application.AttendanceRecord, error) {
	if err := a.repo.CreateRecord(ctx, toPersistenceRecord(record)); err != nil {
		return application.AttendanceRecord{}, err
	}
	stored, err := a.repo.GetRecord(ctx, record.ID)
	if err != nil {
		return application.AttendanceRecord{}, err
	}
	return toApplicationRecord(stored), nil
}

func (a *attendanceRepositoryAdapter) CompleteRecord(ctx context.Context, record application.AttendanceRecord) (application.AttendanceRecord, error) {
	if err := a.repo.CompleteRecord(ctx, toPersistenceRecord(record)); err != nil {
		return application.AttendanceRecord{}, err
	}
	stored, err := a.repo.GetRecord(ctx, record.ID)
	if err != nil {
		return application.AttendanceRecord{}, err
	}
	return toApplicationRecord(stored), nil
}

func (a *attendanceRepositoryAdapter) ActiveRecord(ctx context.Context, employeeID string) (application.AttendanceRecord, error) {
	stored, err := a.repo.GetActiveRecord(ctx, employeeID)
	if err != nil {
		return application.AttendanceRecord{}, err
	}
	return toApplicationRecord(stored), nil
}

func (a *attendanceRepositoryAdapter) LatestRecordBetween(ctx context.Context, employeeID string, from, to time.Time) (application.AttendanceRecord, error) {
	stored, err := a.repo.GetLatestRecordBetween(ctx, employeeID, from, to)
	if err != nil {
		return application.AttendanceRecord{}, err
	}
	return toApplicationRecord(stored), nil
}

func (a *attendanceRepositoryAdapter) ListRecords(ctx context.Context, employeeID string) ([]application.AttendanceRecord, error) {
	models, err := a.repo.ListRecords(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	records := make([]application.AttendanceRecord, 0, len(models))
	for _, model := range models {
		records = append(records, toApplicationRecord(model))
	}
	return records, nil
}

type employeeDirectoryAdapter struct {
	repo persistence.EmployeeRepository
}

func newEmployeeDirectoryAdapter(repo persistence.EmployeeRepository) *employeeDirectoryAdapter {
	return &employeeDirectoryAdapter{repo: repo}
}

func (a *employeeDirectoryAdapter) ResolveEmployee(ctx context.Context, employeeID string) (application.EmployeeRef, error) {
	stored, err := a.repo.GetEmployee(ctx, employeeID)
	if err != nil {
		return application.EmployeeRef{}, err
	}
	return application.EmployeeRef{
		EmpNo:       stored.EmpNo,
		CompanyID:   stored.Company,
		DisplayName: stored.DisplayName,
	}, nil
}

type markAuthorizerAdapter struct {
	repo persistence.EmployeeRepository
}

func newMarkAuthorizerAdapter(repo persistence.EmployeeRepository) *markAuthorizerAdapter {
	return &markAuthorizerAdapter{repo: repo}
}

func (a *markAuthorizerAdapter) IsAuthorizedToMark(ctx context.Context, actorID string) (bool, error) {
	stored, err := a.repo.GetEmployee(ctx, actorID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return stored.Role == application.RoleActingAdmin, nil
}

func toPersistenceEmployee(credentials application.EmployeeCredentials) persistence.Employee {
	return persistence.Employee{
		EmpNo:        credentials.Employee.EmpNo,
		DisplayName:  credentials.Employee.DisplayName,
		Company:      credentials.Employee.Company,
		Role:         credentials.Employee.Role,
		PasswordHash: credentials.PasswordHash,
		CreatedAt:    credentials.Employee.CreatedAt,
		UpdatedAt:    credentials.Employee.UpdatedAt,
	}
}

func toApplicationEmployee(model persistence.Employee) application.Employee {
	return application.Employee{
		EmpNo:       model.EmpNo,
		DisplayName: model.DisplayName,
		Company:     model.Company,
		Role:        model.Role,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceRecord(record application.AttendanceRecord) persistence.AttendanceRecord {
	return persistence.AttendanceRecord{
		ID:             record.ID,
		EmployeeID:     record.EmployeeID,
		ShiftStart:     record.ShiftStart,
		ShiftEnd:       cloneTime(record.ShiftEnd),
		Status:         string(record.Status),
		TotalWorkHours: cloneFloat(record.TotalWorkHours),
		ShiftCount:     cloneInt(record.ShiftCount),
		MarkedBy:       record.MarkedBy,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func toApplicationRecord(model persistence.AttendanceRecord) application.AttendanceRecord {
	return application.AttendanceRecord{
		ID:             model.ID,
		EmployeeID:     model.EmployeeID,
		ShiftStart:     model.ShiftStart,
		ShiftEnd:       cloneTime(model.ShiftEnd),
		Status:         application.ShiftStatus(model.Status),
		TotalWorkHours: cloneFloat(model.TotalWorkHours),
		ShiftCount:     cloneInt(model.ShiftCount),
		MarkedBy:       model.MarkedBy,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
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
