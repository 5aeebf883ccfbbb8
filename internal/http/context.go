package http

import (
	"context"
	"log/slog"

	"github.com/example/attendance-ledger/internal/application"
	"github.com/example/attendance-ledger/internal/logging"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	empNoContextKey     contextKey = "emp_no"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithEmpNo injects the employee number resolved from the request path.
func ContextWithEmpNo(ctx context.Context, empNo string) context.Context {
	return context.WithValue(ctx, empNoContextKey, empNo)
}

// EmpNoFromContext extracts an employee number previously associated with the context.
func EmpNoFromContext(ctx context.Context) (string, bool) {
	empNo, ok := ctx.Value(empNoContextKey).(string)
	return empNo, ok
}

// ContextWithLogger attaches a request scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, or nil when absent.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
