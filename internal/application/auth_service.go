package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/attendance-ledger/internal/persistence"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates employees and issues signed tokens. Marking
// attendance is an administrative duty, so login is limited to acting admins.
type AuthService struct {
	employees EmployeeRepository
	secret    []byte
	tokenTTL  time.Duration
	verify    func(hashedPassword, password string) error
	now       func() time.Time
	logger    *slog.Logger
}

// NewAuthService creates an AuthService signing tokens with the given secret.
func NewAuthService(employees EmployeeRepository, secret []byte, tokenTTL time.Duration, now func() time.Time) *AuthService {
	return NewAuthServiceWithLogger(employees, secret, tokenTTL, now, nil)
}

// NewAuthServiceWithLogger creates an AuthService with a specified logger.
func NewAuthServiceWithLogger(employees EmployeeRepository, secret []byte, tokenTTL time.Duration, now func() time.Time, logger *slog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		employees: employees,
		secret:    secret,
		tokenTTL:  tokenTTL,
		verify:    VerifyPassword,
		now:       now,
		logger:    defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login verifies credentials and issues a token. Non-admin employees are
// rejected with ErrForbidden even when their password matches.
func (s *AuthService) Login(ctx context.Context, params LoginParams) (LoginResult, error) {
	if s == nil {
		return LoginResult{}, fmt.Errorf("AuthService is nil")
	}

	empNo := strings.TrimSpace(params.EmpNo)
	vErr := &ValidationError{}
	if empNo == "" {
		vErr.add("emp_no", "employee number is required")
	}
	if params.Password == "" {
		vErr.add("password", "password is required")
	}
	if vErr.HasErrors() {
		return LoginResult{}, vErr
	}

	logger := s.loggerWith(ctx, "Login", "emp_no", empNo)

	credentials, err := s.employees.GetEmployee(ctx, empNo)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			// Same error as a wrong password, so probes cannot tell a
			// missing account apart from a bad credential.
			return LoginResult{}, ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "credential lookup failed", "error", err)
		return LoginResult{}, mapRecordRepoError(err)
	}

	if err := s.verify(credentials.PasswordHash, params.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.WarnContext(ctx, "login rejected", "reason", "password mismatch")
			return LoginResult{}, ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "password verification failed", "error", err)
		return LoginResult{}, err
	}

	if credentials.Employee.Role != RoleActingAdmin {
		logger.WarnContext(ctx, "login rejected", "reason", "role not permitted", "role", credentials.Employee.Role)
		return LoginResult{}, ErrForbidden
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := Claims{
		Role: credentials.Employee.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   credentials.Employee.EmpNo,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		logger.ErrorContext(ctx, "token signing failed", "error", err)
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}

	logger.InfoContext(ctx, "login succeeded", "expires_at", expiresAt)
	return LoginResult{Token: token, ExpiresAt: expiresAt, Employee: credentials.Employee}, nil
}

// ValidateToken parses and verifies a bearer token, returning the principal it
// asserts.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (Principal, error) {
	if s == nil {
		return Principal{}, fmt.Errorf("AuthService is nil")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return Principal{}, ErrInvalidCredentials
	}

	if claims.Subject == "" {
		return Principal{}, ErrInvalidCredentials
	}

	return Principal{EmployeeID: claims.Subject, Role: claims.Role}, nil
}
