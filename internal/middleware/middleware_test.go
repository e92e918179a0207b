package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-gate/internal/domain"
	"quiz-gate/internal/dto"
	"quiz-gate/internal/middleware"
	"quiz-gate/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthService accepts exactly one token.
type stubAuthService struct {
	validToken string
	userID     string
}

func (s *stubAuthService) ValidateJWT(_ context.Context, tokenString string) (*dto.AuthClaims, error) {
	if tokenString != s.validToken {
		return nil, errors.New("token is invalid")
	}
	return &dto.AuthClaims{UserID: s.userID}, nil
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

func TestProtected(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(nil)})
	app.Use(middleware.RequestLogger())
	app.Get("/me", middleware.Protected(&stubAuthService{validToken: "good", userID: "user1"}), func(c *fiber.Ctx) error {
		userID, ok := middleware.UserID(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		return c.SendString(userID)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, "MISSING_AUTH_HEADER"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "INVALID_AUTH_SCHEME"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "EMPTY_TOKEN"},
		{"scheme only", "Bearer", http.StatusUnauthorized, "EMPTY_TOKEN"},
		{"scheme glued to token", "Bearergood", http.StatusUnauthorized, "INVALID_AUTH_SCHEME"},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"valid token", "Bearer good", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(middleware.AuthorizationHeader, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantCode == "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "user1", string(body))
				return
			}
			var errResp middleware.ErrorResponse
			decode(t, resp, &errResp)
			assert.Equal(t, tt.wantCode, errResp.Code)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	nextRetry := time.Now().UTC().Add(10 * time.Minute)
	two := 2

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(nil)})
	app.Get("/cooldown", func(c *fiber.Ctx) error {
		return &domain.RetryNotAllowedError{Reason: domain.ReasonCooldownActive, NextRetryAt: &nextRetry, AttemptsRemaining: &two}
	})
	app.Get("/locked", func(c *fiber.Ctx) error {
		return &domain.RetryNotAllowedError{Reason: domain.ReasonMaxAttemptsExceeded}
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return domain.ValidationErrors{domain.NewMissingFieldError("answers")}
	})
	app.Get("/quiz-missing", func(c *fiber.Ctx) error {
		return domain.NewQuizNotFoundError("course1")
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return domain.NewConcurrencyConflictError("course1", domain.ErrConcurrencyConflict)
	})
	app.Get("/bad-quiz", func(c *fiber.Ctx) error {
		return fmt.Errorf("grading: %w", domain.NewInvalidQuizDefinitionError("course1", "quiz has no questions"))
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/unknown", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	t.Run("cooldown", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/cooldown", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var body middleware.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, string(domain.CodeRetryNotAllowed), body.Code)
		assert.Equal(t, "COOLDOWN_ACTIVE", body.Details["reason"])
		assert.Equal(t, nextRetry.Format(time.RFC3339), body.Details["next_retry_at"])
		assert.EqualValues(t, 2, body.Details["attempts_remaining"])
		seconds, ok := body.Details["retry_in_seconds"].(float64)
		require.True(t, ok)
		assert.InDelta(t, 600, seconds, 5)
	})

	t.Run("locked", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/locked", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var body middleware.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, "MAX_ATTEMPTS_EXCEEDED", body.Details["reason"])
		assert.NotContains(t, body.Details, "next_retry_at")
		assert.NotContains(t, body.Details, "attempts_remaining")
	})

	t.Run("validation", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/validation", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		decode(t, resp, &body)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "answers", body.Errors[0].Field)
	})

	statusCases := []struct {
		path string
		want int
		code string
	}{
		{"/quiz-missing", http.StatusNotFound, string(domain.CodeQuizNotFound)},
		{"/conflict", http.StatusConflict, string(domain.CodeConcurrencyConflict)},
		{"/bad-quiz", http.StatusInternalServerError, string(domain.CodeInvalidQuizDefinition)},
		{"/fiber", http.StatusTeapot, "HTTP_ERROR"},
		{"/unknown", http.StatusInternalServerError, string(domain.CodeInternal)},
	}
	for _, tc := range statusCases {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)

			var body middleware.ErrorResponse
			decode(t, resp, &body)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestErrorHandler_RetryCountdownUsesClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	nextRetry := now.Add(25*time.Minute + 500*time.Millisecond)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(fixedClock{now: now})})
	app.Get("/cooldown", func(c *fiber.Ctx) error {
		return &domain.RetryNotAllowedError{Reason: domain.ReasonCooldownActive, NextRetryAt: &nextRetry}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/cooldown", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body middleware.ErrorResponse
	decode(t, resp, &body)
	assert.EqualValues(t, 1501, body.Details["retry_in_seconds"])
}

func TestValidationMiddleware_ValidatePathIDs(t *testing.T) {
	vm := middleware.NewValidationMiddleware(validation.NewValidator())
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(nil)})
	app.Get("/courses/:courseId", vm.ValidatePathIDs("courseId"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/courses/go-101", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/courses/bad%20id", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
