package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"quiz-gate/internal/domain"
	"quiz-gate/internal/dto"
	"quiz-gate/internal/middleware"
	"quiz-gate/internal/service"
	"quiz-gate/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// maxEligibilityWaitSeconds stays below the server write timeout.
const maxEligibilityWaitSeconds = 15

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	quizzes    service.QuizDefinitionService
	controller service.QuizAttemptController
	watcher    *service.CooldownWatcher
	validator  *validation.Validator
	clock      domain.Clock
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(
	quizzes service.QuizDefinitionService,
	controller service.QuizAttemptController,
	watcher *service.CooldownWatcher,
	validator *validation.Validator,
	clock domain.Clock,
) *QuizHandler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &QuizHandler{
		quizzes:    quizzes,
		controller: controller,
		watcher:    watcher,
		validator:  validator,
		clock:      clock,
	}
}

func currentUser(c *fiber.Ctx) (string, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return "", domain.NewError(domain.CodeUnauthorized, "authentication required", nil)
	}
	return userID, nil
}

// GetQuiz godoc
// @Summary Get a course quiz
// @Description Returns the course quiz without correct answers
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.PublicQuizResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /courses/{courseId}/quiz [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.quizzes.GetPublic(c.UserContext(), c.Params("courseId"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}

// GetEligibility godoc
// @Summary Check retry eligibility
// @Description Reports whether a new attempt may start. With wait > 0 the request blocks up to that many seconds for an active cooldown to end.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Param wait query int false "Seconds to wait for the cooldown to end (max 15)"
// @Success 200 {object} dto.EligibilityResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /courses/{courseId}/quiz/eligibility [get]
func (h *QuizHandler) GetEligibility(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	courseID := c.Params("courseId")

	wait := 0
	if raw := c.Query("wait"); raw != "" {
		wait, err = strconv.Atoi(raw)
		if err != nil {
			return domain.ValidationErrors{domain.NewInvalidFormatError("wait", raw)}
		}
		if wait < 0 || wait > maxEligibilityWaitSeconds {
			return domain.ValidationErrors{domain.NewOutOfRangeError("wait", wait, 0, maxEligibilityWaitSeconds)}
		}
	}

	var res *domain.EligibilityResult
	if wait > 0 && h.watcher != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), time.Duration(wait)*time.Second)
		defer cancel()
		res, err = h.watcher.Wait(ctx, userID, courseID, nil)
		if errors.Is(err, context.DeadlineExceeded) {
			res, err = h.controller.CanAttempt(c.UserContext(), userID, courseID, h.clock.Now())
		}
	} else {
		res, err = h.controller.CanAttempt(c.UserContext(), userID, courseID, h.clock.Now())
	}
	if err != nil {
		return err
	}
	return c.JSON(toEligibilityResponse(res, h.clock.Now()))
}

// SubmitAttempt godoc
// @Summary Submit a quiz attempt
// @Description Grades the answers and consumes one attempt. Unanswered questions count as incorrect; a body without answers (or with null) is graded as an empty submission.
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Param request body dto.SubmitAttemptRequest true "Selected option index per question id"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /courses/{courseId}/quiz/attempts [post]
func (h *QuizHandler) SubmitAttempt(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.SubmitAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}
	if errs := h.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}
	if req.Answers == nil {
		req.Answers = map[string]int{}
	}

	res, err := h.controller.SubmitAttempt(c.UserContext(), userID, c.Params("courseId"), req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(toAttemptResultResponse(res))
}

// GetCertificate godoc
// @Summary Get the course certificate
// @Description Returns the certificate issued for the course, if any
// @Tags certificate
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.CertificateResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /courses/{courseId}/certificate [get]
func (h *QuizHandler) GetCertificate(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	cert, err := h.controller.GetCertificate(c.UserContext(), userID, c.Params("courseId"))
	if err != nil {
		return err
	}
	return c.JSON(toCertificateResponse(cert))
}
