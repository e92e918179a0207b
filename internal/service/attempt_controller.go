package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-gate/internal/domain"
	"quiz-gate/internal/logger"

	"go.uber.org/zap"
)

// maxSubmitRetries bounds re-fetch-and-retry after a compare-and-swap conflict.
const maxSubmitRetries = 1

// QuizAttemptController owns the attempt ledger and certificate issuance for
// every (user, course) pair. It keeps no state between calls.
type QuizAttemptController interface {
	CanAttempt(ctx context.Context, userID, courseID string, now time.Time) (*domain.EligibilityResult, error)
	SubmitAttempt(ctx context.Context, userID, courseID string, answers map[string]int) (*domain.AttemptResult, error)
	IssueCertificateIfEligible(ctx context.Context, userID, courseID string, scorePercent int, trigger domain.CompletionTrigger) (*domain.CertificateRecord, error)
	GetCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateRecord, error)
	// FindCertificate never issues; it returns (nil, nil) when none exists.
	FindCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateRecord, error)
}

type quizAttemptController struct {
	store   domain.ProgressStore
	quizzes QuizDefinitionService
	clock   domain.Clock
	policy  domain.AttemptPolicy
}

// NewQuizAttemptController creates a new instance of quizAttemptController.
func NewQuizAttemptController(store domain.ProgressStore, quizzes QuizDefinitionService, clock domain.Clock, policy domain.AttemptPolicy) QuizAttemptController {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &quizAttemptController{
		store:   store,
		quizzes: quizzes,
		clock:   clock,
		policy:  policy,
	}
}

func (c *quizAttemptController) CanAttempt(ctx context.Context, userID, courseID string, now time.Time) (*domain.EligibilityResult, error) {
	record, cert, err := c.loadState(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return domain.EvaluateEligibility(record, cert != nil, c.policy, now), nil
}

// loadState reads the attempt record and certificate fresh from the store.
func (c *quizAttemptController) loadState(ctx context.Context, userID, courseID string) (*domain.AttemptRecord, *domain.CertificateRecord, error) {
	record, err := c.store.GetAttemptRecord(ctx, userID, courseID)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to read attempt record", err)
	}
	cert, err := c.store.GetCertificate(ctx, userID, courseID)
	if err != nil {
		return nil, nil, domain.NewInternalError("failed to read certificate", err)
	}
	return record, cert, nil
}

func (c *quizAttemptController) SubmitAttempt(ctx context.Context, userID, courseID string, answers map[string]int) (*domain.AttemptResult, error) {
	var lastConflict error
	for try := 0; try <= maxSubmitRetries; try++ {
		result, err := c.submitOnce(ctx, userID, courseID, answers)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, err
		}
		lastConflict = err
		logger.Get().Warn("Attempt record changed during submission, retrying",
			zap.String("user_id", userID),
			zap.String("course_id", courseID),
			zap.Int("try", try+1))
	}
	return nil, domain.NewConcurrencyConflictError(courseID, lastConflict)
}

func (c *quizAttemptController) submitOnce(ctx context.Context, userID, courseID string, answers map[string]int) (*domain.AttemptResult, error) {
	now := c.clock.Now()

	record, cert, err := c.loadState(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	eligibility := domain.EvaluateEligibility(record, cert != nil, c.policy, now)
	if !eligibility.Allowed {
		logger.Get().Info("Quiz attempt rejected",
			zap.String("user_id", userID),
			zap.String("course_id", courseID),
			zap.String("reason", string(eligibility.Reason)))
		return nil, domain.NewRetryNotAllowedError(eligibility)
	}

	def, err := c.quizzes.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	grade, err := Grade(def, answers)
	if err != nil {
		return nil, err
	}

	expected := 0
	next := &domain.AttemptRecord{
		UserID:      userID,
		CourseID:    courseID,
		MaxAttempts: c.policy.MaxAttempts,
		CreatedAt:   now,
	}
	wasPassed := false
	if record != nil {
		expected = record.AttemptsCount
		copied := *record
		next = &copied
		wasPassed = record.Passed
		if next.MaxAttempts == 0 {
			next.MaxAttempts = c.policy.MaxAttempts
		}
	}
	next.AttemptsCount = expected + 1
	next.LastAttemptAt = now
	next.LastScorePercent = grade.ScorePercent
	next.Passed = wasPassed || grade.Passed
	next.UpdatedAt = now

	if err := c.store.UpsertAttemptRecord(ctx, next, expected); err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, err
		}
		return nil, domain.NewInternalError("failed to record quiz attempt", err)
	}

	logger.Get().Info("Quiz attempt recorded",
		zap.String("user_id", userID),
		zap.String("course_id", courseID),
		zap.Int("attempts_count", next.AttemptsCount),
		zap.Int("score_percent", grade.ScorePercent),
		zap.Bool("passed", grade.Passed))

	result := &domain.AttemptResult{
		ScorePercent:   grade.ScorePercent,
		CorrectCount:   grade.CorrectCount,
		TotalQuestions: grade.TotalQuestions,
		Passed:         next.Passed,
		AttemptsCount:  next.AttemptsCount,
	}

	if next.Passed && !wasPassed {
		issued, err := c.IssueCertificateIfEligible(ctx, userID, courseID, grade.ScorePercent, domain.TriggerQuizPass)
		if err != nil {
			return nil, domain.NewInternalError("quiz attempt recorded but certificate issuance failed", err).
				WithContext("course_id", courseID)
		}
		result.Certificate = issued
	}
	return result, nil
}

func (c *quizAttemptController) IssueCertificateIfEligible(ctx context.Context, userID, courseID string, scorePercent int, trigger domain.CompletionTrigger) (*domain.CertificateRecord, error) {
	if !trigger.Valid() {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown completion trigger: %s", trigger))
	}
	if scorePercent < 0 || scorePercent > 100 {
		return nil, domain.ValidationErrors{domain.NewOutOfRangeError("score_percent", scorePercent, 0, 100)}
	}

	existing, err := c.store.GetCertificate(ctx, userID, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to read certificate", err)
	}
	if existing != nil {
		return existing, nil
	}

	created, err := c.store.CreateCertificate(ctx, &domain.CertificateRecord{
		UserID:       userID,
		CourseID:     courseID,
		ScorePercent: scorePercent,
		Trigger:      trigger,
		IssuedAt:     c.clock.Now(),
	})
	if err == nil {
		logger.Get().Info("Certificate issued",
			zap.String("user_id", userID),
			zap.String("course_id", courseID),
			zap.String("trigger", string(trigger)),
			zap.Int("score_percent", scorePercent))
		return created, nil
	}
	if !errors.Is(err, domain.ErrDuplicateCertificate) {
		return nil, domain.NewInternalError("failed to create certificate", err)
	}

	existing, err = c.store.GetCertificate(ctx, userID, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to re-read certificate after duplicate", err)
	}
	if existing == nil {
		return nil, domain.NewInternalError("certificate reported as duplicate but not found", nil)
	}
	logger.Get().Debug("Concurrent certificate issuance resolved to existing record",
		zap.String("user_id", userID),
		zap.String("course_id", courseID))
	return existing, nil
}

// GetCertificate also repairs a passed ledger whose certificate write was lost
// after the attempt was recorded.
func (c *quizAttemptController) GetCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateRecord, error) {
	record, cert, err := c.loadState(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if cert != nil {
		return cert, nil
	}
	if record != nil && record.Passed {
		logger.Get().Warn("Passed attempt record without certificate, issuing",
			zap.String("user_id", userID),
			zap.String("course_id", courseID))
		return c.IssueCertificateIfEligible(ctx, userID, courseID, record.LastScorePercent, domain.TriggerQuizPass)
	}
	return nil, domain.NewCertificateNotFoundError(courseID)
}

func (c *quizAttemptController) FindCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateRecord, error) {
	cert, err := c.store.GetCertificate(ctx, userID, courseID)
	if err != nil {
		return nil, domain.NewInternalError("failed to read certificate", err)
	}
	return cert, nil
}
