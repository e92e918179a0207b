package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-gate/internal/domain"
	"quiz-gate/internal/repository/models"
	"quiz-gate/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	selectAttemptRecordQuery = `SELECT USER_ID, COURSE_ID, ATTEMPTS_COUNT, MAX_ATTEMPTS, LAST_ATTEMPT_AT, LAST_SCORE_PERCENT, PASSED, CREATED_AT, UPDATED_AT
	          FROM quiz_attempt_records WHERE USER_ID = :1 AND COURSE_ID = :2`

	insertAttemptRecordQuery = `INSERT INTO quiz_attempt_records (USER_ID, COURSE_ID, ATTEMPTS_COUNT, MAX_ATTEMPTS, LAST_ATTEMPT_AT, LAST_SCORE_PERCENT, PASSED, CREATED_AT, UPDATED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9)`

	// The ATTEMPTS_COUNT predicate is the compare-and-swap guard.
	updateAttemptRecordQuery = `UPDATE quiz_attempt_records
	          SET ATTEMPTS_COUNT = :1, MAX_ATTEMPTS = :2, LAST_ATTEMPT_AT = :3, LAST_SCORE_PERCENT = :4, PASSED = :5, UPDATED_AT = :6
	          WHERE USER_ID = :7 AND COURSE_ID = :8 AND ATTEMPTS_COUNT = :9`

	selectCertificateQuery = `SELECT ID, USER_ID, COURSE_ID, SCORE_PERCENT, COMPLETION_TRIGGER, VERIFICATION_CODE, ISSUED_AT
	          FROM certificates WHERE USER_ID = :1 AND COURSE_ID = :2`

	insertCertificateQuery = `INSERT INTO certificates (ID, USER_ID, COURSE_ID, SCORE_PERCENT, COMPLETION_TRIGGER, VERIFICATION_CODE, ISSUED_AT)
	          VALUES (:1, :2, :3, :4, :5, :6, :7)`
)

// sqlxProgressStore implements domain.ProgressStore using sqlx.
type sqlxProgressStore struct {
	db *sqlx.DB
}

// NewSQLXProgressStore creates a new instance of sqlxProgressStore.
func NewSQLXProgressStore(db *sqlx.DB) domain.ProgressStore {
	return &sqlxProgressStore{db: db}
}

func toDomainAttemptRecord(m *models.AttemptRecord) *domain.AttemptRecord {
	if m == nil {
		return nil
	}
	return &domain.AttemptRecord{
		UserID:           m.UserID,
		CourseID:         m.CourseID,
		AttemptsCount:    m.AttemptsCount,
		MaxAttempts:      m.MaxAttempts,
		LastAttemptAt:    util.NullTimeToTime(m.LastAttemptAt),
		LastScorePercent: int(m.LastScorePercent.Int64),
		Passed:           m.Passed != 0,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromDomainAttemptRecord(r *domain.AttemptRecord) *models.AttemptRecord {
	if r == nil {
		return nil
	}
	return &models.AttemptRecord{
		UserID:           r.UserID,
		CourseID:         r.CourseID,
		AttemptsCount:    r.AttemptsCount,
		MaxAttempts:      r.MaxAttempts,
		LastAttemptAt:    util.TimeToNullTime(r.LastAttemptAt),
		LastScorePercent: sql.NullInt64{Int64: int64(r.LastScorePercent), Valid: r.AttemptsCount > 0},
		Passed:           boolToNumber(r.Passed),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toDomainCertificate(m *models.Certificate) *domain.CertificateRecord {
	if m == nil {
		return nil
	}
	return &domain.CertificateRecord{
		ID:               m.ID,
		UserID:           m.UserID,
		CourseID:         m.CourseID,
		ScorePercent:     m.ScorePercent,
		Trigger:          domain.CompletionTrigger(m.CompletionTrigger),
		VerificationCode: m.VerificationCode,
		IssuedAt:         m.IssuedAt,
	}
}

// GetAttemptRecord returns (nil, nil) when no row exists.
func (s *sqlxProgressStore) GetAttemptRecord(ctx context.Context, userID, courseID string) (*domain.AttemptRecord, error) {
	var m models.AttemptRecord
	err := GetExecutor(ctx, s.db).GetContext(ctx, &m, selectAttemptRecordQuery, userID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attempt record for user %s course %s: %w", userID, courseID, err)
	}
	return toDomainAttemptRecord(&m), nil
}

// UpsertAttemptRecord inserts the first record or updates an existing one
// guarded by the expected attempts count.
func (s *sqlxProgressStore) UpsertAttemptRecord(ctx context.Context, record *domain.AttemptRecord, expectedAttemptsCount int) error {
	m := fromDomainAttemptRecord(record)
	// Callers stamp timestamps from their clock; fill only what was left empty.
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	exec := GetExecutor(ctx, s.db)

	if expectedAttemptsCount == 0 {
		_, err := exec.ExecContext(ctx, insertAttemptRecordQuery,
			m.UserID,
			m.CourseID,
			m.AttemptsCount,
			m.MaxAttempts,
			m.LastAttemptAt,
			m.LastScorePercent,
			m.Passed,
			m.CreatedAt,
			m.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("attempt record for user %s course %s already exists: %w", m.UserID, m.CourseID, domain.ErrConcurrencyConflict)
			}
			return fmt.Errorf("failed to insert attempt record: %w", err)
		}
		return nil
	}

	res, err := exec.ExecContext(ctx, updateAttemptRecordQuery,
		m.AttemptsCount,
		m.MaxAttempts,
		m.LastAttemptAt,
		m.LastScorePercent,
		m.Passed,
		m.UpdatedAt,
		m.UserID,
		m.CourseID,
		expectedAttemptsCount,
	)
	if err != nil {
		return fmt.Errorf("failed to update attempt record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for attempt record update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("attempt record for user %s course %s no longer at count %d: %w", m.UserID, m.CourseID, expectedAttemptsCount, domain.ErrConcurrencyConflict)
	}
	return nil
}

// GetCertificate returns (nil, nil) when no certificate was issued.
func (s *sqlxProgressStore) GetCertificate(ctx context.Context, userID, courseID string) (*domain.CertificateRecord, error) {
	var m models.Certificate
	err := GetExecutor(ctx, s.db).GetContext(ctx, &m, selectCertificateQuery, userID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get certificate for user %s course %s: %w", userID, courseID, err)
	}
	return toDomainCertificate(&m), nil
}

// CreateCertificate relies on the UNIQUE (USER_ID, COURSE_ID) constraint and
// reports a violation as domain.ErrDuplicateCertificate.
func (s *sqlxProgressStore) CreateCertificate(ctx context.Context, cert *domain.CertificateRecord) (*domain.CertificateRecord, error) {
	created := *cert
	if created.ID == "" {
		created.ID = util.NewULID()
	}
	if created.VerificationCode == "" {
		created.VerificationCode = util.NewVerificationCode()
	}

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, insertCertificateQuery,
		created.ID,
		created.UserID,
		created.CourseID,
		created.ScorePercent,
		string(created.Trigger),
		created.VerificationCode,
		created.IssuedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("certificate for user %s course %s: %w", created.UserID, created.CourseID, domain.ErrDuplicateCertificate)
		}
		return nil, fmt.Errorf("failed to insert certificate: %w", err)
	}
	return &created, nil
}
