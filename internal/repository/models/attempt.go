package models

import (
	"database/sql"
	"time"
)

// AttemptRecord maps a row of QUIZ_ATTEMPT_RECORDS.
type AttemptRecord struct {
	UserID           string        `db:"USER_ID"`
	CourseID         string        `db:"COURSE_ID"`
	AttemptsCount    int           `db:"ATTEMPTS_COUNT"`
	MaxAttempts      int           `db:"MAX_ATTEMPTS"`
	LastAttemptAt    sql.NullTime  `db:"LAST_ATTEMPT_AT"`
	LastScorePercent sql.NullInt64 `db:"LAST_SCORE_PERCENT"`
	Passed           int           `db:"PASSED"` // NUMBER(1)
	CreatedAt        time.Time     `db:"CREATED_AT"`
	UpdatedAt        time.Time     `db:"UPDATED_AT"`
}

// Certificate maps a row of CERTIFICATES.
type Certificate struct {
	ID                string    `db:"ID"` // ULID
	UserID            string    `db:"USER_ID"`
	CourseID          string    `db:"COURSE_ID"`
	ScorePercent      int       `db:"SCORE_PERCENT"`
	CompletionTrigger string    `db:"COMPLETION_TRIGGER"`
	VerificationCode  string    `db:"VERIFICATION_CODE"`
	IssuedAt          time.Time `db:"ISSUED_AT"`
}
