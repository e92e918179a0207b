package domain

import "time"

// CompletionTrigger names the path that completed a course.
type CompletionTrigger string

const (
	TriggerQuizPass            CompletionTrigger = "QUIZ_PASS"
	TriggerFullVideoCompletion CompletionTrigger = "FULL_VIDEO_COMPLETION"
)

// Valid reports whether t is a known trigger.
func (t CompletionTrigger) Valid() bool {
	return t == TriggerQuizPass || t == TriggerFullVideoCompletion
}

// CertificateRecord evidences completion of a course. At most one exists per
// (UserID, CourseID); it is never mutated after creation.
type CertificateRecord struct {
	ID               string
	UserID           string
	CourseID         string
	ScorePercent     int
	Trigger          CompletionTrigger
	VerificationCode string
	IssuedAt         time.Time
}
