package dto

import "time"

// PublicQuestionResponse is a question as shown to the learner. The correct
// option is never included.
type PublicQuestionResponse struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// PublicQuizResponse represents a course quiz in the API response
// @Description Course quiz without answers
type PublicQuizResponse struct {
	CourseID             string                   `json:"course_id"`
	PassThresholdPercent int                      `json:"pass_threshold_percent"`
	TimeLimitSeconds     int                      `json:"time_limit_seconds"`
	TotalQuestions       int                      `json:"total_questions"`
	Questions            []PublicQuestionResponse `json:"questions"`
}

// EligibilityResponse tells the client whether a new attempt may start.
// @Description Retry eligibility and cooldown countdown
type EligibilityResponse struct {
	Allowed           bool       `json:"allowed"`
	Reason            string     `json:"reason,omitempty" example:"COOLDOWN_ACTIVE"`
	State             string     `json:"state" example:"IN_PROGRESS"`
	NextRetryAt       *time.Time `json:"next_retry_at,omitempty"`
	RetryInSeconds    int        `json:"retry_in_seconds"`
	AttemptsCount     int        `json:"attempts_count"`
	AttemptsRemaining int        `json:"attempts_remaining"`
	MaxAttempts       int        `json:"max_attempts"`
}

// SubmitAttemptRequest carries the selected option index per question id.
// Missing questions are graded as incorrect; an absent or null map is graded
// as an empty submission.
// @Description Request body for submitting a quiz attempt
type SubmitAttemptRequest struct {
	Answers map[string]int `json:"answers" validate:"dive,keys,min=1,max=64,endkeys,min=0"`
}

// AttemptResultResponse is the graded outcome of one submission
// @Description Result of a graded quiz attempt
type AttemptResultResponse struct {
	ScorePercent   int                  `json:"score_percent" example:"80"`
	CorrectCount   int                  `json:"correct_count" example:"16"`
	TotalQuestions int                  `json:"total_questions" example:"20"`
	Passed         bool                 `json:"passed"`
	AttemptsCount  int                  `json:"attempts_count" example:"1"`
	Certificate    *CertificateResponse `json:"certificate,omitempty"`
}

// CertificateResponse represents an issued course certificate
// @Description Course completion certificate
type CertificateResponse struct {
	ID               string    `json:"id"`
	CourseID         string    `json:"course_id"`
	ScorePercent     int       `json:"score_percent"`
	Trigger          string    `json:"trigger" example:"QUIZ_PASS"`
	VerificationCode string    `json:"verification_code"`
	IssuedAt         time.Time `json:"issued_at"`
}
