package domain

import (
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultCooldown    = 30 * time.Minute
)

// AttemptPolicy holds the retry rules applied to every course quiz.
type AttemptPolicy struct {
	MaxAttempts int
	Cooldown    time.Duration
}

// DefaultAttemptPolicy returns three attempts with a thirty minute cooldown.
func DefaultAttemptPolicy() AttemptPolicy {
	return AttemptPolicy{MaxAttempts: DefaultMaxAttempts, Cooldown: DefaultCooldown}
}

// AttemptRecord is the single per-(user, course) attempt ledger.
type AttemptRecord struct {
	UserID           string
	CourseID         string
	AttemptsCount    int
	MaxAttempts      int
	LastAttemptAt    time.Time
	LastScorePercent int
	Passed           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NextRetryAt is the end of the cooldown window that follows the last submission.
func (r *AttemptRecord) NextRetryAt(cooldown time.Duration) time.Time {
	return r.LastAttemptAt.Add(cooldown)
}

// RetryReason explains why a new attempt is refused.
type RetryReason string

const (
	ReasonNone                RetryReason = ""
	ReasonAlreadyPassed       RetryReason = "ALREADY_PASSED"
	ReasonMaxAttemptsExceeded RetryReason = "MAX_ATTEMPTS_EXCEEDED"
	ReasonCooldownActive      RetryReason = "COOLDOWN_ACTIVE"
)

// EligibilityResult is the one authoritative answer to "may the user attempt now".
type EligibilityResult struct {
	Allowed           bool
	Reason            RetryReason
	NextRetryAt       *time.Time
	AttemptsRemaining int
	AttemptsCount     int
	MaxAttempts       int
	State             AttemptState
}

// AttemptResult is returned from a graded submission.
type AttemptResult struct {
	ScorePercent   int
	CorrectCount   int
	TotalQuestions int
	Passed         bool
	AttemptsCount  int
	Certificate    *CertificateRecord
}

// AttemptState is the per-(user, course) state machine position.
type AttemptState string

const (
	StateNotStarted AttemptState = "NOT_STARTED"
	StateInProgress AttemptState = "IN_PROGRESS"
	StatePassed     AttemptState = "PASSED"
	StateLocked     AttemptState = "LOCKED"
)

// Terminal reports whether no further transition is possible for the controller.
func (s AttemptState) Terminal() bool {
	return s == StatePassed || s == StateLocked
}

// DeriveState maps a stored record (nil when absent) onto the state machine.
// An issued certificate counts as Passed whichever trigger produced it.
func DeriveState(record *AttemptRecord, hasCertificate bool, policy AttemptPolicy) AttemptState {
	switch {
	case hasCertificate:
		return StatePassed
	case record == nil:
		return StateNotStarted
	case record.Passed:
		return StatePassed
	case record.AttemptsCount >= maxAttemptsFor(record, policy):
		return StateLocked
	case record.AttemptsCount == 0:
		return StateNotStarted
	default:
		return StateInProgress
	}
}

// EvaluateEligibility applies the retry rules in order. It is pure; callers
// pass the freshly read record and the current time.
func EvaluateEligibility(record *AttemptRecord, hasCertificate bool, policy AttemptPolicy, now time.Time) *EligibilityResult {
	state := DeriveState(record, hasCertificate, policy)
	result := &EligibilityResult{MaxAttempts: policy.MaxAttempts, State: state}

	if record == nil {
		if hasCertificate {
			result.Reason = ReasonAlreadyPassed
			result.AttemptsRemaining = policy.MaxAttempts
			return result
		}
		result.Allowed = true
		result.AttemptsRemaining = policy.MaxAttempts
		return result
	}

	maxAttempts := maxAttemptsFor(record, policy)
	result.MaxAttempts = maxAttempts
	result.AttemptsCount = record.AttemptsCount
	result.AttemptsRemaining = remaining(maxAttempts, record.AttemptsCount)

	if record.Passed || hasCertificate {
		result.Reason = ReasonAlreadyPassed
		return result
	}
	if record.AttemptsCount >= maxAttempts {
		result.Reason = ReasonMaxAttemptsExceeded
		result.AttemptsRemaining = 0
		return result
	}

	if record.AttemptsCount > 0 {
		next := record.NextRetryAt(policy.Cooldown)
		if now.Before(next) {
			result.Reason = ReasonCooldownActive
			result.NextRetryAt = &next
			return result
		}
	}

	result.Allowed = true
	return result
}

// maxAttemptsFor returns the limit stamped on the record, falling back to the policy.
func maxAttemptsFor(record *AttemptRecord, policy AttemptPolicy) int {
	if record != nil && record.MaxAttempts > 0 {
		return record.MaxAttempts
	}
	return policy.MaxAttempts
}

func remaining(max, used int) int {
	if used >= max {
		return 0
	}
	return max - used
}
