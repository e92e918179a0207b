package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateEligibility(t *testing.T) {
	policy := DefaultAttemptPolicy()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	record := func(count int, passed bool, last time.Time) *AttemptRecord {
		return &AttemptRecord{
			UserID: "u1", CourseID: "c1",
			AttemptsCount: count, MaxAttempts: 3,
			LastAttemptAt: last, Passed: passed,
		}
	}

	t.Run("first attempt is allowed", func(t *testing.T) {
		res := EvaluateEligibility(nil, false, policy, now)
		assert.True(t, res.Allowed)
		assert.Equal(t, ReasonNone, res.Reason)
		assert.Equal(t, 3, res.AttemptsRemaining)
		assert.Equal(t, StateNotStarted, res.State)
	})

	t.Run("passed closes the quiz", func(t *testing.T) {
		res := EvaluateEligibility(record(1, true, now.Add(-time.Hour)), true, policy, now)
		assert.False(t, res.Allowed)
		assert.Equal(t, ReasonAlreadyPassed, res.Reason)
		assert.Nil(t, res.NextRetryAt)
		assert.Equal(t, StatePassed, res.State)
	})

	t.Run("certificate without record counts as passed", func(t *testing.T) {
		res := EvaluateEligibility(nil, true, policy, now)
		assert.False(t, res.Allowed)
		assert.Equal(t, ReasonAlreadyPassed, res.Reason)
		assert.Equal(t, StatePassed, res.State)
	})

	t.Run("passed wins over exhausted attempts", func(t *testing.T) {
		res := EvaluateEligibility(record(3, true, now), false, policy, now)
		assert.Equal(t, ReasonAlreadyPassed, res.Reason)
	})

	t.Run("max attempts locks regardless of time", func(t *testing.T) {
		res := EvaluateEligibility(record(3, false, now.Add(-24*time.Hour)), false, policy, now)
		assert.False(t, res.Allowed)
		assert.Equal(t, ReasonMaxAttemptsExceeded, res.Reason)
		assert.Nil(t, res.NextRetryAt)
		assert.Equal(t, 0, res.AttemptsRemaining)
		assert.Equal(t, StateLocked, res.State)
	})

	t.Run("cooldown active", func(t *testing.T) {
		last := now.Add(-10 * time.Minute)
		res := EvaluateEligibility(record(1, false, last), false, policy, now)
		assert.False(t, res.Allowed)
		assert.Equal(t, ReasonCooldownActive, res.Reason)
		require.NotNil(t, res.NextRetryAt)
		assert.Equal(t, last.Add(30*time.Minute), *res.NextRetryAt)
		assert.Equal(t, 2, res.AttemptsRemaining)
		assert.Equal(t, StateInProgress, res.State)
	})

	t.Run("cooldown boundary is inclusive of nextRetryAt", func(t *testing.T) {
		last := now.Add(-30 * time.Minute)
		res := EvaluateEligibility(record(2, false, last), false, policy, now)
		assert.True(t, res.Allowed)
		assert.Equal(t, 1, res.AttemptsRemaining)
	})

	t.Run("record max attempts overrides policy", func(t *testing.T) {
		r := record(3, false, now.Add(-time.Hour))
		r.MaxAttempts = 5
		res := EvaluateEligibility(r, false, policy, now)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2, res.AttemptsRemaining)
		assert.Equal(t, 5, res.MaxAttempts)
	})
}

func TestDeriveState(t *testing.T) {
	policy := DefaultAttemptPolicy()

	assert.Equal(t, StateNotStarted, DeriveState(nil, false, policy))
	assert.Equal(t, StatePassed, DeriveState(nil, true, policy))
	assert.Equal(t, StateInProgress, DeriveState(&AttemptRecord{AttemptsCount: 2}, false, policy))
	assert.Equal(t, StateLocked, DeriveState(&AttemptRecord{AttemptsCount: 3}, false, policy))
	assert.Equal(t, StatePassed, DeriveState(&AttemptRecord{AttemptsCount: 3, Passed: true}, false, policy))

	assert.True(t, StatePassed.Terminal())
	assert.True(t, StateLocked.Terminal())
	assert.False(t, StateInProgress.Terminal())
}

func TestNewRetryNotAllowedError(t *testing.T) {
	next := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	cooldown := NewRetryNotAllowedError(&EligibilityResult{Reason: ReasonCooldownActive, NextRetryAt: &next, AttemptsRemaining: 2})
	require.NotNil(t, cooldown.AttemptsRemaining)
	assert.Equal(t, 2, *cooldown.AttemptsRemaining)
	assert.Contains(t, cooldown.Error(), "COOLDOWN_ACTIVE")

	locked := NewRetryNotAllowedError(&EligibilityResult{Reason: ReasonMaxAttemptsExceeded})
	assert.Nil(t, locked.AttemptsRemaining)
	assert.Nil(t, locked.NextRetryAt)
}
