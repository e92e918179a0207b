package service

import (
	"context"
	"time"

	"quiz-gate/internal/domain"
)

// CooldownWatcher is a cooperative countdown loop over CanAttempt. It never
// mutates state: it only re-reads eligibility once the countdown reaches zero.
type CooldownWatcher struct {
	controller QuizAttemptController
	clock      domain.Clock
	tick       time.Duration
}

// NewCooldownWatcher creates a watcher ticking every tick (one second when zero).
func NewCooldownWatcher(controller QuizAttemptController, clock domain.Clock, tick time.Duration) *CooldownWatcher {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if tick <= 0 {
		tick = time.Second
	}
	return &CooldownWatcher{controller: controller, clock: clock, tick: tick}
}

// Wait blocks until the user is no longer in a cooldown, reporting the seconds
// left on every tick. It returns the fresh eligibility, which may still refuse
// the attempt for another reason, or ctx.Err() when ctx ends first.
func (w *CooldownWatcher) Wait(ctx context.Context, userID, courseID string, onTick func(secondsRemaining int)) (*domain.EligibilityResult, error) {
	eligibility, err := w.controller.CanAttempt(ctx, userID, courseID, w.clock.Now())
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		if eligibility.Reason != domain.ReasonCooldownActive || eligibility.NextRetryAt == nil {
			return eligibility, nil
		}

		remaining := domain.SecondsRemaining(*eligibility.NextRetryAt, w.clock.Now())
		if onTick != nil {
			onTick(remaining)
		}
		if remaining == 0 {
			eligibility, err = w.controller.CanAttempt(ctx, userID, courseID, w.clock.Now())
			if err != nil {
				return nil, err
			}
			if eligibility.Reason != domain.ReasonCooldownActive {
				return eligibility, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
