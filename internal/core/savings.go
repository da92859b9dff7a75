package core

import (
	"math"
	"time"
)

// The savings progress engine has two states: active (IsCompleted=false) and
// completed (IsCompleted=true). The active->completed transition fires on any
// persist where current >= target. Nothing transitions completed->active
// automatically; MarkActive is the only way back.

// AddProgress increases current progress and re-evaluates completion.
// Overshooting the target is allowed and never clamped.
func (g *SavingsGoal) AddProgress(amount Money) error {
	if amount.Cents <= 0 {
		return Invalid("progress amount must be positive")
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.refreshCompletion()
	return nil
}

// SubtractProgress decreases current progress. Overdrawing is rejected with
// ErrInsufficientProgress and leaves the goal unchanged; the caller-visible
// contract is reject, not clamp.
func (g *SavingsGoal) SubtractProgress(amount Money) error {
	if amount.Cents <= 0 {
		return Invalid("progress amount must be positive")
	}
	if amount.Cents > g.CurrentAmount.Cents {
		return ErrInsufficientProgress
	}
	g.CurrentAmount = g.CurrentAmount.Sub(amount)
	if g.CurrentAmount.Cents < 0 {
		// Safety net only; unreachable through the public contract.
		g.CurrentAmount = Money{}
	}
	return nil
}

// MarkCompleted forces the completed state regardless of progress.
func (g *SavingsGoal) MarkCompleted() {
	g.IsCompleted = true
}

// MarkActive reopens a goal. It does not touch amounts, so a goal whose
// current still exceeds its target will complete again on the next persist
// that re-evaluates progress.
func (g *SavingsGoal) MarkActive() {
	g.IsCompleted = false
}

// UpdateDeadline replaces the deadline, re-applying the future-only rule.
// This and creation are the only points where the deadline is checked.
func (g *SavingsGoal) UpdateDeadline(deadline, now time.Time) error {
	if !deadline.After(now) {
		return Invalid("deadline must be in the future")
	}
	g.Deadline = deadline
	return nil
}

// Progress returns current/target as a percentage rounded to two decimals.
// A zero target reports zero rather than dividing.
func (g *SavingsGoal) Progress() float64 {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	pct := float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
	return math.Round(pct*100) / 100
}

// ExpiringSoon reports whether an incomplete goal's deadline falls within the
// window from now.
func (g *SavingsGoal) ExpiringSoon(now time.Time, window time.Duration) bool {
	if g.IsCompleted {
		return false
	}
	return !g.Deadline.After(now.Add(window))
}

func (g *SavingsGoal) refreshCompletion() {
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		g.IsCompleted = true
	}
}
