package core

import (
	"errors"
	"testing"
	"time"
)

func TestAddProgressOvershootCompletes(t *testing.T) {
	g := SavingsGoal{CurrentAmount: Money{Cents: 8000}, TargetAmount: Money{Cents: 10000}}
	if err := g.AddProgress(Money{Cents: 2500}); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if g.CurrentAmount.Cents != 10500 {
		t.Fatalf("overshoot must not be clamped, got %d", g.CurrentAmount.Cents)
	}
	if !g.IsCompleted {
		t.Fatal("goal must complete when current >= target")
	}
}

func TestAddProgressExactTarget(t *testing.T) {
	g := SavingsGoal{CurrentAmount: Money{Cents: 9000}, TargetAmount: Money{Cents: 10000}}
	if err := g.AddProgress(Money{Cents: 1000}); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !g.IsCompleted {
		t.Fatal("reaching the target exactly must complete")
	}
}

func TestAddProgressRejectsNonPositive(t *testing.T) {
	g := SavingsGoal{TargetAmount: Money{Cents: 100}}
	for _, cents := range []int64{0, -50} {
		if err := g.AddProgress(Money{Cents: cents}); err == nil {
			t.Fatalf("amount %d: expected error", cents)
		}
	}
}

func TestSubtractProgressOverdraftRejected(t *testing.T) {
	g := SavingsGoal{CurrentAmount: Money{Cents: 3000}, TargetAmount: Money{Cents: 10000}}
	err := g.SubtractProgress(Money{Cents: 5000})
	if !errors.Is(err, ErrInsufficientProgress) {
		t.Fatalf("expected ErrInsufficientProgress, got %v", err)
	}
	if g.CurrentAmount.Cents != 3000 {
		t.Fatalf("failed subtract must leave state unchanged, got %d", g.CurrentAmount.Cents)
	}
}

func TestSubtractProgress(t *testing.T) {
	g := SavingsGoal{CurrentAmount: Money{Cents: 3000}, TargetAmount: Money{Cents: 10000}}
	if err := g.SubtractProgress(Money{Cents: 3000}); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if g.CurrentAmount.Cents != 0 {
		t.Fatalf("got %d", g.CurrentAmount.Cents)
	}
}

func TestCompletionNeverAutoReverts(t *testing.T) {
	g := SavingsGoal{CurrentAmount: Money{Cents: 10000}, TargetAmount: Money{Cents: 10000}, IsCompleted: true}
	if err := g.SubtractProgress(Money{Cents: 9000}); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !g.IsCompleted {
		t.Fatal("reducing progress must not reopen a completed goal")
	}
	g.MarkActive()
	if g.IsCompleted {
		t.Fatal("explicit MarkActive must reopen")
	}
}

func TestUpdateDeadline(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	g := SavingsGoal{Deadline: now.AddDate(0, 1, 0)}
	if err := g.UpdateDeadline(now.AddDate(0, 0, -1), now); err == nil {
		t.Fatal("past deadline must be rejected")
	}
	if err := g.UpdateDeadline(now.AddDate(1, 0, 0), now); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestExpiringSoon(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	g := SavingsGoal{Deadline: now.AddDate(0, 0, 3)}
	if !g.ExpiringSoon(now, week) {
		t.Fatal("deadline within window must count")
	}

	g.Deadline = now.AddDate(0, 0, 30)
	if g.ExpiringSoon(now, week) {
		t.Fatal("deadline outside window must not count")
	}

	g.Deadline = now.AddDate(0, 0, 3)
	g.IsCompleted = true
	if g.ExpiringSoon(now, week) {
		t.Fatal("completed goals never expire soon")
	}
}
