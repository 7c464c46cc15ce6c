package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spinmate/wheel-backend/internal/models"
)

func TestQuotaForIncludesReferralBonus(t *testing.T) {
	accounts := newMockAccountRepo()
	spins := newMockSpinRepo()
	referrals := newMockReferralRepo()
	svc := NewAttemptService(accounts, spins, referrals, 2, 2)
	ctx := context.Background()

	quota, err := svc.QuotaFor(ctx, "t1", "alice")
	if err != nil {
		t.Fatalf("QuotaFor failed: %v", err)
	}
	if quota != 2 {
		t.Errorf("expected base quota 2, got %d", quota)
	}

	if _, err := referrals.CreateIfAbsent(ctx, &models.ReferralEdge{TenantID: "t1", ReferrerID: "alice", ReferredID: "bob"}); err != nil {
		t.Fatalf("seeding referral failed: %v", err)
	}

	quota, err = svc.QuotaFor(ctx, "t1", "alice")
	if err != nil {
		t.Fatalf("QuotaFor failed: %v", err)
	}
	if quota != 4 {
		t.Errorf("expected quota 4 after one referral, got %d", quota)
	}
}

func TestRecordSpinExhaustsQuota(t *testing.T) {
	accounts := newMockAccountRepo()
	spins := newMockSpinRepo()
	referrals := newMockReferralRepo()
	svc := NewAttemptService(accounts, spins, referrals, 2, 2)
	ctx := context.Background()

	if err := accounts.EnsureAccount(ctx, "t1", "alice", "Alice"); err != nil {
		t.Fatalf("EnsureAccount failed: %v", err)
	}
	if _, err := referrals.CreateIfAbsent(ctx, &models.ReferralEdge{TenantID: "t1", ReferrerID: "alice", ReferredID: "bob"}); err != nil {
		t.Fatalf("seeding referral failed: %v", err)
	}

	// base 2 + bonus 2 * 1 referral = 4 spins
	for i := 0; i < 4; i++ {
		if _, err := svc.RecordSpin(ctx, "t1", "alice", "prize"); err != nil {
			t.Fatalf("spin %d failed: %v", i+1, err)
		}
	}

	if _, err := svc.RecordSpin(ctx, "t1", "alice", "prize"); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded on fifth spin, got %v", err)
	}

	left, err := svc.AttemptsLeft(ctx, "t1", "alice")
	if err != nil {
		t.Fatalf("AttemptsLeft failed: %v", err)
	}
	if left != 0 {
		t.Errorf("expected 0 attempts left, got %d", left)
	}
}

func TestReferralUnlocksAnotherSpin(t *testing.T) {
	accounts := newMockAccountRepo()
	spins := newMockSpinRepo()
	referrals := newMockReferralRepo()
	svc := NewAttemptService(accounts, spins, referrals, 1, 1)
	ctx := context.Background()

	if err := accounts.EnsureAccount(ctx, "t1", "alice", ""); err != nil {
		t.Fatalf("EnsureAccount failed: %v", err)
	}
	if _, err := svc.RecordSpin(ctx, "t1", "alice", "prize"); err != nil {
		t.Fatalf("first spin failed: %v", err)
	}
	if _, err := svc.RecordSpin(ctx, "t1", "alice", "prize"); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota exhausted, got %v", err)
	}

	// A new referral raises the quota retroactively.
	if _, err := referrals.CreateIfAbsent(ctx, &models.ReferralEdge{TenantID: "t1", ReferrerID: "alice", ReferredID: "bob"}); err != nil {
		t.Fatalf("seeding referral failed: %v", err)
	}

	if _, err := svc.RecordSpin(ctx, "t1", "alice", "prize"); err != nil {
		t.Errorf("expected spin to succeed after referral credit, got %v", err)
	}
}

func TestAttemptsLeftNeverNegative(t *testing.T) {
	accounts := newMockAccountRepo()
	svc := NewAttemptService(accounts, newMockSpinRepo(), newMockReferralRepo(), 1, 1)
	ctx := context.Background()

	// Simulate a policy change that lowered the quota below the usage.
	if err := accounts.EnsureAccount(ctx, "t1", "alice", ""); err != nil {
		t.Fatalf("EnsureAccount failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := accounts.IncrementSpinsWithQuota(ctx, "t1", "alice", 10); err != nil {
			t.Fatalf("seeding spins failed: %v", err)
		}
	}

	left, err := svc.AttemptsLeft(ctx, "t1", "alice")
	if err != nil {
		t.Fatalf("AttemptsLeft failed: %v", err)
	}
	if left != 0 {
		t.Errorf("expected 0, got %d", left)
	}
}

func TestAttemptsLeftForUnknownUser(t *testing.T) {
	svc := NewAttemptService(newMockAccountRepo(), newMockSpinRepo(), newMockReferralRepo(), 3, 1)
	ctx := context.Background()

	left, err := svc.AttemptsLeft(ctx, "t1", "nobody")
	if err != nil {
		t.Fatalf("AttemptsLeft failed: %v", err)
	}
	if left != 3 {
		t.Errorf("a user with no account gets the base allowance, got %d", left)
	}
}

func TestRecordSpinRollsBackOnWriteFailure(t *testing.T) {
	accounts := newMockAccountRepo()
	spins := newMockSpinRepo()
	svc := NewAttemptService(accounts, spins, newMockReferralRepo(), 1, 0)
	ctx := context.Background()

	if err := accounts.EnsureAccount(ctx, "t1", "alice", ""); err != nil {
		t.Fatalf("EnsureAccount failed: %v", err)
	}

	spins.createErr = fmt.Errorf("write concern failed")
	if _, err := svc.RecordSpin(ctx, "t1", "alice", "prize"); err == nil {
		t.Fatal("expected RecordSpin to fail when the spin write fails")
	}

	// The reserved attempt was given back, so the next spin succeeds.
	spins.createErr = nil
	if _, err := svc.RecordSpin(ctx, "t1", "alice", "prize"); err != nil {
		t.Errorf("expected the attempt to be restored, got %v", err)
	}
}

func TestConcurrentSpinsNeverExceedQuota(t *testing.T) {
	accounts := newMockAccountRepo()
	spins := newMockSpinRepo()
	svc := NewAttemptService(accounts, spins, newMockReferralRepo(), 3, 0)
	ctx := context.Background()

	if err := accounts.EnsureAccount(ctx, "t1", "alice", ""); err != nil {
		t.Fatalf("EnsureAccount failed: %v", err)
	}

	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := svc.RecordSpin(ctx, "t1", "alice", "prize")
			results <- err
		}()
	}

	succeeded := 0
	for i := 0; i < 10; i++ {
		if err := <-results; err == nil {
			succeeded++
		} else if !errors.Is(err, ErrQuotaExceeded) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 3 {
		t.Errorf("expected exactly 3 spins to win the quota, got %d", succeeded)
	}

	count, _ := spins.Count(ctx, "t1")
	if count != 3 {
		t.Errorf("expected 3 spin records, got %d", count)
	}
}
