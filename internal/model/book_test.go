package model

import (
	"testing"
	"time"
)

func TestDaysRemaining(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name        string
		borrowedAgo time.Duration
		borrowDays  int
		want        int
	}{
		{"just borrowed", 0, 14, 14},
		{"one day in", 24 * time.Hour, 14, 13},
		{"due today", 14 * 24 * time.Hour, 14, 0},
		{"one day overdue", 15 * 24 * time.Hour, 14, -1},
		{"short period", 8 * 24 * time.Hour, 7, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DaysRemaining(now.Add(-tc.borrowedAgo), tc.borrowDays, now)
			if got != tc.want {
				t.Fatalf("DaysRemaining = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDaysRemainingMonotonic(t *testing.T) {
	borrowedAt := time.Now()
	prev := DaysRemaining(borrowedAt, 14, borrowedAt)
	for day := 1; day <= 30; day++ {
		now := borrowedAt.Add(time.Duration(day) * 24 * time.Hour)
		got := DaysRemaining(borrowedAt, 14, now)
		if got > prev {
			t.Fatalf("day %d: %d > previous %d", day, got, prev)
		}
		prev = got
	}
}

func TestDueness(t *testing.T) {
	now := time.Now()
	book := &Book{BorrowDays: 14}

	if _, ok := book.Dueness(now); ok {
		t.Fatal("available book must have no dueness")
	}

	borrowedAt := now.Add(-3 * 24 * time.Hour)
	book.BorrowedAt = &borrowedAt
	days, ok := book.Dueness(now)
	if !ok || days != 11 {
		t.Fatalf("Dueness = %d,%v, want 11,true", days, ok)
	}
}

func TestNormalizeAccessCode(t *testing.T) {
	if got := NormalizeAccessCode(" abc1 "); got != "ABC1" {
		t.Fatalf("NormalizeAccessCode = %q", got)
	}
}
