package settlement

import (
	"testing"
	"time"
)

// Timestamps are normalized to UTC before formatting, so a row read back in
// a non-UTC session zone still serializes with a truthful Z suffix.
func TestTransactionResponseTimestampIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	tr := &RecordedTransaction{
		ID:        1,
		GroupID:   1,
		CreatedAt: time.Date(2026, 1, 2, 10, 30, 0, 0, loc),
	}

	got := tr.ToResponse().CreatedAt
	want := "2026-01-02T05:30:00Z"
	if got != want {
		t.Errorf("CreatedAt = %q, want %q", got, want)
	}
}

func TestBalanceResponseRoundsForDisplay(t *testing.T) {
	b := &MemberBalance{UserID: 1, Username: "alice", Balance: 33.333333}
	if got := b.ToResponse().Balance; got != 33.33 {
		t.Errorf("Balance = %v, want 33.33", got)
	}
}
