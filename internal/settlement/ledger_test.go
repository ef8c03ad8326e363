package settlement

import (
	"errors"
	"math"
	"testing"
)

func contribution(userID int64, paid, share float64) *NetContribution {
	return &NetContribution{GroupID: 1, UserID: userID, Paid: paid, ActualShare: share}
}

func TestMergeDeltasUpdatesExistingRows(t *testing.T) {
	rows := []*NetContribution{
		contribution(1, 100, 50),
		contribution(2, 0, 50),
	}
	deltas := []ContributionDelta{
		{UserID: 1, Paid: 30, ActualShare: 10},
		{UserID: 2, Paid: 0, ActualShare: 20},
	}

	merged, err := mergeDeltas(rows, 1, deltas, SeedMissing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if merged[0].Paid != 130 || merged[0].ActualShare != 60 {
		t.Errorf("user 1 row: got %+v", merged[0])
	}
	if merged[1].Paid != 0 || merged[1].ActualShare != 70 {
		t.Errorf("user 2 row: got %+v", merged[1])
	}
}

func TestMergeDeltasSeedsNewMember(t *testing.T) {
	rows := []*NetContribution{contribution(1, 60, 30)}
	deltas := []ContributionDelta{{UserID: 9, Paid: 0, ActualShare: 30}}

	merged, err := mergeDeltas(rows, 1, deltas, SeedMissing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(merged))
	}
	seeded := merged[1]
	if seeded.GroupID != 1 || seeded.UserID != 9 || seeded.Paid != 0 || seeded.ActualShare != 30 {
		t.Errorf("seeded row: got %+v", seeded)
	}
}

func TestMergeDeltasMissingRowPolicies(t *testing.T) {
	tests := []struct {
		name    string
		policy  MissingRowPolicy
		wantErr error
	}{
		{"expense deletion treats a missing row as corruption", FailMissingCorrupt, ErrLedgerCorrupted},
		{"transaction recording rejects unknown members", FailMissingMember, ErrMemberNotInLedger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []*NetContribution{contribution(1, 10, 10)}
			deltas := []ContributionDelta{{UserID: 42, Paid: 5}}

			_, err := mergeDeltas(rows, 1, deltas, tt.policy)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// Creating then deleting the same expense must return every row to its
// previous position.
func TestMergeDeltasRoundTrip(t *testing.T) {
	rows := []*NetContribution{}

	create := []ContributionDelta{
		{UserID: 1, Paid: 100, ActualShare: 50},
		{UserID: 2, Paid: 0, ActualShare: 50},
	}
	rows, err := mergeDeltas(rows, 1, create, SeedMissing)
	if err != nil {
		t.Fatalf("create merge failed: %v", err)
	}

	remove := make([]ContributionDelta, len(create))
	for i, d := range create {
		remove[i] = ContributionDelta{UserID: d.UserID, Paid: -d.Paid, ActualShare: -d.ActualShare}
	}
	rows, err = mergeDeltas(rows, 1, remove, FailMissingCorrupt)
	if err != nil {
		t.Fatalf("delete merge failed: %v", err)
	}

	for _, row := range rows {
		if row.Paid != 0 || row.ActualShare != 0 {
			t.Errorf("user %d not back to zero: %+v", row.UserID, row)
		}
	}

	if reps := deriveRepayments(1, rows); len(reps) != 0 {
		t.Errorf("expected no repayments after round trip, got %+v", reps)
	}
}

func TestDeriveRepayments(t *testing.T) {
	rows := []*NetContribution{
		contribution(1, 90, 30),
		contribution(2, 0, 30),
		contribution(3, 0, 30),
	}

	reps := deriveRepayments(1, rows)
	if len(reps) != 2 {
		t.Fatalf("expected 2 repayments, got %d", len(reps))
	}
	for _, rep := range reps {
		if rep.GroupID != 1 || rep.ReceiverID != 1 {
			t.Errorf("unexpected repayment: %+v", rep)
		}
		if math.Abs(rep.Amount-30) > 1e-9 {
			t.Errorf("expected amount 30, got %v", rep.Amount)
		}
	}
}
