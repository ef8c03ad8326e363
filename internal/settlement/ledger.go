package settlement

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arin-r/splitlyx/internal/settlement/netting"
)

var (
	// ErrLedgerCorrupted means a member with recorded expense contributions
	// has no net contribution row. The invariants make this unreachable;
	// seeing it implies corrupted ledger state, so the operation aborts
	// rather than guessing.
	ErrLedgerCorrupted = errors.New("net contribution row missing for a member with recorded contributions")

	// ErrMemberNotInLedger means a direct transaction named a member who
	// has no position in the group yet.
	ErrMemberNotInLedger = errors.New("member has no contributions in this group yet")
)

// ContributionDelta is one member's paid/actualShare adjustment from a
// single mutating event. Deltas from an expense carry both components;
// deltas from a direct transaction only move Paid.
type ContributionDelta struct {
	UserID      int64
	Paid        float64
	ActualShare float64
}

// MissingRowPolicy decides what ApplyDeltas does when a delta names a
// member without an existing net contribution row.
type MissingRowPolicy int

const (
	// SeedMissing inserts a fresh row for the member; used when creating an
	// expense, where a first-time participant is expected.
	SeedMissing MissingRowPolicy = iota
	// FailMissingCorrupt aborts with ErrLedgerCorrupted; used when deleting
	// an expense, where every contributor must already have a row.
	FailMissingCorrupt
	// FailMissingMember aborts with ErrMemberNotInLedger; used when
	// recording a direct transaction.
	FailMissingMember
)

// Ledger updates a group's net contributions and re-derives its repayments.
// Every mutation runs through here: apply the event's deltas in memory,
// replace the stored rows, recompute the repayment set, replace that too.
// The caller owns the transaction and the group's advisory lock.
type Ledger struct {
	repo *Repository
}

// NewLedger creates a ledger engine over the settlement repository
func NewLedger(repo *Repository) *Ledger {
	return &Ledger{repo: repo}
}

// ApplyDeltas folds the deltas into the group's net contributions and
// replaces both the contribution rows and the derived repayments inside tx.
func (l *Ledger) ApplyDeltas(ctx context.Context, tx *sql.Tx, groupID int64, deltas []ContributionDelta, policy MissingRowPolicy) error {
	contributions, err := l.repo.FindContributions(ctx, tx, groupID)
	if err != nil {
		return err
	}

	merged, err := mergeDeltas(contributions, groupID, deltas, policy)
	if err != nil {
		return err
	}

	if err := l.repo.ReplaceContributions(ctx, tx, groupID, merged); err != nil {
		return err
	}

	repayments := deriveRepayments(groupID, merged)
	return l.repo.ReplaceRepayments(ctx, tx, groupID, repayments)
}

// mergeDeltas applies each delta to the matching member row. Missing rows
// are handled per policy. The input slice is returned with rows updated in
// place (and possibly appended to); callers pass rows they own.
func mergeDeltas(contributions []*NetContribution, groupID int64, deltas []ContributionDelta, policy MissingRowPolicy) ([]*NetContribution, error) {
	for _, d := range deltas {
		idx := -1
		for i, c := range contributions {
			if c.UserID == d.UserID {
				idx = i
				break
			}
		}
		if idx == -1 {
			switch policy {
			case SeedMissing:
				contributions = append(contributions, &NetContribution{
					GroupID:     groupID,
					UserID:      d.UserID,
					Paid:        d.Paid,
					ActualShare: d.ActualShare,
				})
			case FailMissingCorrupt:
				return nil, ErrLedgerCorrupted
			default:
				return nil, ErrMemberNotInLedger
			}
			continue
		}
		contributions[idx].Paid += d.Paid
		contributions[idx].ActualShare += d.ActualShare
	}
	return contributions, nil
}

// deriveRepayments runs the netting calculator over a snapshot of the rows
func deriveRepayments(groupID int64, contributions []*NetContribution) []*Repayment {
	positions := make([]netting.Contribution, len(contributions))
	for i, c := range contributions {
		positions[i] = netting.Contribution{
			UserID:      c.UserID,
			Paid:        c.Paid,
			ActualShare: c.ActualShare,
		}
	}

	netted := netting.Calculate(groupID, positions)
	repayments := make([]*Repayment, len(netted))
	for i, rep := range netted {
		repayments[i] = &Repayment{
			GroupID:    rep.GroupID,
			PayerID:    rep.PayerID,
			ReceiverID: rep.ReceiverID,
			Amount:     rep.Amount,
		}
	}
	return repayments
}
