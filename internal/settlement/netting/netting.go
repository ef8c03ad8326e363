package netting

// =============================================================================
// DEBT NETTING
// Converts per-member net positions into a minimal set of pairwise repayments
// =============================================================================

// Contribution is a member's aggregate position within a group: how much
// they have paid in total versus how much they were responsible for.
type Contribution struct {
	UserID      int64
	Paid        float64
	ActualShare float64
}

// Repayment is a suggested transfer: payer pays receiver the amount and the
// corresponding slice of outstanding balance is cleared.
type Repayment struct {
	GroupID    int64
	PayerID    int64
	ReceiverID int64
	Amount     float64
}

// Calculate produces the list of pairwise repayments that settles every
// member's position, assuming the positions balance overall
// (sum of Paid equals sum of ActualShare).
//
// Greedy two-pointer matching: the outer index walks creditors in input
// order; the inner cursor k walks debtors and never moves backwards. A
// debtor, once drained, is skipped by the canGive <= 0 check on the next
// pass, so the whole run is a single O(N) sweep. Emits at most N-1
// repayments for N members.
//
// The input is copied before matching; the caller's slice is not modified.
// Deterministic for a given input order.
func Calculate(groupID int64, contributions []Contribution) []Repayment {
	working := make([]Contribution, len(contributions))
	copy(working, contributions)

	repayments := []Repayment{}
	k := 0
	n := len(working)

	for i := 0; i < n; i++ {
		mustGet := working[i].Paid - working[i].ActualShare
		if mustGet <= 0 {
			// broke even, or is a debtor themselves
			continue
		}
		for k < n {
			canGive := working[k].ActualShare - working[k].Paid
			if canGive <= 0 {
				k++
				continue
			}
			if mustGet == canGive {
				// exact float match; a near-equal pair takes the branches
				// below instead and leaves a near-zero residual repayment
				repayments = append(repayments, Repayment{
					GroupID:    groupID,
					PayerID:    working[k].UserID,
					ReceiverID: working[i].UserID,
					Amount:     canGive,
				})
				working[k].Paid += canGive
				break
			} else if mustGet > canGive {
				// debtor k gives everything they have left
				repayments = append(repayments, Repayment{
					GroupID:    groupID,
					PayerID:    working[k].UserID,
					ReceiverID: working[i].UserID,
					Amount:     canGive,
				})
				working[k].Paid += canGive
				mustGet -= canGive
				k++
			} else {
				// debtor k covers the rest and keeps capacity for the next creditor
				repayments = append(repayments, Repayment{
					GroupID:    groupID,
					PayerID:    working[k].UserID,
					ReceiverID: working[i].UserID,
					Amount:     mustGet,
				})
				working[k].Paid += mustGet
				break
			}
		}
	}

	return repayments
}
