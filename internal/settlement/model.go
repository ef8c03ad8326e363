package settlement

import "time"

// NetContribution is a member's running position within a group: the total
// they have paid across all expenses and direct transactions versus the
// total they were responsible for. For a balanced group the paid amounts
// and actual shares sum to the same value.
type NetContribution struct {
	GroupID     int64   `json:"group_id"`
	UserID      int64   `json:"user_id"`
	Paid        float64 `json:"paid"`
	ActualShare float64 `json:"actual_share"`
}

// Repayment is a suggested settlement: payer owes receiver this amount.
// Repayments are derived data, recomputed from scratch whenever the
// group's net contributions change.
type Repayment struct {
	ID         int64   `json:"id"`
	GroupID    int64   `json:"group_id"`
	PayerID    int64   `json:"payer_id"`
	ReceiverID int64   `json:"receiver_id"`
	Amount     float64 `json:"repayment_amount"`

	// Populated via JOIN
	PayerUsername    string `json:"payer_username,omitempty"`
	ReceiverUsername string `json:"receiver_username,omitempty"`
}

// RecordedTransaction is an immutable log entry of a direct payment one
// member made to another, outside of any expense.
type RecordedTransaction struct {
	ID         int64     `json:"id"`
	GroupID    int64     `json:"group_id"`
	PayerID    int64     `json:"payer_id"`
	ReceiverID int64     `json:"receiver_id"`
	Amount     float64   `json:"transaction_amount"`
	CreatedAt  time.Time `json:"created_at"`

	// Populated via JOIN
	PayerUsername    string `json:"payer_username,omitempty"`
	ReceiverUsername string `json:"receiver_username,omitempty"`
}

// MemberBalance is a display-only aggregate derived from the group's
// repayments. Positive means the member owes, negative means they are owed.
type MemberBalance struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}
