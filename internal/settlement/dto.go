package settlement

import (
	"time"

	"github.com/arin-r/splitlyx/pkg/money"
)

// RecordTransactionRequest represents a direct payment to record
type RecordTransactionRequest struct {
	PayerID    int64   `json:"payer_id" validate:"required"`
	ReceiverID int64   `json:"receiver_id" validate:"required"`
	Amount     float64 `json:"transaction_amount" validate:"required"`
}

// RepaymentResponse represents a suggested settlement
type RepaymentResponse struct {
	ID               int64   `json:"id"`
	GroupID          int64   `json:"group_id"`
	PayerID          int64   `json:"payer_id"`
	PayerUsername    string  `json:"payer_username,omitempty"`
	ReceiverID       int64   `json:"receiver_id"`
	ReceiverUsername string  `json:"receiver_username,omitempty"`
	Amount           float64 `json:"repayment_amount"`
}

// TransactionResponse represents a recorded direct payment
type TransactionResponse struct {
	ID               int64   `json:"id"`
	GroupID          int64   `json:"group_id"`
	PayerID          int64   `json:"payer_id"`
	PayerUsername    string  `json:"payer_username,omitempty"`
	ReceiverID       int64   `json:"receiver_id"`
	ReceiverUsername string  `json:"receiver_username,omitempty"`
	Amount           float64 `json:"transaction_amount"`
	CreatedAt        string  `json:"created_at"`
}

// BalanceResponse represents one member's signed balance
type BalanceResponse struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// ToResponse converts a Repayment model to its response DTO
func (r *Repayment) ToResponse() *RepaymentResponse {
	return &RepaymentResponse{
		ID:               r.ID,
		GroupID:          r.GroupID,
		PayerID:          r.PayerID,
		PayerUsername:    r.PayerUsername,
		ReceiverID:       r.ReceiverID,
		ReceiverUsername: r.ReceiverUsername,
		Amount:           r.Amount,
	}
}

// ToResponse converts a RecordedTransaction model to its response DTO
func (t *RecordedTransaction) ToResponse() *TransactionResponse {
	return &TransactionResponse{
		ID:               t.ID,
		GroupID:          t.GroupID,
		PayerID:          t.PayerID,
		PayerUsername:    t.PayerUsername,
		ReceiverID:       t.ReceiverID,
		ReceiverUsername: t.ReceiverUsername,
		Amount:           t.Amount,
		CreatedAt:        t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToResponse converts a MemberBalance to its response DTO. The balance is
// rounded to cents for display only; the stored data keeps full precision.
func (b *MemberBalance) ToResponse() *BalanceResponse {
	return &BalanceResponse{
		UserID:   b.UserID,
		Username: b.Username,
		Balance:  money.Round(b.Balance),
	}
}
