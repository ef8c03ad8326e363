package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arin-r/splitlyx/internal/database"
)

// Repository handles ledger, repayment and transaction persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindContributions loads the group's net contribution rows. It accepts a
// DBTX so mutation paths can read inside their own transaction.
func (r *Repository) FindContributions(ctx context.Context, q database.DBTX, groupID int64) ([]*NetContribution, error) {
	query := `
		SELECT group_id, user_id, paid, actual_share
		FROM net_contributions
		WHERE group_id = $1
		ORDER BY user_id
	`

	rows, err := q.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to find contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*NetContribution
	for rows.Next() {
		c := &NetContribution{}
		if err := rows.Scan(&c.GroupID, &c.UserID, &c.Paid, &c.ActualShare); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

// ReplaceContributions swaps the group's net contribution rows for the
// given set. Delete-all plus insert-all, so a partial per-row update can
// never leave stale rows behind; the caller supplies the transaction.
func (r *Repository) ReplaceContributions(ctx context.Context, q database.DBTX, groupID int64, rows []*NetContribution) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM net_contributions WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear contributions: %w", err)
	}

	query := `
		INSERT INTO net_contributions (group_id, user_id, paid, actual_share)
		VALUES ($1, $2, $3, $4)
	`
	for _, c := range rows {
		if _, err := q.ExecContext(ctx, query, groupID, c.UserID, c.Paid, c.ActualShare); err != nil {
			return fmt.Errorf("failed to insert contribution for user %d: %w", c.UserID, err)
		}
	}
	return nil
}

// ReplaceRepayments swaps the group's stored repayments for the given set.
func (r *Repository) ReplaceRepayments(ctx context.Context, q database.DBTX, groupID int64, repayments []*Repayment) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM repayments WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear repayments: %w", err)
	}

	query := `
		INSERT INTO repayments (group_id, payer_id, receiver_id, repayment_amount)
		VALUES ($1, $2, $3, $4)
	`
	for _, rep := range repayments {
		if _, err := q.ExecContext(ctx, query, groupID, rep.PayerID, rep.ReceiverID, rep.Amount); err != nil {
			return fmt.Errorf("failed to insert repayment: %w", err)
		}
	}
	return nil
}

// FindRepayments retrieves the group's suggested repayments
func (r *Repository) FindRepayments(ctx context.Context, groupID int64) ([]*Repayment, error) {
	query := `
		SELECT rp.id, rp.group_id, rp.payer_id, rp.receiver_id, rp.repayment_amount,
		       p.username AS payer_username, recv.username AS receiver_username
		FROM repayments rp
		JOIN users p ON rp.payer_id = p.id
		JOIN users recv ON rp.receiver_id = recv.id
		WHERE rp.group_id = $1
		ORDER BY rp.id
	`
	return r.queryRepayments(ctx, query, groupID)
}

// FindRepaymentsForUser retrieves the group's repayments in which the user
// is either the payer or the receiver
func (r *Repository) FindRepaymentsForUser(ctx context.Context, groupID, userID int64) ([]*Repayment, error) {
	query := `
		SELECT rp.id, rp.group_id, rp.payer_id, rp.receiver_id, rp.repayment_amount,
		       p.username AS payer_username, recv.username AS receiver_username
		FROM repayments rp
		JOIN users p ON rp.payer_id = p.id
		JOIN users recv ON rp.receiver_id = recv.id
		WHERE rp.group_id = $1 AND (rp.payer_id = $2 OR rp.receiver_id = $2)
		ORDER BY rp.id
	`
	return r.queryRepayments(ctx, query, groupID, userID)
}

func (r *Repository) queryRepayments(ctx context.Context, query string, args ...interface{}) ([]*Repayment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find repayments: %w", err)
	}
	defer rows.Close()

	var repayments []*Repayment
	for rows.Next() {
		rep := &Repayment{}
		if err := rows.Scan(
			&rep.ID,
			&rep.GroupID,
			&rep.PayerID,
			&rep.ReceiverID,
			&rep.Amount,
			&rep.PayerUsername,
			&rep.ReceiverUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan repayment: %w", err)
		}
		repayments = append(repayments, rep)
	}
	return repayments, rows.Err()
}

// CreateRecordedTransaction appends a direct-payment log entry. Entries are
// never updated or deleted.
func (r *Repository) CreateRecordedTransaction(ctx context.Context, q database.DBTX, groupID, payerID, receiverID int64, amount float64) (*RecordedTransaction, error) {
	query := `
		INSERT INTO recorded_transactions (group_id, payer_id, receiver_id, transaction_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, payer_id, receiver_id, transaction_amount, created_at
	`

	tr := &RecordedTransaction{}
	err := q.QueryRowContext(ctx, query, groupID, payerID, receiverID, amount).Scan(
		&tr.ID,
		&tr.GroupID,
		&tr.PayerID,
		&tr.ReceiverID,
		&tr.Amount,
		&tr.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recorded transaction: %w", err)
	}
	return tr, nil
}

// FindRecordedTransactions retrieves the group's direct-payment log
func (r *Repository) FindRecordedTransactions(ctx context.Context, groupID int64) ([]*RecordedTransaction, error) {
	query := `
		SELECT rt.id, rt.group_id, rt.payer_id, rt.receiver_id, rt.transaction_amount, rt.created_at,
		       p.username AS payer_username, recv.username AS receiver_username
		FROM recorded_transactions rt
		JOIN users p ON rt.payer_id = p.id
		JOIN users recv ON rt.receiver_id = recv.id
		WHERE rt.group_id = $1
		ORDER BY rt.created_at DESC, rt.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recorded transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*RecordedTransaction
	for rows.Next() {
		tr := &RecordedTransaction{}
		if err := rows.Scan(
			&tr.ID,
			&tr.GroupID,
			&tr.PayerID,
			&tr.ReceiverID,
			&tr.Amount,
			&tr.CreatedAt,
			&tr.PayerUsername,
			&tr.ReceiverUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recorded transaction: %w", err)
		}
		transactions = append(transactions, tr)
	}
	return transactions, rows.Err()
}
