package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/arin-r/splitlyx/internal/database"
)

// Repository handles expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new expense
func (r *Repository) Create(ctx context.Context, q database.DBTX, groupID int64, name string, total float64) (*Expense, error) {
	query := `
		INSERT INTO expenses (group_id, name, total_expense)
		VALUES ($1, $2, $3)
		RETURNING id, group_id, name, total_expense, created_at
	`

	e := &Expense{}
	err := q.QueryRowContext(ctx, query, groupID, name, total).Scan(
		&e.ID,
		&e.GroupID,
		&e.Name,
		&e.TotalExpense,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

// CreateContributions inserts the expense's contribution rows
func (r *Repository) CreateContributions(ctx context.Context, q database.DBTX, expenseID int64, contributions []ContributionInput) error {
	query := `
		INSERT INTO expense_contributions (expense_id, user_id, paid, actual_share)
		VALUES ($1, $2, $3, $4)
	`
	for _, c := range contributions {
		if _, err := q.ExecContext(ctx, query, expenseID, c.UserID, c.Paid, c.ActualShare); err != nil {
			return fmt.Errorf("failed to create contribution for user %d: %w", c.UserID, err)
		}
	}
	return nil
}

// GetByID retrieves an expense by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT id, group_id, name, total_expense, created_at
		FROM expenses
		WHERE id = $1
	`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.GroupID,
		&e.Name,
		&e.TotalExpense,
		&e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// GetContributions retrieves an expense's contribution rows. It accepts a
// DBTX so the deletion path can read them inside its transaction before
// the expense goes away.
func (r *Repository) GetContributions(ctx context.Context, q database.DBTX, expenseID int64) ([]*ExpenseContribution, error) {
	query := `
		SELECT ec.expense_id, ec.user_id, ec.paid, ec.actual_share, u.username
		FROM expense_contributions ec
		JOIN users u ON ec.user_id = u.id
		WHERE ec.expense_id = $1
		ORDER BY ec.user_id
	`

	rows, err := q.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*ExpenseContribution
	for rows.Next() {
		c := &ExpenseContribution{}
		if err := rows.Scan(&c.ExpenseID, &c.UserID, &c.Paid, &c.ActualShare, &c.Username); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}

// Delete removes an expense; its contributions go with it via the
// ON DELETE CASCADE foreign key.
func (r *Repository) Delete(ctx context.Context, q database.DBTX, id int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// ListByGroupID retrieves the group's expenses, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT id, group_id, name, total_expense, created_at
		FROM expenses
		WHERE group_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Name, &e.TotalExpense, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, total, rows.Err()
}
