package expense

import "time"

// Expense represents a shared expense in a group
type Expense struct {
	ID           int64     `json:"id"`
	GroupID      int64     `json:"group_id"`
	Name         string    `json:"name"`
	TotalExpense float64   `json:"total_expense"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExpenseContribution is one member's part of a single expense: what they
// paid towards it and what their actual share of it was.
type ExpenseContribution struct {
	ExpenseID   int64   `json:"expense_id"`
	UserID      int64   `json:"user_id"`
	Paid        float64 `json:"paid"`
	ActualShare float64 `json:"actual_share"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpenseWithContributions combines an expense with its contributions
type ExpenseWithContributions struct {
	Expense       *Expense
	Contributions []*ExpenseContribution
}
