package expense

import "time"

// ContributionInput is one member's paid/actualShare pair for a new expense
type ContributionInput struct {
	UserID      int64   `json:"user_id" validate:"required"`
	Paid        float64 `json:"paid"`
	ActualShare float64 `json:"actual_share"`
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID       int64               `json:"group_id" validate:"required"`
	Name          string              `json:"expense_name" validate:"required,min=1,max=255"`
	Contributions []ContributionInput `json:"expense_contributions" validate:"required,min=1"`
	TotalExpense  float64             `json:"total_expense" validate:"required"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            int64                   `json:"id"`
	GroupID       int64                   `json:"group_id"`
	Name          string                  `json:"name"`
	TotalExpense  float64                 `json:"total_expense"`
	CreatedAt     string                  `json:"created_at"`
	Contributions []*ContributionResponse `json:"contributions,omitempty"`
}

// ContributionResponse represents one member's contribution to an expense
type ContributionResponse struct {
	UserID      int64   `json:"user_id"`
	Username    string  `json:"username,omitempty"`
	Paid        float64 `json:"paid"`
	ActualShare float64 `json:"actual_share"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Name:         e.Name,
		TotalExpense: e.TotalExpense,
		CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToResponse converts an ExpenseContribution model to its response DTO
func (c *ExpenseContribution) ToResponse() *ContributionResponse {
	return &ContributionResponse{
		UserID:      c.UserID,
		Username:    c.Username,
		Paid:        c.Paid,
		ActualShare: c.ActualShare,
	}
}
