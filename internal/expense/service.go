package expense

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arin-r/splitlyx/internal/database"
	"github.com/arin-r/splitlyx/internal/group"
	"github.com/arin-r/splitlyx/internal/settlement"
	"github.com/arin-r/splitlyx/pkg/money"
)

// Common errors
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrNoContributions  = errors.New("at least one contribution is required")
	ErrUnbalancedTotals = errors.New("the total amount paid should equal the total of actual shares, which should also equal the total expense")
	ErrZeroTotal        = errors.New("the total expense must be non zero")
)

// Service handles expense business logic. Creating or deleting an expense
// also reworks the group's net contribution ledger and re-derives its
// suggested repayments, all inside one transaction.
type Service struct {
	db        *sql.DB
	repo      *Repository
	groupRepo *group.Repository
	ledger    *settlement.Ledger
}

// NewService creates a new expense service
func NewService(db *sql.DB, repo *Repository, groupRepo *group.Repository, ledger *settlement.Ledger) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		groupRepo: groupRepo,
		ledger:    ledger,
	}
}

// validateContributions checks the expense's books before anything is
// persisted: the paid amounts and the actual shares must balance, both must
// match the declared total, and the total must not be zero. All comparisons
// use the money tolerance.
func validateContributions(contributions []ContributionInput, totalExpense float64) error {
	if len(contributions) == 0 {
		return ErrNoContributions
	}

	var totalPaid, totalShare float64
	for _, c := range contributions {
		totalPaid += c.Paid
		totalShare += c.ActualShare
	}

	if !money.AreEqual(totalPaid, totalShare) || !money.AreEqual(totalPaid, totalExpense) {
		return ErrUnbalancedTotals
	}
	if money.AreEqual(totalExpense, 0) {
		return ErrZeroTotal
	}
	return nil
}

// Create validates and persists an expense, folds its contributions into
// the group's ledger, and replaces the group's repayments
func (s *Service) Create(ctx context.Context, req *CreateExpenseRequest) (*Expense, error) {
	if err := validateContributions(req.Contributions, req.TotalExpense); err != nil {
		return nil, err
	}

	g, err := s.groupRepo.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}

	var created *Expense
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := database.LockGroup(ctx, tx, req.GroupID); err != nil {
			return err
		}

		created, err = s.repo.Create(ctx, tx, req.GroupID, req.Name, req.TotalExpense)
		if err != nil {
			return err
		}
		if err := s.repo.CreateContributions(ctx, tx, created.ID, req.Contributions); err != nil {
			return err
		}

		deltas := make([]settlement.ContributionDelta, len(req.Contributions))
		for i, c := range req.Contributions {
			deltas[i] = settlement.ContributionDelta{
				UserID:      c.UserID,
				Paid:        c.Paid,
				ActualShare: c.ActualShare,
			}
		}
		return s.ledger.ApplyDeltas(ctx, tx, req.GroupID, deltas, settlement.SeedMissing)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Delete removes an expense, subtracts its contributions back out of the
// group's ledger, and replaces the group's repayments. A contributor with
// no ledger row is a consistency fault and aborts the whole operation.
func (s *Service) Delete(ctx context.Context, expenseID, groupID int64) error {
	e, err := s.repo.GetByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if e == nil || e.GroupID != groupID {
		return ErrExpenseNotFound
	}

	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := database.LockGroup(ctx, tx, groupID); err != nil {
			return err
		}

		contributions, err := s.repo.GetContributions(ctx, tx, expenseID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, expenseID); err != nil {
			return err
		}

		deltas := make([]settlement.ContributionDelta, len(contributions))
		for i, c := range contributions {
			deltas[i] = settlement.ContributionDelta{
				UserID:      c.UserID,
				Paid:        -c.Paid,
				ActualShare: -c.ActualShare,
			}
		}
		return s.ledger.ApplyDeltas(ctx, tx, groupID, deltas, settlement.FailMissingCorrupt)
	})
}

// GetByID retrieves an expense with its contributions
func (s *Service) GetByID(ctx context.Context, id int64) (*ExpenseWithContributions, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrExpenseNotFound
	}

	contributions, err := s.repo.GetContributions(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return &ExpenseWithContributions{Expense: e, Contributions: contributions}, nil
}

// ListByGroupID retrieves expenses for a group with pagination
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}
