package settlement

import (
	"context"
	"database/sql"
	"errors"

	"github.com/arin-r/splitlyx/internal/database"
	"github.com/arin-r/splitlyx/internal/group"
)

// Common errors
var (
	ErrSelfTransaction = errors.New("payer and receiver must be different members")
)

// Service handles settlement business logic: recording direct transactions
// and serving the derived repayment and balance views
type Service struct {
	db        *sql.DB
	repo      *Repository
	groupRepo *group.Repository
	ledger    *Ledger
}

// NewService creates a new settlement service
func NewService(db *sql.DB, repo *Repository, groupRepo *group.Repository, ledger *Ledger) *Service {
	return &Service{
		db:        db,
		repo:      repo,
		groupRepo: groupRepo,
		ledger:    ledger,
	}
}

// RecordTransaction appends a direct payment between two members and
// reworks the group's ledger: the payer's paid total goes up by the amount,
// the receiver's goes down, actual shares stay untouched, and the
// repayment set is re-derived. The whole effect is one transaction under
// the group's lock.
func (s *Service) RecordTransaction(ctx context.Context, groupID int64, req *RecordTransactionRequest) (*RecordedTransaction, error) {
	if req.PayerID == req.ReceiverID {
		return nil, ErrSelfTransaction
	}

	g, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}

	var recorded *RecordedTransaction
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := database.LockGroup(ctx, tx, groupID); err != nil {
			return err
		}

		recorded, err = s.repo.CreateRecordedTransaction(ctx, tx, groupID, req.PayerID, req.ReceiverID, req.Amount)
		if err != nil {
			return err
		}

		deltas := []ContributionDelta{
			{UserID: req.PayerID, Paid: req.Amount},
			{UserID: req.ReceiverID, Paid: -req.Amount},
		}
		return s.ledger.ApplyDeltas(ctx, tx, groupID, deltas, FailMissingMember)
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

// GetSuggestedRepayments returns the group's current repayment set
func (s *Service) GetSuggestedRepayments(ctx context.Context, groupID int64) ([]*Repayment, error) {
	return s.repo.FindRepayments(ctx, groupID)
}

// GetSuggestedRepaymentsForMember returns the repayments in which the
// member is either the payer or the receiver
func (s *Service) GetSuggestedRepaymentsForMember(ctx context.Context, groupID, userID int64) ([]*Repayment, error) {
	return s.repo.FindRepaymentsForUser(ctx, groupID, userID)
}

// GetGroupBalances derives each member's signed balance from the stored
// repayments. Positive means the member owes, negative means they are owed.
func (s *Service) GetGroupBalances(ctx context.Context, groupID int64) ([]*MemberBalance, error) {
	repayments, err := s.repo.FindRepayments(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return aggregateBalances(repayments), nil
}

// GetRecordedTransactions returns the group's direct-payment log
func (s *Service) GetRecordedTransactions(ctx context.Context, groupID int64) ([]*RecordedTransaction, error) {
	return s.repo.FindRecordedTransactions(ctx, groupID)
}

// aggregateBalances folds repayments into per-member signed balances:
// each repayment adds its amount to the payer and subtracts it from the
// receiver. Members appear in first-seen order.
func aggregateBalances(repayments []*Repayment) []*MemberBalance {
	balances := []*MemberBalance{}
	index := map[int64]int{}

	add := func(userID int64, username string, amount float64) {
		if i, ok := index[userID]; ok {
			balances[i].Balance += amount
			return
		}
		index[userID] = len(balances)
		balances = append(balances, &MemberBalance{
			UserID:   userID,
			Username: username,
			Balance:  amount,
		})
	}

	for _, rep := range repayments {
		add(rep.PayerID, rep.PayerUsername, rep.Amount)
		add(rep.ReceiverID, rep.ReceiverUsername, -rep.Amount)
	}
	return balances
}
