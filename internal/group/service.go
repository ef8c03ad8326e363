package group

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/arin-r/splitlyx/internal/database"
)

// Common errors
var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrBlankName        = errors.New("group name should be non empty")
	ErrDuplicateMembers = errors.New("all members should be unique")
	ErrTooFewMembers    = errors.New("a group needs at least two members")
	ErrUnknownMembers   = errors.New("one or more member IDs do not exist")
)

// Service handles group business logic
type Service struct {
	db   *sql.DB
	repo *Repository
}

// NewService creates a new group service
func NewService(db *sql.DB, repo *Repository) *Service {
	return &Service{db: db, repo: repo}
}

// Create creates a group with the given members plus the creator. Members
// must be unique and the final roster needs at least two people.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrBlankName
	}

	seen := map[int64]bool{creatorID: true}
	roster := []int64{creatorID}
	for _, id := range req.MemberIDs {
		if seen[id] {
			if id == creatorID {
				continue
			}
			return nil, ErrDuplicateMembers
		}
		seen[id] = true
		roster = append(roster, id)
	}
	if len(roster) < 2 {
		return nil, ErrTooFewMembers
	}

	count, err := s.repo.CountUsers(ctx, roster)
	if err != nil {
		return nil, err
	}
	if count != len(roster) {
		return nil, ErrUnknownMembers
	}

	var created *Group
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		created, err = s.repo.Create(ctx, tx, req.Name)
		if err != nil {
			return err
		}
		return s.repo.AddMembers(ctx, tx, created.ID, roster)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByIDWithMembers retrieves a group and its roster
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*GroupMember, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, ErrGroupNotFound
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return g, members, nil
}

// ListByUserID retrieves all groups the user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Delete removes a group and all of its dependent data in one transaction
func (s *Service) Delete(ctx context.Context, id int64) error {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGroupNotFound
	}

	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := database.LockGroup(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.DeleteCascade(ctx, tx, id)
	})
}
