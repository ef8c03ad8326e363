package group

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/arin-r/splitlyx/internal/database"
)

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group
func (r *Repository) Create(ctx context.Context, q database.DBTX, name string) (*Group, error) {
	query := `
		INSERT INTO groups (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`

	g := &Group{}
	if err := q.QueryRowContext(ctx, query, name).Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return g, nil
}

// AddMembers inserts roster rows for the given users
func (r *Repository) AddMembers(ctx context.Context, q database.DBTX, groupID int64, userIDs []int64) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
	`
	for _, userID := range userIDs {
		if _, err := q.ExecContext(ctx, query, groupID, userID); err != nil {
			return fmt.Errorf("failed to add member %d: %w", userID, err)
		}
	}
	return nil
}

// CountUsers returns how many of the given user IDs exist
func (r *Repository) CountUsers(ctx context.Context, userIDs []int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE id = ANY($1)`
	if err := r.db.QueryRowContext(ctx, query, pq.Array(userIDs)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, name, created_at
		FROM groups
		WHERE id = $1
	`

	g := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// GetMembers retrieves the group's roster with usernames
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	query := `
		SELECT gm.group_id, gm.user_id, u.username
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY u.username
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		m := &GroupMember{}
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Username); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListByUserID retrieves all groups the user belongs to
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Group, error) {
	query := `
		SELECT g.id, g.name, g.created_at
		FROM groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g := &Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteCascade removes the group and everything hanging off it: expenses
// with their contributions, the net contribution ledger, the transaction
// log, the repayments, and the roster.
func (r *Repository) DeleteCascade(ctx context.Context, q database.DBTX, groupID int64) error {
	statements := []string{
		`DELETE FROM expense_contributions WHERE expense_id IN (SELECT id FROM expenses WHERE group_id = $1)`,
		`DELETE FROM expenses WHERE group_id = $1`,
		`DELETE FROM net_contributions WHERE group_id = $1`,
		`DELETE FROM recorded_transactions WHERE group_id = $1`,
		`DELETE FROM repayments WHERE group_id = $1`,
		`DELETE FROM group_members WHERE group_id = $1`,
		`DELETE FROM groups WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := q.ExecContext(ctx, stmt, groupID); err != nil {
			return fmt.Errorf("failed to delete group data: %w", err)
		}
	}
	return nil
}
