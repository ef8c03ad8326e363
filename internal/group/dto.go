package group

import "time"

// CreateGroupRequest represents the request to create a group. The creator
// is added to the roster automatically.
type CreateGroupRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=255"`
	MemberIDs []int64 `json:"member_ids" validate:"required,min=1"`
}

// GroupResponse represents a group, optionally with its member roster
type GroupResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	CreatedAt string            `json:"created_at"`
	Members   []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents one member of a group
type MemberResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToResponse converts a GroupMember model to a MemberResponse DTO
func (m *GroupMember) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		Username: m.Username,
	}
}
