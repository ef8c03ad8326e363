package group

import (
	"context"
	"errors"
	"testing"
)

// Roster validation runs before any storage access, so a zero-value service
// is enough to exercise it.
func TestCreateRosterValidation(t *testing.T) {
	tests := []struct {
		name      string
		groupName string
		creatorID int64
		memberIDs []int64
		wantErr   error
	}{
		{
			name:      "blank name",
			groupName: "   ",
			creatorID: 1,
			memberIDs: []int64{2},
			wantErr:   ErrBlankName,
		},
		{
			name:      "duplicate members",
			groupName: "trip",
			creatorID: 1,
			memberIDs: []int64{2, 2},
			wantErr:   ErrDuplicateMembers,
		},
		{
			name:      "creator alone",
			groupName: "trip",
			creatorID: 1,
			memberIDs: []int64{},
			wantErr:   ErrTooFewMembers,
		},
		{
			name:      "creator listing only themselves",
			groupName: "trip",
			creatorID: 1,
			memberIDs: []int64{1},
			wantErr:   ErrTooFewMembers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Service{}
			_, err := s.Create(context.Background(), tt.creatorID, &CreateGroupRequest{
				Name:      tt.groupName,
				MemberIDs: tt.memberIDs,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
