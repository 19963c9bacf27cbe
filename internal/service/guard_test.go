package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanpahub/lanpa-api/internal/domain"
)

func TestMembershipGuard(t *testing.T) {
	store := newFakeStore()
	guard := NewMembershipGuard(store)

	admin := store.addUser(domain.User{Username: "admin"})
	confirmed := store.addUser(domain.User{Username: "confirmed"})
	invited := store.addUser(domain.User{Username: "invited"})
	declined := store.addUser(domain.User{Username: "declined"})
	attended := store.addUser(domain.User{Username: "attended"})
	stranger := store.addUser(domain.User{Username: "stranger"})

	lanpa := store.addLanpa(domain.Lanpa{Name: "Friday Night", AdminID: admin.ID, Status: domain.StatusDraft})
	store.addMember(lanpa.ID, confirmed.ID, domain.MemberConfirmed)
	store.addMember(lanpa.ID, invited.ID, domain.MemberInvited)
	store.addMember(lanpa.ID, declined.ID, domain.MemberDeclined)
	store.addMember(lanpa.ID, attended.ID, domain.MemberAttended)

	cases := []struct {
		name     string
		userID   uint
		isMember bool
	}{
		{"admin counts as member", admin.ID, true},
		{"confirmed counts", confirmed.ID, true},
		{"attended counts", attended.ID, true},
		{"invited does not count", invited.ID, false},
		{"declined does not count", declined.ID, false},
		{"stranger does not count", stranger.ID, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			isMember, err := guard.IsMember(context.Background(), lanpa.ID, tc.userID)
			require.NoError(t, err)
			assert.Equal(t, tc.isMember, isMember)
		})
	}

	assert.NoError(t, guard.RequireAdmin(context.Background(), lanpa.ID, admin.ID))
	assert.ErrorIs(t, guard.RequireAdmin(context.Background(), lanpa.ID, confirmed.ID), ErrNotLanpaAdmin)
	assert.ErrorIs(t, guard.RequireMember(context.Background(), lanpa.ID, stranger.ID), ErrNotLanpaMember)
}

func TestMembershipGuard_MissingLanpaIsNotAnAuthorizationAnswer(t *testing.T) {
	store := newFakeStore()
	guard := NewMembershipGuard(store)

	_, err := guard.IsMember(context.Background(), 999, 1)
	assert.ErrorIs(t, err, ErrLanpaNotFound)

	err = guard.RequireAdmin(context.Background(), 999, 1)
	assert.ErrorIs(t, err, ErrLanpaNotFound)
}
