package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanpahub/lanpa-api/internal/domain"
)

func newLanpaServiceForTest(store *fakeStore) (*LanpaService, *fakeFanout) {
	fanout := newFakeFanout()
	svc := NewLanpaService(store, &fakeGameRepo{store}, &fakeUserRepo{store},
		&fakeInvitationRepo{store}, NewMembershipGuard(store), fanout,
		rand.New(rand.NewSource(1)))
	return svc, fanout
}

// seedLanpa creates a lanpa with an admin (user 1) and one confirmed member
// (user 2).
func seedLanpa(store *fakeStore, status domain.LanpaStatus) domain.Lanpa {
	admin := store.addUser(domain.User{Username: "admin"})
	member := store.addUser(domain.User{Username: "member"})
	lanpa := store.addLanpa(domain.Lanpa{Name: "Friday Night", AdminID: admin.ID, Status: status})
	store.addMember(lanpa.ID, member.ID, domain.MemberConfirmed)
	return lanpa
}

func TestRequestTransition_Table(t *testing.T) {
	statuses := []domain.LanpaStatus{
		domain.StatusDraft,
		domain.StatusVotingGames,
		domain.StatusVotingActive,
		domain.StatusInProgress,
		domain.StatusCompleted,
	}
	allowed := map[domain.LanpaStatus][]domain.LanpaStatus{
		domain.StatusDraft:        {domain.StatusVotingGames, domain.StatusInProgress},
		domain.StatusVotingGames:  {domain.StatusVotingActive, domain.StatusDraft},
		domain.StatusVotingActive: {domain.StatusInProgress, domain.StatusVotingGames},
		domain.StatusInProgress:   {domain.StatusCompleted},
		domain.StatusCompleted:    {},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			from, to := from, to
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				store := newFakeStore()
				svc, _ := newLanpaServiceForTest(store)
				lanpa := seedLanpa(store, from)

				updated, err := svc.RequestTransition(context.Background(), lanpa.ID, to, lanpa.AdminID)

				legal := false
				for _, s := range allowed[from] {
					if s == to {
						legal = true
					}
				}
				if legal {
					require.NoError(t, err)
					assert.Equal(t, to, updated.Status)
				} else {
					assert.ErrorIs(t, err, ErrIllegalTransition)
				}
			})
		}
	}
}

func TestRequestTransition_UnknownStatus(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)

	_, err := svc.RequestTransition(context.Background(), lanpa.ID, "partying", lanpa.AdminID)

	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestRequestTransition_OnlyAdmin(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)

	_, err := svc.RequestTransition(context.Background(), lanpa.ID, domain.StatusVotingGames, lanpa.AdminID+1)

	assert.ErrorIs(t, err, ErrNotLanpaAdmin)
}

func TestRequestTransition_FreezesVoteOnStart(t *testing.T) {
	store := newFakeStore()
	svc, fanout := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusVotingActive)
	gameA := store.addGame(domain.Game{Name: "Quake"})
	gameB := store.addGame(domain.Game{Name: "Trackmania"})
	store.suggestions[lanpa.ID] = []domain.GameSuggestion{
		{LanpaID: lanpa.ID, GameID: gameA.ID},
		{LanpaID: lanpa.ID, GameID: gameB.ID},
	}
	store.votes[lanpa.ID] = []domain.GameVote{
		{LanpaID: lanpa.ID, GameID: gameA.ID, UserID: 10},
		{LanpaID: lanpa.ID, GameID: gameA.ID, UserID: 11},
		{LanpaID: lanpa.ID, GameID: gameA.ID, UserID: 12},
		{LanpaID: lanpa.ID, GameID: gameB.ID, UserID: 13},
	}

	updated, err := svc.RequestTransition(context.Background(), lanpa.ID, domain.StatusInProgress, lanpa.AdminID)

	require.NoError(t, err)
	require.NotNil(t, updated.SelectedGameID)
	assert.Equal(t, gameA.ID, *updated.SelectedGameID)
	require.NotNil(t, updated.ActualDate)

	// Confirmed members hear about the start.
	notifications := fanout.received(2)
	require.NotEmpty(t, notifications)
	assert.Equal(t, domain.NotificationLanpaStatus, notifications[0].Type)
}

func TestRequestTransition_DirectStartSkipsVote(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)

	updated, err := svc.RequestTransition(context.Background(), lanpa.ID, domain.StatusInProgress, lanpa.AdminID)

	require.NoError(t, err)
	assert.Nil(t, updated.SelectedGameID)
	require.NotNil(t, updated.ActualDate)
}

func TestSuggestGame(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusVotingGames)
	game := store.addGame(domain.Game{Name: "Quake"})

	suggestion, err := svc.SuggestGame(context.Background(), lanpa.ID, game.ID, 2)

	require.NoError(t, err)
	assert.Equal(t, game.ID, suggestion.GameID)
	assert.Equal(t, uint(2), suggestion.SuggestedBy)

	_, err = svc.SuggestGame(context.Background(), lanpa.ID, game.ID, 1)
	assert.ErrorIs(t, err, ErrDuplicateSuggestion)
}

func TestSuggestGame_WrongStatus(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)
	game := store.addGame(domain.Game{Name: "Quake"})

	_, err := svc.SuggestGame(context.Background(), lanpa.ID, game.ID, 2)

	assert.ErrorIs(t, err, ErrWrongLanpaStatus)
}

func TestSuggestGame_UnknownGame(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusVotingGames)

	_, err := svc.SuggestGame(context.Background(), lanpa.ID, 999, 2)

	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestSuggestGame_InvitedUserIsNotAMember(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusVotingGames)
	game := store.addGame(domain.Game{Name: "Quake"})
	outsider := store.addUser(domain.User{Username: "invited"})
	store.addMember(lanpa.ID, outsider.ID, domain.MemberInvited)

	_, err := svc.SuggestGame(context.Background(), lanpa.ID, game.ID, outsider.ID)

	assert.ErrorIs(t, err, ErrNotLanpaMember)
}

func TestVoteGame_ReplacesPreviousVote(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusVotingActive)
	gameA := store.addGame(domain.Game{Name: "Quake"})
	gameB := store.addGame(domain.Game{Name: "Trackmania"})
	store.suggestions[lanpa.ID] = []domain.GameSuggestion{
		{LanpaID: lanpa.ID, GameID: gameA.ID},
		{LanpaID: lanpa.ID, GameID: gameB.ID},
	}

	_, err := svc.VoteGame(context.Background(), lanpa.ID, gameA.ID, 2)
	require.NoError(t, err)
	_, err = svc.VoteGame(context.Background(), lanpa.ID, gameB.ID, 2)
	require.NoError(t, err)

	votes, err := store.ListVotes(context.Background(), lanpa.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1, "re-voting must replace, not stack")
	assert.Equal(t, gameB.ID, votes[0].GameID)
}

func TestVoteGame_RejectsUnsuggestedGame(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusVotingActive)
	game := store.addGame(domain.Game{Name: "Quake"})

	_, err := svc.VoteGame(context.Background(), lanpa.ID, game.ID, 2)

	assert.ErrorIs(t, err, ErrGameNotSuggested)
}

func TestVoteGame_WrongStatus(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusVotingGames)
	game := store.addGame(domain.Game{Name: "Quake"})
	store.suggestions[lanpa.ID] = []domain.GameSuggestion{{LanpaID: lanpa.ID, GameID: game.ID}}

	_, err := svc.VoteGame(context.Background(), lanpa.ID, game.ID, 2)

	assert.ErrorIs(t, err, ErrWrongLanpaStatus)
}

func TestGetVoteResults_ReflectsFrozenSelection(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusVotingActive)
	gameA := store.addGame(domain.Game{Name: "Quake"})
	gameB := store.addGame(domain.Game{Name: "Trackmania"})
	store.suggestions[lanpa.ID] = []domain.GameSuggestion{
		{LanpaID: lanpa.ID, GameID: gameA.ID},
		{LanpaID: lanpa.ID, GameID: gameB.ID},
	}
	store.votes[lanpa.ID] = []domain.GameVote{
		{LanpaID: lanpa.ID, GameID: gameB.ID, UserID: 10},
		{LanpaID: lanpa.ID, GameID: gameB.ID, UserID: 11},
		{LanpaID: lanpa.ID, GameID: gameA.ID, UserID: 12},
	}

	_, err := svc.RequestTransition(context.Background(), lanpa.ID, domain.StatusInProgress, lanpa.AdminID)
	require.NoError(t, err)

	results, err := svc.GetVoteResults(context.Background(), lanpa.ID, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, gameB.ID, results[0].GameID)
	assert.Equal(t, 2, results[0].Votes)
	assert.True(t, results[0].IsWinner)
	assert.False(t, results[1].IsWinner)
}

func TestSelectGameManually(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusInProgress)
	game := store.addGame(domain.Game{Name: "Quake"})
	store.suggestions[lanpa.ID] = []domain.GameSuggestion{{LanpaID: lanpa.ID, GameID: game.ID}}

	updated, err := svc.SelectGameManually(context.Background(), lanpa.ID, game.ID, lanpa.AdminID)

	require.NoError(t, err)
	require.NotNil(t, updated.SelectedGameID)
	assert.Equal(t, game.ID, *updated.SelectedGameID)

	_, err = svc.SelectGameManually(context.Background(), lanpa.ID, game.ID, 2)
	assert.ErrorIs(t, err, ErrNotLanpaAdmin)
}

func TestSelectGameManually_OnlyWhileInProgress(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusVotingActive)
	game := store.addGame(domain.Game{Name: "Quake"})
	store.suggestions[lanpa.ID] = []domain.GameSuggestion{{LanpaID: lanpa.ID, GameID: game.ID}}

	_, err := svc.SelectGameManually(context.Background(), lanpa.ID, game.ID, lanpa.AdminID)

	assert.ErrorIs(t, err, ErrWrongLanpaStatus)
}

func TestInviteMember(t *testing.T) {
	store := newFakeStore()
	svc, fanout := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)
	invitee := store.addUser(domain.User{Username: "newcomer"})

	member, err := svc.InviteMember(context.Background(), lanpa.ID, invitee.ID, lanpa.AdminID)

	require.NoError(t, err)
	assert.Equal(t, domain.MemberInvited, member.Status)

	notifications := fanout.received(invitee.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationLanpaInvite, notifications[0].Type)

	_, err = svc.InviteMember(context.Background(), lanpa.ID, invitee.ID, lanpa.AdminID)
	assert.ErrorIs(t, err, ErrMemberExists)
}

func TestInviteMember_UnknownUser(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)

	_, err := svc.InviteMember(context.Background(), lanpa.ID, 999, lanpa.AdminID)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRespondInvite(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)
	invitee := store.addUser(domain.User{Username: "newcomer"})
	store.addMember(lanpa.ID, invitee.ID, domain.MemberInvited)

	err := svc.RespondInvite(context.Background(), lanpa.ID, invitee.ID, invitee.ID, true)

	require.NoError(t, err)
	member, err := store.FindMember(context.Background(), lanpa.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberConfirmed, member.Status)

	// No way back to invited, so a second response is rejected.
	err = svc.RespondInvite(context.Background(), lanpa.ID, invitee.ID, invitee.ID, false)
	assert.ErrorIs(t, err, ErrNotInvited)
}

func TestRespondInvite_Decline(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)
	invitee := store.addUser(domain.User{Username: "newcomer"})
	store.addMember(lanpa.ID, invitee.ID, domain.MemberInvited)

	err := svc.RespondInvite(context.Background(), lanpa.ID, invitee.ID, invitee.ID, false)

	require.NoError(t, err)
	member, err := store.FindMember(context.Background(), lanpa.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberDeclined, member.Status)
}

func TestRespondInvite_OnlySelfOrAdmin(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)
	invitee := store.addUser(domain.User{Username: "newcomer"})
	stranger := store.addUser(domain.User{Username: "stranger"})
	store.addMember(lanpa.ID, invitee.ID, domain.MemberInvited)

	err := svc.RespondInvite(context.Background(), lanpa.ID, invitee.ID, stranger.ID, true)
	assert.ErrorIs(t, err, ErrNotLanpaAdmin)

	// Admin can respond on the invitee's behalf.
	err = svc.RespondInvite(context.Background(), lanpa.ID, invitee.ID, lanpa.AdminID, true)
	assert.NoError(t, err)
}

func TestMarkHistory(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusCompleted)

	updated, err := svc.MarkHistory(context.Background(), lanpa.ID, lanpa.AdminID)

	require.NoError(t, err)
	assert.True(t, updated.IsHistorical)

	member, err := store.FindMember(context.Background(), lanpa.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberAttended, member.Status)
}

func TestInvitationLifecycle(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)
	joiner := store.addUser(domain.User{Username: "joiner"})

	maxUses := 1
	invitation, err := svc.CreateInvitation(context.Background(), lanpa.ID, lanpa.AdminID, 24, &maxUses)
	require.NoError(t, err)
	require.NotEmpty(t, invitation.Token)

	member, err := svc.RedeemInvitation(context.Background(), invitation.Token, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MemberConfirmed, member.Status)
	assert.Equal(t, lanpa.ID, member.LanpaID)

	// The single use is consumed.
	late := store.addUser(domain.User{Username: "late"})
	_, err = svc.RedeemInvitation(context.Background(), invitation.Token, late.ID)
	assert.ErrorIs(t, err, ErrInvitationExhausted)
}

func TestRedeemInvitation_ExistingMemberDoesNotBurnUse(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)
	joiner := store.addUser(domain.User{Username: "joiner"})

	maxUses := 2
	invitation, err := svc.CreateInvitation(context.Background(), lanpa.ID, lanpa.AdminID, 24, &maxUses)
	require.NoError(t, err)

	_, err = svc.RedeemInvitation(context.Background(), invitation.Token, joiner.ID)
	require.NoError(t, err)

	_, err = svc.RedeemInvitation(context.Background(), invitation.Token, joiner.ID)
	assert.ErrorIs(t, err, ErrMemberExists)

	// The failed redeem did not spend the second use.
	late := store.addUser(domain.User{Username: "late"})
	_, err = svc.RedeemInvitation(context.Background(), invitation.Token, late.ID)
	assert.NoError(t, err)
}

func TestRedeemInvitation_Expired(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	lanpa := seedLanpa(store, domain.StatusDraft)
	joiner := store.addUser(domain.User{Username: "joiner"})

	invitation, err := svc.CreateInvitation(context.Background(), lanpa.ID, lanpa.AdminID, 1, nil)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.RedeemInvitation(context.Background(), invitation.Token, joiner.ID)
	assert.ErrorIs(t, err, ErrInvitationExpired)
}

func TestCreateLanpa_AlwaysStartsAsDraft(t *testing.T) {
	store := newFakeStore()
	svc, _ := newLanpaServiceForTest(store)
	admin := store.addUser(domain.User{Username: "admin"})

	lanpa, err := svc.CreateLanpa(context.Background(), domain.Lanpa{
		Name:    "Friday Night",
		AdminID: admin.ID,
		Status:  domain.StatusInProgress,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, lanpa.Status)
}
