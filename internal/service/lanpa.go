package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository"
)

var (
	ErrLanpaNotFound       = repository.ErrLanpaNotFound
	ErrLanpaStatusChanged  = repository.ErrLanpaStatusChanged
	ErrMemberExists        = repository.ErrMemberExists
	ErrMemberNotFound      = repository.ErrMemberNotFound
	ErrDuplicateSuggestion = repository.ErrDuplicateSuggestion
	ErrGameNotFound        = repository.ErrGameNotFound
	ErrInvitationNotFound  = repository.ErrInvitationNotFound
	ErrInvitationExhausted = repository.ErrInvitationExhausted

	ErrUnknownStatus     = errors.New("unknown lanpa status")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrWrongLanpaStatus  = errors.New("operation not allowed in current lanpa status")
	ErrGameNotSuggested  = errors.New("game was not suggested for this lanpa")
	ErrNotInvited        = errors.New("user has no pending invite for this lanpa")
	ErrInvitationExpired = errors.New("invitation has expired")
)

type LanpaRepository interface {
	Create(ctx context.Context, lanpa domain.Lanpa) (domain.Lanpa, error)
	FindByID(ctx context.Context, id uint) (domain.Lanpa, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Lanpa, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) (domain.Lanpa, error)
	UpdateStatus(ctx context.Context, id uint, from, to domain.LanpaStatus, selectedGameID *uint, actualDate *time.Time) (domain.Lanpa, error)
	MarkHistorical(ctx context.Context, id uint) (domain.Lanpa, error)
	AddMember(ctx context.Context, member domain.LanpaMember) (domain.LanpaMember, error)
	FindMember(ctx context.Context, lanpaID, userID uint) (domain.LanpaMember, error)
	UpdateMemberStatus(ctx context.Context, lanpaID, userID uint, status domain.MemberStatus) error
	ListMembers(ctx context.Context, lanpaID uint) ([]domain.LanpaMember, error)
	ListMemberUserIDs(ctx context.Context, lanpaID uint, statuses []domain.MemberStatus) ([]uint, error)
	AddSuggestion(ctx context.Context, suggestion domain.GameSuggestion) (domain.GameSuggestion, error)
	ListSuggestions(ctx context.Context, lanpaID uint) ([]domain.GameSuggestion, error)
	SuggestionExists(ctx context.Context, lanpaID, gameID uint) (bool, error)
	UpsertVote(ctx context.Context, vote domain.GameVote) (domain.GameVote, error)
	ListVotes(ctx context.Context, lanpaID uint) ([]domain.GameVote, error)
}

type LanpaGameRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Game, error)
}

type LanpaUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type LanpaInvitationRepository interface {
	Create(ctx context.Context, invitation domain.Invitation) (domain.Invitation, error)
	FindByToken(ctx context.Context, token string) (domain.Invitation, error)
	ConsumeUse(ctx context.Context, id uint) error
	ListByLanpaID(ctx context.Context, lanpaID uint) ([]domain.Invitation, error)
}

type LanpaService struct {
	repo     LanpaRepository
	gameRepo LanpaGameRepository
	userRepo LanpaUserRepository
	invRepo  LanpaInvitationRepository
	guard    *MembershipGuard
	fanout   Fanout

	rng *rand.Rand
	now func() time.Time
}

func NewLanpaService(repo LanpaRepository, gameRepo LanpaGameRepository, userRepo LanpaUserRepository, invRepo LanpaInvitationRepository, guard *MembershipGuard, fanout Fanout, rng *rand.Rand) *LanpaService {
	return &LanpaService{
		repo:     repo,
		gameRepo: gameRepo,
		userRepo: userRepo,
		invRepo:  invRepo,
		guard:    guard,
		fanout:   fanout,
		rng:      rng,
		now:      time.Now,
	}
}

func (s *LanpaService) CreateLanpa(ctx context.Context, lanpa domain.Lanpa) (domain.Lanpa, error) {
	lanpa.Status = domain.StatusDraft

	created, err := s.repo.Create(ctx, lanpa)
	if err != nil {
		return domain.Lanpa{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *LanpaService) GetLanpas(ctx context.Context, userID uint) ([]domain.Lanpa, error) {
	lanpas, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return lanpas, nil
}

func (s *LanpaService) GetLanpa(ctx context.Context, lanpaID, userID uint) (domain.Lanpa, error) {
	if err := s.guard.RequireMember(ctx, lanpaID, userID); err != nil {
		return domain.Lanpa{}, err
	}

	lanpa, err := s.repo.FindByID(ctx, lanpaID)
	if err != nil {
		return domain.Lanpa{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return lanpa, nil
}

func (s *LanpaService) UpdateLanpa(ctx context.Context, lanpaID, userID uint, fields map[string]any) (domain.Lanpa, error) {
	if err := s.guard.RequireAdmin(ctx, lanpaID, userID); err != nil {
		return domain.Lanpa{}, err
	}

	lanpa, err := s.repo.UpdateFields(ctx, lanpaID, fields)
	if err != nil {
		return domain.Lanpa{}, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}

	return lanpa, nil
}

// RequestTransition moves the lanpa to the requested status if the transition
// table allows it. Entering in_progress from voting_active freezes the game
// vote first; entering in_progress from anywhere stamps the actual date. The
// write is conditional on the current status so concurrent requests cannot
// both win.
func (s *LanpaService) RequestTransition(ctx context.Context, lanpaID uint, requested domain.LanpaStatus, actingUserID uint) (domain.Lanpa, error) {
	lanpa, err := s.repo.FindByID(ctx, lanpaID)
	if err != nil {
		return domain.Lanpa{}, err
	}

	if lanpa.AdminID != actingUserID {
		return domain.Lanpa{}, ErrNotLanpaAdmin
	}

	if !requested.IsValid() {
		return domain.Lanpa{}, ErrUnknownStatus
	}

	if !lanpa.Status.CanTransitionTo(requested) {
		return domain.Lanpa{}, ErrIllegalTransition
	}

	var selectedGameID *uint
	if lanpa.Status == domain.StatusVotingActive && requested == domain.StatusInProgress {
		result, err := s.resolveVotes(ctx, lanpaID)
		if err != nil {
			return domain.Lanpa{}, err
		}
		if result.Winner != nil {
			gameID := result.Winner.GameID
			selectedGameID = &gameID
		}
	}

	var actualDate *time.Time
	if requested == domain.StatusInProgress {
		now := s.now()
		actualDate = &now
	}

	updated, err := s.repo.UpdateStatus(ctx, lanpaID, lanpa.Status, requested, selectedGameID, actualDate)
	if err != nil {
		return domain.Lanpa{}, err
	}

	s.notifyTransition(ctx, updated)

	return updated, nil
}

func (s *LanpaService) resolveVotes(ctx context.Context, lanpaID uint) (domain.VoteResult, error) {
	suggestions, err := s.repo.ListSuggestions(ctx, lanpaID)
	if err != nil {
		return domain.VoteResult{}, fmt.Errorf("s.repo.ListSuggestions -> %w", err)
	}

	votes, err := s.repo.ListVotes(ctx, lanpaID)
	if err != nil {
		return domain.VoteResult{}, fmt.Errorf("s.repo.ListVotes -> %w", err)
	}

	return ResolveGameVote(suggestions, votes, s.rng), nil
}

func (s *LanpaService) notifyTransition(ctx context.Context, lanpa domain.Lanpa) {
	memberIDs, err := s.repo.ListMemberUserIDs(ctx, lanpa.ID,
		[]domain.MemberStatus{domain.MemberConfirmed, domain.MemberAttended})
	if err != nil {
		zap.L().Error("failed to list members for transition fanout",
			zap.Uint("lanpa_id", lanpa.ID), zap.Error(err))
		return
	}

	payload := domain.NotificationPayload{
		Type: domain.NotificationLanpaStatus,
		Data: map[string]any{
			"lanpa_id": lanpa.ID,
			"status":   string(lanpa.Status),
		},
	}

	switch lanpa.Status {
	case domain.StatusVotingGames:
		payload.Title = "Game suggestions open"
		payload.Body = fmt.Sprintf("Suggest games for %q now.", lanpa.Name)
	case domain.StatusVotingActive:
		payload.Title = "Game voting open"
		payload.Body = fmt.Sprintf("Vote for the game to play at %q.", lanpa.Name)
	case domain.StatusInProgress:
		payload.Title = "It's on!"
		payload.Body = fmt.Sprintf("%q has started.", lanpa.Name)
		if lanpa.SelectedGameID != nil {
			payload.Data["selected_game_id"] = *lanpa.SelectedGameID
		}
	case domain.StatusCompleted:
		payload.Title = "Lanpa finished"
		payload.Body = fmt.Sprintf("%q is over. GG!", lanpa.Name)
	default:
		payload.Title = "Lanpa updated"
		payload.Body = fmt.Sprintf("%q went back to planning.", lanpa.Name)
	}

	s.fanout.NotifyMany(ctx, memberIDs, payload)
}

// MarkHistory flags the lanpa as historical and flips confirmed members to
// attended.
func (s *LanpaService) MarkHistory(ctx context.Context, lanpaID, userID uint) (domain.Lanpa, error) {
	if err := s.guard.RequireAdmin(ctx, lanpaID, userID); err != nil {
		return domain.Lanpa{}, err
	}

	lanpa, err := s.repo.MarkHistorical(ctx, lanpaID)
	if err != nil {
		return domain.Lanpa{}, fmt.Errorf("s.repo.MarkHistorical -> %w", err)
	}

	return lanpa, nil
}

func (s *LanpaService) SuggestGame(ctx context.Context, lanpaID, gameID, userID uint) (domain.GameSuggestion, error) {
	if err := s.guard.RequireMember(ctx, lanpaID, userID); err != nil {
		return domain.GameSuggestion{}, err
	}

	lanpa, err := s.repo.FindByID(ctx, lanpaID)
	if err != nil {
		return domain.GameSuggestion{}, err
	}
	if lanpa.Status != domain.StatusVotingGames {
		return domain.GameSuggestion{}, ErrWrongLanpaStatus
	}

	if _, err = s.gameRepo.FindByID(ctx, gameID); err != nil {
		return domain.GameSuggestion{}, err
	}

	suggestion, err := s.repo.AddSuggestion(ctx, domain.GameSuggestion{
		LanpaID:     lanpaID,
		GameID:      gameID,
		SuggestedBy: userID,
	})
	if err != nil {
		return domain.GameSuggestion{}, err
	}

	return suggestion, nil
}

func (s *LanpaService) GetSuggestions(ctx context.Context, lanpaID, userID uint) ([]domain.GameSuggestion, error) {
	if err := s.guard.RequireMember(ctx, lanpaID, userID); err != nil {
		return nil, err
	}

	suggestions, err := s.repo.ListSuggestions(ctx, lanpaID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListSuggestions -> %w", err)
	}

	return suggestions, nil
}

// VoteGame records the member's current game vote. Voting twice replaces the
// earlier vote.
func (s *LanpaService) VoteGame(ctx context.Context, lanpaID, gameID, userID uint) (domain.GameVote, error) {
	if err := s.guard.RequireMember(ctx, lanpaID, userID); err != nil {
		return domain.GameVote{}, err
	}

	lanpa, err := s.repo.FindByID(ctx, lanpaID)
	if err != nil {
		return domain.GameVote{}, err
	}
	if lanpa.Status != domain.StatusVotingActive {
		return domain.GameVote{}, ErrWrongLanpaStatus
	}

	suggested, err := s.repo.SuggestionExists(ctx, lanpaID, gameID)
	if err != nil {
		return domain.GameVote{}, fmt.Errorf("s.repo.SuggestionExists -> %w", err)
	}
	if !suggested {
		return domain.GameVote{}, ErrGameNotSuggested
	}

	vote, err := s.repo.UpsertVote(ctx, domain.GameVote{
		LanpaID: lanpaID,
		UserID:  userID,
		GameID:  gameID,
	})
	if err != nil {
		return domain.GameVote{}, fmt.Errorf("s.repo.UpsertVote -> %w", err)
	}

	return vote, nil
}

// GetVoteResults returns the current tally, descending by count. The winner
// flag reflects the frozen selection on the lanpa, not a fresh random draw.
func (s *LanpaService) GetVoteResults(ctx context.Context, lanpaID, userID uint) ([]domain.GameVoteCount, error) {
	if err := s.guard.RequireMember(ctx, lanpaID, userID); err != nil {
		return nil, err
	}

	lanpa, err := s.repo.FindByID(ctx, lanpaID)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.repo.ListSuggestions(ctx, lanpaID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListSuggestions -> %w", err)
	}

	votes, err := s.repo.ListVotes(ctx, lanpaID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListVotes -> %w", err)
	}

	counts := make(map[uint]int, len(suggestions))
	for _, v := range votes {
		counts[v.GameID]++
	}

	results := make([]domain.GameVoteCount, 0, len(suggestions))
	for _, suggestion := range suggestions {
		row := domain.GameVoteCount{
			GameID: suggestion.GameID,
			Game:   suggestion.Game,
			Votes:  counts[suggestion.GameID],
		}
		if lanpa.SelectedGameID != nil && *lanpa.SelectedGameID == suggestion.GameID {
			row.IsWinner = true
		}
		results = append(results, row)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Votes > results[j].Votes
	})

	return results, nil
}

// SelectGameManually is the admin override for correcting the selected game
// after the event has started. It bypasses the tally but still requires the
// game to have been suggested.
func (s *LanpaService) SelectGameManually(ctx context.Context, lanpaID, gameID, userID uint) (domain.Lanpa, error) {
	if err := s.guard.RequireAdmin(ctx, lanpaID, userID); err != nil {
		return domain.Lanpa{}, err
	}

	lanpa, err := s.repo.FindByID(ctx, lanpaID)
	if err != nil {
		return domain.Lanpa{}, err
	}
	if lanpa.Status != domain.StatusInProgress {
		return domain.Lanpa{}, ErrWrongLanpaStatus
	}

	suggested, err := s.repo.SuggestionExists(ctx, lanpaID, gameID)
	if err != nil {
		return domain.Lanpa{}, fmt.Errorf("s.repo.SuggestionExists -> %w", err)
	}
	if !suggested {
		return domain.Lanpa{}, ErrGameNotSuggested
	}

	updated, err := s.repo.UpdateFields(ctx, lanpaID, map[string]any{"selected_game_id": gameID})
	if err != nil {
		return domain.Lanpa{}, fmt.Errorf("s.repo.UpdateFields -> %w", err)
	}

	memberIDs, err := s.repo.ListMemberUserIDs(ctx, lanpaID,
		[]domain.MemberStatus{domain.MemberConfirmed, domain.MemberAttended})
	if err != nil {
		zap.L().Error("failed to list members for game selection fanout",
			zap.Uint("lanpa_id", lanpaID), zap.Error(err))
		return updated, nil
	}

	s.fanout.NotifyMany(ctx, memberIDs, domain.NotificationPayload{
		Type:  domain.NotificationGameSelected,
		Title: "Game changed",
		Body:  fmt.Sprintf("The admin picked a different game for %q.", updated.Name),
		Data:  map[string]any{"lanpa_id": lanpaID, "selected_game_id": gameID},
	})

	return updated, nil
}

func (s *LanpaService) InviteMember(ctx context.Context, lanpaID, inviteeID, userID uint) (domain.LanpaMember, error) {
	if err := s.guard.RequireAdmin(ctx, lanpaID, userID); err != nil {
		return domain.LanpaMember{}, err
	}

	if _, err := s.userRepo.FindByID(ctx, inviteeID); err != nil {
		return domain.LanpaMember{}, err
	}

	member, err := s.repo.AddMember(ctx, domain.LanpaMember{
		LanpaID:  lanpaID,
		UserID:   inviteeID,
		Status:   domain.MemberInvited,
		JoinedAt: s.now(),
	})
	if err != nil {
		return domain.LanpaMember{}, err
	}

	lanpa, err := s.repo.FindByID(ctx, lanpaID)
	if err == nil {
		s.fanout.Notify(ctx, inviteeID, domain.NotificationPayload{
			Type:  domain.NotificationLanpaInvite,
			Title: "You're invited",
			Body:  fmt.Sprintf("You have been invited to %q.", lanpa.Name),
			Data:  map[string]any{"lanpa_id": lanpaID},
		})
	}

	return member, nil
}

// RespondInvite lets an invited user (or the admin on their behalf) confirm or
// decline. Only the invited status can be responded to; there is no way back
// to invited.
func (s *LanpaService) RespondInvite(ctx context.Context, lanpaID, targetUserID, actingUserID uint, accept bool) error {
	if targetUserID != actingUserID {
		if err := s.guard.RequireAdmin(ctx, lanpaID, actingUserID); err != nil {
			return err
		}
	}

	member, err := s.repo.FindMember(ctx, lanpaID, targetUserID)
	if err != nil {
		return err
	}
	if member.Status != domain.MemberInvited {
		return ErrNotInvited
	}

	status := domain.MemberDeclined
	if accept {
		status = domain.MemberConfirmed
	}

	if err := s.repo.UpdateMemberStatus(ctx, lanpaID, targetUserID, status); err != nil {
		return fmt.Errorf("s.repo.UpdateMemberStatus -> %w", err)
	}

	return nil
}

func (s *LanpaService) GetMembers(ctx context.Context, lanpaID, userID uint) ([]domain.LanpaMember, error) {
	if err := s.guard.RequireMember(ctx, lanpaID, userID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, lanpaID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListMembers -> %w", err)
	}

	return members, nil
}

func (s *LanpaService) CreateInvitation(ctx context.Context, lanpaID, userID uint, validHours int, maxUses *int) (domain.Invitation, error) {
	if err := s.guard.RequireAdmin(ctx, lanpaID, userID); err != nil {
		return domain.Invitation{}, err
	}

	invitation, err := s.invRepo.Create(ctx, domain.Invitation{
		LanpaID:   lanpaID,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(time.Duration(validHours) * time.Hour),
		MaxUses:   maxUses,
		CreatedBy: userID,
	})
	if err != nil {
		return domain.Invitation{}, fmt.Errorf("s.invRepo.Create -> %w", err)
	}

	return invitation, nil
}

// RedeemInvitation joins the caller as a confirmed member. The use counter is
// consumed with a conditional write first so a token cannot be redeemed past
// its cap by concurrent callers.
func (s *LanpaService) RedeemInvitation(ctx context.Context, token string, userID uint) (domain.LanpaMember, error) {
	invitation, err := s.invRepo.FindByToken(ctx, token)
	if err != nil {
		return domain.LanpaMember{}, err
	}

	now := s.now()
	if now.After(invitation.ExpiresAt) {
		return domain.LanpaMember{}, ErrInvitationExpired
	}
	if !invitation.Redeemable(now) {
		return domain.LanpaMember{}, ErrInvitationExhausted
	}

	// Redeeming while already a member must not burn a use.
	if _, err := s.repo.FindMember(ctx, invitation.LanpaID, userID); err == nil {
		return domain.LanpaMember{}, ErrMemberExists
	} else if !errors.Is(err, ErrMemberNotFound) {
		return domain.LanpaMember{}, err
	}

	if err := s.invRepo.ConsumeUse(ctx, invitation.ID); err != nil {
		return domain.LanpaMember{}, err
	}

	member, err := s.repo.AddMember(ctx, domain.LanpaMember{
		LanpaID:  invitation.LanpaID,
		UserID:   userID,
		Status:   domain.MemberConfirmed,
		JoinedAt: now,
	})
	if err != nil {
		return domain.LanpaMember{}, err
	}

	return member, nil
}

func (s *LanpaService) GetInvitations(ctx context.Context, lanpaID, userID uint) ([]domain.Invitation, error) {
	if err := s.guard.RequireAdmin(ctx, lanpaID, userID); err != nil {
		return nil, err
	}

	invitations, err := s.invRepo.ListByLanpaID(ctx, lanpaID)
	if err != nil {
		return nil, fmt.Errorf("s.invRepo.ListByLanpaID -> %w", err)
	}

	return invitations, nil
}
