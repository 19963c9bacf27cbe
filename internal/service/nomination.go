package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository"
)

const (
	MinVotingHours = 1
	MaxVotingHours = 168
)

var (
	ErrNominationNotFound         = repository.ErrNominationNotFound
	ErrNominationFinalized        = repository.ErrNominationFinalized
	ErrPunishmentNotFound         = repository.ErrPunishmentNotFound
	ErrDuplicatePendingNomination = repository.ErrDuplicatePendingNomination

	ErrNomineeNotMember    = errors.New("nominated user is not a member of this lanpa")
	ErrInvalidVotingWindow = errors.New("voting window must be between 1 and 168 hours")
	ErrSelfVote            = errors.New("nominee may not vote on their own nomination")
	ErrVotingClosed        = errors.New("voting is closed")
	ErrVotingNotEnded      = errors.New("voting period has not ended")
)

type NominationRepository interface {
	Create(ctx context.Context, nomination domain.PunishmentNomination) (domain.PunishmentNomination, error)
	FindByID(ctx context.Context, id uint) (domain.PunishmentNomination, error)
	ListByLanpaID(ctx context.Context, lanpaID uint) ([]domain.PunishmentNomination, error)
	HasPending(ctx context.Context, lanpaID, punishmentID, nominatedUserID uint) (bool, error)
	UpsertVote(ctx context.Context, vote domain.PunishmentVote) (domain.PunishmentVote, error)
	CountVotes(ctx context.Context, nominationID uint) (votesFor, votesAgainst int, err error)
	Finalize(ctx context.Context, id uint, status domain.NominationStatus, punishment *domain.UserPunishment) error
	ListUserPunishments(ctx context.Context, userID uint) ([]domain.UserPunishment, error)
}

type NominationPunishmentRepository interface {
	FindPunishmentByID(ctx context.Context, id uint) (domain.Punishment, error)
}

type NominationMemberRepository interface {
	ListMemberUserIDs(ctx context.Context, lanpaID uint, statuses []domain.MemberStatus) ([]uint, error)
}

type NominationService struct {
	repo       NominationRepository
	catalog    NominationPunishmentRepository
	memberRepo NominationMemberRepository
	guard      *MembershipGuard
	fanout     Fanout

	now func() time.Time
}

func NewNominationService(repo NominationRepository, catalog NominationPunishmentRepository, memberRepo NominationMemberRepository, guard *MembershipGuard, fanout Fanout) *NominationService {
	return &NominationService{
		repo:       repo,
		catalog:    catalog,
		memberRepo: memberRepo,
		guard:      guard,
		fanout:     fanout,
		now:        time.Now,
	}
}

// CreateNomination opens a voting window on a peer punishment. Both nominator
// and nominee must be members; at most one pending nomination may exist per
// (lanpa, punishment, nominee) tuple.
func (s *NominationService) CreateNomination(ctx context.Context, lanpaID, punishmentID, nominatedUserID, nominatorID uint, reason string, votingHours int) (domain.PunishmentNomination, error) {
	if votingHours < MinVotingHours || votingHours > MaxVotingHours {
		return domain.PunishmentNomination{}, ErrInvalidVotingWindow
	}

	if err := s.guard.RequireMember(ctx, lanpaID, nominatorID); err != nil {
		return domain.PunishmentNomination{}, err
	}

	nomineeIsMember, err := s.guard.IsMember(ctx, lanpaID, nominatedUserID)
	if err != nil {
		return domain.PunishmentNomination{}, err
	}
	if !nomineeIsMember {
		return domain.PunishmentNomination{}, ErrNomineeNotMember
	}

	punishment, err := s.catalog.FindPunishmentByID(ctx, punishmentID)
	if err != nil {
		return domain.PunishmentNomination{}, err
	}

	pending, err := s.repo.HasPending(ctx, lanpaID, punishmentID, nominatedUserID)
	if err != nil {
		return domain.PunishmentNomination{}, fmt.Errorf("s.repo.HasPending -> %w", err)
	}
	if pending {
		return domain.PunishmentNomination{}, ErrDuplicatePendingNomination
	}

	nomination, err := s.repo.Create(ctx, domain.PunishmentNomination{
		LanpaID:         lanpaID,
		PunishmentID:    punishmentID,
		NominatedUserID: nominatedUserID,
		NominatedBy:     nominatorID,
		Reason:          reason,
		Status:          domain.NominationPending,
		VotingEndsAt:    s.now().Add(time.Duration(votingHours) * time.Hour),
	})
	if err != nil {
		return domain.PunishmentNomination{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.notifyNomination(ctx, nomination, punishment)

	return nomination, nil
}

func (s *NominationService) notifyNomination(ctx context.Context, nomination domain.PunishmentNomination, punishment domain.Punishment) {
	data := map[string]any{
		"nomination_id": nomination.ID,
		"lanpa_id":      nomination.LanpaID,
	}

	s.fanout.Notify(ctx, nomination.NominatedUserID, domain.NotificationPayload{
		Type:  domain.NotificationNominationCreated,
		Title: "You've been nominated",
		Body:  fmt.Sprintf("Someone nominated you for %q. The vote is on.", punishment.Name),
		Data:  data,
	})

	memberIDs, err := s.memberRepo.ListMemberUserIDs(ctx, nomination.LanpaID,
		[]domain.MemberStatus{domain.MemberConfirmed, domain.MemberAttended})
	if err != nil {
		return
	}

	broadcast := make([]uint, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != nomination.NominatedUserID {
			broadcast = append(broadcast, id)
		}
	}

	s.fanout.NotifyMany(ctx, broadcast, domain.NotificationPayload{
		Type:  domain.NotificationNominationCreated,
		Title: "Punishment vote open",
		Body:  fmt.Sprintf("A member was nominated for %q. Cast your vote.", punishment.Name),
		Data:  data,
	})
}

// CastVote records a guilty/innocent ballot. Re-voting overwrites; the
// nominee may not vote on their own nomination.
func (s *NominationService) CastVote(ctx context.Context, nominationID, voterID uint, vote bool) (domain.PunishmentVote, error) {
	nomination, err := s.repo.FindByID(ctx, nominationID)
	if err != nil {
		return domain.PunishmentVote{}, err
	}

	if !nomination.VotingOpen(s.now()) {
		return domain.PunishmentVote{}, ErrVotingClosed
	}

	if err := s.guard.RequireMember(ctx, nomination.LanpaID, voterID); err != nil {
		return domain.PunishmentVote{}, err
	}

	if voterID == nomination.NominatedUserID {
		return domain.PunishmentVote{}, ErrSelfVote
	}

	ballot, err := s.repo.UpsertVote(ctx, domain.PunishmentVote{
		NominationID: nominationID,
		UserID:       voterID,
		Vote:         vote,
	})
	if err != nil {
		return domain.PunishmentVote{}, fmt.Errorf("s.repo.UpsertVote -> %w", err)
	}

	return ballot, nil
}

// Finalize tallies a nomination after its voting deadline. Any authenticated
// caller may trigger it; there is no scheduler. A strict majority
// of guilty votes approves; ties reject. Approval appends the durable
// punishment record atomically with the status flip, so concurrent finalize
// calls apply at most one punishment.
func (s *NominationService) Finalize(ctx context.Context, nominationID uint) (domain.NominationOutcome, error) {
	nomination, err := s.repo.FindByID(ctx, nominationID)
	if err != nil {
		return domain.NominationOutcome{}, err
	}

	if nomination.Status != domain.NominationPending {
		return domain.NominationOutcome{}, ErrNominationFinalized
	}

	if s.now().Before(nomination.VotingEndsAt) {
		return domain.NominationOutcome{}, ErrVotingNotEnded
	}

	votesFor, votesAgainst, err := s.repo.CountVotes(ctx, nominationID)
	if err != nil {
		return domain.NominationOutcome{}, fmt.Errorf("s.repo.CountVotes -> %w", err)
	}

	status := domain.NominationRejected
	var record *domain.UserPunishment
	if votesFor > votesAgainst {
		status = domain.NominationApproved
		record = &domain.UserPunishment{
			UserID:       nomination.NominatedUserID,
			LanpaID:      nomination.LanpaID,
			PunishmentID: nomination.PunishmentID,
			Note:         fmt.Sprintf("approved by member vote (%d for, %d against)", votesFor, votesAgainst),
		}
	}

	if err := s.repo.Finalize(ctx, nominationID, status, record); err != nil {
		return domain.NominationOutcome{}, err
	}

	outcome := domain.NominationOutcome{
		Status:            status,
		VotesFor:          votesFor,
		VotesAgainst:      votesAgainst,
		PunishmentApplied: record != nil,
	}

	title := "Nomination rejected"
	body := "The vote went in your favor."
	if status == domain.NominationApproved {
		title = "Nomination approved"
		body = "The members have spoken. Punishment applies."
	}

	s.fanout.Notify(ctx, nomination.NominatedUserID, domain.NotificationPayload{
		Type:  domain.NotificationNominationResult,
		Title: title,
		Body:  body,
		Data: map[string]any{
			"nomination_id": nominationID,
			"status":        string(status),
			"votes_for":     votesFor,
			"votes_against": votesAgainst,
		},
	})

	return outcome, nil
}

func (s *NominationService) GetNominations(ctx context.Context, lanpaID, userID uint) ([]domain.PunishmentNomination, error) {
	if err := s.guard.RequireMember(ctx, lanpaID, userID); err != nil {
		return nil, err
	}

	nominations, err := s.repo.ListByLanpaID(ctx, lanpaID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByLanpaID -> %w", err)
	}

	return nominations, nil
}

func (s *NominationService) GetUserPunishments(ctx context.Context, userID uint) ([]domain.UserPunishment, error) {
	punishments, err := s.repo.ListUserPunishments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListUserPunishments -> %w", err)
	}

	return punishments, nil
}
