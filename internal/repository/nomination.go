package repository

import (
	"context"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository/dao"
)

var (
	ErrNominationNotFound         = dao.ErrNominationNotFound
	ErrNominationFinalized        = dao.ErrNominationFinalized
	ErrDuplicatePendingNomination = dao.ErrDuplicatePendingNomination
)

type NominationDAO interface {
	Insert(ctx context.Context, nomination dao.PunishmentNomination) (dao.PunishmentNomination, error)
	FindByID(ctx context.Context, id uint) (dao.PunishmentNomination, error)
	ListByLanpaID(ctx context.Context, lanpaID uint) ([]dao.PunishmentNomination, error)
	HasPending(ctx context.Context, lanpaID, punishmentID, nominatedUserID uint) (bool, error)
	UpsertVote(ctx context.Context, vote dao.PunishmentVote) (dao.PunishmentVote, error)
	CountVotes(ctx context.Context, nominationID uint) (votesFor, votesAgainst int, err error)
	Finalize(ctx context.Context, id uint, status string, punishment *dao.UserPunishment) error
	ListUserPunishments(ctx context.Context, userID uint) ([]dao.UserPunishment, error)
}

type NominationRepository struct {
	dao NominationDAO
}

func NewNominationRepository(dao NominationDAO) *NominationRepository {
	return &NominationRepository{
		dao: dao,
	}
}

func (r *NominationRepository) nominationDaoToDomain(n dao.PunishmentNomination) domain.PunishmentNomination {
	nomination := domain.PunishmentNomination{
		ID:              n.ID,
		LanpaID:         n.LanpaID,
		PunishmentID:    n.PunishmentID,
		NominatedUserID: n.NominatedUserID,
		NominatedBy:     n.NominatedBy,
		Reason:          n.Reason,
		Status:          domain.NominationStatus(n.Status),
		VotingEndsAt:    n.VotingEndsAt,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       n.UpdatedAt,
	}

	if n.Punishment.ID != 0 {
		punishment := punishmentDaoToDomain(n.Punishment)
		nomination.Punishment = &punishment
	}

	return nomination
}

func (r *NominationRepository) userPunishmentDaoToDomain(p dao.UserPunishment) domain.UserPunishment {
	punishment := domain.UserPunishment{
		ID:           p.ID,
		UserID:       p.UserID,
		LanpaID:      p.LanpaID,
		PunishmentID: p.PunishmentID,
		Note:         p.Note,
		CreatedAt:    p.CreatedAt,
	}

	if p.Punishment.ID != 0 {
		catalog := punishmentDaoToDomain(p.Punishment)
		punishment.Punishment = &catalog
	}

	return punishment
}

func (r *NominationRepository) Create(ctx context.Context, nomination domain.PunishmentNomination) (domain.PunishmentNomination, error) {
	created, err := r.dao.Insert(ctx, dao.PunishmentNomination{
		LanpaID:         nomination.LanpaID,
		PunishmentID:    nomination.PunishmentID,
		NominatedUserID: nomination.NominatedUserID,
		NominatedBy:     nomination.NominatedBy,
		Reason:          nomination.Reason,
		Status:          string(nomination.Status),
		VotingEndsAt:    nomination.VotingEndsAt,
	})
	if err != nil {
		return domain.PunishmentNomination{}, err
	}

	return r.nominationDaoToDomain(created), nil
}

func (r *NominationRepository) FindByID(ctx context.Context, id uint) (domain.PunishmentNomination, error) {
	nomination, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.PunishmentNomination{}, err
	}

	return r.nominationDaoToDomain(nomination), nil
}

func (r *NominationRepository) ListByLanpaID(ctx context.Context, lanpaID uint) ([]domain.PunishmentNomination, error) {
	nominations, err := r.dao.ListByLanpaID(ctx, lanpaID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.PunishmentNomination, len(nominations))
	for i, n := range nominations {
		result[i] = r.nominationDaoToDomain(n)
	}

	return result, nil
}

func (r *NominationRepository) HasPending(ctx context.Context, lanpaID, punishmentID, nominatedUserID uint) (bool, error) {
	return r.dao.HasPending(ctx, lanpaID, punishmentID, nominatedUserID)
}

func (r *NominationRepository) UpsertVote(ctx context.Context, vote domain.PunishmentVote) (domain.PunishmentVote, error) {
	created, err := r.dao.UpsertVote(ctx, dao.PunishmentVote{
		NominationID: vote.NominationID,
		UserID:       vote.UserID,
		Vote:         vote.Vote,
	})
	if err != nil {
		return domain.PunishmentVote{}, err
	}

	return domain.PunishmentVote{
		ID:           created.ID,
		NominationID: created.NominationID,
		UserID:       created.UserID,
		Vote:         created.Vote,
		CreatedAt:    created.CreatedAt,
		UpdatedAt:    created.UpdatedAt,
	}, nil
}

func (r *NominationRepository) CountVotes(ctx context.Context, nominationID uint) (votesFor, votesAgainst int, err error) {
	return r.dao.CountVotes(ctx, nominationID)
}

func (r *NominationRepository) Finalize(ctx context.Context, id uint, status domain.NominationStatus, punishment *domain.UserPunishment) error {
	var record *dao.UserPunishment
	if punishment != nil {
		record = &dao.UserPunishment{
			UserID:       punishment.UserID,
			LanpaID:      punishment.LanpaID,
			PunishmentID: punishment.PunishmentID,
			Note:         punishment.Note,
		}
	}

	return r.dao.Finalize(ctx, id, string(status), record)
}

func (r *NominationRepository) ListUserPunishments(ctx context.Context, userID uint) ([]domain.UserPunishment, error) {
	punishments, err := r.dao.ListUserPunishments(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.UserPunishment, len(punishments))
	for i, p := range punishments {
		result[i] = r.userPunishmentDaoToDomain(p)
	}

	return result, nil
}
