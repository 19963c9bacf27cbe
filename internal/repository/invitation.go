package repository

import (
	"context"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository/dao"
)

var (
	ErrInvitationNotFound  = dao.ErrInvitationNotFound
	ErrInvitationExhausted = dao.ErrInvitationExhausted
)

type InvitationDAO interface {
	Insert(ctx context.Context, invitation dao.Invitation) (dao.Invitation, error)
	FindByToken(ctx context.Context, token string) (dao.Invitation, error)
	ConsumeUse(ctx context.Context, id uint) error
	ListByLanpaID(ctx context.Context, lanpaID uint) ([]dao.Invitation, error)
}

type InvitationRepository struct {
	dao InvitationDAO
}

func NewInvitationRepository(dao InvitationDAO) *InvitationRepository {
	return &InvitationRepository{
		dao: dao,
	}
}

func (r *InvitationRepository) invitationDaoToDomain(i dao.Invitation) domain.Invitation {
	return domain.Invitation{
		ID:        i.ID,
		LanpaID:   i.LanpaID,
		Token:     i.Token,
		ExpiresAt: i.ExpiresAt,
		MaxUses:   i.MaxUses,
		Uses:      i.Uses,
		CreatedBy: i.CreatedBy,
		CreatedAt: i.CreatedAt,
	}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation domain.Invitation) (domain.Invitation, error) {
	created, err := r.dao.Insert(ctx, dao.Invitation{
		LanpaID:   invitation.LanpaID,
		Token:     invitation.Token,
		ExpiresAt: invitation.ExpiresAt,
		MaxUses:   invitation.MaxUses,
		CreatedBy: invitation.CreatedBy,
	})
	if err != nil {
		return domain.Invitation{}, err
	}

	return r.invitationDaoToDomain(created), nil
}

func (r *InvitationRepository) FindByToken(ctx context.Context, token string) (domain.Invitation, error) {
	invitation, err := r.dao.FindByToken(ctx, token)
	if err != nil {
		return domain.Invitation{}, err
	}

	return r.invitationDaoToDomain(invitation), nil
}

func (r *InvitationRepository) ConsumeUse(ctx context.Context, id uint) error {
	return r.dao.ConsumeUse(ctx, id)
}

func (r *InvitationRepository) ListByLanpaID(ctx context.Context, lanpaID uint) ([]domain.Invitation, error) {
	invitations, err := r.dao.ListByLanpaID(ctx, lanpaID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Invitation, len(invitations))
	for i, inv := range invitations {
		result[i] = r.invitationDaoToDomain(inv)
	}

	return result, nil
}
