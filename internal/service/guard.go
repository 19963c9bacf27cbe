package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository"
)

var (
	ErrNotLanpaAdmin  = errors.New("user is not the lanpa admin")
	ErrNotLanpaMember = errors.New("user is not a member of this lanpa")
)

type GuardRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Lanpa, error)
	FindMember(ctx context.Context, lanpaID, userID uint) (domain.LanpaMember, error)
}

// MembershipGuard is the shared authorization predicate for lanpa
// sub-resources. Admins always count as members; invited and declined
// users do not.
type MembershipGuard struct {
	repo GuardRepository
}

func NewMembershipGuard(repo GuardRepository) *MembershipGuard {
	return &MembershipGuard{
		repo: repo,
	}
}

func (g *MembershipGuard) IsAdmin(ctx context.Context, lanpaID, userID uint) (bool, error) {
	lanpa, err := g.repo.FindByID(ctx, lanpaID)
	if err != nil {
		return false, err
	}

	return lanpa.AdminID == userID, nil
}

func (g *MembershipGuard) IsMember(ctx context.Context, lanpaID, userID uint) (bool, error) {
	isAdmin, err := g.IsAdmin(ctx, lanpaID, userID)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}

	member, err := g.repo.FindMember(ctx, lanpaID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("g.repo.FindMember -> %w", err)
	}

	return member.Status.Counts(), nil
}

// RequireAdmin fails with ErrNotLanpaAdmin when the user is not the admin.
// A missing lanpa surfaces as ErrLanpaNotFound, not as an authorization error.
func (g *MembershipGuard) RequireAdmin(ctx context.Context, lanpaID, userID uint) error {
	isAdmin, err := g.IsAdmin(ctx, lanpaID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotLanpaAdmin
	}

	return nil
}

func (g *MembershipGuard) RequireMember(ctx context.Context, lanpaID, userID uint) error {
	isMember, err := g.IsMember(ctx, lanpaID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotLanpaMember
	}

	return nil
}
