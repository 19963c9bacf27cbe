package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationExhausted = errors.New("invitation has no uses left")
)

type Invitation struct {
	ID        uint      `gorm:"primaryKey"`
	LanpaID   uint      `gorm:"not null;index"`
	Token     string    `gorm:"unique;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	MaxUses   *int
	Uses      int  `gorm:"not null;default:0"`
	CreatedBy uint `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type InvitationDAO struct {
	db *gorm.DB
}

func NewInvitationDAO(db *gorm.DB) *InvitationDAO {
	return &InvitationDAO{
		db: db,
	}
}

func (d *InvitationDAO) Insert(ctx context.Context, invitation Invitation) (Invitation, error) {
	result := d.db.WithContext(ctx).Create(&invitation)
	if result.Error != nil {
		return Invitation{}, result.Error
	}

	return invitation, nil
}

func (d *InvitationDAO) FindByToken(ctx context.Context, token string) (Invitation, error) {
	var invitation Invitation

	result := d.db.WithContext(ctx).First(&invitation, "token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Invitation{}, ErrInvitationNotFound
		}

		return Invitation{}, result.Error
	}

	return invitation, nil
}

// ConsumeUse increments uses with a guard on max_uses so two concurrent
// redemptions cannot push past the cap.
func (d *InvitationDAO) ConsumeUse(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Model(&Invitation{}).
		Where("id = ? AND (max_uses IS NULL OR uses < max_uses)", id).
		Update("uses", gorm.Expr("uses + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationExhausted
	}

	return nil
}

func (d *InvitationDAO) ListByLanpaID(ctx context.Context, lanpaID uint) ([]Invitation, error) {
	var invitations []Invitation

	result := d.db.WithContext(ctx).
		Where("lanpa_id = ?", lanpaID).
		Order("created_at DESC").
		Find(&invitations)
	if result.Error != nil {
		return nil, result.Error
	}

	return invitations, nil
}
