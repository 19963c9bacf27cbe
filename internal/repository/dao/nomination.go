package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNominationNotFound         = errors.New("nomination not found")
	ErrNominationFinalized        = errors.New("nomination already finalized")
	ErrDuplicatePendingNomination = errors.New("a pending nomination for this punishment and user already exists")
)

// The partial unique index lets finalized nominations for the same tuple
// accumulate while pinning pending ones to a single row.
type PunishmentNomination struct {
	ID              uint `gorm:"primaryKey"`
	LanpaID         uint `gorm:"not null;uniqueIndex:idx_nominations_one_pending,where:status = 'pending'"`
	PunishmentID    uint `gorm:"not null;uniqueIndex:idx_nominations_one_pending,where:status = 'pending'"`
	NominatedUserID uint `gorm:"not null;index;uniqueIndex:idx_nominations_one_pending,where:status = 'pending'"`
	NominatedBy     uint `gorm:"not null"`
	Reason          string
	Status          string    `gorm:"not null;index"`
	VotingEndsAt    time.Time `gorm:"not null"`

	Punishment Punishment `gorm:"foreignKey:PunishmentID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PunishmentVote struct {
	ID           uint `gorm:"primaryKey"`
	NominationID uint `gorm:"not null;uniqueIndex:idx_punishment_votes_nomination_user"`
	UserID       uint `gorm:"not null;uniqueIndex:idx_punishment_votes_nomination_user"`
	Vote         bool `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserPunishment struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"not null;index"`
	LanpaID      uint `gorm:"not null"`
	PunishmentID uint `gorm:"not null"`
	Note         string

	Punishment Punishment `gorm:"foreignKey:PunishmentID"`

	CreatedAt time.Time `gorm:"not null"`
}

type NominationDAO struct {
	db *gorm.DB
}

func NewNominationDAO(db *gorm.DB) *NominationDAO {
	return &NominationDAO{
		db: db,
	}
}

func (d *NominationDAO) Insert(ctx context.Context, nomination PunishmentNomination) (PunishmentNomination, error) {
	result := d.db.WithContext(ctx).Create(&nomination)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "idx_nominations_one_pending"`) {
			return PunishmentNomination{}, ErrDuplicatePendingNomination
		}

		return PunishmentNomination{}, result.Error
	}

	return nomination, nil
}

func (d *NominationDAO) FindByID(ctx context.Context, id uint) (PunishmentNomination, error) {
	var nomination PunishmentNomination

	result := d.db.WithContext(ctx).Preload("Punishment").First(&nomination, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PunishmentNomination{}, ErrNominationNotFound
		}

		return PunishmentNomination{}, result.Error
	}

	return nomination, nil
}

func (d *NominationDAO) ListByLanpaID(ctx context.Context, lanpaID uint) ([]PunishmentNomination, error) {
	var nominations []PunishmentNomination

	result := d.db.WithContext(ctx).Preload("Punishment").
		Where("lanpa_id = ?", lanpaID).
		Order("created_at DESC").
		Find(&nominations)
	if result.Error != nil {
		return nil, result.Error
	}

	return nominations, nil
}

// HasPending reports whether an identical pending nomination already exists.
func (d *NominationDAO) HasPending(ctx context.Context, lanpaID, punishmentID, nominatedUserID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&PunishmentNomination{}).
		Where("lanpa_id = ? AND punishment_id = ? AND nominated_user_id = ? AND status = ?",
			lanpaID, punishmentID, nominatedUserID, "pending").
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// UpsertVote records the voter's current ballot; re-voting overwrites via the
// (nomination_id, user_id) unique index.
func (d *NominationDAO) UpsertVote(ctx context.Context, vote PunishmentVote) (PunishmentVote, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "nomination_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote", "updated_at"}),
	}).Create(&vote)
	if result.Error != nil {
		return PunishmentVote{}, result.Error
	}

	return vote, nil
}

func (d *NominationDAO) CountVotes(ctx context.Context, nominationID uint) (votesFor, votesAgainst int, err error) {
	type tally struct {
		Vote  bool
		Count int
	}

	var rows []tally
	result := d.db.WithContext(ctx).Model(&PunishmentVote{}).
		Select("vote, COUNT(*) as count").
		Where("nomination_id = ?", nominationID).
		Group("vote").
		Scan(&rows)
	if result.Error != nil {
		return 0, 0, result.Error
	}

	for _, row := range rows {
		if row.Vote {
			votesFor = row.Count
		} else {
			votesAgainst = row.Count
		}
	}

	return votesFor, votesAgainst, nil
}

// Finalize flips the nomination out of pending and, when approved, appends
// the durable punishment record in the same transaction. The precondition on
// status == pending means two concurrent callers cannot both finalize: the
// loser gets ErrNominationFinalized and no second punishment row is written.
func (d *NominationDAO) Finalize(ctx context.Context, id uint, status string, punishment *UserPunishment) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&PunishmentNomination{}).
			Where("id = ? AND status = ?", id, "pending").
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNominationFinalized
		}

		if punishment != nil {
			return tx.Create(punishment).Error
		}

		return nil
	})
}

func (d *NominationDAO) ListUserPunishments(ctx context.Context, userID uint) ([]UserPunishment, error) {
	var punishments []UserPunishment

	result := d.db.WithContext(ctx).Preload("Punishment").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&punishments)
	if result.Error != nil {
		return nil, result.Error
	}

	return punishments, nil
}
