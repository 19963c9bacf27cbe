package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrLanpaNotFound       = errors.New("lanpa not found")
	ErrLanpaStatusChanged  = errors.New("lanpa status changed concurrently")
	ErrMemberExists        = errors.New("user is already a member of this lanpa")
	ErrMemberNotFound      = errors.New("lanpa member not found")
	ErrDuplicateSuggestion = errors.New("game already suggested for this lanpa")
)

type Lanpa struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"not null"`
	Description    string
	AdminID        uint   `gorm:"not null;index"`
	Status         string `gorm:"not null;index"`
	ScheduledDate  *time.Time
	ActualDate     *time.Time
	IsHistorical   bool  `gorm:"not null;default:false"`
	SelectedGameID *uint `gorm:"index"`

	Members []LanpaMember `gorm:"foreignKey:LanpaID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type LanpaMember struct {
	ID       uint      `gorm:"primaryKey"`
	LanpaID  uint      `gorm:"not null;uniqueIndex:idx_lanpa_members_lanpa_user"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_lanpa_members_lanpa_user"`
	Status   string    `gorm:"not null"`
	JoinedAt time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID"`
}

type GameSuggestion struct {
	ID          uint `gorm:"primaryKey"`
	LanpaID     uint `gorm:"not null;uniqueIndex:idx_game_suggestions_lanpa_game"`
	GameID      uint `gorm:"not null;uniqueIndex:idx_game_suggestions_lanpa_game"`
	SuggestedBy uint `gorm:"not null"`

	Game Game `gorm:"foreignKey:GameID"`

	CreatedAt time.Time `gorm:"not null"`
}

type GameVote struct {
	ID      uint `gorm:"primaryKey"`
	LanpaID uint `gorm:"not null;uniqueIndex:idx_game_votes_lanpa_user"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_game_votes_lanpa_user"`
	GameID  uint `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type LanpaDAO struct {
	db *gorm.DB
}

func NewLanpaDAO(db *gorm.DB) *LanpaDAO {
	return &LanpaDAO{
		db: db,
	}
}

// Insert creates the lanpa and its admin membership row in one transaction.
func (d *LanpaDAO) Insert(ctx context.Context, lanpa Lanpa) (Lanpa, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lanpa).Error; err != nil {
			return err
		}

		member := LanpaMember{
			LanpaID:  lanpa.ID,
			UserID:   lanpa.AdminID,
			Status:   "confirmed",
			JoinedAt: time.Now(),
		}

		return tx.Create(&member).Error
	})
	if err != nil {
		return Lanpa{}, err
	}

	return lanpa, nil
}

func (d *LanpaDAO) FindByID(ctx context.Context, id uint) (Lanpa, error) {
	var lanpa Lanpa

	result := d.db.WithContext(ctx).Preload("Members").Preload("Members.User").First(&lanpa, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Lanpa{}, ErrLanpaNotFound
		}

		return Lanpa{}, result.Error
	}

	return lanpa, nil
}

func (d *LanpaDAO) FindByUserID(ctx context.Context, userID uint) ([]Lanpa, error) {
	var lanpas []Lanpa

	result := d.db.WithContext(ctx).
		Distinct("lanpas.*").
		Joins("LEFT JOIN lanpa_members ON lanpa_members.lanpa_id = lanpas.id").
		Where("lanpas.admin_id = ? OR (lanpa_members.user_id = ? AND lanpa_members.status IN ?)",
			userID, userID, []string{"confirmed", "attended"}).
		Order("lanpas.created_at DESC").
		Find(&lanpas)
	if result.Error != nil {
		return nil, result.Error
	}

	return lanpas, nil
}

func (d *LanpaDAO) UpdateFields(ctx context.Context, id uint, fields map[string]any) (Lanpa, error) {
	result := d.db.WithContext(ctx).Model(&Lanpa{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return Lanpa{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Lanpa{}, ErrLanpaNotFound
	}

	return d.FindByID(ctx, id)
}

// UpdateStatus performs the status transition as a single conditional write.
// The precondition on the current status is what serializes two concurrent
// transition requests: only one caller observes RowsAffected == 1.
func (d *LanpaDAO) UpdateStatus(ctx context.Context, id uint, from string, fields map[string]any) (Lanpa, error) {
	result := d.db.WithContext(ctx).Model(&Lanpa{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		return Lanpa{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Lanpa{}, ErrLanpaStatusChanged
	}

	return d.FindByID(ctx, id)
}

// MarkHistorical flags the lanpa and flips all confirmed members to attended.
func (d *LanpaDAO) MarkHistorical(ctx context.Context, id uint) (Lanpa, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Lanpa{}).Where("id = ?", id).Update("is_historical", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLanpaNotFound
		}

		return tx.Model(&LanpaMember{}).
			Where("lanpa_id = ? AND status = ?", id, "confirmed").
			Update("status", "attended").Error
	})
	if err != nil {
		return Lanpa{}, err
	}

	return d.FindByID(ctx, id)
}

func (d *LanpaDAO) InsertMember(ctx context.Context, member LanpaMember) (LanpaMember, error) {
	result := d.db.WithContext(ctx).Create(&member)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return LanpaMember{}, ErrMemberExists
		}

		return LanpaMember{}, result.Error
	}

	return member, nil
}

func (d *LanpaDAO) FindMember(ctx context.Context, lanpaID, userID uint) (LanpaMember, error) {
	var member LanpaMember

	result := d.db.WithContext(ctx).
		First(&member, "lanpa_id = ? AND user_id = ?", lanpaID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return LanpaMember{}, ErrMemberNotFound
		}

		return LanpaMember{}, result.Error
	}

	return member, nil
}

func (d *LanpaDAO) UpdateMemberStatus(ctx context.Context, lanpaID, userID uint, status string) error {
	result := d.db.WithContext(ctx).Model(&LanpaMember{}).
		Where("lanpa_id = ? AND user_id = ?", lanpaID, userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func (d *LanpaDAO) ListMembers(ctx context.Context, lanpaID uint) ([]LanpaMember, error) {
	var members []LanpaMember

	result := d.db.WithContext(ctx).Preload("User").
		Where("lanpa_id = ?", lanpaID).
		Order("joined_at").
		Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

// ListMemberUserIDs returns the ids of every user whose membership row has
// one of the given statuses. The admin is always included.
func (d *LanpaDAO) ListMemberUserIDs(ctx context.Context, lanpaID uint, statuses []string) ([]uint, error) {
	var lanpa Lanpa
	if err := d.db.WithContext(ctx).Select("admin_id").First(&lanpa, lanpaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLanpaNotFound
		}
		return nil, err
	}

	var ids []uint
	result := d.db.WithContext(ctx).Model(&LanpaMember{}).
		Where("lanpa_id = ? AND status IN ?", lanpaID, statuses).
		Pluck("user_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	seen := false
	for _, id := range ids {
		if id == lanpa.AdminID {
			seen = true
			break
		}
	}
	if !seen {
		ids = append(ids, lanpa.AdminID)
	}

	return ids, nil
}

func (d *LanpaDAO) InsertSuggestion(ctx context.Context, suggestion GameSuggestion) (GameSuggestion, error) {
	result := d.db.WithContext(ctx).Create(&suggestion)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return GameSuggestion{}, ErrDuplicateSuggestion
		}

		return GameSuggestion{}, result.Error
	}

	return suggestion, nil
}

func (d *LanpaDAO) ListSuggestions(ctx context.Context, lanpaID uint) ([]GameSuggestion, error) {
	var suggestions []GameSuggestion

	result := d.db.WithContext(ctx).Preload("Game").
		Where("lanpa_id = ?", lanpaID).
		Order("created_at").
		Find(&suggestions)
	if result.Error != nil {
		return nil, result.Error
	}

	return suggestions, nil
}

func (d *LanpaDAO) SuggestionExists(ctx context.Context, lanpaID, gameID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&GameSuggestion{}).
		Where("lanpa_id = ? AND game_id = ?", lanpaID, gameID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

// UpsertVote records the user's current vote. Re-voting overwrites the
// previous row via the (lanpa_id, user_id) unique index.
func (d *LanpaDAO) UpsertVote(ctx context.Context, vote GameVote) (GameVote, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lanpa_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"game_id", "updated_at"}),
	}).Create(&vote)
	if result.Error != nil {
		return GameVote{}, result.Error
	}

	return vote, nil
}

func (d *LanpaDAO) ListVotes(ctx context.Context, lanpaID uint) ([]GameVote, error) {
	var votes []GameVote

	result := d.db.WithContext(ctx).Where("lanpa_id = ?", lanpaID).Find(&votes)
	if result.Error != nil {
		return nil, result.Error
	}

	return votes, nil
}
