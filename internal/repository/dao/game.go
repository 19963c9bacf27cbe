package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrGameNotFound       = errors.New("game not found")
	ErrGameNameExists     = errors.New("game already exists")
	ErrPunishmentNotFound = errors.New("punishment not found")
)

type Game struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"`
	Description string
	MinPlayers  int
	MaxPlayers  int
	CreatedBy   uint `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Punishment struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	CreatedBy   uint `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type GameDAO struct {
	db *gorm.DB
}

func NewGameDAO(db *gorm.DB) *GameDAO {
	return &GameDAO{
		db: db,
	}
}

func (d *GameDAO) Insert(ctx context.Context, game Game) (Game, error) {
	result := d.db.WithContext(ctx).Create(&game)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Game{}, ErrGameNameExists
		}

		return Game{}, result.Error
	}

	return game, nil
}

func (d *GameDAO) FindByID(ctx context.Context, id uint) (Game, error) {
	var game Game

	result := d.db.WithContext(ctx).First(&game, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Game{}, ErrGameNotFound
		}

		return Game{}, result.Error
	}

	return game, nil
}

func (d *GameDAO) List(ctx context.Context) ([]Game, error) {
	var games []Game

	result := d.db.WithContext(ctx).Order("name").Find(&games)
	if result.Error != nil {
		return nil, result.Error
	}

	return games, nil
}

func (d *GameDAO) InsertPunishment(ctx context.Context, punishment Punishment) (Punishment, error) {
	result := d.db.WithContext(ctx).Create(&punishment)
	if result.Error != nil {
		return Punishment{}, result.Error
	}

	return punishment, nil
}

func (d *GameDAO) FindPunishmentByID(ctx context.Context, id uint) (Punishment, error) {
	var punishment Punishment

	result := d.db.WithContext(ctx).First(&punishment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Punishment{}, ErrPunishmentNotFound
		}

		return Punishment{}, result.Error
	}

	return punishment, nil
}

func (d *GameDAO) ListPunishments(ctx context.Context) ([]Punishment, error) {
	var punishments []Punishment

	result := d.db.WithContext(ctx).Order("name").Find(&punishments)
	if result.Error != nil {
		return nil, result.Error
	}

	return punishments, nil
}
