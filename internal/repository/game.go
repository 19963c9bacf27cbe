package repository

import (
	"context"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository/dao"
)

var (
	ErrGameNotFound       = dao.ErrGameNotFound
	ErrGameNameExists     = dao.ErrGameNameExists
	ErrPunishmentNotFound = dao.ErrPunishmentNotFound
)

type GameDAO interface {
	Insert(ctx context.Context, game dao.Game) (dao.Game, error)
	FindByID(ctx context.Context, id uint) (dao.Game, error)
	List(ctx context.Context) ([]dao.Game, error)
	InsertPunishment(ctx context.Context, punishment dao.Punishment) (dao.Punishment, error)
	FindPunishmentByID(ctx context.Context, id uint) (dao.Punishment, error)
	ListPunishments(ctx context.Context) ([]dao.Punishment, error)
}

type GameRepository struct {
	dao GameDAO
}

func NewGameRepository(dao GameDAO) *GameRepository {
	return &GameRepository{
		dao: dao,
	}
}

func gameDaoToDomain(g dao.Game) domain.Game {
	return domain.Game{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		MinPlayers:  g.MinPlayers,
		MaxPlayers:  g.MaxPlayers,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func punishmentDaoToDomain(p dao.Punishment) domain.Punishment {
	return domain.Punishment{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func (r *GameRepository) Create(ctx context.Context, game domain.Game) (domain.Game, error) {
	created, err := r.dao.Insert(ctx, dao.Game{
		Name:        game.Name,
		Description: game.Description,
		MinPlayers:  game.MinPlayers,
		MaxPlayers:  game.MaxPlayers,
		CreatedBy:   game.CreatedBy,
	})
	if err != nil {
		return domain.Game{}, err
	}

	return gameDaoToDomain(created), nil
}

func (r *GameRepository) FindByID(ctx context.Context, id uint) (domain.Game, error) {
	game, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Game{}, err
	}

	return gameDaoToDomain(game), nil
}

func (r *GameRepository) List(ctx context.Context) ([]domain.Game, error) {
	games, err := r.dao.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Game, len(games))
	for i, g := range games {
		result[i] = gameDaoToDomain(g)
	}

	return result, nil
}

func (r *GameRepository) CreatePunishment(ctx context.Context, punishment domain.Punishment) (domain.Punishment, error) {
	created, err := r.dao.InsertPunishment(ctx, dao.Punishment{
		Name:        punishment.Name,
		Description: punishment.Description,
		CreatedBy:   punishment.CreatedBy,
	})
	if err != nil {
		return domain.Punishment{}, err
	}

	return punishmentDaoToDomain(created), nil
}

func (r *GameRepository) FindPunishmentByID(ctx context.Context, id uint) (domain.Punishment, error) {
	punishment, err := r.dao.FindPunishmentByID(ctx, id)
	if err != nil {
		return domain.Punishment{}, err
	}

	return punishmentDaoToDomain(punishment), nil
}

func (r *GameRepository) ListPunishments(ctx context.Context) ([]domain.Punishment, error) {
	punishments, err := r.dao.ListPunishments(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Punishment, len(punishments))
	for i, p := range punishments {
		result[i] = punishmentDaoToDomain(p)
	}

	return result, nil
}
