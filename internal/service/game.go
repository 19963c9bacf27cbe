package service

import (
	"context"
	"fmt"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository"
)

var ErrGameNameExists = repository.ErrGameNameExists

type GameRepository interface {
	Create(ctx context.Context, game domain.Game) (domain.Game, error)
	FindByID(ctx context.Context, id uint) (domain.Game, error)
	List(ctx context.Context) ([]domain.Game, error)
	CreatePunishment(ctx context.Context, punishment domain.Punishment) (domain.Punishment, error)
	FindPunishmentByID(ctx context.Context, id uint) (domain.Punishment, error)
	ListPunishments(ctx context.Context) ([]domain.Punishment, error)
}

// GameService manages the game and punishment catalogs that lanpa
// suggestions and nominations reference.
type GameService struct {
	repo GameRepository
}

func NewGameService(repo GameRepository) *GameService {
	return &GameService{
		repo: repo,
	}
}

func (s *GameService) CreateGame(ctx context.Context, game domain.Game) (domain.Game, error) {
	created, err := s.repo.Create(ctx, game)
	if err != nil {
		return domain.Game{}, err
	}

	return created, nil
}

func (s *GameService) GetGame(ctx context.Context, id uint) (domain.Game, error) {
	game, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Game{}, err
	}

	return game, nil
}

func (s *GameService) GetGames(ctx context.Context) ([]domain.Game, error) {
	games, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return games, nil
}

func (s *GameService) CreatePunishment(ctx context.Context, punishment domain.Punishment) (domain.Punishment, error) {
	created, err := s.repo.CreatePunishment(ctx, punishment)
	if err != nil {
		return domain.Punishment{}, fmt.Errorf("s.repo.CreatePunishment -> %w", err)
	}

	return created, nil
}

func (s *GameService) GetPunishments(ctx context.Context) ([]domain.Punishment, error) {
	punishments, err := s.repo.ListPunishments(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPunishments -> %w", err)
	}

	return punishments, nil
}
