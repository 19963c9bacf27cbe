package repository

import (
	"context"
	"time"

	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/repository/dao"
)

var (
	ErrLanpaNotFound       = dao.ErrLanpaNotFound
	ErrLanpaStatusChanged  = dao.ErrLanpaStatusChanged
	ErrMemberExists        = dao.ErrMemberExists
	ErrMemberNotFound      = dao.ErrMemberNotFound
	ErrDuplicateSuggestion = dao.ErrDuplicateSuggestion
)

type LanpaDAO interface {
	Insert(ctx context.Context, lanpa dao.Lanpa) (dao.Lanpa, error)
	FindByID(ctx context.Context, id uint) (dao.Lanpa, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Lanpa, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]any) (dao.Lanpa, error)
	UpdateStatus(ctx context.Context, id uint, from string, fields map[string]any) (dao.Lanpa, error)
	MarkHistorical(ctx context.Context, id uint) (dao.Lanpa, error)
	InsertMember(ctx context.Context, member dao.LanpaMember) (dao.LanpaMember, error)
	FindMember(ctx context.Context, lanpaID, userID uint) (dao.LanpaMember, error)
	UpdateMemberStatus(ctx context.Context, lanpaID, userID uint, status string) error
	ListMembers(ctx context.Context, lanpaID uint) ([]dao.LanpaMember, error)
	ListMemberUserIDs(ctx context.Context, lanpaID uint, statuses []string) ([]uint, error)
	InsertSuggestion(ctx context.Context, suggestion dao.GameSuggestion) (dao.GameSuggestion, error)
	ListSuggestions(ctx context.Context, lanpaID uint) ([]dao.GameSuggestion, error)
	SuggestionExists(ctx context.Context, lanpaID, gameID uint) (bool, error)
	UpsertVote(ctx context.Context, vote dao.GameVote) (dao.GameVote, error)
	ListVotes(ctx context.Context, lanpaID uint) ([]dao.GameVote, error)
}

type LanpaRepository struct {
	dao LanpaDAO
}

func NewLanpaRepository(dao LanpaDAO) *LanpaRepository {
	return &LanpaRepository{
		dao: dao,
	}
}

func (r *LanpaRepository) lanpaDaoToDomain(l dao.Lanpa) domain.Lanpa {
	lanpa := domain.Lanpa{
		ID:             l.ID,
		Name:           l.Name,
		Description:    l.Description,
		AdminID:        l.AdminID,
		Status:         domain.LanpaStatus(l.Status),
		ScheduledDate:  l.ScheduledDate,
		ActualDate:     l.ActualDate,
		IsHistorical:   l.IsHistorical,
		SelectedGameID: l.SelectedGameID,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}

	for _, m := range l.Members {
		lanpa.Members = append(lanpa.Members, r.memberDaoToDomain(m))
	}

	return lanpa
}

func (r *LanpaRepository) memberDaoToDomain(m dao.LanpaMember) domain.LanpaMember {
	member := domain.LanpaMember{
		ID:       m.ID,
		LanpaID:  m.LanpaID,
		UserID:   m.UserID,
		Status:   domain.MemberStatus(m.Status),
		JoinedAt: m.JoinedAt,
	}

	if m.User.ID != 0 {
		member.User = &domain.User{
			ID:       m.User.ID,
			Email:    m.User.Email,
			Username: m.User.Username,
		}
	}

	return member
}

func (r *LanpaRepository) suggestionDaoToDomain(s dao.GameSuggestion) domain.GameSuggestion {
	suggestion := domain.GameSuggestion{
		ID:          s.ID,
		LanpaID:     s.LanpaID,
		GameID:      s.GameID,
		SuggestedBy: s.SuggestedBy,
		CreatedAt:   s.CreatedAt,
	}

	if s.Game.ID != 0 {
		game := gameDaoToDomain(s.Game)
		suggestion.Game = &game
	}

	return suggestion
}

func (r *LanpaRepository) Create(ctx context.Context, lanpa domain.Lanpa) (domain.Lanpa, error) {
	created, err := r.dao.Insert(ctx, dao.Lanpa{
		Name:          lanpa.Name,
		Description:   lanpa.Description,
		AdminID:       lanpa.AdminID,
		Status:        string(lanpa.Status),
		ScheduledDate: lanpa.ScheduledDate,
	})
	if err != nil {
		return domain.Lanpa{}, err
	}

	return r.lanpaDaoToDomain(created), nil
}

func (r *LanpaRepository) FindByID(ctx context.Context, id uint) (domain.Lanpa, error) {
	lanpa, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Lanpa{}, err
	}

	return r.lanpaDaoToDomain(lanpa), nil
}

func (r *LanpaRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Lanpa, error) {
	lanpas, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Lanpa, len(lanpas))
	for i, l := range lanpas {
		result[i] = r.lanpaDaoToDomain(l)
	}

	return result, nil
}

func (r *LanpaRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) (domain.Lanpa, error) {
	lanpa, err := r.dao.UpdateFields(ctx, id, fields)
	if err != nil {
		return domain.Lanpa{}, err
	}

	return r.lanpaDaoToDomain(lanpa), nil
}

// UpdateStatus applies the transition atomically with its side effects. The
// selected game and actual date ride on the same conditional write so a lost
// race leaves nothing half-applied.
func (r *LanpaRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.LanpaStatus, selectedGameID *uint, actualDate *time.Time) (domain.Lanpa, error) {
	fields := map[string]any{"status": string(to)}
	if selectedGameID != nil {
		fields["selected_game_id"] = *selectedGameID
	}
	if actualDate != nil {
		fields["actual_date"] = *actualDate
	}

	lanpa, err := r.dao.UpdateStatus(ctx, id, string(from), fields)
	if err != nil {
		return domain.Lanpa{}, err
	}

	return r.lanpaDaoToDomain(lanpa), nil
}

func (r *LanpaRepository) MarkHistorical(ctx context.Context, id uint) (domain.Lanpa, error) {
	lanpa, err := r.dao.MarkHistorical(ctx, id)
	if err != nil {
		return domain.Lanpa{}, err
	}

	return r.lanpaDaoToDomain(lanpa), nil
}

func (r *LanpaRepository) AddMember(ctx context.Context, member domain.LanpaMember) (domain.LanpaMember, error) {
	created, err := r.dao.InsertMember(ctx, dao.LanpaMember{
		LanpaID:  member.LanpaID,
		UserID:   member.UserID,
		Status:   string(member.Status),
		JoinedAt: member.JoinedAt,
	})
	if err != nil {
		return domain.LanpaMember{}, err
	}

	return r.memberDaoToDomain(created), nil
}

func (r *LanpaRepository) FindMember(ctx context.Context, lanpaID, userID uint) (domain.LanpaMember, error) {
	member, err := r.dao.FindMember(ctx, lanpaID, userID)
	if err != nil {
		return domain.LanpaMember{}, err
	}

	return r.memberDaoToDomain(member), nil
}

func (r *LanpaRepository) UpdateMemberStatus(ctx context.Context, lanpaID, userID uint, status domain.MemberStatus) error {
	return r.dao.UpdateMemberStatus(ctx, lanpaID, userID, string(status))
}

func (r *LanpaRepository) ListMembers(ctx context.Context, lanpaID uint) ([]domain.LanpaMember, error) {
	members, err := r.dao.ListMembers(ctx, lanpaID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.LanpaMember, len(members))
	for i, m := range members {
		result[i] = r.memberDaoToDomain(m)
	}

	return result, nil
}

func (r *LanpaRepository) ListMemberUserIDs(ctx context.Context, lanpaID uint, statuses []domain.MemberStatus) ([]uint, error) {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	return r.dao.ListMemberUserIDs(ctx, lanpaID, raw)
}

func (r *LanpaRepository) AddSuggestion(ctx context.Context, suggestion domain.GameSuggestion) (domain.GameSuggestion, error) {
	created, err := r.dao.InsertSuggestion(ctx, dao.GameSuggestion{
		LanpaID:     suggestion.LanpaID,
		GameID:      suggestion.GameID,
		SuggestedBy: suggestion.SuggestedBy,
	})
	if err != nil {
		return domain.GameSuggestion{}, err
	}

	return r.suggestionDaoToDomain(created), nil
}

func (r *LanpaRepository) ListSuggestions(ctx context.Context, lanpaID uint) ([]domain.GameSuggestion, error) {
	suggestions, err := r.dao.ListSuggestions(ctx, lanpaID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.GameSuggestion, len(suggestions))
	for i, s := range suggestions {
		result[i] = r.suggestionDaoToDomain(s)
	}

	return result, nil
}

func (r *LanpaRepository) SuggestionExists(ctx context.Context, lanpaID, gameID uint) (bool, error) {
	return r.dao.SuggestionExists(ctx, lanpaID, gameID)
}

func (r *LanpaRepository) UpsertVote(ctx context.Context, vote domain.GameVote) (domain.GameVote, error) {
	created, err := r.dao.UpsertVote(ctx, dao.GameVote{
		LanpaID: vote.LanpaID,
		UserID:  vote.UserID,
		GameID:  vote.GameID,
	})
	if err != nil {
		return domain.GameVote{}, err
	}

	return domain.GameVote{
		ID:        created.ID,
		LanpaID:   created.LanpaID,
		GameID:    created.GameID,
		UserID:    created.UserID,
		CreatedAt: created.CreatedAt,
		UpdatedAt: created.UpdatedAt,
	}, nil
}

func (r *LanpaRepository) ListVotes(ctx context.Context, lanpaID uint) ([]domain.GameVote, error) {
	votes, err := r.dao.ListVotes(ctx, lanpaID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.GameVote, len(votes))
	for i, v := range votes {
		result[i] = domain.GameVote{
			ID:        v.ID,
			LanpaID:   v.LanpaID,
			GameID:    v.GameID,
			UserID:    v.UserID,
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
		}
	}

	return result, nil
}
