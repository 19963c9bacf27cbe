package service

import (
	"context"
	"sync"
	"time"

	"github.com/lanpahub/lanpa-api/internal/domain"
)

// fakeStore is a single in-memory backend implementing every repository
// interface the services consume, so tests can wire a full service graph
// without a database.
type fakeStore struct {
	mu sync.Mutex

	nextID uint

	lanpas          map[uint]domain.Lanpa
	members         map[uint][]domain.LanpaMember
	suggestions     map[uint][]domain.GameSuggestion
	votes           map[uint][]domain.GameVote
	games           map[uint]domain.Game
	users           map[uint]domain.User
	invitations     map[uint]domain.Invitation
	punishments     map[uint]domain.Punishment
	nominations     map[uint]domain.PunishmentNomination
	nominationVotes map[uint]map[uint]bool
	userPunishments []domain.UserPunishment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lanpas:          map[uint]domain.Lanpa{},
		members:         map[uint][]domain.LanpaMember{},
		suggestions:     map[uint][]domain.GameSuggestion{},
		votes:           map[uint][]domain.GameVote{},
		games:           map[uint]domain.Game{},
		users:           map[uint]domain.User{},
		invitations:     map[uint]domain.Invitation{},
		punishments:     map[uint]domain.Punishment{},
		nominations:     map[uint]domain.PunishmentNomination{},
		nominationVotes: map[uint]map[uint]bool{},
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addUser(user domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == 0 {
		user.ID = f.id()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeStore) addGame(game domain.Game) domain.Game {
	f.mu.Lock()
	defer f.mu.Unlock()
	if game.ID == 0 {
		game.ID = f.id()
	}
	f.games[game.ID] = game
	return game
}

func (f *fakeStore) addPunishment(p domain.Punishment) domain.Punishment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.id()
	}
	f.punishments[p.ID] = p
	return p
}

func (f *fakeStore) addLanpa(lanpa domain.Lanpa) domain.Lanpa {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lanpa.ID == 0 {
		lanpa.ID = f.id()
	}
	f.lanpas[lanpa.ID] = lanpa
	return lanpa
}

func (f *fakeStore) addMember(lanpaID, userID uint, status domain.MemberStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[lanpaID] = append(f.members[lanpaID], domain.LanpaMember{
		ID:      f.id(),
		LanpaID: lanpaID,
		UserID:  userID,
		Status:  status,
	})
}

// LanpaRepository

func (f *fakeStore) Create(ctx context.Context, lanpa domain.Lanpa) (domain.Lanpa, error) {
	return f.addLanpa(lanpa), nil
}

func (f *fakeStore) FindByID(ctx context.Context, id uint) (domain.Lanpa, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lanpa, ok := f.lanpas[id]
	if !ok {
		return domain.Lanpa{}, ErrLanpaNotFound
	}
	return lanpa, nil
}

func (f *fakeStore) FindByUserID(ctx context.Context, userID uint) ([]domain.Lanpa, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Lanpa
	for _, lanpa := range f.lanpas {
		if lanpa.AdminID == userID {
			out = append(out, lanpa)
			continue
		}
		for _, m := range f.members[lanpa.ID] {
			if m.UserID == userID && m.Status.Counts() {
				out = append(out, lanpa)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateFields(ctx context.Context, id uint, fields map[string]any) (domain.Lanpa, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lanpa, ok := f.lanpas[id]
	if !ok {
		return domain.Lanpa{}, ErrLanpaNotFound
	}
	if v, ok := fields["name"]; ok {
		lanpa.Name = v.(string)
	}
	if v, ok := fields["description"]; ok {
		lanpa.Description = v.(string)
	}
	if v, ok := fields["scheduled_date"]; ok {
		date := v.(time.Time)
		lanpa.ScheduledDate = &date
	}
	if v, ok := fields["selected_game_id"]; ok {
		gameID := v.(uint)
		lanpa.SelectedGameID = &gameID
	}
	f.lanpas[id] = lanpa
	return lanpa, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id uint, from, to domain.LanpaStatus, selectedGameID *uint, actualDate *time.Time) (domain.Lanpa, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lanpa, ok := f.lanpas[id]
	if !ok {
		return domain.Lanpa{}, ErrLanpaNotFound
	}
	if lanpa.Status != from {
		return domain.Lanpa{}, ErrLanpaStatusChanged
	}
	lanpa.Status = to
	if selectedGameID != nil {
		lanpa.SelectedGameID = selectedGameID
	}
	if actualDate != nil {
		lanpa.ActualDate = actualDate
	}
	f.lanpas[id] = lanpa
	return lanpa, nil
}

func (f *fakeStore) MarkHistorical(ctx context.Context, id uint) (domain.Lanpa, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lanpa, ok := f.lanpas[id]
	if !ok {
		return domain.Lanpa{}, ErrLanpaNotFound
	}
	lanpa.IsHistorical = true
	f.lanpas[id] = lanpa
	for i, m := range f.members[id] {
		if m.Status == domain.MemberConfirmed {
			f.members[id][i].Status = domain.MemberAttended
		}
	}
	return lanpa, nil
}

func (f *fakeStore) AddMember(ctx context.Context, member domain.LanpaMember) (domain.LanpaMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members[member.LanpaID] {
		if m.UserID == member.UserID {
			return domain.LanpaMember{}, ErrMemberExists
		}
	}
	member.ID = f.id()
	f.members[member.LanpaID] = append(f.members[member.LanpaID], member)
	return member, nil
}

func (f *fakeStore) FindMember(ctx context.Context, lanpaID, userID uint) (domain.LanpaMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members[lanpaID] {
		if m.UserID == userID {
			return m, nil
		}
	}
	return domain.LanpaMember{}, ErrMemberNotFound
}

func (f *fakeStore) UpdateMemberStatus(ctx context.Context, lanpaID, userID uint, status domain.MemberStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.members[lanpaID] {
		if m.UserID == userID {
			f.members[lanpaID][i].Status = status
			return nil
		}
	}
	return ErrMemberNotFound
}

func (f *fakeStore) ListMembers(ctx context.Context, lanpaID uint) ([]domain.LanpaMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.LanpaMember(nil), f.members[lanpaID]...), nil
}

func (f *fakeStore) ListMemberUserIDs(ctx context.Context, lanpaID uint, statuses []domain.MemberStatus) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []uint{}
	if lanpa, ok := f.lanpas[lanpaID]; ok {
		ids = append(ids, lanpa.AdminID)
	}
	for _, m := range f.members[lanpaID] {
		for _, s := range statuses {
			if m.Status == s {
				ids = append(ids, m.UserID)
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeStore) AddSuggestion(ctx context.Context, suggestion domain.GameSuggestion) (domain.GameSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.suggestions[suggestion.LanpaID] {
		if s.GameID == suggestion.GameID {
			return domain.GameSuggestion{}, ErrDuplicateSuggestion
		}
	}
	suggestion.ID = f.id()
	f.suggestions[suggestion.LanpaID] = append(f.suggestions[suggestion.LanpaID], suggestion)
	return suggestion, nil
}

func (f *fakeStore) ListSuggestions(ctx context.Context, lanpaID uint) ([]domain.GameSuggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.GameSuggestion(nil), f.suggestions[lanpaID]...), nil
}

func (f *fakeStore) SuggestionExists(ctx context.Context, lanpaID, gameID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.suggestions[lanpaID] {
		if s.GameID == gameID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpsertVote(ctx context.Context, vote domain.GameVote) (domain.GameVote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range f.votes[vote.LanpaID] {
		if v.UserID == vote.UserID {
			f.votes[vote.LanpaID][i].GameID = vote.GameID
			return f.votes[vote.LanpaID][i], nil
		}
	}
	vote.ID = f.id()
	f.votes[vote.LanpaID] = append(f.votes[vote.LanpaID], vote)
	return vote, nil
}

func (f *fakeStore) ListVotes(ctx context.Context, lanpaID uint) ([]domain.GameVote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.GameVote(nil), f.votes[lanpaID]...), nil
}

// fakeGameRepo covers the game and punishment catalog lookups.

type fakeGameRepo struct {
	store *fakeStore
}

func (r *fakeGameRepo) FindByID(ctx context.Context, id uint) (domain.Game, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	game, ok := r.store.games[id]
	if !ok {
		return domain.Game{}, ErrGameNotFound
	}
	return game, nil
}

func (r *fakeGameRepo) FindPunishmentByID(ctx context.Context, id uint) (domain.Punishment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.punishments[id]
	if !ok {
		return domain.Punishment{}, ErrPunishmentNotFound
	}
	return p, nil
}

// fakeUserRepo

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

// fakeInvitationRepo

type fakeInvitationRepo struct {
	store *fakeStore
}

func (r *fakeInvitationRepo) Create(ctx context.Context, invitation domain.Invitation) (domain.Invitation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	invitation.ID = r.store.id()
	r.store.invitations[invitation.ID] = invitation
	return invitation, nil
}

func (r *fakeInvitationRepo) FindByToken(ctx context.Context, token string) (domain.Invitation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, inv := range r.store.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return domain.Invitation{}, ErrInvitationNotFound
}

func (r *fakeInvitationRepo) ConsumeUse(ctx context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.invitations[id]
	if !ok {
		return ErrInvitationNotFound
	}
	if inv.MaxUses != nil && inv.Uses >= *inv.MaxUses {
		return ErrInvitationExhausted
	}
	inv.Uses++
	r.store.invitations[id] = inv
	return nil
}

func (r *fakeInvitationRepo) ListByLanpaID(ctx context.Context, lanpaID uint) ([]domain.Invitation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Invitation
	for _, inv := range r.store.invitations {
		if inv.LanpaID == lanpaID {
			out = append(out, inv)
		}
	}
	return out, nil
}

// fakeNominationRepo

type fakeNominationRepo struct {
	store *fakeStore
}

func (r *fakeNominationRepo) Create(ctx context.Context, nomination domain.PunishmentNomination) (domain.PunishmentNomination, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	nomination.ID = r.store.id()
	r.store.nominations[nomination.ID] = nomination
	return nomination, nil
}

func (r *fakeNominationRepo) FindByID(ctx context.Context, id uint) (domain.PunishmentNomination, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	nomination, ok := r.store.nominations[id]
	if !ok {
		return domain.PunishmentNomination{}, ErrNominationNotFound
	}
	return nomination, nil
}

func (r *fakeNominationRepo) ListByLanpaID(ctx context.Context, lanpaID uint) ([]domain.PunishmentNomination, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.PunishmentNomination
	for _, n := range r.store.nominations {
		if n.LanpaID == lanpaID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNominationRepo) HasPending(ctx context.Context, lanpaID, punishmentID, nominatedUserID uint) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.nominations {
		if n.LanpaID == lanpaID && n.PunishmentID == punishmentID &&
			n.NominatedUserID == nominatedUserID && n.Status == domain.NominationPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNominationRepo) UpsertVote(ctx context.Context, vote domain.PunishmentVote) (domain.PunishmentVote, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.nominationVotes[vote.NominationID] == nil {
		r.store.nominationVotes[vote.NominationID] = map[uint]bool{}
	}
	r.store.nominationVotes[vote.NominationID][vote.UserID] = vote.Vote
	return vote, nil
}

func (r *fakeNominationRepo) CountVotes(ctx context.Context, nominationID uint) (int, int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	votesFor, votesAgainst := 0, 0
	for _, guilty := range r.store.nominationVotes[nominationID] {
		if guilty {
			votesFor++
		} else {
			votesAgainst++
		}
	}
	return votesFor, votesAgainst, nil
}

func (r *fakeNominationRepo) Finalize(ctx context.Context, id uint, status domain.NominationStatus, punishment *domain.UserPunishment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	nomination, ok := r.store.nominations[id]
	if !ok {
		return ErrNominationNotFound
	}
	if nomination.Status != domain.NominationPending {
		return ErrNominationFinalized
	}
	nomination.Status = status
	r.store.nominations[id] = nomination
	if punishment != nil {
		r.store.userPunishments = append(r.store.userPunishments, *punishment)
	}
	return nil
}

func (r *fakeNominationRepo) ListUserPunishments(ctx context.Context, userID uint) ([]domain.UserPunishment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.UserPunishment
	for _, p := range r.store.userPunishments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeFanout records every payload so tests can assert on delivery.

type fakeFanout struct {
	mu   sync.Mutex
	sent map[uint][]domain.NotificationPayload
}

func newFakeFanout() *fakeFanout {
	return &fakeFanout{sent: map[uint][]domain.NotificationPayload{}}
}

func (f *fakeFanout) Notify(ctx context.Context, userID uint, payload domain.NotificationPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[userID] = append(f.sent[userID], payload)
}

func (f *fakeFanout) NotifyMany(ctx context.Context, userIDs []uint, payload domain.NotificationPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range userIDs {
		f.sent[id] = append(f.sent[id], payload)
	}
}

func (f *fakeFanout) received(userID uint) []domain.NotificationPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[userID]
}
