package domain

import "time"

type LanpaStatus string

const (
	StatusDraft        LanpaStatus = "draft"
	StatusVotingGames  LanpaStatus = "voting_games"
	StatusVotingActive LanpaStatus = "voting_active"
	StatusInProgress   LanpaStatus = "in_progress"
	StatusCompleted    LanpaStatus = "completed"
)

// lanpaTransitions is the single source of truth for legal status moves.
var lanpaTransitions = map[LanpaStatus][]LanpaStatus{
	StatusDraft:        {StatusVotingGames, StatusInProgress},
	StatusVotingGames:  {StatusVotingActive, StatusDraft},
	StatusVotingActive: {StatusInProgress, StatusVotingGames},
	StatusInProgress:   {StatusCompleted},
	StatusCompleted:    {},
}

func (s LanpaStatus) IsValid() bool {
	_, ok := lanpaTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s LanpaStatus) CanTransitionTo(next LanpaStatus) bool {
	for _, allowed := range lanpaTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Lanpa struct {
	ID             uint          `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	AdminID        uint          `json:"admin_id"`
	Status         LanpaStatus   `json:"status"`
	ScheduledDate  *time.Time    `json:"scheduled_date,omitempty"`
	ActualDate     *time.Time    `json:"actual_date,omitempty"`
	IsHistorical   bool          `json:"is_historical"`
	SelectedGameID *uint         `json:"selected_game_id,omitempty"`
	Members        []LanpaMember `json:"members,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type MemberStatus string

const (
	MemberInvited   MemberStatus = "invited"
	MemberConfirmed MemberStatus = "confirmed"
	MemberDeclined  MemberStatus = "declined"
	MemberAttended  MemberStatus = "attended"
)

// Counts reports whether the membership row grants member rights.
// Invited and declined users have no visibility into the lanpa.
func (s MemberStatus) Counts() bool {
	return s == MemberConfirmed || s == MemberAttended
}

type LanpaMember struct {
	ID       uint         `json:"id"`
	LanpaID  uint         `json:"lanpa_id"`
	UserID   uint         `json:"user_id"`
	Status   MemberStatus `json:"status"`
	JoinedAt time.Time    `json:"joined_at"`
	User     *User        `json:"user,omitempty"`
}
