package domain

import "time"

type Punishment struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   uint      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type NominationStatus string

const (
	NominationPending  NominationStatus = "pending"
	NominationApproved NominationStatus = "approved"
	NominationRejected NominationStatus = "rejected"
)

type PunishmentNomination struct {
	ID              uint             `json:"id"`
	LanpaID         uint             `json:"lanpa_id"`
	PunishmentID    uint             `json:"punishment_id"`
	NominatedUserID uint             `json:"nominated_user_id"`
	NominatedBy     uint             `json:"nominated_by"`
	Reason          string           `json:"reason"`
	Status          NominationStatus `json:"status"`
	VotingEndsAt    time.Time        `json:"voting_ends_at"`
	Punishment      *Punishment      `json:"punishment,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// VotingOpen reports whether votes are still accepted at the given time.
func (n *PunishmentNomination) VotingOpen(now time.Time) bool {
	return n.Status == NominationPending && now.Before(n.VotingEndsAt)
}

type PunishmentVote struct {
	ID           uint      `json:"id"`
	NominationID uint      `json:"nomination_id"`
	UserID       uint      `json:"user_id"`
	Vote         bool      `json:"vote"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPunishment is the durable record applied when a nomination is approved.
// It is append-only and never mutated afterwards.
type UserPunishment struct {
	ID           uint        `json:"id"`
	UserID       uint        `json:"user_id"`
	LanpaID      uint        `json:"lanpa_id"`
	PunishmentID uint        `json:"punishment_id"`
	Note         string      `json:"note"`
	Punishment   *Punishment `json:"punishment,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NominationOutcome is what finalize returns to the caller.
type NominationOutcome struct {
	Status            NominationStatus `json:"status"`
	VotesFor          int              `json:"votes_for"`
	VotesAgainst      int              `json:"votes_against"`
	PunishmentApplied bool             `json:"punishment_applied"`
}
