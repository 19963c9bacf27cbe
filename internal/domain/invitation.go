package domain

import "time"

type Invitation struct {
	ID        uint      `json:"id"`
	LanpaID   uint      `json:"lanpa_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	MaxUses   *int      `json:"max_uses,omitempty"`
	Uses      int       `json:"uses"`
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Redeemable reports whether the invitation can still be used at the given time.
func (i *Invitation) Redeemable(now time.Time) bool {
	if now.After(i.ExpiresAt) {
		return false
	}
	if i.MaxUses != nil && i.Uses >= *i.MaxUses {
		return false
	}
	return true
}
