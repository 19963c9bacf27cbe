package domain

import "time"

type NotificationType string

const (
	NotificationLanpaStatus       NotificationType = "lanpa_status"
	NotificationLanpaInvite       NotificationType = "lanpa_invite"
	NotificationGameSelected      NotificationType = "game_selected"
	NotificationNominationCreated NotificationType = "nomination_created"
	NotificationNominationResult  NotificationType = "nomination_result"
)

type Notification struct {
	ID        uint             `json:"id"`
	UserID    uint             `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Data      map[string]any   `json:"data,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationPayload is what callers hand to the fanout; the store assigns
// identity and timestamps.
type NotificationPayload struct {
	Type  NotificationType
	Title string
	Body  string
	Data  map[string]any
}
