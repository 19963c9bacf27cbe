package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateLanpaRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	ScheduledDate string `json:"scheduled_date" format:"RFC3339"`
}

func (req *CreateLanpaRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

type UpdateLanpaRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	ScheduledDate *string `json:"scheduled_date" format:"RFC3339"`
}

func (req *UpdateLanpaRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(2, 50)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (req *TransitionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required,
			validation.In("draft", "voting_games", "voting_active", "in_progress", "completed")),
	)
}

type SuggestGameRequest struct {
	GameID uint `json:"game_id" binding:"required"`
}

func (req *SuggestGameRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GameID, validation.Required, validation.Min(uint(1))),
	)
}

type GameVoteRequest struct {
	GameID uint `json:"game_id" binding:"required"`
}

func (req *GameVoteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GameID, validation.Required, validation.Min(uint(1))),
	)
}

type SelectGameRequest struct {
	GameID uint `json:"game_id" binding:"required"`
}

func (req *SelectGameRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GameID, validation.Required, validation.Min(uint(1))),
	)
}

type InviteMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (req *InviteMemberRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
	)
}

type RespondInviteRequest struct {
	UserID *uint `json:"user_id"` // admin responding on the invitee's behalf
	Accept *bool `json:"accept" binding:"required"`
}

func (req *RespondInviteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Accept, validation.NotNil),
	)
}

type CreateInvitationRequest struct {
	ValidHours int  `json:"valid_hours" binding:"required"`
	MaxUses    *int `json:"max_uses"`
}

func (req *CreateInvitationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ValidHours, validation.Required, validation.Min(1), validation.Max(720)),
		validation.Field(&req.MaxUses, validation.Min(1)),
	)
}
