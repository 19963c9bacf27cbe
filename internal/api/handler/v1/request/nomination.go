package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateNominationRequest struct {
	PunishmentID    uint   `json:"punishment_id" binding:"required"`
	NominatedUserID uint   `json:"nominated_user_id" binding:"required"`
	Reason          string `json:"reason" binding:"required"`
	VotingHours     int    `json:"voting_hours" binding:"required"`
}

func (req *CreateNominationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PunishmentID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.NominatedUserID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Reason, validation.Required, validation.Length(2, 500)),
		validation.Field(&req.VotingHours, validation.Required, validation.Min(1), validation.Max(168)),
	)
}

type NominationVoteRequest struct {
	Vote *bool `json:"vote"`
}

func (req *NominationVoteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Vote, validation.NotNil),
	)
}

type CreatePunishmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (req *CreatePunishmentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}
