package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errPlayerBounds = errors.New("min_players cannot exceed max_players")

type CreateGameRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MinPlayers  int    `json:"min_players"`
	MaxPlayers  int    `json:"max_players"`
}

func (req *CreateGameRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.MinPlayers, validation.Min(0)),
		validation.Field(&req.MaxPlayers, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	if req.MaxPlayers > 0 && req.MinPlayers > req.MaxPlayers {
		return errPlayerBounds
	}

	return nil
}
