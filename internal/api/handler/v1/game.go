package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanpahub/lanpa-api/internal/api/handler/v1/request"
	"github.com/lanpahub/lanpa-api/internal/api/handler/v1/response"
	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/service"
)

type GameService interface {
	CreateGame(ctx context.Context, game domain.Game) (domain.Game, error)
	GetGame(ctx context.Context, id uint) (domain.Game, error)
	GetGames(ctx context.Context) ([]domain.Game, error)
	CreatePunishment(ctx context.Context, punishment domain.Punishment) (domain.Punishment, error)
	GetPunishments(ctx context.Context) ([]domain.Punishment, error)
}

type GameHandler struct {
	svc GameService
}

func NewGameHandler(svc GameService) *GameHandler {
	return &GameHandler{
		svc: svc,
	}
}

// HandleCreateGame godoc
// @Summary      Add a game to the catalog
// @Tags         games
// @Produce      json
// @Param        request  body      request.CreateGameRequest true "request body"
// @Success      201      {object}  domain.Game
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /games [post]
func (h *GameHandler) HandleCreateGame(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	game, err := h.svc.CreateGame(ctx.Request.Context(), domain.Game{
		Name:        req.Name,
		Description: req.Description,
		MinPlayers:  req.MinPlayers,
		MaxPlayers:  req.MaxPlayers,
		CreatedBy:   userID,
	})
	if err != nil {
		if errors.Is(err, service.ErrGameNameExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrGameNameExists))
			return
		}

		err = fmt.Errorf("v1.HandleCreateGame -> h.svc.CreateGame -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, game)
}

// HandleGetGames godoc
// @Summary      List the game catalog
// @Tags         games
// @Produce      json
// @Success      200  {array}   domain.Game
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /games [get]
func (h *GameHandler) HandleGetGames(ctx *gin.Context) {
	games, err := h.svc.GetGames(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetGames -> h.svc.GetGames -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, games)
}

// HandleGetGame godoc
// @Summary      Get a game by ID
// @Tags         games
// @Produce      json
// @Param        id   path      int  true  "game ID"
// @Success      200  {object}  domain.Game
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /games/{id} [get]
func (h *GameHandler) HandleGetGame(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	game, err := h.svc.GetGame(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("game", "id", id))
			return
		}

		err = fmt.Errorf("v1.HandleGetGame -> h.svc.GetGame -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, game)
}

// HandleCreatePunishment godoc
// @Summary      Add a punishment to the catalog
// @Tags         punishments
// @Produce      json
// @Param        request  body      request.CreatePunishmentRequest true "request body"
// @Success      201      {object}  domain.Punishment
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /punishments [post]
func (h *GameHandler) HandleCreatePunishment(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePunishmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	punishment, err := h.svc.CreatePunishment(ctx.Request.Context(), domain.Punishment{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreatePunishment -> h.svc.CreatePunishment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, punishment)
}

// HandleGetPunishments godoc
// @Summary      List the punishment catalog
// @Tags         punishments
// @Produce      json
// @Success      200  {array}   domain.Punishment
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /punishments [get]
func (h *GameHandler) HandleGetPunishments(ctx *gin.Context) {
	punishments, err := h.svc.GetPunishments(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPunishments -> h.svc.GetPunishments -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, punishments)
}
