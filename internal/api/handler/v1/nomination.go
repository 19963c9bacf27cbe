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

type NominationService interface {
	CreateNomination(ctx context.Context, lanpaID, punishmentID, nominatedUserID, nominatorID uint, reason string, votingHours int) (domain.PunishmentNomination, error)
	CastVote(ctx context.Context, nominationID, voterID uint, vote bool) (domain.PunishmentVote, error)
	Finalize(ctx context.Context, nominationID uint) (domain.NominationOutcome, error)
	GetNominations(ctx context.Context, lanpaID, userID uint) ([]domain.PunishmentNomination, error)
	GetUserPunishments(ctx context.Context, userID uint) ([]domain.UserPunishment, error)
}

type NominationHandler struct {
	svc NominationService
}

func NewNominationHandler(svc NominationService) *NominationHandler {
	return &NominationHandler{
		svc: svc,
	}
}

// HandleCreateNomination godoc
// @Summary      Nominate a member for a punishment
// @Description  Opens a voting window of 1 to 168 hours.
// @Tags         nominations
// @Produce      json
// @Param        id       path      int                             true  "lanpa ID"
// @Param        request  body      request.CreateNominationRequest true  "request body"
// @Success      201      {object}  domain.PunishmentNomination
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/nominations [post]
func (h *NominationHandler) HandleCreateNomination(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	lanpaID, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateNominationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	nomination, err := h.svc.CreateNomination(ctx.Request.Context(), lanpaID,
		req.PunishmentID, req.NominatedUserID, userID, req.Reason, req.VotingHours)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVotingWindow), errors.Is(err, service.ErrNomineeNotMember):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrNotLanpaMember):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrLanpaNotFound):
			response.RenderErr(ctx, response.ErrNotFound("lanpa", "id", lanpaID))
		case errors.Is(err, service.ErrPunishmentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("punishment", "id", req.PunishmentID))
		case errors.Is(err, service.ErrDuplicatePendingNomination):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleCreateNomination -> h.svc.CreateNomination -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, nomination)
}

// HandleGetNominations godoc
// @Summary      List a lanpa's punishment nominations
// @Tags         nominations
// @Produce      json
// @Param        id   path      int  true  "lanpa ID"
// @Success      200  {array}   domain.PunishmentNomination
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/nominations [get]
func (h *NominationHandler) HandleGetNominations(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	lanpaID, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	nominations, err := h.svc.GetNominations(ctx.Request.Context(), lanpaID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotLanpaMember):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		case errors.Is(err, service.ErrLanpaNotFound):
			response.RenderErr(ctx, response.ErrNotFound("lanpa", "id", lanpaID))
		default:
			err = fmt.Errorf("v1.HandleGetNominations -> h.svc.GetNominations -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, nominations)
}

// HandleNominationVote godoc
// @Summary      Vote on a punishment nomination
// @Description  Re-voting overwrites the previous ballot while the window is open.
// @Tags         nominations
// @Produce      json
// @Param        id       path      int                           true  "nomination ID"
// @Param        request  body      request.NominationVoteRequest true  "request body"
// @Success      200      {object}  domain.PunishmentVote
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /nominations/{id}/votes [put]
func (h *NominationHandler) HandleNominationVote(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	nominationID, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.NominationVoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ballot, err := h.svc.CastVote(ctx.Request.Context(), nominationID, userID, *req.Vote)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNominationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("nomination", "id", nominationID))
		case errors.Is(err, service.ErrVotingClosed):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrSelfVote), errors.Is(err, service.ErrNotLanpaMember):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleNominationVote -> h.svc.CastVote -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, ballot)
}

// HandleFinalizeNomination godoc
// @Summary      Tally a nomination after its deadline
// @Description  A strict majority of guilty votes approves; ties reject.
// @Tags         nominations
// @Produce      json
// @Param        id   path      int  true  "nomination ID"
// @Success      200  {object}  domain.NominationOutcome
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /nominations/{id}/finalize [post]
func (h *NominationHandler) HandleFinalizeNomination(ctx *gin.Context) {
	nominationID, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	outcome, err := h.svc.Finalize(ctx.Request.Context(), nominationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNominationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("nomination", "id", nominationID))
		case errors.Is(err, service.ErrVotingNotEnded), errors.Is(err, service.ErrNominationFinalized):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleFinalizeNomination -> h.svc.Finalize -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, outcome)
}

// HandleGetMyPunishments godoc
// @Summary      List the punishments applied to the caller
// @Tags         nominations
// @Produce      json
// @Success      200  {array}   domain.UserPunishment
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /users/me/punishments [get]
func (h *NominationHandler) HandleGetMyPunishments(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	punishments, err := h.svc.GetUserPunishments(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyPunishments -> h.svc.GetUserPunishments -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, punishments)
}
