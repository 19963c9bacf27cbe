package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lanpahub/lanpa-api/internal/api/handler/v1/request"
	"github.com/lanpahub/lanpa-api/internal/api/handler/v1/response"
	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/service"
)

type LanpaService interface {
	CreateLanpa(ctx context.Context, lanpa domain.Lanpa) (domain.Lanpa, error)
	GetLanpas(ctx context.Context, userID uint) ([]domain.Lanpa, error)
	GetLanpa(ctx context.Context, lanpaID, userID uint) (domain.Lanpa, error)
	UpdateLanpa(ctx context.Context, lanpaID, userID uint, fields map[string]any) (domain.Lanpa, error)
	RequestTransition(ctx context.Context, lanpaID uint, requested domain.LanpaStatus, actingUserID uint) (domain.Lanpa, error)
	MarkHistory(ctx context.Context, lanpaID, userID uint) (domain.Lanpa, error)
	SuggestGame(ctx context.Context, lanpaID, gameID, userID uint) (domain.GameSuggestion, error)
	GetSuggestions(ctx context.Context, lanpaID, userID uint) ([]domain.GameSuggestion, error)
	VoteGame(ctx context.Context, lanpaID, gameID, userID uint) (domain.GameVote, error)
	GetVoteResults(ctx context.Context, lanpaID, userID uint) ([]domain.GameVoteCount, error)
	SelectGameManually(ctx context.Context, lanpaID, gameID, userID uint) (domain.Lanpa, error)
	InviteMember(ctx context.Context, lanpaID, inviteeID, userID uint) (domain.LanpaMember, error)
	RespondInvite(ctx context.Context, lanpaID, targetUserID, actingUserID uint, accept bool) error
	GetMembers(ctx context.Context, lanpaID, userID uint) ([]domain.LanpaMember, error)
	CreateInvitation(ctx context.Context, lanpaID, userID uint, validHours int, maxUses *int) (domain.Invitation, error)
	RedeemInvitation(ctx context.Context, token string, userID uint) (domain.LanpaMember, error)
	GetInvitations(ctx context.Context, lanpaID, userID uint) ([]domain.Invitation, error)
}

type LanpaHandler struct {
	svc LanpaService
}

func NewLanpaHandler(svc LanpaService) *LanpaHandler {
	return &LanpaHandler{
		svc: svc,
	}
}

// renderLanpaErr maps the service errors shared by most lanpa operations.
// Handlers deal with their operation-specific errors before falling back here.
func renderLanpaErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrLanpaNotFound):
		response.RenderErr(ctx, response.ErrNotFound("lanpa", "id", ctx.Param("id")))
	case errors.Is(err, service.ErrNotLanpaAdmin), errors.Is(err, service.ErrNotLanpaMember):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}

// HandleCreateLanpa godoc
// @Summary      Create a lanpa in draft status
// @Tags         lanpas
// @Produce      json
// @Param        request  body      request.CreateLanpaRequest true "request body"
// @Success      201      {object}  domain.Lanpa
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas [post]
func (h *LanpaHandler) HandleCreateLanpa(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateLanpaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	lanpa := domain.Lanpa{
		Name:        req.Name,
		Description: req.Description,
		AdminID:     userID,
	}
	if req.ScheduledDate != "" {
		scheduled, err := time.Parse(time.RFC3339, req.ScheduledDate)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		lanpa.ScheduledDate = &scheduled
	}

	created, err := h.svc.CreateLanpa(ctx.Request.Context(), lanpa)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateLanpa -> h.svc.CreateLanpa -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetLanpas godoc
// @Summary      List the lanpas the caller belongs to
// @Tags         lanpas
// @Produce      json
// @Success      200  {array}   domain.Lanpa
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas [get]
func (h *LanpaHandler) HandleGetLanpas(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	lanpas, err := h.svc.GetLanpas(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetLanpas -> h.svc.GetLanpas -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, lanpas)
}

// HandleGetLanpa godoc
// @Summary      Get a lanpa with its members
// @Tags         lanpas
// @Produce      json
// @Param        id   path      int  true  "lanpa ID"
// @Success      200  {object}  domain.Lanpa
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id} [get]
func (h *LanpaHandler) HandleGetLanpa(ctx *gin.Context) {
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

	lanpa, err := h.svc.GetLanpa(ctx.Request.Context(), lanpaID, userID)
	if err != nil {
		renderLanpaErr(ctx, "v1.HandleGetLanpa -> h.svc.GetLanpa", err)
		return
	}

	ctx.JSON(http.StatusOK, lanpa)
}

// HandleUpdateLanpa godoc
// @Summary      Update a lanpa's name, description or scheduled date
// @Tags         lanpas
// @Produce      json
// @Param        id       path      int                        true  "lanpa ID"
// @Param        request  body      request.UpdateLanpaRequest true  "request body"
// @Success      200      {object}  domain.Lanpa
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id} [patch]
func (h *LanpaHandler) HandleUpdateLanpa(ctx *gin.Context) {
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

	var req request.UpdateLanpaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ScheduledDate != nil {
		scheduled, err := time.Parse(time.RFC3339, *req.ScheduledDate)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		fields["scheduled_date"] = scheduled
	}
	if len(fields) == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("no fields to update")))
		return
	}

	lanpa, err := h.svc.UpdateLanpa(ctx.Request.Context(), lanpaID, userID, fields)
	if err != nil {
		renderLanpaErr(ctx, "v1.HandleUpdateLanpa -> h.svc.UpdateLanpa", err)
		return
	}

	ctx.JSON(http.StatusOK, lanpa)
}

// HandleTransition godoc
// @Summary      Move a lanpa to another status
// @Description  Entering in_progress from voting_active freezes the game vote.
// @Tags         lanpas
// @Produce      json
// @Param        id       path      int                       true  "lanpa ID"
// @Param        request  body      request.TransitionRequest true  "request body"
// @Success      200      {object}  domain.Lanpa
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/transition [post]
func (h *LanpaHandler) HandleTransition(ctx *gin.Context) {
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

	var req request.TransitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	lanpa, err := h.svc.RequestTransition(ctx.Request.Context(), lanpaID, domain.LanpaStatus(req.Status), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStatus), errors.Is(err, service.ErrIllegalTransition):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrLanpaStatusChanged):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			renderLanpaErr(ctx, "v1.HandleTransition -> h.svc.RequestTransition", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, lanpa)
}

// HandleMarkHistory godoc
// @Summary      Archive a lanpa as historical
// @Tags         lanpas
// @Produce      json
// @Param        id   path      int  true  "lanpa ID"
// @Success      200  {object}  domain.Lanpa
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/history [post]
func (h *LanpaHandler) HandleMarkHistory(ctx *gin.Context) {
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

	lanpa, err := h.svc.MarkHistory(ctx.Request.Context(), lanpaID, userID)
	if err != nil {
		renderLanpaErr(ctx, "v1.HandleMarkHistory -> h.svc.MarkHistory", err)
		return
	}

	ctx.JSON(http.StatusOK, lanpa)
}

// HandleSuggestGame godoc
// @Summary      Suggest a game for a lanpa
// @Tags         lanpas
// @Produce      json
// @Param        id       path      int                        true  "lanpa ID"
// @Param        request  body      request.SuggestGameRequest true  "request body"
// @Success      201      {object}  domain.GameSuggestion
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/suggestions [post]
func (h *LanpaHandler) HandleSuggestGame(ctx *gin.Context) {
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

	var req request.SuggestGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	suggestion, err := h.svc.SuggestGame(ctx.Request.Context(), lanpaID, req.GameID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongLanpaStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrGameNotFound):
			response.RenderErr(ctx, response.ErrNotFound("game", "id", req.GameID))
		case errors.Is(err, service.ErrDuplicateSuggestion):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			renderLanpaErr(ctx, "v1.HandleSuggestGame -> h.svc.SuggestGame", err)
		}
		return
	}

	ctx.JSON(http.StatusCreated, suggestion)
}

// HandleGetSuggestions godoc
// @Summary      List the games suggested for a lanpa
// @Tags         lanpas
// @Produce      json
// @Param        id   path      int  true  "lanpa ID"
// @Success      200  {array}   domain.GameSuggestion
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/suggestions [get]
func (h *LanpaHandler) HandleGetSuggestions(ctx *gin.Context) {
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

	suggestions, err := h.svc.GetSuggestions(ctx.Request.Context(), lanpaID, userID)
	if err != nil {
		renderLanpaErr(ctx, "v1.HandleGetSuggestions -> h.svc.GetSuggestions", err)
		return
	}

	ctx.JSON(http.StatusOK, suggestions)
}

// HandleVoteGame godoc
// @Summary      Vote for a suggested game
// @Description  Voting again replaces the previous vote.
// @Tags         lanpas
// @Produce      json
// @Param        id       path      int                     true  "lanpa ID"
// @Param        request  body      request.GameVoteRequest true  "request body"
// @Success      200      {object}  domain.GameVote
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/votes [put]
func (h *LanpaHandler) HandleVoteGame(ctx *gin.Context) {
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

	var req request.GameVoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	vote, err := h.svc.VoteGame(ctx.Request.Context(), lanpaID, req.GameID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongLanpaStatus), errors.Is(err, service.ErrGameNotSuggested):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			renderLanpaErr(ctx, "v1.HandleVoteGame -> h.svc.VoteGame", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, vote)
}

// HandleGetVoteResults godoc
// @Summary      Get the game vote tally for a lanpa
// @Tags         lanpas
// @Produce      json
// @Param        id   path      int  true  "lanpa ID"
// @Success      200  {array}   domain.GameVoteCount
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/votes [get]
func (h *LanpaHandler) HandleGetVoteResults(ctx *gin.Context) {
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

	results, err := h.svc.GetVoteResults(ctx.Request.Context(), lanpaID, userID)
	if err != nil {
		renderLanpaErr(ctx, "v1.HandleGetVoteResults -> h.svc.GetVoteResults", err)
		return
	}

	ctx.JSON(http.StatusOK, results)
}

// HandleSelectGame godoc
// @Summary      Override the selected game for a running lanpa
// @Tags         lanpas
// @Produce      json
// @Param        id       path      int                       true  "lanpa ID"
// @Param        request  body      request.SelectGameRequest true  "request body"
// @Success      200      {object}  domain.Lanpa
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/selected-game [put]
func (h *LanpaHandler) HandleSelectGame(ctx *gin.Context) {
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

	var req request.SelectGameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	lanpa, err := h.svc.SelectGameManually(ctx.Request.Context(), lanpaID, req.GameID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongLanpaStatus), errors.Is(err, service.ErrGameNotSuggested):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			renderLanpaErr(ctx, "v1.HandleSelectGame -> h.svc.SelectGameManually", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, lanpa)
}

// HandleInviteMember godoc
// @Summary      Invite a user to a lanpa
// @Tags         lanpas
// @Produce      json
// @Param        id       path      int                         true  "lanpa ID"
// @Param        request  body      request.InviteMemberRequest true  "request body"
// @Success      201      {object}  domain.LanpaMember
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/members [post]
func (h *LanpaHandler) HandleInviteMember(ctx *gin.Context) {
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

	var req request.InviteMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	member, err := h.svc.InviteMember(ctx.Request.Context(), lanpaID, req.UserID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "id", req.UserID))
		case errors.Is(err, service.ErrMemberExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			renderLanpaErr(ctx, "v1.HandleInviteMember -> h.svc.InviteMember", err)
		}
		return
	}

	ctx.JSON(http.StatusCreated, member)
}

// HandleRespondInvite godoc
// @Summary      Accept or decline a lanpa invite
// @Tags         lanpas
// @Produce      json
// @Param        id       path      int                          true  "lanpa ID"
// @Param        request  body      request.RespondInviteRequest true  "request body"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/members/respond [post]
func (h *LanpaHandler) HandleRespondInvite(ctx *gin.Context) {
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

	var req request.RespondInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	targetUserID := userID
	if req.UserID != nil {
		targetUserID = *req.UserID
	}

	err := h.svc.RespondInvite(ctx.Request.Context(), lanpaID, targetUserID, userID, *req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMemberNotFound):
			response.RenderErr(ctx, response.ErrNotFound("member", "user_id", targetUserID))
		case errors.Is(err, service.ErrNotInvited):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			renderLanpaErr(ctx, "v1.HandleRespondInvite -> h.svc.RespondInvite", err)
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetMembers godoc
// @Summary      List the members of a lanpa
// @Tags         lanpas
// @Produce      json
// @Param        id   path      int  true  "lanpa ID"
// @Success      200  {array}   domain.LanpaMember
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/members [get]
func (h *LanpaHandler) HandleGetMembers(ctx *gin.Context) {
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

	members, err := h.svc.GetMembers(ctx.Request.Context(), lanpaID, userID)
	if err != nil {
		renderLanpaErr(ctx, "v1.HandleGetMembers -> h.svc.GetMembers", err)
		return
	}

	ctx.JSON(http.StatusOK, members)
}

// HandleCreateInvitation godoc
// @Summary      Create a shareable invitation token
// @Tags         lanpas
// @Produce      json
// @Param        id       path      int                             true  "lanpa ID"
// @Param        request  body      request.CreateInvitationRequest true  "request body"
// @Success      201      {object}  domain.Invitation
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/invitations [post]
func (h *LanpaHandler) HandleCreateInvitation(ctx *gin.Context) {
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

	var req request.CreateInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	invitation, err := h.svc.CreateInvitation(ctx.Request.Context(), lanpaID, userID, req.ValidHours, req.MaxUses)
	if err != nil {
		renderLanpaErr(ctx, "v1.HandleCreateInvitation -> h.svc.CreateInvitation", err)
		return
	}

	ctx.JSON(http.StatusCreated, invitation)
}

// HandleGetInvitations godoc
// @Summary      List a lanpa's invitation tokens
// @Tags         lanpas
// @Produce      json
// @Param        id   path      int  true  "lanpa ID"
// @Success      200  {array}   domain.Invitation
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /lanpas/{id}/invitations [get]
func (h *LanpaHandler) HandleGetInvitations(ctx *gin.Context) {
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

	invitations, err := h.svc.GetInvitations(ctx.Request.Context(), lanpaID, userID)
	if err != nil {
		renderLanpaErr(ctx, "v1.HandleGetInvitations -> h.svc.GetInvitations", err)
		return
	}

	ctx.JSON(http.StatusOK, invitations)
}

// HandleRedeemInvitation godoc
// @Summary      Join a lanpa with an invitation token
// @Tags         lanpas
// @Produce      json
// @Param        token  path      string  true  "invitation token"
// @Success      201    {object}  domain.LanpaMember
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Security     BearerToken
// @Router       /invitations/{token}/redeem [post]
func (h *LanpaHandler) HandleRedeemInvitation(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	token := ctx.Param("token")
	if token == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("missing invitation token")))
		return
	}

	member, err := h.svc.RedeemInvitation(ctx.Request.Context(), token, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("invitation", "token", token))
		case errors.Is(err, service.ErrInvitationExpired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, service.ErrInvitationExhausted), errors.Is(err, service.ErrMemberExists):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleRedeemInvitation -> h.svc.RedeemInvitation -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, member)
}
