package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lanpahub/lanpa-api/internal/api/handler/v1/response"
	"github.com/lanpahub/lanpa-api/internal/domain"
	"github.com/lanpahub/lanpa-api/internal/service"
)

type NotificationService interface {
	GetNotifications(ctx context.Context, userID uint) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

type NotificationHandler struct {
	svc NotificationService
}

func NewNotificationHandler(svc NotificationService) *NotificationHandler {
	return &NotificationHandler{
		svc: svc,
	}
}

// HandleGetNotifications godoc
// @Summary      List the caller's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Success      200  {array}   domain.Notification
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /notifications [get]
func (h *NotificationHandler) HandleGetNotifications(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	notifications, err := h.svc.GetNotifications(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetNotifications -> h.svc.GetNotifications -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, notifications)
}

// HandleMarkNotificationRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id   path  int  true  "notification ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Security     BearerToken
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) HandleMarkNotificationRead(ctx *gin.Context) {
	userID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.MarkRead(ctx.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("notification", "id", id))
			return
		}

		err = fmt.Errorf("v1.HandleMarkNotificationRead -> h.svc.MarkRead -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
