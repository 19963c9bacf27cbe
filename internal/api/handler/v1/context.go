package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lanpahub/lanpa-api/internal/api/handler/v1/response"
	"github.com/lanpahub/lanpa-api/internal/api/middleware"
)

// getUserIDFromContext reads the authenticated principal's id that the JWT
// middleware stored on the request.
func getUserIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	raw, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return 0, response.ErrUnauthorized("missing authentication")
	}

	userID, ok := raw.(uint)
	if !ok || userID == 0 {
		return 0, response.ErrUnauthorized("invalid authentication")
	}

	return userID, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v: %q", name, ctx.Param(name)))
	}

	return uint(id), nil
}
