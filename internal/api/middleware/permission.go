package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/gametables-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/gametables-api/internal/domain"
)

type UserLoader interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

type PermissionChecker interface {
	Can(ctx context.Context, user domain.User, permission string) (bool, error)
}

// RequirePermission must run after VerifyJWT.
func RequirePermission(users UserLoader, authz PermissionChecker, permission string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, ok := UserID(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			ctx.Abort()
			return
		}

		user, err := users.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				response.RenderErr(ctx, response.ErrUnauthorized(err))
			} else {
				response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("users.GetUser -> %w", err)))
			}
			ctx.Abort()
			return
		}

		allowed, err := authz.Can(ctx.Request.Context(), user, permission)
		if err != nil {
			response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("authz.Can -> %w", err)))
			ctx.Abort()
			return
		}
		if !allowed {
			response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %d lacks %s", user.ID, permission)))
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
