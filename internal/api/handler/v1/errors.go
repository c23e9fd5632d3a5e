package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/gametables-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/i18n"
)

var invalidInput = []error{
	domain.ErrInvalidDuration,
	domain.ErrInvalidSlotLabel,
	domain.ErrInvalidSlotRange,
	domain.ErrInvalidSlotCapacity,
	domain.ErrEmptyTitle,
	domain.ErrInvalidPlayerRange,
	domain.ErrInvalidSpectators,
	domain.ErrInvalidEarlyAccessDays,
	domain.ErrInvalidRegistrationWin,
	domain.ErrInvalidIdentity,
	domain.ErrInvalidGuest,
	domain.ErrInvalidWaitingPosition,
	domain.ErrInvalidRole,
	domain.ErrInvalidTier,
	domain.ErrInvalidAccessLevel,
	domain.ErrEmptyEventID,
	domain.ErrSlotsRequired,
	domain.ErrFixedLocationNeeded,
}

var invalidOperation = []error{
	domain.ErrCannotCancel,
	domain.ErrInvalidTransition,
	domain.ErrNotOnWaitingList,
}

// renderDomainErr maps service failures to HTTP responses. Denials carry their
// reason token and a message in the caller's language.
func renderDomainErr(ctx *gin.Context, messages *i18n.Messages, op string, err error) {
	var denial *domain.DenialError
	if errors.As(err, &denial) {
		tr := messages.ForAcceptLanguage(ctx.GetHeader("Accept-Language"))
		response.RenderErr(ctx, response.ErrDenied(denial.Reason, tr.Translate(denial.Reason), err))
		return
	}

	switch {
	case errors.Is(err, domain.ErrTableNotFound):
		response.RenderErr(ctx, response.ErrNotFound("table", "id", ctx.Param("tableID")))
		return
	case errors.Is(err, domain.ErrParticipantNotFound):
		response.RenderErr(ctx, response.ErrNotFound("participant", "id", ctx.Param("participantID")))
		return
	case errors.Is(err, domain.ErrEventConfigNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event config", "event id", ctx.Param("eventID")))
		return
	}

	for _, target := range invalidOperation {
		if errors.Is(err, target) {
			response.RenderErr(ctx, response.ErrUnprocessable(err))
			return
		}
	}
	for _, target := range invalidInput {
		if errors.Is(err, target) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", name, ctx.Param(name))))
		return 0, false
	}
	return uint(id), true
}
