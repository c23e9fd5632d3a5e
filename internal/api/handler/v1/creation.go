package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/gametables-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/gametables-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/gametables-api/internal/api/middleware"
	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/i18n"
)

var (
	errUnknownContentType = errors.New("type must be table or campaign")
)

type CreationService interface {
	CanCreateTable(ctx context.Context, settings domain.CreationSettings, userID *uint) (domain.CreationEligibility, error)
	CanCreateCampaign(ctx context.Context, settings domain.CreationSettings, userID *uint) (domain.CreationEligibility, error)
}

type EventCreationService interface {
	CanCreateTableForEvent(ctx context.Context, settings domain.CreationSettings, eventID string, userID *uint) (domain.CreationEligibility, error)
}

type EventConfigService interface {
	Get(ctx context.Context, eventID string) (domain.EventGameTableConfig, error)
	Save(ctx context.Context, config domain.EventGameTableConfig) (domain.EventGameTableConfig, error)
}

type CreationHandler struct {
	creation      CreationService
	eventCreation EventCreationService
	configs       EventConfigService
	settings      SettingsSource
	messages      *i18n.Messages
}

func NewCreationHandler(creation CreationService, eventCreation EventCreationService, configs EventConfigService, settings SettingsSource, messages *i18n.Messages) *CreationHandler {
	return &CreationHandler{
		creation:      creation,
		eventCreation: eventCreation,
		configs:       configs,
		settings:      settings,
		messages:      messages,
	}
}

// HandleCreationEligibility godoc
// @Summary      Check whether the caller may create content
// @Tags         creation
// @Produce      json
// @Param        type  query     string  false  "table or campaign"  default(table)
// @Success      200   {object}  response.CreationEligibility
// @Failure      400   {object}  response.Err
// @Router       /creation/eligibility [get]
func (h *CreationHandler) HandleCreationEligibility(ctx *gin.Context) {
	settings := h.settings.Snapshot()
	userID := optionalUserID(ctx)

	var (
		result domain.CreationEligibility
		err    error
	)
	switch ctx.DefaultQuery("type", "table") {
	case "table":
		result, err = h.creation.CanCreateTable(ctx.Request.Context(), settings, userID)
	case "campaign":
		result, err = h.creation.CanCreateCampaign(ctx.Request.Context(), settings, userID)
	default:
		response.RenderErr(ctx, response.ErrBadRequest(errUnknownContentType))
		return
	}
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleCreationEligibility", err)
		return
	}

	ctx.JSON(http.StatusOK, h.localize(ctx, result))
}

// HandleEventCreationEligibility godoc
// @Summary      Check whether the caller may create a table for an event
// @Tags         creation
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {object}  response.CreationEligibility
// @Router       /events/{eventID}/creation/eligibility [get]
func (h *CreationHandler) HandleEventCreationEligibility(ctx *gin.Context) {
	result, err := h.eventCreation.CanCreateTableForEvent(ctx.Request.Context(), h.settings.Snapshot(), ctx.Param("eventID"), optionalUserID(ctx))
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleEventCreationEligibility -> h.eventCreation.CanCreateTableForEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, h.localize(ctx, result))
}

// HandleGetEventConfig godoc
// @Summary      Get an event's table configuration
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {object}  domain.EventGameTableConfig
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/config [get]
func (h *CreationHandler) HandleGetEventConfig(ctx *gin.Context) {
	config, err := h.configs.Get(ctx.Request.Context(), ctx.Param("eventID"))
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleGetEventConfig -> h.configs.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, config)
}

// HandlePutEventConfig godoc
// @Summary      Replace an event's table configuration
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                       true  "Event ID"
// @Param        request  body      request.EventConfigRequest  true  "request body"
// @Success      200      {object}  domain.EventGameTableConfig
// @Failure      400      {object}  response.Err
// @Router       /events/{eventID}/config [put]
// @Security     BearerAuth
func (h *CreationHandler) HandlePutEventConfig(ctx *gin.Context) {
	var req request.EventConfigRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	config, err := req.ToDomain(ctx.Param("eventID"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("event config: %w", err)))
		return
	}

	saved, err := h.configs.Save(ctx.Request.Context(), config)
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandlePutEventConfig -> h.configs.Save", err)
		return
	}

	ctx.JSON(http.StatusOK, saved)
}

func (h *CreationHandler) localize(ctx *gin.Context, result domain.CreationEligibility) response.CreationEligibility {
	if !result.Eligible {
		result.Message = h.messages.ForAcceptLanguage(ctx.GetHeader("Accept-Language")).Translate(result.Reason)
	}
	return response.NewCreationEligibility(result)
}

func optionalUserID(ctx *gin.Context) *uint {
	if userID, ok := middleware.UserID(ctx); ok {
		return &userID
	}
	return nil
}
