package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/gametables-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/gametables-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/i18n"
)

type TableService interface {
	Create(ctx context.Context, settings domain.CreationSettings, creatorID *uint, draft domain.Table) (domain.Table, error)
	Publish(ctx context.Context, tableID uint) (domain.Table, error)
	Transition(ctx context.Context, tableID uint, target domain.TableStatus) (domain.Table, error)
}

type SettingsSource interface {
	Snapshot() domain.CreationSettings
}

type TableHandler struct {
	svc      TableService
	settings SettingsSource
	messages *i18n.Messages
}

func NewTableHandler(svc TableService, settings SettingsSource, messages *i18n.Messages) *TableHandler {
	return &TableHandler{
		svc:      svc,
		settings: settings,
		messages: messages,
	}
}

// HandleCreate godoc
// @Summary      Create a draft table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateTableRequest  true  "request body"
// @Success      201      {object}  response.Table
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /tables [post]
// @Security     BearerAuth
func (h *TableHandler) HandleCreate(ctx *gin.Context) {
	var req request.CreateTableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	draft, err := req.ToDomain()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	table, err := h.svc.Create(ctx.Request.Context(), h.settings.Snapshot(), optionalUserID(ctx), draft)
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleCreate -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.NewTable(table))
}

// HandlePublish godoc
// @Summary      Publish a draft table
// @Tags         tables
// @Produce      json
// @Param        tableID  path      int  true  "Table ID"
// @Success      200      {object}  response.Table
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /tables/{tableID}/publish [post]
// @Security     BearerAuth
func (h *TableHandler) HandlePublish(ctx *gin.Context) {
	tableID, ok := uintParam(ctx, "tableID")
	if !ok {
		return
	}

	table, err := h.svc.Publish(ctx.Request.Context(), tableID)
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandlePublish -> h.svc.Publish", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewTable(table))
}

// HandleTransition godoc
// @Summary      Move a table to another status
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        tableID  path      int                        true  "Table ID"
// @Param        request  body      request.TransitionRequest  true  "request body"
// @Success      200      {object}  response.Table
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Router       /tables/{tableID}/transition [post]
// @Security     BearerAuth
func (h *TableHandler) HandleTransition(ctx *gin.Context) {
	tableID, ok := uintParam(ctx, "tableID")
	if !ok {
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

	table, err := h.svc.Transition(ctx.Request.Context(), tableID, domain.TableStatus(req.Status))
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleTransition -> h.svc.Transition", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewTable(table))
}
