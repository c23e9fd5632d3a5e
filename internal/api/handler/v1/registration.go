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
	"github.com/vietanh2810/gametables-api/internal/service"
)

var (
	errNotOwnRegistration = errors.New("registration belongs to someone else")
	errIdentityRequired   = errors.New("sign in or pass a guest email")
)

type RegistrationService interface {
	Register(ctx context.Context, in service.RegisterInput) (domain.Participant, error)
	CheckEligibility(ctx context.Context, tableID uint, identity domain.Identity, role domain.ParticipantRole) (domain.EligibilityResult, error)
	GetParticipant(ctx context.Context, participantID uint) (domain.Participant, error)
	Cancel(ctx context.Context, participantID uint) (domain.Participant, error)
	CancelByToken(ctx context.Context, token string) (domain.Participant, error)
	ConfirmParticipant(ctx context.Context, participantID uint) (domain.Participant, error)
	RejectParticipant(ctx context.Context, participantID uint) (domain.Participant, error)
	MarkNoShow(ctx context.Context, participantID uint) (domain.Participant, error)
}

type RegistrationHandler struct {
	svc      RegistrationService
	messages *i18n.Messages
}

func NewRegistrationHandler(svc RegistrationService, messages *i18n.Messages) *RegistrationHandler {
	return &RegistrationHandler{
		svc:      svc,
		messages: messages,
	}
}

// HandleEligibility godoc
// @Summary      Check registration eligibility
// @Description  Answers for the signed in user, or for the guest email given in the query.
// @Tags         registrations
// @Produce      json
// @Param        tableID  path      int     true   "Table ID"
// @Param        email    query     string  false  "Guest email"
// @Param        role     query     string  false  "Participant role"
// @Success      200      {object}  domain.EligibilityResult
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /tables/{tableID}/eligibility [get]
func (h *RegistrationHandler) HandleEligibility(ctx *gin.Context) {
	tableID, ok := uintParam(ctx, "tableID")
	if !ok {
		return
	}

	var identity domain.Identity
	if userID, ok := middleware.UserID(ctx); ok {
		identity = domain.UserIdentity(userID)
	} else if email := ctx.Query("email"); email != "" {
		identity = domain.GuestIdentity(email)
	} else {
		response.RenderErr(ctx, response.ErrBadRequest(errIdentityRequired))
		return
	}

	result, err := h.svc.CheckEligibility(ctx.Request.Context(), tableID, identity, domain.ParticipantRole(ctx.Query("role")))
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleEligibility -> h.svc.CheckEligibility", err)
		return
	}

	if !result.Eligible {
		result.Message = h.messages.ForAcceptLanguage(ctx.GetHeader("Accept-Language")).Translate(result.Reason)
	}
	ctx.JSON(http.StatusOK, result)
}

// HandleRegister godoc
// @Summary      Register the signed in user on a table
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        tableID  path      int                      true  "Table ID"
// @Param        request  body      request.RegisterRequest  true  "request body"
// @Success      201      {object}  response.Participant
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /tables/{tableID}/participants [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleRegister(ctx *gin.Context) {
	tableID, ok := uintParam(ctx, "tableID")
	if !ok {
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errIdentityRequired))
		return
	}

	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participant, err := h.svc.Register(ctx.Request.Context(), service.RegisterInput{
		TableID:  tableID,
		Identity: domain.UserIdentity(userID),
		Role:     domain.ParticipantRole(req.Role),
		Notes:    req.Notes,
	})
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleRegister -> h.svc.Register", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.NewParticipant(participant))
}

// HandleRegisterGuest godoc
// @Summary      Register a guest on a table
// @Description  The cancellation token is only returned in this response.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        tableID  path      int                           true  "Table ID"
// @Param        request  body      request.GuestRegisterRequest  true  "request body"
// @Success      201      {object}  response.GuestRegistration
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /tables/{tableID}/guests [post]
func (h *RegistrationHandler) HandleRegisterGuest(ctx *gin.Context) {
	tableID, ok := uintParam(ctx, "tableID")
	if !ok {
		return
	}

	var req request.GuestRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	participant, err := h.svc.Register(ctx.Request.Context(), service.RegisterInput{
		TableID:  tableID,
		Identity: domain.GuestIdentity(req.Email),
		Guest: &domain.Guest{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		},
		Role:  domain.ParticipantRole(req.Role),
		Notes: req.Notes,
	})
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleRegisterGuest -> h.svc.Register", err)
		return
	}

	out := response.GuestRegistration{Participant: response.NewParticipant(participant)}
	if participant.Guest != nil {
		out.CancellationToken = participant.Guest.CancellationToken
	}
	ctx.JSON(http.StatusCreated, out)
}

// HandleCancel godoc
// @Summary      Cancel the signed in user's registration
// @Tags         registrations
// @Produce      json
// @Param        participantID  path      int  true  "Participant ID"
// @Success      200            {object}  response.Participant
// @Failure      403            {object}  response.Err
// @Failure      404            {object}  response.Err
// @Failure      422            {object}  response.Err
// @Router       /participants/{participantID} [delete]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleCancel(ctx *gin.Context) {
	participantID, ok := uintParam(ctx, "participantID")
	if !ok {
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrUnauthorized(errIdentityRequired))
		return
	}

	participant, err := h.svc.GetParticipant(ctx.Request.Context(), participantID)
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleCancel -> h.svc.GetParticipant", err)
		return
	}
	if participant.UserID == nil || *participant.UserID != userID {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("participant %d: %w", participantID, errNotOwnRegistration)))
		return
	}

	cancelled, err := h.svc.Cancel(ctx.Request.Context(), participantID)
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleCancel -> h.svc.Cancel", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipant(cancelled))
}

// HandleCancelByToken godoc
// @Summary      Cancel a guest registration
// @Tags         registrations
// @Produce      json
// @Param        token  path      string  true  "Cancellation token"
// @Success      200    {object}  response.Participant
// @Failure      404    {object}  response.Err
// @Failure      422    {object}  response.Err
// @Router       /guests/cancel/{token} [post]
func (h *RegistrationHandler) HandleCancelByToken(ctx *gin.Context) {
	cancelled, err := h.svc.CancelByToken(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		renderDomainErr(ctx, h.messages, "v1.HandleCancelByToken -> h.svc.CancelByToken", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipant(cancelled))
}

// HandleConfirm godoc
// @Summary      Confirm a pending participant
// @Tags         moderation
// @Produce      json
// @Param        participantID  path      int  true  "Participant ID"
// @Success      200            {object}  response.Participant
// @Failure      404            {object}  response.Err
// @Failure      409            {object}  response.Err
// @Failure      422            {object}  response.Err
// @Router       /participants/{participantID}/confirm [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleConfirm(ctx *gin.Context) {
	h.moderate(ctx, "v1.HandleConfirm -> h.svc.ConfirmParticipant", h.svc.ConfirmParticipant)
}

// HandleReject godoc
// @Summary      Reject a pending participant
// @Tags         moderation
// @Produce      json
// @Param        participantID  path      int  true  "Participant ID"
// @Success      200            {object}  response.Participant
// @Failure      404            {object}  response.Err
// @Failure      422            {object}  response.Err
// @Router       /participants/{participantID}/reject [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleReject(ctx *gin.Context) {
	h.moderate(ctx, "v1.HandleReject -> h.svc.RejectParticipant", h.svc.RejectParticipant)
}

// HandleNoShow godoc
// @Summary      Mark a confirmed participant as absent
// @Tags         moderation
// @Produce      json
// @Param        participantID  path      int  true  "Participant ID"
// @Success      200            {object}  response.Participant
// @Failure      404            {object}  response.Err
// @Failure      422            {object}  response.Err
// @Router       /participants/{participantID}/no-show [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleNoShow(ctx *gin.Context) {
	h.moderate(ctx, "v1.HandleNoShow -> h.svc.MarkNoShow", h.svc.MarkNoShow)
}

func (h *RegistrationHandler) moderate(ctx *gin.Context, op string, action func(context.Context, uint) (domain.Participant, error)) {
	participantID, ok := uintParam(ctx, "participantID")
	if !ok {
		return
	}

	participant, err := action(ctx.Request.Context(), participantID)
	if err != nil {
		renderDomainErr(ctx, h.messages, op, err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewParticipant(participant))
}
