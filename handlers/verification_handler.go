package handlers

import (
	"inkpress/helper"
	"inkpress/middleware"
	"inkpress/models"
	"inkpress/services"

	"github.com/gin-gonic/gin"
)

type VerificationHandler struct {
	verification services.VerificationService
	queues       services.QueueService
	Helper       *helper.HTTPHelper
}

func NewVerificationHandler(verification services.VerificationService, queues services.QueueService) *VerificationHandler {
	return &VerificationHandler{
		verification: verification,
		queues:       queues,
		Helper:       &helper.HTTPHelper{},
	}
}

// Request lets the authenticated author ask for verification of their
// own profile.
func (h *VerificationHandler) Request(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "actor not found in context", h.Helper.EmptyJsonMap())
		return
	}

	profile, err := h.verification.Request(actor)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Verification requested", profile)
}

func (h *VerificationHandler) GetProfile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "actor not found in context", h.Helper.EmptyJsonMap())
		return
	}

	profile, err := h.verification.GetProfile(actor.ID)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", profile)
}

// ListPending is the admin queue, oldest request first.
func (h *VerificationHandler) ListPending(c *gin.Context) {
	var params models.VerificationListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	profiles, total, err := h.queues.PendingVerifications(params)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Pending verifications loaded", gin.H{
		"verifications": profiles,
		"pagination":    h.Helper.GeneratePaging(c, 0, 0, params.Limit, params.Page, int(total)),
	})
}

func (h *VerificationHandler) Approve(c *gin.Context) {
	h.decision(c, func(actor models.Actor, authorID uint, _ string) (*models.AuthorProfile, error) {
		return h.verification.Approve(actor, authorID)
	}, false)
}

func (h *VerificationHandler) Grant(c *gin.Context) {
	h.decision(c, func(actor models.Actor, authorID uint, _ string) (*models.AuthorProfile, error) {
		return h.verification.Grant(actor, authorID)
	}, false)
}

func (h *VerificationHandler) Reject(c *gin.Context) {
	h.decision(c, h.verification.Reject, true)
}

func (h *VerificationHandler) Revoke(c *gin.Context) {
	h.decision(c, h.verification.Revoke, true)
}

func (h *VerificationHandler) Suspend(c *gin.Context) {
	h.decision(c, h.verification.Suspend, true)
}

func (h *VerificationHandler) decision(c *gin.Context, fn func(models.Actor, uint, string) (*models.AuthorProfile, error), withReason bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "actor not found in context", h.Helper.EmptyJsonMap())
		return
	}

	authorID, err := parseID(c, "author_id")
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid author ID", h.Helper.EmptyJsonMap())
		return
	}

	var reason string
	if withReason {
		var req models.ReasonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
			return
		}
		reason = req.Reason
	}

	profile, err := fn(actor, authorID, reason)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Verification updated", profile)
}
