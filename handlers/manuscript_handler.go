package handlers

import (
	"strconv"

	"inkpress/helper"
	"inkpress/middleware"
	"inkpress/models"
	"inkpress/services"

	"github.com/gin-gonic/gin"
)

type ManuscriptHandler struct {
	workflow services.WorkflowService
	queues   services.QueueService
	Helper   *helper.HTTPHelper
}

func NewManuscriptHandler(workflow services.WorkflowService, queues services.QueueService) *ManuscriptHandler {
	return &ManuscriptHandler{
		workflow: workflow,
		queues:   queues,
		Helper:   &helper.HTTPHelper{},
	}
}

func (h *ManuscriptHandler) Create(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "actor not found in context", h.Helper.EmptyJsonMap())
		return
	}

	var req models.CreateManuscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	manuscript, err := h.workflow.Create(actor, req)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Manuscript created", manuscript)
}

func (h *ManuscriptHandler) Get(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "actor not found in context", h.Helper.EmptyJsonMap())
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid manuscript ID", h.Helper.EmptyJsonMap())
		return
	}

	manuscript, err := h.workflow.Get(actor, id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Manuscript loaded", manuscript)
}

func (h *ManuscriptHandler) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "actor not found in context", h.Helper.EmptyJsonMap())
		return
	}

	var params models.ManuscriptListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	manuscripts, total, err := h.queues.Manuscripts(actor, params)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Manuscripts loaded", gin.H{
		"manuscripts": manuscripts,
		"pagination":  h.Helper.GeneratePaging(c, 0, 0, params.Limit, params.Page, int(total)),
	})
}

func (h *ManuscriptHandler) Submit(c *gin.Context) {
	h.transition(c, h.workflow.Submit)
}

func (h *ManuscriptHandler) Resubmit(c *gin.Context) {
	h.transition(c, h.workflow.Resubmit)
}

func (h *ManuscriptHandler) StartReview(c *gin.Context) {
	h.transition(c, h.workflow.StartReview)
}

func (h *ManuscriptHandler) Approve(c *gin.Context) {
	h.transition(c, h.workflow.Approve)
}

func (h *ManuscriptHandler) Publish(c *gin.Context) {
	h.transition(c, h.workflow.Publish)
}

func (h *ManuscriptHandler) Reject(c *gin.Context) {
	h.reasonedTransition(c, h.workflow.Reject)
}

func (h *ManuscriptHandler) Unpublish(c *gin.Context) {
	h.reasonedTransition(c, h.workflow.Unpublish)
}

func (h *ManuscriptHandler) transition(c *gin.Context, fn func(models.Actor, uint) (*models.Manuscript, error)) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "actor not found in context", h.Helper.EmptyJsonMap())
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid manuscript ID", h.Helper.EmptyJsonMap())
		return
	}

	manuscript, err := fn(actor, id)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Transition applied", manuscript)
}

func (h *ManuscriptHandler) reasonedTransition(c *gin.Context, fn func(models.Actor, uint, string) (*models.Manuscript, error)) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		h.Helper.SendUnauthorizedError(c, "actor not found in context", h.Helper.EmptyJsonMap())
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid manuscript ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	manuscript, err := fn(actor, id, req.Reason)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Transition applied", manuscript)
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	return uint(id), err
}
