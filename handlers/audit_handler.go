package handlers

import (
	"inkpress/helper"
	"inkpress/models"
	"inkpress/repositories"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	audits repositories.AuditRepository
	Helper *helper.HTTPHelper
}

func NewAuditHandler(audits repositories.AuditRepository) *AuditHandler {
	return &AuditHandler{audits: audits, Helper: &helper.HTTPHelper{}}
}

func (h *AuditHandler) List(c *gin.Context) {
	var params models.AuditListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}

	entries, total, err := h.audits.GetList(params)
	if err != nil {
		h.Helper.SendDomainError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Audit trail loaded", gin.H{
		"entries":    entries,
		"pagination": h.Helper.GeneratePaging(c, 0, 0, params.Limit, params.Page, int(total)),
	})
}
