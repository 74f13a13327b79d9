package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/axiroad/roadworks-backend/internal/services"
)

type BatchHandler struct {
	dedupService    services.DedupService
	auditService    services.AuditService
	templateService services.TemplateService
}

func NewBatchHandler(dedupService services.DedupService, auditService services.AuditService, templateService services.TemplateService) *BatchHandler {
	return &BatchHandler{
		dedupService:    dedupService,
		auditService:    auditService,
		templateService: templateService,
	}
}

func (bh *BatchHandler) Dedup(c *gin.Context) {
	report, err := bh.dedupService.Run(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"report": report})
}

func (bh *BatchHandler) Audit(c *gin.Context) {
	report, err := bh.auditService.Run(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"report": report})
}

func (bh *BatchHandler) RebuildTemplates(c *gin.Context) {
	if err := bh.templateService.Rebuild(c.Request.Context()); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"rebuilt": true})
}
