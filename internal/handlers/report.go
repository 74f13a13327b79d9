package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/axiroad/roadworks-backend/internal/services"
)

type ReportHandler struct {
	aggregateService services.AggregateService
}

func NewReportHandler(aggregateService services.AggregateService) *ReportHandler {
	return &ReportHandler{aggregateService: aggregateService}
}

func (rh *ReportHandler) Items(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := rh.aggregateService.ByFilter(c.Request.Context(), filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

type itemsByIDsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

func (rh *ReportHandler) ItemsByIDs(c *gin.Context) {
	var req itemsByIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := rh.aggregateService.ByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
