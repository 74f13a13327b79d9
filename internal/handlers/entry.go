package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/axiroad/roadworks-backend/internal/services"
)

type EntryHandler struct {
	entryService services.EntryService
}

func NewEntryHandler(entryService services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

type createEntryRequest struct {
	RoadSectionID   uuid.UUID  `json:"road_section_id" binding:"required"`
	RoadPhaseID     uuid.UUID  `json:"road_phase_id" binding:"required"`
	Side            string     `json:"side" binding:"required"`
	StartPK         float64    `json:"start_pk"`
	EndPK           float64    `json:"end_pk"`
	LayerName       string     `json:"layer_name" binding:"required"`
	CheckName       string     `json:"check_name" binding:"required"`
	Types           []string   `json:"types"`
	Remark          string     `json:"remark"`
	AppointmentDate *time.Time `json:"appointment_date"`
	SubmissionOrder *int       `json:"submission_order"`
	CreatedBy       string     `json:"created_by"`
}

type createEntriesRequest struct {
	Entries []createEntryRequest `json:"entries" binding:"required,min=1"`
}

func (eh *EntryHandler) Create(c *gin.Context) {
	var req createEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	inputs := make([]services.EntryCreateInput, 0, len(req.Entries))
	for _, e := range req.Entries {
		inputs = append(inputs, services.EntryCreateInput{
			RoadSectionID:   e.RoadSectionID,
			RoadPhaseID:     e.RoadPhaseID,
			Side:            e.Side,
			StartPK:         e.StartPK,
			EndPK:           e.EndPK,
			LayerName:       e.LayerName,
			CheckName:       e.CheckName,
			Types:           e.Types,
			Remark:          e.Remark,
			AppointmentDate: e.AppointmentDate,
			SubmissionOrder: e.SubmissionOrder,
			CreatedBy:       e.CreatedBy,
		})
	}
	rows, err := eh.entryService.CreateEntries(c.Request.Context(), inputs)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entries": rows})
}

type updateEntryRequest struct {
	Side                 *string    `json:"side"`
	StartPK              *float64   `json:"start_pk"`
	EndPK                *float64   `json:"end_pk"`
	LayerName            *string    `json:"layer_name"`
	CheckName            *string    `json:"check_name"`
	Types                []string   `json:"types"`
	Remark               *string    `json:"remark"`
	AppointmentDate      *time.Time `json:"appointment_date"`
	ClearAppointmentDate bool       `json:"clear_appointment_date"`
	SubmissionOrder      *int       `json:"submission_order"`
	Status               *string    `json:"status"`
	UpdatedBy            string     `json:"updated_by"`
}

func (r updateEntryRequest) toPatch() services.EntryUpdateInput {
	return services.EntryUpdateInput{
		Side:                 r.Side,
		StartPK:              r.StartPK,
		EndPK:                r.EndPK,
		LayerName:            r.LayerName,
		CheckName:            r.CheckName,
		Types:                r.Types,
		Remark:               r.Remark,
		AppointmentDate:      r.AppointmentDate,
		ClearAppointmentDate: r.ClearAppointmentDate,
		SubmissionOrder:      r.SubmissionOrder,
		Status:               r.Status,
		UpdatedBy:            r.UpdatedBy,
	}
}

func (eh *EntryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	row, err := eh.entryService.UpdateEntry(c.Request.Context(), id, req.toPatch())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"entry": row})
}

type bulkEditRequest struct {
	IDs   []int64            `json:"ids" binding:"required,min=1"`
	Patch updateEntryRequest `json:"patch"`
}

func (eh *EntryHandler) BulkEdit(c *gin.Context) {
	var req bulkEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rows, err := eh.entryService.BulkEditEntries(c.Request.Context(), services.BulkEditInput{
		IDs:   req.IDs,
		Patch: req.Patch.toPatch(),
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"entries": rows})
}

func (eh *EntryHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rows, page, err := eh.entryService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"entries": rows, "page_info": page})
}

type deleteEntriesRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

func (eh *EntryHandler) Delete(c *gin.Context) {
	var req deleteEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := eh.entryService.DeleteEntries(c.Request.Context(), req.IDs); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": len(req.IDs)})
}

// parseListFilter reads listing query params shared by the entry list and
// the report aggregator.
func parseListFilter(c *gin.Context) (services.ListFilter, error) {
	var filter services.ListFilter

	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return filter, err
			}
			filter.IDs = append(filter.IDs, id)
		}
	}
	if raw := c.Query("road_section_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.RoadSectionID = &id
	}
	if raw := c.Query("road_phase_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, err
		}
		filter.RoadPhaseID = &id
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = &raw
	}
	if raw := c.Query("created_from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.CreatedFrom = &ts
	}
	if raw := c.Query("created_to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.CreatedTo = &ts
	}
	filter.Keyword = c.Query("keyword")
	filter.SortBy = c.Query("sort_by")
	filter.SortDesc = c.Query("sort_desc") == "true"

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Offset = offset
	}
	return filter, nil
}
