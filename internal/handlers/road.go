package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/axiroad/roadworks-backend/internal/services"
)

type RoadHandler struct {
	roadService services.RoadService
}

func NewRoadHandler(roadService services.RoadService) *RoadHandler {
	return &RoadHandler{roadService: roadService}
}

type createRoadRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

func (rh *RoadHandler) CreateRoad(c *gin.Context) {
	var req createRoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	road, err := rh.roadService.CreateRoad(c.Request.Context(), services.RoadCreateInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"road": road})
}

func (rh *RoadHandler) ListRoads(c *gin.Context) {
	roads, err := rh.roadService.ListRoads(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"roads": roads})
}

type createPhaseRequest struct {
	PhaseDefinitionID uuid.UUID `json:"phase_definition_id" binding:"required"`
}

func (rh *RoadHandler) CreatePhase(c *gin.Context) {
	roadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req createPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	phase, err := rh.roadService.CreatePhase(c.Request.Context(), roadID, services.PhaseCreateInput{
		PhaseDefinitionID: req.PhaseDefinitionID,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"phase": phase})
}

func (rh *RoadHandler) ListPhases(c *gin.Context) {
	roadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	phases, err := rh.roadService.ListPhases(c.Request.Context(), roadID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"phases": phases})
}

type createIntervalRequest struct {
	StartPK float64  `json:"start_pk"`
	EndPK   float64  `json:"end_pk"`
	Side    string   `json:"side"`
	Layers  []string `json:"layers"`
	Spec    string   `json:"spec"`
}

func (rh *RoadHandler) CreateInterval(c *gin.Context) {
	phaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req createIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	interval, err := rh.roadService.CreateInterval(c.Request.Context(), phaseID, services.IntervalCreateInput{
		StartPK: req.StartPK,
		EndPK:   req.EndPK,
		Side:    req.Side,
		Layers:  req.Layers,
		Spec:    req.Spec,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"interval": interval})
}

func (rh *RoadHandler) ListIntervals(c *gin.Context) {
	phaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	intervals, err := rh.roadService.ListIntervals(c.Request.Context(), phaseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"intervals": intervals})
}
