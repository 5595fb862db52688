package handlers

import (
	"net/http"

	request "repair_costing/internal/adapter/http/dto/request"
	response "repair_costing/internal/adapter/http/dto/response"
	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase"

	"github.com/gin-gonic/gin"
)

// AssessmentHandler serves the assessment record and its plain stage moves.
type AssessmentHandler struct {
	usecase usecase.IAssessmentUseCase
}

func NewAssessmentHandler(uc usecase.IAssessmentUseCase) *AssessmentHandler {
	return &AssessmentHandler{usecase: uc}
}

func (h *AssessmentHandler) Create(c *gin.Context) {
	var payload request.CreateAssessmentRequest
	if !bindJSON(c, &payload) {
		return
	}
	a, err := h.usecase.Create(c.Request.Context(), payload.ClaimReference)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromAssessment(a))
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	a, err := h.usecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAssessment(a))
}

func (h *AssessmentHandler) Advance(c *gin.Context) {
	var payload request.AdvanceStageRequest
	if !bindJSON(c, &payload) {
		return
	}
	a, err := h.usecase.Advance(c.Request.Context(), c.Param("id"), entities.Stage(payload.Stage))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAssessment(a))
}

func (h *AssessmentHandler) Cancel(c *gin.Context) {
	var payload request.CancelAssessmentRequest
	if !bindJSON(c, &payload) {
		return
	}
	a, err := h.usecase.Cancel(c.Request.Context(), c.Param("id"), payload.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromAssessment(a))
}
