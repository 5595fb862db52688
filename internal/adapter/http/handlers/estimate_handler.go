package handlers

import (
	"net/http"

	request "repair_costing/internal/adapter/http/dto/request"
	response "repair_costing/internal/adapter/http/dto/response"
	"repair_costing/internal/usecase"

	"github.com/gin-gonic/gin"
)

// EstimateHandler serves the base estimate ledger of an assessment.
type EstimateHandler struct {
	usecase usecase.IEstimateUseCase
}

func NewEstimateHandler(uc usecase.IEstimateUseCase) *EstimateHandler {
	return &EstimateHandler{usecase: uc}
}

func (h *EstimateHandler) GetEstimate(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.usecase.Get(c.Request.Context(), c.Param("id")))
}

func (h *EstimateHandler) AddLine(c *gin.Context) {
	var payload request.LineItemRequest
	if !bindJSON(c, &payload) {
		return
	}
	h.respond(c, http.StatusCreated)(h.usecase.AddLine(c.Request.Context(), c.Param("id"), payload.ToInput()))
}

func (h *EstimateHandler) UpdateLine(c *gin.Context) {
	var payload request.LineItemRequest
	if !bindJSON(c, &payload) {
		return
	}
	h.respond(c, http.StatusOK)(h.usecase.UpdateLine(c.Request.Context(), c.Param("id"), c.Param("line_id"), payload.ToInput()))
}

func (h *EstimateHandler) DeleteLine(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.usecase.DeleteLine(c.Request.Context(), c.Param("id"), c.Param("line_id")))
}

func (h *EstimateHandler) SetRates(c *gin.Context) {
	var payload request.RateOverridesRequest
	if !bindJSON(c, &payload) {
		return
	}
	h.respond(c, http.StatusOK)(h.usecase.SetRates(c.Request.Context(), c.Param("id"), payload.ToOverrides()))
}

// Finalize freezes the ledger and moves the assessment to estimate_finalized.
func (h *EstimateHandler) Finalize(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.usecase.Finalize(c.Request.Context(), c.Param("id")))
}

func (h *EstimateHandler) respond(c *gin.Context, status int) func(usecase.EstimateView, error) {
	return func(v usecase.EstimateView, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(status, response.FromEstimate(v))
	}
}
