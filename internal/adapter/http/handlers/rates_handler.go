package handlers

import (
	"net/http"

	request "repair_costing/internal/adapter/http/dto/request"
	response "repair_costing/internal/adapter/http/dto/response"
	"repair_costing/internal/usecase"

	"github.com/gin-gonic/gin"
)

// RatesHandler serves the global rates. Changes never reach finalized estimates.
type RatesHandler struct {
	usecase usecase.IRatesUseCase
}

func NewRatesHandler(uc usecase.IRatesUseCase) *RatesHandler {
	return &RatesHandler{usecase: uc}
}

func (h *RatesHandler) Get(c *gin.Context) {
	r, err := h.usecase.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromRates(r))
}

func (h *RatesHandler) Update(c *gin.Context) {
	var payload request.RatesRequest
	if !bindJSON(c, &payload) {
		return
	}
	r, err := h.usecase.Update(c.Request.Context(), payload.ToSnapshot(), payload.UpdatedBy)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromRates(r))
}
