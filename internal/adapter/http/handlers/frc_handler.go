package handlers

import (
	"net/http"

	request "repair_costing/internal/adapter/http/dto/request"
	response "repair_costing/internal/adapter/http/dto/response"
	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/frc"
	"repair_costing/internal/usecase"

	"github.com/gin-gonic/gin"
)

// FRCHandler serves the final repair costing of an assessment.
type FRCHandler struct {
	usecase usecase.IFRCUseCase
}

func NewFRCHandler(uc usecase.IFRCUseCase) *FRCHandler {
	return &FRCHandler{usecase: uc}
}

func (h *FRCHandler) Start(c *gin.Context) {
	h.respond(c, http.StatusCreated)(h.usecase.Start(c.Request.Context(), c.Param("id")))
}

func (h *FRCHandler) Get(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.usecase.Get(c.Request.Context(), c.Param("id")))
}

func (h *FRCHandler) UpdateLine(c *gin.Context) {
	var payload request.FRCLineUpdateRequest
	if !bindJSON(c, &payload) {
		return
	}
	u := frc.LineUpdate{
		LineID:      c.Param("line_id"),
		Decision:    entities.FRCDecision(payload.Decision),
		ActualTotal: payload.ActualTotal,
		Note:        payload.Note,
	}
	h.respond(c, http.StatusOK)(h.usecase.UpdateLine(c.Request.Context(), c.Param("id"), u))
}

// MergeAdditionals pulls newly approved additionals into the open FRC.
func (h *FRCHandler) MergeAdditionals(c *gin.Context) {
	v, res, err := h.usecase.MergeAdditionals(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MergeResponse{FRC: response.FromFRC(v), Merge: res})
}

func (h *FRCHandler) Complete(c *gin.Context) {
	var payload request.CompleteFRCRequest
	if !bindJSON(c, &payload) {
		return
	}
	h.respond(c, http.StatusOK)(h.usecase.Complete(c.Request.Context(), c.Param("id"), payload.Name, payload.Role))
}

func (h *FRCHandler) Reopen(c *gin.Context) {
	var payload request.ReopenFRCRequest
	if !bindJSON(c, &payload) {
		return
	}
	h.respond(c, http.StatusOK)(h.usecase.Reopen(c.Request.Context(), c.Param("id"), payload.Reason))
}

func (h *FRCHandler) respond(c *gin.Context, status int) func(usecase.FRCView, error) {
	return func(v usecase.FRCView, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(status, response.FromFRC(v))
	}
}
