package handlers

import (
	"net/http"

	request "repair_costing/internal/adapter/http/dto/request"
	response "repair_costing/internal/adapter/http/dto/response"
	"repair_costing/internal/usecase"

	"github.com/gin-gonic/gin"
)

// AdditionalsHandler serves the additionals overlay and the reconciled view.
type AdditionalsHandler struct {
	usecase usecase.IAdditionalsUseCase
}

func NewAdditionalsHandler(uc usecase.IAdditionalsUseCase) *AdditionalsHandler {
	return &AdditionalsHandler{usecase: uc}
}

func (h *AdditionalsHandler) GetReconciled(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.usecase.GetReconciled(c.Request.Context(), c.Param("id")))
}

func (h *AdditionalsHandler) Add(c *gin.Context) {
	var payload request.LineItemRequest
	if !bindJSON(c, &payload) {
		return
	}
	h.respond(c, http.StatusCreated)(h.usecase.AddAdditional(c.Request.Context(), c.Param("id"), payload.ToInput()))
}

func (h *AdditionalsHandler) Remove(c *gin.Context) {
	var payload request.RemoveLineRequest
	if !bindJSON(c, &payload) {
		return
	}
	h.respond(c, http.StatusCreated)(h.usecase.RemoveLine(c.Request.Context(), c.Param("id"), payload.OriginalLineItemID, payload.Description))
}

func (h *AdditionalsHandler) Reverse(c *gin.Context) {
	var payload request.ReverseRequest
	if !bindJSON(c, &payload) {
		return
	}
	h.respond(c, http.StatusCreated)(h.usecase.Reverse(c.Request.Context(), c.Param("id"), payload.TargetID, payload.Description))
}

func (h *AdditionalsHandler) Approve(c *gin.Context) {
	var payload request.DecisionRequest
	if !bindJSON(c, &payload) {
		return
	}
	d := usecase.Decision{DecidedBy: payload.DecidedBy, Reason: payload.Reason}
	h.respond(c, http.StatusOK)(h.usecase.Approve(c.Request.Context(), c.Param("id"), c.Param("additional_id"), d))
}

func (h *AdditionalsHandler) Decline(c *gin.Context) {
	var payload request.DecisionRequest
	if !bindJSON(c, &payload) {
		return
	}
	d := usecase.Decision{DecidedBy: payload.DecidedBy, Reason: payload.Reason}
	h.respond(c, http.StatusOK)(h.usecase.Decline(c.Request.Context(), c.Param("id"), c.Param("additional_id"), d))
}

func (h *AdditionalsHandler) SetBetterment(c *gin.Context) {
	var payload request.BettermentRequest
	if !bindJSON(c, &payload) {
		return
	}
	b := request.ToBetterment(payload.Betterment)
	h.respond(c, http.StatusOK)(h.usecase.SetBetterment(c.Request.Context(), c.Param("id"), c.Param("additional_id"), b))
}

func (h *AdditionalsHandler) respond(c *gin.Context, status int) func(usecase.ReconciledView, error) {
	return func(v usecase.ReconciledView, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(status, response.FromReconciled(v))
	}
}
