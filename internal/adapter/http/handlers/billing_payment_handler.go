package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	request "repair_costing/internal/adapter/http/dto/request"
	response "repair_costing/internal/adapter/http/dto/response"
	"repair_costing/internal/usecase"
	"repair_costing/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// BillingPaymentHandler handles HTTP requests for the settlement of archived assessments.
type BillingPaymentHandler struct {
	usecase  usecase.IBillingPaymentUseCase
	mockMode bool
	logger   zerolog.Logger
}

func NewBillingPaymentHandler(uc usecase.IBillingPaymentUseCase, mockMode bool, logger zerolog.Logger) *BillingPaymentHandler {
	return &BillingPaymentHandler{usecase: uc, mockMode: mockMode, logger: logger.With().Str("component", "payment_handler").Logger()}
}

// CreatePayment settles the signed-off FRC of the assessment in the path.
func (h *BillingPaymentHandler) CreatePayment(c *gin.Context) {
	assessmentID := c.Param("id")
	h.logger.Debug().Str("assessment_id", assessmentID).Msg("create start")
	mpPayload, err := readMPPayload(c)
	if err != nil {
		if !h.mockMode {
			h.logger.Warn().Err(err).Str("assessment_id", assessmentID).Msg("invalid payload")
			appErr := pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest).
				WithDetail("body", err.Error())
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		h.logger.Info().Err(err).Str("assessment_id", assessmentID).Msg("payload invalid in mock mode, using empty payload")
		mpPayload = json.RawMessage("{}")
	}

	created, err := h.usecase.CreateAndApprove(c.Request.Context(), assessmentID, mpPayload)
	if err != nil {
		h.logger.Warn().Err(err).Str("assessment_id", assessmentID).Msg("create failed")
		writeError(c, err)
		return
	}
	h.logger.Info().
		Str("assessment_id", assessmentID).
		Str("payment_id", created.ID).
		Str("status", string(created.Status)).
		Msg("create success")

	c.JSON(http.StatusCreated, response.FromBillingPayment(created))
}

// ListPayments returns every payment of the assessment, oldest first.
// With ?latest=true only the most recent one is returned.
func (h *BillingPaymentHandler) ListPayments(c *gin.Context) {
	assessmentID := c.Param("id")
	payments, err := h.usecase.ListByAssessmentID(c.Request.Context(), assessmentID)
	if err != nil {
		writeError(c, err)
		return
	}

	if c.Query("latest") == "true" {
		if len(payments) == 0 {
			writeError(c, usecase.ErrBillingPaymentNotFound)
			return
		}
		latest := payments[0]
		for _, p := range payments[1:] {
			if p.Date.After(latest.Date) {
				latest = p
			}
		}
		c.JSON(http.StatusOK, response.FromBillingPayment(latest))
		return
	}

	out := make([]response.BillingPaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, response.FromBillingPayment(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BillingPaymentHandler) GetPayment(c *gin.Context) {
	p, err := h.usecase.GetByID(c.Request.Context(), c.Param("payment_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromBillingPayment(p))
}

// readMPPayload accepts either {"mp_payload": {...}} or the bare Mercado Pago body.
func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if _, ok := envelope["mp_payload"]; ok {
			var req request.BillingPaymentCreateRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return nil, err
			}
			wrapped := strings.TrimSpace(string(req.MPPayload))
			if wrapped == "" || wrapped == "null" {
				return nil, errors.New("mp_payload cannot be empty")
			}
			return req.MPPayload, nil
		}
	}

	return json.RawMessage(raw), nil
}
