package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"repair_costing/internal/adapter/http/handlers/mocks"
	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newPaymentRouter(uc *mocks.MockIBillingPaymentUseCase, mockMode bool) *gin.Engine {
	h := NewBillingPaymentHandler(uc, mockMode, zerolog.Nop())
	r := gin.New()
	r.POST("/v1/assessments/:id/payments", h.CreatePayment)
	r.GET("/v1/assessments/:id/payments", h.ListPayments)
	r.GET("/v1/payments/:payment_id", h.GetPayment)
	return r
}

func TestBillingPaymentHandler_CreatePayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unwraps the mp_payload envelope", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingPaymentUseCase(ctrl)
		r := newPaymentRouter(uc, false)

		uc.EXPECT().CreateAndApprove(gomock.Any(), "as-1", gomock.Any()).DoAndReturn(
			func(_ any, _ string, payload json.RawMessage) (entities.BillingPayment, error) {
				assert.JSONEq(t, `{"payment_method_id":"pix"}`, string(payload))
				return entities.BillingPayment{ID: "mp-1", AssessmentID: "as-1", Amount: decimal.RequireFromString("13800"), Status: entities.PaymentStatusApproved}, nil
			})

		w := do(r, http.MethodPost, "/v1/assessments/as-1/payments", `{"mp_payload":{"payment_method_id":"pix"}}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, "13800.00", out["amount"])
		assert.Equal(t, "approved", out["status"])
	})

	t.Run("bare body is the payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingPaymentUseCase(ctrl)
		r := newPaymentRouter(uc, false)

		uc.EXPECT().CreateAndApprove(gomock.Any(), "as-1", json.RawMessage(`{"payment_method_id":"pix"}`)).
			Return(entities.BillingPayment{ID: "mp-1"}, nil)

		w := do(r, http.MethodPost, "/v1/assessments/as-1/payments", `{"payment_method_id":"pix"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("invalid json without mock mode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		r := newPaymentRouter(mocks.NewMockIBillingPaymentUseCase(ctrl), false)

		w := do(r, http.MethodPost, "/v1/assessments/as-1/payments", `{"mp_payload":null}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid json falls back to empty payload in mock mode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingPaymentUseCase(ctrl)
		r := newPaymentRouter(uc, true)

		uc.EXPECT().CreateAndApprove(gomock.Any(), "as-1", json.RawMessage("{}")).Return(entities.BillingPayment{ID: "mock-1"}, nil)

		w := do(r, http.MethodPost, "/v1/assessments/as-1/payments", `{`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"already settled", usecase.ErrAlreadySettled, http.StatusConflict, "ALREADY_SETTLED"},
		{"gateway unauthorized", usecase.ErrPaymentGatewayUnauthorized, http.StatusUnauthorized, "PAYMENT_PROVIDER_UNAUTHORIZED"},
		{"gateway not configured", usecase.ErrPaymentGatewayNotConfigured, http.StatusServiceUnavailable, "PAYMENT_PROVIDER_UNAVAILABLE"},
		{"invalid users", usecase.ErrPaymentGatewayInvalidUsers, http.StatusBadRequest, "PAYMENT_PROVIDER_INVALID_USERS"},
		{"not archived", &entities.StageViolationError{Operation: "settle_payment", Current: entities.StageFRCInProgress, Required: []entities.Stage{entities.StageArchived}}, http.StatusConflict, "STAGE_VIOLATION"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run("maps "+tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockIBillingPaymentUseCase(ctrl)
			r := newPaymentRouter(uc, false)

			uc.EXPECT().CreateAndApprove(gomock.Any(), "as-1", gomock.Any()).Return(entities.BillingPayment{}, tc.err)

			w := do(r, http.MethodPost, "/v1/assessments/as-1/payments", `{"payment_method_id":"pix"}`)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			assert.Equal(t, tc.code, decodeError(t, w).Code)
		})
	}
}

func TestBillingPaymentHandler_ListPayments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	older := entities.BillingPayment{ID: "p-1", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := entities.BillingPayment{ID: "p-2", Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}

	t.Run("all payments", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingPaymentUseCase(ctrl)
		r := newPaymentRouter(uc, false)

		uc.EXPECT().ListByAssessmentID(gomock.Any(), "as-1").Return([]entities.BillingPayment{older, newer}, nil)

		w := do(r, http.MethodGet, "/v1/assessments/as-1/payments", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var out []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out, 2)
	})

	t.Run("latest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingPaymentUseCase(ctrl)
		r := newPaymentRouter(uc, false)

		uc.EXPECT().ListByAssessmentID(gomock.Any(), "as-1").Return([]entities.BillingPayment{newer, older}, nil)

		w := do(r, http.MethodGet, "/v1/assessments/as-1/payments?latest=true", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, "p-2", out["id"])
	})

	t.Run("latest without payments", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingPaymentUseCase(ctrl)
		r := newPaymentRouter(uc, false)

		uc.EXPECT().ListByAssessmentID(gomock.Any(), "as-1").Return(nil, nil)

		w := do(r, http.MethodGet, "/v1/assessments/as-1/payments?latest=true", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIBillingPaymentUseCase(ctrl)
		r := newPaymentRouter(uc, false)

		uc.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.BillingPayment{}, usecase.ErrBillingPaymentNotFound)

		w := do(r, http.MethodGet, "/v1/payments/missing", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
