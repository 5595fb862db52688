package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"repair_costing/internal/adapter/http/handlers/mocks"
	"repair_costing/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRatesHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	body := `{"labour_rate":"480","paint_rate":550,"oem_markup":25,"alternative_markup":20,
		"second_hand_markup":15,"outwork_markup":25,"vat_percentage":15,"updated_by":"ops"}`

	t.Run("missing rate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		h := NewRatesHandler(mocks.NewMockIRatesUseCase(ctrl))
		r := gin.New()
		r.PUT("/v1/rates", h.Update)

		w := do(r, http.MethodPut, "/v1/rates", `{"labour_rate":1,"updated_by":"ops"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		assert.Equal(t, "is required", decodeError(t, w).Details["vat_percentage"])
	})

	t.Run("validation from the use case", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIRatesUseCase(ctrl)
		h := NewRatesHandler(uc)
		r := gin.New()
		r.PUT("/v1/rates", h.Update)

		uc.EXPECT().Update(gomock.Any(), gomock.Any(), "ops").
			Return(entities.RateSnapshot{}, entities.NewValidationError("labour_rate", "must not be negative"))

		w := do(r, http.MethodPut, "/v1/rates", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		out := decodeError(t, w)
		assert.Equal(t, "VALIDATION_ERROR", out.Code)
		assert.Equal(t, "labour_rate", out.Details["field"])
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIRatesUseCase(ctrl)
		h := NewRatesHandler(uc)
		r := gin.New()
		r.PUT("/v1/rates", h.Update)

		uc.EXPECT().Update(gomock.Any(), gomock.Any(), "ops").DoAndReturn(
			func(_ any, rates entities.RateSnapshot, _ string) (entities.RateSnapshot, error) {
				assert.True(t, rates.LabourRate.Equal(decimal.RequireFromString("480")))
				assert.True(t, rates.Markups.SecondHand.Equal(decimal.RequireFromString("15")))
				return rates, nil
			})

		w := do(r, http.MethodPut, "/v1/rates", body)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, "480", out["labour_rate"])
		assert.Equal(t, "15", out["second_hand_markup"])
	})
}
