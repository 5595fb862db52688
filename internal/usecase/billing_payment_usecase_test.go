package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"repair_costing/internal/adapter/persistence/memory"
	"repair_costing/internal/domain/entities"
	mock_interfaces "repair_costing/internal/usecase/interfaces/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// archived returns an assessment whose FRC is signed off with an actual
// grand total of 13800.00.
func (f *fixture) archived(t *testing.T) entities.Assessment {
	t.Helper()
	a := f.finalized(t, outworkLine("L1", "10000"))
	_, err := f.frc.Start(f.ctx, a.ID)
	require.NoError(t, err)
	_, err = f.frc.Complete(f.ctx, a.ID, "Dana", "assessor")
	require.NoError(t, err)
	return a
}

func TestBillingPaymentUseCase_MockMode(t *testing.T) {
	f := newFixture()
	payments := memory.NewPayments()
	uc := NewBillingPaymentUseCase(f.store, payments, nil, f.audit, PaymentSettings{Mock: true}, zerolog.Nop())

	t.Run("not archived", func(t *testing.T) {
		a := f.finalized(t, outworkLine("L1", "1"))
		_, err := uc.CreateAndApprove(f.ctx, a.ID, nil)
		assert.True(t, errors.Is(err, entities.ErrStageViolation))
	})

	t.Run("settles the actual total once", func(t *testing.T) {
		a := f.archived(t)

		p, err := uc.CreateAndApprove(f.ctx, a.ID, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, a.ID, p.AssessmentID)
		assert.Equal(t, entities.PaymentStatusApproved, p.Status)
		assert.Equal(t, "13800.00", p.Amount.StringFixed(2))
		assert.Equal(t, a.ID, p.MPPayload["external_reference"])
		assert.Equal(t, 13800.0, p.MPPayload["transaction_amount"])

		_, err = uc.CreateAndApprove(f.ctx, a.ID, json.RawMessage(`{}`))
		assert.True(t, errors.Is(err, ErrAlreadySettled))

		list, err := uc.ListByAssessmentID(f.ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)

		got, err := uc.GetByID(f.ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
	})

	t.Run("unknown payment", func(t *testing.T) {
		_, err := uc.GetByID(f.ctx, "nope")
		assert.True(t, errors.Is(err, ErrBillingPaymentNotFound))
		_, err = uc.GetByID(f.ctx, " ")
		assert.True(t, errors.Is(err, entities.ErrValidation))
	})
}

func TestBillingPaymentUseCase_Gateway(t *testing.T) {
	t.Run("payload validation", func(t *testing.T) {
		uc := NewBillingPaymentUseCase(nil, nil, nil, nil, PaymentSettings{}, zerolog.Nop())
		_, err := uc.CreateAndApprove(context.Background(), "as-1", nil)
		assert.True(t, errors.Is(err, ErrInvalidMPPayload))
		_, err = uc.CreateAndApprove(context.Background(), "as-1", json.RawMessage(`{`))
		assert.True(t, errors.Is(err, ErrInvalidMPPayload))
		_, err = uc.CreateAndApprove(context.Background(), "as-1", json.RawMessage(`{}`))
		assert.True(t, errors.Is(err, ErrPaymentGatewayNotConfigured))
	})

	t.Run("amount comes from the frc", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newFixture()
		a := f.archived(t)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewBillingPaymentUseCase(f.store, memory.NewPayments(), gateway, f.audit, PaymentSettings{AccessToken: "TEST-123"}, zerolog.Nop())

		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, body json.RawMessage) (string, string, json.RawMessage, error) {
				var req map[string]any
				require.NoError(t, json.Unmarshal(body, &req))
				assert.Equal(t, 13800.0, req["transaction_amount"], "caller amount is overridden")
				assert.Equal(t, a.ID, req["external_reference"])
				payer := req["payer"].(map[string]any)
				assert.Equal(t, "test_user_br@testuser.com", payer["email"])
				return "mp-1", "approved", json.RawMessage(`{"id":"mp-1","status":"approved"}`), nil
			})

		p, err := uc.CreateAndApprove(f.ctx, a.ID, json.RawMessage(`{"payment_method_id":"pix","transaction_amount":1}`))
		require.NoError(t, err)
		assert.Equal(t, "mp-1", p.ID)
		assert.Equal(t, entities.PaymentStatusApproved, p.Status)
	})

	t.Run("missing payment method", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newFixture()
		a := f.archived(t)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewBillingPaymentUseCase(f.store, memory.NewPayments(), gateway, nil, PaymentSettings{}, zerolog.Nop())

		_, err := uc.CreateAndApprove(f.ctx, a.ID, json.RawMessage(`{"payer":{"email":"a@b.c"}}`))
		assert.True(t, errors.Is(err, ErrInvalidMPPayload))
	})

	cases := []struct {
		name    string
		gateErr error
		want    error
	}{
		{"bad request", errors.New(`{"error":"bad_request","status":400}`), ErrPaymentGatewayBadRequest},
		{"unauthorized", errors.New(`{"error":"unauthorized","status":401}`), ErrPaymentGatewayUnauthorized},
		{"invalid users", errors.New(`{"code":2034}`), ErrPaymentGatewayInvalidUsers},
		{"customer not found", errors.New("Customer not found"), ErrPaymentGatewayCustomerNotFound},
	}
	for _, tc := range cases {
		t.Run("gateway error "+tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			f := newFixture()
			a := f.archived(t)
			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			payments := memory.NewPayments()
			uc := NewBillingPaymentUseCase(f.store, payments, gateway, nil, PaymentSettings{}, zerolog.Nop())

			gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, tc.gateErr)

			_, err := uc.CreateAndApprove(f.ctx, a.ID, json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"a@b.c"}}`))
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			list, err := payments.ListByAssessmentID(f.ctx, a.ID)
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

// laggingPayments answers index reads as if no payment had been replicated
// yet.
type laggingPayments struct {
	*memory.Payments
}

func (laggingPayments) ListByAssessmentID(context.Context, string) ([]entities.BillingPayment, error) {
	return nil, nil
}

func TestBillingPaymentUseCase_SettlementSlot(t *testing.T) {
	t.Run("second settlement is refused while the index lags", func(t *testing.T) {
		f := newFixture()
		a := f.archived(t)
		payments := memory.NewPayments()
		uc := NewBillingPaymentUseCase(f.store, laggingPayments{payments}, nil, f.audit, PaymentSettings{Mock: true}, zerolog.Nop())

		_, err := uc.CreateAndApprove(f.ctx, a.ID, nil)
		require.NoError(t, err)
		_, err = uc.CreateAndApprove(f.ctx, a.ID, nil)
		assert.True(t, errors.Is(err, ErrAlreadySettled))

		stored, err := payments.ListByAssessmentID(f.ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, stored, 1)
	})

	t.Run("failed and denied charges free the slot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := newFixture()
		a := f.archived(t)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		payments := memory.NewPayments()
		uc := NewBillingPaymentUseCase(f.store, laggingPayments{payments}, gateway, nil, PaymentSettings{}, zerolog.Nop())
		body := json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"a@b.c"}}`)

		gomock.InOrder(
			gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, errors.New(`{"error":"bad_request","status":400}`)),
			gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("mp-1", "rejected", json.RawMessage(`{"id":"mp-1"}`), nil),
			gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("mp-2", "approved", json.RawMessage(`{"id":"mp-2"}`), nil),
		)

		_, err := uc.CreateAndApprove(f.ctx, a.ID, body)
		assert.True(t, errors.Is(err, ErrPaymentGatewayBadRequest))

		p, err := uc.CreateAndApprove(f.ctx, a.ID, body)
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusDenied, p.Status)

		p, err = uc.CreateAndApprove(f.ctx, a.ID, body)
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusApproved, p.Status)

		_, err = uc.CreateAndApprove(f.ctx, a.ID, body)
		assert.True(t, errors.Is(err, ErrAlreadySettled), "no fourth charge reaches the gateway")
	})
}
