package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"repair_costing/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/rs/zerolog"
)

var (
	ErrMissingMercadoPagoAccessToken   = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
)

// MercadoPagoGateway creates settlement payments through the Mercado Pago SDK.
// Mock mode is handled by the settlement use case, which never calls the
// gateway in that mode.
type MercadoPagoGateway struct {
	client payment.Client
	log    zerolog.Logger
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGateway(accessToken string, logger zerolog.Logger) (*MercadoPagoGateway, error) {
	logger = logger.With().Str("component", "mercadopago").Logger()
	if accessToken == "" {
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		logger.Error().Err(err).Msg("failed creating sdk config")
		return nil, err
	}
	logger.Info().Msg("mercado pago client initialized")
	return &MercadoPagoGateway{client: payment.NewClient(cfg), log: logger}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, requestPayload json.RawMessage) (string, string, json.RawMessage, error) {
	if g == nil || g.client == nil {
		return "", "", nil, ErrMercadoPagoGatewayNotConfigured
	}
	g.log.Debug().Int("payload_len", len(requestPayload)).Msg("create start")

	var req payment.Request
	if err := json.Unmarshal(requestPayload, &req); err != nil {
		return "", "", nil, fmt.Errorf("decoding payment request: %w", err)
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		g.log.Warn().Err(err).Msg("sdk create failed")
		return "", "", nil, err
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", "", nil, fmt.Errorf("encoding payment response: %w", err)
	}
	id := fmt.Sprintf("%d", resp.ID)
	g.log.Info().Str("provider_payment_id", id).Str("provider_status", resp.Status).Msg("create success")
	return id, resp.Status, b, nil
}
