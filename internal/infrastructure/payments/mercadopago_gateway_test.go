package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMercadoPagoGateway(t *testing.T) {
	_, err := NewMercadoPagoGateway("", zerolog.Nop())
	assert.True(t, errors.Is(err, ErrMissingMercadoPagoAccessToken))

	g, err := NewMercadoPagoGateway("TEST-0000", zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, g.client)
}

func TestMercadoPagoGateway_NotConfigured(t *testing.T) {
	var g *MercadoPagoGateway
	_, _, _, err := g.CreatePayment(context.Background(), json.RawMessage(`{}`))
	assert.True(t, errors.Is(err, ErrMercadoPagoGatewayNotConfigured))
}

func TestMercadoPagoGateway_RejectsMalformedPayload(t *testing.T) {
	g, err := NewMercadoPagoGateway("TEST-0000", zerolog.Nop())
	require.NoError(t, err)
	_, _, _, err = g.CreatePayment(context.Background(), json.RawMessage(`{"transaction_amount":"lots"}`))
	assert.Error(t, err)
}
