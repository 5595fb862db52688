package request

import "encoding/json"

// BillingPaymentCreateRequest is the optional envelope of the settlement
// route. Without it the whole body is taken as the Mercado Pago payload.
//
// `mp_payload` is kept as raw JSON to support varying Mercado Pago schemas.
type BillingPaymentCreateRequest struct {
	MPPayload json.RawMessage `json:"mp_payload"`
}
