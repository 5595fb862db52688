package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the settlement payment outcome.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusDenied   PaymentStatus = "denied"
)

// BillingPayment settles the actual total of a signed-off FRC.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (assessment_id-index): assessment_id
//
// MercadoPago payload:
//   - MPPayloadRaw keeps the provider body for traceability/audit.
//   - MPPayload is the parsed form, useful for querying/debugging.
type BillingPayment struct {
	ID           string          `json:"id"`
	AssessmentID string          `json:"assessment_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Status       PaymentStatus   `json:"status"`

	MPPayloadRaw json.RawMessage `json:"mp_payload_raw,omitempty"`
	MPPayload    map[string]any  `json:"mp_payload,omitempty"`
}
