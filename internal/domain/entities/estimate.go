package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstimateLedger is the base set of line items of an assessment.
//
// Storage model (DynamoDB):
//   - PK: assessment_id (one ledger per assessment)
//
// Rates:
//   - before finalization totals use the global rates with Overrides applied,
//     supplied per call
//   - FrozenRates is set once, by finalization, and never changes afterwards
type EstimateLedger struct {
	AssessmentID string          `json:"assessment_id"`
	LineItems    []LineItem      `json:"line_items"`
	Overrides    RateOverrides   `json:"overrides"`
	FrozenRates  *RateSnapshot   `json:"frozen_rates,omitempty"`
	Finalized    bool            `json:"finalized"`
	FinalizedAt  *time.Time      `json:"finalized_at,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	VATAmount    decimal.Decimal `json:"vat_amount"`
	Total        decimal.Decimal `json:"total"`
	Version      int64           `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Find returns the index of the line with the given id, or -1.
func (l *EstimateLedger) Find(id string) int {
	for i := range l.LineItems {
		if l.LineItems[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no mutable state with l.
func (l EstimateLedger) Clone() EstimateLedger {
	out := l
	out.LineItems = make([]LineItem, len(l.LineItems))
	for i, li := range l.LineItems {
		out.LineItems[i] = li.Clone()
	}
	if l.FrozenRates != nil {
		r := *l.FrozenRates
		out.FrozenRates = &r
	}
	if l.FinalizedAt != nil {
		t := *l.FinalizedAt
		out.FinalizedAt = &t
	}
	return out
}
