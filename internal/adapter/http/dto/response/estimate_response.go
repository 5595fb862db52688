package response

import (
	"time"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase"

	"github.com/shopspring/decimal"
)

// Money is rendered with two decimals; inputs (hours, panels, rates) keep
// their own precision.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type LineItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ProcessType string `json:"process_type,omitempty"`
	entities.CostFields
	Betterment      map[string]string `json:"betterment,omitempty"`
	Total           string            `json:"total"`
	BettermentTotal string            `json:"betterment_total"`
}

func FromLineItem(li entities.LineItem) LineItemResponse {
	out := LineItemResponse{
		ID:              li.ID,
		Description:     li.Description,
		ProcessType:     string(li.ProcessType()),
		CostFields:      entities.FieldsOf(li.Cost),
		Total:           money(li.Total),
		BettermentTotal: money(li.BettermentTotal),
	}
	if len(li.Betterment) > 0 {
		out.Betterment = make(map[string]string, len(li.Betterment))
		for c, pct := range li.Betterment {
			out.Betterment[string(c)] = pct.String()
		}
	}
	return out
}

type RatesResponse struct {
	LabourRate        string `json:"labour_rate"`
	PaintRate         string `json:"paint_rate"`
	OEMMarkup         string `json:"oem_markup"`
	AlternativeMarkup string `json:"alternative_markup"`
	SecondHandMarkup  string `json:"second_hand_markup"`
	OutworkMarkup     string `json:"outwork_markup"`
	VATPercentage     string `json:"vat_percentage"`
}

func FromRates(r entities.RateSnapshot) RatesResponse {
	return RatesResponse{
		LabourRate:        r.LabourRate.String(),
		PaintRate:         r.PaintRate.String(),
		OEMMarkup:         r.Markups.OEM.String(),
		AlternativeMarkup: r.Markups.Alternative.String(),
		SecondHandMarkup:  r.Markups.SecondHand.String(),
		OutworkMarkup:     r.Markups.Outwork.String(),
		VATPercentage:     r.VATPercentage.String(),
	}
}

type TotalsResponse struct {
	Subtotal        string `json:"subtotal"`
	BettermentTotal string `json:"betterment_total"`
	VATAmount       string `json:"vat_amount"`
	Total           string `json:"total"`
}

func FromTotals(t entities.LedgerTotals) TotalsResponse {
	return TotalsResponse{
		Subtotal:        money(t.Subtotal),
		BettermentTotal: money(t.BettermentTotal),
		VATAmount:       money(t.VATAmount),
		Total:           money(t.Total),
	}
}

type EstimateResponse struct {
	AssessmentID string                 `json:"assessment_id"`
	LineItems    []LineItemResponse     `json:"line_items"`
	Overrides    entities.RateOverrides `json:"overrides"`
	Rates        RatesResponse          `json:"rates"`
	Finalized    bool                   `json:"finalized"`
	FinalizedAt  *time.Time             `json:"finalized_at,omitempty"`
	Totals       TotalsResponse         `json:"totals"`
	Version      int64                  `json:"version"`
}

func FromEstimate(v usecase.EstimateView) EstimateResponse {
	out := EstimateResponse{
		AssessmentID: v.Ledger.AssessmentID,
		LineItems:    make([]LineItemResponse, 0, len(v.Ledger.LineItems)),
		Overrides:    v.Ledger.Overrides,
		Rates:        FromRates(v.Rates),
		Finalized:    v.Ledger.Finalized,
		FinalizedAt:  v.Ledger.FinalizedAt,
		Totals:       FromTotals(v.Totals),
		Version:      v.Ledger.Version,
	}
	for _, li := range v.Ledger.LineItems {
		out.LineItems = append(out.LineItems, FromLineItem(li))
	}
	return out
}
