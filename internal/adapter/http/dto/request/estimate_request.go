package request

import (
	"strings"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase"

	"github.com/shopspring/decimal"
)

// LineItemRequest describes one line item. Numeric fields accept JSON
// numbers or strings; a field left out means "not applicable", which is not
// the same as zero. Totals are always computed server side.
type LineItemRequest struct {
	ID                 string                     `json:"id"`
	Description        string                     `json:"description" binding:"required"`
	ProcessType        string                     `json:"process_type" binding:"required,oneof=new repair paint blend align outwork"`
	PartType           *string                    `json:"part_type" binding:"omitempty,oneof=oem alternative second_hand"`
	PartPriceNett      *decimal.Decimal           `json:"part_price_nett"`
	StripAssembleHours *decimal.Decimal           `json:"strip_assemble_hours"`
	LabourHours        *decimal.Decimal           `json:"labour_hours"`
	PaintPanels        *decimal.Decimal           `json:"paint_panels"`
	OutworkChargeNett  *decimal.Decimal           `json:"outwork_charge_nett"`
	Betterment         map[string]decimal.Decimal `json:"betterment"`
}

func (r LineItemRequest) ToInput() usecase.LineInput {
	in := usecase.LineInput{
		ID:          strings.TrimSpace(r.ID),
		Description: r.Description,
		ProcessType: entities.ProcessType(r.ProcessType),
		Fields: entities.CostFields{
			PartPriceNett:      r.PartPriceNett,
			StripAssembleHours: r.StripAssembleHours,
			LabourHours:        r.LabourHours,
			PaintPanels:        r.PaintPanels,
			OutworkChargeNett:  r.OutworkChargeNett,
		},
		Betterment: ToBetterment(r.Betterment),
	}
	if r.PartType != nil {
		pt := entities.PartType(*r.PartType)
		in.Fields.PartType = &pt
	}
	return in
}

func ToBetterment(m map[string]decimal.Decimal) entities.Betterment {
	if len(m) == 0 {
		return nil
	}
	out := make(entities.Betterment, len(m))
	for c, pct := range m {
		out[entities.Component(c)] = pct
	}
	return out
}

// RateOverridesRequest replaces the per-assessment overrides. Omitted
// fields fall back to the global rates.
type RateOverridesRequest struct {
	LabourRate        *decimal.Decimal `json:"labour_rate"`
	PaintRate         *decimal.Decimal `json:"paint_rate"`
	OEMMarkup         *decimal.Decimal `json:"oem_markup"`
	AlternativeMarkup *decimal.Decimal `json:"alternative_markup"`
	SecondHandMarkup  *decimal.Decimal `json:"second_hand_markup"`
	OutworkMarkup     *decimal.Decimal `json:"outwork_markup"`
	VATPercentage     *decimal.Decimal `json:"vat_percentage"`
}

func (r RateOverridesRequest) ToOverrides() entities.RateOverrides {
	return entities.RateOverrides{
		LabourRate:        r.LabourRate,
		PaintRate:         r.PaintRate,
		OEMMarkup:         r.OEMMarkup,
		AlternativeMarkup: r.AlternativeMarkup,
		SecondHandMarkup:  r.SecondHandMarkup,
		OutworkMarkup:     r.OutworkMarkup,
		VATPercentage:     r.VATPercentage,
	}
}

// RatesRequest replaces the global rates; every field is required.
type RatesRequest struct {
	LabourRate        *decimal.Decimal `json:"labour_rate" binding:"required"`
	PaintRate         *decimal.Decimal `json:"paint_rate" binding:"required"`
	OEMMarkup         *decimal.Decimal `json:"oem_markup" binding:"required"`
	AlternativeMarkup *decimal.Decimal `json:"alternative_markup" binding:"required"`
	SecondHandMarkup  *decimal.Decimal `json:"second_hand_markup" binding:"required"`
	OutworkMarkup     *decimal.Decimal `json:"outwork_markup" binding:"required"`
	VATPercentage     *decimal.Decimal `json:"vat_percentage" binding:"required"`
	UpdatedBy         string           `json:"updated_by" binding:"required"`
}

// ToSnapshot must only be called after binding succeeded.
func (r RatesRequest) ToSnapshot() entities.RateSnapshot {
	return entities.RateSnapshot{
		LabourRate: *r.LabourRate,
		PaintRate:  *r.PaintRate,
		Markups: entities.Markups{
			OEM:         *r.OEMMarkup,
			Alternative: *r.AlternativeMarkup,
			SecondHand:  *r.SecondHandMarkup,
			Outwork:     *r.OutworkMarkup,
		},
		VATPercentage: *r.VATPercentage,
	}
}
