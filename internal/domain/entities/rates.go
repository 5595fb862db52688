package entities

import "github.com/shopspring/decimal"

// Markups holds markup percentages (0-100) per part type and for outwork.
type Markups struct {
	OEM         decimal.Decimal `json:"oem"`
	Alternative decimal.Decimal `json:"alternative"`
	SecondHand  decimal.Decimal `json:"second_hand"`
	Outwork     decimal.Decimal `json:"outwork"`
}

// For returns the markup percentage that applies to a new part of the given type.
func (m Markups) For(pt PartType) decimal.Decimal {
	switch pt {
	case PartTypeOEM:
		return m.OEM
	case PartTypeAlternative:
		return m.Alternative
	case PartTypeSecondHand:
		return m.SecondHand
	}
	return decimal.Zero
}

// RateSnapshot is an immutable copy of labour/paint rates, markups and VAT.
// Components receive it by value and never keep a handle to the global source.
type RateSnapshot struct {
	LabourRate    decimal.Decimal `json:"labour_rate"`
	PaintRate     decimal.Decimal `json:"paint_rate"`
	Markups       Markups         `json:"markups"`
	VATPercentage decimal.Decimal `json:"vat_percentage"`
}

func (r RateSnapshot) Validate() error {
	checks := []struct {
		field string
		value decimal.Decimal
	}{
		{"labour_rate", r.LabourRate},
		{"paint_rate", r.PaintRate},
		{"markups.oem", r.Markups.OEM},
		{"markups.alternative", r.Markups.Alternative},
		{"markups.second_hand", r.Markups.SecondHand},
		{"markups.outwork", r.Markups.Outwork},
		{"vat_percentage", r.VATPercentage},
	}
	for _, c := range checks {
		if c.value.IsNegative() {
			return NewValidationError(c.field, "must not be negative")
		}
	}
	if r.VATPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return NewValidationError("vat_percentage", "must be at most 100")
	}
	return nil
}

// RateOverrides are per-assessment adjustments applied on top of the global rates.
// Nil fields keep the global value.
type RateOverrides struct {
	LabourRate        *decimal.Decimal `json:"labour_rate,omitempty"`
	PaintRate         *decimal.Decimal `json:"paint_rate,omitempty"`
	OEMMarkup         *decimal.Decimal `json:"oem_markup,omitempty"`
	AlternativeMarkup *decimal.Decimal `json:"alternative_markup,omitempty"`
	SecondHandMarkup  *decimal.Decimal `json:"second_hand_markup,omitempty"`
	OutworkMarkup     *decimal.Decimal `json:"outwork_markup,omitempty"`
	VATPercentage     *decimal.Decimal `json:"vat_percentage,omitempty"`
}

// With returns a copy of r with the overrides applied.
func (r RateSnapshot) With(o RateOverrides) RateSnapshot {
	out := r
	apply := func(dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&out.LabourRate, o.LabourRate)
	apply(&out.PaintRate, o.PaintRate)
	apply(&out.Markups.OEM, o.OEMMarkup)
	apply(&out.Markups.Alternative, o.AlternativeMarkup)
	apply(&out.Markups.SecondHand, o.SecondHandMarkup)
	apply(&out.Markups.Outwork, o.OutworkMarkup)
	apply(&out.VATPercentage, o.VATPercentage)
	return out
}
