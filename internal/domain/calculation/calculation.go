// Package calculation turns line item cost inputs into money.
//
// All arithmetic uses shopspring/decimal. Each priced component is rounded to
// cents before betterment, and rounding is half away from zero so that a
// negated line nets exactly against its original.
package calculation

import (
	"fmt"

	"repair_costing/internal/domain/entities"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Breakdown is the priced form of a single line item.
type Breakdown struct {
	// Components holds each applicable component after markup and before betterment.
	Components      map[entities.Component]decimal.Decimal
	Deductions      map[entities.Component]decimal.Decimal
	BettermentTotal decimal.Decimal
	Total           decimal.Decimal
}

// Price computes the breakdown of one cost variant under the given rates.
func Price(cost entities.CostInputs, betterment entities.Betterment, rates entities.RateSnapshot) (Breakdown, error) {
	if cost == nil {
		return Breakdown{}, entities.NewValidationError("process_type", "is required")
	}
	if err := betterment.ValidateFor(cost); err != nil {
		return Breakdown{}, err
	}

	components := map[entities.Component]decimal.Decimal{}
	switch c := cost.(type) {
	case entities.NewPartCost:
		components[entities.ComponentPart] = withMarkup(c.PartPriceNett, rates.Markups.For(c.PartType))
		components[entities.ComponentStripAssemble] = money(c.StripAssembleHours.Mul(rates.LabourRate))
		if c.PaintPanels != nil {
			components[entities.ComponentPaint] = money(c.PaintPanels.Mul(rates.PaintRate))
		}
	case entities.LabourPaintCost:
		if c.LabourHours != nil {
			components[entities.ComponentLabour] = money(c.LabourHours.Mul(rates.LabourRate))
		}
		if c.PaintPanels != nil {
			components[entities.ComponentPaint] = money(c.PaintPanels.Mul(rates.PaintRate))
		}
	case entities.AlignCost:
		components[entities.ComponentLabour] = money(c.LabourHours.Mul(rates.LabourRate))
	case entities.OutworkCost:
		components[entities.ComponentOutwork] = withMarkup(c.OutworkChargeNett, rates.Markups.Outwork)
	default:
		return Breakdown{}, fmt.Errorf("%w: unsupported cost variant %T", entities.ErrValidation, cost)
	}

	b := Breakdown{
		Components:      components,
		Deductions:      map[entities.Component]decimal.Decimal{},
		BettermentTotal: decimal.Zero,
		Total:           decimal.Zero,
	}
	for comp, gross := range components {
		net := gross
		if pct, ok := betterment[comp]; ok {
			deduction := money(gross.Mul(pct).Div(hundred))
			b.Deductions[comp] = deduction
			b.BettermentTotal = b.BettermentTotal.Add(deduction)
			net = gross.Sub(deduction)
		}
		b.Total = b.Total.Add(net)
	}
	return b, nil
}

// Apply recomputes the derived fields of item. The returned item is the only
// legitimate source of Total and BettermentTotal.
func Apply(item entities.LineItem, rates entities.RateSnapshot) (entities.LineItem, error) {
	b, err := Price(item.Cost, item.Betterment, rates)
	if err != nil {
		return entities.LineItem{}, err
	}
	out := item.Clone()
	out.Total = b.Total
	out.BettermentTotal = b.BettermentTotal
	return out, nil
}

// ApplyNegated prices item and flips the sign of its derived fields. It is
// used for the negative counterpart of a removal.
func ApplyNegated(item entities.LineItem, rates entities.RateSnapshot) (entities.LineItem, error) {
	out, err := Apply(item, rates)
	if err != nil {
		return entities.LineItem{}, err
	}
	out.Total = out.Total.Neg()
	out.BettermentTotal = out.BettermentTotal.Neg()
	return out, nil
}

// Summarize builds ledger-level totals from line totals.
func Summarize(lineTotals []decimal.Decimal, bettermentTotals []decimal.Decimal, vatPercentage decimal.Decimal) entities.LedgerTotals {
	subtotal := decimal.Zero
	for _, t := range lineTotals {
		subtotal = subtotal.Add(t)
	}
	betterment := decimal.Zero
	for _, t := range bettermentTotals {
		betterment = betterment.Add(t)
	}
	vat := money(subtotal.Mul(vatPercentage).Div(hundred))
	return entities.LedgerTotals{
		Subtotal:        subtotal,
		BettermentTotal: betterment,
		VATAmount:       vat,
		Total:           subtotal.Add(vat),
	}
}

// LedgerTotals prices nothing; it sums already-derived line totals.
func LedgerTotals(items []entities.LineItem, vatPercentage decimal.Decimal) entities.LedgerTotals {
	totals := make([]decimal.Decimal, 0, len(items))
	betterments := make([]decimal.Decimal, 0, len(items))
	for _, it := range items {
		totals = append(totals, it.Total)
		betterments = append(betterments, it.BettermentTotal)
	}
	return Summarize(totals, betterments, vatPercentage)
}

func withMarkup(nett, markupPct decimal.Decimal) decimal.Decimal {
	return money(nett.Mul(hundred.Add(markupPct)).Div(hundred))
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}
