package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProcessType selects which cost inputs a line item carries.
type ProcessType string

const (
	ProcessTypeNew     ProcessType = "new"
	ProcessTypeRepair  ProcessType = "repair"
	ProcessTypePaint   ProcessType = "paint"
	ProcessTypeBlend   ProcessType = "blend"
	ProcessTypeAlign   ProcessType = "align"
	ProcessTypeOutwork ProcessType = "outwork"
)

func (p ProcessType) IsValid() bool {
	switch p {
	case ProcessTypeNew, ProcessTypeRepair, ProcessTypePaint, ProcessTypeBlend, ProcessTypeAlign, ProcessTypeOutwork:
		return true
	}
	return false
}

// PartType selects the markup for a new part.
type PartType string

const (
	PartTypeOEM         PartType = "oem"
	PartTypeAlternative PartType = "alternative"
	PartTypeSecondHand  PartType = "second_hand"
)

func (p PartType) IsValid() bool {
	switch p {
	case PartTypeOEM, PartTypeAlternative, PartTypeSecondHand:
		return true
	}
	return false
}

// Component identifies one priced piece of a line item. Betterment is
// configured per component.
type Component string

const (
	ComponentPart          Component = "part"
	ComponentStripAssemble Component = "strip_assemble"
	ComponentLabour        Component = "labour"
	ComponentPaint         Component = "paint"
	ComponentOutwork       Component = "outwork"
)

func (c Component) IsValid() bool {
	switch c {
	case ComponentPart, ComponentStripAssemble, ComponentLabour, ComponentPaint, ComponentOutwork:
		return true
	}
	return false
}

// CostInputs is the process-type specific variant of a line item. The set of
// implementations is closed; calculation switches over them exhaustively.
type CostInputs interface {
	ProcessType() ProcessType
	// Components lists the components this variant can price.
	Components() []Component
	isCostInputs()
}

// NewPartCost is a replacement part.
type NewPartCost struct {
	PartType           PartType
	PartPriceNett      decimal.Decimal
	StripAssembleHours decimal.Decimal
	// PaintPanels is nil when the part is not painted.
	PaintPanels *decimal.Decimal
}

// LabourPaintCost covers repair, paint and blend work.
type LabourPaintCost struct {
	Process     ProcessType
	LabourHours *decimal.Decimal
	PaintPanels *decimal.Decimal
}

type AlignCost struct {
	LabourHours decimal.Decimal
}

type OutworkCost struct {
	OutworkChargeNett decimal.Decimal
}

func (NewPartCost) ProcessType() ProcessType       { return ProcessTypeNew }
func (c LabourPaintCost) ProcessType() ProcessType { return c.Process }
func (AlignCost) ProcessType() ProcessType         { return ProcessTypeAlign }
func (OutworkCost) ProcessType() ProcessType       { return ProcessTypeOutwork }

func (c NewPartCost) Components() []Component {
	out := []Component{ComponentPart, ComponentStripAssemble}
	if c.PaintPanels != nil {
		out = append(out, ComponentPaint)
	}
	return out
}

func (c LabourPaintCost) Components() []Component {
	var out []Component
	if c.LabourHours != nil {
		out = append(out, ComponentLabour)
	}
	if c.PaintPanels != nil {
		out = append(out, ComponentPaint)
	}
	return out
}

func (AlignCost) Components() []Component   { return []Component{ComponentLabour} }
func (OutworkCost) Components() []Component { return []Component{ComponentOutwork} }

func (NewPartCost) isCostInputs()     {}
func (LabourPaintCost) isCostInputs() {}
func (AlignCost) isCostInputs()       {}
func (OutworkCost) isCostInputs()     {}

// CostFields is the flat wire/storage form of CostInputs. A nil field means
// "not applicable", which is different from zero.
type CostFields struct {
	PartType           *PartType        `json:"part_type,omitempty"`
	PartPriceNett      *decimal.Decimal `json:"part_price_nett,omitempty"`
	StripAssembleHours *decimal.Decimal `json:"strip_assemble_hours,omitempty"`
	LabourHours        *decimal.Decimal `json:"labour_hours,omitempty"`
	PaintPanels        *decimal.Decimal `json:"paint_panels,omitempty"`
	OutworkChargeNett  *decimal.Decimal `json:"outwork_charge_nett,omitempty"`
}

// BuildCostInputs validates the flat fields against the process type and
// returns the matching variant. Fields that do not belong to the process
// type are rejected rather than ignored.
func BuildCostInputs(pt ProcessType, f CostFields) (CostInputs, error) {
	if !pt.IsValid() {
		return nil, NewValidationError("process_type", fmt.Sprintf("unknown process type %q", pt))
	}
	allowed := map[string]bool{}
	present := map[string]bool{
		"part_type":            f.PartType != nil,
		"part_price_nett":      f.PartPriceNett != nil,
		"strip_assemble_hours": f.StripAssembleHours != nil,
		"labour_hours":         f.LabourHours != nil,
		"paint_panels":         f.PaintPanels != nil,
		"outwork_charge_nett":  f.OutworkChargeNett != nil,
	}

	var out CostInputs
	switch pt {
	case ProcessTypeNew:
		allowed["part_type"], allowed["part_price_nett"], allowed["strip_assemble_hours"], allowed["paint_panels"] = true, true, true, true
		if f.PartType == nil || !f.PartType.IsValid() {
			return nil, NewValidationError("part_type", "is required for new parts (oem, alternative, second_hand)")
		}
		if f.PartPriceNett == nil {
			return nil, NewValidationError("part_price_nett", "is required for new parts")
		}
		c := NewPartCost{PartType: *f.PartType, PartPriceNett: *f.PartPriceNett, PaintPanels: copyDecimal(f.PaintPanels)}
		if f.StripAssembleHours != nil {
			c.StripAssembleHours = *f.StripAssembleHours
		}
		out = c
	case ProcessTypeRepair, ProcessTypePaint, ProcessTypeBlend:
		allowed["labour_hours"], allowed["paint_panels"] = true, true
		if f.LabourHours == nil && f.PaintPanels == nil {
			return nil, NewValidationError("labour_hours", "labour_hours or paint_panels is required for "+string(pt))
		}
		out = LabourPaintCost{Process: pt, LabourHours: copyDecimal(f.LabourHours), PaintPanels: copyDecimal(f.PaintPanels)}
	case ProcessTypeAlign:
		allowed["labour_hours"] = true
		if f.LabourHours == nil {
			return nil, NewValidationError("labour_hours", "is required for align")
		}
		out = AlignCost{LabourHours: *f.LabourHours}
	case ProcessTypeOutwork:
		allowed["outwork_charge_nett"] = true
		if f.OutworkChargeNett == nil {
			return nil, NewValidationError("outwork_charge_nett", "is required for outwork")
		}
		out = OutworkCost{OutworkChargeNett: *f.OutworkChargeNett}
	}

	for name, ok := range present {
		if ok && !allowed[name] {
			return nil, NewValidationError(name, "is not applicable to "+string(pt))
		}
	}
	for name, v := range map[string]*decimal.Decimal{
		"part_price_nett":      f.PartPriceNett,
		"strip_assemble_hours": f.StripAssembleHours,
		"labour_hours":         f.LabourHours,
		"paint_panels":         f.PaintPanels,
		"outwork_charge_nett":  f.OutworkChargeNett,
	} {
		if v != nil && v.IsNegative() {
			return nil, NewValidationError(name, "must not be negative")
		}
	}
	return out, nil
}

// FieldsOf flattens a variant back to its wire form.
func FieldsOf(c CostInputs) CostFields {
	switch v := c.(type) {
	case NewPartCost:
		pt := v.PartType
		return CostFields{
			PartType:           &pt,
			PartPriceNett:      copyDecimal(&v.PartPriceNett),
			StripAssembleHours: copyDecimal(&v.StripAssembleHours),
			PaintPanels:        copyDecimal(v.PaintPanels),
		}
	case LabourPaintCost:
		return CostFields{LabourHours: copyDecimal(v.LabourHours), PaintPanels: copyDecimal(v.PaintPanels)}
	case AlignCost:
		return CostFields{LabourHours: copyDecimal(&v.LabourHours)}
	case OutworkCost:
		return CostFields{OutworkChargeNett: copyDecimal(&v.OutworkChargeNett)}
	}
	return CostFields{}
}

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

// Betterment maps a component to its deduction percentage (0-100).
type Betterment map[Component]decimal.Decimal

// ValidateFor checks percentages and that every component applies to the cost variant.
func (b Betterment) ValidateFor(c CostInputs) error {
	applicable := map[Component]bool{}
	for _, comp := range c.Components() {
		applicable[comp] = true
	}
	hundred := decimal.NewFromInt(100)
	for comp, pct := range b {
		if !comp.IsValid() {
			return NewValidationError("betterment", fmt.Sprintf("unknown component %q", comp))
		}
		if !applicable[comp] {
			return NewValidationError("betterment."+string(comp), "is not applicable to "+string(c.ProcessType()))
		}
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return NewValidationError("betterment."+string(comp), "must be between 0 and 100")
		}
	}
	return nil
}

func (b Betterment) Clone() Betterment {
	if b == nil {
		return nil
	}
	out := make(Betterment, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// LineItem is one cost entry. Total and BettermentTotal are derived from
// Cost, Betterment and the rates in force; callers recompute them through
// the calculation package and never set them by hand.
type LineItem struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Cost            CostInputs      `json:"-"`
	Betterment      Betterment      `json:"betterment,omitempty"`
	Total           decimal.Decimal `json:"total"`
	BettermentTotal decimal.Decimal `json:"betterment_total"`
}

func (l LineItem) ProcessType() ProcessType {
	if l.Cost == nil {
		return ""
	}
	return l.Cost.ProcessType()
}

// Validate checks the structural fields of the item.
func (l LineItem) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return NewValidationError("id", "is required")
	}
	if strings.TrimSpace(l.Description) == "" {
		return NewValidationError("description", "is required")
	}
	if l.Cost == nil {
		return NewValidationError("process_type", "is required")
	}
	return l.Betterment.ValidateFor(l.Cost)
}

// Clone returns a deep copy; variants are values so only maps and pointers need copying.
func (l LineItem) Clone() LineItem {
	out := l
	out.Betterment = l.Betterment.Clone()
	out.Cost = cloneCost(l.Cost)
	return out
}

func cloneCost(c CostInputs) CostInputs {
	switch v := c.(type) {
	case NewPartCost:
		v.PaintPanels = copyDecimal(v.PaintPanels)
		return v
	case LabourPaintCost:
		v.LabourHours = copyDecimal(v.LabourHours)
		v.PaintPanels = copyDecimal(v.PaintPanels)
		return v
	}
	return c
}
