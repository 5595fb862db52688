package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdditionalAction says what an additional does to the scope of work.
type AdditionalAction string

const (
	ActionAdded    AdditionalAction = "added"
	ActionRemoved  AdditionalAction = "removed"
	ActionReversal AdditionalAction = "reversal"
)

func (a AdditionalAction) IsValid() bool {
	switch a {
	case ActionAdded, ActionRemoved, ActionReversal:
		return true
	}
	return false
}

// AdditionalStatus is the approval state of an additional.
type AdditionalStatus string

const (
	AdditionalStatusPending  AdditionalStatus = "pending"
	AdditionalStatusApproved AdditionalStatus = "approved"
	AdditionalStatusDeclined AdditionalStatus = "declined"
)

func (s AdditionalStatus) IsValid() bool {
	switch s {
	case AdditionalStatusPending, AdditionalStatusApproved, AdditionalStatusDeclined:
		return true
	}
	return false
}

// AdditionalLineItem is a line item discovered after the estimate.
//
// Removed items carry the cost inputs of the base line they remove and a
// negative Total, so an approved removal and its original net to zero.
// Reversal items carry no cost; they point at the item they undo.
type AdditionalLineItem struct {
	LineItem
	Action             AdditionalAction `json:"action"`
	Status             AdditionalStatus `json:"status"`
	OriginalLineItemID string           `json:"original_line_item_id,omitempty"`
	ReversalTargetID   string           `json:"reversal_target_id,omitempty"`
	DeclineReason      string           `json:"decline_reason,omitempty"`
	DecidedBy          string           `json:"decided_by,omitempty"`
	DecidedAt          *time.Time       `json:"decided_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

func (a AdditionalLineItem) Clone() AdditionalLineItem {
	out := a
	out.LineItem = a.LineItem.Clone()
	if a.DecidedAt != nil {
		t := *a.DecidedAt
		out.DecidedAt = &t
	}
	return out
}

// AdditionalsOverlay is the second, independent set of line items layered on
// top of an EstimateLedger. It only references base items by id.
//
// Storage model (DynamoDB):
//   - PK: assessment_id
type AdditionalsOverlay struct {
	AssessmentID string               `json:"assessment_id"`
	Rates        RateSnapshot         `json:"rates"`
	LineItems    []AdditionalLineItem `json:"line_items"`
	Version      int64                `json:"version"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func (o *AdditionalsOverlay) Find(id string) int {
	for i := range o.LineItems {
		if o.LineItems[i].ID == id {
			return i
		}
	}
	return -1
}

// ReversedTargets returns the ids undone by approved reversals.
func (o AdditionalsOverlay) ReversedTargets() map[string]bool {
	out := map[string]bool{}
	for _, a := range o.LineItems {
		if a.Action == ActionReversal && a.Status == AdditionalStatusApproved {
			out[a.ReversalTargetID] = true
		}
	}
	return out
}

func (o AdditionalsOverlay) Clone() AdditionalsOverlay {
	out := o
	out.LineItems = make([]AdditionalLineItem, len(o.LineItems))
	for i, a := range o.LineItems {
		out.LineItems[i] = a.Clone()
	}
	return out
}

// LineSource says which collection a reconciled item came from.
type LineSource string

const (
	SourceEstimate   LineSource = "estimate"
	SourceAdditional LineSource = "additional"
)

// ReconciledLineItem is the output-only projection of a base or additional
// item. The Removed/Declined markers are presentation and audit metadata;
// inclusion in totals is decided from Source, Action and Status only.
type ReconciledLineItem struct {
	LineItem
	Source                 LineSource       `json:"source"`
	Action                 AdditionalAction `json:"action,omitempty"`
	Status                 AdditionalStatus `json:"status"`
	OriginalLineItemID     string           `json:"original_line_item_id,omitempty"`
	RemovedViaAdditionals  bool             `json:"removed_via_additionals"`
	DeclinedViaAdditionals bool             `json:"declined_via_additionals"`
	DeclineReason          string           `json:"decline_reason,omitempty"`
}

func (r ReconciledLineItem) Clone() ReconciledLineItem {
	out := r
	out.LineItem = r.LineItem.Clone()
	return out
}

// LedgerTotals are the money totals of any line set.
type LedgerTotals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	BettermentTotal decimal.Decimal `json:"betterment_total"`
	VATAmount       decimal.Decimal `json:"vat_amount"`
	Total           decimal.Decimal `json:"total"`
}
