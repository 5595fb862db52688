// Package reconciliation composes the base estimate and the additionals
// overlay into one reconciled line set and decides, in exactly one place,
// which reconciled items count toward money totals.
package reconciliation

import (
	"fmt"

	"repair_costing/internal/domain/calculation"
	"repair_costing/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Badge is the marker a renderer shows next to a reconciled item.
type Badge string

const (
	BadgeNone     Badge = ""
	BadgeRemoved  Badge = "removed"
	BadgeRemoval  Badge = "removal"
	BadgeAdded    Badge = "added"
	BadgePending  Badge = "pending"
	BadgeDeclined Badge = "declined"
)

// Classification is the verdict of Classify.
type Classification struct {
	Counted bool  `json:"counted"`
	Badge   Badge `json:"badge"`
}

// Classify is the inclusion predicate. The totals calculator, the list
// renderer and the badge counters all go through it.
//
// Counted is decided from Source and Status only. A base item is implicitly
// approved and always counts, also when an additional removes it: the
// removal contributes its own negative total. An additional counts only when
// approved. The Removed/Declined markers only pick the badge.
func Classify(item entities.ReconciledLineItem) Classification {
	switch item.Source {
	case entities.SourceEstimate:
		c := Classification{Counted: true, Badge: BadgeNone}
		if item.RemovedViaAdditionals {
			c.Badge = BadgeRemoved
		}
		return c
	case entities.SourceAdditional:
		c := Classification{Counted: item.Status == entities.AdditionalStatusApproved}
		switch {
		case item.DeclinedViaAdditionals:
			c.Badge = BadgeDeclined
		case item.Status == entities.AdditionalStatusPending:
			c.Badge = BadgePending
		case item.Action == entities.ActionRemoved:
			c.Badge = BadgeRemoval
		default:
			c.Badge = BadgeAdded
		}
		return c
	}
	return Classification{}
}

// Counts reports whether item contributes to payable totals.
func Counts(item entities.ReconciledLineItem) bool {
	return Classify(item).Counted
}

// Compose builds the reconciled line set. Inputs are not modified and the
// output shares no state with them.
//
//  1. R is the set of base ids targeted by removal additionals that have not
//     been undone by an approved reversal. It only drives the Removed marker.
//  2. Every base item is carried forward, marked when its id is in R.
//  3. Every non-reversal additional is carried forward whatever its status,
//     removals included, unless an approved reversal undid it.
//  4. Reversal lines are never emitted; an approved reversal also drops its target.
func Compose(ledger entities.EstimateLedger, overlay entities.AdditionalsOverlay) []entities.ReconciledLineItem {
	reversed := overlay.ReversedTargets()

	removed := map[string]bool{}
	for _, a := range overlay.LineItems {
		if a.Action == entities.ActionRemoved && !reversed[a.ID] {
			removed[a.OriginalLineItemID] = true
		}
	}

	out := make([]entities.ReconciledLineItem, 0, len(ledger.LineItems)+len(overlay.LineItems))
	for _, e := range ledger.LineItems {
		out = append(out, entities.ReconciledLineItem{
			LineItem:              e.Clone(),
			Source:                entities.SourceEstimate,
			Status:                entities.AdditionalStatusApproved,
			RemovedViaAdditionals: removed[e.ID],
		})
	}

	for _, a := range overlay.LineItems {
		if a.Action == entities.ActionReversal || reversed[a.ID] {
			continue
		}
		r := entities.ReconciledLineItem{
			LineItem:               a.LineItem.Clone(),
			Source:                 entities.SourceAdditional,
			Action:                 a.Action,
			Status:                 a.Status,
			OriginalLineItemID:     a.OriginalLineItemID,
			DeclinedViaAdditionals: a.Status == entities.AdditionalStatusDeclined,
		}
		if r.DeclinedViaAdditionals {
			r.DeclineReason = a.DeclineReason
		}
		out = append(out, r)
	}
	return out
}

// Totals sums the counted items after checking the set's invariants. An
// invariant failure returns an error and no totals.
func Totals(items []entities.ReconciledLineItem, vatPercentage decimal.Decimal) (entities.LedgerTotals, error) {
	if err := CheckInvariants(items); err != nil {
		return entities.LedgerTotals{}, err
	}
	totals := make([]decimal.Decimal, 0, len(items))
	betterments := make([]decimal.Decimal, 0, len(items))
	for _, it := range items {
		if !Counts(it) {
			continue
		}
		totals = append(totals, it.Total)
		betterments = append(betterments, it.BettermentTotal)
	}
	return calculation.Summarize(totals, betterments, vatPercentage), nil
}

// CheckInvariants asserts the rules a reconciled set can never break:
//   - a declined item never counts
//   - a counted removal has its original in the set, at most one counted
//     removal exists per original, and the pair nets to exactly zero
func CheckInvariants(items []entities.ReconciledLineItem) error {
	originals := map[string]entities.ReconciledLineItem{}
	for _, it := range items {
		if it.Source == entities.SourceEstimate {
			originals[it.ID] = it
		}
	}

	removalsPerOriginal := map[string]int{}
	for _, it := range items {
		counted := Counts(it)
		if counted && (it.Status == entities.AdditionalStatusDeclined || it.DeclinedViaAdditionals) {
			return &entities.InvariantError{Rule: "declined-never-counted", Detail: fmt.Sprintf("line %s is declined but counted", it.ID)}
		}
		if !counted || it.Source != entities.SourceAdditional || it.Action != entities.ActionRemoved {
			continue
		}
		orig, ok := originals[it.OriginalLineItemID]
		if !ok {
			return &entities.InvariantError{Rule: "removal-has-original", Detail: fmt.Sprintf("removal %s references missing line %s", it.ID, it.OriginalLineItemID)}
		}
		removalsPerOriginal[orig.ID]++
		if removalsPerOriginal[orig.ID] > 1 {
			return &entities.InvariantError{Rule: "single-removal", Detail: fmt.Sprintf("line %s is removed more than once", orig.ID)}
		}
		if !Counts(orig) {
			return &entities.InvariantError{Rule: "removal-net-zero", Detail: fmt.Sprintf("original %s of removal %s is not counted", orig.ID, it.ID)}
		}
		if net := orig.Total.Add(it.Total); !net.IsZero() {
			return &entities.InvariantError{Rule: "removal-net-zero", Detail: fmt.Sprintf("line %s and removal %s net to %s", orig.ID, it.ID, net)}
		}
	}
	return nil
}

// Counters are the badge counts shown above a reconciled list.
type Counters struct {
	Visible  int `json:"visible"`
	Counted  int `json:"counted"`
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Removals int `json:"removals"`
	Pending  int `json:"pending"`
	Declined int `json:"declined"`
}

func Count(items []entities.ReconciledLineItem) Counters {
	var c Counters
	for _, it := range items {
		cl := Classify(it)
		c.Visible++
		if cl.Counted {
			c.Counted++
		}
		switch cl.Badge {
		case BadgeAdded:
			c.Added++
		case BadgeRemoved:
			c.Removed++
		case BadgeRemoval:
			c.Removals++
		case BadgePending:
			c.Pending++
		case BadgeDeclined:
			c.Declined++
		}
	}
	return c
}
