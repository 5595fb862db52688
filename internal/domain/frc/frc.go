// Package frc holds the final repair costing lifecycle on a snapshot value.
// Functions here never touch storage; the use case layer persists results
// through the stage compare-and-swap.
package frc

import (
	"fmt"
	"strings"
	"time"

	"repair_costing/internal/domain/calculation"
	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/reconciliation"

	"github.com/shopspring/decimal"
)

// Start freezes the reconciled set into a new in-progress snapshot. Every
// line is copied; quoted and actual both start at the line total.
func Start(assessmentID string, reconciled []entities.ReconciledLineItem, rates entities.RateSnapshot, now time.Time) (entities.FRCSnapshot, error) {
	if err := reconciliation.CheckInvariants(reconciled); err != nil {
		return entities.FRCSnapshot{}, err
	}
	s := entities.FRCSnapshot{
		AssessmentID: assessmentID,
		Status:       entities.FRCStatusInProgress,
		Rates:        rates,
		Lines:        make([]entities.FRCLineItem, 0, len(reconciled)),
		StartedAt:    now,
		UpdatedAt:    now,
	}
	for _, r := range reconciled {
		s.Lines = append(s.Lines, newLine(r, nil))
	}
	return s, nil
}

func newLine(r entities.ReconciledLineItem, mergedAt *time.Time) entities.FRCLineItem {
	return entities.FRCLineItem{
		ReconciledLineItem: r.Clone(),
		QuotedTotal:        r.Total,
		ActualTotal:        r.Total,
		Decision:           entities.DecisionPending,
		MergedAt:           mergedAt,
	}
}

// MergeResult tells what a merge changed.
type MergeResult struct {
	Added   []string `json:"added"`
	Updated []string `json:"updated"`
	Dropped []string `json:"dropped"`
}

func (m MergeResult) Changed() bool {
	return len(m.Added)+len(m.Updated)+len(m.Dropped) > 0
}

// MergeAdditionals brings the snapshot in line with the current reconciled
// set: newly approved additionals are appended, status changes of known
// additionals are copied over, additionals undone by a reversal are dropped
// and removal markers on base lines are refreshed. Quoted totals of lines
// already in the snapshot are never touched. Merging twice with no new
// decisions in between changes nothing.
func MergeAdditionals(s entities.FRCSnapshot, reconciled []entities.ReconciledLineItem, now time.Time) (entities.FRCSnapshot, MergeResult, error) {
	var res MergeResult
	if s.Status != entities.FRCStatusInProgress {
		return s, res, entities.NewValidationError("frc", "is not in progress")
	}
	if err := reconciliation.CheckInvariants(reconciled); err != nil {
		return s, res, err
	}

	out := s.Clone()
	current := map[string]entities.ReconciledLineItem{}
	for _, r := range reconciled {
		current[r.ID] = r
	}

	kept := out.Lines[:0]
	for _, line := range out.Lines {
		r, ok := current[line.ID]
		if !ok {
			if line.Source == entities.SourceAdditional {
				res.Dropped = append(res.Dropped, line.ID)
				continue
			}
			kept = append(kept, line)
			continue
		}
		if line.Status != r.Status || line.RemovedViaAdditionals != r.RemovedViaAdditionals ||
			line.DeclinedViaAdditionals != r.DeclinedViaAdditionals || line.DeclineReason != r.DeclineReason {
			line.Status = r.Status
			line.RemovedViaAdditionals = r.RemovedViaAdditionals
			line.DeclinedViaAdditionals = r.DeclinedViaAdditionals
			line.DeclineReason = r.DeclineReason
			res.Updated = append(res.Updated, line.ID)
		}
		kept = append(kept, line)
	}
	out.Lines = kept

	for _, r := range reconciled {
		if r.Source != entities.SourceAdditional || !reconciliation.Counts(r) || out.Find(r.ID) >= 0 {
			continue
		}
		mergedAt := now
		out.Lines = append(out.Lines, newLine(r, &mergedAt))
		res.Added = append(res.Added, r.ID)
	}

	if err := reconciliation.CheckInvariants(quotedView(out)); err != nil {
		return s, MergeResult{}, err
	}
	if res.Changed() {
		out.UpdatedAt = now
	}
	return out, res, nil
}

// LineUpdate changes the actual cost and decision of one line.
type LineUpdate struct {
	LineID      string
	ActualTotal *decimal.Decimal
	Decision    entities.FRCDecision
	Note        string
}

// UpdateLine applies u. Accepted without an amount takes the quoted total;
// Adjusted needs an amount.
func UpdateLine(s entities.FRCSnapshot, u LineUpdate, now time.Time) (entities.FRCSnapshot, error) {
	if s.Status != entities.FRCStatusInProgress {
		return s, entities.NewValidationError("frc", "is not in progress")
	}
	if !u.Decision.IsValid() {
		return s, entities.NewValidationError("decision", fmt.Sprintf("unknown decision %q", u.Decision))
	}
	out := s.Clone()
	i := out.Find(u.LineID)
	if i < 0 {
		return s, fmt.Errorf("%w: frc line %s", entities.ErrNotFound, u.LineID)
	}
	line := &out.Lines[i]
	if !reconciliation.Counts(line.ReconciledLineItem) {
		return s, entities.NewValidationError("line_id", "does not count toward the repair cost")
	}

	switch u.Decision {
	case entities.DecisionAccepted:
		line.ActualTotal = line.QuotedTotal
		if u.ActualTotal != nil {
			line.ActualTotal = *u.ActualTotal
		}
	case entities.DecisionAdjusted:
		if u.ActualTotal == nil {
			return s, entities.NewValidationError("actual_total", "is required when adjusting")
		}
		line.ActualTotal = *u.ActualTotal
	default:
		if u.ActualTotal != nil {
			line.ActualTotal = *u.ActualTotal
		}
	}
	line.Decision = u.Decision
	line.Note = strings.TrimSpace(u.Note)
	out.UpdatedAt = now
	return out, nil
}

// SignOff completes the snapshot. After it, lines are read-only until Reopen.
func SignOff(s entities.FRCSnapshot, name, role string, now time.Time) (entities.FRCSnapshot, error) {
	if s.Status != entities.FRCStatusInProgress {
		return s, entities.NewValidationError("frc", "is not in progress")
	}
	name, role = strings.TrimSpace(name), strings.TrimSpace(role)
	if name == "" {
		return s, entities.NewValidationError("signed_off_by", "is required")
	}
	if role == "" {
		return s, entities.NewValidationError("signed_off_role", "is required")
	}
	out := s.Clone()
	out.Status = entities.FRCStatusCompleted
	out.SignOff = &entities.SignOff{Name: name, Role: role, CompletedAt: now}
	out.UpdatedAt = now
	return out, nil
}

// Reopen is the administrative inverse of SignOff.
func Reopen(s entities.FRCSnapshot, now time.Time) (entities.FRCSnapshot, error) {
	if s.Status != entities.FRCStatusCompleted {
		return s, entities.NewValidationError("frc", "is not completed")
	}
	out := s.Clone()
	out.Status = entities.FRCStatusInProgress
	out.SignOff = nil
	out.ReopenCount++
	out.UpdatedAt = now
	return out, nil
}

// Breakdown compares quoted and actual totals over the counted lines.
func Breakdown(s entities.FRCSnapshot) (entities.FRCBreakdown, error) {
	quoted, err := reconciliation.Totals(quotedView(s), s.Rates.VATPercentage)
	if err != nil {
		return entities.FRCBreakdown{}, err
	}

	var b entities.FRCBreakdown
	actualTotals := make([]decimal.Decimal, 0, len(s.Lines))
	for _, l := range s.Lines {
		if !reconciliation.Counts(l.ReconciledLineItem) {
			continue
		}
		actualTotals = append(actualTotals, l.ActualTotal)
		switch l.Decision {
		case entities.DecisionPending:
			b.Pending++
		case entities.DecisionAccepted:
			b.Accepted++
		case entities.DecisionAdjusted:
			b.Adjusted++
		case entities.DecisionDisputed:
			b.Disputed++
		}
	}
	b.Quoted = quoted
	b.Actual = calculation.Summarize(actualTotals, nil, s.Rates.VATPercentage)
	b.Variance = b.Actual.Total.Sub(b.Quoted.Total)
	return b, nil
}

// quotedView projects the snapshot lines with their quoted totals.
func quotedView(s entities.FRCSnapshot) []entities.ReconciledLineItem {
	out := make([]entities.ReconciledLineItem, 0, len(s.Lines))
	for _, l := range s.Lines {
		r := l.ReconciledLineItem
		r.Total = l.QuotedTotal
		out = append(out, r)
	}
	return out
}
