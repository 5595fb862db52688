package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// FRCStatus is the lifecycle of a final repair costing.
type FRCStatus string

const (
	FRCStatusNotStarted FRCStatus = "not_started"
	FRCStatusInProgress FRCStatus = "in_progress"
	FRCStatusCompleted  FRCStatus = "completed"
)

// FRCDecision is the per-line verdict on the actual cost.
type FRCDecision string

const (
	DecisionPending  FRCDecision = "pending"
	DecisionAccepted FRCDecision = "accepted"
	DecisionAdjusted FRCDecision = "adjusted"
	DecisionDisputed FRCDecision = "disputed"
)

func (d FRCDecision) IsValid() bool {
	switch d {
	case DecisionPending, DecisionAccepted, DecisionAdjusted, DecisionDisputed:
		return true
	}
	return false
}

// FRCLineItem is a frozen copy of a reconciled item plus its actual cost.
type FRCLineItem struct {
	ReconciledLineItem
	QuotedTotal decimal.Decimal `json:"quoted_total"`
	ActualTotal decimal.Decimal `json:"actual_total"`
	Decision    FRCDecision     `json:"decision"`
	Note        string          `json:"note,omitempty"`
	// MergedAt is set for additionals pulled in after the FRC started.
	MergedAt *time.Time `json:"merged_at,omitempty"`
}

func (f FRCLineItem) Clone() FRCLineItem {
	out := f
	out.ReconciledLineItem = f.ReconciledLineItem.Clone()
	if f.MergedAt != nil {
		t := *f.MergedAt
		out.MergedAt = &t
	}
	return out
}

// SignOff is who closed the FRC and when.
type SignOff struct {
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	CompletedAt time.Time `json:"completed_at"`
}

// FRCSnapshot owns copies of the reconciled lines taken when the FRC started.
// It never references the ledger or overlay.
//
// Storage model (DynamoDB):
//   - PK: assessment_id
type FRCSnapshot struct {
	AssessmentID string        `json:"assessment_id"`
	Status       FRCStatus     `json:"status"`
	Rates        RateSnapshot  `json:"rates"`
	Lines        []FRCLineItem `json:"lines"`
	StartedAt    time.Time     `json:"started_at"`
	SignOff      *SignOff      `json:"sign_off,omitempty"`
	ReopenCount  int           `json:"reopen_count"`
	Version      int64         `json:"version"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (s *FRCSnapshot) Find(id string) int {
	for i := range s.Lines {
		if s.Lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (s FRCSnapshot) Clone() FRCSnapshot {
	out := s
	out.Lines = make([]FRCLineItem, len(s.Lines))
	for i, l := range s.Lines {
		out.Lines[i] = l.Clone()
	}
	if s.SignOff != nil {
		so := *s.SignOff
		out.SignOff = &so
	}
	return out
}

// FRCBreakdown compares quoted and actual money over the counted lines.
type FRCBreakdown struct {
	Quoted   LedgerTotals    `json:"quoted"`
	Actual   LedgerTotals    `json:"actual"`
	Variance decimal.Decimal `json:"variance"`
	Pending  int             `json:"pending"`
	Accepted int             `json:"accepted"`
	Adjusted int             `json:"adjusted"`
	Disputed int             `json:"disputed"`
}
