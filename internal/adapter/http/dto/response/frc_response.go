package response

import (
	"time"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/frc"
	"repair_costing/internal/usecase"
)

type FRCLineResponse struct {
	ReconciledLineResponse
	QuotedTotal string     `json:"quoted_total"`
	ActualTotal string     `json:"actual_total"`
	Variance    string     `json:"variance"`
	Decision    string     `json:"decision"`
	Note        string     `json:"note,omitempty"`
	MergedAt    *time.Time `json:"merged_at,omitempty"`
}

type SignOffResponse struct {
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	CompletedAt time.Time `json:"completed_at"`
}

type BreakdownResponse struct {
	Quoted   TotalsResponse `json:"quoted"`
	Actual   TotalsResponse `json:"actual"`
	Variance string         `json:"variance"`
	Pending  int            `json:"pending"`
	Accepted int            `json:"accepted"`
	Adjusted int            `json:"adjusted"`
	Disputed int            `json:"disputed"`
}

type FRCResponse struct {
	AssessmentID string            `json:"assessment_id"`
	Status       string            `json:"status"`
	Rates        RatesResponse     `json:"rates"`
	Lines        []FRCLineResponse `json:"lines"`
	Breakdown    BreakdownResponse `json:"breakdown"`
	StartedAt    time.Time         `json:"started_at"`
	SignOff      *SignOffResponse  `json:"sign_off,omitempty"`
	ReopenCount  int               `json:"reopen_count"`
	Version      int64             `json:"version"`
}

func FromFRC(v usecase.FRCView) FRCResponse {
	s := v.Snapshot
	b := v.Breakdown
	out := FRCResponse{
		AssessmentID: s.AssessmentID,
		Status:       string(s.Status),
		Rates:        FromRates(s.Rates),
		Lines:        make([]FRCLineResponse, 0, len(s.Lines)),
		Breakdown: BreakdownResponse{
			Quoted:   FromTotals(b.Quoted),
			Actual:   FromTotals(b.Actual),
			Variance: money(b.Variance),
			Pending:  b.Pending,
			Accepted: b.Accepted,
			Adjusted: b.Adjusted,
			Disputed: b.Disputed,
		},
		StartedAt:   s.StartedAt,
		ReopenCount: s.ReopenCount,
		Version:     s.Version,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, fromFRCLine(l))
	}
	if s.SignOff != nil {
		out.SignOff = &SignOffResponse{Name: s.SignOff.Name, Role: s.SignOff.Role, CompletedAt: s.SignOff.CompletedAt}
	}
	return out
}

func fromFRCLine(l entities.FRCLineItem) FRCLineResponse {
	return FRCLineResponse{
		ReconciledLineResponse: fromReconciledItem(l.ReconciledLineItem),
		QuotedTotal:            money(l.QuotedTotal),
		ActualTotal:            money(l.ActualTotal),
		Variance:               money(l.ActualTotal.Sub(l.QuotedTotal)),
		Decision:               string(l.Decision),
		Note:                   l.Note,
		MergedAt:               l.MergedAt,
	}
}

type MergeResponse struct {
	FRC   FRCResponse     `json:"frc"`
	Merge frc.MergeResult `json:"merge"`
}
