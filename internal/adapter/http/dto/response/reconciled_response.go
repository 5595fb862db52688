package response

import (
	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/reconciliation"
	"repair_costing/internal/usecase"
)

type ReconciledLineResponse struct {
	LineItemResponse
	Source                 string `json:"source"`
	Action                 string `json:"action,omitempty"`
	Status                 string `json:"status"`
	OriginalLineItemID     string `json:"original_line_item_id,omitempty"`
	RemovedViaAdditionals  bool   `json:"removed_via_additionals"`
	DeclinedViaAdditionals bool   `json:"declined_via_additionals"`
	DeclineReason          string `json:"decline_reason,omitempty"`
}

func fromReconciledItem(it entities.ReconciledLineItem) ReconciledLineResponse {
	return ReconciledLineResponse{
		LineItemResponse:       FromLineItem(it.LineItem),
		Source:                 string(it.Source),
		Action:                 string(it.Action),
		Status:                 string(it.Status),
		OriginalLineItemID:     it.OriginalLineItemID,
		RemovedViaAdditionals:  it.RemovedViaAdditionals,
		DeclinedViaAdditionals: it.DeclinedViaAdditionals,
		DeclineReason:          it.DeclineReason,
	}
}

// ClassifiedLineResponse adds the inclusion verdict and the display badge.
type ClassifiedLineResponse struct {
	ReconciledLineResponse
	Counted bool   `json:"counted"`
	Badge   string `json:"badge,omitempty"`
}

type ReconciledResponse struct {
	AssessmentID string                   `json:"assessment_id"`
	Rates        RatesResponse            `json:"rates"`
	Lines        []ClassifiedLineResponse `json:"lines"`
	Totals       TotalsResponse           `json:"totals"`
	Counters     reconciliation.Counters  `json:"counters"`
}

func FromReconciled(v usecase.ReconciledView) ReconciledResponse {
	out := ReconciledResponse{
		AssessmentID: v.AssessmentID,
		Rates:        FromRates(v.Rates),
		Lines:        make([]ClassifiedLineResponse, 0, len(v.Lines)),
		Totals:       FromTotals(v.Totals),
		Counters:     v.Counters,
	}
	for _, l := range v.Lines {
		out.Lines = append(out.Lines, ClassifiedLineResponse{
			ReconciledLineResponse: fromReconciledItem(l.ReconciledLineItem),
			Counted:                l.Counted,
			Badge:                  string(l.Badge),
		})
	}
	return out
}
