package repository

import (
	"repair_costing/internal/domain/entities"
)

type assessmentItem struct {
	ID             string `dynamodbav:"id"`
	ClaimReference string `dynamodbav:"claim_reference"`
	Stage          string `dynamodbav:"stage"`
	Status         string `dynamodbav:"status"`
	CancelReason   string `dynamodbav:"cancel_reason,omitempty"`
	Version        int64  `dynamodbav:"version"`
	CreatedAt      string `dynamodbav:"created_at"`
	UpdatedAt      string `dynamodbav:"updated_at"`
}

type ledgerItem struct {
	AssessmentID string         `dynamodbav:"assessment_id"`
	LineItems    []lineItemItem `dynamodbav:"line_items"`
	Overrides    overridesItem  `dynamodbav:"overrides"`
	FrozenRates  *rateItem      `dynamodbav:"frozen_rates,omitempty"`
	Finalized    bool           `dynamodbav:"finalized"`
	FinalizedAt  string         `dynamodbav:"finalized_at,omitempty"`
	Subtotal     string         `dynamodbav:"subtotal"`
	VATAmount    string         `dynamodbav:"vat_amount"`
	Total        string         `dynamodbav:"total"`
	Version      int64          `dynamodbav:"version"`
	CreatedAt    string         `dynamodbav:"created_at"`
	UpdatedAt    string         `dynamodbav:"updated_at"`
}

type additionalItem struct {
	lineItemItem
	Action             string `dynamodbav:"action"`
	Status             string `dynamodbav:"status"`
	OriginalLineItemID string `dynamodbav:"original_line_item_id,omitempty"`
	ReversalTargetID   string `dynamodbav:"reversal_target_id,omitempty"`
	DeclineReason      string `dynamodbav:"decline_reason,omitempty"`
	DecidedBy          string `dynamodbav:"decided_by,omitempty"`
	DecidedAt          string `dynamodbav:"decided_at,omitempty"`
	CreatedAt          string `dynamodbav:"created_at"`
}

type overlayItem struct {
	AssessmentID string           `dynamodbav:"assessment_id"`
	Rates        rateItem         `dynamodbav:"rates"`
	LineItems    []additionalItem `dynamodbav:"line_items"`
	Version      int64            `dynamodbav:"version"`
	CreatedAt    string           `dynamodbav:"created_at"`
	UpdatedAt    string           `dynamodbav:"updated_at"`
}

type frcLineItem struct {
	lineItemItem
	Source                 string `dynamodbav:"source"`
	Action                 string `dynamodbav:"action,omitempty"`
	Status                 string `dynamodbav:"status"`
	OriginalLineItemID     string `dynamodbav:"original_line_item_id,omitempty"`
	RemovedViaAdditionals  bool   `dynamodbav:"removed_via_additionals"`
	DeclinedViaAdditionals bool   `dynamodbav:"declined_via_additionals"`
	DeclineReason          string `dynamodbav:"decline_reason,omitempty"`
	QuotedTotal            string `dynamodbav:"quoted_total"`
	ActualTotal            string `dynamodbav:"actual_total"`
	Decision               string `dynamodbav:"decision"`
	Note                   string `dynamodbav:"note,omitempty"`
	MergedAt               string `dynamodbav:"merged_at,omitempty"`
}

type signOffItem struct {
	Name        string `dynamodbav:"name"`
	Role        string `dynamodbav:"role"`
	CompletedAt string `dynamodbav:"completed_at"`
}

type snapshotItem struct {
	AssessmentID string        `dynamodbav:"assessment_id"`
	Status       string        `dynamodbav:"status"`
	Rates        rateItem      `dynamodbav:"rates"`
	Lines        []frcLineItem `dynamodbav:"lines"`
	StartedAt    string        `dynamodbav:"started_at"`
	SignOff      *signOffItem  `dynamodbav:"sign_off,omitempty"`
	ReopenCount  int           `dynamodbav:"reopen_count"`
	Version      int64         `dynamodbav:"version"`
	UpdatedAt    string        `dynamodbav:"updated_at"`
}

func toAssessmentItem(a entities.Assessment) assessmentItem {
	return assessmentItem{
		ID:             a.ID,
		ClaimReference: a.ClaimReference,
		Stage:          string(a.Stage),
		Status:         string(a.Status),
		CancelReason:   a.CancelReason,
		Version:        a.Version,
		CreatedAt:      formatTime(a.CreatedAt),
		UpdatedAt:      formatTime(a.UpdatedAt),
	}
}

func fromAssessmentItem(it assessmentItem) (entities.Assessment, error) {
	var d decoder
	a := entities.Assessment{
		ID:             it.ID,
		ClaimReference: it.ClaimReference,
		Stage:          entities.Stage(it.Stage),
		Status:         entities.AssessmentStatus(it.Status),
		CancelReason:   it.CancelReason,
		Version:        it.Version,
		CreatedAt:      d.time("created_at", it.CreatedAt),
		UpdatedAt:      d.time("updated_at", it.UpdatedAt),
	}
	return a, d.err
}

func toLedgerItem(l entities.EstimateLedger) ledgerItem {
	it := ledgerItem{
		AssessmentID: l.AssessmentID,
		LineItems:    make([]lineItemItem, 0, len(l.LineItems)),
		Overrides:    toOverridesItem(l.Overrides),
		Finalized:    l.Finalized,
		FinalizedAt:  formatTimePtr(l.FinalizedAt),
		Subtotal:     l.Subtotal.String(),
		VATAmount:    l.VATAmount.String(),
		Total:        l.Total.String(),
		Version:      l.Version,
		CreatedAt:    formatTime(l.CreatedAt),
		UpdatedAt:    formatTime(l.UpdatedAt),
	}
	for _, li := range l.LineItems {
		it.LineItems = append(it.LineItems, toLineItemItem(li))
	}
	if l.FrozenRates != nil {
		r := toRateItem(*l.FrozenRates)
		it.FrozenRates = &r
	}
	return it
}

func fromLedgerItem(it ledgerItem) (entities.EstimateLedger, error) {
	var d decoder
	l := entities.EstimateLedger{
		AssessmentID: it.AssessmentID,
		Overrides:    d.overrides(it.Overrides),
		Finalized:    it.Finalized,
		FinalizedAt:  d.timePtr("finalized_at", it.FinalizedAt),
		Subtotal:     d.dec("subtotal", it.Subtotal),
		VATAmount:    d.dec("vat_amount", it.VATAmount),
		Total:        d.dec("total", it.Total),
		Version:      it.Version,
		CreatedAt:    d.time("created_at", it.CreatedAt),
		UpdatedAt:    d.time("updated_at", it.UpdatedAt),
	}
	for _, li := range it.LineItems {
		l.LineItems = append(l.LineItems, d.lineItem(li))
	}
	if it.FrozenRates != nil {
		r := d.rates(*it.FrozenRates)
		l.FrozenRates = &r
	}
	return l, d.err
}

func toOverlayItem(o entities.AdditionalsOverlay) overlayItem {
	it := overlayItem{
		AssessmentID: o.AssessmentID,
		Rates:        toRateItem(o.Rates),
		LineItems:    make([]additionalItem, 0, len(o.LineItems)),
		Version:      o.Version,
		CreatedAt:    formatTime(o.CreatedAt),
		UpdatedAt:    formatTime(o.UpdatedAt),
	}
	for _, a := range o.LineItems {
		it.LineItems = append(it.LineItems, additionalItem{
			lineItemItem:       toLineItemItem(a.LineItem),
			Action:             string(a.Action),
			Status:             string(a.Status),
			OriginalLineItemID: a.OriginalLineItemID,
			ReversalTargetID:   a.ReversalTargetID,
			DeclineReason:      a.DeclineReason,
			DecidedBy:          a.DecidedBy,
			DecidedAt:          formatTimePtr(a.DecidedAt),
			CreatedAt:          formatTime(a.CreatedAt),
		})
	}
	return it
}

func fromOverlayItem(it overlayItem) (entities.AdditionalsOverlay, error) {
	var d decoder
	o := entities.AdditionalsOverlay{
		AssessmentID: it.AssessmentID,
		Rates:        d.rates(it.Rates),
		Version:      it.Version,
		CreatedAt:    d.time("created_at", it.CreatedAt),
		UpdatedAt:    d.time("updated_at", it.UpdatedAt),
	}
	for _, a := range it.LineItems {
		o.LineItems = append(o.LineItems, entities.AdditionalLineItem{
			LineItem:           d.lineItem(a.lineItemItem),
			Action:             entities.AdditionalAction(a.Action),
			Status:             entities.AdditionalStatus(a.Status),
			OriginalLineItemID: a.OriginalLineItemID,
			ReversalTargetID:   a.ReversalTargetID,
			DeclineReason:      a.DeclineReason,
			DecidedBy:          a.DecidedBy,
			DecidedAt:          d.timePtr("decided_at", a.DecidedAt),
			CreatedAt:          d.time("created_at", a.CreatedAt),
		})
	}
	return o, d.err
}

func toSnapshotItem(s entities.FRCSnapshot) snapshotItem {
	it := snapshotItem{
		AssessmentID: s.AssessmentID,
		Status:       string(s.Status),
		Rates:        toRateItem(s.Rates),
		Lines:        make([]frcLineItem, 0, len(s.Lines)),
		StartedAt:    formatTime(s.StartedAt),
		ReopenCount:  s.ReopenCount,
		Version:      s.Version,
		UpdatedAt:    formatTime(s.UpdatedAt),
	}
	for _, l := range s.Lines {
		it.Lines = append(it.Lines, frcLineItem{
			lineItemItem:           toLineItemItem(l.LineItem),
			Source:                 string(l.Source),
			Action:                 string(l.Action),
			Status:                 string(l.Status),
			OriginalLineItemID:     l.OriginalLineItemID,
			RemovedViaAdditionals:  l.RemovedViaAdditionals,
			DeclinedViaAdditionals: l.DeclinedViaAdditionals,
			DeclineReason:          l.DeclineReason,
			QuotedTotal:            l.QuotedTotal.String(),
			ActualTotal:            l.ActualTotal.String(),
			Decision:               string(l.Decision),
			Note:                   l.Note,
			MergedAt:               formatTimePtr(l.MergedAt),
		})
	}
	if s.SignOff != nil {
		it.SignOff = &signOffItem{Name: s.SignOff.Name, Role: s.SignOff.Role, CompletedAt: formatTime(s.SignOff.CompletedAt)}
	}
	return it
}

func fromSnapshotItem(it snapshotItem) (entities.FRCSnapshot, error) {
	var d decoder
	s := entities.FRCSnapshot{
		AssessmentID: it.AssessmentID,
		Status:       entities.FRCStatus(it.Status),
		Rates:        d.rates(it.Rates),
		StartedAt:    d.time("started_at", it.StartedAt),
		ReopenCount:  it.ReopenCount,
		Version:      it.Version,
		UpdatedAt:    d.time("updated_at", it.UpdatedAt),
	}
	for _, l := range it.Lines {
		s.Lines = append(s.Lines, entities.FRCLineItem{
			ReconciledLineItem: entities.ReconciledLineItem{
				LineItem:               d.lineItem(l.lineItemItem),
				Source:                 entities.LineSource(l.Source),
				Action:                 entities.AdditionalAction(l.Action),
				Status:                 entities.AdditionalStatus(l.Status),
				OriginalLineItemID:     l.OriginalLineItemID,
				RemovedViaAdditionals:  l.RemovedViaAdditionals,
				DeclinedViaAdditionals: l.DeclinedViaAdditionals,
				DeclineReason:          l.DeclineReason,
			},
			QuotedTotal: d.dec("quoted_total", l.QuotedTotal),
			ActualTotal: d.dec("actual_total", l.ActualTotal),
			Decision:    entities.FRCDecision(l.Decision),
			Note:        l.Note,
			MergedAt:    d.timePtr("merged_at", l.MergedAt),
		})
	}
	if it.SignOff != nil {
		s.SignOff = &entities.SignOff{Name: it.SignOff.Name, Role: it.SignOff.Role, CompletedAt: d.time("completed_at", it.SignOff.CompletedAt)}
	}
	return s, d.err
}
