package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repair_costing/internal/domain/calculation"
	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/reconciliation"
	"repair_costing/internal/domain/stagegate"
	"repair_costing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReconciledLine is one row of the reconciled view with the verdict of the
// shared inclusion predicate.
type ReconciledLine struct {
	entities.ReconciledLineItem
	reconciliation.Classification
}

// ReconciledView is the plain read model handed to renderers.
type ReconciledView struct {
	AssessmentID string                  `json:"assessment_id"`
	Rates        entities.RateSnapshot   `json:"rates"`
	Lines        []ReconciledLine        `json:"lines"`
	Totals       entities.LedgerTotals   `json:"totals"`
	Counters     reconciliation.Counters `json:"counters"`
}

// Decision records who decided on an additional and, for declines, why.
type Decision struct {
	DecidedBy string
	Reason    string
}

// IAdditionalsUseCase exposes the additionals overlay.
type IAdditionalsUseCase interface {
	GetReconciled(ctx context.Context, assessmentID string) (ReconciledView, error)
	AddAdditional(ctx context.Context, assessmentID string, in LineInput) (ReconciledView, error)
	RemoveLine(ctx context.Context, assessmentID, originalLineID, description string) (ReconciledView, error)
	Approve(ctx context.Context, assessmentID, additionalID string, d Decision) (ReconciledView, error)
	Decline(ctx context.Context, assessmentID, additionalID string, d Decision) (ReconciledView, error)
	Reverse(ctx context.Context, assessmentID, targetID, description string) (ReconciledView, error)
	SetBetterment(ctx context.Context, assessmentID, additionalID string, b entities.Betterment) (ReconciledView, error)
}

type AdditionalsUseCase struct {
	core
	rates interfaces.IRateSource
}

var _ IAdditionalsUseCase = (*AdditionalsUseCase)(nil)

func NewAdditionalsUseCase(repo interfaces.IAssessmentRepository, rates interfaces.IRateSource, audit interfaces.IAuditSink, logger zerolog.Logger) *AdditionalsUseCase {
	return &AdditionalsUseCase{core: newCore(repo, audit, logger, "additionals"), rates: rates}
}

func reconciledView(ledger entities.EstimateLedger, overlay entities.AdditionalsOverlay, rates entities.RateSnapshot) (ReconciledView, error) {
	items := reconciliation.Compose(ledger, overlay)
	totals, err := reconciliation.Totals(items, rates.VATPercentage)
	if err != nil {
		return ReconciledView{}, err
	}
	lines := make([]ReconciledLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, ReconciledLine{ReconciledLineItem: it, Classification: reconciliation.Classify(it)})
	}
	return ReconciledView{
		AssessmentID: ledger.AssessmentID,
		Rates:        rates,
		Lines:        lines,
		Totals:       totals,
		Counters:     reconciliation.Count(items),
	}, nil
}

// load returns the finalized ledger and the overlay, creating the overlay in
// memory with the ledger's frozen rates when none is stored yet.
func (u *AdditionalsUseCase) load(ctx context.Context, a entities.Assessment) (entities.EstimateLedger, entities.AdditionalsOverlay, error) {
	ledger, err := u.repo.LoadLedger(ctx, a.ID)
	if err != nil {
		return entities.EstimateLedger{}, entities.AdditionalsOverlay{}, err
	}
	if !ledger.Finalized || ledger.FrozenRates == nil {
		return entities.EstimateLedger{}, entities.AdditionalsOverlay{}, &entities.StageViolationError{
			Operation: "additionals",
			Current:   a.Stage,
			Required:  []entities.Stage{entities.StageEstimateFinalized},
		}
	}
	overlay, err := u.repo.LoadOverlay(ctx, a.ID)
	if err != nil {
		return entities.EstimateLedger{}, entities.AdditionalsOverlay{}, err
	}
	if overlay.AssessmentID == "" {
		now := u.now()
		overlay = entities.AdditionalsOverlay{AssessmentID: a.ID, Rates: *ledger.FrozenRates, CreatedAt: now, UpdatedAt: now}
	}
	return ledger, overlay, nil
}

// GetReconciled composes the base estimate with the overlay. Before
// finalization there is no overlay and the draft lines are priced with the
// rates in force right now, as the estimate view does.
func (u *AdditionalsUseCase) GetReconciled(ctx context.Context, assessmentID string) (ReconciledView, error) {
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return ReconciledView{}, err
	}
	ledger, err := u.repo.LoadLedger(ctx, a.ID)
	if err != nil {
		return ReconciledView{}, err
	}
	ledger.AssessmentID = a.ID
	overlay, err := u.repo.LoadOverlay(ctx, a.ID)
	if err != nil {
		return ReconciledView{}, err
	}
	rates := overlay.Rates
	if overlay.AssessmentID == "" {
		if rates, err = ratesFor(ctx, u.rates, ledger); err != nil {
			return ReconciledView{}, u.logFailure(err, a.ID, "get_reconciled")
		}
		if !ledger.Finalized {
			if ledger, err = price(ledger, rates); err != nil {
				return ReconciledView{}, u.logFailure(err, a.ID, "get_reconciled")
			}
		}
	}
	v, err := reconciledView(ledger, overlay, rates)
	if err != nil {
		return ReconciledView{}, u.logFailure(err, a.ID, "get_reconciled")
	}
	return v, nil
}

// edit runs mutate on the overlay, checks the reconciled set still holds
// every invariant and saves. An invariant failure is never persisted.
func (u *AdditionalsUseCase) edit(ctx context.Context, assessmentID, op string, mutate func(entities.EstimateLedger, *entities.AdditionalsOverlay) (string, error)) (ReconciledView, error) {
	a, err := u.gate(ctx, assessmentID, stagegate.OpEditAdditionals)
	if err != nil {
		return ReconciledView{}, err
	}
	ledger, overlay, err := u.load(ctx, a)
	if err != nil {
		return ReconciledView{}, u.logFailure(err, a.ID, op)
	}
	lineID, err := mutate(ledger, &overlay)
	if err != nil {
		return ReconciledView{}, u.logFailure(err, a.ID, op)
	}
	if _, err := reconciledView(ledger, overlay, overlay.Rates); err != nil {
		return ReconciledView{}, u.logFailure(err, a.ID, op)
	}
	overlay.UpdatedAt = u.now()

	saved, err := u.repo.SaveOverlay(ctx, overlay, a.Stage)
	if err != nil {
		return ReconciledView{}, u.logFailure(err, a.ID, op)
	}
	u.emit(ctx, entities.AuditEvent{
		EntityType: entities.AuditEntityAdditional,
		EntityID:   a.ID,
		Action:     op,
		Metadata:   map[string]any{"line_id": lineID},
	})
	u.log.Info().Str("assessment_id", a.ID).Str("operation", op).Str("line_id", lineID).Msg("additionals saved")
	return reconciledView(ledger, saved, saved.Rates)
}

func (u *AdditionalsUseCase) newID(o *entities.AdditionalsOverlay, ledger entities.EstimateLedger, requested string) (string, error) {
	id := strings.TrimSpace(requested)
	if id == "" {
		return uuid.NewString(), nil
	}
	if o.Find(id) >= 0 || ledger.Find(id) >= 0 {
		return "", entities.NewValidationError("id", "is already used by another line")
	}
	return id, nil
}

// AddAdditional records new scope, pending approval.
func (u *AdditionalsUseCase) AddAdditional(ctx context.Context, assessmentID string, in LineInput) (ReconciledView, error) {
	return u.edit(ctx, assessmentID, "additional_added", func(ledger entities.EstimateLedger, o *entities.AdditionalsOverlay) (string, error) {
		id, err := u.newID(o, ledger, in.ID)
		if err != nil {
			return "", err
		}
		item, err := in.build(id)
		if err != nil {
			return "", err
		}
		priced, err := calculation.Apply(item, o.Rates)
		if err != nil {
			return "", err
		}
		o.LineItems = append(o.LineItems, entities.AdditionalLineItem{
			LineItem:  priced,
			Action:    entities.ActionAdded,
			Status:    entities.AdditionalStatusPending,
			CreatedAt: u.now(),
		})
		return id, nil
	})
}

// RemoveLine records the removal of a base line as its negative counterpart,
// pending approval. The base line itself is never touched.
func (u *AdditionalsUseCase) RemoveLine(ctx context.Context, assessmentID, originalLineID, description string) (ReconciledView, error) {
	originalLineID = strings.TrimSpace(originalLineID)
	return u.edit(ctx, assessmentID, "line_removed", func(ledger entities.EstimateLedger, o *entities.AdditionalsOverlay) (string, error) {
		i := ledger.Find(originalLineID)
		if i < 0 {
			return "", ErrLineNotFound
		}
		reversed := o.ReversedTargets()
		for _, a := range o.LineItems {
			if a.Action == entities.ActionRemoved && a.OriginalLineItemID == originalLineID &&
				a.Status != entities.AdditionalStatusDeclined && !reversed[a.ID] {
				return "", entities.NewValidationError("original_line_item_id", "already has a removal ("+a.ID+")")
			}
		}

		original := ledger.LineItems[i]
		counterpart, err := calculation.ApplyNegated(original, o.Rates)
		if err != nil {
			return "", err
		}
		counterpart.ID = uuid.NewString()
		counterpart.Description = strings.TrimSpace(description)
		if counterpart.Description == "" {
			counterpart.Description = "Removed: " + original.Description
		}
		o.LineItems = append(o.LineItems, entities.AdditionalLineItem{
			LineItem:           counterpart,
			Action:             entities.ActionRemoved,
			Status:             entities.AdditionalStatusPending,
			OriginalLineItemID: originalLineID,
			CreatedAt:          u.now(),
		})
		return counterpart.ID, nil
	})
}

// decidable returns the index of an additional that can still be decided on.
func decidable(o *entities.AdditionalsOverlay, id string) (int, error) {
	i := o.Find(strings.TrimSpace(id))
	if i < 0 {
		return -1, ErrLineNotFound
	}
	if o.ReversedTargets()[o.LineItems[i].ID] {
		return -1, entities.NewValidationError("additional_id", "has been reversed and can no longer be decided")
	}
	return i, nil
}

// Approve approves a pending additional or reinstates a declined one. An
// approved reversal undoes its target.
func (u *AdditionalsUseCase) Approve(ctx context.Context, assessmentID, additionalID string, d Decision) (ReconciledView, error) {
	return u.edit(ctx, assessmentID, "additional_approved", func(_ entities.EstimateLedger, o *entities.AdditionalsOverlay) (string, error) {
		i, err := decidable(o, additionalID)
		if err != nil {
			return "", err
		}
		item := &o.LineItems[i]
		if item.Status == entities.AdditionalStatusApproved {
			return "", entities.NewValidationError("status", "is already approved")
		}
		if item.Action == entities.ActionReversal {
			if err := reversible(o, item.ReversalTargetID, item.ID); err != nil {
				return "", err
			}
		}
		if item.Action == entities.ActionRemoved {
			for _, other := range o.LineItems {
				if other.ID != item.ID && other.Action == entities.ActionRemoved && other.OriginalLineItemID == item.OriginalLineItemID &&
					other.Status == entities.AdditionalStatusApproved && !o.ReversedTargets()[other.ID] {
					return "", entities.NewValidationError("original_line_item_id", "is already removed by "+other.ID)
				}
			}
		}
		decide(item, entities.AdditionalStatusApproved, d, u.now())
		return item.ID, nil
	})
}

// Decline declines a pending additional or withdraws an approved one. A
// reason is required.
func (u *AdditionalsUseCase) Decline(ctx context.Context, assessmentID, additionalID string, d Decision) (ReconciledView, error) {
	return u.edit(ctx, assessmentID, "additional_declined", func(_ entities.EstimateLedger, o *entities.AdditionalsOverlay) (string, error) {
		if strings.TrimSpace(d.Reason) == "" {
			return "", entities.NewValidationError("reason", "is required when declining")
		}
		i, err := decidable(o, additionalID)
		if err != nil {
			return "", err
		}
		item := &o.LineItems[i]
		if item.Status == entities.AdditionalStatusDeclined {
			return "", entities.NewValidationError("status", "is already declined")
		}
		if item.Status == entities.AdditionalStatusApproved && item.Action == entities.ActionReversal {
			return "", entities.NewValidationError("additional_id", "an approved reversal cannot be withdrawn")
		}
		decide(item, entities.AdditionalStatusDeclined, d, u.now())
		return item.ID, nil
	})
}

func decide(item *entities.AdditionalLineItem, status entities.AdditionalStatus, d Decision, now time.Time) {
	item.Status = status
	item.DecidedBy = strings.TrimSpace(d.DecidedBy)
	item.DecidedAt = &now
	item.DeclineReason = ""
	if status == entities.AdditionalStatusDeclined {
		item.DeclineReason = strings.TrimSpace(d.Reason)
	}
}

// reversible checks targetID names an approved added or removed item that is
// not already reversed. skip is the reversal being checked, if any.
func reversible(o *entities.AdditionalsOverlay, targetID, skip string) error {
	i := o.Find(targetID)
	if i < 0 {
		return fmt.Errorf("reversal target %s: %w", targetID, entities.ErrNotFound)
	}
	target := o.LineItems[i]
	if target.Action == entities.ActionReversal {
		return entities.NewValidationError("reversal_target_id", "a reversal cannot be reversed")
	}
	if target.Status != entities.AdditionalStatusApproved {
		return entities.NewValidationError("reversal_target_id", "only approved additionals can be reversed")
	}
	for _, a := range o.LineItems {
		if a.ID == skip || a.Action != entities.ActionReversal || a.ReversalTargetID != targetID {
			continue
		}
		if a.Status != entities.AdditionalStatusDeclined {
			return entities.NewValidationError("reversal_target_id", "already has a reversal ("+a.ID+")")
		}
	}
	return nil
}

// Reverse records a pending reversal of an approved additional.
func (u *AdditionalsUseCase) Reverse(ctx context.Context, assessmentID, targetID, description string) (ReconciledView, error) {
	targetID = strings.TrimSpace(targetID)
	return u.edit(ctx, assessmentID, "reversal_added", func(_ entities.EstimateLedger, o *entities.AdditionalsOverlay) (string, error) {
		if err := reversible(o, targetID, ""); err != nil {
			return "", err
		}
		desc := strings.TrimSpace(description)
		if desc == "" {
			desc = "Reversal of " + targetID
		}
		id := uuid.NewString()
		o.LineItems = append(o.LineItems, entities.AdditionalLineItem{
			LineItem:         entities.LineItem{ID: id, Description: desc},
			Action:           entities.ActionReversal,
			Status:           entities.AdditionalStatusPending,
			ReversalTargetID: targetID,
			CreatedAt:        u.now(),
		})
		return id, nil
	})
}

// SetBetterment sets the deductions of a pending added additional and
// reprices it.
func (u *AdditionalsUseCase) SetBetterment(ctx context.Context, assessmentID, additionalID string, b entities.Betterment) (ReconciledView, error) {
	return u.edit(ctx, assessmentID, "betterment_set", func(_ entities.EstimateLedger, o *entities.AdditionalsOverlay) (string, error) {
		i, err := decidable(o, additionalID)
		if err != nil {
			return "", err
		}
		item := &o.LineItems[i]
		switch {
		case item.Action == entities.ActionReversal:
			return "", entities.NewValidationError("additional_id", "a reversal carries no cost")
		case item.Action == entities.ActionRemoved:
			return "", entities.NewValidationError("additional_id", "betterment cannot be set on a removal")
		case item.Status == entities.AdditionalStatusDeclined:
			return "", entities.NewValidationError("additional_id", "betterment cannot be set on a declined line")
		case item.Status == entities.AdditionalStatusApproved:
			// approved pricing is the FRC quoted baseline
			return "", entities.NewValidationError("additional_id", "betterment must be set before approval")
		}
		if err := b.ValidateFor(item.Cost); err != nil {
			return "", err
		}
		changed := item.LineItem.Clone()
		changed.Betterment = b.Clone()
		priced, err := calculation.Apply(changed, o.Rates)
		if err != nil {
			return "", err
		}
		item.LineItem = priced
		return item.ID, nil
	})
}
