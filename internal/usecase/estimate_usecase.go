package usecase

import (
	"context"
	"fmt"
	"strings"

	"repair_costing/internal/domain/calculation"
	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/stagegate"
	"repair_costing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LineInput is the caller's description of a line item. Totals are never
// accepted from the caller.
type LineInput struct {
	ID          string
	Description string
	ProcessType entities.ProcessType
	Fields      entities.CostFields
	Betterment  entities.Betterment
}

func (in LineInput) build(id string) (entities.LineItem, error) {
	cost, err := entities.BuildCostInputs(in.ProcessType, in.Fields)
	if err != nil {
		return entities.LineItem{}, err
	}
	item := entities.LineItem{
		ID:          id,
		Description: strings.TrimSpace(in.Description),
		Cost:        cost,
		Betterment:  in.Betterment.Clone(),
	}
	if err := item.Validate(); err != nil {
		return entities.LineItem{}, err
	}
	return item, nil
}

// EstimateView is the read model of a ledger: lines priced with Rates and
// the ledger totals.
type EstimateView struct {
	Ledger entities.EstimateLedger `json:"ledger"`
	Rates  entities.RateSnapshot   `json:"rates"`
	Totals entities.LedgerTotals   `json:"totals"`
}

// IEstimateUseCase exposes the base estimate ledger operations.
type IEstimateUseCase interface {
	Get(ctx context.Context, assessmentID string) (EstimateView, error)
	AddLine(ctx context.Context, assessmentID string, in LineInput) (EstimateView, error)
	UpdateLine(ctx context.Context, assessmentID, lineID string, in LineInput) (EstimateView, error)
	DeleteLine(ctx context.Context, assessmentID, lineID string) (EstimateView, error)
	SetRates(ctx context.Context, assessmentID string, overrides entities.RateOverrides) (EstimateView, error)
	Finalize(ctx context.Context, assessmentID string) (EstimateView, error)
}

type EstimateUseCase struct {
	core
	rates interfaces.IRateSource
}

var _ IEstimateUseCase = (*EstimateUseCase)(nil)

func NewEstimateUseCase(repo interfaces.IAssessmentRepository, rates interfaces.IRateSource, audit interfaces.IAuditSink, logger zerolog.Logger) *EstimateUseCase {
	return &EstimateUseCase{core: newCore(repo, audit, logger, "estimate"), rates: rates}
}

func (u *EstimateUseCase) ratesFor(ctx context.Context, ledger entities.EstimateLedger) (entities.RateSnapshot, error) {
	return ratesFor(ctx, u.rates, ledger)
}

// ratesFor returns the frozen rates of a finalized ledger, otherwise the
// current global rates with the ledger overrides applied.
func ratesFor(ctx context.Context, src interfaces.IRateSource, ledger entities.EstimateLedger) (entities.RateSnapshot, error) {
	if ledger.FrozenRates != nil {
		return *ledger.FrozenRates, nil
	}
	global, err := src.Current(ctx)
	if err != nil {
		return entities.RateSnapshot{}, err
	}
	rates := global.With(ledger.Overrides)
	if err := rates.Validate(); err != nil {
		return entities.RateSnapshot{}, err
	}
	return rates, nil
}

// price recomputes every line and the ledger totals with rates.
func price(ledger entities.EstimateLedger, rates entities.RateSnapshot) (entities.EstimateLedger, error) {
	out := ledger.Clone()
	for i, li := range out.LineItems {
		priced, err := calculation.Apply(li, rates)
		if err != nil {
			return entities.EstimateLedger{}, fmt.Errorf("line %s: %w", li.ID, err)
		}
		out.LineItems[i] = priced
	}
	totals := calculation.LedgerTotals(out.LineItems, rates.VATPercentage)
	out.Subtotal = totals.Subtotal
	out.VATAmount = totals.VATAmount
	out.Total = totals.Total
	return out, nil
}

func view(ledger entities.EstimateLedger, rates entities.RateSnapshot) EstimateView {
	return EstimateView{
		Ledger: ledger,
		Rates:  rates,
		Totals: calculation.LedgerTotals(ledger.LineItems, rates.VATPercentage),
	}
}

func (u *EstimateUseCase) loadLedger(ctx context.Context, a entities.Assessment) (entities.EstimateLedger, error) {
	ledger, err := u.repo.LoadLedger(ctx, a.ID)
	if err != nil {
		return entities.EstimateLedger{}, err
	}
	if ledger.AssessmentID == "" {
		now := u.now()
		ledger = entities.EstimateLedger{AssessmentID: a.ID, CreatedAt: now, UpdatedAt: now}
	}
	return ledger, nil
}

// Get prices a draft ledger with the rates in force right now; a finalized
// ledger is returned as frozen.
func (u *EstimateUseCase) Get(ctx context.Context, assessmentID string) (EstimateView, error) {
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return EstimateView{}, err
	}
	ledger, err := u.loadLedger(ctx, a)
	if err != nil {
		return EstimateView{}, err
	}
	rates, err := u.ratesFor(ctx, ledger)
	if err != nil {
		return EstimateView{}, err
	}
	if !ledger.Finalized {
		if ledger, err = price(ledger, rates); err != nil {
			return EstimateView{}, err
		}
	}
	return view(ledger, rates), nil
}

// edit runs mutate on the draft ledger, reprices everything and saves it.
func (u *EstimateUseCase) edit(ctx context.Context, assessmentID, op string, mutate func(*entities.EstimateLedger) error) (EstimateView, error) {
	a, err := u.gate(ctx, assessmentID, stagegate.OpEditEstimate)
	if err != nil {
		return EstimateView{}, err
	}
	ledger, err := u.loadLedger(ctx, a)
	if err != nil {
		return EstimateView{}, err
	}
	if ledger.Finalized {
		return EstimateView{}, &entities.StageViolationError{Operation: op, Current: a.Stage, Required: stagegate.Required(stagegate.OpEditEstimate)}
	}
	if err := mutate(&ledger); err != nil {
		return EstimateView{}, u.logFailure(err, a.ID, op)
	}
	rates, err := u.ratesFor(ctx, ledger)
	if err != nil {
		return EstimateView{}, u.logFailure(err, a.ID, op)
	}
	priced, err := price(ledger, rates)
	if err != nil {
		return EstimateView{}, u.logFailure(err, a.ID, op)
	}
	priced.UpdatedAt = u.now()

	saved, err := u.repo.SaveLedger(ctx, priced, a.Stage)
	if err != nil {
		return EstimateView{}, u.logFailure(err, a.ID, op)
	}
	u.log.Info().Str("assessment_id", a.ID).Str("operation", op).Int("lines", len(saved.LineItems)).
		Str("total", saved.Total.StringFixed(2)).Msg("estimate saved")
	return view(saved, rates), nil
}

func (u *EstimateUseCase) AddLine(ctx context.Context, assessmentID string, in LineInput) (EstimateView, error) {
	var added string
	out, err := u.edit(ctx, assessmentID, "add_line", func(l *entities.EstimateLedger) error {
		id := strings.TrimSpace(in.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if l.Find(id) >= 0 {
			return entities.NewValidationError("id", "is already used by another line")
		}
		item, err := in.build(id)
		if err != nil {
			return err
		}
		l.LineItems = append(l.LineItems, item)
		added = id
		return nil
	})
	if err != nil {
		return EstimateView{}, err
	}
	u.emit(ctx, entities.AuditEvent{EntityType: entities.AuditEntityEstimate, EntityID: out.Ledger.AssessmentID, Action: "line_added", Metadata: map[string]any{"line_id": added}})
	return out, nil
}

func (u *EstimateUseCase) UpdateLine(ctx context.Context, assessmentID, lineID string, in LineInput) (EstimateView, error) {
	lineID = strings.TrimSpace(lineID)
	out, err := u.edit(ctx, assessmentID, "update_line", func(l *entities.EstimateLedger) error {
		i := l.Find(lineID)
		if i < 0 {
			return ErrLineNotFound
		}
		item, err := in.build(lineID)
		if err != nil {
			return err
		}
		l.LineItems[i] = item
		return nil
	})
	if err != nil {
		return EstimateView{}, err
	}
	u.emit(ctx, entities.AuditEvent{EntityType: entities.AuditEntityEstimate, EntityID: out.Ledger.AssessmentID, Action: "line_updated", Metadata: map[string]any{"line_id": lineID}})
	return out, nil
}

// DeleteLine removes a line from a draft ledger. After finalization the
// stage gate rejects it with a stage violation.
func (u *EstimateUseCase) DeleteLine(ctx context.Context, assessmentID, lineID string) (EstimateView, error) {
	lineID = strings.TrimSpace(lineID)
	out, err := u.edit(ctx, assessmentID, "delete_line", func(l *entities.EstimateLedger) error {
		i := l.Find(lineID)
		if i < 0 {
			return ErrLineNotFound
		}
		l.LineItems = append(l.LineItems[:i], l.LineItems[i+1:]...)
		return nil
	})
	if err != nil {
		return EstimateView{}, err
	}
	u.emit(ctx, entities.AuditEvent{EntityType: entities.AuditEntityEstimate, EntityID: out.Ledger.AssessmentID, Action: "line_deleted", Metadata: map[string]any{"line_id": lineID}})
	return out, nil
}

// SetRates replaces the per-assessment overrides. Draft totals follow.
func (u *EstimateUseCase) SetRates(ctx context.Context, assessmentID string, overrides entities.RateOverrides) (EstimateView, error) {
	out, err := u.edit(ctx, assessmentID, "set_rates", func(l *entities.EstimateLedger) error {
		l.Overrides = overrides
		return nil
	})
	if err != nil {
		return EstimateView{}, err
	}
	u.emit(ctx, entities.AuditEvent{EntityType: entities.AuditEntityEstimate, EntityID: out.Ledger.AssessmentID, Action: "rates_set"})
	return out, nil
}

// Finalize freezes the current rates onto the ledger and moves the
// assessment to estimate_finalized in the same conditional write.
func (u *EstimateUseCase) Finalize(ctx context.Context, assessmentID string) (EstimateView, error) {
	op := stagegate.OpFinalizeEstimate
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return EstimateView{}, err
	}
	next, err := stagegate.Transition(op, a.Stage, "")
	if err != nil {
		return EstimateView{}, u.logFailure(err, a.ID, string(op))
	}
	ledger, err := u.loadLedger(ctx, a)
	if err != nil {
		return EstimateView{}, err
	}
	if len(ledger.LineItems) == 0 {
		return EstimateView{}, u.logFailure(entities.NewValidationError("line_items", "at least one line is required to finalize"), a.ID, string(op))
	}

	rates, err := u.ratesFor(ctx, ledger)
	if err != nil {
		return EstimateView{}, u.logFailure(err, a.ID, string(op))
	}
	final, err := price(ledger, rates)
	if err != nil {
		return EstimateView{}, u.logFailure(err, a.ID, string(op))
	}
	now := u.now()
	final.FrozenRates = &rates
	final.Finalized = true
	final.FinalizedAt = &now
	final.UpdatedAt = now

	res, err := u.commitStage(ctx, a, op, next, interfaces.StageChange{Ledger: &final})
	if err != nil {
		return EstimateView{}, err
	}
	return view(res.Ledger, *res.Ledger.FrozenRates), nil
}
