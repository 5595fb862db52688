package usecase

import (
	"context"
	"strings"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/frc"
	"repair_costing/internal/domain/reconciliation"
	"repair_costing/internal/domain/stagegate"
	"repair_costing/internal/usecase/interfaces"

	"github.com/rs/zerolog"
)

// FRCView is the snapshot with its quoted vs actual breakdown.
type FRCView struct {
	Snapshot  entities.FRCSnapshot  `json:"snapshot"`
	Breakdown entities.FRCBreakdown `json:"breakdown"`
}

// IFRCUseCase exposes the final repair costing lifecycle.
type IFRCUseCase interface {
	Start(ctx context.Context, assessmentID string) (FRCView, error)
	Get(ctx context.Context, assessmentID string) (FRCView, error)
	UpdateLine(ctx context.Context, assessmentID string, u frc.LineUpdate) (FRCView, error)
	MergeAdditionals(ctx context.Context, assessmentID string) (FRCView, frc.MergeResult, error)
	Complete(ctx context.Context, assessmentID, name, role string) (FRCView, error)
	Reopen(ctx context.Context, assessmentID, reason string) (FRCView, error)
}

type FRCUseCase struct {
	core
}

var _ IFRCUseCase = (*FRCUseCase)(nil)

func NewFRCUseCase(repo interfaces.IAssessmentRepository, audit interfaces.IAuditSink, logger zerolog.Logger) *FRCUseCase {
	return &FRCUseCase{core: newCore(repo, audit, logger, "frc")}
}

func frcView(s entities.FRCSnapshot) (FRCView, error) {
	b, err := frc.Breakdown(s)
	if err != nil {
		return FRCView{}, err
	}
	return FRCView{Snapshot: s, Breakdown: b}, nil
}

func (u *FRCUseCase) reconciled(ctx context.Context, assessmentID string) (entities.EstimateLedger, []entities.ReconciledLineItem, error) {
	ledger, err := u.repo.LoadLedger(ctx, assessmentID)
	if err != nil {
		return entities.EstimateLedger{}, nil, err
	}
	overlay, err := u.repo.LoadOverlay(ctx, assessmentID)
	if err != nil {
		return entities.EstimateLedger{}, nil, err
	}
	return ledger, reconciliation.Compose(ledger, overlay), nil
}

func (u *FRCUseCase) loadSnapshot(ctx context.Context, assessmentID string) (entities.FRCSnapshot, error) {
	s, err := u.repo.LoadSnapshot(ctx, assessmentID)
	if err != nil {
		return entities.FRCSnapshot{}, err
	}
	if s.AssessmentID == "" {
		return entities.FRCSnapshot{}, ErrFRCNotFound
	}
	return s, nil
}

// Start freezes the reconciled set as the quoted baseline and moves the
// assessment to frc_in_progress in one conditional write.
func (u *FRCUseCase) Start(ctx context.Context, assessmentID string) (FRCView, error) {
	op := stagegate.OpStartFRC
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return FRCView{}, err
	}
	next, err := stagegate.Transition(op, a.Stage, "")
	if err != nil {
		return FRCView{}, u.logFailure(err, a.ID, string(op))
	}
	ledger, items, err := u.reconciled(ctx, a.ID)
	if err != nil {
		return FRCView{}, err
	}
	if ledger.FrozenRates == nil {
		return FRCView{}, u.logFailure(entities.NewValidationError("estimate", "is not finalized"), a.ID, string(op))
	}
	existing, err := u.repo.LoadSnapshot(ctx, a.ID)
	if err != nil {
		return FRCView{}, err
	}

	s, err := frc.Start(a.ID, items, *ledger.FrozenRates, u.now())
	if err != nil {
		return FRCView{}, u.logFailure(err, a.ID, string(op))
	}
	s.Version = existing.Version

	res, err := u.commitStage(ctx, a, op, next, interfaces.StageChange{Snapshot: &s})
	if err != nil {
		return FRCView{}, err
	}
	return frcView(res.Snapshot)
}

func (u *FRCUseCase) Get(ctx context.Context, assessmentID string) (FRCView, error) {
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return FRCView{}, err
	}
	s, err := u.loadSnapshot(ctx, a.ID)
	if err != nil {
		return FRCView{}, err
	}
	return frcView(s)
}

func (u *FRCUseCase) UpdateLine(ctx context.Context, assessmentID string, upd frc.LineUpdate) (FRCView, error) {
	a, err := u.gate(ctx, assessmentID, stagegate.OpEditFRC)
	if err != nil {
		return FRCView{}, err
	}
	s, err := u.loadSnapshot(ctx, a.ID)
	if err != nil {
		return FRCView{}, err
	}
	upd.LineID = strings.TrimSpace(upd.LineID)
	changed, err := frc.UpdateLine(s, upd, u.now())
	if err != nil {
		return FRCView{}, u.logFailure(err, a.ID, "frc_update_line")
	}
	saved, err := u.repo.SaveSnapshot(ctx, changed, a.Stage)
	if err != nil {
		return FRCView{}, u.logFailure(err, a.ID, "frc_update_line")
	}
	u.emit(ctx, entities.AuditEvent{
		EntityType: entities.AuditEntityFRC,
		EntityID:   a.ID,
		Action:     "line_updated",
		Metadata:   map[string]any{"line_id": upd.LineID, "decision": string(upd.Decision)},
	})
	return frcView(saved)
}

// MergeAdditionals pulls additionals decided after the FRC started into the
// snapshot. Nothing is written when the merge changes nothing.
func (u *FRCUseCase) MergeAdditionals(ctx context.Context, assessmentID string) (FRCView, frc.MergeResult, error) {
	a, err := u.gate(ctx, assessmentID, stagegate.OpEditFRC)
	if err != nil {
		return FRCView{}, frc.MergeResult{}, err
	}
	s, err := u.loadSnapshot(ctx, a.ID)
	if err != nil {
		return FRCView{}, frc.MergeResult{}, err
	}
	_, items, err := u.reconciled(ctx, a.ID)
	if err != nil {
		return FRCView{}, frc.MergeResult{}, err
	}
	merged, res, err := frc.MergeAdditionals(s, items, u.now())
	if err != nil {
		return FRCView{}, frc.MergeResult{}, u.logFailure(err, a.ID, "frc_merge")
	}
	if !res.Changed() {
		v, err := frcView(s)
		return v, res, err
	}
	saved, err := u.repo.SaveSnapshot(ctx, merged, a.Stage)
	if err != nil {
		return FRCView{}, frc.MergeResult{}, u.logFailure(err, a.ID, "frc_merge")
	}
	u.emit(ctx, entities.AuditEvent{
		EntityType: entities.AuditEntityFRC,
		EntityID:   a.ID,
		Action:     "additionals_merged",
		Metadata:   map[string]any{"added": res.Added, "updated": res.Updated, "dropped": res.Dropped},
	})
	u.log.Info().Str("assessment_id", a.ID).Int("added", len(res.Added)).Int("updated", len(res.Updated)).
		Int("dropped", len(res.Dropped)).Msg("additionals merged into frc")
	v, err := frcView(saved)
	return v, res, err
}

// Complete signs the FRC off and archives the assessment in one conditional write.
func (u *FRCUseCase) Complete(ctx context.Context, assessmentID, name, role string) (FRCView, error) {
	op := stagegate.OpCompleteFRC
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return FRCView{}, err
	}
	next, err := stagegate.Transition(op, a.Stage, "")
	if err != nil {
		return FRCView{}, u.logFailure(err, a.ID, string(op))
	}
	s, err := u.loadSnapshot(ctx, a.ID)
	if err != nil {
		return FRCView{}, err
	}
	signed, err := frc.SignOff(s, name, role, u.now())
	if err != nil {
		return FRCView{}, u.logFailure(err, a.ID, string(op))
	}
	res, err := u.commitStage(ctx, a, op, next, interfaces.StageChange{Snapshot: &signed})
	if err != nil {
		return FRCView{}, err
	}
	return frcView(res.Snapshot)
}

// Reopen reverses a sign-off: the snapshot is editable again and the
// assessment returns to frc_in_progress.
func (u *FRCUseCase) Reopen(ctx context.Context, assessmentID, reason string) (FRCView, error) {
	op := stagegate.OpReopenFRC
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return FRCView{}, entities.NewValidationError("reason", "is required")
	}
	a, err := u.loadAssessment(ctx, assessmentID)
	if err != nil {
		return FRCView{}, err
	}
	next, err := stagegate.Transition(op, a.Stage, "")
	if err != nil {
		return FRCView{}, u.logFailure(err, a.ID, string(op))
	}
	s, err := u.loadSnapshot(ctx, a.ID)
	if err != nil {
		return FRCView{}, err
	}
	reopened, err := frc.Reopen(s, u.now())
	if err != nil {
		return FRCView{}, u.logFailure(err, a.ID, string(op))
	}
	res, err := u.commitStage(ctx, a, op, next, interfaces.StageChange{Snapshot: &reopened})
	if err != nil {
		return FRCView{}, err
	}
	u.emit(ctx, entities.AuditEvent{
		EntityType: entities.AuditEntityFRC,
		EntityID:   a.ID,
		Action:     "reopened",
		Metadata:   map[string]any{"reason": reason, "reopen_count": res.Snapshot.ReopenCount},
	})
	return frcView(res.Snapshot)
}
