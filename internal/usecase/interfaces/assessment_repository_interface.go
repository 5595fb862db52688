package interfaces

import (
	"context"
	"time"

	"repair_costing/internal/domain/entities"
)

// StageChange is everything that must change together with an assessment
// stage. The repository applies it as one conditional write: the stage must
// still be Expected and every aggregate must still carry the version it was
// read with, otherwise nothing is written and ErrConcurrentModification is
// returned.
type StageChange struct {
	AssessmentID string
	Expected     entities.Stage
	Next         entities.Stage
	CancelReason string
	Ledger       *entities.EstimateLedger
	Snapshot     *entities.FRCSnapshot
	At           time.Time
}

// IAssessmentRepository is the persistence port of the costing core.
//
// Conventions (same as the rest of the service):
//   - Load* return a zero value (empty id) when nothing is stored.
//   - Save* are optimistic: the stored version must equal the given one
//     (0 meaning "not stored yet"); the returned aggregate carries version+1.
//   - Save* are also stage-guarded: the write only lands while the assessment
//     is still at the given stage.
//   - Storage failures are wrapped with entities.ErrPersistence.
type IAssessmentRepository interface {
	CreateAssessment(ctx context.Context, a entities.Assessment) (entities.Assessment, error)
	LoadAssessment(ctx context.Context, id string) (entities.Assessment, error)

	LoadLedger(ctx context.Context, assessmentID string) (entities.EstimateLedger, error)
	SaveLedger(ctx context.Context, ledger entities.EstimateLedger, stage entities.Stage) (entities.EstimateLedger, error)

	LoadOverlay(ctx context.Context, assessmentID string) (entities.AdditionalsOverlay, error)
	SaveOverlay(ctx context.Context, overlay entities.AdditionalsOverlay, stage entities.Stage) (entities.AdditionalsOverlay, error)

	LoadSnapshot(ctx context.Context, assessmentID string) (entities.FRCSnapshot, error)
	SaveSnapshot(ctx context.Context, snapshot entities.FRCSnapshot, stage entities.Stage) (entities.FRCSnapshot, error)

	CASStage(ctx context.Context, change StageChange) (entities.Assessment, error)
}
