package usecase

import (
	"context"
	"strings"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/stagegate"
	"repair_costing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IAssessmentUseCase exposes the assessment record and its plain stage moves.
// Finalization and the FRC transitions live with the aggregates they change.
type IAssessmentUseCase interface {
	Create(ctx context.Context, claimReference string) (entities.Assessment, error)
	Get(ctx context.Context, id string) (entities.Assessment, error)
	Advance(ctx context.Context, id string, to entities.Stage) (entities.Assessment, error)
	Cancel(ctx context.Context, id string, reason string) (entities.Assessment, error)
}

type AssessmentUseCase struct {
	core
}

var _ IAssessmentUseCase = (*AssessmentUseCase)(nil)

func NewAssessmentUseCase(repo interfaces.IAssessmentRepository, audit interfaces.IAuditSink, logger zerolog.Logger) *AssessmentUseCase {
	return &AssessmentUseCase{core: newCore(repo, audit, logger, "assessment")}
}

func (u *AssessmentUseCase) Create(ctx context.Context, claimReference string) (entities.Assessment, error) {
	claimReference = strings.TrimSpace(claimReference)
	if claimReference == "" {
		return entities.Assessment{}, entities.NewValidationError("claim_reference", "is required")
	}

	now := u.now()
	a := entities.Assessment{
		ID:             uuid.NewString(),
		ClaimReference: claimReference,
		Stage:          entities.StageRequestSubmitted,
		Status:         entities.StatusForStage(entities.StageRequestSubmitted),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := u.repo.CreateAssessment(ctx, a)
	if err != nil {
		return entities.Assessment{}, u.logFailure(err, a.ID, "create")
	}
	u.emit(ctx, entities.AuditEvent{
		EntityType: entities.AuditEntityAssessment,
		EntityID:   created.ID,
		Action:     "created",
		Metadata:   map[string]any{"claim_reference": created.ClaimReference, "stage": string(created.Stage)},
	})
	u.log.Info().Str("assessment_id", created.ID).Msg("assessment created")
	return created, nil
}

func (u *AssessmentUseCase) Get(ctx context.Context, id string) (entities.Assessment, error) {
	return u.loadAssessment(ctx, id)
}

// Advance moves the assessment exactly one stage forward. Stages that carry
// data changes (finalize, FRC start/complete) are rejected here.
func (u *AssessmentUseCase) Advance(ctx context.Context, id string, to entities.Stage) (entities.Assessment, error) {
	if !to.IsValid() {
		return entities.Assessment{}, entities.NewValidationError("stage", "is not a known stage: "+string(to))
	}
	a, err := u.loadAssessment(ctx, id)
	if err != nil {
		return entities.Assessment{}, err
	}
	next, err := stagegate.Transition(stagegate.OpAdvance, a.Stage, to)
	if err != nil {
		return entities.Assessment{}, u.logFailure(err, a.ID, string(stagegate.OpAdvance))
	}
	out, err := u.commitStage(ctx, a, stagegate.OpAdvance, next, interfaces.StageChange{})
	if err != nil {
		return entities.Assessment{}, err
	}
	return out.Assessment, nil
}

func (u *AssessmentUseCase) Cancel(ctx context.Context, id string, reason string) (entities.Assessment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return entities.Assessment{}, entities.NewValidationError("reason", "is required")
	}
	a, err := u.loadAssessment(ctx, id)
	if err != nil {
		return entities.Assessment{}, err
	}
	next, err := stagegate.Transition(stagegate.OpCancel, a.Stage, "")
	if err != nil {
		return entities.Assessment{}, u.logFailure(err, a.ID, string(stagegate.OpCancel))
	}
	out, err := u.commitStage(ctx, a, stagegate.OpCancel, next, interfaces.StageChange{CancelReason: reason})
	if err != nil {
		return entities.Assessment{}, err
	}
	return out.Assessment, nil
}
