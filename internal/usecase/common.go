package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/stagegate"
	"repair_costing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrAssessmentNotFound = fmt.Errorf("assessment %w", entities.ErrNotFound)
	ErrFRCNotFound        = fmt.Errorf("frc %w", entities.ErrNotFound)
	ErrLineNotFound       = fmt.Errorf("line item %w", entities.ErrNotFound)
)

// core carries what every costing use case needs: the persistence port, the
// audit sink, a logger and a clock.
type core struct {
	repo  interfaces.IAssessmentRepository
	audit interfaces.IAuditSink
	log   zerolog.Logger
	now   func() time.Time
}

func newCore(repo interfaces.IAssessmentRepository, audit interfaces.IAuditSink, logger zerolog.Logger, component string) core {
	return core{
		repo:  repo,
		audit: audit,
		log:   logger.With().Str("component", component).Logger(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *core) loadAssessment(ctx context.Context, id string) (entities.Assessment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Assessment{}, entities.NewValidationError("assessment_id", "is required")
	}
	a, err := c.repo.LoadAssessment(ctx, id)
	if err != nil {
		return entities.Assessment{}, err
	}
	if a.ID == "" {
		return entities.Assessment{}, ErrAssessmentNotFound
	}
	return a, nil
}

// gate loads the assessment and checks op is legal in its current stage.
func (c *core) gate(ctx context.Context, id string, op stagegate.Operation) (entities.Assessment, error) {
	a, err := c.loadAssessment(ctx, id)
	if err != nil {
		return entities.Assessment{}, err
	}
	if err := stagegate.Require(op, a.Stage); err != nil {
		c.log.Info().Str("assessment_id", a.ID).Str("operation", string(op)).Str("stage", string(a.Stage)).Msg("stage gate rejected operation")
		return entities.Assessment{}, err
	}
	return a, nil
}

// committed is the verified post-state of a stage change.
type committed struct {
	Assessment entities.Assessment
	Ledger     entities.EstimateLedger
	Snapshot   entities.FRCSnapshot
}

// commitStage moves a from its current stage to next in one conditional
// write together with the aggregates carried by change, then reads
// everything back. The operation only reports success when the read-back
// shows every write landed.
func (c *core) commitStage(ctx context.Context, a entities.Assessment, op stagegate.Operation, next entities.Stage, change interfaces.StageChange) (committed, error) {
	change.AssessmentID = a.ID
	change.Expected = a.Stage
	change.Next = next
	change.At = c.now()

	logger := c.log.With().Str("assessment_id", a.ID).Str("operation", string(op)).
		Str("from", string(a.Stage)).Str("to", string(next)).Logger()
	logger.Debug().Msg("stage change start")

	updated, err := c.repo.CASStage(ctx, change)
	if err != nil {
		logger.Warn().Err(err).Msg("stage change failed")
		return committed{}, err
	}

	out, err := c.verify(ctx, updated, change)
	if err != nil {
		logger.Error().Err(err).Msg("stage change verification failed")
		return committed{}, err
	}

	c.emit(ctx, entities.AuditEvent{
		EntityType: entities.AuditEntityAssessment,
		EntityID:   a.ID,
		Action:     entities.AuditActionStageTransition,
		Metadata: map[string]any{
			"from_stage": string(a.Stage),
			"to_stage":   string(next),
			"operation":  string(op),
		},
	})
	logger.Info().Int64("version", out.Assessment.Version).Msg("stage change success")
	return out, nil
}

func (c *core) verify(ctx context.Context, updated entities.Assessment, change interfaces.StageChange) (committed, error) {
	var out committed
	mismatch := func(what string) error {
		return fmt.Errorf("%w: read-back of %s does not match the committed write", entities.ErrConcurrentModification, what)
	}

	stored, err := c.repo.LoadAssessment(ctx, change.AssessmentID)
	if err != nil {
		return out, err
	}
	if stored.Stage != change.Next || stored.Status != entities.StatusForStage(change.Next) || stored.Version != updated.Version {
		return out, mismatch("assessment")
	}
	out.Assessment = stored

	if change.Ledger != nil {
		ledger, err := c.repo.LoadLedger(ctx, change.AssessmentID)
		if err != nil {
			return out, err
		}
		if ledger.Version != change.Ledger.Version+1 || ledger.Finalized != change.Ledger.Finalized {
			return out, mismatch("estimate")
		}
		out.Ledger = ledger
	}
	if change.Snapshot != nil {
		snapshot, err := c.repo.LoadSnapshot(ctx, change.AssessmentID)
		if err != nil {
			return out, err
		}
		if snapshot.Version != change.Snapshot.Version+1 || snapshot.Status != change.Snapshot.Status {
			return out, mismatch("frc")
		}
		out.Snapshot = snapshot
	}
	return out, nil
}

// emit sends an audit event. A failing sink never fails the caller.
func (c *core) emit(ctx context.Context, event entities.AuditEvent) {
	if c.audit == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}
	if err := c.audit.Emit(ctx, event); err != nil {
		c.log.Warn().Err(err).Str("entity_type", event.EntityType).Str("entity_id", event.EntityID).
			Str("action", event.Action).Msg("audit emit failed")
	}
}

// logFailure logs err at a level matching its class and returns it unchanged.
func (c *core) logFailure(err error, assessmentID, op string) error {
	ev := c.log.Error()
	switch {
	case errors.Is(err, entities.ErrValidation), errors.Is(err, entities.ErrNotFound), errors.Is(err, entities.ErrStageViolation):
		ev = c.log.Info()
	case errors.Is(err, entities.ErrConcurrentModification):
		ev = c.log.Warn()
	}
	ev.Err(err).Str("assessment_id", assessmentID).Str("operation", op).Msg("operation failed")
	return err
}
