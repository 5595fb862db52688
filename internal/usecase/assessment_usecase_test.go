package usecase

import (
	"context"
	"errors"
	"testing"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase/interfaces"
	mock_interfaces "repair_costing/internal/usecase/interfaces/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAssessmentUseCase_Create(t *testing.T) {
	t.Run("claim reference required", func(t *testing.T) {
		f := newFixture()
		_, err := f.assessments.Create(f.ctx, "  ")
		assert.True(t, errors.Is(err, entities.ErrValidation))
	})

	t.Run("starts at request_submitted", func(t *testing.T) {
		f := newFixture()
		a, err := f.assessments.Create(f.ctx, " CLM-9 ")
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, "CLM-9", a.ClaimReference)
		assert.Equal(t, entities.StageRequestSubmitted, a.Stage)
		assert.Equal(t, entities.AssessmentStatusActive, a.Status)
	})
}

func TestAssessmentUseCase_Get(t *testing.T) {
	f := newFixture()

	_, err := f.assessments.Get(f.ctx, "")
	assert.True(t, errors.Is(err, entities.ErrValidation))

	_, err = f.assessments.Get(f.ctx, "missing")
	assert.True(t, errors.Is(err, ErrAssessmentNotFound))
	assert.True(t, errors.Is(err, entities.ErrNotFound))
}

func TestAssessmentUseCase_Advance(t *testing.T) {
	t.Run("one step at a time", func(t *testing.T) {
		f := newFixture()
		a, err := f.assessments.Create(f.ctx, "CLM-1")
		require.NoError(t, err)

		_, err = f.assessments.Advance(f.ctx, a.ID, entities.StageInspectionScheduled)
		assert.True(t, errors.Is(err, entities.ErrStageViolation))

		moved, err := f.assessments.Advance(f.ctx, a.ID, entities.StageRequestReviewed)
		require.NoError(t, err)
		assert.Equal(t, entities.StageRequestReviewed, moved.Stage)
		assert.Equal(t, a.Version+1, moved.Version)
	})

	t.Run("finalize is not a plain advance", func(t *testing.T) {
		f := newFixture()
		a := f.assessmentAt(t, entities.StageEstimateSent)
		_, err := f.assessments.Advance(f.ctx, a.ID, entities.StageEstimateFinalized)
		assert.True(t, errors.Is(err, entities.ErrStageViolation))
	})

	t.Run("unknown stage", func(t *testing.T) {
		f := newFixture()
		a := f.assessmentAt(t, entities.StageRequestSubmitted)
		_, err := f.assessments.Advance(f.ctx, a.ID, "done")
		assert.True(t, errors.Is(err, entities.ErrValidation))
	})

	t.Run("every transition audited once", func(t *testing.T) {
		f := newFixture()
		a := f.assessmentAt(t, entities.StageAssessmentInProgress)
		events := f.transitions(a.ID)
		require.Len(t, events, 4)
		last := events[3]
		assert.Equal(t, "appointment_scheduled", last.Metadata["from_stage"])
		assert.Equal(t, "assessment_in_progress", last.Metadata["to_stage"])
		assert.Equal(t, "advance", last.Metadata["operation"])
		assert.False(t, last.Timestamp.IsZero())
	})
}

func TestAssessmentUseCase_Cancel(t *testing.T) {
	f := newFixture()
	a := f.assessmentAt(t, entities.StageInspectionScheduled)

	_, err := f.assessments.Cancel(f.ctx, a.ID, "")
	assert.True(t, errors.Is(err, entities.ErrValidation))

	cancelled, err := f.assessments.Cancel(f.ctx, a.ID, "claim withdrawn")
	require.NoError(t, err)
	assert.Equal(t, entities.StageCancelled, cancelled.Stage)
	assert.Equal(t, entities.AssessmentStatusCancelled, cancelled.Status)
	assert.Equal(t, "claim withdrawn", cancelled.CancelReason)

	_, err = f.assessments.Cancel(f.ctx, a.ID, "again")
	assert.True(t, errors.Is(err, entities.ErrStageViolation))
	_, err = f.assessments.Advance(f.ctx, a.ID, entities.StageAppointmentScheduled)
	assert.True(t, errors.Is(err, entities.ErrStageViolation))
}

func TestAssessmentUseCase_AuditFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIAssessmentRepository(ctrl)
	audit := mock_interfaces.NewMockIAuditSink(ctrl)
	uc := NewAssessmentUseCase(repo, audit, zerolog.Nop())

	current := entities.Assessment{ID: "as-1", Stage: entities.StageRequestSubmitted, Status: entities.AssessmentStatusActive, Version: 3}
	moved := current
	moved.Stage = entities.StageRequestReviewed
	moved.Version = 4

	gomock.InOrder(
		repo.EXPECT().LoadAssessment(gomock.Any(), "as-1").Return(current, nil),
		repo.EXPECT().CASStage(gomock.Any(), gomock.AssignableToTypeOf(interfaces.StageChange{})).DoAndReturn(
			func(_ context.Context, c interfaces.StageChange) (entities.Assessment, error) {
				if c.Expected != entities.StageRequestSubmitted || c.Next != entities.StageRequestReviewed || c.Ledger != nil || c.Snapshot != nil {
					t.Fatalf("unexpected change: %+v", c)
				}
				return moved, nil
			}),
		repo.EXPECT().LoadAssessment(gomock.Any(), "as-1").Return(moved, nil),
	)
	audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("sink down"))

	got, err := uc.Advance(context.Background(), "as-1", entities.StageRequestReviewed)
	require.NoError(t, err)
	assert.Equal(t, entities.StageRequestReviewed, got.Stage)
}

func TestAssessmentUseCase_CASFailureSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIAssessmentRepository(ctrl)
	audit := mock_interfaces.NewMockIAuditSink(ctrl)
	uc := NewAssessmentUseCase(repo, audit, zerolog.Nop())

	current := entities.Assessment{ID: "as-1", Stage: entities.StageRequestSubmitted, Version: 1}
	repo.EXPECT().LoadAssessment(gomock.Any(), "as-1").Return(current, nil)
	repo.EXPECT().CASStage(gomock.Any(), gomock.Any()).Return(entities.Assessment{}, entities.ErrConcurrentModification)

	_, err := uc.Advance(context.Background(), "as-1", entities.StageRequestReviewed)
	assert.True(t, errors.Is(err, entities.ErrConcurrentModification))
}
