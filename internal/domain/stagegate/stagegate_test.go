package stagegate

import (
	"errors"
	"testing"

	"repair_costing/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequire(t *testing.T) {
	cases := []struct {
		name  string
		op    Operation
		stage entities.Stage
		ok    bool
	}{
		{"finalize before review", OpFinalizeEstimate, entities.StageAssessmentInProgress, false},
		{"finalize from review", OpFinalizeEstimate, entities.StageEstimateReview, true},
		{"finalize from sent", OpFinalizeEstimate, entities.StageEstimateSent, true},
		{"finalize twice", OpFinalizeEstimate, entities.StageEstimateFinalized, false},
		{"edit estimate while assessing", OpEditEstimate, entities.StageAssessmentInProgress, true},
		{"edit estimate after finalize", OpEditEstimate, entities.StageEstimateFinalized, false},
		{"additionals before finalize", OpEditAdditionals, entities.StageEstimateSent, false},
		{"additionals during frc", OpEditAdditionals, entities.StageFRCInProgress, true},
		{"start frc", OpStartFRC, entities.StageEstimateFinalized, true},
		{"start frc twice", OpStartFRC, entities.StageFRCInProgress, false},
		{"complete frc", OpCompleteFRC, entities.StageFRCInProgress, true},
		{"complete frc when archived", OpCompleteFRC, entities.StageArchived, false},
		{"reopen archived", OpReopenFRC, entities.StageArchived, true},
		{"reopen cancelled", OpReopenFRC, entities.StageCancelled, false},
		{"cancel active", OpCancel, entities.StageInspectionScheduled, true},
		{"cancel archived", OpCancel, entities.StageArchived, false},
		{"cancel cancelled", OpCancel, entities.StageCancelled, false},
		{"settle archived", OpSettle, entities.StageArchived, true},
		{"unknown op", Operation("explode"), entities.StageArchived, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Require(tc.op, tc.stage)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, entities.ErrStageViolation))
			var sv *entities.StageViolationError
			require.True(t, errors.As(err, &sv))
			assert.Equal(t, tc.stage, sv.Current)
		})
	}
}

func TestRequire_ViolationNamesStages(t *testing.T) {
	err := Require(OpFinalizeEstimate, entities.StageAssessmentInProgress)
	var sv *entities.StageViolationError
	require.True(t, errors.As(err, &sv))
	assert.Equal(t, []entities.Stage{entities.StageEstimateReview, entities.StageEstimateSent}, sv.Required)
	assert.Contains(t, err.Error(), "assessment_in_progress")
	assert.Contains(t, err.Error(), "estimate_review|estimate_sent")
}

func TestTransition(t *testing.T) {
	t.Run("advance walks one step", func(t *testing.T) {
		next, err := Transition(OpAdvance, entities.StageRequestSubmitted, entities.StageRequestReviewed)
		require.NoError(t, err)
		assert.Equal(t, entities.StageRequestReviewed, next)
	})

	t.Run("advance cannot skip", func(t *testing.T) {
		_, err := Transition(OpAdvance, entities.StageRequestSubmitted, entities.StageAssessmentInProgress)
		assert.True(t, errors.Is(err, entities.ErrStageViolation))
	})

	t.Run("advance cannot finalize", func(t *testing.T) {
		_, err := Transition(OpAdvance, entities.StageEstimateSent, entities.StageEstimateFinalized)
		assert.True(t, errors.Is(err, entities.ErrStageViolation))
	})

	t.Run("dedicated transitions", func(t *testing.T) {
		for op, want := range map[Operation]entities.Stage{
			OpFinalizeEstimate: entities.StageEstimateFinalized,
			OpStartFRC:         entities.StageFRCInProgress,
			OpCompleteFRC:      entities.StageArchived,
			OpReopenFRC:        entities.StageFRCInProgress,
		} {
			from := Required(op)[0]
			got, err := Transition(op, from, "")
			require.NoError(t, err, op)
			assert.Equal(t, want, got, op)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		got, err := Transition(OpCancel, entities.StageFRCInProgress, "")
		require.NoError(t, err)
		assert.Equal(t, entities.StageCancelled, got)
	})

	t.Run("non transitioning op", func(t *testing.T) {
		_, err := Transition(OpEditEstimate, entities.StageEstimateReview, "")
		assert.True(t, errors.Is(err, entities.ErrValidation))
	})
}

func TestRequired_CancelListsNonTerminal(t *testing.T) {
	stages := Required(OpCancel)
	assert.NotContains(t, stages, entities.StageArchived)
	assert.NotContains(t, stages, entities.StageCancelled)
	assert.Contains(t, stages, entities.StageFRCInProgress)
	assert.Len(t, stages, 9)
}
