package memory

import (
	"context"
	"errors"
	"testing"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveIsOptimistic(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, err := s.CreateAssessment(ctx, entities.Assessment{ID: "as-1", Stage: entities.StageAssessmentInProgress})
	require.NoError(t, err)

	l, err := s.SaveLedger(ctx, entities.EstimateLedger{AssessmentID: "as-1"}, entities.StageAssessmentInProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(1), l.Version)

	_, err = s.SaveLedger(ctx, entities.EstimateLedger{AssessmentID: "as-1"}, entities.StageAssessmentInProgress)
	assert.True(t, errors.Is(err, entities.ErrConcurrentModification), "stale version 0")

	l.Subtotal = decimal.NewFromInt(10)
	l, err = s.SaveLedger(ctx, l, entities.StageAssessmentInProgress)
	require.NoError(t, err)
	assert.Equal(t, int64(2), l.Version)
}

func TestStore_SaveIsStageGuarded(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a, err := s.CreateAssessment(ctx, entities.Assessment{ID: "as-1", Stage: entities.StageFRCInProgress})
	require.NoError(t, err)
	snap, err := s.SaveSnapshot(ctx, entities.FRCSnapshot{AssessmentID: "as-1", Status: entities.FRCStatusInProgress}, entities.StageFRCInProgress)
	require.NoError(t, err)
	overlay, err := s.SaveOverlay(ctx, entities.AdditionalsOverlay{AssessmentID: "as-1"}, entities.StageFRCInProgress)
	require.NoError(t, err)

	_, err = s.CASStage(ctx, interfaces.StageChange{AssessmentID: a.ID, Expected: a.Stage, Next: entities.StageArchived})
	require.NoError(t, err)

	_, err = s.SaveSnapshot(ctx, snap, entities.StageFRCInProgress)
	assert.True(t, errors.Is(err, entities.ErrConcurrentModification), "frc edit after archive")
	_, err = s.SaveOverlay(ctx, overlay, entities.StageFRCInProgress)
	assert.True(t, errors.Is(err, entities.ErrConcurrentModification), "additionals edit after archive")

	stored, err := s.LoadOverlay(ctx, "as-1")
	require.NoError(t, err)
	assert.Equal(t, overlay.Version, stored.Version)

	_, err = s.SaveLedger(ctx, entities.EstimateLedger{AssessmentID: "missing"}, entities.StageAssessmentInProgress)
	assert.True(t, errors.Is(err, entities.ErrConcurrentModification), "no assessment, no stage")
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, err := s.CreateAssessment(ctx, entities.Assessment{ID: "as-1", Stage: entities.StageEstimateFinalized})
	require.NoError(t, err)
	_, err = s.SaveOverlay(ctx, entities.AdditionalsOverlay{
		AssessmentID: "as-1",
		LineItems:    []entities.AdditionalLineItem{{LineItem: entities.LineItem{ID: "A1"}}},
	}, entities.StageEstimateFinalized)
	require.NoError(t, err)

	o, err := s.LoadOverlay(ctx, "as-1")
	require.NoError(t, err)
	o.LineItems[0].ID = "changed"

	again, err := s.LoadOverlay(ctx, "as-1")
	require.NoError(t, err)
	assert.Equal(t, "A1", again.LineItems[0].ID)
}

func TestStore_CASStageWritesAllOrNothing(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a, err := s.CreateAssessment(ctx, entities.Assessment{ID: "as-1", Stage: entities.StageFRCInProgress})
	require.NoError(t, err)
	snap, err := s.SaveSnapshot(ctx, entities.FRCSnapshot{AssessmentID: "as-1", Status: entities.FRCStatusInProgress}, entities.StageFRCInProgress)
	require.NoError(t, err)

	stale := snap
	stale.Version = 0
	stale.Status = entities.FRCStatusCompleted
	_, err = s.CASStage(ctx, interfaces.StageChange{AssessmentID: a.ID, Expected: a.Stage, Next: entities.StageArchived, Snapshot: &stale})
	assert.True(t, errors.Is(err, entities.ErrConcurrentModification))

	after, err := s.LoadAssessment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, after, "stage untouched when the aggregate write is stale")

	done := snap
	done.Status = entities.FRCStatusCompleted
	moved, err := s.CASStage(ctx, interfaces.StageChange{AssessmentID: a.ID, Expected: a.Stage, Next: entities.StageArchived, Snapshot: &done})
	require.NoError(t, err)
	assert.Equal(t, entities.AssessmentStatusArchived, moved.Status)
	assert.Equal(t, a.Version+1, moved.Version)

	stored, err := s.LoadSnapshot(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.FRCStatusCompleted, stored.Status)
	assert.Equal(t, snap.Version+1, stored.Version)

	_, err = s.CASStage(ctx, interfaces.StageChange{AssessmentID: a.ID, Expected: entities.StageFRCInProgress, Next: entities.StageArchived})
	assert.True(t, errors.Is(err, entities.ErrConcurrentModification), "stage already moved")
}
