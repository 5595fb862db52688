package usecase

import (
	"context"
	"testing"

	"repair_costing/internal/adapter/persistence/memory"
	"repair_costing/internal/domain/entities"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// testRates: outwork markup 20% so a 10000 nett outwork line totals 12000.
var testRates = entities.RateSnapshot{
	LabourRate: dec("100"),
	PaintRate:  dec("250"),
	Markups: entities.Markups{
		OEM:         dec("20"),
		Alternative: dec("10"),
		SecondHand:  dec("0"),
		Outwork:     dec("20"),
	},
	VATPercentage: dec("15"),
}

func outworkLine(id, nett string) LineInput {
	return LineInput{
		ID:          id,
		Description: "outwork " + id,
		ProcessType: entities.ProcessTypeOutwork,
		Fields:      entities.CostFields{OutworkChargeNett: decPtr(nett)},
	}
}

func repairLine(id, hours string) LineInput {
	return LineInput{
		ID:          id,
		Description: "repair " + id,
		ProcessType: entities.ProcessTypeRepair,
		Fields:      entities.CostFields{LabourHours: decPtr(hours)},
	}
}

type fixture struct {
	ctx         context.Context
	store       *memory.Store
	audit       *memory.AuditLog
	rates       *memory.StaticRates
	assessments *AssessmentUseCase
	estimates   *EstimateUseCase
	additionals *AdditionalsUseCase
	frc         *FRCUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	audit := &memory.AuditLog{}
	rates := memory.NewStaticRates(testRates)
	logger := zerolog.Nop()
	return &fixture{
		ctx:         context.Background(),
		store:       store,
		audit:       audit,
		rates:       rates,
		assessments: NewAssessmentUseCase(store, audit, logger),
		estimates:   NewEstimateUseCase(store, rates, audit, logger),
		additionals: NewAdditionalsUseCase(store, rates, audit, logger),
		frc:         NewFRCUseCase(store, audit, logger),
	}
}

// assessmentAt creates an assessment and walks it forward to stage, which
// must be reachable with plain advances.
func (f *fixture) assessmentAt(t *testing.T, stage entities.Stage) entities.Assessment {
	t.Helper()
	a, err := f.assessments.Create(f.ctx, "CLM-1")
	require.NoError(t, err)
	for a.Stage != stage {
		next, ok := a.Stage.Next()
		require.True(t, ok, "cannot advance past %s", a.Stage)
		a, err = f.assessments.Advance(f.ctx, a.ID, next)
		require.NoError(t, err)
	}
	return a
}

// finalized returns an assessment in estimate_finalized with the given lines.
func (f *fixture) finalized(t *testing.T, lines ...LineInput) entities.Assessment {
	t.Helper()
	a := f.assessmentAt(t, entities.StageEstimateReview)
	for _, in := range lines {
		_, err := f.estimates.AddLine(f.ctx, a.ID, in)
		require.NoError(t, err)
	}
	_, err := f.estimates.Finalize(f.ctx, a.ID)
	require.NoError(t, err)
	a, err = f.assessments.Get(f.ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, entities.StageEstimateFinalized, a.Stage)
	return a
}

func (f *fixture) transitions(assessmentID string) []entities.AuditEvent {
	var out []entities.AuditEvent
	for _, e := range f.audit.Events() {
		if e.Action == entities.AuditActionStageTransition && e.EntityID == assessmentID {
			out = append(out, e)
		}
	}
	return out
}
