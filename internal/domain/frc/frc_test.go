package frc

import (
	"errors"
	"testing"
	"time"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/domain/reconciliation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0    = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rates = entities.RateSnapshot{VATPercentage: decimal.NewFromInt(10)}
)

func line(id string, total int64) entities.LineItem {
	v := decimal.NewFromInt(total)
	return entities.LineItem{ID: id, Description: id, Cost: entities.OutworkCost{OutworkChargeNett: v}, Total: v}
}

func additional(id string, total int64, action entities.AdditionalAction, status entities.AdditionalStatus, original string) entities.AdditionalLineItem {
	return entities.AdditionalLineItem{LineItem: line(id, total), Action: action, Status: status, OriginalLineItemID: original}
}

func started(t *testing.T, ledger entities.EstimateLedger, overlay entities.AdditionalsOverlay) entities.FRCSnapshot {
	t.Helper()
	s, err := Start("as-1", reconciliation.Compose(ledger, overlay), rates, t0)
	require.NoError(t, err)
	return s
}

func TestStart_CopiesReconciledSet(t *testing.T) {
	ledger := entities.EstimateLedger{LineItems: []entities.LineItem{line("E1", 1000), line("E2", 200)}}
	overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{
		additional("R1", -200, entities.ActionRemoved, entities.AdditionalStatusApproved, "E2"),
		additional("A1", 50, entities.ActionAdded, entities.AdditionalStatusPending, ""),
	}}

	s := started(t, ledger, overlay)
	require.Len(t, s.Lines, 4)
	assert.Equal(t, entities.FRCStatusInProgress, s.Status)
	for _, l := range s.Lines {
		assert.True(t, l.QuotedTotal.Equal(l.Total))
		assert.True(t, l.ActualTotal.Equal(l.QuotedTotal))
		assert.Equal(t, entities.DecisionPending, l.Decision)
	}

	// later edits to the sources do not reach the snapshot
	ledger.LineItems[0].Total = decimal.NewFromInt(1)
	assert.Equal(t, "1000", s.Lines[0].QuotedTotal.String())

	b, err := Breakdown(s)
	require.NoError(t, err)
	assert.Equal(t, "1000", b.Quoted.Subtotal.String())
	assert.Equal(t, "100", b.Quoted.VATAmount.String())
	assert.Equal(t, "1100", b.Quoted.Total.String())
	assert.True(t, b.Variance.IsZero())
}

func TestStart_RejectsBrokenSet(t *testing.T) {
	ledger := entities.EstimateLedger{LineItems: []entities.LineItem{line("E1", 1000)}}
	overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{
		additional("R1", -999, entities.ActionRemoved, entities.AdditionalStatusApproved, "E1"),
	}}
	_, err := Start("as-1", reconciliation.Compose(ledger, overlay), rates, t0)
	assert.True(t, errors.Is(err, entities.ErrReconciliationInvariant))
}

func TestMergeAdditionals_Idempotent(t *testing.T) {
	ledger := entities.EstimateLedger{LineItems: []entities.LineItem{line("E1", 1000)}}
	overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{
		additional("A1", 50, entities.ActionAdded, entities.AdditionalStatusPending, ""),
	}}
	s := started(t, ledger, overlay)

	// after start: A1 approved, a new removal approved, a new pending item
	overlay.LineItems[0].Status = entities.AdditionalStatusApproved
	overlay.LineItems = append(overlay.LineItems,
		additional("R1", -1000, entities.ActionRemoved, entities.AdditionalStatusApproved, "E1"),
		additional("A2", 70, entities.ActionAdded, entities.AdditionalStatusPending, ""),
	)
	reconciled := reconciliation.Compose(ledger, overlay)

	first, res, err := MergeAdditionals(s, reconciled, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, res.Added)
	assert.ElementsMatch(t, []string{"E1", "A1"}, res.Updated)
	require.Len(t, first.Lines, 3)
	require.NotNil(t, first.Lines[2].MergedAt)

	second, res2, err := MergeAdditionals(first, reconciled, t0.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, res2.Changed())
	assert.Equal(t, first, second)

	b1, err := Breakdown(first)
	require.NoError(t, err)
	b2, err := Breakdown(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
	assert.Equal(t, "50", b1.Quoted.Subtotal.String())
}

func TestMergeAdditionals_DropsReversed(t *testing.T) {
	overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{
		additional("A1", 50, entities.ActionAdded, entities.AdditionalStatusApproved, ""),
	}}
	s := started(t, entities.EstimateLedger{}, overlay)

	overlay.LineItems = append(overlay.LineItems, entities.AdditionalLineItem{
		LineItem: entities.LineItem{ID: "V1"}, Action: entities.ActionReversal, Status: entities.AdditionalStatusApproved, ReversalTargetID: "A1",
	})
	merged, res, err := MergeAdditionals(s, reconciliation.Compose(entities.EstimateLedger{}, overlay), t0)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, res.Dropped)
	assert.Empty(t, merged.Lines)
}

func TestUpdateLine(t *testing.T) {
	ledger := entities.EstimateLedger{LineItems: []entities.LineItem{line("E1", 1000)}}
	overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{
		additional("A1", 50, entities.ActionAdded, entities.AdditionalStatusDeclined, ""),
	}}
	s := started(t, ledger, overlay)
	amount := decimal.NewFromInt(1200)

	t.Run("adjusted requires amount", func(t *testing.T) {
		_, err := UpdateLine(s, LineUpdate{LineID: "E1", Decision: entities.DecisionAdjusted}, t0)
		assert.True(t, errors.Is(err, entities.ErrValidation))
	})

	t.Run("adjusted", func(t *testing.T) {
		out, err := UpdateLine(s, LineUpdate{LineID: "E1", Decision: entities.DecisionAdjusted, ActualTotal: &amount, Note: " invoice 88 "}, t0)
		require.NoError(t, err)
		assert.Equal(t, "1200", out.Lines[0].ActualTotal.String())
		assert.Equal(t, "invoice 88", out.Lines[0].Note)
		assert.Equal(t, "1000", s.Lines[0].ActualTotal.String(), "input snapshot untouched")

		b, err := Breakdown(out)
		require.NoError(t, err)
		assert.Equal(t, "220", b.Variance.String())
		assert.Equal(t, 1, b.Adjusted)
	})

	t.Run("accepted resets to quoted", func(t *testing.T) {
		adj, err := UpdateLine(s, LineUpdate{LineID: "E1", Decision: entities.DecisionAdjusted, ActualTotal: &amount}, t0)
		require.NoError(t, err)
		out, err := UpdateLine(adj, LineUpdate{LineID: "E1", Decision: entities.DecisionAccepted}, t0)
		require.NoError(t, err)
		assert.Equal(t, "1000", out.Lines[0].ActualTotal.String())
	})

	t.Run("declined line cannot be costed", func(t *testing.T) {
		_, err := UpdateLine(s, LineUpdate{LineID: "A1", Decision: entities.DecisionAccepted}, t0)
		assert.True(t, errors.Is(err, entities.ErrValidation))
	})

	t.Run("unknown line", func(t *testing.T) {
		_, err := UpdateLine(s, LineUpdate{LineID: "nope", Decision: entities.DecisionAccepted}, t0)
		assert.True(t, errors.Is(err, entities.ErrNotFound))
	})

	t.Run("unknown decision", func(t *testing.T) {
		_, err := UpdateLine(s, LineUpdate{LineID: "E1", Decision: "maybe"}, t0)
		assert.True(t, errors.Is(err, entities.ErrValidation))
	})
}

func TestSignOffAndReopen(t *testing.T) {
	s := started(t, entities.EstimateLedger{LineItems: []entities.LineItem{line("E1", 1000)}}, entities.AdditionalsOverlay{})

	_, err := SignOff(s, " ", "assessor", t0)
	assert.True(t, errors.Is(err, entities.ErrValidation))
	_, err = SignOff(s, "Dana", "", t0)
	assert.True(t, errors.Is(err, entities.ErrValidation))

	done, err := SignOff(s, "Dana", "assessor", t0)
	require.NoError(t, err)
	assert.Equal(t, entities.FRCStatusCompleted, done.Status)
	require.NotNil(t, done.SignOff)
	assert.Equal(t, t0, done.SignOff.CompletedAt)

	amount := decimal.NewFromInt(5)
	_, err = UpdateLine(done, LineUpdate{LineID: "E1", Decision: entities.DecisionAdjusted, ActualTotal: &amount}, t0)
	assert.True(t, errors.Is(err, entities.ErrValidation), "completed snapshot is frozen")
	_, _, err = MergeAdditionals(done, nil, t0)
	assert.True(t, errors.Is(err, entities.ErrValidation))

	reopened, err := Reopen(done, t0)
	require.NoError(t, err)
	assert.Equal(t, entities.FRCStatusInProgress, reopened.Status)
	assert.Nil(t, reopened.SignOff)
	assert.Equal(t, 1, reopened.ReopenCount)

	_, err = Reopen(reopened, t0)
	assert.True(t, errors.Is(err, entities.ErrValidation))
}
