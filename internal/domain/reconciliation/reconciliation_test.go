package reconciliation

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"repair_costing/internal/domain/calculation"
	"repair_costing/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rates = entities.RateSnapshot{
	LabourRate:    decimal.NewFromInt(450),
	PaintRate:     decimal.NewFromInt(1800),
	Markups:       entities.Markups{OEM: decimal.NewFromInt(25), Alternative: decimal.NewFromInt(15), SecondHand: decimal.NewFromInt(10), Outwork: decimal.NewFromInt(20)},
	VATPercentage: decimal.NewFromInt(15),
}

// outwork builds a line whose total equals nett * 1.2 under rates.
func outwork(t *testing.T, id string, nett int64) entities.LineItem {
	t.Helper()
	v := decimal.NewFromInt(nett)
	cost, err := entities.BuildCostInputs(entities.ProcessTypeOutwork, entities.CostFields{OutworkChargeNett: &v})
	require.NoError(t, err)
	item, err := calculation.Apply(entities.LineItem{ID: id, Description: "line " + id, Cost: cost}, rates)
	require.NoError(t, err)
	return item
}

// fixed builds a line with a preset total, bypassing pricing.
func fixed(id string, total int64) entities.LineItem {
	v := decimal.NewFromInt(total)
	return entities.LineItem{ID: id, Description: id, Cost: entities.OutworkCost{OutworkChargeNett: v}, Total: v}
}

func removal(t *testing.T, id string, original entities.LineItem, status entities.AdditionalStatus) entities.AdditionalLineItem {
	t.Helper()
	item, err := calculation.ApplyNegated(entities.LineItem{ID: id, Description: "remove " + original.ID, Cost: original.Cost}, rates)
	require.NoError(t, err)
	return entities.AdditionalLineItem{LineItem: item, Action: entities.ActionRemoved, Status: status, OriginalLineItemID: original.ID}
}

func payable(t *testing.T, items []entities.ReconciledLineItem) decimal.Decimal {
	t.Helper()
	totals, err := Totals(items, decimal.Zero)
	require.NoError(t, err)
	return totals.Subtotal
}

func TestScenario_ApprovedRemovalNetsToZeroAndDeclineRestores(t *testing.T) {
	l1 := fixed("L1", 12000)
	ledger := entities.EstimateLedger{LineItems: []entities.LineItem{l1}}
	rm := entities.AdditionalLineItem{
		LineItem:           fixed("R1", -12000),
		Action:             entities.ActionRemoved,
		Status:             entities.AdditionalStatusApproved,
		OriginalLineItemID: "L1",
	}
	overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{rm}}

	set := Compose(ledger, overlay)
	require.Len(t, set, 2)
	assert.True(t, payable(t, set).IsZero())
	assert.True(t, set[0].RemovedViaAdditionals, "base line stays visible and is marked")

	overlay.LineItems[0].Status = entities.AdditionalStatusDeclined
	overlay.LineItems[0].DeclineReason = "insurer refused"
	set = Compose(ledger, overlay)
	require.Len(t, set, 2)
	assert.Equal(t, "12000", payable(t, set).String())
	assert.True(t, set[1].DeclinedViaAdditionals)
	assert.Equal(t, "insurer refused", set[1].DeclineReason)
}

func TestCompose_NeverDropsBaseOrRemovalLines(t *testing.T) {
	e := outwork(t, "E1", 1000)
	ledger := entities.EstimateLedger{LineItems: []entities.LineItem{e, outwork(t, "E2", 500)}}
	overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{removal(t, "R1", e, entities.AdditionalStatusPending)}}

	set := Compose(ledger, overlay)
	ids := []string{}
	for _, it := range set {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"E1", "E2", "R1"}, ids)
	// a pending removal already marks its target but does not change money
	assert.True(t, set[0].RemovedViaAdditionals)
	assert.Equal(t, "1800", payable(t, set).String())
}

func TestCompose_ApprovedReversalOmitsBothLines(t *testing.T) {
	e := outwork(t, "E1", 1000)
	added := entities.AdditionalLineItem{LineItem: outwork(t, "A1", 100), Action: entities.ActionAdded, Status: entities.AdditionalStatusApproved}
	rm := removal(t, "R1", e, entities.AdditionalStatusApproved)
	revAdded := entities.AdditionalLineItem{LineItem: entities.LineItem{ID: "V1"}, Action: entities.ActionReversal, Status: entities.AdditionalStatusApproved, ReversalTargetID: "A1"}
	revRemoval := entities.AdditionalLineItem{LineItem: entities.LineItem{ID: "V2"}, Action: entities.ActionReversal, Status: entities.AdditionalStatusApproved, ReversalTargetID: "R1"}

	ledger := entities.EstimateLedger{LineItems: []entities.LineItem{e}}
	overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{added, rm, revAdded, revRemoval}}

	set := Compose(ledger, overlay)
	require.Len(t, set, 1)
	assert.Equal(t, "E1", set[0].ID)
	assert.False(t, set[0].RemovedViaAdditionals, "a reversed removal never happened")
	assert.Equal(t, "1200", payable(t, set).String())

	for _, status := range []entities.AdditionalStatus{entities.AdditionalStatusPending, entities.AdditionalStatusDeclined} {
		t.Run("removal reversal "+string(status)+" keeps the mark", func(t *testing.T) {
			rev := revRemoval
			rev.Status = status
			overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{rm, rev}}

			set := Compose(ledger, overlay)
			require.Len(t, set, 2)
			assert.True(t, set[0].RemovedViaAdditionals)
			assert.True(t, payable(t, set).IsZero())
		})
	}
}

func TestCompose_PendingReversalKeepsTarget(t *testing.T) {
	added := entities.AdditionalLineItem{LineItem: outwork(t, "A1", 100), Action: entities.ActionAdded, Status: entities.AdditionalStatusApproved}
	rev := entities.AdditionalLineItem{LineItem: entities.LineItem{ID: "V1"}, Action: entities.ActionReversal, Status: entities.AdditionalStatusPending, ReversalTargetID: "A1"}

	set := Compose(entities.EstimateLedger{}, entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{added, rev}})
	require.Len(t, set, 1)
	assert.Equal(t, "A1", set[0].ID)
	assert.Equal(t, "120", payable(t, set).String())
}

func TestCompose_OutputIsIndependentCopy(t *testing.T) {
	e := outwork(t, "E1", 1000)
	e.Betterment = entities.Betterment{entities.ComponentOutwork: decimal.NewFromInt(10)}
	ledger := entities.EstimateLedger{LineItems: []entities.LineItem{e}}

	set := Compose(ledger, entities.AdditionalsOverlay{})
	set[0].Betterment[entities.ComponentOutwork] = decimal.NewFromInt(99)
	set[0].Total = decimal.NewFromInt(1)

	assert.Equal(t, "10", ledger.LineItems[0].Betterment[entities.ComponentOutwork].String())
	assert.Equal(t, "1200", ledger.LineItems[0].Total.String())
}

func TestCheckInvariants(t *testing.T) {
	e := entities.ReconciledLineItem{LineItem: fixed("E1", 500), Source: entities.SourceEstimate, Status: entities.AdditionalStatusApproved}

	t.Run("removal that does not net to zero", func(t *testing.T) {
		rm := entities.ReconciledLineItem{LineItem: fixed("R1", -400), Source: entities.SourceAdditional, Action: entities.ActionRemoved, Status: entities.AdditionalStatusApproved, OriginalLineItemID: "E1"}
		_, err := Totals([]entities.ReconciledLineItem{e, rm}, decimal.Zero)
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrReconciliationInvariant))
	})

	t.Run("removal without original", func(t *testing.T) {
		rm := entities.ReconciledLineItem{LineItem: fixed("R1", -500), Source: entities.SourceAdditional, Action: entities.ActionRemoved, Status: entities.AdditionalStatusApproved, OriginalLineItemID: "missing"}
		err := CheckInvariants([]entities.ReconciledLineItem{e, rm})
		assert.True(t, errors.Is(err, entities.ErrReconciliationInvariant))
	})

	t.Run("double removal", func(t *testing.T) {
		rm1 := entities.ReconciledLineItem{LineItem: fixed("R1", -500), Source: entities.SourceAdditional, Action: entities.ActionRemoved, Status: entities.AdditionalStatusApproved, OriginalLineItemID: "E1"}
		rm2 := rm1
		rm2.ID = "R2"
		err := CheckInvariants([]entities.ReconciledLineItem{e, rm1, rm2})
		assert.True(t, errors.Is(err, entities.ErrReconciliationInvariant))
	})

	t.Run("inconsistent declined marker", func(t *testing.T) {
		odd := entities.ReconciledLineItem{LineItem: fixed("A1", 10), Source: entities.SourceAdditional, Action: entities.ActionAdded, Status: entities.AdditionalStatusApproved, DeclinedViaAdditionals: true}
		err := CheckInvariants([]entities.ReconciledLineItem{odd})
		assert.True(t, errors.Is(err, entities.ErrReconciliationInvariant))
	})

	t.Run("declined removal with mismatched total is ignored", func(t *testing.T) {
		rm := entities.ReconciledLineItem{LineItem: fixed("R1", -1), Source: entities.SourceAdditional, Action: entities.ActionRemoved, Status: entities.AdditionalStatusDeclined, DeclinedViaAdditionals: true, OriginalLineItemID: "E1"}
		assert.NoError(t, CheckInvariants([]entities.ReconciledLineItem{e, rm}))
	})
}

// generated builds a random but valid estimate + overlay pair.
func generated(t *testing.T, rnd *rand.Rand) (entities.EstimateLedger, entities.AdditionalsOverlay) {
	t.Helper()
	statuses := []entities.AdditionalStatus{entities.AdditionalStatusPending, entities.AdditionalStatusApproved, entities.AdditionalStatusDeclined}

	var ledger entities.EstimateLedger
	for i := 0; i < 1+rnd.Intn(8); i++ {
		ledger.LineItems = append(ledger.LineItems, outwork(t, fmt.Sprintf("E%d", i), int64(1+rnd.Intn(50000))))
	}
	var overlay entities.AdditionalsOverlay
	for i, e := range ledger.LineItems {
		if rnd.Intn(2) == 0 {
			overlay.LineItems = append(overlay.LineItems, removal(t, fmt.Sprintf("R%d", i), e, statuses[rnd.Intn(3)]))
		}
	}
	for i := 0; i < rnd.Intn(6); i++ {
		a := entities.AdditionalLineItem{
			LineItem: outwork(t, fmt.Sprintf("A%d", i), int64(1+rnd.Intn(9000))),
			Action:   entities.ActionAdded,
			Status:   statuses[rnd.Intn(3)],
		}
		if a.Status == entities.AdditionalStatusDeclined {
			a.DeclineReason = "not covered"
		}
		overlay.LineItems = append(overlay.LineItems, a)
	}
	return ledger, overlay
}

func TestProperty_NetZeroRemoval(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		e := outwork(t, "E", int64(1+rnd.Intn(100000)))
		rm := removal(t, "R", e, entities.AdditionalStatusApproved)
		set := Compose(entities.EstimateLedger{LineItems: []entities.LineItem{e}}, entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{rm}})
		require.True(t, payable(t, set).IsZero(), "iteration %d", i)
	}
}

func TestProperty_DeclinedNeverCounted(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		ledger, overlay := generated(t, rnd)
		with := payable(t, Compose(ledger, overlay))

		stripped := overlay.Clone()
		stripped.LineItems = stripped.LineItems[:0]
		for _, a := range overlay.LineItems {
			if a.Status != entities.AdditionalStatusDeclined {
				stripped.LineItems = append(stripped.LineItems, a.Clone())
			}
		}
		without := payable(t, Compose(ledger, stripped))
		require.True(t, with.Equal(without), "iteration %d: %s != %s", i, with, without)
	}
}

func TestProperty_PredicateIdentity(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		ledger, overlay := generated(t, rnd)
		set := Compose(ledger, overlay)

		manual := decimal.Zero
		for _, it := range set {
			cl := Classify(it)
			if cl.Badge == BadgeDeclined {
				require.False(t, cl.Counted, "declined badge must never be summed")
			}
			if cl.Badge == BadgeRemoval {
				require.True(t, cl.Counted, "approved removal is summed as a negative line")
				require.True(t, it.Total.IsNegative())
			}
			if cl.Badge == BadgeRemoved {
				require.True(t, cl.Counted, "removed base line stays in the sum")
			}
			if cl.Counted {
				manual = manual.Add(it.Total)
			}
		}
		require.True(t, manual.Equal(payable(t, set)))

		c := Count(set)
		require.Equal(t, len(set), c.Visible)
	}
}

func TestCount(t *testing.T) {
	e := outwork(t, "E1", 100)
	overlay := entities.AdditionalsOverlay{LineItems: []entities.AdditionalLineItem{
		removal(t, "R1", e, entities.AdditionalStatusApproved),
		{LineItem: outwork(t, "A1", 10), Action: entities.ActionAdded, Status: entities.AdditionalStatusPending},
		{LineItem: outwork(t, "A2", 10), Action: entities.ActionAdded, Status: entities.AdditionalStatusDeclined},
		{LineItem: outwork(t, "A3", 10), Action: entities.ActionAdded, Status: entities.AdditionalStatusApproved},
	}}
	c := Count(Compose(entities.EstimateLedger{LineItems: []entities.LineItem{e}}, overlay))
	assert.Equal(t, Counters{Visible: 5, Counted: 3, Added: 1, Removed: 1, Removals: 1, Pending: 1, Declined: 1}, c)
}
