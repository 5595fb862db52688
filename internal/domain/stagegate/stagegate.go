// Package stagegate declares which assessment stages each costing operation
// is legal in, and which stage it moves the assessment to.
package stagegate

import (
	"repair_costing/internal/domain/entities"
)

// Operation names a gated operation. The value is also the audit trigger name.
type Operation string

const (
	OpAdvance          Operation = "advance"
	OpEditEstimate     Operation = "edit_estimate"
	OpFinalizeEstimate Operation = "finalize_estimate"
	OpEditAdditionals  Operation = "edit_additionals"
	OpStartFRC         Operation = "start_frc"
	OpEditFRC          Operation = "edit_frc"
	OpCompleteFRC      Operation = "complete_frc"
	OpReopenFRC        Operation = "reopen_frc"
	OpCancel           Operation = "cancel"
	OpSettle           Operation = "settle"
)

type rule struct {
	from []entities.Stage
	// to is empty for operations that do not transition.
	to entities.Stage
}

var editableEstimate = []entities.Stage{
	entities.StageAssessmentInProgress,
	entities.StageEstimateReview,
	entities.StageEstimateSent,
}

var rules = map[Operation]rule{
	OpAdvance: {from: []entities.Stage{
		entities.StageRequestSubmitted,
		entities.StageRequestReviewed,
		entities.StageInspectionScheduled,
		entities.StageAppointmentScheduled,
		entities.StageAssessmentInProgress,
		entities.StageEstimateReview,
	}},
	OpEditEstimate:     {from: editableEstimate},
	OpFinalizeEstimate: {from: []entities.Stage{entities.StageEstimateReview, entities.StageEstimateSent}, to: entities.StageEstimateFinalized},
	OpEditAdditionals:  {from: []entities.Stage{entities.StageEstimateFinalized, entities.StageFRCInProgress}},
	OpStartFRC:         {from: []entities.Stage{entities.StageEstimateFinalized}, to: entities.StageFRCInProgress},
	OpEditFRC:          {from: []entities.Stage{entities.StageFRCInProgress}},
	OpCompleteFRC:      {from: []entities.Stage{entities.StageFRCInProgress}, to: entities.StageArchived},
	OpReopenFRC:        {from: []entities.Stage{entities.StageArchived}, to: entities.StageFRCInProgress},
	OpSettle:           {from: []entities.Stage{entities.StageArchived}},
}

// Require returns a StageViolationError unless op is legal in current.
func Require(op Operation, current entities.Stage) error {
	if op == OpCancel {
		if current.IsTerminal() || !current.IsValid() {
			return violation(op, current, nonTerminal())
		}
		return nil
	}
	r, ok := rules[op]
	if !ok {
		return violation(op, current, nil)
	}
	for _, s := range r.from {
		if s == current {
			return nil
		}
	}
	return violation(op, current, r.from)
}

// Transition validates op from current and returns the target stage.
// For OpAdvance the caller names the target; it must be the next stage.
func Transition(op Operation, current, requested entities.Stage) (entities.Stage, error) {
	if err := Require(op, current); err != nil {
		return "", err
	}
	switch op {
	case OpCancel:
		return entities.StageCancelled, nil
	case OpAdvance:
		next, _ := current.Next()
		if requested != next {
			return "", &entities.StageViolationError{Operation: string(op) + " to " + string(requested), Current: current, Required: previous(requested)}
		}
		return next, nil
	}
	r := rules[op]
	if r.to == "" {
		return "", entities.NewValidationError("operation", string(op)+" does not change the stage")
	}
	return r.to, nil
}

// Required lists the stages op is legal in.
func Required(op Operation) []entities.Stage {
	if op == OpCancel {
		return nonTerminal()
	}
	r := rules[op]
	out := make([]entities.Stage, len(r.from))
	copy(out, r.from)
	return out
}

func violation(op Operation, current entities.Stage, required []entities.Stage) error {
	return &entities.StageViolationError{Operation: string(op), Current: current, Required: required}
}

func nonTerminal() []entities.Stage {
	var out []entities.Stage
	for _, s := range entities.Stages() {
		if !s.IsTerminal() {
			out = append(out, s)
		}
	}
	return out
}

func previous(target entities.Stage) []entities.Stage {
	for _, s := range entities.Stages() {
		if next, ok := s.Next(); ok && next == target {
			return []entities.Stage{s}
		}
	}
	return nil
}
