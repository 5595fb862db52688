package entities

import "time"

// Stage is the assessment lifecycle position. The order of stageOrder is the
// only legal forward path; cancelled is reachable from any non-terminal stage.
type Stage string

const (
	StageRequestSubmitted     Stage = "request_submitted"
	StageRequestReviewed      Stage = "request_reviewed"
	StageInspectionScheduled  Stage = "inspection_scheduled"
	StageAppointmentScheduled Stage = "appointment_scheduled"
	StageAssessmentInProgress Stage = "assessment_in_progress"
	StageEstimateReview       Stage = "estimate_review"
	StageEstimateSent         Stage = "estimate_sent"
	StageEstimateFinalized    Stage = "estimate_finalized"
	StageFRCInProgress        Stage = "frc_in_progress"
	StageArchived             Stage = "archived"
	StageCancelled            Stage = "cancelled"
)

var stageOrder = []Stage{
	StageRequestSubmitted,
	StageRequestReviewed,
	StageInspectionScheduled,
	StageAppointmentScheduled,
	StageAssessmentInProgress,
	StageEstimateReview,
	StageEstimateSent,
	StageEstimateFinalized,
	StageFRCInProgress,
	StageArchived,
}

func (s Stage) String() string {
	return string(s)
}

func (s Stage) IsValid() bool {
	return s == StageCancelled || s.index() >= 0
}

func (s Stage) IsTerminal() bool {
	return s == StageArchived || s == StageCancelled
}

// Next returns the stage that directly follows s on the forward path.
func (s Stage) Next() (Stage, bool) {
	i := s.index()
	if i < 0 || i+1 >= len(stageOrder) {
		return "", false
	}
	return stageOrder[i+1], true
}

func (s Stage) index() int {
	for i, candidate := range stageOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Stages lists every forward stage in order, without cancelled.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ParseStage converts raw input into a Stage.
func ParseStage(value string) (Stage, error) {
	s := Stage(value)
	if !s.IsValid() {
		return "", NewValidationError("stage", "is not a known stage: "+value)
	}
	return s, nil
}

// AssessmentStatus is the coarse status derived from the stage. It is always
// written together with Stage so the two can never disagree.
type AssessmentStatus string

const (
	AssessmentStatusActive    AssessmentStatus = "active"
	AssessmentStatusArchived  AssessmentStatus = "archived"
	AssessmentStatusCancelled AssessmentStatus = "cancelled"
)

func StatusForStage(s Stage) AssessmentStatus {
	switch s {
	case StageArchived:
		return AssessmentStatusArchived
	case StageCancelled:
		return AssessmentStatusCancelled
	default:
		return AssessmentStatusActive
	}
}

// Assessment is the vehicle-damage assessment whose stage gates every costing operation.
//
// Storage model (DynamoDB):
//   - PK: id
//   - version is bumped by every conditional stage write
type Assessment struct {
	ID             string           `json:"id"`
	ClaimReference string           `json:"claim_reference"`
	Stage          Stage            `json:"stage"`
	Status         AssessmentStatus `json:"status"`
	CancelReason   string           `json:"cancel_reason,omitempty"`
	Version        int64            `json:"version"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
