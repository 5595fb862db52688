package response

import (
	"time"

	"repair_costing/internal/domain/entities"
)

type AssessmentResponse struct {
	ID             string    `json:"id"`
	ClaimReference string    `json:"claim_reference"`
	Stage          string    `json:"stage"`
	Status         string    `json:"status"`
	CancelReason   string    `json:"cancel_reason,omitempty"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func FromAssessment(a entities.Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:             a.ID,
		ClaimReference: a.ClaimReference,
		Stage:          string(a.Stage),
		Status:         string(a.Status),
		CancelReason:   a.CancelReason,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
