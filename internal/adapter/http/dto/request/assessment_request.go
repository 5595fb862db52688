package request

type CreateAssessmentRequest struct {
	ClaimReference string `json:"claim_reference" binding:"required"`
}

type AdvanceStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

type CancelAssessmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}
