package request

import "github.com/shopspring/decimal"

type RemoveLineRequest struct {
	OriginalLineItemID string `json:"original_line_item_id" binding:"required"`
	Description        string `json:"description"`
}

type ReverseRequest struct {
	TargetID    string `json:"target_id" binding:"required"`
	Description string `json:"description"`
}

// DecisionRequest is used for approve and decline. Decline also needs a reason.
type DecisionRequest struct {
	DecidedBy string `json:"decided_by"`
	Reason    string `json:"reason"`
}

type BettermentRequest struct {
	Betterment map[string]decimal.Decimal `json:"betterment" binding:"required"`
}
