package request

import "github.com/shopspring/decimal"

type FRCLineUpdateRequest struct {
	Decision    string           `json:"decision" binding:"required,oneof=pending accepted adjusted disputed"`
	ActualTotal *decimal.Decimal `json:"actual_total"`
	Note        string           `json:"note"`
}

type CompleteFRCRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

type ReopenFRCRequest struct {
	Reason string `json:"reason" binding:"required"`
}
