package interfaces

import (
	"context"

	"repair_costing/internal/domain/entities"
)

// IBillingPaymentRepository abstracts DynamoDB persistence for settlement payments.
type IBillingPaymentRepository interface {
	Create(ctx context.Context, p entities.BillingPayment) (entities.BillingPayment, error)
	GetByID(ctx context.Context, id string) (entities.BillingPayment, error)
	ListByAssessmentID(ctx context.Context, assessmentID string) ([]entities.BillingPayment, error)

	// ClaimSettlement takes the single settlement slot of an assessment for
	// claimID with a conditional write. A slot already held returns
	// entities.ErrConcurrentModification.
	ClaimSettlement(ctx context.Context, assessmentID, claimID string) error
	// ReleaseSettlement frees the slot if claimID still holds it.
	ReleaseSettlement(ctx context.Context, assessmentID, claimID string) error
}
