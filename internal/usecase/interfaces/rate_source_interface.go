package interfaces

import (
	"context"

	"repair_costing/internal/domain/entities"
)

// IRateSource returns a copy of the current global rates and markups.
type IRateSource interface {
	Current(ctx context.Context) (entities.RateSnapshot, error)
}

// IRateStore is the writable global rate settings.
type IRateStore interface {
	IRateSource
	Save(ctx context.Context, rates entities.RateSnapshot) error
}
