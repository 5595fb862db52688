package usecase

import (
	"context"
	"time"

	"repair_costing/internal/domain/entities"
	"repair_costing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IRatesUseCase reads and replaces the global rates. Finalized estimates and
// additionals overlays keep their frozen copies.
type IRatesUseCase interface {
	Get(ctx context.Context) (entities.RateSnapshot, error)
	Update(ctx context.Context, rates entities.RateSnapshot, updatedBy string) (entities.RateSnapshot, error)
}

type RatesUseCase struct {
	store interfaces.IRateStore
	audit interfaces.IAuditSink
	log   zerolog.Logger
}

var _ IRatesUseCase = (*RatesUseCase)(nil)

func NewRatesUseCase(store interfaces.IRateStore, audit interfaces.IAuditSink, logger zerolog.Logger) *RatesUseCase {
	return &RatesUseCase{store: store, audit: audit, log: logger.With().Str("component", "rates").Logger()}
}

func (u *RatesUseCase) Get(ctx context.Context) (entities.RateSnapshot, error) {
	return u.store.Current(ctx)
}

func (u *RatesUseCase) Update(ctx context.Context, rates entities.RateSnapshot, updatedBy string) (entities.RateSnapshot, error) {
	if err := rates.Validate(); err != nil {
		return entities.RateSnapshot{}, err
	}
	previous, err := u.store.Current(ctx)
	if err != nil {
		return entities.RateSnapshot{}, err
	}
	if err := u.store.Save(ctx, rates); err != nil {
		u.log.Error().Err(err).Msg("rates update failed")
		return entities.RateSnapshot{}, err
	}

	if u.audit != nil {
		event := entities.AuditEvent{
			ID:         uuid.NewString(),
			EntityType: entities.AuditEntityRates,
			EntityID:   "global",
			Action:     "updated",
			Metadata: map[string]any{
				"updated_by":      updatedBy,
				"labour_rate":     rates.LabourRate.String(),
				"paint_rate":      rates.PaintRate.String(),
				"vat_percentage":  rates.VATPercentage.String(),
				"previous_labour": previous.LabourRate.String(),
			},
			Timestamp: time.Now().UTC(),
		}
		if err := u.audit.Emit(ctx, event); err != nil {
			u.log.Warn().Err(err).Msg("audit emit failed")
		}
	}
	u.log.Info().Str("updated_by", updatedBy).Msg("rates updated")
	return rates, nil
}
