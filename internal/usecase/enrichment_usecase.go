package usecase

import (
	"context"

	"kompas/internal/domain/entity"
)

// EnrichmentUsecase gathers the registry context for a resolved domestic
// location: road-authority data, jurisdiction, buildings and parcels. The
// sub-lookups are independent and best effort.
type EnrichmentUsecase interface {
	Enrich(ctx context.Context, location *entity.ResolvedLocation) (*entity.EnrichmentRecord, error)
}
