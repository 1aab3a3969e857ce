package usecase

import (
	"context"

	"kompas/internal/domain/entity"
)

// ResolveUsecase turns a selected candidate, or a raw map point, into a
// resolved location with a coordinate, display label and registry keys.
type ResolveUsecase interface {
	// Resolve materializes a candidate's coordinate. Address candidates
	// require a detail fetch; geometry-bearing candidates derive a
	// representative point and pick up registry keys through a reverse
	// lookup.
	Resolve(ctx context.Context, candidate entity.Candidate) (*entity.ResolvedLocation, error)

	// ReverseAt resolves a bare point: domestically through the address
	// reverse lookup, abroad through the foreign geocoder. Projected input
	// coordinates are converted first.
	ReverseAt(ctx context.Context, lat, lon float64) (*entity.ResolvedLocation, error)
}
