package usecase

import (
	"context"

	"kompas/internal/domain/entity"
)

// RouteInput names the two endpoints of a route request. Each endpoint is
// either a pre-resolved point or free text resolved through the endpoint
// pipeline. Profile and preference default from configuration when empty.
type RouteInput struct {
	From       string             `json:"from"`
	Via        string             `json:"via,omitempty"`
	To         string             `json:"to"`
	FromPoint  *entity.Coordinate `json:"from_point,omitempty"`
	ViaPoint   *entity.Coordinate `json:"via_point,omitempty"`
	ToPoint    *entity.Coordinate `json:"to_point,omitempty"`
	Profile    string             `json:"profile"`
	Preference string             `json:"preference"`
}

// RouteUsecase resolves route endpoints and plans routes between them.
type RouteUsecase interface {
	// ResolveEndpoint turns endpoint free text into a coordinate: best
	// domestic access-address match first, foreign geocoder fallback.
	ResolveEndpoint(ctx context.Context, query string) (*entity.Coordinate, error)

	Plan(ctx context.Context, input RouteInput) (*entity.RoutePlan, error)
}
