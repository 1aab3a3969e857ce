package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/source"
	"kompas/internal/usecase"
)

var (
	// ErrMissingEndpoint is returned when a route request lacks an origin or
	// destination
	ErrMissingEndpoint = errors.New("route requires both endpoints")
	// ErrEndpointNotFound is returned when endpoint text resolves to no
	// coordinate
	ErrEndpointNotFound = errors.New("no coordinate found for endpoint")
)

type routeService struct {
	addresses source.AddressSource
	foreign   source.ForeignGeocoder
	planner   source.RoutePlanner
	defaults  *config.RouteConfig
	logger    *slog.Logger
}

// NewRouteService creates a new route planning service instance
func NewRouteService(
	addresses source.AddressSource,
	foreign source.ForeignGeocoder,
	planner source.RoutePlanner,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.RouteUsecase {
	return &routeService{
		addresses: addresses,
		foreign:   foreign,
		planner:   planner,
		defaults:  cfg.Route,
		logger:    logger,
	}
}

func (s *routeService) ResolveEndpoint(ctx context.Context, query string) (*entity.Coordinate, error) {
	doc, err := s.addresses.FirstAccess(ctx, query)
	if err != nil {
		s.logger.Warn("domestic endpoint lookup failed",
			slog.String("query", query),
			slog.Any("error", err),
		)
	}
	if doc != nil {
		lon, lat, ok := coordinatePair(nestedMap(doc, "adgangspunkt")["koordinater"])
		if !ok {
			lon, lat, ok = coordinatePair(doc["koordinater"])
		}
		if ok {
			return &entity.Coordinate{Lat: lat, Lon: lon}, nil
		}
	}

	coordinate, err := s.foreign.First(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode endpoint %q: %w", query, err)
	}
	if coordinate == nil {
		return nil, ErrEndpointNotFound
	}

	return coordinate, nil
}

func (s *routeService) Plan(ctx context.Context, input usecase.RouteInput) (*entity.RoutePlan, error) {
	from, err := s.endpoint(ctx, input.From, input.FromPoint)
	if err != nil {
		return nil, err
	}
	to, err := s.endpoint(ctx, input.To, input.ToPoint)
	if err != nil {
		return nil, err
	}

	waypoints := []entity.Coordinate{*from}
	if input.Via != "" || input.ViaPoint != nil {
		via, err := s.endpoint(ctx, input.Via, input.ViaPoint)
		if err != nil {
			return nil, err
		}
		waypoints = append(waypoints, *via)
	}
	waypoints = append(waypoints, *to)

	profile := input.Profile
	if profile == "" {
		profile = s.defaults.DefaultProfile
	}
	preference := input.Preference
	if preference == "" {
		preference = s.defaults.DefaultPreference
	}

	plan, err := s.planner.Plan(ctx, waypoints, profile, preference)
	if err != nil {
		return nil, fmt.Errorf("failed to plan route: %w", err)
	}

	return plan, nil
}

// endpoint picks the pre-resolved point when present and falls back to text
// resolution.
func (s *routeService) endpoint(ctx context.Context, query string, point *entity.Coordinate) (*entity.Coordinate, error) {
	if point != nil {
		return point, nil
	}
	if query == "" {
		return nil, ErrMissingEndpoint
	}

	return s.ResolveEndpoint(ctx, query)
}
