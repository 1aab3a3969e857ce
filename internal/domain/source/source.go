// Package source declares the contracts for the heterogeneous geodata
// sources the search pipeline fans out across. Implementations live in
// internal/infra; every Search-shaped method degrades to an empty slice on
// transport or parsing failure so one source can never abort the others.
package source

import (
	"context"
	"errors"

	"kompas/internal/domain/entity"
)

// ErrForeignDisabled is returned when a call requires the foreign geocoding
// service but no credential is configured.
var ErrForeignDisabled = errors.New("foreign geocoder disabled: no api key")

// AddressSource is the domestic unit-level address lookup. Autocomplete
// candidates are deferred-coordinate: resolving one requires a detail fetch
// keyed by its address identifier.
type AddressSource interface {
	// Search returns unit-level address candidates for at least two
	// characters of free text.
	Search(ctx context.Context, query string) ([]entity.Candidate, error)

	// LookupUnit fetches the full address document for a unit-level
	// identifier. The access-point coordinate is extracted from it.
	LookupUnit(ctx context.Context, addressID string) (map[string]any, error)

	// LookupAccess fetches the access-address document for a base address
	// identifier, used by route endpoint resolution.
	LookupAccess(ctx context.Context, accessID string) (map[string]any, error)

	// Reverse finds the nearest access address for a geographic point,
	// returned in the flat response structure.
	Reverse(ctx context.Context, lat, lon float64) (map[string]any, error)

	// FirstAccess returns the access-address document for the single best
	// autocomplete match, used by route endpoint resolution. A nil document
	// without error means no match.
	FirstAccess(ctx context.Context, query string) (map[string]any, error)
}

// PlaceNameSource searches the national place-name register.
type PlaceNameSource interface {
	Search(ctx context.Context, query string) ([]entity.Candidate, error)
}

// NamedRoadSource searches named roads with per-token wildcard matching.
type NamedRoadSource interface {
	Search(ctx context.Context, query string) ([]entity.Candidate, error)
}

// PointFeatureSource searches the locally cached point-feature dataset
// (rescue posts). The first search fills the cache; later searches refresh
// it when stale.
type PointFeatureSource interface {
	Search(ctx context.Context, query string) ([]entity.Candidate, error)
}

// ForeignGeocoder is the rate-limited external geocoding service supplying
// non-domestic candidates. Implementations return no candidates without a
// configured credential and filter out home-country results.
type ForeignGeocoder interface {
	Search(ctx context.Context, query string) ([]entity.Candidate, error)

	// Reverse geocodes a point outside the home country. A nil candidate
	// without error means no result.
	Reverse(ctx context.Context, lat, lon float64) (*entity.Candidate, error)

	// First returns the coordinate of the single best match for free text,
	// used as the route-endpoint fallback.
	First(ctx context.Context, query string) (*entity.Coordinate, error)

	// Quota returns the last observed rate-limit side channel, false before
	// any call has reported one.
	Quota() (entity.RateLimitStatus, bool)
}

// RoadAuthoritySource queries the feature-info service for national-road
// data at a point. Full records arrive decorated with the km/m chainage
// marker from the reference service; that nested fetch degrades to an empty
// field.
type RoadAuthoritySource interface {
	InfoAt(ctx context.Context, lat, lon float64) (*entity.RoadAuthorityInfo, error)
}

// BuildingRegistry queries the building-registry proxy, preferring the
// property-number path and falling back to the house-number path. Records
// come back decoded, with coded attributes expanded to display labels.
type BuildingRegistry interface {
	Buildings(ctx context.Context, propertyNumber, houseNumberID string) ([]entity.Building, error)
}

// ParcelRegistry batch-queries parcel records by property numbers.
type ParcelRegistry interface {
	Parcels(ctx context.Context, propertyNumbers []string) ([]entity.Parcel, error)
}

// MunicipalitySource resolves a jurisdiction code to its canonical name.
type MunicipalitySource interface {
	Name(ctx context.Context, code string) (string, error)
}

// RoutePlanner computes a route through ordered waypoints.
type RoutePlanner interface {
	Plan(ctx context.Context, waypoints []entity.Coordinate, profile, preference string) (*entity.RoutePlan, error)
}
