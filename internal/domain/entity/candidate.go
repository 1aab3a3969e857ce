package entity

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CandidateKind identifies which source produced a search candidate. The set
// is closed; the resolver switches exhaustively over it.
type CandidateKind string

const (
	KindAddress        CandidateKind = "address"
	KindPlaceName      CandidateKind = "place_name"
	KindNamedRoad      CandidateKind = "named_road"
	KindPointFeature   CandidateKind = "point_feature"
	KindCustomPlace    CandidateKind = "custom_place"
	KindForeignAddress CandidateKind = "foreign_address"
)

// Named reports whether the kind belongs to the "named" ranking group, which
// always sorts ahead of the "addressed" group (address, point_feature).
func (k CandidateKind) Named() bool {
	switch k {
	case KindPlaceName, KindNamedRoad, KindCustomPlace, KindForeignAddress:
		return true
	default:
		return false
	}
}

// Coordinate is a geographic WGS84 position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the pair lies inside the geographic value ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Candidate is the common result shape every source adapter produces and the
// aggregator merges. Its coordinate source is exactly one of: an embedded
// point, a deferred address identifier (resolved by a detail fetch), or a
// geometry/bounding box from which a representative point is derived.
type Candidate struct {
	Kind        CandidateKind `json:"kind"`
	DisplayText string        `json:"display_text"`
	// SortText is the text matched against the query for ranking. It may
	// differ from DisplayText, e.g. a point feature's bare post number.
	SortText string `json:"sort_text"`

	Point *Coordinate `json:"point,omitempty"`

	// AddressID defers coordinate resolution to a detail fetch keyed by the
	// unit-level address identifier. AccessID is the base (access point)
	// address the unit belongs to.
	AddressID string `json:"address_id,omitempty"`
	AccessID  string `json:"access_id,omitempty"`

	// Bounds and Geometry carry place-name geometries; BoundingBox is the
	// flat [minLon, minLat, maxLon, maxLat] box of a named road and
	// VisualCenter its preferred representative point.
	Bounds       *geojson.Geometry `json:"bounds,omitempty"`
	Geometry     *geojson.Geometry `json:"geometry,omitempty"`
	BoundingBox  []float64         `json:"bbox,omitempty"`
	VisualCenter *Coordinate       `json:"visual_center,omitempty"`

	// Payload is the raw adapter response, carried through opaquely for
	// registry enrichment.
	Payload map[string]any `json:"payload,omitempty"`
}

// HasCoordinateSource reports whether the candidate carries any way to reach
// a coordinate. Every adapter must uphold this together with a non-empty
// DisplayText.
func (c Candidate) HasCoordinateSource() bool {
	return c.Point != nil ||
		c.AddressID != "" ||
		c.Bounds != nil ||
		c.Geometry != nil ||
		len(c.BoundingBox) == 4 ||
		c.VisualCenter != nil
}

// RepresentativePoint derives a display point from the candidate's geometry
// fields: first coordinate of the bounding geometry ring, else the
// geometry's first coordinate, else the visual center, else the bounding-box
// centroid.
func (c Candidate) RepresentativePoint() (Coordinate, bool) {
	if c.Point != nil {
		return *c.Point, true
	}
	if c.Bounds != nil {
		if p, ok := FirstGeometryPoint(c.Bounds.Geometry()); ok {
			return Coordinate{Lat: p.Lat(), Lon: p.Lon()}, true
		}
	}
	if c.Geometry != nil {
		if p, ok := FirstGeometryPoint(c.Geometry.Geometry()); ok {
			return Coordinate{Lat: p.Lat(), Lon: p.Lon()}, true
		}
	}
	if c.VisualCenter != nil {
		return *c.VisualCenter, true
	}
	if len(c.BoundingBox) == 4 {
		return Coordinate{
			Lon: (c.BoundingBox[0] + c.BoundingBox[2]) / 2,
			Lat: (c.BoundingBox[1] + c.BoundingBox[3]) / 2,
		}, true
	}
	return Coordinate{}, false
}

// FirstGeometryPoint returns the leading coordinate of a geometry: a point
// itself, the first vertex of a line, or the first vertex of the outer ring
// of a polygon.
func FirstGeometryPoint(g orb.Geometry) (orb.Point, bool) {
	switch geom := g.(type) {
	case orb.Point:
		return geom, true
	case orb.MultiPoint:
		if len(geom) > 0 {
			return geom[0], true
		}
	case orb.LineString:
		if len(geom) > 0 {
			return geom[0], true
		}
	case orb.MultiLineString:
		if len(geom) > 0 && len(geom[0]) > 0 {
			return geom[0][0], true
		}
	case orb.Polygon:
		if len(geom) > 0 && len(geom[0]) > 0 {
			return geom[0][0], true
		}
	case orb.MultiPolygon:
		if len(geom) > 0 && len(geom[0]) > 0 && len(geom[0][0]) > 0 {
			return geom[0][0][0], true
		}
	}
	return orb.Point{}, false
}
