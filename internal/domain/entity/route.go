package entity

// RoutePlan is one computed route. It is replaced wholesale on every
// (re)plan and cleared on an explicit clear action.
type RoutePlan struct {
	// Waypoints are the resolved endpoints in travel order: from, optional
	// via, to.
	Waypoints []Coordinate `json:"waypoints"`

	// Geometry is the path polyline as produced by the routing service,
	// consumed opaquely.
	Geometry []Coordinate `json:"geometry"`

	DistanceM float64 `json:"distance_m"`
	DurationS float64 `json:"duration_s"`

	Profile    string `json:"profile"`
	Preference string `json:"preference"`
}
