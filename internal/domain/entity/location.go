package entity

// RegistryKey names an identifier kind collected during resolution and used
// by the registry enrichment sub-lookups. Not every key is present for every
// location.
type RegistryKey string

const (
	// KeyAddressID is the unit-level address identifier.
	KeyAddressID RegistryKey = "address_id"
	// KeyHouseNumberID is the building-registry lookup key (DAR husnummer /
	// access address id).
	KeyHouseNumberID RegistryKey = "house_number_id"
	// KeyMunicipalityCode is the jurisdiction code.
	KeyMunicipalityCode RegistryKey = "municipality_code"
	// KeyRoadCode is the municipal road code.
	KeyRoadCode RegistryKey = "road_code"
	// KeyPropertyNumber is the cross-dataset property identifier (BFE).
	KeyPropertyNumber RegistryKey = "property_number"
)

// RegistryKeys maps identifier kinds to their values.
type RegistryKeys map[RegistryKey]string

// ResolvedLocation is the outcome of resolving a selected candidate or a
// clicked coordinate. It lives until the next selection replaces it and is
// never persisted.
type ResolvedLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// DisplayLabel is the final info-display string. For unit-level
	// addresses it includes floor/door detail beyond the base address.
	DisplayLabel string `json:"display_label"`

	RegistryKeys RegistryKeys `json:"registry_keys,omitempty"`

	// Foreign marks a non-domestic location; registry enrichment is skipped
	// for these.
	Foreign bool `json:"foreign"`

	// Payload keeps the raw address document for identifier discovery during
	// enrichment.
	Payload map[string]any `json:"payload,omitempty"`
}

// Coordinate returns the location's position.
func (l ResolvedLocation) Coordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lon: l.Lon}
}
