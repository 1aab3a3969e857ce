package impl

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kompas/internal/domain/entity"
	"kompas/internal/domain/geodetic"
)

func unitAddressDocument() map[string]any {
	return map[string]any{
		"id": "unit-1",
		"adgangsadresse": map[string]any{
			"id":          "access-1",
			"kommunekode": "0461",
			"vejkode":     "1234",
			"adgangspunkt": map[string]any{
				"koordinater": []any{10.38, 55.39},
			},
		},
		"bfenummer": 1234567.0,
	}
}

func TestResolveService_Address(t *testing.T) {
	addresses := &fakeAddressSource{unitDoc: unitAddressDocument()}
	service := NewResolveService(addresses, &fakeForeignGeocoder{}, testLogger())

	location, err := service.Resolve(context.Background(), entity.Candidate{
		Kind:        entity.KindAddress,
		DisplayText: "Bygade 4, 2. th, 5000 Odense C",
		AddressID:   "unit-1",
	})
	require.NoError(t, err)
	assert.InDelta(t, 55.39, location.Lat, 1e-9)
	assert.InDelta(t, 10.38, location.Lon, 1e-9)
	assert.Equal(t, "Bygade 4, 2. th, 5000 Odense C", location.DisplayLabel)
	assert.False(t, location.Foreign)

	assert.Equal(t, "unit-1", location.RegistryKeys[entity.KeyAddressID])
	assert.Equal(t, "access-1", location.RegistryKeys[entity.KeyHouseNumberID])
	assert.Equal(t, "0461", location.RegistryKeys[entity.KeyMunicipalityCode])
	assert.Equal(t, "1234", location.RegistryKeys[entity.KeyRoadCode])
	assert.Equal(t, "1234567", location.RegistryKeys[entity.KeyPropertyNumber])
}

func TestResolveService_Address_CoordinateFallback(t *testing.T) {
	addresses := &fakeAddressSource{unitDoc: map[string]any{
		"id": "unit-2",
		"adgangsadresse": map[string]any{
			"id":          "access-2",
			"koordinater": []any{12.08, 55.64},
		},
	}}
	service := NewResolveService(addresses, &fakeForeignGeocoder{}, testLogger())

	location, err := service.Resolve(context.Background(), entity.Candidate{
		Kind:      entity.KindAddress,
		AddressID: "unit-2",
	})
	require.NoError(t, err)
	assert.InDelta(t, 55.64, location.Lat, 1e-9)
	assert.InDelta(t, 12.08, location.Lon, 1e-9)
}

func TestResolveService_Address_NoCoordinates(t *testing.T) {
	addresses := &fakeAddressSource{unitDoc: map[string]any{"id": "unit-3"}}
	service := NewResolveService(addresses, &fakeForeignGeocoder{}, testLogger())

	_, err := service.Resolve(context.Background(), entity.Candidate{
		Kind:      entity.KindAddress,
		AddressID: "unit-3",
	})
	assert.ErrorIs(t, err, ErrAddressWithoutCoordinates)
}

func TestResolveService_Geometry_GeographicAxisOrder(t *testing.T) {
	addresses := &fakeAddressSource{reverseDoc: map[string]any{
		"betegnelse":  "Strandvejen 2, 2900 Hellerup",
		"kommunekode": "0157",
	}}
	service := NewResolveService(addresses, &fakeForeignGeocoder{}, testLogger())

	geometry := geojson.NewGeometry(orb.Point{12.57, 55.73})
	location, err := service.Resolve(context.Background(), entity.Candidate{
		Kind:        entity.KindPlaceName,
		DisplayText: "Hellerup",
		Geometry:    geometry,
	})
	require.NoError(t, err)
	assert.InDelta(t, 55.73, location.Lat, 1e-9)
	assert.InDelta(t, 12.57, location.Lon, 1e-9)
	assert.Equal(t, "Hellerup", location.DisplayLabel)
	assert.Equal(t, "0157", location.RegistryKeys[entity.KeyMunicipalityCode])
}

func TestResolveService_Geometry_ProjectedConverted(t *testing.T) {
	addresses := &fakeAddressSource{reverseDoc: map[string]any{}}
	service := NewResolveService(addresses, &fakeForeignGeocoder{}, testLogger())

	// Place-name geometries can arrive in projected metric coordinates.
	geometry := geojson.NewGeometry(orb.Point{687000, 6180000})
	location, err := service.Resolve(context.Background(), entity.Candidate{
		Kind:        entity.KindPlaceName,
		DisplayText: "Projected place",
		Geometry:    geometry,
	})
	require.NoError(t, err)
	assert.True(t, geodetic.InDenmark(location.Lat, location.Lon))
	assert.Equal(t, location.Lat, addresses.reverseLat)
	assert.Equal(t, location.Lon, addresses.reverseLon)
}

func TestResolveService_Geometry_ReverseFailureKeepsPoint(t *testing.T) {
	addresses := &fakeAddressSource{reverseErr: assert.AnError}
	service := NewResolveService(addresses, &fakeForeignGeocoder{}, testLogger())

	location, err := service.Resolve(context.Background(), entity.Candidate{
		Kind:        entity.KindCustomPlace,
		DisplayText: "Depotet",
		Point:       &entity.Coordinate{Lat: 55.4, Lon: 10.4},
	})
	require.NoError(t, err)
	assert.InDelta(t, 55.4, location.Lat, 1e-9)
	assert.Empty(t, location.RegistryKeys)
}

func TestResolveService_NamedRoad_BoundingBoxCentroid(t *testing.T) {
	addresses := &fakeAddressSource{reverseDoc: map[string]any{}}
	service := NewResolveService(addresses, &fakeForeignGeocoder{}, testLogger())

	location, err := service.Resolve(context.Background(), entity.Candidate{
		Kind:        entity.KindNamedRoad,
		DisplayText: "Langgade",
		BoundingBox: []float64{10.0, 55.0, 10.2, 55.2},
	})
	require.NoError(t, err)
	assert.InDelta(t, 55.1, location.Lat, 1e-9)
	assert.InDelta(t, 10.1, location.Lon, 1e-9)
}

func TestResolveService_Foreign(t *testing.T) {
	service := NewResolveService(&fakeAddressSource{}, &fakeForeignGeocoder{}, testLogger())

	location, err := service.Resolve(context.Background(), entity.Candidate{
		Kind:        entity.KindForeignAddress,
		DisplayText: "Hamburg, Germany",
		Point:       &entity.Coordinate{Lat: 53.55, Lon: 9.99},
	})
	require.NoError(t, err)
	assert.True(t, location.Foreign)
	assert.InDelta(t, 53.55, location.Lat, 1e-9)
	assert.Equal(t, "Hamburg, Germany", location.DisplayLabel)
}

func TestResolveService_NoCoordinateSource(t *testing.T) {
	service := NewResolveService(&fakeAddressSource{}, &fakeForeignGeocoder{}, testLogger())

	_, err := service.Resolve(context.Background(), entity.Candidate{
		Kind:        entity.KindCustomPlace,
		DisplayText: "Nowhere",
	})
	assert.ErrorIs(t, err, ErrNoCoordinateSource)
}

func TestResolveService_ReverseAt_Domestic(t *testing.T) {
	addresses := &fakeAddressSource{reverseDoc: map[string]any{
		"vejnavn":     "Algade",
		"husnr":       "7",
		"postnr":      "4000",
		"postnrnavn":  "Roskilde",
		"kommunekode": "0265",
	}}
	service := NewResolveService(addresses, &fakeForeignGeocoder{}, testLogger())

	location, err := service.ReverseAt(context.Background(), 55.64, 12.08)
	require.NoError(t, err)
	assert.Equal(t, "Algade 7, 4000 Roskilde", location.DisplayLabel)
	assert.Equal(t, "0265", location.RegistryKeys[entity.KeyMunicipalityCode])
	assert.False(t, location.Foreign)
}

func TestResolveService_ReverseAt_ProjectedInput(t *testing.T) {
	addresses := &fakeAddressSource{reverseDoc: map[string]any{
		"betegnelse": "Et sted i Danmark",
	}}
	service := NewResolveService(addresses, &fakeForeignGeocoder{}, testLogger())

	location, err := service.ReverseAt(context.Background(), 687000, 6180000)
	require.NoError(t, err)
	assert.True(t, geodetic.InDenmark(location.Lat, location.Lon))
	assert.Equal(t, "Et sted i Danmark", location.DisplayLabel)
}

func TestResolveService_ReverseAt_Foreign(t *testing.T) {
	foreign := &fakeForeignGeocoder{reverseCandidate: &entity.Candidate{
		Kind:        entity.KindForeignAddress,
		DisplayText: "Rue de Rivoli, Paris, France",
		Point:       &entity.Coordinate{Lat: 48.856, Lon: 2.352},
	}}
	service := NewResolveService(&fakeAddressSource{}, foreign, testLogger())

	location, err := service.ReverseAt(context.Background(), 48.86, 2.35)
	require.NoError(t, err)
	assert.True(t, location.Foreign)
	assert.Equal(t, "Rue de Rivoli, Paris, France", location.DisplayLabel)
	assert.InDelta(t, 48.856, location.Lat, 1e-9)
}

func TestResolveService_ReverseAt_ForeignNoMatch(t *testing.T) {
	service := NewResolveService(&fakeAddressSource{}, &fakeForeignGeocoder{}, testLogger())

	location, err := service.ReverseAt(context.Background(), 48.86, 2.35)
	require.NoError(t, err)
	assert.True(t, location.Foreign)
	assert.Equal(t, "48.86000, 2.35000", location.DisplayLabel)
}
