package dataforsyningen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kompas/config"
	"kompas/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) *config.DataforsyningenConfig {
	return &config.DataforsyningenConfig{
		BaseURL:         baseURL,
		GSearchURL:      baseURL,
		Token:           "test-token",
		AddressPageSize: 20,
		PlaceNameLimit:  100,
		RoadPageSize:    20,
	}
}

func TestAddressSource_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/adresser/autocomplete", r.URL.Path)
		assert.Equal(t, "vimmelskaftet", r.URL.Query().Get("q"))
		assert.Equal(t, "20", r.URL.Query().Get("per_side"))

		json.NewEncoder(w).Encode([]map[string]any{
			{
				"tekst": "Vimmelskaftet 32, 1161 København K",
				"adresse": map[string]any{
					"id":               "0a3f50a0-1",
					"adgangsadresseid": "0a3f50a0-2",
				},
			},
			{
				// No unit id; skipped.
				"tekst":   "Vimmelskaftet 34, 1161 København K",
				"adresse": map[string]any{},
			},
		})
	}))
	defer server.Close()

	src := NewAddressSource(testConfig(server.URL))
	candidates, err := src.Search(context.Background(), "vimmelskaftet")
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, entity.KindAddress, candidates[0].Kind)
	assert.Equal(t, "Vimmelskaftet 32, 1161 København K", candidates[0].DisplayText)
	assert.Equal(t, "0a3f50a0-1", candidates[0].AddressID)
	assert.Equal(t, "0a3f50a0-2", candidates[0].AccessID)
	assert.Nil(t, candidates[0].Point)
}

func TestAddressSource_Reverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/adgangsadresser/reverse", r.URL.Path)
		assert.Equal(t, "flad", r.URL.Query().Get("struktur"))
		assert.Equal(t, "12.570000", r.URL.Query().Get("x"))
		assert.Equal(t, "55.680000", r.URL.Query().Get("y"))

		json.NewEncoder(w).Encode(map[string]any{
			"betegnelse":  "Rådhuspladsen 1, 1550 København V",
			"kommunekode": "0101",
		})
	}))
	defer server.Close()

	src := NewAddressSource(testConfig(server.URL))
	doc, err := src.Reverse(context.Background(), 55.68, 12.57)
	require.NoError(t, err)
	assert.Equal(t, "Rådhuspladsen 1, 1550 København V", doc["betegnelse"])
}

func TestAddressSource_FirstAccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/adgangsadresser/autocomplete":
			assert.Equal(t, "1", r.URL.Query().Get("per_side"))
			json.NewEncoder(w).Encode([]map[string]any{
				{"adgangsadresse": map[string]any{"id": "access-1"}},
			})
		case "/adgangsadresser/access-1":
			json.NewEncoder(w).Encode(map[string]any{"id": "access-1", "vejnavn": "Testvej"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	src := NewAddressSource(testConfig(server.URL))
	doc, err := src.FirstAccess(context.Background(), "testvej 1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Testvej", doc["vejnavn"])
}

func TestAddressSource_FirstAccessNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	}))
	defer server.Close()

	src := NewAddressSource(testConfig(server.URL))
	doc, err := src.FirstAccess(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestPlaceNameSource_SearchWrappedResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stednavn", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{
					"visningstekst": "Himmelbjerget (bakke)",
					"bbox": map[string]any{
						"type": "Polygon",
						"coordinates": [][][]float64{
							{{9.68, 56.11}, {9.69, 56.11}, {9.69, 56.12}, {9.68, 56.12}, {9.68, 56.11}},
						},
					},
				},
				{
					// No display text; skipped.
					"bbox": map[string]any{"type": "Point", "coordinates": []float64{9.0, 56.0}},
				},
			},
		})
	}))
	defer server.Close()

	src := NewPlaceNameSource(testConfig(server.URL))
	candidates, err := src.Search(context.Background(), "himmelbjerget")
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, entity.KindPlaceName, candidates[0].Kind)
	assert.Equal(t, "Himmelbjerget (bakke)", candidates[0].DisplayText)

	point, ok := candidates[0].RepresentativePoint()
	require.True(t, ok)
	assert.InDelta(t, 56.11, point.Lat, 1e-9)
	assert.InDelta(t, 9.68, point.Lon, 1e-9)
}

func TestPlaceNameSource_SearchBareList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"navn":     "Mols Bjerge",
				"geometri": map[string]any{"type": "Point", "coordinates": []float64{10.55, 56.22}},
			},
		})
	}))
	defer server.Close()

	src := NewPlaceNameSource(testConfig(server.URL))
	candidates, err := src.Search(context.Background(), "mols")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Mols Bjerge", candidates[0].DisplayText)

	point, ok := candidates[0].RepresentativePoint()
	require.True(t, ok)
	assert.InDelta(t, 56.22, point.Lat, 1e-9)
}

func TestNamedRoadSource_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/navngivneveje", r.URL.Path)
		assert.Equal(t, "gammel* kongevej*", r.URL.Query().Get("q"))

		json.NewEncoder(w).Encode([]map[string]any{
			{
				"id":            "road-1",
				"navn":          "Gammel Kongevej",
				"visueltcenter": []float64{12.54, 55.67},
			},
			{
				"id":   "road-2",
				"navn": "Gammel Kongevejs Tværvej",
				"bbox": []float64{12.50, 55.66, 12.52, 55.68},
			},
		})
	}))
	defer server.Close()

	src := NewNamedRoadSource(testConfig(server.URL))
	candidates, err := src.Search(context.Background(), "gammel kongevej")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	point, ok := candidates[0].RepresentativePoint()
	require.True(t, ok)
	assert.InDelta(t, 55.67, point.Lat, 1e-9)

	// Bounding-box centroid fallback.
	point, ok = candidates[1].RepresentativePoint()
	require.True(t, ok)
	assert.InDelta(t, 55.67, point.Lat, 1e-9)
	assert.InDelta(t, 12.51, point.Lon, 1e-9)
}

func TestWildcardQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "gammel kongevej", want: "gammel* kongevej*"},
		{in: "  spaced   out ", want: "spaced* out*"},
		{in: "already*", want: "already*"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, wildcardQuery(tt.in))
	}
}

func TestMunicipalitySource_Name(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kommuner/0101", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"navn": "København"})
	}))
	defer server.Close()

	src := NewMunicipalitySource(testConfig(server.URL))
	name, err := src.Name(context.Background(), "0101")
	require.NoError(t, err)
	assert.Equal(t, "København", name)
}

func TestGetJSON_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	defer server.Close()

	var out map[string]any
	err := getJSON(context.Background(), server.Client(), server.URL, &out)
	assert.ErrorContains(t, err, "418")
}
