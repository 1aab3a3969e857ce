package vejdirektoratet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"kompas/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_InfoAtJSONResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wms", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "GetFeatureInfo", query.Get("REQUEST"))
		assert.Equal(t, "CVF:veje", query.Get("QUERY_LAYERS"))
		assert.Equal(t, "EPSG:25832", query.Get("SRS"))
		assert.Equal(t, "101", query.Get("WIDTH"))
		assert.Equal(t, "50", query.Get("X"))

		json.NewEncoder(w).Encode(map[string]any{
			"features": []map[string]any{
				{"properties": map[string]any{
					"ADM_NR":       float64(16),
					"FORGRENING":   float64(0),
					"BETEGNELSE":   "Hillerødmotorvejen",
					"VEJTYPE":      "Motorvej",
					"VEJMYNDIGHED": "Vejdirektoratet",
				}},
			},
		})
	})
	var referenceCalls atomic.Int32
	mux.HandleFunc("/reference", func(w http.ResponseWriter, r *http.Request) {
		referenceCalls.Add(1)
		assert.Equal(t, "16", r.URL.Query().Get("roadNumber"))
		assert.Equal(t, "0", r.URL.Query().Get("roadPart"))
		json.NewEncoder(w).Encode(map[string]any{
			"properties": map[string]any{
				"from": map[string]any{"kmtText": "12/0340"},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	src := New(&config.RoadAuthorityConfig{
		FeatureInfoURL: server.URL + "/wms",
		ReferenceURL:   server.URL + "/reference",
	})

	info, err := src.InfoAt(context.Background(), 55.93, 12.30)
	require.NoError(t, err)

	assert.Equal(t, "16", info.AdminNumber)
	assert.Equal(t, "Hillerødmotorvejen", info.RoadName)
	assert.Equal(t, "12/0340", info.Chainage)
	assert.True(t, info.Full())

	// One lookup hits the reference service exactly once.
	assert.Equal(t, int32(1), referenceCalls.Load())
}

func TestClient_InfoAtTextResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Results:\nVEJSTATUS = Kommunevej\nvejmyndighed = Hillerød Kommune\n")
	}))
	defer server.Close()

	src := New(&config.RoadAuthorityConfig{FeatureInfoURL: server.URL})

	info, err := src.InfoAt(context.Background(), 55.93, 12.30)
	require.NoError(t, err)

	assert.Equal(t, "Kommunevej", info.Status)
	assert.Equal(t, "Hillerød Kommune", info.Authority)
	assert.False(t, info.Full())
	assert.True(t, info.Partial())
}

func TestClient_InfoAtNoFeatures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"features": []any{}})
	}))
	defer server.Close()

	src := New(&config.RoadAuthorityConfig{FeatureInfoURL: server.URL})

	info, err := src.InfoAt(context.Background(), 55.93, 12.30)
	require.NoError(t, err)
	assert.True(t, info.Empty())
}

func TestChainageText(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
		want string
	}{
		{
			name: "kmtText in from block",
			doc: map[string]any{
				"properties": map[string]any{"from": map[string]any{"kmtText": "3/0120"}},
			},
			want: "3/0120",
		},
		{
			name: "kmtText on nested feature",
			doc: map[string]any{
				"features": []any{
					map[string]any{"properties": map[string]any{"kmtekst": "7/0000"}},
				},
			},
			want: "7/0000",
		},
		{
			name: "km and m composed with padding",
			doc: map[string]any{
				"properties": map[string]any{
					"from": map[string]any{"km": float64(12), "m": float64(45)},
				},
			},
			want: "12/0045",
		},
		{
			name: "nothing usable",
			doc:  map[string]any{"properties": map[string]any{}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chainageText(tt.doc))
		})
	}
}

func TestParseTextResults(t *testing.T) {
	properties := parseTextResults("Results:\nADM_NR = 16\nBETEGNELSE = Hillerødmotorvejen\nnot a pair\n")
	assert.Equal(t, "16", properties["ADM_NR"])
	assert.Equal(t, "Hillerødmotorvejen", properties["BETEGNELSE"])
	assert.Len(t, properties, 2)
}
