// Package ors implements the foreign geocoding and route planning sources on
// top of the OpenRouteService API. All outgoing calls share a pacing limiter
// and record the rate-limit headers the service returns.
package ors

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/source"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// ErrDisabled is returned when a call requires the foreign service but no API
// key is configured. Reverse degrades to a no-match instead.
var ErrDisabled = source.ErrForeignDisabled

const defaultTimeout = 10 * time.Second

type geocoder struct {
	baseURL    string
	apiKey     string
	searchSize int
	home       map[string]struct{}
	client     *http.Client
	limiter    *rate.Limiter
	quota      *QuotaTracker
}

// NewGeocoder creates the foreign geocoder. Without an API key it is a
// permanent no-op.
func NewGeocoder(cfg *config.ORSConfig, quota *QuotaTracker) source.ForeignGeocoder {
	home := make(map[string]struct{}, len(cfg.HomeCountry))
	for _, name := range cfg.HomeCountry {
		home[strings.ToLower(name)] = struct{}{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &geocoder{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		searchSize: cfg.SearchSize,
		home:       home,
		client:     &http.Client{Timeout: timeout},
		limiter:    newLimiter(cfg.RequestsPerMinute),
		quota:      quota,
	}
}

func newLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 40
	}

	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}

func (g *geocoder) Search(ctx context.Context, query string) ([]entity.Candidate, error) {
	if g.apiKey == "" {
		return nil, ErrDisabled
	}

	features, err := g.geocode(ctx, query, g.searchSize)
	if err != nil {
		return nil, err
	}

	candidates := make([]entity.Candidate, 0, len(features))
	for _, feature := range features {
		if g.isHomeCountry(feature) {
			continue
		}
		if candidate, ok := featureCandidate(feature); ok {
			candidates = append(candidates, candidate)
		}
	}

	return candidates, nil
}

func (g *geocoder) Reverse(ctx context.Context, lat, lon float64) (*entity.Candidate, error) {
	if g.apiKey == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("api_key", g.apiKey)
	params.Set("point.lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("point.lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("size", "1")

	features, err := g.fetchFeatures(ctx, g.baseURL+"/geocode/reverse?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, nil
	}

	candidate, ok := featureCandidate(features[0])
	if !ok {
		return nil, nil
	}

	return &candidate, nil
}

func (g *geocoder) First(ctx context.Context, query string) (*entity.Coordinate, error) {
	if g.apiKey == "" {
		return nil, ErrDisabled
	}

	features, err := g.geocode(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, nil
	}

	point, ok := features[0].Geometry.(orb.Point)
	if !ok {
		return nil, nil
	}

	return &entity.Coordinate{Lat: point.Lat(), Lon: point.Lon()}, nil
}

func (g *geocoder) Quota() (entity.RateLimitStatus, bool) {
	return g.quota.Status()
}

func (g *geocoder) geocode(ctx context.Context, query string, size int) ([]*geojson.Feature, error) {
	params := url.Values{}
	params.Set("api_key", g.apiKey)
	params.Set("text", query)
	params.Set("size", strconv.Itoa(size))

	return g.fetchFeatures(ctx, g.baseURL+"/geocode/search?"+params.Encode())
}

func (g *geocoder) fetchFeatures(ctx context.Context, rawURL string) ([]*geojson.Feature, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "geocode request failed")
	}
	defer resp.Body.Close()

	g.quota.Record(resp.Header)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("geocode request failed with status %d", resp.StatusCode)
	}

	var collection geojson.FeatureCollection
	if err := readJSON(resp, &collection); err != nil {
		return nil, err
	}

	return collection.Features, nil
}

func (g *geocoder) isHomeCountry(feature *geojson.Feature) bool {
	for _, key := range []string{"country", "country_a"} {
		if name, ok := feature.Properties[key].(string); ok {
			if _, home := g.home[strings.ToLower(name)]; home {
				return true
			}
		}
	}

	return false
}

func featureCandidate(feature *geojson.Feature) (entity.Candidate, bool) {
	point, ok := feature.Geometry.(orb.Point)
	if !ok {
		return entity.Candidate{}, false
	}

	label, _ := feature.Properties["label"].(string)
	if label == "" {
		if name, ok := feature.Properties["name"].(string); ok {
			label = name
		}
	}
	if label == "" {
		return entity.Candidate{}, false
	}

	return entity.Candidate{
		Kind:        entity.KindForeignAddress,
		DisplayText: label,
		SortText:    label,
		Point:       &entity.Coordinate{Lat: point.Lat(), Lon: point.Lon()},
		Payload:     feature.Properties,
	}, true
}

