package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/source"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

type routePlanner struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	quota   *QuotaTracker
}

// NewRoutePlanner creates the route planner backed by the ORS directions
// service. Directions calls draw on the same daily quota as geocoding, so
// the planner records into the shared tracker.
func NewRoutePlanner(cfg *config.ORSConfig, quota *QuotaTracker) source.RoutePlanner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &routePlanner{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		limiter: newLimiter(cfg.RequestsPerMinute),
		quota:   quota,
	}
}

func (p *routePlanner) Plan(ctx context.Context, waypoints []entity.Coordinate, profile, preference string) (*entity.RoutePlan, error) {
	if p.apiKey == "" {
		return nil, ErrDisabled
	}
	if len(waypoints) < 2 {
		return nil, errors.New("route requires at least two waypoints")
	}

	coordinates := make([][2]float64, 0, len(waypoints))
	for _, waypoint := range waypoints {
		coordinates = append(coordinates, [2]float64{waypoint.Lon, waypoint.Lat})
	}

	body, err := json.Marshal(map[string]any{
		"coordinates": coordinates,
		"preference":  preference,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode directions request")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v2/directions/"+profile+"/geojson", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "directions request failed")
	}
	defer resp.Body.Close()

	p.quota.Record(resp.Header)

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, errors.Errorf("directions request failed with status %d: %s", resp.StatusCode, string(detail))
	}

	var collection geojson.FeatureCollection
	if err := readJSON(resp, &collection); err != nil {
		return nil, err
	}
	if len(collection.Features) == 0 {
		return nil, errors.New("directions response without route")
	}

	route := collection.Features[0]
	plan := &entity.RoutePlan{
		Waypoints:  waypoints,
		Profile:    profile,
		Preference: preference,
	}

	if line, ok := route.Geometry.(orb.LineString); ok {
		plan.Geometry = make([]entity.Coordinate, 0, len(line))
		for _, point := range line {
			plan.Geometry = append(plan.Geometry, entity.Coordinate{Lat: point.Lat(), Lon: point.Lon()})
		}
	}

	plan.DistanceM, plan.DurationS = routeTotals(route.Properties)

	return plan, nil
}

// routeTotals sums per-segment distance and duration, falling back to the
// summary block when segments are absent.
func routeTotals(properties geojson.Properties) (distance, duration float64) {
	if segments, ok := properties["segments"].([]any); ok && len(segments) > 0 {
		for _, raw := range segments {
			segment, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if v, ok := segment["distance"].(float64); ok {
				distance += v
			}
			if v, ok := segment["duration"].(float64); ok {
				duration += v
			}
		}
		if distance > 0 || duration > 0 {
			return distance, duration
		}
	}

	if summary, ok := properties["summary"].(map[string]any); ok {
		if v, ok := summary["distance"].(float64); ok {
			distance = v
		}
		if v, ok := summary["duration"].(float64); ok {
			duration = v
		}
	}

	return distance, duration
}
