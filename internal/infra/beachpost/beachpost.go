// Package beachpost implements the rescue-post point-feature source. The
// upstream dataset changes rarely, so it is fetched lazily, cached in memory
// and persisted to disk with a refresh deadline.
package beachpost

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/geodetic"
	"kompas/internal/domain/source"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

type post struct {
	Number string            `json:"number"`
	Point  entity.Coordinate `json:"point"`
}

// state is the persisted cache snapshot.
type state struct {
	UpdatedAt time.Time `json:"updatedAt"`
	Posts     []post    `json:"posts"`
}

type cache struct {
	sourceURL    string
	statePath    string
	refreshAfter time.Duration
	client       *http.Client

	mu        sync.RWMutex
	posts     []post
	updatedAt time.Time
}

// New creates the rescue-post source. The on-disk snapshot, when present and
// fresh, avoids refetching across restarts.
func New(cfg *config.PointFeaturesConfig) source.PointFeatureSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	refreshAfter := cfg.RefreshAfter
	if refreshAfter <= 0 {
		refreshAfter = 24 * time.Hour
	}

	c := &cache{
		sourceURL:    cfg.SourceURL,
		statePath:    cfg.StatePath,
		refreshAfter: refreshAfter,
		client:       &http.Client{Timeout: timeout},
	}
	c.loadState()

	return c
}

func (c *cache) Search(ctx context.Context, query string) ([]entity.Candidate, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var candidates []entity.Candidate
	for _, p := range c.posts {
		if !strings.Contains(strings.ToLower(p.Number), needle) {
			continue
		}

		point := p.Point
		candidates = append(candidates, entity.Candidate{
			Kind:        entity.KindPointFeature,
			DisplayText: "Redningsnummer: " + p.Number,
			SortText:    p.Number,
			Point:       &point,
		})
	}

	return candidates, nil
}

func (c *cache) ensureFresh(ctx context.Context) error {
	c.mu.RLock()
	fresh := !c.updatedAt.IsZero() && time.Since(c.updatedAt) < c.refreshAfter
	c.mu.RUnlock()
	if fresh {
		return nil
	}

	return c.refresh(ctx)
}

func (c *cache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "rescue post fetch failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("rescue post fetch failed with status %d", resp.StatusCode)
	}

	var collection geojson.FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return errors.Wrap(err, "failed to decode rescue posts")
	}

	posts := make([]post, 0, len(collection.Features))
	for _, feature := range collection.Features {
		number := postNumber(feature.Properties)
		if number == "" {
			continue
		}

		geom, ok := feature.Geometry.(orb.Point)
		if !ok {
			continue
		}
		// Coordinates arrive as lon/lat or projected easting/northing
		// depending on the dataset export.
		lat, lon := geodetic.NormalizePoint(geom[0], geom[1])

		posts = append(posts, post{
			Number: number,
			Point:  entity.Coordinate{Lat: lat, Lon: lon},
		})
	}

	c.mu.Lock()
	c.posts = posts
	c.updatedAt = time.Now()
	snapshot := state{UpdatedAt: c.updatedAt, Posts: posts}
	c.mu.Unlock()

	c.saveState(snapshot)

	return nil
}

func postNumber(properties geojson.Properties) string {
	for _, key := range []string{"StrandNr", "strandnr", "Redningsnummer", "redningsnummer"} {
		if number, ok := properties[key].(string); ok && number != "" {
			return number
		}
	}

	return ""
}

func (c *cache) loadState() {
	if c.statePath == "" {
		return
	}

	raw, err := os.ReadFile(c.statePath)
	if err != nil {
		return
	}

	var snapshot state
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return
	}
	if time.Since(snapshot.UpdatedAt) >= c.refreshAfter {
		return
	}

	c.mu.Lock()
	c.posts = snapshot.Posts
	c.updatedAt = snapshot.UpdatedAt
	c.mu.Unlock()
}

func (c *cache) saveState(snapshot state) {
	if c.statePath == "" {
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	// Snapshot loss is harmless, the next search refetches.
	_ = os.WriteFile(c.statePath, raw, 0o600)
}
