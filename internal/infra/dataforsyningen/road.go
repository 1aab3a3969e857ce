package dataforsyningen

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/source"

	"github.com/pkg/errors"
)

type namedRoadClient struct {
	baseURL  string
	pageSize int
	client   *http.Client
}

// NewNamedRoadSource creates the named-road source backed by the DAWA
// navngivneveje service.
func NewNamedRoadSource(cfg *config.DataforsyningenConfig) source.NamedRoadSource {
	return &namedRoadClient{
		baseURL:  cfg.BaseURL,
		pageSize: cfg.RoadPageSize,
		client:   newHTTPClient(cfg),
	}
}

type namedRoadItem struct {
	ID               string    `json:"id"`
	Navn             string    `json:"navn"`
	Adresseringsnavn string    `json:"adresseringsnavn"`
	Visueltcenter    []float64 `json:"visueltcenter"`
	BBox             []float64 `json:"bbox"`
}

func (c *namedRoadClient) Search(ctx context.Context, query string) ([]entity.Candidate, error) {
	params := url.Values{}
	params.Set("q", wildcardQuery(query))
	params.Set("per_side", strconv.Itoa(c.pageSize))

	var items []namedRoadItem
	if err := getJSON(ctx, c.client, c.baseURL+"/navngivneveje?"+params.Encode(), &items); err != nil {
		return nil, errors.Wrap(err, "named road search")
	}

	candidates := make([]entity.Candidate, 0, len(items))
	for _, item := range items {
		display := item.Navn
		if display == "" {
			display = item.Adresseringsnavn
		}
		if display == "" {
			continue
		}

		candidate := entity.Candidate{
			Kind:        entity.KindNamedRoad,
			DisplayText: display,
			SortText:    display,
		}
		if len(item.Visueltcenter) == 2 {
			candidate.VisualCenter = &entity.Coordinate{Lon: item.Visueltcenter[0], Lat: item.Visueltcenter[1]}
		}
		if len(item.BBox) == 4 {
			candidate.BoundingBox = item.BBox
		}
		if !candidate.HasCoordinateSource() {
			continue
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// wildcardQuery suffixes every whitespace-separated token with a wildcard so
// partially typed road names still match.
func wildcardQuery(query string) string {
	tokens := strings.Fields(query)
	for i, token := range tokens {
		if !strings.HasSuffix(token, "*") {
			tokens[i] = token + "*"
		}
	}

	return strings.Join(tokens, " ")
}
