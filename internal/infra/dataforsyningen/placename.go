package dataforsyningen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/source"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

type placeNameClient struct {
	gsearchURL string
	token      string
	limit      int
	client     *http.Client
}

// NewPlaceNameSource creates the place-name source backed by the gsearch
// stednavn service.
func NewPlaceNameSource(cfg *config.DataforsyningenConfig) source.PlaceNameSource {
	return &placeNameClient{
		gsearchURL: cfg.GSearchURL,
		token:      cfg.Token,
		limit:      cfg.PlaceNameLimit,
		client:     newHTTPClient(cfg),
	}
}

type placeNameItem struct {
	Visningstekst       string            `json:"visningstekst"`
	Navn                string            `json:"navn"`
	SkrivemaadeOfficiel string            `json:"skrivemaade_officiel"`
	BBox                *geojson.Geometry `json:"bbox"`
	Geometri            *geojson.Geometry `json:"geometri"`
}

func (c *placeNameClient) Search(ctx context.Context, query string) ([]entity.Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("token", c.token)

	var raw json.RawMessage
	if err := getJSON(ctx, c.client, c.gsearchURL+"/stednavn?"+params.Encode(), &raw); err != nil {
		return nil, errors.Wrap(err, "place name search")
	}

	items, err := decodePlaceNames(raw)
	if err != nil {
		return nil, err
	}

	candidates := make([]entity.Candidate, 0, len(items))
	for _, item := range items {
		display := item.Visningstekst
		if display == "" {
			display = item.Navn
		}
		if display == "" {
			display = item.SkrivemaadeOfficiel
		}
		if display == "" {
			continue
		}

		candidate := entity.Candidate{
			Kind:        entity.KindPlaceName,
			DisplayText: display,
			SortText:    display,
			Bounds:      item.BBox,
			Geometry:    item.Geometri,
		}
		if !candidate.HasCoordinateSource() {
			continue
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// decodePlaceNames accepts both response shapes the service has used: a bare
// list and a {"results": [...]} wrapper.
func decodePlaceNames(raw json.RawMessage) ([]placeNameItem, error) {
	var items []placeNameItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Results []placeNameItem `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, errors.Wrap(err, "unexpected place name response shape")
	}

	return wrapped.Results, nil
}
