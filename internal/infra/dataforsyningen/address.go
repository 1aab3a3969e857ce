package dataforsyningen

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/source"

	"github.com/pkg/errors"
)

type addressClient struct {
	baseURL  string
	pageSize int
	client   *http.Client
}

// NewAddressSource creates the unit-address source backed by the DAWA
// address services.
func NewAddressSource(cfg *config.DataforsyningenConfig) source.AddressSource {
	return &addressClient{
		baseURL:  cfg.BaseURL,
		pageSize: cfg.AddressPageSize,
		client:   newHTTPClient(cfg),
	}
}

type addressSuggestion struct {
	Tekst   string         `json:"tekst"`
	Adresse map[string]any `json:"adresse"`
}

func (c *addressClient) Search(ctx context.Context, query string) ([]entity.Candidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_side", strconv.Itoa(c.pageSize))

	var suggestions []addressSuggestion
	if err := getJSON(ctx, c.client, c.baseURL+"/adresser/autocomplete?"+params.Encode(), &suggestions); err != nil {
		return nil, errors.Wrap(err, "address autocomplete")
	}

	candidates := make([]entity.Candidate, 0, len(suggestions))
	for _, suggestion := range suggestions {
		if suggestion.Tekst == "" {
			continue
		}

		candidate := entity.Candidate{
			Kind:        entity.KindAddress,
			DisplayText: suggestion.Tekst,
			SortText:    suggestion.Tekst,
			Payload:     suggestion.Adresse,
		}
		if id, ok := suggestion.Adresse["id"].(string); ok {
			candidate.AddressID = id
		}
		if accessID, ok := suggestion.Adresse["adgangsadresseid"].(string); ok {
			candidate.AccessID = accessID
		}
		if candidate.AddressID == "" {
			continue
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func (c *addressClient) LookupUnit(ctx context.Context, addressID string) (map[string]any, error) {
	var doc map[string]any
	if err := getJSON(ctx, c.client, c.baseURL+"/adresser/"+url.PathEscape(addressID), &doc); err != nil {
		return nil, errors.Wrap(err, "unit address lookup")
	}

	return doc, nil
}

func (c *addressClient) LookupAccess(ctx context.Context, accessID string) (map[string]any, error) {
	var doc map[string]any
	if err := getJSON(ctx, c.client, c.baseURL+"/adgangsadresser/"+url.PathEscape(accessID), &doc); err != nil {
		return nil, errors.Wrap(err, "access address lookup")
	}

	return doc, nil
}

func (c *addressClient) Reverse(ctx context.Context, lat, lon float64) (map[string]any, error) {
	params := url.Values{}
	params.Set("x", fmt.Sprintf("%f", lon))
	params.Set("y", fmt.Sprintf("%f", lat))
	params.Set("struktur", "flad")

	var doc map[string]any
	if err := getJSON(ctx, c.client, c.baseURL+"/adgangsadresser/reverse?"+params.Encode(), &doc); err != nil {
		return nil, errors.Wrap(err, "reverse address lookup")
	}

	return doc, nil
}

func (c *addressClient) FirstAccess(ctx context.Context, query string) (map[string]any, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("per_side", "1")

	var suggestions []struct {
		Adgangsadresse map[string]any `json:"adgangsadresse"`
	}
	if err := getJSON(ctx, c.client, c.baseURL+"/adgangsadresser/autocomplete?"+params.Encode(), &suggestions); err != nil {
		return nil, errors.Wrap(err, "access address autocomplete")
	}
	if len(suggestions) == 0 {
		return nil, nil
	}

	id, ok := suggestions[0].Adgangsadresse["id"].(string)
	if !ok || id == "" {
		return nil, errors.New("access address suggestion without id")
	}

	return c.LookupAccess(ctx, id)
}
