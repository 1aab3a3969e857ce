package dataforsyningen

import (
	"context"
	"net/http"
	"net/url"

	"kompas/config"
	"kompas/internal/domain/source"

	"github.com/pkg/errors"
)

type municipalityClient struct {
	baseURL string
	client  *http.Client
}

// NewMunicipalitySource creates the municipality lookup backed by the DAWA
// kommuner service.
func NewMunicipalitySource(cfg *config.DataforsyningenConfig) source.MunicipalitySource {
	return &municipalityClient{
		baseURL: cfg.BaseURL,
		client:  newHTTPClient(cfg),
	}
}

func (c *municipalityClient) Name(ctx context.Context, code string) (string, error) {
	var doc struct {
		Navn string `json:"navn"`
	}
	if err := getJSON(ctx, c.client, c.baseURL+"/kommuner/"+url.PathEscape(code), &doc); err != nil {
		return "", errors.Wrap(err, "municipality lookup")
	}

	return doc.Navn, nil
}
