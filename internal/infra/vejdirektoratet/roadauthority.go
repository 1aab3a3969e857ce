// Package vejdirektoratet implements the national-road authority source: a
// WMS GetFeatureInfo probe at a point and the chainage reference service.
package vejdirektoratet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/geodetic"
	"kompas/internal/domain/source"
	"kompas/internal/util"

	"github.com/pkg/errors"
)

const (
	defaultTimeout = 10 * time.Second

	// probeBuffer is the half-width in metres of the query window around the
	// point.
	probeBuffer = 100.0
)

type client struct {
	featureInfoURL string
	referenceURL   string
	httpClient     *http.Client
}

// New creates the road-authority source.
func New(cfg *config.RoadAuthorityConfig) source.RoadAuthoritySource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		featureInfoURL: cfg.FeatureInfoURL,
		referenceURL:   cfg.ReferenceURL,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

func (c *client) InfoAt(ctx context.Context, lat, lon float64) (*entity.RoadAuthorityInfo, error) {
	properties, err := c.featureInfo(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	info := &entity.RoadAuthorityInfo{
		AdminNumber: anyCase(properties, "ADM_NR"),
		Branch:      anyCase(properties, "FORGRENING"),
		RoadName:    anyCase(properties, "BETEGNELSE"),
		Custodian:   anyCase(properties, "BESTYRER"),
		RoadType:    anyCase(properties, "VEJTYPE"),
		Status:      anyCase(properties, "VEJSTATUS"),
		Authority:   anyCase(properties, "VEJMYNDIGHED"),
	}

	// The chainage marker belongs to the full display block only.
	if info.Full() && info.AdminNumber != "" {
		chainage, err := c.chainage(ctx, lat, lon, info.AdminNumber, branchOrZero(info.Branch))
		if err == nil {
			info.Chainage = chainage
		}
	}

	return info, nil
}

// featureInfo probes the WMS service in the projected plane. The service has
// answered both as JSON features and as a plain-text "Results" block, so both
// are parsed.
func (c *client) featureInfo(ctx context.Context, lat, lon float64) (map[string]any, error) {
	easting, northing := geodetic.ToProjected(lat, lon)

	params := url.Values{}
	params.Set("SERVICE", "WMS")
	params.Set("VERSION", "1.1.1")
	params.Set("REQUEST", "GetFeatureInfo")
	params.Set("INFO_FORMAT", "application/json")
	params.Set("TRANSPARENT", "true")
	params.Set("LAYERS", "CVF:veje")
	params.Set("QUERY_LAYERS", "CVF:veje")
	params.Set("SRS", "EPSG:25832")
	params.Set("WIDTH", "101")
	params.Set("HEIGHT", "101")
	params.Set("BBOX", fmt.Sprintf("%f,%f,%f,%f",
		easting-probeBuffer, northing-probeBuffer, easting+probeBuffer, northing+probeBuffer))
	params.Set("X", "50")
	params.Set("Y", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.featureInfoURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "feature info request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("feature info request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read feature info response")
	}

	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "Results") {
		return parseTextResults(text), nil
	}

	var doc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode feature info response")
	}
	if len(doc.Features) == 0 {
		return map[string]any{}, nil
	}

	return doc.Features[0].Properties, nil
}

// parseTextResults reads the legacy "key = value" line format.
func parseTextResults(text string) map[string]any {
	properties := map[string]any{}
	for _, line := range strings.Split(text, "\n") {
		key, value, found := strings.Cut(line, " = ")
		if !found {
			continue
		}
		properties[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return properties
}

func (c *client) chainage(ctx context.Context, lat, lon float64, roadNumber, roadPart string) (string, error) {
	easting, northing := geodetic.ToProjected(lat, lon)

	params := url.Values{}
	params.Set("geometry", fmt.Sprintf("POINT(%f %f)", easting, northing))
	params.Set("srs", "EPSG:25832")
	params.Set("roadNumber", roadNumber)
	params.Set("roadPart", roadPart)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.referenceURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "chainage request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("chainage request failed with status %d", resp.StatusCode)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", errors.Wrap(err, "failed to decode chainage response")
	}

	return chainageText(doc), nil
}

// chainageText digs the km marker out of the reference response, which nests
// its properties differently across service versions.
func chainageText(doc map[string]any) string {
	properties := doc
	if nested, ok := doc["properties"].(map[string]any); ok {
		properties = nested
	} else if feature, ok := doc["feature"].(map[string]any); ok {
		if nested, ok := feature["properties"].(map[string]any); ok {
			properties = nested
		}
	} else if features, ok := doc["features"].([]any); ok && len(features) > 0 {
		if feature, ok := features[0].(map[string]any); ok {
			if nested, ok := feature["properties"].(map[string]any); ok {
				properties = nested
			}
		}
	}

	from, _ := firstMap(properties, "from", "FROM", "fra", "at")
	to, _ := firstMap(properties, "to", "TO", "til")

	for _, scope := range []map[string]any{from, to} {
		if scope == nil {
			continue
		}
		if text := firstString(scope, "kmtText", "KMTTEXT"); text != "" {
			return text
		}
	}
	if text := firstString(properties, "kmtText", "KMTEKST", "kmtekst", "KM_TEXT", "km_text", "kmtegn"); text != "" {
		return text
	}

	km, kmOK := firstValue(from, properties, "km", "KM")
	m, mOK := firstValue(from, properties, "m", "M", "km_meter")
	if kmOK && mOK {
		meters := util.Stringify(m)
		for len(meters) < 4 {
			meters = "0" + meters
		}

		return util.Stringify(km) + "/" + meters
	}

	return ""
}

func anyCase(properties map[string]any, key string) string {
	if value, ok := properties[key]; ok {
		return util.Stringify(value)
	}
	if value, ok := properties[strings.ToLower(key)]; ok {
		return util.Stringify(value)
	}

	return ""
}

func branchOrZero(branch string) string {
	if branch == "" {
		return "0"
	}

	return branch
}

func firstMap(properties map[string]any, keys ...string) (map[string]any, bool) {
	for _, key := range keys {
		if value, ok := properties[key].(map[string]any); ok {
			return value, true
		}
	}

	return nil, false
}

func firstString(properties map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := properties[key]; ok && value != nil {
			if text := util.Stringify(value); text != "" {
				return text
			}
		}
	}

	return ""
}

func firstValue(scope, fallback map[string]any, keys ...string) (any, bool) {
	for _, properties := range []map[string]any{scope, fallback} {
		if properties == nil {
			continue
		}
		for _, key := range keys {
			if value, ok := properties[key]; ok && value != nil {
				return value, true
			}
		}
	}

	return nil, false
}
