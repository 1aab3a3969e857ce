// Package bbr implements the building- and parcel-registry sources behind the
// BBR proxy, decoding the registry's coded attributes into display labels.
package bbr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/geodetic"
	"kompas/internal/domain/source"
	"kompas/internal/util"

	"github.com/pkg/errors"
)

const defaultTimeout = 10 * time.Second

var (
	propertyNumberPattern = regexp.MustCompile(`(?i)bfe.*nummer`)
	cadastrePattern       = regexp.MustCompile(`(?i)matrikel.*betegnelse|matrikel`)
	districtPattern       = regexp.MustCompile(`(?i)ejerlav.*navn|ejerlav`)
	municipalityPattern   = regexp.MustCompile(`(?i)kommu.*navn`)
	municipalityCodePat   = regexp.MustCompile(`(?i)kommu.*kode`)
	roadNamePattern       = regexp.MustCompile(`(?i)vej.*navn`)
)

type client struct {
	buildingURL string
	parcelURL   string
	httpClient  *http.Client
}

// NewBuildingRegistry creates the building lookup client.
func NewBuildingRegistry(cfg *config.BuildingRegistryConfig) source.BuildingRegistry {
	return newClient(cfg)
}

// NewParcelRegistry creates the parcel lookup client.
func NewParcelRegistry(cfg *config.BuildingRegistryConfig) source.ParcelRegistry {
	return newClient(cfg)
}

func newClient(cfg *config.BuildingRegistryConfig) *client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		buildingURL: cfg.BuildingURL,
		parcelURL:   cfg.ParcelURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Buildings tries the property-number lookup first and the house-number
// lookup second; the first query yielding records wins. A failing query only
// disqualifies itself.
func (c *client) Buildings(ctx context.Context, propertyNumber, houseNumberID string) ([]entity.Building, error) {
	if propertyNumber == "" && houseNumberID == "" {
		return nil, errors.New("building lookup needs a property number or house number id")
	}

	var urls []string
	if propertyNumber != "" {
		urls = append(urls, c.buildingURL+"?bfenummer="+url.QueryEscape(propertyNumber))
	}
	if houseNumberID != "" {
		urls = append(urls, c.buildingURL+"?husnummer="+url.QueryEscape(houseNumberID))
	}

	for _, rawURL := range urls {
		var records []map[string]any
		if err := c.getJSON(ctx, rawURL, &records); err != nil {
			continue
		}
		if len(records) == 0 {
			continue
		}

		buildings := make([]entity.Building, 0, len(records))
		for _, record := range records {
			buildings = append(buildings, decodeBuilding(record))
		}

		return buildings, nil
	}

	return nil, nil
}

func (c *client) Parcels(ctx context.Context, propertyNumbers []string) ([]entity.Parcel, error) {
	cleaned := make([]string, 0, len(propertyNumbers))
	for _, number := range propertyNumbers {
		if trimmed := strings.TrimSpace(number); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	rawURL := c.parcelURL + "?bfenr=" + url.QueryEscape(strings.Join(cleaned, "|"))

	var raw json.RawMessage
	if err := c.getJSON(ctx, rawURL, &raw); err != nil {
		return nil, err
	}

	records := decodeParcelRecords(raw)
	parcels := make([]entity.Parcel, 0, len(records))
	for _, record := range records {
		parcels = append(parcels, decodeParcel(record))
	}

	return parcels, nil
}

func (c *client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "registry request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("registry request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode registry response")
	}

	return nil
}

// decodeParcelRecords accepts the response shapes the parcel service has
// used: a bare array, a results wrapper, a single or listed
// ejendomsbeliggenhed member, or one bare record.
func decodeParcelRecords(raw json.RawMessage) []map[string]any {
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err == nil {
		return records
	}

	var wrapped map[string]any
	if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped == nil {
		return nil
	}

	if results, ok := wrapped["results"].([]any); ok {
		return anySliceToRecords(results)
	}
	if nested, ok := wrapped["ejendomsbeliggenhed"]; ok {
		switch value := nested.(type) {
		case []any:
			return anySliceToRecords(value)
		case map[string]any:
			return []map[string]any{value}
		}

		return nil
	}

	return []map[string]any{wrapped}
}

func anySliceToRecords(values []any) []map[string]any {
	records := make([]map[string]any, 0, len(values))
	for _, value := range values {
		if record, ok := value.(map[string]any); ok {
			records = append(records, record)
		}
	}

	return records
}

// decodeBuilding maps one registry record onto the display entity. Records
// occasionally arrive wrapped in a bygning member; concrete BBR 2.1 field
// names are tried first with pattern fallbacks for older exports.
func decodeBuilding(record map[string]any) entity.Building {
	doc := record
	if nested, ok := record["bygning"].(map[string]any); ok {
		doc = nested
	}

	building := entity.Building{
		Number:            fieldValue(doc, "byg007Bygningsnummer", `(?i)bygningsnr|bygningsnummer`),
		Use:               describeCode(buildingUseCodes, fieldCode(doc, "byg021BygningensAnvendelse", `(?i)anvendelse`)),
		ConstructionYear:  fieldValue(doc, "byg026Opførelsesår", `(?i)opfoerelsesaar`),
		Floors:            fieldValue(doc, "byg054AntalEtager", `(?i)antal.*etager`),
		TotalAreaM2:       fieldValue(doc, "byg038SamletBygningsareal", `(?i)samlet.*bygningsareal`),
		ResidentialAreaM2: fieldValue(doc, "byg039BygningensSamledeBoligAreal", `(?i)samlede.*bolig.*areal`),
		FootprintAreaM2:   fieldValue(doc, "byg041BebyggetAreal", `(?i)bebygget.*areal`),
		RoofMaterial:      describeCode(roofCoveringCodes, fieldCode(doc, "byg033Tagdækningsmateriale", `(?i)tagd(?:æ|ae)kningsmateriale`)),
		WallMaterial:      describeCode(outerWallCodes, fieldCode(doc, "byg032YdervæggensMateriale", `(?i)yderv(?:æ|ae)gsmateriale`)),
		Heating:           describeCode(heatingInstallationCodes, fieldCode(doc, "byg056Varmeinstallation", `(?i)varmeinstallation`)),
		HeatingFuel:       describeCode(heatingFuelCodes, fieldCode(doc, "byg057Opvarmningsmiddel", `(?i)opvarmningsmiddel`)),
		SupplementaryHeat: describeCode(supplementaryHeatCodes, fieldCode(doc, "byg058SupplerendeVarme", `(?i)supplerende.*varme`)),
		UpdatedDate:       datePart(fieldValue(doc, "datafordelerOpdateringstid", "")),
		RevisionDate:      datePart(fieldValue(doc, "byg094Revisionsdato", "")),
		Raw:               record,
	}

	if number, ok := util.FindFieldString(doc, propertyNumberPattern); ok {
		building.PropertyNumber = number
	}
	if point, ok := buildingPoint(doc); ok {
		building.Point = point
	}

	return building
}

func decodeParcel(record map[string]any) entity.Parcel {
	parcel := entity.Parcel{Raw: record}

	if value, ok := util.FindFieldString(record, propertyNumberPattern); ok {
		parcel.PropertyNumber = value
	}
	if value, ok := util.FindFieldString(record, cadastrePattern); ok {
		parcel.Cadastre = value
	}
	if value, ok := util.FindFieldString(record, districtPattern); ok {
		parcel.CadastralDistrict = value
	}
	if value, ok := util.FindFieldString(record, municipalityPattern); ok {
		parcel.MunicipalityName = value
	}
	if value, ok := util.FindFieldString(record, municipalityCodePat); ok {
		parcel.MunicipalityCode = value
	}
	if value, ok := util.FindFieldString(record, roadNamePattern); ok {
		parcel.RoadName = value
	}

	return parcel
}

// fieldValue reads a concrete field, falling back to the first key at the top
// level matching the pattern.
func fieldValue(doc map[string]any, key, fallbackPattern string) string {
	if value, ok := doc[key]; ok && value != nil {
		return util.Stringify(value)
	}
	if fallbackPattern == "" {
		return ""
	}

	pattern := regexp.MustCompile(fallbackPattern)
	for k, value := range doc {
		if pattern.MatchString(k) && value != nil {
			return util.Stringify(value)
		}
	}

	return ""
}

// fieldCode reads a coded field, unwrapping {kode: ...} members.
func fieldCode(doc map[string]any, key, fallbackPattern string) any {
	unwrap := func(value any) any {
		if object, ok := value.(map[string]any); ok {
			if code, ok := object["kode"]; ok {
				return code
			}
		}

		return value
	}

	if value, ok := doc[key]; ok && value != nil {
		return unwrap(value)
	}

	pattern := regexp.MustCompile(fallbackPattern)
	for k, value := range doc {
		if pattern.MatchString(k) && value != nil {
			return unwrap(value)
		}
	}

	return nil
}

// buildingPoint reads the record's own geometry, normalizing projected
// coordinates.
func buildingPoint(doc map[string]any) (entity.Coordinate, bool) {
	geometry, ok := doc["geometri"].(map[string]any)
	if !ok {
		return entity.Coordinate{}, false
	}
	coordinates, ok := geometry["koordinater"].([]any)
	if !ok || len(coordinates) < 2 {
		return entity.Coordinate{}, false
	}

	x, xOK := coordinates[0].(float64)
	y, yOK := coordinates[1].(float64)
	if !xOK || !yOK {
		return entity.Coordinate{}, false
	}

	lat, lon := geodetic.NormalizePoint(x, y)

	return entity.Coordinate{Lat: lat, Lon: lon}, true
}

func datePart(value string) string {
	if value == "" {
		return ""
	}
	date, _, _ := strings.Cut(value, "T")

	return date
}
