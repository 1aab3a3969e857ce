package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"kompas/internal/domain/entity"
	"kompas/internal/domain/geodetic"
	"kompas/internal/domain/source"
	"kompas/internal/usecase"
)

var (
	// ErrNoCoordinateSource is returned when a candidate carries nothing a
	// coordinate can be derived from
	ErrNoCoordinateSource = errors.New("candidate has no coordinate source")
	// ErrAddressWithoutCoordinates is returned when an address document
	// lacks an access point
	ErrAddressWithoutCoordinates = errors.New("address document has no coordinates")
)

// propertyNumberKey matches the property-number field under its registry
// spelling variants (bfenummer, BfeNummer, ...).
var propertyNumberKey = regexp.MustCompile(`(?i)bfe.*nummer`)

type resolveService struct {
	addresses source.AddressSource
	foreign   source.ForeignGeocoder
	logger    *slog.Logger
}

// NewResolveService creates a new candidate resolution service instance
func NewResolveService(
	addresses source.AddressSource,
	foreign source.ForeignGeocoder,
	logger *slog.Logger,
) usecase.ResolveUsecase {
	return &resolveService{
		addresses: addresses,
		foreign:   foreign,
		logger:    logger,
	}
}

func (s *resolveService) Resolve(ctx context.Context, candidate entity.Candidate) (*entity.ResolvedLocation, error) {
	switch candidate.Kind {
	case entity.KindAddress:
		return s.resolveAddress(ctx, candidate)
	case entity.KindForeignAddress:
		return s.resolveForeign(candidate)
	default:
		return s.resolveGeometry(ctx, candidate)
	}
}

// resolveAddress materializes a unit-level address candidate through the
// detail document its identifier points at.
func (s *resolveService) resolveAddress(ctx context.Context, candidate entity.Candidate) (*entity.ResolvedLocation, error) {
	if candidate.AddressID == "" {
		return nil, ErrNoCoordinateSource
	}

	doc, err := s.addresses.LookupUnit(ctx, candidate.AddressID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up address %s: %w", candidate.AddressID, err)
	}

	access := nestedMap(doc, "adgangsadresse")
	lon, lat, ok := coordinatePair(nestedMap(access, "adgangspunkt")["koordinater"])
	if !ok {
		// Some document variants carry the pair directly on the access
		// address.
		lon, lat, ok = coordinatePair(access["koordinater"])
	}
	if !ok {
		return nil, ErrAddressWithoutCoordinates
	}

	label := candidate.DisplayText
	if label == "" {
		label = flatAddressLabel(doc)
	}

	keys := registryKeysFromDocument(doc)
	if candidate.AddressID != "" {
		keys[entity.KeyAddressID] = candidate.AddressID
	}

	return &entity.ResolvedLocation{
		Lat:          lat,
		Lon:          lon,
		DisplayLabel: label,
		RegistryKeys: keys,
		Payload:      doc,
	}, nil
}

// resolveGeometry handles every domestic candidate that carries its own
// coordinate material: place names, named roads, point features and custom
// places. Registry keys are picked up through a reverse lookup, best effort.
func (s *resolveService) resolveGeometry(ctx context.Context, candidate entity.Candidate) (*entity.ResolvedLocation, error) {
	point, ok := candidate.RepresentativePoint()
	if !ok {
		return nil, ErrNoCoordinateSource
	}

	// Geometry coordinates arrive in either projected metric or geographic
	// axis order depending on the upstream dataset.
	lat, lon := geodetic.NormalizePoint(point.Lon, point.Lat)

	location := &entity.ResolvedLocation{
		Lat:          lat,
		Lon:          lon,
		DisplayLabel: candidate.DisplayText,
	}

	doc, err := s.addresses.Reverse(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("reverse lookup for candidate failed",
			slog.String("kind", string(candidate.Kind)),
			slog.Any("error", err),
		)

		return location, nil
	}

	location.RegistryKeys = registryKeysFromDocument(doc)
	location.Payload = doc

	return location, nil
}

func (s *resolveService) resolveForeign(candidate entity.Candidate) (*entity.ResolvedLocation, error) {
	if candidate.Point == nil {
		return nil, ErrNoCoordinateSource
	}

	return &entity.ResolvedLocation{
		Lat:          candidate.Point.Lat,
		Lon:          candidate.Point.Lon,
		DisplayLabel: candidate.DisplayText,
		Foreign:      true,
		Payload:      candidate.Payload,
	}, nil
}

func (s *resolveService) ReverseAt(ctx context.Context, lat, lon float64) (*entity.ResolvedLocation, error) {
	if geodetic.IsProjected(lat, lon) {
		lat, lon = geodetic.ToGeographic(lat, lon)
	}

	if geodetic.InDenmark(lat, lon) {
		return s.reverseDomestic(ctx, lat, lon)
	}

	return s.reverseForeign(ctx, lat, lon)
}

func (s *resolveService) reverseDomestic(ctx context.Context, lat, lon float64) (*entity.ResolvedLocation, error) {
	doc, err := s.addresses.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode %.5f, %.5f: %w", lat, lon, err)
	}

	return &entity.ResolvedLocation{
		Lat:          lat,
		Lon:          lon,
		DisplayLabel: flatAddressLabel(doc),
		RegistryKeys: registryKeysFromDocument(doc),
		Payload:      doc,
	}, nil
}

func (s *resolveService) reverseForeign(ctx context.Context, lat, lon float64) (*entity.ResolvedLocation, error) {
	candidate, err := s.foreign.Reverse(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("foreign reverse lookup failed", slog.Any("error", err))
	}

	location := &entity.ResolvedLocation{
		Lat:          lat,
		Lon:          lon,
		DisplayLabel: fmt.Sprintf("%.5f, %.5f", lat, lon),
		Foreign:      true,
	}
	if candidate != nil {
		if candidate.Point != nil {
			location.Lat = candidate.Point.Lat
			location.Lon = candidate.Point.Lon
		}
		location.DisplayLabel = candidate.DisplayText
		location.Payload = candidate.Payload
	}

	return location, nil
}

// registryKeysFromDocument collects the enrichment identifiers an address
// document carries, checking both the flat and the nested access-address
// shapes.
func registryKeysFromDocument(doc map[string]any) entity.RegistryKeys {
	keys := entity.RegistryKeys{}
	access := nestedMap(doc, "adgangsadresse")

	if id := stringField(doc, "id"); id != "" {
		keys[entity.KeyAddressID] = id
	}
	if id := houseNumberID(doc, access); id != "" {
		keys[entity.KeyHouseNumberID] = id
	}
	if code := firstStringField("kommunekode", access, doc); code != "" {
		keys[entity.KeyMunicipalityCode] = code
	}
	if code := firstStringField("vejkode", access, doc); code != "" {
		keys[entity.KeyRoadCode] = code
	}
	if bfe := findPropertyNumber(doc, access); bfe != "" {
		keys[entity.KeyPropertyNumber] = bfe
	}

	return keys
}

// houseNumberID walks the identifier fallback chain the building registry is
// keyed by: the house-number field under either casing, then the access
// address id, then the document's own id.
func houseNumberID(doc, access map[string]any) string {
	if id := stringField(doc, "husnummerId", "husnummerid"); id != "" {
		return id
	}
	if id := stringField(doc, "adgangsadresseid", "adgangsadresseId"); id != "" {
		return id
	}
	if id := stringField(access, "husnummerId", "husnummerid"); id != "" {
		return id
	}
	if id := stringField(access, "id"); id != "" {
		return id
	}

	return stringField(doc, "id")
}

// findPropertyNumber scans the document's top level and its access address
// for a property-number field. A nested {kode: ...} value is unwrapped.
func findPropertyNumber(doc, access map[string]any) string {
	for _, m := range []map[string]any{doc, access} {
		for key, value := range m {
			if !propertyNumberKey.MatchString(key) {
				continue
			}
			if nested, ok := value.(map[string]any); ok {
				value = nested["kode"]
			}
			if text := fieldText(value); text != "" {
				return text
			}
		}
	}

	return ""
}

// flatAddressLabel renders the display line for a flat or nested address
// document: the registry's own designation when present, otherwise
// "road number, postcode district" assembled from parts.
func flatAddressLabel(doc map[string]any) string {
	access := nestedMap(doc, "adgangsadresse")

	if label := firstStringField("adressebetegnelse", access, doc); label != "" {
		return label
	}
	if label := firstStringField("betegnelse", access, doc); label != "" {
		return label
	}

	road := firstStringField("vejnavn", access, doc)
	house := firstStringField("husnr", access, doc)
	postcode := firstStringField("postnr", access, doc)
	district := firstStringField("postnrnavn", access, doc)

	return strings.TrimSpace(fmt.Sprintf("%s %s, %s %s",
		road, house, postcode, district))
}

func nestedMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	nested, _ := m[key].(map[string]any)

	return nested
}

// stringField returns the first named field that renders to non-empty text.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if text := fieldText(m[key]); text != "" {
			return text
		}
	}

	return ""
}

// firstStringField checks the same key across documents in preference order.
func firstStringField(key string, docs ...map[string]any) string {
	for _, doc := range docs {
		if text := fieldText(doc[key]); text != "" {
			return text
		}
	}

	return ""
}

// fieldText renders a decoded JSON scalar to text. Integral floats drop
// their fraction so identifiers survive the round trip through float64.
func fieldText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// coordinatePair decodes a [lon, lat] JSON array.
func coordinatePair(value any) (lon, lat float64, ok bool) {
	pair, isSlice := value.([]any)
	if !isSlice || len(pair) < 2 {
		return 0, 0, false
	}
	lon, lonOK := pair[0].(float64)
	lat, latOK := pair[1].(float64)

	return lon, lat, lonOK && latOK
}
