package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Dataforsyningen covers the domestic address, place-name and named-road
	// services.
	Dataforsyningen *DataforsyningenConfig `json:"dataforsyningen" yaml:"dataforsyningen"`

	// ORS is the foreign geocoding and routing service. Without an API key
	// foreign search is disabled entirely.
	ORS *ORSConfig `json:"ors" yaml:"ors"`

	// RoadAuthority configures the national-road feature-info service and
	// the chainage reference proxy.
	RoadAuthority *RoadAuthorityConfig `json:"roadAuthority" yaml:"roadAuthority"`

	// BuildingRegistry configures the building and parcel registry proxy.
	BuildingRegistry *BuildingRegistryConfig `json:"buildingRegistry" yaml:"buildingRegistry"`

	// PointFeatures configures the cached rescue-post dataset.
	PointFeatures *PointFeaturesConfig `json:"pointFeatures" yaml:"pointFeatures"`

	// CustomPlaces is a static list searched alongside the domestic sources.
	CustomPlaces []CustomPlace `json:"customPlaces" yaml:"customPlaces"`

	// Municipalities maps a municipality name to an optional info link shown
	// with the jurisdiction.
	Municipalities map[string]MunicipalityInfo `json:"municipalities" yaml:"municipalities"`

	Route *RouteConfig `json:"route" yaml:"route"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// DataforsyningenConfig holds the domestic geodata endpoints.
type DataforsyningenConfig struct {
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	// GSearchURL serves the place-name search service.
	GSearchURL string `json:"gsearchUrl" yaml:"gsearchUrl"`
	// Token authorizes the place-name service.
	Token string `json:"token" yaml:"token"`
	// AddressPageSize caps address autocomplete results.
	AddressPageSize int `json:"addressPageSize" yaml:"addressPageSize"`
	// PlaceNameLimit caps place-name results.
	PlaceNameLimit int `json:"placeNameLimit" yaml:"placeNameLimit"`
	// RoadPageSize caps named-road results.
	RoadPageSize int `json:"roadPageSize" yaml:"roadPageSize"`

	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// ORSConfig holds the OpenRouteService credential and limits.
type ORSConfig struct {
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
	APIKey  string `json:"apiKey" yaml:"apiKey"`
	// SearchSize caps foreign search results per query.
	SearchSize int `json:"searchSize" yaml:"searchSize"`
	// RequestsPerMinute paces outgoing calls below the service quota.
	RequestsPerMinute int `json:"requestsPerMinute" yaml:"requestsPerMinute"`

	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// HomeCountry names the country excluded from foreign results, with its
	// accepted spellings and ISO codes.
	HomeCountry []string `json:"homeCountry" yaml:"homeCountry"`
}

// RoadAuthorityConfig holds the feature-info WMS endpoint and the chainage
// reference proxy.
type RoadAuthorityConfig struct {
	FeatureInfoURL string `json:"featureInfoUrl" yaml:"featureInfoUrl"`
	ReferenceURL   string `json:"referenceUrl" yaml:"referenceUrl"`

	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// BuildingRegistryConfig holds the registry proxy endpoints.
type BuildingRegistryConfig struct {
	BuildingURL string `json:"buildingUrl" yaml:"buildingUrl"`
	ParcelURL   string `json:"parcelUrl" yaml:"parcelUrl"`

	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PointFeaturesConfig configures the locally cached point-feature dataset.
type PointFeaturesConfig struct {
	// SourceURL serves the feature collection.
	SourceURL string `json:"sourceUrl" yaml:"sourceUrl"`
	// StatePath is where the last-refresh timestamp is persisted across
	// restarts.
	StatePath string `json:"statePath" yaml:"statePath"`
	// RefreshAfter invalidates the cache.
	RefreshAfter time.Duration `json:"refreshAfter" yaml:"refreshAfter"`

	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// CustomPlace is one statically configured searchable place.
type CustomPlace struct {
	Name string  `json:"name" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
}

// MunicipalityInfo is the static per-municipality display data.
type MunicipalityInfo struct {
	Link string `json:"link" yaml:"link"`
}

// RouteConfig holds route planning defaults.
type RouteConfig struct {
	DefaultProfile    string `json:"defaultProfile" yaml:"defaultProfile"`
	DefaultPreference string `json:"defaultPreference" yaml:"defaultPreference"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: ORS_APIKEY -> ors.apiKey (not ors.apikey)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads the service configuration and applies defaults.
func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dataforsyningen == nil {
		c.Dataforsyningen = &DataforsyningenConfig{}
	}
	if c.Dataforsyningen.BaseURL == "" {
		c.Dataforsyningen.BaseURL = "https://api.dataforsyningen.dk"
	}
	if c.Dataforsyningen.GSearchURL == "" {
		c.Dataforsyningen.GSearchURL = "https://api.dataforsyningen.dk/rest/gsearch/v2.0"
	}
	if c.Dataforsyningen.AddressPageSize <= 0 {
		c.Dataforsyningen.AddressPageSize = 20
	}
	if c.Dataforsyningen.PlaceNameLimit <= 0 {
		c.Dataforsyningen.PlaceNameLimit = 100
	}
	if c.Dataforsyningen.RoadPageSize <= 0 {
		c.Dataforsyningen.RoadPageSize = 20
	}

	if c.ORS == nil {
		c.ORS = &ORSConfig{}
	}
	if c.ORS.BaseURL == "" {
		c.ORS.BaseURL = "https://api.openrouteservice.org"
	}
	if c.ORS.SearchSize <= 0 {
		c.ORS.SearchSize = 5
	}
	if c.ORS.RequestsPerMinute <= 0 {
		c.ORS.RequestsPerMinute = 40
	}
	if len(c.ORS.HomeCountry) == 0 {
		c.ORS.HomeCountry = []string{"danmark", "denmark", "dk", "dnk"}
	}

	if c.RoadAuthority == nil {
		c.RoadAuthority = &RoadAuthorityConfig{}
	}
	if c.RoadAuthority.FeatureInfoURL == "" {
		c.RoadAuthority.FeatureInfoURL = "https://geocloud.vd.dk/CVF/wms"
	}
	if c.RoadAuthority.ReferenceURL == "" {
		c.RoadAuthority.ReferenceURL = "https://vd-proxy.anderskabel8.workers.dev/reference"
	}

	if c.BuildingRegistry == nil {
		c.BuildingRegistry = &BuildingRegistryConfig{}
	}
	if c.BuildingRegistry.BuildingURL == "" {
		c.BuildingRegistry.BuildingURL = "https://bbr-proxy.anderskabel8.workers.dev/bygning"
	}
	if c.BuildingRegistry.ParcelURL == "" {
		c.BuildingRegistry.ParcelURL = "https://bbr-proxy.anderskabel8.workers.dev/Ejendomsbeliggenhed2"
	}

	if c.PointFeatures == nil {
		c.PointFeatures = &PointFeaturesConfig{}
	}
	if c.PointFeatures.RefreshAfter <= 0 {
		c.PointFeatures.RefreshAfter = 24 * time.Hour
	}

	if c.Route == nil {
		c.Route = &RouteConfig{}
	}
	if c.Route.DefaultProfile == "" {
		c.Route.DefaultProfile = "driving-car"
	}
	if c.Route.DefaultPreference == "" {
		c.Route.DefaultPreference = "recommended"
	}
}

// canonicalizeEnvKey converts an environment variable name into a koanf path,
// aligning each underscore-separated segment with the keys already present in
// the loaded YAML so camelCase keys survive the round trip.
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
