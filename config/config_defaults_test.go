package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_FillsUpstreamURLs(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, "https://api.dataforsyningen.dk", cfg.Dataforsyningen.BaseURL)
	assert.Equal(t, "https://api.openrouteservice.org", cfg.ORS.BaseURL)
	assert.Equal(t, "https://geocloud.vd.dk/CVF/wms", cfg.RoadAuthority.FeatureInfoURL)
	assert.Equal(t, "https://vd-proxy.anderskabel8.workers.dev/reference", cfg.RoadAuthority.ReferenceURL)
	assert.Equal(t, "https://bbr-proxy.anderskabel8.workers.dev/bygning", cfg.BuildingRegistry.BuildingURL)
	assert.Equal(t, "https://bbr-proxy.anderskabel8.workers.dev/Ejendomsbeliggenhed2", cfg.BuildingRegistry.ParcelURL)
}

func TestApplyDefaults_KeepsConfiguredValues(t *testing.T) {
	cfg := &Config{
		RoadAuthority: &RoadAuthorityConfig{
			ReferenceURL: "http://localhost:9090/reference",
		},
	}
	cfg.applyDefaults()

	assert.Equal(t, "http://localhost:9090/reference", cfg.RoadAuthority.ReferenceURL)
	assert.Equal(t, "https://geocloud.vd.dk/CVF/wms", cfg.RoadAuthority.FeatureInfoURL)
}
