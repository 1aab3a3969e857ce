package impl

import (
	"context"
	"io"
	"log/slog"

	"kompas/internal/domain/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAddressSource struct {
	candidates []entity.Candidate
	searchErr  error
	called     bool

	unitDoc map[string]any
	unitErr error

	accessDoc map[string]any
	accessErr error

	reverseDoc map[string]any
	reverseErr error
	reverseLat float64
	reverseLon float64

	firstDoc map[string]any
	firstErr error
}

func (f *fakeAddressSource) Search(_ context.Context, _ string) ([]entity.Candidate, error) {
	f.called = true

	return f.candidates, f.searchErr
}

func (f *fakeAddressSource) LookupUnit(_ context.Context, _ string) (map[string]any, error) {
	return f.unitDoc, f.unitErr
}

func (f *fakeAddressSource) LookupAccess(_ context.Context, _ string) (map[string]any, error) {
	return f.accessDoc, f.accessErr
}

func (f *fakeAddressSource) Reverse(_ context.Context, lat, lon float64) (map[string]any, error) {
	f.reverseLat, f.reverseLon = lat, lon

	return f.reverseDoc, f.reverseErr
}

func (f *fakeAddressSource) FirstAccess(_ context.Context, _ string) (map[string]any, error) {
	return f.firstDoc, f.firstErr
}

type fakeCandidateSource struct {
	candidates []entity.Candidate
	err        error
	called     bool
}

func (f *fakeCandidateSource) Search(_ context.Context, _ string) ([]entity.Candidate, error) {
	f.called = true

	return f.candidates, f.err
}

type fakePointFeatureSource struct {
	fakeCandidateSource
}

type fakeForeignGeocoder struct {
	candidates []entity.Candidate
	searchErr  error
	called     bool

	reverseCandidate *entity.Candidate
	reverseErr       error

	firstCoordinate *entity.Coordinate
	firstErr        error

	quota    entity.RateLimitStatus
	quotaSet bool
}

func (f *fakeForeignGeocoder) Search(_ context.Context, _ string) ([]entity.Candidate, error) {
	f.called = true

	return f.candidates, f.searchErr
}

func (f *fakeForeignGeocoder) Reverse(_ context.Context, _, _ float64) (*entity.Candidate, error) {
	return f.reverseCandidate, f.reverseErr
}

func (f *fakeForeignGeocoder) First(_ context.Context, _ string) (*entity.Coordinate, error) {
	return f.firstCoordinate, f.firstErr
}

func (f *fakeForeignGeocoder) Quota() (entity.RateLimitStatus, bool) {
	return f.quota, f.quotaSet
}

type fakeRoadAuthority struct {
	info    *entity.RoadAuthorityInfo
	infoErr error
}

func (f *fakeRoadAuthority) InfoAt(_ context.Context, _, _ float64) (*entity.RoadAuthorityInfo, error) {
	if f.info == nil {
		return nil, f.infoErr
	}
	info := *f.info

	return &info, f.infoErr
}

type fakeMunicipalitySource struct {
	names map[string]string
	err   error
}

func (f *fakeMunicipalitySource) Name(_ context.Context, code string) (string, error) {
	return f.names[code], f.err
}

type fakeBuildingRegistry struct {
	buildings []entity.Building
	err       error

	called         bool
	propertyNumber string
	houseNumberID  string
}

func (f *fakeBuildingRegistry) Buildings(_ context.Context, propertyNumber, houseNumberID string) ([]entity.Building, error) {
	f.called = true
	f.propertyNumber, f.houseNumberID = propertyNumber, houseNumberID

	return f.buildings, f.err
}

type fakeParcelRegistry struct {
	parcels []entity.Parcel
	err     error

	called  bool
	numbers []string
}

func (f *fakeParcelRegistry) Parcels(_ context.Context, propertyNumbers []string) ([]entity.Parcel, error) {
	f.called = true
	f.numbers = propertyNumbers

	return f.parcels, f.err
}

type fakeRoutePlanner struct {
	plan *entity.RoutePlan
	err  error

	waypoints  []entity.Coordinate
	profile    string
	preference string
}

func (f *fakeRoutePlanner) Plan(_ context.Context, waypoints []entity.Coordinate, profile, preference string) (*entity.RoutePlan, error) {
	f.waypoints = waypoints
	f.profile, f.preference = profile, preference

	return f.plan, f.err
}
