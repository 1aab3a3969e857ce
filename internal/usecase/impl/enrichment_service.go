package impl

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/source"
	"kompas/internal/usecase"
)

type enrichmentService struct {
	roadAuthority  source.RoadAuthoritySource
	municipalities source.MunicipalitySource
	buildings      source.BuildingRegistry
	parcels        source.ParcelRegistry
	links          map[string]config.MunicipalityInfo
	logger         *slog.Logger
}

// NewEnrichmentService creates a new registry enrichment service instance
func NewEnrichmentService(
	roadAuthority source.RoadAuthoritySource,
	municipalities source.MunicipalitySource,
	buildings source.BuildingRegistry,
	parcels source.ParcelRegistry,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.EnrichmentUsecase {
	return &enrichmentService{
		roadAuthority:  roadAuthority,
		municipalities: municipalities,
		buildings:      buildings,
		parcels:        parcels,
		links:          cfg.Municipalities,
		logger:         logger,
	}
}

func (s *enrichmentService) Enrich(ctx context.Context, location *entity.ResolvedLocation) (*entity.EnrichmentRecord, error) {
	record := &entity.EnrichmentRecord{}

	// Foreign locations have no footprint in the domestic registries.
	if location == nil || location.Foreign {
		return record, nil
	}

	record.PoliceDistrict = policeDistrict(location.Payload)

	// The sub-lookups are independent; each one degrades to an absent field
	// on failure and never errors the group.
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		record.RoadAuthority = s.lookupRoadAuthority(groupCtx, location)

		return nil
	})
	group.Go(func() error {
		record.Jurisdiction = s.lookupJurisdiction(groupCtx, location)

		return nil
	})
	group.Go(func() error {
		record.Buildings, record.Parcels = s.lookupRegistry(groupCtx, location)

		return nil
	})

	_ = group.Wait()

	return record, nil
}

// lookupRoadAuthority fetches the national-road record at the location. The
// source delivers full records already decorated with the chainage marker.
func (s *enrichmentService) lookupRoadAuthority(ctx context.Context, location *entity.ResolvedLocation) *entity.RoadAuthorityInfo {
	info, err := s.roadAuthority.InfoAt(ctx, location.Lat, location.Lon)
	if err != nil {
		s.logger.Warn("road authority lookup failed", slog.Any("error", err))

		return nil
	}
	if info == nil || info.Empty() {
		return nil
	}

	return info
}

func (s *enrichmentService) lookupJurisdiction(ctx context.Context, location *entity.ResolvedLocation) *entity.Jurisdiction {
	code := location.RegistryKeys[entity.KeyMunicipalityCode]
	if code == "" {
		return nil
	}

	name, err := s.municipalities.Name(ctx, code)
	if err != nil {
		s.logger.Warn("municipality lookup failed",
			slog.String("code", code),
			slog.Any("error", err),
		)

		return nil
	}
	if name == "" {
		return nil
	}

	jurisdiction := &entity.Jurisdiction{Code: code, Name: name}
	if info, ok := s.links[name]; ok {
		jurisdiction.Link = info.Link
	}

	return jurisdiction
}

// lookupRegistry fetches buildings for the location's identifiers, then
// cross-references parcels by every property number the buildings revealed.
func (s *enrichmentService) lookupRegistry(ctx context.Context, location *entity.ResolvedLocation) ([]entity.Building, []entity.Parcel) {
	propertyNumber := location.RegistryKeys[entity.KeyPropertyNumber]
	houseNumberID := location.RegistryKeys[entity.KeyHouseNumberID]
	if propertyNumber == "" && houseNumberID == "" {
		return nil, nil
	}

	buildings, err := s.buildings.Buildings(ctx, propertyNumber, houseNumberID)
	if err != nil {
		s.logger.Warn("building registry lookup failed", slog.Any("error", err))

		return nil, nil
	}

	point := location.Coordinate()
	for i := range buildings {
		if buildings[i].Point == (entity.Coordinate{}) {
			buildings[i].Point = point
		}
	}

	numbers := collectPropertyNumbers(buildings, propertyNumber)
	if len(numbers) == 0 {
		return buildings, nil
	}

	parcels, err := s.parcels.Parcels(ctx, numbers)
	if err != nil {
		s.logger.Warn("parcel registry lookup failed", slog.Any("error", err))

		return buildings, nil
	}

	return buildings, parcels
}

// collectPropertyNumbers gathers the distinct property numbers from the
// building records plus the directly known one, in discovery order.
func collectPropertyNumbers(buildings []entity.Building, direct string) []string {
	seen := make(map[string]struct{})
	var numbers []string

	add := func(number string) {
		if number == "" {
			return
		}
		if _, dup := seen[number]; dup {
			return
		}
		seen[number] = struct{}{}
		numbers = append(numbers, number)
	}

	add(direct)
	for _, building := range buildings {
		add(building.PropertyNumber)
	}

	return numbers
}

// policeDistrict renders the police-district passthrough from a flat or
// nested address document as "name (code)".
func policeDistrict(payload map[string]any) string {
	access := nestedMap(payload, "adgangsadresse")

	name := firstStringField("politikredsnavn", payload, access)
	code := firstStringField("politikredskode", payload, access)

	switch {
	case name != "" && code != "":
		return fmt.Sprintf("%s (%s)", name, code)
	case code != "":
		return fmt.Sprintf("(%s)", code)
	default:
		return name
	}
}
