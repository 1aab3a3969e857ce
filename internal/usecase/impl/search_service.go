package impl

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"kompas/config"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/source"
	"kompas/internal/usecase"
)

// minQueryLength is the shortest query the aggregator fans out for. Shorter
// queries yield an empty result without dispatching any source.
const minQueryLength = 2

// coordinatePattern matches a bare "lat, lon" pair with decimal fractions.
// Matching queries bypass the source fan-out entirely.
var coordinatePattern = regexp.MustCompile(`^(-?\d+(?:\.\d+))\s*,\s*(-?\d+(?:\.\d+))$`)

type searchService struct {
	addresses     source.AddressSource
	placeNames    source.PlaceNameSource
	roads         source.NamedRoadSource
	pointFeatures source.PointFeatureSource
	foreign       source.ForeignGeocoder
	customPlaces  []entity.Candidate
	logger        *slog.Logger
}

// NewSearchService creates a new search aggregation service instance
func NewSearchService(
	addresses source.AddressSource,
	placeNames source.PlaceNameSource,
	roads source.NamedRoadSource,
	pointFeatures source.PointFeatureSource,
	foreign source.ForeignGeocoder,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.SearchUsecase {
	custom := make([]entity.Candidate, 0, len(cfg.CustomPlaces))
	for _, place := range cfg.CustomPlaces {
		custom = append(custom, entity.Candidate{
			Kind:        entity.KindCustomPlace,
			DisplayText: place.Name,
			SortText:    place.Name,
			Point:       &entity.Coordinate{Lat: place.Lat, Lon: place.Lon},
		})
	}

	return &searchService{
		addresses:     addresses,
		placeNames:    placeNames,
		roads:         roads,
		pointFeatures: pointFeatures,
		foreign:       foreign,
		customPlaces:  custom,
		logger:        logger,
	}
}

func (s *searchService) Search(ctx context.Context, input usecase.SearchInput) (*usecase.SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if len([]rune(query)) < minQueryLength {
		return &usecase.SearchOutput{Query: query}, nil
	}

	if match := coordinatePattern.FindStringSubmatch(query); match != nil {
		lat, latErr := strconv.ParseFloat(match[1], 64)
		lon, lonErr := strconv.ParseFloat(match[2], 64)
		if latErr == nil && lonErr == nil {
			return &usecase.SearchOutput{
				Query:      query,
				Coordinate: &entity.Coordinate{Lat: lat, Lon: lon},
			}, nil
		}
	}

	if input.ForeignOnly {
		candidates, err := s.foreign.Search(ctx, query)
		if errors.Is(err, source.ErrForeignDisabled) {
			return nil, err
		}
		if err != nil {
			s.logger.Warn("search source failed",
				slog.String("source", "foreign"),
				slog.Any("error", err),
			)
			candidates = nil
		}
		s.rank(query, candidates)

		return &usecase.SearchOutput{Query: query, Candidates: candidates}, nil
	}

	// Domestic mode never calls the foreign geocoder; its quota is spent on
	// explicit foreign searches only.
	group, groupCtx := errgroup.WithContext(ctx)
	slots := make([][]entity.Candidate, 4)

	fanOut := func(slot int, name string, search func(context.Context, string) ([]entity.Candidate, error)) {
		group.Go(func() error {
			slots[slot] = s.collect(groupCtx, name, query, search)

			return nil
		})
	}

	fanOut(0, "addresses", s.addresses.Search)
	fanOut(1, "place names", s.placeNames.Search)
	fanOut(2, "named roads", s.roads.Search)
	fanOut(3, "point features", s.pointFeatures.Search)

	// Every source degrades to an empty slice, so the group never errors.
	_ = group.Wait()

	merged := make([]entity.Candidate, 0,
		len(slots[0])+len(slots[1])+len(slots[2])+len(slots[3])+len(s.customPlaces))
	for _, candidates := range slots {
		merged = append(merged, candidates...)
	}
	merged = append(merged, s.matchCustomPlaces(query)...)

	s.rank(query, merged)

	return &usecase.SearchOutput{Query: query, Candidates: merged}, nil
}

func (s *searchService) Quota() (entity.RateLimitStatus, bool) {
	return s.foreign.Quota()
}

// collect runs one source and degrades its failure to an empty result so the
// other sources still produce a list.
func (s *searchService) collect(
	ctx context.Context,
	name, query string,
	search func(context.Context, string) ([]entity.Candidate, error),
) []entity.Candidate {
	candidates, err := search(ctx, query)
	if err != nil {
		s.logger.Warn("search source failed",
			slog.String("source", name),
			slog.Any("error", err),
		)

		return nil
	}

	return candidates
}

func (s *searchService) matchCustomPlaces(query string) []entity.Candidate {
	needle := strings.ToLower(query)

	var matched []entity.Candidate
	for _, place := range s.customPlaces {
		if strings.Contains(strings.ToLower(place.SortText), needle) {
			matched = append(matched, place)
		}
	}

	return matched
}

// rank orders candidates in place: the named group (place names, named
// roads, custom places, foreign addresses) ahead of the addressed group,
// then by match priority against the query. Equal candidates keep their
// source order.
func (s *searchService) rank(query string, candidates []entity.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Kind.Named() != b.Kind.Named() {
			return a.Kind.Named()
		}

		return matchPriority(a, query) < matchPriority(b, query)
	})
}

// matchPriority grades how well a candidate's sort text matches the query:
// 0 exact, 1 prefix, 2 substring, 3 no match. Comparison is case
// insensitive.
func matchPriority(candidate entity.Candidate, query string) int {
	text := candidate.SortText
	if text == "" {
		text = candidate.DisplayText
	}
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	switch {
	case lowerText == lowerQuery:
		return 0
	case strings.HasPrefix(lowerText, lowerQuery):
		return 1
	case strings.Contains(lowerText, lowerQuery):
		return 2
	default:
		return 3
	}
}
