// Package impl contains the application-specific business rules implementations.
package impl

import (
	"sync"
	"sync/atomic"

	"kompas/internal/domain/entity"
	"kompas/internal/usecase"
)

type sessionService struct {
	seq     atomic.Uint64
	applied atomic.Uint64

	mu          sync.Mutex
	markers     []entity.ResolvedLocation
	keepMarkers bool
	routeInput  usecase.RouteInput
	routePlan   *entity.RoutePlan
}

// NewSessionService creates a new map session state service instance
func NewSessionService() usecase.SessionUsecase {
	return &sessionService{}
}

func (s *sessionService) NextSeq() uint64 {
	return s.seq.Add(1)
}

// Accept applies seq monotonically: a sequence at or below the newest
// applied one is stale and rejected, so a slow response can never overwrite
// a newer one.
func (s *sessionService) Accept(seq uint64) bool {
	for {
		applied := s.applied.Load()
		if seq <= applied {
			return false
		}
		if s.applied.CompareAndSwap(applied, seq) {
			return true
		}
	}
}

func (s *sessionService) AddMarker(location entity.ResolvedLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.keepMarkers {
		s.markers = s.markers[:0]
	}
	s.markers = append(s.markers, location)
}

func (s *sessionService) Markers() []entity.ResolvedLocation {
	s.mu.Lock()
	defer s.mu.Unlock()

	markers := make([]entity.ResolvedLocation, len(s.markers))
	copy(markers, s.markers)

	return markers
}

func (s *sessionService) ClearMarkers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = nil
}

func (s *sessionService) SetKeepMarkers(keep bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keepMarkers = keep
}

func (s *sessionService) KeepMarkers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.keepMarkers
}

func (s *sessionService) SetRoutePlan(input usecase.RouteInput, plan *entity.RoutePlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routeInput = input
	s.routePlan = plan
}

func (s *sessionService) RoutePlan() (usecase.RouteInput, *entity.RoutePlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.routeInput, s.routePlan, s.routePlan != nil
}

func (s *sessionService) ClearRoutePlan() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routeInput = usecase.RouteInput{}
	s.routePlan = nil
}
