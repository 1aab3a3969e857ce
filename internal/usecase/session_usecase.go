package usecase

import "kompas/internal/domain/entity"

// SessionUsecase holds the per-session map state: selection markers and the
// request-sequence guard that keeps slow search responses from overwriting
// newer ones.
type SessionUsecase interface {
	// NextSeq issues a strictly increasing request sequence number.
	NextSeq() uint64

	// Accept records seq as applied when it is newer than every previously
	// applied sequence and reports whether it was. Stale sequences are
	// rejected.
	Accept(seq uint64) bool

	// AddMarker stores a selection marker. Without keep-markers mode the new
	// marker replaces all previous ones.
	AddMarker(location entity.ResolvedLocation)
	Markers() []entity.ResolvedLocation
	ClearMarkers()

	SetKeepMarkers(keep bool)
	KeepMarkers() bool

	// SetRoutePlan stores the active plan together with the request that
	// produced it, replacing any previous one. Re-planning with a changed
	// profile reuses the stored request.
	SetRoutePlan(input RouteInput, plan *entity.RoutePlan)
	RoutePlan() (RouteInput, *entity.RoutePlan, bool)
	ClearRoutePlan()
}
