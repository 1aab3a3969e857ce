package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"kompas/internal/delivery/http/response"
	domainerrors "kompas/internal/domain/errors"
	"kompas/internal/domain/entity"
	"kompas/internal/usecase"
	"kompas/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// LocationHandlerParams holds dependencies for LocationHandler, injected by Fx.
type LocationHandlerParams struct {
	fx.In

	ResolveUC    usecase.ResolveUsecase
	EnrichmentUC usecase.EnrichmentUsecase
	SessionUC    usecase.SessionUsecase
	Logger       *slog.Logger
}

// LocationHandler holds dependencies for location-related handlers
type LocationHandler struct {
	resolveUC    usecase.ResolveUsecase
	enrichmentUC usecase.EnrichmentUsecase
	sessionUC    usecase.SessionUsecase
	logger       *slog.Logger
}

// NewLocationHandler is the constructor for LocationHandler
func NewLocationHandler(params LocationHandlerParams) *LocationHandler {
	return &LocationHandler{
		resolveUC:    params.ResolveUC,
		enrichmentUC: params.EnrichmentUC,
		sessionUC:    params.SessionUC,
		logger:       params.Logger,
	}
}

// SelectRequest carries the candidate picked from a search result list.
type SelectRequest struct {
	Candidate entity.Candidate `json:"candidate" validate:"required"`
}

// KeepMarkersRequest toggles marker retention for the session.
type KeepMarkersRequest struct {
	Keep bool `json:"keep"`
}

// LocationResponse pairs a resolved location with its registry context.
type LocationResponse struct {
	Location   *entity.ResolvedLocation `json:"location"`
	Enrichment *entity.EnrichmentRecord `json:"enrichment,omitempty"`
}

// Select handles resolving a picked search candidate
func (h *LocationHandler) Select(c echo.Context) error {
	var req SelectRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid candidate input")
	}

	location, err := h.resolveUC.Resolve(c.Request().Context(), req.Candidate)
	if err != nil {
		return h.mapResolveError(c, err)
	}

	return h.respondWithLocation(c, location)
}

// Reverse handles resolving a bare map point
func (h *LocationHandler) Reverse(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if latErr != nil || lonErr != nil {
		return response.BadRequest(c, "INVALID_COORDINATES", "lat and lon must be numbers")
	}

	location, err := h.resolveUC.ReverseAt(c.Request().Context(), lat, lon)
	if err != nil {
		return h.mapResolveError(c, err)
	}

	return h.respondWithLocation(c, location)
}

// Markers returns the session's selection markers
func (h *LocationHandler) Markers(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{
		"markers": h.sessionUC.Markers(),
		"keep":    h.sessionUC.KeepMarkers(),
	}, "Markers retrieved")
}

// ClearMarkers removes every selection marker
func (h *LocationHandler) ClearMarkers(c echo.Context) error {
	h.sessionUC.ClearMarkers()

	return response.Success(c, http.StatusOK, nil, "Markers cleared")
}

// SetKeepMarkers toggles marker retention
func (h *LocationHandler) SetKeepMarkers(c echo.Context) error {
	var req KeepMarkersRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid keep-markers input")
	}

	h.sessionUC.SetKeepMarkers(req.Keep)

	return response.Success(c, http.StatusOK, map[string]bool{"keep": req.Keep}, "Marker retention updated")
}

// respondWithLocation records the marker and attaches the best-effort
// registry enrichment.
func (h *LocationHandler) respondWithLocation(c echo.Context, location *entity.ResolvedLocation) error {
	h.sessionUC.AddMarker(*location)

	record, err := h.enrichmentUC.Enrich(c.Request().Context(), location)
	if err != nil {
		h.logger.Warn("enrichment failed", slog.Any("error", err))
		record = nil
	}

	return response.Success(c, http.StatusOK, LocationResponse{
		Location:   location,
		Enrichment: record,
	}, "Location resolved")
}

func (h *LocationHandler) mapResolveError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, impl.ErrNoCoordinateSource):
		return response.BadRequest(c,
			domainerrors.ErrCandidateInvalid.ErrorCode(),
			domainerrors.ErrCandidateInvalid.Message())
	case errors.Is(err, impl.ErrAddressWithoutCoordinates):
		return response.NotFound(c,
			domainerrors.ErrAddressNotFound.ErrorCode(),
			domainerrors.ErrAddressNotFound.Message())
	default:
		return errors.WithStack(err)
	}
}
