// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"kompas/internal/delivery/http/response"
	domainerrors "kompas/internal/domain/errors"
	"kompas/internal/domain/entity"
	"kompas/internal/domain/source"
	"kompas/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SearchHandlerParams holds dependencies for SearchHandler, injected by Fx.
type SearchHandlerParams struct {
	fx.In

	SearchUC  usecase.SearchUsecase
	ResolveUC usecase.ResolveUsecase
	SessionUC usecase.SessionUsecase
	Logger    *slog.Logger
}

// SearchHandler holds dependencies for search-related handlers
type SearchHandler struct {
	searchUC  usecase.SearchUsecase
	resolveUC usecase.ResolveUsecase
	sessionUC usecase.SessionUsecase
	logger    *slog.Logger
}

// NewSearchHandler is the constructor for SearchHandler
func NewSearchHandler(params SearchHandlerParams) *SearchHandler {
	return &SearchHandler{
		searchUC:  params.SearchUC,
		resolveUC: params.ResolveUC,
		sessionUC: params.SessionUC,
		logger:    params.Logger,
	}
}

// SearchResponse is the payload for a search request. Seq orders responses;
// a stale response carries no candidates. Location is set when the query was
// a bare coordinate pair and was resolved directly.
type SearchResponse struct {
	Seq        uint64                   `json:"seq"`
	Stale      bool                     `json:"stale,omitempty"`
	Query      string                   `json:"query"`
	Candidates []entity.Candidate       `json:"candidates"`
	Location   *entity.ResolvedLocation `json:"location,omitempty"`
}

// Search handles the aggregated candidate search request
func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	foreignOnly, _ := strconv.ParseBool(c.QueryParam("foreign"))

	// The sequence number is issued before the fan-out so a slow response
	// can be recognized as superseded afterwards.
	seq := h.sessionUC.NextSeq()

	output, err := h.searchUC.Search(c.Request().Context(), usecase.SearchInput{
		Query:       query,
		ForeignOnly: foreignOnly,
	})
	if err != nil {
		if errors.Is(err, source.ErrForeignDisabled) {
			return response.Error(c,
				domainerrors.ErrForeignDisabled.HTTPCode(),
				domainerrors.ErrForeignDisabled.ErrorCode(),
				domainerrors.ErrForeignDisabled.Message(), "")
		}

		return errors.WithStack(err)
	}

	if !h.sessionUC.Accept(seq) {
		return response.Success(c, http.StatusOK, SearchResponse{
			Seq:   seq,
			Stale: true,
			Query: output.Query,
		}, "Search superseded by a newer request")
	}

	payload := SearchResponse{
		Seq:        seq,
		Query:      output.Query,
		Candidates: output.Candidates,
	}

	if output.Coordinate != nil {
		location, err := h.resolveUC.ReverseAt(c.Request().Context(),
			output.Coordinate.Lat, output.Coordinate.Lon)
		if err != nil {
			return errors.WithStack(err)
		}
		h.sessionUC.AddMarker(*location)
		payload.Location = location
	}

	return response.Success(c, http.StatusOK, payload, "Search completed")
}

// Quota reports the foreign geocoder's last observed rate-limit state
func (h *SearchHandler) Quota(c echo.Context) error {
	status, ok := h.searchUC.Quota()
	if !ok {
		return response.NotFound(c,
			domainerrors.ErrQuotaUnknown.ErrorCode(),
			domainerrors.ErrQuotaUnknown.Message())
	}

	return response.Success(c, http.StatusOK, status, "Quota retrieved")
}
