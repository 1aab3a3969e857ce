package handler

import (
	"log/slog"
	"net/http"

	"kompas/internal/delivery/http/response"
	domainerrors "kompas/internal/domain/errors"
	"kompas/internal/domain/source"
	"kompas/internal/usecase"
	"kompas/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// RouteHandlerParams holds dependencies for RouteHandler, injected by Fx.
type RouteHandlerParams struct {
	fx.In

	RouteUC   usecase.RouteUsecase
	SessionUC usecase.SessionUsecase
	Logger    *slog.Logger
}

// RouteHandler holds dependencies for route-related handlers
type RouteHandler struct {
	routeUC   usecase.RouteUsecase
	sessionUC usecase.SessionUsecase
	logger    *slog.Logger
}

// NewRouteHandler is the constructor for RouteHandler
func NewRouteHandler(params RouteHandlerParams) *RouteHandler {
	return &RouteHandler{
		routeUC:   params.RouteUC,
		sessionUC: params.SessionUC,
		logger:    params.Logger,
	}
}

// ReplanRequest changes the travel profile or preference of the active plan.
type ReplanRequest struct {
	Profile    string `json:"profile"`
	Preference string `json:"preference"`
}

// Plan handles the route planning request
func (h *RouteHandler) Plan(c echo.Context) error {
	var input usecase.RouteInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid route input")
	}

	plan, err := h.routeUC.Plan(c.Request().Context(), input)
	if err != nil {
		return h.mapRouteError(c, err)
	}
	h.sessionUC.SetRoutePlan(input, plan)

	return response.Success(c, http.StatusOK, plan, "Route planned")
}

// Replan recomputes the active plan with a different profile or preference
func (h *RouteHandler) Replan(c echo.Context) error {
	var req ReplanRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid replan input")
	}

	input, _, ok := h.sessionUC.RoutePlan()
	if !ok {
		return response.NotFound(c,
			domainerrors.ErrNoActivePlan.ErrorCode(),
			domainerrors.ErrNoActivePlan.Message())
	}

	if req.Profile != "" {
		input.Profile = req.Profile
	}
	if req.Preference != "" {
		input.Preference = req.Preference
	}

	plan, err := h.routeUC.Plan(c.Request().Context(), input)
	if err != nil {
		return h.mapRouteError(c, err)
	}
	h.sessionUC.SetRoutePlan(input, plan)

	return response.Success(c, http.StatusOK, plan, "Route replanned")
}

// Clear drops the active plan
func (h *RouteHandler) Clear(c echo.Context) error {
	h.sessionUC.ClearRoutePlan()

	return response.Success(c, http.StatusOK, nil, "Route cleared")
}

// Endpoint resolves route endpoint text to a coordinate
func (h *RouteHandler) Endpoint(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return response.BadRequest(c, "INVALID_INPUT", "q must not be empty")
	}

	coordinate, err := h.routeUC.ResolveEndpoint(c.Request().Context(), query)
	if err != nil {
		return h.mapRouteError(c, err)
	}

	return response.Success(c, http.StatusOK, coordinate, "Endpoint resolved")
}

func (h *RouteHandler) mapRouteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, impl.ErrMissingEndpoint):
		return response.BadRequest(c,
			domainerrors.ErrEndpointMissing.ErrorCode(),
			domainerrors.ErrEndpointMissing.Message())
	case errors.Is(err, impl.ErrEndpointNotFound):
		return response.NotFound(c,
			domainerrors.ErrEndpointNotFound.ErrorCode(),
			domainerrors.ErrEndpointNotFound.Message())
	case errors.Is(err, source.ErrForeignDisabled):
		return response.Error(c,
			domainerrors.ErrForeignDisabled.HTTPCode(),
			domainerrors.ErrForeignDisabled.ErrorCode(),
			domainerrors.ErrForeignDisabled.Message(), "")
	default:
		return errors.WithStack(err)
	}
}
