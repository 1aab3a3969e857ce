package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kompas/internal/domain/entity"
	"kompas/internal/usecase"
	"kompas/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRouteUC struct {
	plan      *entity.RoutePlan
	err       error
	lastInput usecase.RouteInput
}

func (s *stubRouteUC) ResolveEndpoint(_ context.Context, _ string) (*entity.Coordinate, error) {
	return nil, s.err
}

func (s *stubRouteUC) Plan(_ context.Context, input usecase.RouteInput) (*entity.RoutePlan, error) {
	s.lastInput = input
	return s.plan, s.err
}

func newRouteTestHandler(routeUC usecase.RouteUsecase) (*RouteHandler, usecase.SessionUsecase) {
	sessionUC := impl.NewSessionService()

	return NewRouteHandler(RouteHandlerParams{
		RouteUC:   routeUC,
		SessionUC: sessionUC,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), sessionUC
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestRouteHandler_Plan_StoresSessionPlan(t *testing.T) {
	routeUC := &stubRouteUC{plan: &entity.RoutePlan{DistanceM: 145_000, Profile: "driving-car"}}
	handler, sessionUC := newRouteTestHandler(routeUC)

	e := echo.New()
	c, rec := postJSON(e, "/routes", `{"from":"Odense","to":"Aarhus","profile":"driving-car"}`)

	require.NoError(t, handler.Plan(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	input, plan, ok := sessionUC.RoutePlan()
	require.True(t, ok)
	assert.Equal(t, "Odense", input.From)
	assert.Equal(t, "driving-car", plan.Profile)
}

func TestRouteHandler_Replan_ChangesProfile(t *testing.T) {
	routeUC := &stubRouteUC{plan: &entity.RoutePlan{Profile: "cycling-regular"}}
	handler, sessionUC := newRouteTestHandler(routeUC)
	sessionUC.SetRoutePlan(
		usecase.RouteInput{From: "Odense", To: "Aarhus", Profile: "driving-car"},
		&entity.RoutePlan{Profile: "driving-car"},
	)

	e := echo.New()
	c, rec := postJSON(e, "/routes/replan", `{"profile":"cycling-regular"}`)

	require.NoError(t, handler.Replan(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cycling-regular", routeUC.lastInput.Profile)
	assert.Equal(t, "Odense", routeUC.lastInput.From)
}

func TestRouteHandler_Replan_WithoutPlan(t *testing.T) {
	handler, _ := newRouteTestHandler(&stubRouteUC{})

	e := echo.New()
	c, rec := postJSON(e, "/routes/replan", `{"profile":"cycling-regular"}`)

	require.NoError(t, handler.Replan(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_ACTIVE_PLAN")
}

func TestRouteHandler_Clear(t *testing.T) {
	handler, sessionUC := newRouteTestHandler(&stubRouteUC{})
	sessionUC.SetRoutePlan(usecase.RouteInput{From: "Odense", To: "Aarhus"}, &entity.RoutePlan{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/routes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.Clear(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, _, ok := sessionUC.RoutePlan()
	assert.False(t, ok)
}

func TestRouteHandler_Plan_MissingEndpoint(t *testing.T) {
	handler, _ := newRouteTestHandler(&stubRouteUC{err: impl.ErrMissingEndpoint})

	e := echo.New()
	c, rec := postJSON(e, "/routes", `{"from":"Odense"}`)

	require.NoError(t, handler.Plan(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ENDPOINT_MISSING")
}
