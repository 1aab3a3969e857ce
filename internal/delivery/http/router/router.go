// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"kompas/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SearchHandler   *handler.SearchHandler
	LocationHandler *handler.LocationHandler
	RouteHandler    *handler.RouteHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	searchHandler   *handler.SearchHandler
	locationHandler *handler.LocationHandler
	routeHandler    *handler.RouteHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		searchHandler:   params.SearchHandler,
		locationHandler: params.LocationHandler,
		routeHandler:    params.RouteHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Search routes
	searchGroup := e.Group("/search")
	{
		searchGroup.GET("", r.searchHandler.Search)
		searchGroup.GET("/quota", r.searchHandler.Quota)
	}

	// Location routes
	locationGroup := e.Group("/locations")
	{
		locationGroup.POST("/select", r.locationHandler.Select)
		locationGroup.GET("/reverse", r.locationHandler.Reverse)
		locationGroup.GET("/markers", r.locationHandler.Markers)
		locationGroup.DELETE("/markers", r.locationHandler.ClearMarkers)
		locationGroup.PUT("/markers/keep", r.locationHandler.SetKeepMarkers)
	}

	// Route planning routes
	routeGroup := e.Group("/routes")
	{
		routeGroup.POST("", r.routeHandler.Plan)
		routeGroup.POST("/replan", r.routeHandler.Replan)
		routeGroup.DELETE("", r.routeHandler.Clear)
		routeGroup.GET("/endpoint", r.routeHandler.Endpoint)
	}
}
