package main

import (
	"context"
	"log/slog"
	"os"

	"kompas/config"
	"kompas/internal/delivery"
	"kompas/internal/delivery/http"
	"kompas/internal/delivery/http/router/handler"
	"kompas/internal/infra/bbr"
	"kompas/internal/infra/beachpost"
	"kompas/internal/infra/dataforsyningen"
	logs "kompas/internal/infra/log"
	"kompas/internal/infra/ors"
	"kompas/internal/infra/vejdirektoratet"
	"kompas/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectSource(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		dataforsyningenConfig,
		orsConfig,
		roadAuthorityConfig,
		buildingRegistryConfig,
		pointFeaturesConfig,
	)
}

// The source adapters take their own config section; fx resolves these
// through the extractor providers above.
func dataforsyningenConfig(cfg *config.Config) *config.DataforsyningenConfig {
	return cfg.Dataforsyningen
}

func orsConfig(cfg *config.Config) *config.ORSConfig {
	return cfg.ORS
}

func roadAuthorityConfig(cfg *config.Config) *config.RoadAuthorityConfig {
	return cfg.RoadAuthority
}

func buildingRegistryConfig(cfg *config.Config) *config.BuildingRegistryConfig {
	return cfg.BuildingRegistry
}

func pointFeaturesConfig(cfg *config.Config) *config.PointFeaturesConfig {
	return cfg.PointFeatures
}

func injectSource() fx.Option {
	return fx.Options(
		fx.Provide(
			dataforsyningen.NewAddressSource,
			dataforsyningen.NewPlaceNameSource,
			dataforsyningen.NewNamedRoadSource,
			dataforsyningen.NewMunicipalitySource,
			beachpost.New,
			ors.NewQuotaTracker,
			ors.NewGeocoder,
			ors.NewRoutePlanner,
			vejdirektoratet.New,
			bbr.NewBuildingRegistry,
			bbr.NewParcelRegistry,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSearchService,
			impl.NewResolveService,
			impl.NewEnrichmentService,
			impl.NewRouteService,
			impl.NewSessionService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSearchHandler,
			handler.NewLocationHandler,
			handler.NewRouteHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
