// cmd/catalog-service/main.go
package main

import (
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/service/catalog/application"
	"storefront/internal/service/catalog/infrastructure"
	"storefront/internal/service/catalog/interfaces"
)

const serviceName = "catalog-service"

func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()

	db, err := infrastructure.NewMysqlDB(cfg.Infra.Mysql.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("🛑 failed to connect to mysql")
	}

	repo := infrastructure.NewGormProductRepository(db)
	service := application.NewCatalogService(repo, otel.Tracer(serviceName))
	handler := interfaces.NewCatalogHandler(service)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.CatalogPort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
