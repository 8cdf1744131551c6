package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlevasseur/stationnement/api"
	"github.com/mlevasseur/stationnement/config"
	"github.com/mlevasseur/stationnement/internal/repository"
	"github.com/mlevasseur/stationnement/internal/service/facilities"
	"github.com/mlevasseur/stationnement/internal/service/session"
	"github.com/mlevasseur/stationnement/internal/tariff"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, catalog *tariff.Catalog, sessionSvc session.SessionUseCase, facilitySvc facilities.FacilityUseCase, vehicles repository.VehicleRepository) error {
	router := gin.Default()

	sessionHandler := api.NewSessionHandler(sessionSvc)
	vehicleHandler := api.NewVehicleHandler(vehicles, sessionSvc)
	zoneHandler := api.NewZoneHandler(catalog, facilitySvc)

	v1 := router.Group("/api/v1")
	sessionHandler.Register(v1.Group("/sessions"))
	vehicleHandler.Register(v1)
	zoneHandler.Register(v1)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
