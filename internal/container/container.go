package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"commerce/connector/internal/cache"
	"commerce/connector/internal/client"
	"commerce/connector/internal/config"
	"commerce/connector/internal/mapper"
	"commerce/connector/internal/metrics"
	"commerce/connector/internal/scheduler"
	"commerce/connector/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config    *config.Config
	Client    client.CatalogService
	Cache     *cache.Cache
	Mapper    *mapper.Mapper
	Scheduler *scheduler.Scheduler
	Registry  *prometheus.Registry

	httpServer *http.Server
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	registry := prometheus.NewRegistry()
	catalogMetrics := metrics.NewCatalog(registry)

	gateway := client.NewMagentoClient(cfg.Magento, cfg.Catalog.CategoryDepth, catalogMetrics)
	catalogCache := cache.New(gateway, cfg.Catalog.RootCategoryID, cfg.Catalog.CachingEnabled, catalogMetrics)
	catalogMapper := mapper.New(cfg.Catalog.RootPath, catalogCache, gateway)

	srv := &server.Server{
		Mapper:   catalogMapper,
		Registry: registry,
	}

	return &Container{
		Config:    cfg,
		Client:    gateway,
		Cache:     catalogCache,
		Mapper:    catalogMapper,
		Scheduler: scheduler.New(),
		Registry:  registry,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: srv.Routes(),
		},
	}, nil
}

// Run starts the periodic cache refresh job and serves the resource API
// until the context is cancelled.
func (c *Container) Run(ctx context.Context) error {
	if c.Config.Catalog.CachingEnabled && c.Config.Catalog.SchedulerEnabled {
		period := time.Duration(c.Config.Catalog.CacheRefreshMinutes) * time.Minute
		c.Scheduler.Schedule(ctx, "catalog.refresh", period, c.Cache.ScheduledRefresh)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Serving catalog resource API on %s", c.httpServer.Addr)
		if err := c.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return c.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")
	c.Scheduler.Stop()
	log.Info("Container shut down successfully")
	return nil
}
