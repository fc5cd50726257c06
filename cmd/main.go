// @title                       Algorithm Reference API
// @version                     1.0
// @description                 Algorithm learning content: public catalog, search and authoring.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/CHOJUNGHO96/algo-reference/docs"
	"github.com/CHOJUNGHO96/algo-reference/internal/config"
	"github.com/CHOJUNGHO96/algo-reference/internal/handlers"
	"github.com/CHOJUNGHO96/algo-reference/internal/logger"
	"github.com/CHOJUNGHO96/algo-reference/internal/metrics"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository/db"
	"github.com/CHOJUNGHO96/algo-reference/internal/server"
	"github.com/CHOJUNGHO96/algo-reference/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yml")
	flag.Parse()

	// load config.yml
	cfg, err := config.Load(*configDir)
	if err != nil {
		logger.Get(logger.InfoLevel, logger.ConsoleEncoding).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()
	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// open DB and apply migrations
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to open database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn, repository.Options{
		Dialect:      repository.DialectFor(cfg.DB.Driver),
		QueryTimeout: cfg.DB.QueryTimeout,
	})
	services := service.NewService(repos, service.NewTokenManager(cfg.Auth))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	limiter := handlers.NewLoginLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst)
	defer limiter.Stop()

	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		Metrics:        metrics.NewCollector(reg),
		Gatherer:       reg,
		LoginLimiter:   limiter,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	// start HTTP server
	srv := server.New(cfg.HTTP, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return db.Open(ctx, cfg.DB, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("http_server_listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
