// Command seed bootstraps a database: the first admin account, the reference
// difficulty levels and languages, and generated algorithm content.
//
//	go run ./cmd/seed -admin -base -content content-generator/generated
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/CHOJUNGHO96/algo-reference/internal/config"
	"github.com/CHOJUNGHO96/algo-reference/internal/logger"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository"
	"github.com/CHOJUNGHO96/algo-reference/internal/repository/db"
	"github.com/CHOJUNGHO96/algo-reference/internal/seed"
	"github.com/CHOJUNGHO96/algo-reference/internal/service"
)

func main() {
	var (
		configDir  = flag.String("config", "configs", "directory containing config.yml")
		withAdmin  = flag.Bool("admin", false, "create the first admin from seed.admin_email / seed.admin_password")
		withBase   = flag.Bool("base", false, "insert difficulty levels and programming languages")
		contentDir = flag.String("content", "", "import generated *.json content from this directory (\"-\" uses seed.content_dir)")
	)
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		logger.Get(logger.InfoLevel, logger.ConsoleEncoding).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	if !*withAdmin && !*withBase && *contentDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatalw("failed to open database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() { _ = conn.Close() }()

	repos := repository.NewRepository(conn, repository.Options{
		Dialect:      repository.DialectFor(cfg.DB.Driver),
		QueryTimeout: cfg.DB.QueryTimeout,
	})
	auth := service.NewAuthService(repos.Users, service.NewTokenManager(cfg.Auth))
	seeder := seed.New(repos, auth, log)

	if *withAdmin {
		if cfg.Seed.AdminPassword == "" {
			log.Fatalw("seed.admin_password is empty; set ALGOREF_SEED_ADMIN_PASSWORD")
		}
		if _, err := seeder.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
			log.Fatalw("admin bootstrap failed", "err", err)
		}
	}

	if *withBase {
		if _, err := seeder.SeedBase(ctx); err != nil {
			log.Fatalw("base data seeding failed", "err", err)
		}
	}

	if *contentDir != "" {
		dir := *contentDir
		if dir == "-" {
			dir = cfg.Seed.ContentDir
		}
		stats, err := seeder.ImportDir(ctx, dir)
		if err != nil {
			log.Fatalw("content import failed", "dir", dir, "err", err)
		}
		log.Infow("seed_summary",
			"algorithms", stats.Algorithms,
			"templates", stats.Templates,
			"categories", stats.Categories,
			"difficulties", stats.Difficulties,
			"languages", stats.Languages,
			"skipped", stats.Skipped,
			"errors", stats.Errors,
		)
	}
}
