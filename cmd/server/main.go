package main

import (
	"context"
	"embed"
	"fmt"
	"os"

	boar "github.com/ejgyurisan/boar-server"
	"github.com/ejgyurisan/boar-server/config"
	"github.com/ejgyurisan/boar-server/logger"
	"github.com/ejgyurisan/boar-server/middleware"
)

//go:embed migrations
var migrationsFS embed.FS

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.New("boar-server")
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "boar.db"
	}

	app := boar.New(cfg, log)
	app.UseCORS(middleware.CORSConfig{})
	app.UseSecurityHeaders(middleware.SecurityHeadersConfig{})
	app.UseMethodOverride()
	app.UseGzip()
	app.UseBodyLimit()

	if cfg.Assets.StaticDir != "" {
		app.UseStatic("/static")
	}
	if cfg.Assets.ViewsDir != "" {
		if err := app.UseViews(); err != nil {
			log.Fatal().Err(err).Msg("error loading views")
		}
	}

	ctx := context.Background()
	if err := app.AttachModels(ctx, entriesModel{}); err != nil {
		log.Fatal().Err(err).Msg("error attaching models")
	}
	if err := app.Migrate(migrationsFS, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	if err := app.MountControllers(
		&entriesController{app: app},
		&pagesController{app: app},
	); err != nil {
		log.Fatal().Err(err).Msg("error mounting controllers")
	}

	if err := app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
