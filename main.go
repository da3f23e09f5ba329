package main

import (
	"context"
	"log"

	"owlbench/adapters/memfile"
	"owlbench/adapters/memory"
	"owlbench/adapters/postgres"
	"owlbench/app"
	"owlbench/internal"
	"owlbench/internal/analysis"
	"owlbench/internal/config"
	"owlbench/internal/errors"
	"owlbench/ports"
	"owlbench/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initArchive wires the run archive: PostgreSQL when DATABASE_URL is set,
// in-memory otherwise. The in-memory fallback keeps single-node and local
// usage free of infrastructure.
func initArchive(appConfig *config.Config, logger *internal.Logger) (ports.RunArchive, func(), error) {
	if appConfig.Database.URL == "" {
		logger.Info("DATABASE_URL not set, archiving runs in memory")
		return memory.NewArchive(), func() {}, nil
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "failed to ping database")
	}

	repo := postgres.NewRunRepository(db).(*postgres.RunRepositoryImpl)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("archiving runs in PostgreSQL")
	return repo, func() { db.Close() }, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.DefaultLogger
	gin.SetMode(appConfig.Server.GinMode)

	archive, closeArchive, err := initArchive(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to initialize run archive: %v", err)
	}
	defer closeArchive()

	engine := analysis.NewEngine(appConfig.Analysis.SignificanceLevel, logger)
	profiler := memfile.NewProfiler(appConfig.Paths.MemoryMetricsFile)
	service := app.NewAnalysisService(engine, archive, profiler, logger)

	server := ui.NewServer(service, logger)
	if err := server.Run(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
