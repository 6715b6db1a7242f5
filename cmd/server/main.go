package main

import (
	"flag"
	"log"

	"github.com/cloudwego/hertz/pkg/app/server"

	httpadapter "dominion/internal/adapter/http"
	metricsinmem "dominion/internal/adapter/metrics/inmemory"
	gormrepo "dominion/internal/adapter/repo/gorm"
	memrepo "dominion/internal/adapter/repo/memory"
	"dominion/internal/app/game"
	"dominion/internal/app/ports"
	"dominion/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	txManager, queueRepo, reportRepo := buildRepos(cfg)
	recorder := metricsinmem.NewRecorder()
	games := game.NewUseCase(txManager, queueRepo, reportRepo, recorder)

	h := httpadapter.Handler{Games: games, KPI: recorder}
	s := server.Default(server.WithHostPorts(cfg.Listen))
	h.RegisterRoutes(s)

	log.Printf("dominion server listening on %s (seed %d)", cfg.Listen, cfg.Seed)
	s.Spin()
}

// buildRepos wires Postgres persistence when a DSN is configured and falls
// back to the in-memory store otherwise.
func buildRepos(cfg config.Config) (ports.TxManager, ports.QueueRepository, ports.ReportRepository) {
	if cfg.DatabaseDSN == "" {
		store := memrepo.NewStore()
		return memrepo.NewTxManager(store), memrepo.NewQueueRepo(store), memrepo.NewReportRepo(store)
	}
	db, err := gormrepo.OpenPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	return gormrepo.NewTxManager(db), gormrepo.NewQueueRepo(db), gormrepo.NewReportRepo(db)
}
