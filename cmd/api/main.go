package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gosurv/adapters/api"
	"gosurv/adapters/excel"
	"gosurv/adapters/postgres"
	"gosurv/app"
	"gosurv/domain/core"
	"gosurv/domain/survival"
	"gosurv/internal/config"
	"gosurv/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Data.File == "" {
		log.Fatal("CLINICAL_FILE must point to a clinical .xlsx or .csv file")
	}

	table, err := excel.NewClinicalReader(cfg.Data.File).Read()
	if err != nil {
		log.Fatalf("load clinical table: %v", err)
	}
	if cfg.Data.Subtype != "" {
		table = table.FilterSubtype(cfg.Data.Subtype)
		log.Printf("[Main] restricted to subtype %q: %d patients", cfg.Data.Subtype, table.Len())
	}

	store := &sweepStore{mem: report.NewStore()}
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		repo := postgres.NewSweepRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		store.db = repo
		log.Printf("[Main] sweep persistence enabled")
	}

	opts := app.DefaultSweepOptions()
	opts.MinGroupSize = cfg.Data.MinGroupSize
	opts.Workers = cfg.Data.Workers
	opts.Dataset = cfg.Data.File
	opts.Subtype = cfg.Data.Subtype

	if cfg.Report.Enabled {
		go func() {
			if err := report.NewApp(store.mem).Run(cfg.Report.Port); err != nil {
				log.Printf("[Report] server stopped: %v", err)
			}
		}()
	}

	gin.SetMode(cfg.Server.GinMode)
	if err := api.NewServer(table, store, opts).Run(cfg.Server.Port); err != nil {
		log.Printf("[API] server stopped: %v", err)
		os.Exit(1)
	}
}

// sweepStore fans writes out to the in-memory report store and, when
// configured, the database; reads prefer memory and fall back to the
// database.
type sweepStore struct {
	mem *report.Store
	db  *postgres.SweepRepository
}

func (s *sweepStore) SaveBatch(ctx context.Context, batch *survival.BatchResult) error {
	if err := s.mem.SaveBatch(ctx, batch); err != nil {
		return err
	}
	if s.db != nil {
		return s.db.SaveBatch(ctx, batch)
	}
	return nil
}

func (s *sweepStore) GetBatch(ctx context.Context, id core.SweepID) (*survival.BatchResult, error) {
	if batch, err := s.mem.GetBatch(ctx, id); err == nil {
		return batch, nil
	}
	if s.db != nil {
		return s.db.GetBatch(ctx, id)
	}
	return nil, core.ErrSweepNotFound
}

// ListSweeps prefers the database when configured, since it holds the
// full history across restarts; memory only covers the current process.
func (s *sweepStore) ListSweeps(ctx context.Context) ([]survival.SweepSummary, error) {
	if s.db != nil {
		return s.db.ListSweeps(ctx)
	}
	return s.mem.ListSweeps(ctx)
}
