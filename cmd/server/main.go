package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	staticequipment "tutien/internal/adapter/equipment/static"
	httpadapter "tutien/internal/adapter/http"
	metricsinmem "tutien/internal/adapter/metrics/inmemory"
	"tutien/internal/adapter/random"
	gormrepo "tutien/internal/adapter/repo/gorm"
	"tutien/internal/adapter/repo/memory"
	sqliterepo "tutien/internal/adapter/repo/sqlite"
	"tutien/internal/app/breakthrough"
	"tutien/internal/app/cultivation"
	"tutien/internal/app/ports"
	"tutien/internal/app/reconciler"
	"tutien/internal/app/replay"
	"tutien/internal/app/shared/playerlock"
	"tutien/internal/app/shared/playerstore"
	"tutien/internal/app/status"
	"tutien/internal/domain/progression"
	"tutien/internal/domain/realm"
	"tutien/internal/platform/config"
	"tutien/migrations"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Server) *slog.Logger {
	level, _ := cfg.SlogLevel()
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, cfg config.Server, logger *slog.Logger) error {
	repos, err := openRepos(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()

	equipment, err := staticequipment.Load(cfg.EquipmentFile)
	if err != nil {
		return err
	}

	catalog := realm.Default()
	engine := progression.BreakthroughService{Catalog: catalog}
	kpi := metricsinmem.NewRecorder()
	store := playerstore.Store{
		TxManager: repos.tx,
		Players:   repos.players,
		Events:    repos.events,
		Locks:     playerlock.New(),
		Catalog:   catalog,
		Location:  cfg.Location(),
	}
	cultivationUC := cultivation.UseCase{
		Store:    store,
		Sessions: progression.SessionService{Catalog: catalog},
		Metrics:  kpi,
		Workers:  cfg.ReconcileWorkers,
		Now:      time.Now,
	}

	rec, err := reconciler.New(cultivationUC, reconciler.Config{
		ExpirySchedule:     cfg.ExpirySchedule,
		DailyResetSchedule: cfg.DailyResetSchedule,
		Location:           cfg.Location(),
		JobTimeout:         cfg.ReconcileTimeout,
	}, logger)
	if err != nil {
		return err
	}
	// Catch up on sessions that ended and days that rolled while the process was down.
	if err := rec.RunOnce(ctx); err != nil {
		logger.Warn("startup reconcile incomplete", "err", err)
	}
	rec.Start()

	h := httpadapter.Handler{
		CultivationUC: cultivationUC,
		BreakthroughUC: breakthrough.UseCase{
			Store:     store,
			Engine:    engine,
			Equipment: equipment,
			Random:    random.New(cfg.RandomSeed),
			Metrics:   kpi,
			Now:       time.Now,
		},
		StatusUC: status.UseCase{Players: repos.players, Engine: engine, Location: cfg.Location(), Now: time.Now},
		ReplayUC: replay.UseCase{Events: repos.events},
		Catalog:  catalog,
		KPI:      kpi,
		Logger:   logger,
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr), server.WithExitWaitTime(5*time.Second))
	h.RegisterRoutes(s)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run() }()
	logger.Info("tutien server listening", "addr", cfg.HTTPAddr, "store", cfg.Store, "timezone", cfg.Location().String())

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rec.Stop(shutdownCtx); err != nil {
		logger.Warn("reconciler stop", "err", err)
	}
	if runErr == nil {
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown", "err", err)
		}
	}
	logger.Info("tutien server stopped")
	return runErr
}

type backend struct {
	players ports.PlayerRepository
	events  ports.EventRepository
	tx      ports.TxManager
	close   func() error
}

func openRepos(ctx context.Context, cfg config.Server) (backend, error) {
	switch cfg.Store {
	case config.StoreMemory:
		st := memory.NewStore()
		return backend{
			players: memory.NewPlayerRepo(st),
			events:  memory.NewEventRepo(st),
			tx:      memory.NewTxManager(st),
			close:   func() error { return nil },
		}, nil
	case config.StoreSQLite:
		db, err := sqliterepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return backend{}, err
		}
		return backend{
			players: sqliterepo.NewPlayerRepo(db),
			events:  sqliterepo.NewEventRepo(db),
			tx:      sqliterepo.NewTxManager(db),
			close:   db.Close,
		}, nil
	case config.StorePostgres:
		db, err := gormrepo.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			return backend{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return backend{}, fmt.Errorf("postgres handle: %w", err)
		}
		if err := gormrepo.ApplyMigrations(ctx, db, migrationsFS(cfg.MigrationsDir)); err != nil {
			_ = sqlDB.Close()
			return backend{}, err
		}
		return backend{
			players: gormrepo.NewPlayerRepo(db),
			events:  gormrepo.NewEventRepo(db),
			tx:      gormrepo.NewTxManager(db),
			close:   sqlDB.Close,
		}, nil
	default:
		return backend{}, errors.New("unknown store " + cfg.Store)
	}
}

// migrationsFS reads dir when set and falls back to the embedded set.
func migrationsFS(dir string) fs.FS {
	if dir = strings.TrimSpace(dir); dir != "" {
		return os.DirFS(dir)
	}
	return migrations.Postgres()
}
