package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yanun0323/logs"

	"main/internal/api"
	"main/internal/bridge"
	"main/internal/checkpoint"
	"main/internal/history"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/queue"
	"main/internal/storage"
	"main/internal/strategy"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		logs.Errorf("load config, err: %+v", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil && ctx.Err() == nil {
		logs.Errorf("trader exited, err: %+v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg ops.Config) error {
	repo, err := storage.Open(cfg.Postgres.Option())
	if err != nil {
		return err
	}
	if err := repo.AutoMigrate(); err != nil {
		return err
	}

	var (
		store checkpoint.Store
		q     queue.Queue
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		logs.Info("redis connected")
		store = checkpoint.NewRedis(rdb)
		q = queue.NewRedis(rdb, "")
	} else {
		store = checkpoint.NewMemory()
		q = queue.NewMemory()
	}

	session := bridge.NewSession(cfg.Bridge.HeartbeatInterval())
	engine := strategy.New(store, q, session, strategy.Defaults{
		Gap:           cfg.Strategy.DefaultGap,
		EclipseBuffer: cfg.Strategy.DefaultEclipseBuffer,
		Volume:        cfg.Strategy.DefaultVolume,
	})

	migrator := history.New(q, repo, cfg.Migrator.Interval(), cfg.Migrator.BatchSize)
	go migrator.Run(ctx)

	obs.Serve(cfg.Metrics.Addr)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()
	api.NewHandler(repo, store, session).Register(router)
	apiSrv := &http.Server{Addr: cfg.API.Addr, Handler: router}
	go func() {
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Errorf("api listener, err: %+v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = apiSrv.Close()
	}()

	switch cfg.Bridge.Mode {
	case ops.BridgeModeClient:
		return bridge.NewClient(cfg.Bridge.Addr, session, engine, cfg.Bridge.RedialBackoff()).Run(ctx)
	default:
		return bridge.NewServer(cfg.Bridge.Addr, session, engine).Run(ctx)
	}
}
