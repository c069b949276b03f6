package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Phuzzle/exerpal/internal/config"
	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/mcp"
	"github.com/Phuzzle/exerpal/internal/server"
	"github.com/Phuzzle/exerpal/internal/tracker"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// Optional .env for local development; env vars override config.yaml.
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Exerpal starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store docstore.Store
	switch cfg.Store.Driver {
	case "postgres":
		dsn := cfg.Store.Postgres.DSN()
		if err := docstore.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}
		pg, err := docstore.NewPostgres(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
		log.Info("database connected", "driver", "postgres")
	case "sqlite":
		db, err := docstore.OpenSQLite(cfg.Store.SQLite.Path)
		if err != nil {
			log.Error("failed to open sqlite store", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		store = db
		log.Info("store opened", "driver", "sqlite", "path", cfg.Store.SQLite.Path)
	default:
		store = docstore.NewMemory()
		log.Warn("using in-memory store, data will not survive restarts")
	}

	if *migrateOnly {
		log.Info("migrate-only: nothing to do for this driver")
		return
	}

	tr := tracker.New(store, log)

	// Start server — tsnet or plain HTTP
	var srv *server.Server
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv = server.NewWithTailscale(tr, lc, log)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		srv = server.New(tr, log)
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	mcpSrv := mcp.New(tr, Version, log)
	srv.MountMCP("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
