package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/Phuzzle/exerpal/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// exerpal-mcp runs the MCP server over stdio, backed by a remote Exerpal
// instance via its REST API. Typically the remote server is reached over
// Tailscale, which also authenticates the caller.
func main() {
	// .env before flag defaults so EXERPAL_SERVER_URL from a .env file
	// feeds the -server default.
	_ = godotenv.Load()

	serverURL := flag.String("server", os.Getenv("EXERPAL_SERVER_URL"), "base URL of the Exerpal server (e.g. http://exerpal)")
	flag.Parse()

	// stdout carries the MCP transport; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" {
		log.Error("no server URL: set -server or EXERPAL_SERVER_URL")
		os.Exit(1)
	}

	ds := mcp.NewHTTPClient(*serverURL)
	s := mcp.New(ds, Version, log)

	log.Info("exerpal-mcp starting", "server", *serverURL, "version", Version)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}
