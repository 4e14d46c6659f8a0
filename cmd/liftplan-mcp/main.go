package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/liftplan/internal/config"
	liftmcp "github.com/claude/liftplan/internal/mcp"
	"github.com/claude/liftplan/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	login := flag.String("user", "local", "login name to scope queries to")
	flag.Parse()

	// Logs go to stderr: stdout carries the MCP stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	uid, err := db.GetOrCreateUser(ctx, *login, "")
	if err != nil {
		log.Error("user lookup failed", "login", *login, "error", err)
		os.Exit(1)
	}

	s := liftmcp.New(db, Version, log)
	log.Info("MCP server starting", "transport", "stdio", "user", *login)

	err = server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return liftmcp.WithUserID(ctx, uid)
	}))
	if err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
