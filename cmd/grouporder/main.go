// Command grouporder runs a group food order: the admin creates a token and
// shares it, participants place orders against it, and the admin exports a
// per-person summary.
//
// Usage:
//
//	grouporder token create -d "Friday lunch"
//	grouporder token list
//	grouporder token show <id>
//	grouporder token close <id>
//	grouporder token qr <id> [-o file.png]
//	grouporder export <id> [-o dir]
//	grouporder order
//	grouporder menu
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/grouporder/internal/config"
	"github.com/mmynk/grouporder/internal/ledger"
	"github.com/mmynk/grouporder/internal/storage"
	"github.com/mmynk/grouporder/internal/storage/memory"
	"github.com/mmynk/grouporder/internal/storage/redis"
	"github.com/mmynk/grouporder/internal/storage/sqlite"
	"github.com/mmynk/grouporder/pkg/logging"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(out)
		if len(args) == 0 {
			return errUsage
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The intake form owns the terminal, so its logs go to a file.
	if args[0] == "order" {
		closer, err := logging.SetupFile(cfg.Log.File, cfg.Log.Level)
		if err != nil {
			return err
		}
		defer closer.Close()
	} else {
		logging.Setup(cfg.Log.Level)
	}

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	c := newCLI(cfg, ledger.New(store, ledger.WithRegisterer(reg)), out)

	err = c.dispatch(ctx, args)

	if cfg.Metrics.File != "" {
		if werr := prometheus.WriteToTextfile(cfg.Metrics.File, reg); werr != nil {
			slog.Warn("Failed to write metrics", "path", cfg.Metrics.File, "error", werr)
		}
	}
	return err
}

func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		store, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Debug("Storage initialized", "backend", cfg.Backend, "addr", cfg.RedisAddr)
		return store, nil
	case config.BackendMemory:
		slog.Debug("Storage initialized", "backend", cfg.Backend)
		return memory.New(), nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		slog.Debug("Storage initialized", "backend", cfg.Backend, "database", cfg.DBPath)
		return store, nil
	}
}
