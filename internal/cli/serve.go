package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/log"
	"github.com/Makepad-fr/tada/internal/repository"
	"github.com/Makepad-fr/tada/internal/server"
	"github.com/Makepad-fr/tada/internal/service"
)

type serveFlags struct {
	addr     string
	storage  string
	dbPath   string
	testMode bool
	release  bool
}

func (a *app) serveCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference todo service",
		Long: `Run the reference todo service over HTTP.

Examples:
  tada serve
  tada serve --addr :9090 --storage json --db todos.json
  tada serve --storage memory --test-mode`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.addr, "addr", "", "listen address (default from config, :8080)")
	fl.StringVar(&f.storage, "storage", "", "storage backend: memory, sqlite or json")
	fl.StringVar(&f.dbPath, "db", "", "database or JSON file path")
	fl.BoolVar(&f.testMode, "test-mode", false, "expose POST /api/test/truncate")
	fl.BoolVar(&f.release, "release", false, "run gin in release mode")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, f serveFlags) error {
	sc := a.cfg.Server
	if f.addr != "" {
		sc.Addr = f.addr
	}
	if f.storage != "" {
		sc.Storage = f.storage
	}
	if f.dbPath != "" {
		sc.DBPath = f.dbPath
	} else if sc.Storage == config.StorageJSON && sc.DBPath == config.Default().Server.DBPath {
		sc.DBPath = repository.DefaultJSONFile
	}
	if f.testMode {
		sc.TestMode = true
	}

	repo, err := repository.Open(sc.Storage, sc.DBPath)
	if err != nil {
		if sc.Storage != config.StorageMemory && sc.Storage != config.StorageSQLite && sc.Storage != config.StorageJSON {
			return usagef("serve: %v", err)
		}
		return fmt.Errorf("open %s storage: %w", sc.Storage, err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Msg("close storage")
		}
	}()
	log.Info().Str("storage", sc.Storage).Str("path", sc.DBPath).Msg("storage ready")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(service.NewTodoService(repo), server.Options{
		TestMode: sc.TestMode,
		Release:  f.release,
	})
	return srv.Run(ctx, sc.Addr)
}
