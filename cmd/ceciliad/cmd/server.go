package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/ceciliaos/ceciliad/api"
	"github.com/ceciliaos/ceciliad/config"
	"github.com/ceciliaos/ceciliad/credstore"
	"github.com/ceciliaos/ceciliad/policy"
	"github.com/ceciliaos/ceciliad/session"
	"github.com/ceciliaos/ceciliad/shell"
	"github.com/ceciliaos/ceciliad/storage"
	bboltstorage "github.com/ceciliaos/ceciliad/storage/bbolt"
	pgstorage "github.com/ceciliaos/ceciliad/storage/postgres"
	"github.com/ceciliaos/ceciliad/web"
)

var (
	portFlag    int
	dataDirFlag string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Cecilia OS server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = portFlag
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDirFlag
		}

		// Contradictory allow/block lists are a config error: fail at
		// startup, not per request.
		pol, err := policy.New(cfg.AllowedCommands, cfg.BlockedCommands)
		if err != nil {
			return fmt.Errorf("invalid command policy: %w", err)
		}

		repo, closeRepo, err := openRepository(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeRepo()

		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		creds := credstore.New(repo, cfg.HomesDir)
		sessionStore := session.NewPersistentStore(repo)
		defer sessionStore.Close()
		sessions := session.NewManager(sessionStore, session.WithTTL(cfg.SessionTTL()))

		a := api.New(repo, creds, sessions, pol,
			api.WithLogger(logger),
			api.WithRegistrationOpen(cfg.RegistrationOpen),
			api.WithTrustedProxy(cfg.TrustedProxy),
			api.WithRunner(shell.NewRunner(shell.WithTimeout(cfg.CommandTimeoutDuration()))),
		)

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Mount(cfg.APIBase, a.Router())
		r.Handle("/*", web.Handler(web.Branding{
			OSName:       cfg.OSName,
			OSIcon:       cfg.OSIcon,
			APIBase:      cfg.APIBase,
			TerminalIcon: cfg.Icons.Terminal,
			FolderIcon:   cfg.Icons.Folder,
			SettingsIcon: cfg.Icons.Settings,
			LogoutIcon:   cfg.Icons.Logout,
		}))

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("%s %s listening on port %d (data: %s, homes: %s)\n",
			cfg.OSIcon, cfg.OSName, cfg.Port, cfg.DataDir, cfg.HomesDir)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

// openRepository picks the storage backend: postgres when a DSN is
// configured, bbolt in the data directory otherwise.
func openRepository(ctx context.Context, cfg config.Config) (storage.Repository, func(), error) {
	if cfg.PostgresDSN != "" {
		repo, err := pgstorage.NewRepositoryFromDSN(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return repo, repo.Close, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	repo, err := bboltstorage.NewRepositoryFromFile(filepath.Join(cfg.DataDir, "cecilia.db"), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return repo, func() { repo.Close() }, nil
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntVarP(&portFlag, "port", "p", 8080, "Port to listen on")
	serverCmd.Flags().StringVar(&dataDirFlag, "data-dir", "./data", "Directory for persistent data")
}
