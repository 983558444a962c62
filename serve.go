package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	apihttp "twinclash/internal/api/http"
	"twinclash/internal/api/ws"
	"twinclash/internal/config"
	"twinclash/internal/live"
	"twinclash/internal/storage"
	"twinclash/internal/store"
	"twinclash/internal/tui"
)

var (
	flagHTTPAddr    string
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagServeTick   time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and optional SSH server",
	Long: `Serve attempts over a JSON API with live websocket snapshots. With
--ssh the campaign is also playable over SSH.

Defaults come from TWINCLASH_HTTP_ADDR, TWINCLASH_SSH_ADDR,
TWINCLASH_HOST_KEY, TWINCLASH_DB and TWINCLASH_TICK_MS.

Examples:
  twinclash serve
  twinclash serve --http :9000
  twinclash serve --ssh :23234 --host-key ./host_key
  ssh -p 23234 localhost`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	defaults := config.LoadServer()
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", defaults.HTTPAddr, "HTTP listen address")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.SSHAddr, "SSH listen address (empty disables SSH)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", defaults.HostKeyPath, "Path to SSH host key")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Idle timeout for SSH connections")
	serveCmd.Flags().DurationVar(&flagServeTick, "tick", defaults.Tick, "Clock tick interval")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(os.Stderr, "twinclash")
	if err != nil {
		return err
	}
	defer closeLog()

	rules, err := loadRules()
	if err != nil {
		return err
	}
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	db, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	manager := live.NewManager(store.NewMemoryStore(), live.Options{
		Catalog:  cat,
		Rules:    rules,
		Outcomes: db,
		Logger:   logger.WithPrefix("live"),
		Interval: flagServeTick,
	})
	hub := ws.NewHub(manager, logger.WithPrefix("ws"))
	manager.SetHub(hub)
	defer manager.Shutdown()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    flagHTTPAddr,
		Handler: apihttp.NewRouter(manager, hub, db, logger.WithPrefix("http")),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("starting HTTP server", "address", flagHTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if flagSSHAddr != "" {
		sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			IdleTimeout: flagIdleTimeout,
			Tick:        flagServeTick,
			Catalog:     cat,
			Rules:       rules,
			Outcomes:    db,
			Logger:      logger.WithPrefix("ssh"),
		})
		if err != nil {
			return err
		}
		go func() {
			if err := sshServer.Serve(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
