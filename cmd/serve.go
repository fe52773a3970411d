package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"curse-update-proxy/logger"
	"curse-update-proxy/metrics"
	"curse-update-proxy/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the update JSON proxy",
	Long: `Starts the HTTP proxy. GET /{modId} answers with the mod's
Forge update document.`,
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() {
	cfg, svc := bootstrap(configDir)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.NewRouter(svc, logger.Log.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.MetricsAddr != "" {
		metrics.InitMetrics()
		go func() {
			logger.Log.Infow("Serving metrics", zap.String("addr", cfg.MetricsAddr))
			if err := http.ListenAndServe(cfg.MetricsAddr, metrics.Handler()); err != nil {
				logger.Log.Errorw("Metrics listener stopped", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warnw("Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Log.Infow("Listening", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalw("Server failed", zap.Error(err))
	}
}
