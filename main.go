package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/surftrip-planner/server/internal/agent/graph/observers"
	"github.com/surftrip-planner/server/internal/agent/model"
	"github.com/surftrip-planner/server/internal/core"
	logx "github.com/surftrip-planner/server/pkg/logger"
	pkgredis "github.com/surftrip-planner/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the planner,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis       pkgredis.Config
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Chat    model.ChatModelConfig
	Planner model.PlannerModelConfig
	Agent   model.AgentConfig
	Tools   model.ToolsConfig
}

var rootCmd = &cobra.Command{
	Use:   "surfplanner",
	Short: "Plan a surf trip from a conversation",
	Long: `surfplanner turns a free-form request into a surf trip plan: it extracts the trip details,
checks the weekend surf forecast, then looks up calendar availability and train options.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Path of the .env file to load")
	rootCmd.PersistentFlags().Bool("markdown", false, "Render replies as terminal markdown")
}

func loadConfig(cmd *cobra.Command) (*AppConfig, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment})
	return &cfg, nil
}

// serveMetrics exposes the metrics registry on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, metrics *observers.Metrics) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logx.Info().Str("addr", addr).Msg("Starting metrics server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Error().Err(err).Msg("Metrics server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
