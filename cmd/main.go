package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"arkadia_console/internal/config"
	"arkadia_console/internal/infrastructure"
	"arkadia_console/internal/repository"
	"arkadia_console/internal/usecases"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "arkadia",
	Short: "Arkadia Console, a messaging webhook that answers with generated replies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
}

func main() {
	// Missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Warning: failed to load .env:", err)
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelInfo
	if verbose || strings.EqualFold(cfg.LogLevel, "debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// buildReplyService wires the keyword router and the configured generator.
func buildReplyService(ctx context.Context, cfg config.Config) (*usecases.ReplyService, error) {
	var router *usecases.KeywordRouter
	if cfg.UseRules {
		rules := usecases.DefaultRules()
		if cfg.RouteRulesFile != "" {
			loaded, err := repository.LoadRules(cfg.RouteRulesFile)
			if err != nil {
				return nil, err
			}
			rules = loaded
		}

		var err error
		router, err = usecases.NewKeywordRouter(rules)
		if err != nil {
			return nil, err
		}
		slog.Info("keyword rules loaded", "count", router.Len())
	}

	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set; generated replies will report the generator as unreachable")
	}

	switch cfg.GeminiBackend {
	case config.BackendSDK:
		generator, err := infrastructure.NewGenAIClient(ctx, infrastructure.GenAIOptions{
			APIKey:    cfg.GeminiAPIKey,
			Model:     cfg.GeminiModel,
			BaseURL:   cfg.GeminiBaseURL,
			Persona:   cfg.Persona,
			Timeout:   cfg.GeminiTimeout,
			Transport: infrastructure.OutboundTransport(),
		})
		if err != nil {
			return nil, err
		}
		return usecases.NewReplyService(router, generator), nil
	default:
		generator := infrastructure.NewGeminiClient(infrastructure.GeminiOptions{
			Endpoint:  cfg.GeminiEndpoint,
			APIKey:    cfg.GeminiAPIKey,
			AuthMode:  cfg.GeminiAuthMode,
			Persona:   cfg.Persona,
			Timeout:   cfg.GeminiTimeout,
			Transport: infrastructure.OutboundTransport(),
		})
		return usecases.NewReplyService(router, generator), nil
	}
}
