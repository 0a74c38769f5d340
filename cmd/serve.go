package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arkadia_console/internal/config"
	"arkadia_console/internal/infrastructure"
	apihttp "arkadia_console/internal/interfaces/http"
	"arkadia_console/internal/interfaces/telegram"
	"arkadia_console/internal/repository"
	"arkadia_console/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := infrastructure.InitTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return err
	}

	replies, err := buildReplyService(ctx, cfg)
	if err != nil {
		return err
	}

	var dispatcher *usecases.Dispatcher
	if cfg.DispatchMode == config.DispatchAsync {
		messenger := infrastructure.NewTwilioClient(infrastructure.TwilioOptions{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			APIBase:    cfg.TwilioAPIBase,
			Timeout:    cfg.TwilioTimeout,
			Transport:  infrastructure.OutboundTransport(),
		})
		dispatcher = usecases.NewDispatcher(replies, messenger)
	}

	var chatReplies *usecases.ReplyService
	if cfg.ChatResponder == config.ResponderGemini {
		chatReplies = replies
	}
	chat := usecases.NewChatService(repository.NewChatLog(cfg.HistoryLimit), chatReplies)

	var signatureToken string
	if cfg.TwilioValidateSignature {
		signatureToken = cfg.TwilioAuthToken
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	apihttp.SetupRoutes(r,
		apihttp.NewHandler(replies, dispatcher, chat, apihttp.ChatLink(cfg.TwilioFromNumber)),
		apihttp.NewMiddleware(cfg.HistoryJWTSecret),
		apihttp.RouteOptions{
			TwilioAuthToken:        signatureToken,
			PublicBaseURL:          cfg.PublicBaseURL,
			ChatRateLimitPerMinute: cfg.ChatRateLimitPerMinute,
		},
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	relayDone := make(chan struct{})
	if cfg.TelegramBotToken != "" {
		bot, err := telegram.Connect(cfg.TelegramBotToken)
		if err != nil {
			slog.Error("telegram relay disabled", "error", err)
			close(relayDone)
		} else {
			go func() {
				defer close(relayDone)
				telegram.Poll(ctx, bot, telegram.NewRelay(bot, replies))
			}()
		}
	} else {
		close(relayDone)
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("arkadia console listening", "addr", srv.Addr, "dispatch", cfg.DispatchMode, "backend", cfg.GeminiBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			stop()
			return err
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
	if dispatcher != nil {
		if err := dispatcher.Wait(shutdownCtx); err != nil {
			slog.Warn("pending deliveries abandoned", "error", err)
		}
	}
	select {
	case <-relayDone:
	case <-shutdownCtx.Done():
		slog.Warn("telegram relay did not stop in time")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("tracing shutdown failed", "error", err)
	}
	return nil
}
