package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/despacho-chat/internal/agent"
	"github.com/ashureev/despacho-chat/internal/api"
	"github.com/ashureev/despacho-chat/internal/identity"
	"github.com/ashureev/despacho-chat/internal/middleware"
	"github.com/ashureev/despacho-chat/internal/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and WebSocket chat endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	a, err := setup(os.Stdout)
	if err != nil {
		return err
	}
	cfg := a.cfg

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "remote", cfg.RemoteEnabled())

	conversationLogger, err := agent.NewConversationLogger(agent.ConversationLogConfig{
		Enabled:       cfg.ConversationLog.Enabled,
		Dir:           cfg.ConversationLog.Dir,
		GlobalEnabled: cfg.ConversationLog.GlobalEnabled,
		GlobalPath:    cfg.ConversationLog.GlobalPath,
		QueueSize:     cfg.ConversationLog.QueueSize,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("initialize conversation logger: %w", err)
	}
	defer func() {
		if closeErr := conversationLogger.Close(); closeErr != nil {
			slog.Warn("Failed to close conversation logger", "error", closeErr)
		}
	}()

	sm := session.NewManager()
	chatHandler := agent.NewHandler(a.service, conversationLogger)
	healthHandler := api.NewHealthHandler()
	wsHandler := session.NewWebSocketHandler(a.service, sm, conversationLogger, cfg.FrontendURL, cfg.IsDevelopment())

	r := newRouter(cfg.AllowedOrigins(), cfg.IsDevelopment(), healthHandler, chatHandler, wsHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
		// Deadlines would carry over to hijacked WebSocket connections,
		// so only the header read is bounded.
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown.
	sm.CloseAll("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped successfully")
	return nil
}

func newRouter(origins []string, isDev bool, health *api.HealthHandler, chat *agent.Handler, ws http.Handler) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(origins, identity.SessionHeaderName))
	r.Use(identity.Middleware(isDev))

	health.RegisterHealth(r)
	chat.RegisterRoutes(r)
	r.Get("/ws", ws.ServeHTTP)

	return r
}
