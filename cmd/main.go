/*
Package main is the entry point for the linechat relay.

It is responsible for loading configuration, initializing the global logging system,
starting the TCP chat listener and the optional HTTP gateway, and gracefully handling
operating system interrupt signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linechat/internal/app/chat"
	"linechat/internal/configs"
	"linechat/internal/handler"
	"linechat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	if err := logx.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Dur("handshake_timeout", cfg.HandshakeTimeout).
		Int("max_line_bytes", cfg.MaxLineBytes).
		Str("http_addr", cfg.HTTPAddr()).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := chat.NewManager(cfg)

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		logx.Fatal(err, "Chat listener failed to start", "addr", cfg.ListenAddr())
	}

	go func() {
		logx.Info(fmt.Sprintf("Chat relay listening on %s", ln.Addr()))
		if err := manager.Serve(ln); err != nil {
			logx.Fatal(err, "Chat listener stopped")
		}
	}()

	var gateway *http.Server
	if addr := cfg.HTTPAddr(); addr != "" {
		gateway = &http.Server{
			Addr:              addr,
			Handler:           handler.Router(&handler.AppDeps{Manager: manager, Config: cfg}),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		go func() {
			logx.Info(fmt.Sprintf("HTTP gateway listening on http://%s", addr))
			if err := gateway.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logx.Fatal(err, "HTTP gateway failed to start")
			}
		}()
	}

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	if gateway != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()

		if err := gateway.Shutdown(shutdownCtx); err != nil {
			logx.Error(err, "HTTP gateway forced to shutdown")
		}
	}

	manager.Shutdown()

	logx.Info("Server gracefully stopped.")
}
