package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourname/fileshare_lite/internal/app/webhttp"
	"github.com/yourname/fileshare_lite/internal/config"
	"github.com/yourname/fileshare_lite/internal/logging"
	"github.com/yourname/fileshare_lite/internal/netinfo"
)

// runServe инициализирует HTTP-сервер и обеспечивает корректное завершение по сигналу.
// A bad root or an unavailable port returns an error, which exits with status 1.
func runServe(cmd *cobra.Command, o *serveOptions) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.apply(cmd.Flags(), cfg)

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return err
	}
	defer func() { _ = logging.Sync() }()
	log := logging.L()

	if err := cfg.Resolve(); err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return err
	}

	handler, _, err := webhttp.NewServer(cfg)
	if err != nil {
		log.Error("build server", zap.Error(err))
		return err
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		log.Error("could not bind port", zap.Int("port", cfg.Port), zap.Error(err))
		return err
	}

	port := cfg.Port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	baseURL, ipErr := netinfo.BaseURL(cfg.PublicURL, port)
	if ipErr != nil {
		log.Warn("could not determine local IP, using loopback", zap.Error(ipErr))
	}
	netinfo.PrintBanner(cmd.OutOrStdout(), baseURL, cfg.QR)

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("shutdown error", zap.Error(err))
		}
	}()

	log.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("root", cfg.Root),
		zap.String("url", baseURL),
		zap.Int("parallel", cfg.Parallel),
	)

	serveErr := server.Serve(ln)
	stop()
	<-shutdownDone

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		log.Error("serve", zap.Error(serveErr))
		return serveErr
	}
	log.Info("server stopped")
	return nil
}
