package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/extest/tablesim/internal/httpapi"
	"github.com/extest/tablesim/internal/security"
	"github.com/extest/tablesim/internal/tables"
)

func main() {
	var (
		addr            string
		logFile         string
		allowedOrigins  string
		shutdownTimeout time.Duration
	)

	flag.StringVar(&addr, "addr", ":8080", "Address to listen on")
	flag.StringVar(&logFile, "log-file", "", "Rotate structured logs to this file instead of stderr")
	flag.StringVar(&allowedOrigins, "allowed-origins", "*", "Comma-separated list of CORS allowed origins")
	flag.DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	flag.Parse()

	var out io.Writer = os.Stderr
	if logFile != "" {
		out = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
	}
	logger := zerolog.New(out).With().Timestamp().Str("service", "comparehttp").Logger()

	secMgr, err := security.NewManagerFromEnv()
	if err != nil {
		logger.Error().Err(err).Msg("security: failed to initialize manager from env")
		fmt.Fprintln(os.Stderr, "invalid security configuration; set TABLESIM_ALLOWED_DIRS")
		os.Exit(1)
	}
	if err := secMgr.ValidateConfig(); err != nil {
		logger.Error().Err(err).Msg("security: invalid allow-list configuration")
		os.Exit(1)
	}

	tableMgr := tables.NewManager(0, 0, secMgr, nil)
	tableMgr.Start()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = tableMgr.Close(closeCtx)
	}()

	handler := httpapi.NewHandler(tableMgr, logger)
	origins := strings.Split(allowedOrigins, ",")
	router := httpapi.NewRouter(handler, origins)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("comparehttp listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
