// Package main provides the weatherctl command line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/weatherwise/weatherwise/internal/cli"
	"github.com/weatherwise/weatherwise/internal/config"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Pipeline logs stay off the terminal unless LOG_LEVEL asks for them.
	level := zerolog.WarnLevel
	if os.Getenv("LOG_LEVEL") != "" {
		level = settings.ZerologLevel()
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.Command(cli.Options{Settings: settings, Logger: logger})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
