package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

var (
	// Build-time variables set by ldflags
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root().Run(ctx, os.Args); err != nil {
		if cause := context.Cause(ctx); cause != nil {
			log.Info("Shutting down", "cause", cause)
			return
		}
		log.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
