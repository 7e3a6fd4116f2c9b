package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"

	"github.com/Danny-Dasilva/fake-useragent/internal/cycletls"
	"github.com/Danny-Dasilva/fake-useragent/internal/proxy"
	"github.com/Danny-Dasilva/fake-useragent/internal/useragent"
)

// serveCommand returns the "serve" CLI subcommand.
func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve user agents over HTTP and forward requests with them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides server.port)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Skip the startup banner",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ua, cfg, err := newUserAgent(cmd)
			if err != nil {
				return err
			}
			logger := loggerFrom(cmd)

			port := cfg.Server.Port
			if cmd.IsSet("port") {
				port = cmd.String("port")
			}

			rotator := useragent.NewRotator(ua, useragent.RotationConfig{
				SessionSticky: cfg.Server.SessionSticky,
				MaxSessions:   cfg.Server.MaxSessions,
			})

			managerConfig := cycletls.DefaultManagerConfig()
			managerConfig.MaxIdleTime = cfg.Server.MaxIdleTime
			managerConfig.Logger = logger

			handler := proxy.NewHandler(rotator, logger, proxy.Config{
				DefaultTimeout: cfg.Server.Timeout,
				RateLimit:      cfg.Server.RateLimit,
				RateBurst:      cfg.Server.RateBurst,
				Clients:        cycletls.NewClientManager(managerConfig),
			})
			defer handler.Close()

			server := &fasthttp.Server{
				Handler:                      handler.HandleRequest,
				Name:                         "fakeua",
				DisablePreParseMultipartForm: true,
				ReadTimeout:                  30 * time.Second,
				WriteTimeout:                 cfg.Server.Timeout + 5*time.Second,
				IdleTimeout:                  60 * time.Second,
			}

			if !cmd.Bool("quiet") {
				displayStartupBanner(port, ua)
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("Starting server", "port", port, "filters", ua.Config().String())
				return server.ListenAndServe(":" + port)
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info("Shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.ShutdownWithContext(shutdownCtx)
			})

			if err := g.Wait(); err != nil {
				return err
			}
			logger.Info("Server stopped", "requests", handler.Metrics().TotalRequests)
			return nil
		},
	}
}
