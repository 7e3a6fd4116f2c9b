package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/Danny-Dasilva/fake-useragent/internal/config"
	"github.com/Danny-Dasilva/fake-useragent/internal/useragent"
)

const defaultConfigPath = "fakeua.yaml"

// root returns the root CLI command.
func root() *cli.Command {
	var configPath string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to configuration file",
			Value:       defaultConfigPath,
			Destination: &configPath,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}

	return &cli.Command{
		Name:    "fakeua",
		Usage:   "Generate realistic browser user agent strings",
		Version: version,
		Flags:   append(flags, filterFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := config.Load(configPath, cmd.IsSet("config"))
			if err != nil {
				return ctx, err
			}
			cmd.Metadata["config"] = cfg
			cmd.Metadata["logger"] = newLogger(cfg.Server.LogLevel, cmd.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			getCommand(),
			recordCommand(),
			serveCommand(),
			browseCommand(),
			infoCommand(),
		},
		Metadata: map[string]any{},
	}
}

// filterFlags are shared by every command that builds a UserAgent.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "browser",
			Aliases: []string{"b"},
			Usage:   "Accepted browser family (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "os",
			Usage: "Accepted operating system, windows expands to win10 and win7 (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:    "platform",
			Aliases: []string{"p"},
			Usage:   "Accepted platform: pc, mobile or tablet (repeatable)",
		},
		&cli.FloatFlag{
			Name:  "min-percentage",
			Usage: "Minimum usage share in percent",
		},
		&cli.FloatFlag{
			Name:  "min-version",
			Usage: "Minimum browser version",
		},
		&cli.StringFlag{
			Name:  "fallback",
			Usage: "User agent returned when nothing matches",
		},
		&cli.BoolFlag{
			Name:  "no-fallback",
			Usage: "Fail instead of returning a fallback user agent",
		},
	}
}

// filterOverrides maps the filter flags that were set onto option keys.
func filterOverrides(cmd *cli.Command) map[string]any {
	overrides := make(map[string]any)
	if cmd.IsSet("browser") {
		overrides["browsers"] = cmd.StringSlice("browser")
	}
	if cmd.IsSet("os") {
		overrides["os"] = cmd.StringSlice("os")
	}
	if cmd.IsSet("platform") {
		overrides["platforms"] = cmd.StringSlice("platform")
	}
	if cmd.IsSet("min-percentage") {
		overrides["min_percentage"] = cmd.Float("min-percentage")
	}
	if cmd.IsSet("min-version") {
		overrides["min_version"] = cmd.Float("min-version")
	}
	if cmd.IsSet("fallback") {
		overrides["fallback"] = cmd.String("fallback")
	}
	if cmd.Bool("no-fallback") {
		overrides["fallback"] = nil
	}
	return overrides
}

func newLogger(level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "fakeua",
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if debug {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func loggerFrom(cmd *cli.Command) *log.Logger {
	if logger, ok := cmd.Root().Metadata["logger"].(*log.Logger); ok {
		return logger
	}
	return log.Default()
}

// newUserAgent builds the engine from the loaded configuration and the
// filter flags.
func newUserAgent(cmd *cli.Command) (*useragent.UserAgent, *config.Config, error) {
	cfg, err := config.From(cmd)
	if err != nil {
		return nil, nil, err
	}

	opts, err := cfg.Options(filterOverrides(cmd))
	if err != nil {
		return nil, nil, err
	}
	opts.Logger = loggerFrom(cmd)

	ua, err := useragent.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("building user agent: %w", err)
	}
	return ua, cfg, nil
}

// browserArg returns the first positional argument, defaulting to random.
func browserArg(cmd *cli.Command) string {
	if name := cmd.Args().First(); name != "" {
		return name
	}
	return useragent.RandomKey
}
