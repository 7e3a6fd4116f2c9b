package main

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sync"

	"github.com/urfave/cli/v3"
	"golang.design/x/clipboard"
)

// getCommand returns the "get" CLI subcommand.
func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print random user agent strings",
		ArgsUsage: "[browser]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of user agents to print",
				Value:   1,
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the last user agent to the clipboard",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			count := int(cmd.Int("count"))
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			ua, _, err := newUserAgent(cmd)
			if err != nil {
				return err
			}

			name := browserArg(cmd)
			var last string
			for i := 0; i < count; i++ {
				last, err = ua.Browser(name)
				if err != nil {
					return err
				}
				fmt.Println(last)
			}

			if cmd.Bool("copy") {
				if err := copyToClipboard(last); err != nil {
					return err
				}
				loggerFrom(cmd).Info("Copied user agent to clipboard")
			}
			return nil
		},
	}
}

// recordCommand returns the "record" CLI subcommand.
func recordCommand() *cli.Command {
	return &cli.Command{
		Name:      "record",
		Usage:     "Print a random dataset record as JSON",
		ArgsUsage: "[browser]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ua, _, err := newUserAgent(cmd)
			if err != nil {
				return err
			}

			rec, err := ua.GetBrowser(browserArg(cmd))
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

// infoCommand returns the "info" CLI subcommand.
func infoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Print build and dataset information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := loggerFrom(cmd)
			logger.Info("Build",
				"version", version,
				"commit", gitCommit,
				"build_time", buildTime,
				"go", runtime.Version(),
				"platform", runtime.GOOS+"/"+runtime.GOARCH,
			)

			ua, _, err := newUserAgent(cmd)
			if err != nil {
				return err
			}
			cfg := ua.Config()
			logger.Info("Dataset",
				"records", len(ua.Records()),
				"accepted", len(ua.Filter("random")),
				"filters", cfg.String(),
			)
			return nil
		},
	}
}

var clipboardInit = sync.OnceValue(clipboard.Init)

func copyToClipboard(text string) error {
	if err := clipboardInit(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
