package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/Danny-Dasilva/fake-useragent/cmd/fakeua/models"
)

// browseCommand returns the "browse" CLI subcommand.
func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse the accepted records interactively",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ua, _, err := newUserAgent(cmd)
			if err != nil {
				return err
			}

			program := tea.NewProgram(
				models.NewRecordModel(ua, copyToClipboard),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		},
	}
}
