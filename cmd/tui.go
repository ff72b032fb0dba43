package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/flixfile/flixctl/internal/favorites"
	"github.com/flixfile/flixctl/internal/shared"
	"github.com/flixfile/flixctl/internal/ui"
)

// TUI launches the interactive terminal UI for catalog browsing.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.requireSession()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/flixctl-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	// fresh coordinator so its log lines go to the file too
	coord := favorites.NewCoordinator(r.client, sess.Username, fileLogger)

	model := ui.NewModel(ctx, r.client, coord)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
