package main

import (
	"bytes"
	"context"
	"testing"

	tu "github.com/flixfile/flixctl/internal/testing"
)

func TestSetupDatabase(t *testing.T) {
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, t.TempDir())
	defer tu.MustChdir(t, wd)

	runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
	app := rootCommand(runner)

	if err := app.Run(context.Background(), []string{"flixctl", "setup", "database"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	// a missing config.toml is created from the template, and the database
	// file appears at the configured path
	tu.AssertFileExists(t, "config.toml")
	tu.AssertFileExists(t, "flixctl.db")

	t.Run("idempotent", func(t *testing.T) {
		// fresh command tree; cli commands are not reusable across runs
		if err := rootCommand(runner).Run(context.Background(), []string{"flixctl", "setup", "database"}); err != nil {
			t.Fatalf("second setup failed: %v", err)
		}
	})
}
