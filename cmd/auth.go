package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/flixfile/flixctl/internal/api"
	"github.com/flixfile/flixctl/internal/session"
	"github.com/flixfile/flixctl/internal/shared"
)

// AuthRegister creates a new account on the server.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	reg := api.Registration{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
		Email:    cmd.String("email"),
		Birthday: cmd.String("birthday"),
	}

	r.logger.Info("registering account", "username", reg.Username)

	user, err := r.client.Register(ctx, reg)
	if err != nil {
		var serverErr *api.ServerError
		if errors.As(err, &serverErr) && serverErr.Conflict() {
			return fmt.Errorf("%w: username %q is taken", shared.ErrInvalidArgument, reg.Username)
		}
		return err
	}

	return r.writePlain("✓ Account created for %s. Sign in with 'flixctl auth login'.\n", user.Username)
}

// AuthLogin signs in and persists the session. Token and username are stored
// together only after the server accepts the credentials.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	password := cmd.StringArg("password")

	if username == "" || password == "" {
		return fmt.Errorf("%w: usage: flixctl auth login <username> <password>", shared.ErrMissingArgument)
	}

	result, err := r.client.Login(ctx, api.Credentials{Username: username, Password: password})
	if err != nil {
		var serverErr *api.ServerError
		if errors.As(err, &serverErr) && serverErr.Unauthorized() {
			return fmt.Errorf("%w: check username and password", shared.ErrAuthFailed)
		}
		return err
	}

	if err := r.sessions.Set(result.Token, result.User.Username); err != nil {
		return err
	}

	r.logger.Info("signed in", "username", result.User.Username)
	return r.writePlain("✓ Signed in as %s\n", result.User.Username)
}

// AuthLogout discards the stored session. Signing out is purely local.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if _, ok := r.sessions.Current(); !ok {
		return r.writePlain("Not signed in.\n")
	}

	if err := r.sessions.Clear(); err != nil {
		return err
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami shows the signed-in user and, for JWT tokens, when the session
// expires.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.requireSession()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		payload := map[string]any{"username": sess.Username}
		if exp, ok := session.TokenExpiry(sess.Token); ok {
			payload["expires"] = exp
		}
		return r.writeJSON(payload, true)
	}

	if exp, ok := session.TokenExpiry(sess.Token); ok {
		return r.writePlain("Signed in as %s (session expires %s)\n", sess.Username, exp.Format("2006-01-02 15:04"))
	}
	return r.writePlain("Signed in as %s\n", sess.Username)
}
