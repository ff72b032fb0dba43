package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/flixfile/flixctl/internal/api"
	"github.com/flixfile/flixctl/internal/shared"
	"github.com/flixfile/flixctl/internal/views"
)

// ProfileShow fetches and renders the signed-in user's profile.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.requireSession()
	if err != nil {
		return err
	}

	user, err := r.client.User(ctx, sess.Username)
	if err != nil {
		var serverErr *api.ServerError
		if errors.As(err, &serverErr) && serverErr.Status == http.StatusNotFound {
			return fmt.Errorf("%w: %q no longer exists on the server", shared.ErrUserNotFound, sess.Username)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}
	return r.writeBytes(views.ProfileToText(user))
}

// ProfileUpdate sends a partial update built from the flags that were set.
// A changed username is written back to the session so later calls address
// the renamed account.
func (r *Runner) ProfileUpdate(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.requireSession()
	if err != nil {
		return err
	}

	var update api.ProfileUpdate
	if data := cmd.String("data"); data != "" {
		if err := shared.ValidateJSON([]byte(data)); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(data), &update); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
	}
	if cmd.IsSet("username") {
		v := cmd.String("username")
		update.Username = &v
	}
	if cmd.IsSet("password") {
		v := cmd.String("password")
		update.Password = &v
	}
	if cmd.IsSet("email") {
		v := cmd.String("email")
		update.Email = &v
	}
	if cmd.IsSet("birthday") {
		v := cmd.String("birthday")
		update.Birthday = &v
	}

	if update == (api.ProfileUpdate{}) {
		return fmt.Errorf("%w: pass --data or at least one of --username, --password, --email, --birthday", shared.ErrMissingArgument)
	}

	user, err := r.client.UpdateUser(ctx, sess.Username, update)
	if err != nil {
		return err
	}

	if update.Username != nil && user.Username != sess.Username {
		if err := r.sessions.Set(sess.Token, user.Username); err != nil {
			return err
		}
		r.logger.Info("session updated for renamed account", "username", user.Username)
	}

	if err := r.writePlain("✓ Profile updated\n"); err != nil {
		return err
	}
	return r.writeBytes(views.ProfileToText(user))
}

// ProfileDelete removes the account server-side, then clears the session.
// The session survives a failed delete so the user can retry.
func (r *Runner) ProfileDelete(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.requireSession()
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: deleting %q is permanent; re-run with --yes to confirm", shared.ErrMissingArgument, sess.Username)
	}

	if err := r.client.DeleteUser(ctx, sess.Username); err != nil {
		return err
	}

	if err := r.sessions.Clear(); err != nil {
		return err
	}

	return r.writePlain("✓ Account %s deleted\n", sess.Username)
}
