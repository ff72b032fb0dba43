package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/flixfile/flixctl/internal/shared"
	"github.com/flixfile/flixctl/internal/views"
)

// FavoritesList renders the favorite set in catalog order.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.requireSession()
	if err != nil {
		return err
	}

	coord := r.coordinator(sess.Username)
	if err := coord.Load(ctx); err != nil {
		return err
	}

	movies, err := r.client.Movies(ctx)
	if err != nil {
		return err
	}

	favorites := coord.FavoriteSet(movies)
	if cmd.Bool("json") {
		return r.writeJSON(favorites, true)
	}
	return r.writeBytes(views.FavoritesToText(favorites))
}

// FavoritesAdd marks a movie as a favorite.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	return r.changeFavorite(ctx, cmd, "add")
}

// FavoritesRemove unmarks a favorite.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	return r.changeFavorite(ctx, cmd, "remove")
}

// FavoritesToggle flips a movie's favorite state.
func (r *Runner) FavoritesToggle(ctx context.Context, cmd *cli.Command) error {
	return r.changeFavorite(ctx, cmd, "toggle")
}

func (r *Runner) changeFavorite(ctx context.Context, cmd *cli.Command, op string) error {
	sess, err := r.requireSession()
	if err != nil {
		return err
	}

	query := cmd.StringArg("movie")
	if query == "" {
		return fmt.Errorf("%w: usage: flixctl favorites %s <title or id>", shared.ErrMissingArgument, op)
	}

	movie, err := r.resolveMovie(ctx, query)
	if err != nil {
		return err
	}

	coord := r.coordinator(sess.Username)

	var added bool
	switch op {
	case "add":
		added, err = true, coord.Add(ctx, movie.ID)
	case "remove":
		added, err = false, coord.Remove(ctx, movie.ID)
	default:
		added, err = coord.Toggle(ctx, movie.ID)
	}

	if errors.Is(err, shared.ErrConflictInProgress) {
		return fmt.Errorf("%w: try again once the pending change for %q finishes", err, movie.Title)
	}
	if err != nil {
		return err
	}

	if added {
		return r.writePlain("✓ Added %q to favorites\n", movie.Title)
	}
	return r.writePlain("✓ Removed %q from favorites\n", movie.Title)
}
