package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"github.com/flixfile/flixctl/internal/api"
	"github.com/flixfile/flixctl/internal/shared"
	"github.com/flixfile/flixctl/internal/views"
)

// MoviesList fetches the catalog snapshot and renders it.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.requireSession()
	if err != nil {
		return err
	}

	movies, err := r.client.Movies(ctx)
	if err != nil {
		return err
	}

	coord := r.coordinator(sess.Username)
	if err := coord.Load(ctx); err != nil {
		// favorites are decoration here; the catalog still renders
		r.logger.Warn("could not load favorites", "error", err)
	}

	if cmd.Bool("favorites") {
		movies = coord.FavoriteSet(movies)
	}

	if path := cmd.String("save"); path != "" {
		written, err := views.WriteCatalogCSV(movies, path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Catalog written to %s\n", written)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	favs := coord.Favorites()
	if cmd.Bool("markdown") {
		return r.writeBytes(views.MoviesToMarkdown(movies, favs))
	}
	return r.writeBytes(views.MoviesToText(movies, favs))
}

// MoviesShow renders one movie's detail card.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: usage: flixctl movies show <title>", shared.ErrMissingArgument)
	}

	movie, err := r.client.Movie(ctx, title)
	if err != nil {
		return r.wrapNotFound(err, fmt.Sprintf("no movie titled %q", title))
	}

	if cmd.Bool("open") {
		if movie.ImagePath == "" {
			return fmt.Errorf("%w: %q has no poster", shared.ErrInvalidArgument, movie.Title)
		}
		if err := shared.OpenBrowser(movie.ImagePath); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}
	return r.writeBytes(views.MovieToText(movie))
}

// MoviesDirector renders a director card.
func (r *Runner) MoviesDirector(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: usage: flixctl movies director <name>", shared.ErrMissingArgument)
	}

	director, err := r.client.Director(ctx, name)
	if err != nil {
		return r.wrapNotFound(err, fmt.Sprintf("no director named %q", name))
	}

	if cmd.Bool("json") {
		return r.writeJSON(director, true)
	}
	return r.writeBytes(views.DirectorToText(director))
}

// MoviesGenre renders a genre card.
func (r *Runner) MoviesGenre(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: usage: flixctl movies genre <name>", shared.ErrMissingArgument)
	}

	genre, err := r.client.Genre(ctx, name)
	if err != nil {
		return r.wrapNotFound(err, fmt.Sprintf("no genre named %q", name))
	}

	if cmd.Bool("json") {
		return r.writeJSON(genre, true)
	}
	return r.writeBytes(views.GenreToText(genre))
}

// wrapNotFound converts a 404 into a friendlier not-found error, leaving other
// failures intact.
func (r *Runner) wrapNotFound(err error, msg string) error {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) && serverErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrMovieNotFound, msg)
	}
	return err
}
