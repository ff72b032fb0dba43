package ui

import (
	"github.com/flixfile/flixctl/internal/api"
)

// catalogFetchedMsg carries the full catalog snapshot.
type catalogFetchedMsg struct {
	movies []api.Movie
	err    error
}

// favoritesLoadedMsg signals that the coordinator replaced its set from the
// server profile.
type favoritesLoadedMsg struct {
	err error
}

// favoriteToggledMsg carries the outcome of one toggle.
type favoriteToggledMsg struct {
	title string
	added bool
	err   error
}

// directorFetchedMsg carries a director lookup.
type directorFetchedMsg struct {
	director api.Director
	err      error
}

// genreFetchedMsg carries a genre lookup.
type genreFetchedMsg struct {
	genre api.Genre
	err   error
}
