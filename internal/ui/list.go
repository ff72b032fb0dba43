package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/flixfile/flixctl/internal/api"
)

var _ list.Item = movieItem{}

// movieItem wraps [api.Movie] to implement [list.Item].
type movieItem struct {
	movie    api.Movie
	favorite bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }

func (i movieItem) Title() string {
	if i.favorite {
		return "★ " + i.movie.Title
	}
	return i.movie.Title
}

func (i movieItem) Description() string {
	desc := i.movie.Genre.Name
	if i.movie.Director.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.movie.Director.Name)
	}
	return desc
}
