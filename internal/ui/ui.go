package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flixfile/flixctl/internal/api"
	"github.com/flixfile/flixctl/internal/favorites"
	"github.com/flixfile/flixctl/internal/shared"
	"github.com/flixfile/flixctl/internal/views"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MovieListView ViewState = iota
	MovieDetailView
	DirectorView
	GenreView
)

// Catalog is the slice of the gateway the TUI reads from. Favorite mutations
// go through the coordinator instead.
type Catalog interface {
	Movies(ctx context.Context) ([]api.Movie, error)
	Director(ctx context.Context, name string) (api.Director, error)
	Genre(ctx context.Context, name string) (api.Genre, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	catalog   Catalog
	coord     *favorites.Coordinator
	width     int
	height    int
	movieList list.Model
	movies    []api.Movie
	selected  api.Movie
	director  api.Director
	genre     api.Genre
	filtered  bool
	status    string
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, catalog Catalog, coord *favorites.Coordinator) *Model {
	return &Model{
		ctx:     ctx,
		view:    MovieListView,
		catalog: catalog,
		coord:   coord,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init fetches the catalog and the user's favorites concurrently.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCatalog(), m.loadFavorites())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.movieList.Width() == 0 {
			m.movieList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MovieListView:
			return m.handleMovieListKeys(msg)
		case MovieDetailView, DirectorView, GenreView:
			return m.handleDetailKeys(msg)
		}

	case catalogFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.movies = msg.movies
		m.movieList = list.New(m.listItems(), list.NewDefaultDelegate(), 0, 0)
		m.movieList.Title = "Movies"
		m.movieList.SetSize(m.width-4, m.height-8)
		return m, nil

	case favoritesLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("could not load favorites: %v", msg.err)
			return m, nil
		}
		m.refreshList()
		return m, nil

	case favoriteToggledMsg:
		return m.handleToggled(msg)

	case directorFetchedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("director lookup failed: %v", msg.err)
			m.view = MovieListView
			return m, nil
		}
		m.director = msg.director
		m.view = DirectorView
		return m, nil

	case genreFetchedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("genre lookup failed: %v", msg.err)
			m.view = MovieListView
			return m, nil
		}
		m.genre = msg.genre
		m.view = GenreView
		return m, nil
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case MovieListView:
		return m.renderMovieList()
	case MovieDetailView:
		return m.renderCard("Movie", string(views.MovieToText(m.selected)))
	case DirectorView:
		return m.renderCard("Director", string(views.DirectorToText(m.director)))
	case GenreView:
		return m.renderCard("Genre", string(views.GenreToText(m.genre)))
	default:
		return ""
	}
}

func (m *Model) handleMovieListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// while the list's filter input is active, every key belongs to it
	if m.movieList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.movieList, cmd = m.movieList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.enter):
		if movie, ok := m.selectedMovie(); ok {
			m.selected = movie
			m.view = MovieDetailView
		}
		return m, nil

	case key.Matches(msg, m.keys.favorite):
		if movie, ok := m.selectedMovie(); ok {
			return m, m.toggleFavorite(movie)
		}
		return m, nil

	case key.Matches(msg, m.keys.filter):
		m.filtered = !m.filtered
		m.refreshList()
		return m, nil

	case key.Matches(msg, m.keys.director):
		if movie, ok := m.selectedMovie(); ok {
			m.selected = movie
			return m, m.fetchDirector(movie.Director.Name)
		}
		return m, nil

	case key.Matches(msg, m.keys.genre):
		if movie, ok := m.selectedMovie(); ok {
			m.selected = movie
			return m, m.fetchGenre(movie.Genre.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MovieListView
		return m, nil
	case key.Matches(msg, m.keys.favorite) && m.view == MovieDetailView:
		return m, m.toggleFavorite(m.selected)
	}
	return m, nil
}

func (m *Model) handleToggled(msg favoriteToggledMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		if msg.added {
			m.status = styles.ok.Render(fmt.Sprintf("Added '%s' to favorites", msg.title))
		} else {
			m.status = fmt.Sprintf("Removed '%s' from favorites", msg.title)
		}
		m.refreshList()

	case errors.Is(msg.err, shared.ErrConflictInProgress):
		m.status = styles.warn.Render(fmt.Sprintf("A change for '%s' is already in flight", msg.title))

	case errors.Is(msg.err, shared.ErrViewDiscarded):
		// result belongs to a view that no longer exists

	default:
		m.status = styles.err.Render(fmt.Sprintf("Favorite change failed: %v", msg.err))
		m.refreshList()
	}

	return m, nil
}

func (m *Model) selectedMovie() (api.Movie, bool) {
	item := m.movieList.SelectedItem()
	if item == nil {
		return api.Movie{}, false
	}

	mi, ok := item.(movieItem)
	return mi.movie, ok
}

func (m *Model) listItems() []list.Item {
	source := m.movies
	if m.filtered {
		source = m.coord.FavoriteSet(m.movies)
	}

	items := make([]list.Item, len(source))
	for i, movie := range source {
		items[i] = movieItem{movie: movie, favorite: m.coord.IsFavorite(movie.ID)}
	}
	return items
}

func (m *Model) refreshList() {
	if m.movies == nil {
		return
	}
	m.movieList.SetItems(m.listItems())
	if m.filtered {
		m.movieList.Title = "Movies • favorites"
	} else {
		m.movieList.Title = "Movies"
	}
}

func (m *Model) fetchCatalog() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.catalog.Movies(m.ctx)
		return catalogFetchedMsg{movies: movies, err: err}
	}
}

func (m *Model) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		return favoritesLoadedMsg{err: m.coord.Load(m.ctx)}
	}
}

func (m *Model) toggleFavorite(movie api.Movie) tea.Cmd {
	return func() tea.Msg {
		added, err := m.coord.Toggle(m.ctx, movie.ID)
		return favoriteToggledMsg{title: movie.Title, added: added, err: err}
	}
}

func (m *Model) fetchDirector(name string) tea.Cmd {
	return func() tea.Msg {
		director, err := m.catalog.Director(m.ctx, name)
		return directorFetchedMsg{director: director, err: err}
	}
}

func (m *Model) fetchGenre(name string) tea.Cmd {
	return func() tea.Msg {
		genre, err := m.catalog.Genre(m.ctx, name)
		return genreFetchedMsg{genre: genre, err: err}
	}
}

func (m *Model) renderMovieList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.favorite, m.keys.filter, m.keys.director, m.keys.genre, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	out := fmt.Sprintf("%s\n\n%s", m.movieList.View(), helpView)
	if m.status != "" {
		out = fmt.Sprintf("%s\n%s", out, m.status)
	}
	return out
}

func (m *Model) renderCard(kind, body string) string {
	title := styles.title.Render(kind)
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, body, helpView)
}
