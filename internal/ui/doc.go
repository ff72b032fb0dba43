// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the catalog:
//  1. [MovieListView] : Browse the catalog, toggle favorites, filter to favorites
//  2. [MovieDetailView] : Full description, poster path, and featured flag
//  3. [DirectorView] : Director bio for the selected movie
//  4. [GenreView] : Genre description for the selected movie
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Favorite toggles go through the favorites coordinator, so a second keypress on a
// movie whose change is still in flight is rejected rather than queued.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f, F, d, g, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
