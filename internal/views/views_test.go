package views_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flixfile/flixctl/internal/api"
	"github.com/flixfile/flixctl/internal/views"
)

var catalog = []api.Movie{
	{
		ID:       "m1",
		Title:    "Arrival",
		Genre:    api.Genre{Name: "Science Fiction"},
		Director: api.Director{Name: "Denis Villeneuve"},
	},
	{
		ID:          "m2",
		Title:       "Brazil",
		Description: "A bureaucrat in a dystopian world.",
		Genre:       api.Genre{Name: "Satire"},
		Director:    api.Director{Name: "Terry Gilliam"},
		ImagePath:   "https://example.com/brazil.png",
		Featured:    true,
	},
}

func TestMoviesToText(t *testing.T) {
	t.Run("lists every movie", func(t *testing.T) {
		out := string(views.MoviesToText(catalog, nil))

		if !strings.Contains(out, "Movies: 2") {
			t.Errorf("expected count header, got:\n%s", out)
		}
		if !strings.Contains(out, "Arrival") || !strings.Contains(out, "Brazil") {
			t.Errorf("expected both titles, got:\n%s", out)
		}
	})

	t.Run("marks favorites", func(t *testing.T) {
		out := string(views.MoviesToText(catalog, api.FavoriteIDs{"m2"}))

		if !strings.Contains(out, "* Brazil") {
			t.Errorf("expected favorite marker on Brazil, got:\n%s", out)
		}
		if strings.Contains(out, "* Arrival") {
			t.Errorf("Arrival should not be marked, got:\n%s", out)
		}
	})
}

func TestMoviesToMarkdown(t *testing.T) {
	out := string(views.MoviesToMarkdown(catalog, api.FavoriteIDs{"m1"}))

	if !strings.Contains(out, "# Movies") {
		t.Errorf("expected heading, got:\n%s", out)
	}
	if !strings.Contains(out, "| Arrival | Science Fiction | Denis Villeneuve | yes |") {
		t.Errorf("expected table row with favorite flag, got:\n%s", out)
	}
}

func TestMoviesToCSV(t *testing.T) {
	data, err := views.MoviesToCSV(catalog)
	if err != nil {
		t.Fatalf("MoviesToCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "ID,Title,Genre,Director,Featured" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[2], "true") {
		t.Errorf("expected featured flag in row: %s", lines[2])
	}
}

func TestDetailCards(t *testing.T) {
	t.Run("movie card includes description and poster", func(t *testing.T) {
		out := string(views.MovieToText(catalog[1]))

		for _, want := range []string{"Title: Brazil", "Featured: yes", "dystopian", "Poster: https://example.com/brazil.png"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in card, got:\n%s", want, out)
			}
		}
	})

	t.Run("director card", func(t *testing.T) {
		out := string(views.DirectorToText(api.Director{Name: "Agnès Varda", Bio: "French film director.", Birth: "1928"}))

		if !strings.Contains(out, "Director: Agnès Varda") || !strings.Contains(out, "Born: 1928") {
			t.Errorf("unexpected director card:\n%s", out)
		}
	})

	t.Run("genre card", func(t *testing.T) {
		out := string(views.GenreToText(api.Genre{Name: "Satire", Description: "Holds folly up to ridicule."}))

		if !strings.Contains(out, "Genre: Satire") || !strings.Contains(out, "ridicule") {
			t.Errorf("unexpected genre card:\n%s", out)
		}
	})
}

func TestProfileToText(t *testing.T) {
	user := api.User{Username: "ana", Email: "ana@example.com", FavoriteMovies: api.FavoriteIDs{"m1", "m2"}}
	out := string(views.ProfileToText(user))

	if !strings.Contains(out, "Username: ana") || !strings.Contains(out, "Favorites: 2") {
		t.Errorf("unexpected profile:\n%s", out)
	}
	if strings.Contains(out, "Birthday") {
		t.Errorf("empty birthday should be omitted:\n%s", out)
	}
}

func TestFavoritesToText(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		out := string(views.FavoritesToText(nil))
		if !strings.Contains(out, "No favorite movies yet.") {
			t.Errorf("unexpected empty output:\n%s", out)
		}
	})

	t.Run("ordered list", func(t *testing.T) {
		out := string(views.FavoritesToText(catalog))
		if !strings.Contains(out, "1. Arrival") || !strings.Contains(out, "2. Brazil") {
			t.Errorf("unexpected favorites output:\n%s", out)
		}
	})
}

func TestWriteCatalogCSV(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "export")

	path, err := views.WriteCatalogCSV(catalog, base)
	if err != nil {
		t.Fatalf("WriteCatalogCSV failed: %v", err)
	}
	if path != base+"_movies.csv" {
		t.Errorf("unexpected path: %s", path)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file at %s: %v", path, err)
	}
}
