// package views renders catalog data for terminal output (plain text,
// Markdown, CSV). Rendering is pure: nothing here touches the network.
package views

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/flixfile/flixctl/internal/api"
)

// MoviesToText renders the catalog as a numbered list. Movies in favs get a
// star marker.
func MoviesToText(movies []api.Movie, favs api.FavoriteIDs) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(movies)))

	for i, movie := range movies {
		marker := " "
		if favs.Contains(movie.ID) {
			marker = "*"
		}
		buf.WriteString(fmt.Sprintf("%d. %s %s (%s, dir. %s)\n", i+1, marker, movie.Title, movie.Genre.Name, movie.Director.Name))
	}

	return buf.Bytes()
}

// MoviesToMarkdown renders the catalog as a Markdown table.
func MoviesToMarkdown(movies []api.Movie, favs api.FavoriteIDs) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Movies\n\n**Count**: %d\n\n", len(movies)))
	buf.WriteString("| Title | Genre | Director | Favorite |\n")
	buf.WriteString("| --- | --- | --- | --- |\n")

	for _, movie := range movies {
		fav := ""
		if favs.Contains(movie.ID) {
			fav = "yes"
		}
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", movie.Title, movie.Genre.Name, movie.Director.Name, fav))
	}

	return buf.Bytes()
}

// MoviesToCSV converts the catalog to CSV with columns: ID, Title, Genre, Director, Featured
func MoviesToCSV(movies []api.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Genre", "Director", "Featured"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range movies {
		record := []string{
			movie.ID,
			movie.Title,
			movie.Genre.Name,
			movie.Director.Name,
			fmt.Sprintf("%t", movie.Featured),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MovieToText renders a single movie as a detail card.
func MovieToText(movie api.Movie) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Title: %s\n", movie.Title))
	if movie.Featured {
		buf.WriteString("Featured: yes\n")
	}
	buf.WriteString(fmt.Sprintf("Genre: %s\n", movie.Genre.Name))
	buf.WriteString(fmt.Sprintf("Director: %s\n", movie.Director.Name))
	if movie.Description != "" {
		buf.WriteString(fmt.Sprintf("\n%s\n", movie.Description))
	}
	if movie.ImagePath != "" {
		buf.WriteString(fmt.Sprintf("\nPoster: %s\n", movie.ImagePath))
	}

	return buf.Bytes()
}

// DirectorToText renders a director card.
func DirectorToText(director api.Director) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Director: %s\n", director.Name))
	if director.Birth != "" {
		buf.WriteString(fmt.Sprintf("Born: %s\n", director.Birth))
	}
	if director.Bio != "" {
		buf.WriteString(fmt.Sprintf("\n%s\n", director.Bio))
	}

	return buf.Bytes()
}

// GenreToText renders a genre card.
func GenreToText(genre api.Genre) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Genre: %s\n", genre.Name))
	if genre.Description != "" {
		buf.WriteString(fmt.Sprintf("\n%s\n", genre.Description))
	}

	return buf.Bytes()
}

// ProfileToText renders a user profile.
func ProfileToText(user api.User) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Username: %s\n", user.Username))
	buf.WriteString(fmt.Sprintf("Email: %s\n", user.Email))
	if user.Birthday != "" {
		buf.WriteString(fmt.Sprintf("Birthday: %s\n", user.Birthday))
	}
	buf.WriteString(fmt.Sprintf("Favorites: %d\n", len(user.FavoriteMovies)))

	return buf.Bytes()
}

// FavoritesToText renders the user's favorites, already filtered to catalog
// order.
func FavoritesToText(movies []api.Movie) []byte {
	if len(movies) == 0 {
		return []byte("No favorite movies yet.\n")
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Favorites: %d\n\n", len(movies)))
	for i, movie := range movies {
		buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, movie.Title, movie.Director.Name))
	}

	return buf.Bytes()
}

// WriteCatalogCSV writes the catalog to {base}_movies.csv, defaulting base
// to "catalog", and returns the path written.
func WriteCatalogCSV(movies []api.Movie, base string) (string, error) {
	if base == "" {
		base = "catalog"
	}

	data, err := MoviesToCSV(movies)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	path := base + "_movies.csv"
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}
