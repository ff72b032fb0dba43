package api

import (
	"encoding/json"
	"fmt"
)

// Genre represents a movie genre as returned by the catalog.
type Genre struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

// Director represents a movie director as returned by the catalog.
type Director struct {
	Name  string `json:"Name"`
	Bio   string `json:"Bio"`
	Birth string `json:"Birth"`
}

// Movie represents a single catalog entry. Movies are immutable from the
// client's perspective; the catalog is always fetched as a full snapshot.
type Movie struct {
	ID          string   `json:"_id"`
	Title       string   `json:"Title"`
	Description string   `json:"Description"`
	Genre       Genre    `json:"Genre"`
	Director    Director `json:"Director"`
	ImagePath   string   `json:"ImagePath"`
	Featured    bool     `json:"Featured"`
}

// FavoriteIDs is the canonical shape of a user's favorite-movie list: a flat
// list of movie ids. The server returns either id strings or embedded movie
// objects depending on the endpoint; both decode into this type.
type FavoriteIDs []string

func (f *FavoriteIDs) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("favorite movies: expected array: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for _, el := range raw {
		var id string
		if err := json.Unmarshal(el, &id); err == nil {
			ids = append(ids, id)
			continue
		}

		var obj struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(el, &obj); err == nil && obj.ID != "" {
			ids = append(ids, obj.ID)
			continue
		}

		return fmt.Errorf("favorite movies: unrecognized entry %s", string(el))
	}

	*f = ids
	return nil
}

// Contains reports whether id is in the list. Comparison is exact; no fuzzy
// matching.
func (f FavoriteIDs) Contains(id string) bool {
	for _, v := range f {
		if v == id {
			return true
		}
	}
	return false
}

// User represents a user record owned by the server. The client holds
// read-through copies only, refreshed on demand.
//
// encoding/json matches keys case-insensitively, so the lowercase variants
// some endpoints emit (username, favoriteMovies) decode into the same fields.
type User struct {
	ID             string      `json:"_id"`
	Username       string      `json:"Username"`
	Email          string      `json:"Email"`
	Birthday       string      `json:"Birthday,omitempty"`
	FavoriteMovies FavoriteIDs `json:"FavoriteMovies"`
}

// Credentials carries a username/password pair for login.
type Credentials struct {
	Username string `json:"Username" validate:"required,min=3"`
	Password string `json:"Password" validate:"required"`
}

// Registration carries the fields for creating a new account. Password is
// write-only: the server never echoes it back.
type Registration struct {
	Username string `json:"Username" validate:"required,min=3,alphanum"`
	Password string `json:"Password" validate:"required,min=6"`
	Email    string `json:"Email" validate:"required,email"`
	Birthday string `json:"Birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ProfileUpdate carries a partial profile update. Nil fields are omitted from
// the request body and left unchanged server-side.
type ProfileUpdate struct {
	Username *string `json:"Username,omitempty" validate:"omitempty,min=3,alphanum"`
	Password *string `json:"Password,omitempty" validate:"omitempty,min=6"`
	Email    *string `json:"Email,omitempty" validate:"omitempty,email"`
	Birthday *string `json:"Birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// LoginResult is the payload returned by POST /login.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
