package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixfile/flixctl/internal/api"
	"github.com/flixfile/flixctl/internal/session"
	"github.com/flixfile/flixctl/internal/shared"
	itesting "github.com/flixfile/flixctl/internal/testing"
)

func signedIn(t *testing.T) session.Store {
	t.Helper()

	store := session.NewMemoryStore()
	require.NoError(t, store.Set("tok123", "ana"))
	return store
}

func TestClientLogin(t *testing.T) {
	t.Run("success returns token and profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/login", r.URL.Path)
			assert.Empty(t, r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"user":{"_id":"u1","Username":"ana","Email":"ana@example.com","FavoriteMovies":["m1"]},"token":"tok123"}`))
		}))
		defer server.Close()

		client := api.NewClient(api.ClientOpts{BaseURL: server.URL})

		result, err := client.Login(context.Background(), api.Credentials{Username: "ana", Password: "hunter2"})
		require.NoError(t, err)
		assert.Equal(t, "tok123", result.Token)
		assert.Equal(t, "ana", result.User.Username)
		assert.Equal(t, api.FavoriteIDs{"m1"}, result.User.FavoriteMovies)
	})

	t.Run("does not write the session store", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"user":{"Username":"ana"},"token":"tok123"}`))
		}))
		defer server.Close()

		store := session.NewMemoryStore()
		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: store})

		_, err := client.Login(context.Background(), api.Credentials{Username: "ana", Password: "hunter2"})
		require.NoError(t, err)

		_, ok := store.Current()
		assert.False(t, ok, "login must leave session persistence to the caller")
	})

	t.Run("missing token is an auth failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"user":{"Username":"ana"}}`))
		}))
		defer server.Close()

		client := api.NewClient(api.ClientOpts{BaseURL: server.URL})

		_, err := client.Login(context.Background(), api.Credentials{Username: "ana", Password: "hunter2"})
		assert.ErrorIs(t, err, shared.ErrAuthFailed)
	})

	t.Run("rejected credentials do not clear an existing session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		store := signedIn(t)
		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: store})

		_, err := client.Login(context.Background(), api.Credentials{Username: "ben", Password: "wrong!"})
		require.Error(t, err)

		_, ok := store.Current()
		assert.True(t, ok, "login is unauthenticated; a 401 there says nothing about the stored token")
	})
}

func TestClientAuth(t *testing.T) {
	t.Run("signed out call performs zero network IO", func(t *testing.T) {
		counter := &itesting.CountingRoundTripper{Next: http.DefaultTransport}
		client := api.NewClient(api.ClientOpts{
			BaseURL:    "http://127.0.0.1:0",
			HTTPClient: &http.Client{Transport: counter},
		})

		_, err := client.Movies(context.Background())
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
		assert.Zero(t, counter.Requests.Load())
	})

	t.Run("bearer token read at call time", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		store := session.NewMemoryStore()
		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: store})

		// sign in after the client is built; the token must still be picked up
		require.NoError(t, store.Set("tok456", "ana"))

		_, err := client.Movies(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok456", gotAuth)
	})

	t.Run("401 on an authenticated call clears the session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`invalid token`))
		}))
		defer server.Close()

		store := signedIn(t)
		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: store})

		_, err := client.Movies(context.Background())

		var serverErr *api.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.True(t, serverErr.Unauthorized())

		_, ok := store.Current()
		assert.False(t, ok)
	})
}

func TestClientErrors(t *testing.T) {
	t.Run("unreachable server wraps the transport sentinel", func(t *testing.T) {
		rt := itesting.NewMockRoundTripper(nil, errors.New("connection refused"))
		client := api.NewClient(api.ClientOpts{
			BaseURL:    "http://127.0.0.1:0",
			HTTPClient: &http.Client{Transport: rt},
			Sessions:   signedIn(t),
		})

		_, err := client.Movies(context.Background())
		assert.ErrorIs(t, err, shared.ErrTransport)
	})

	t.Run("non-2xx carries status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`no such movie`))
		}))
		defer server.Close()

		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: signedIn(t)})

		_, err := client.Movie(context.Background(), "Missing")
		require.ErrorIs(t, err, shared.ErrServer)

		var serverErr *api.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusNotFound, serverErr.Status)
		assert.Equal(t, "no such movie", string(serverErr.Body))
	})

	t.Run("stubbed 503 maps to a server failure", func(t *testing.T) {
		rt := itesting.NewMockRoundTripper(itesting.JSONResponse(http.StatusServiceUnavailable, `{"error":"maintenance"}`), nil)
		client := api.NewClient(api.ClientOpts{
			BaseURL:    "http://127.0.0.1:0",
			HTTPClient: &http.Client{Transport: rt},
			Sessions:   signedIn(t),
		})

		_, err := client.Movies(context.Background())

		var serverErr *api.ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusServiceUnavailable, serverErr.Status)
		assert.Contains(t, string(serverErr.Body), "maintenance")
	})

	t.Run("failure reading the body is a transport failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &itesting.FCloser{}}
		client := api.NewClient(api.ClientOpts{
			BaseURL:    "http://127.0.0.1:0",
			HTTPClient: &http.Client{Transport: itesting.NewMockRoundTripper(resp, nil)},
			Sessions:   signedIn(t),
		})

		_, err := client.Movies(context.Background())
		assert.ErrorIs(t, err, shared.ErrTransport)
	})

	t.Run("empty 2xx body decodes to a zero value", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: signedIn(t)})

		user, err := client.AddFavorite(context.Background(), "ana", "m1")
		require.NoError(t, err)
		assert.Equal(t, api.User{}, user)
	})

	t.Run("local validation fails before any request", func(t *testing.T) {
		counter := &itesting.CountingRoundTripper{Next: http.DefaultTransport}
		client := api.NewClient(api.ClientOpts{
			BaseURL:    "http://127.0.0.1:0",
			HTTPClient: &http.Client{Transport: counter},
		})

		_, err := client.Register(context.Background(), api.Registration{Username: "a", Password: "x", Email: "nope"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Zero(t, counter.Requests.Load())
	})
}

func TestClientEndpoints(t *testing.T) {
	t.Run("path parameters are escaped", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: signedIn(t)})

		_, err := client.Movie(context.Background(), "The Grand Budapest Hotel")
		require.NoError(t, err)
		assert.Equal(t, "/movies/The%20Grand%20Budapest%20Hotel", gotPath)
	})

	t.Run("favorite mutations hit the nested resource", func(t *testing.T) {
		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod, gotPath = r.Method, r.URL.Path
			w.Write([]byte(`{"Username":"ana","FavoriteMovies":["m1","m2"]}`))
		}))
		defer server.Close()

		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: signedIn(t)})

		user, err := client.AddFavorite(context.Background(), "ana", "m2")
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/users/ana/movies/m2", gotPath)
		assert.Equal(t, api.FavoriteIDs{"m1", "m2"}, user.FavoriteMovies)

		_, err = client.RemoveFavorite(context.Background(), "ana", "m2")
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, gotMethod)
	})

	t.Run("delete user sends no body and expects none", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/users/ana", r.URL.Path)
			w.Write([]byte(`ana was deleted.`))
		}))
		defer server.Close()

		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: signedIn(t)})

		assert.NoError(t, client.DeleteUser(context.Background(), "ana"))
	})

	t.Run("director and genre lookups", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/directors/Wes Anderson":
				w.Write([]byte(`{"Name":"Wes Anderson","Bio":"American filmmaker","Birth":"1969"}`))
			case "/genres/Comedy":
				w.Write([]byte(`{"Name":"Comedy","Description":"Intended to make an audience laugh"}`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		client := api.NewClient(api.ClientOpts{BaseURL: server.URL, Sessions: signedIn(t)})

		director, err := client.Director(context.Background(), "Wes Anderson")
		require.NoError(t, err)
		assert.Equal(t, "Wes Anderson", director.Name)

		genre, err := client.Genre(context.Background(), "Comedy")
		require.NoError(t, err)
		assert.Equal(t, "Comedy", genre.Name)
	})
}
