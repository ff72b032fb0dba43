package favorites_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixfile/flixctl/internal/api"
	"github.com/flixfile/flixctl/internal/favorites"
	"github.com/flixfile/flixctl/internal/shared"
	itesting "github.com/flixfile/flixctl/internal/testing"
)

func profile(ids ...string) api.User {
	return api.User{Username: "ana", FavoriteMovies: api.FavoriteIDs(ids)}
}

func TestCoordinatorLoad(t *testing.T) {
	t.Run("unloaded set reports nothing favorite", func(t *testing.T) {
		coord := favorites.NewCoordinator(&itesting.StubGateway{}, "ana", nil)

		assert.False(t, coord.Loaded())
		assert.False(t, coord.IsFavorite("m1"))
		assert.Empty(t, coord.Favorites())
	})

	t.Run("load replaces the set with the server profile", func(t *testing.T) {
		gateway := &itesting.StubGateway{
			UserFunc: func(ctx context.Context, username string) (api.User, error) {
				assert.Equal(t, "ana", username)
				return profile("m2", "m1"), nil
			},
		}
		coord := favorites.NewCoordinator(gateway, "ana", nil)

		require.NoError(t, coord.Load(context.Background()))
		assert.True(t, coord.Loaded())
		assert.True(t, coord.IsFavorite("m1"))
		assert.True(t, coord.IsFavorite("m2"))
		assert.Equal(t, api.FavoriteIDs{"m1", "m2"}, coord.Favorites())
	})

	t.Run("load failure leaves the set unloaded", func(t *testing.T) {
		gateway := &itesting.StubGateway{
			UserFunc: func(ctx context.Context, username string) (api.User, error) {
				return api.User{}, shared.ErrTransport
			},
		}
		coord := favorites.NewCoordinator(gateway, "ana", nil)

		assert.ErrorIs(t, coord.Load(context.Background()), shared.ErrTransport)
		assert.False(t, coord.Loaded())
	})
}

func TestCoordinatorToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a non-favorite and takes the server's set", func(t *testing.T) {
		gateway := &itesting.StubGateway{
			UserFunc: func(ctx context.Context, username string) (api.User, error) {
				return profile("m1"), nil
			},
			AddFavoriteFunc: func(ctx context.Context, username, movieID string) (api.User, error) {
				assert.Equal(t, "m2", movieID)
				// the server may know about changes made elsewhere
				return profile("m1", "m2", "m9"), nil
			},
		}
		coord := favorites.NewCoordinator(gateway, "ana", nil)
		require.NoError(t, coord.Load(ctx))

		added, err := coord.Toggle(ctx, "m2")
		require.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, api.FavoriteIDs{"m1", "m2", "m9"}, coord.Favorites())
	})

	t.Run("removes a favorite", func(t *testing.T) {
		gateway := &itesting.StubGateway{
			UserFunc: func(ctx context.Context, username string) (api.User, error) {
				return profile("m1", "m2"), nil
			},
			RemoveFavoriteFunc: func(ctx context.Context, username, movieID string) (api.User, error) {
				assert.Equal(t, "m1", movieID)
				return profile("m2"), nil
			},
		}
		coord := favorites.NewCoordinator(gateway, "ana", nil)
		require.NoError(t, coord.Load(ctx))

		added, err := coord.Toggle(ctx, "m1")
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, api.FavoriteIDs{"m2"}, coord.Favorites())
	})

	t.Run("loads lazily before the first mutation", func(t *testing.T) {
		var loads, adds, removes atomic.Int64
		gateway := &itesting.StubGateway{
			UserFunc: func(ctx context.Context, username string) (api.User, error) {
				loads.Add(1)
				return profile("m1"), nil
			},
			AddFavoriteFunc: func(ctx context.Context, username, movieID string) (api.User, error) {
				adds.Add(1)
				return profile("m1", movieID), nil
			},
			RemoveFavoriteFunc: func(ctx context.Context, username, movieID string) (api.User, error) {
				removes.Add(1)
				return profile(), nil
			},
		}
		coord := favorites.NewCoordinator(gateway, "ana", nil)

		// the toggle direction must be read from the loaded set, not the
		// empty pre-load one
		added, err := coord.Toggle(ctx, "m1")
		require.NoError(t, err)
		assert.False(t, added, "m1 was already favorite on the server, so toggling removes it")
		assert.Equal(t, int64(1), loads.Load())
		assert.Equal(t, int64(1), removes.Load())
		assert.Zero(t, adds.Load())
		assert.False(t, coord.IsFavorite("m1"))
	})

	t.Run("failure rolls the set back and surfaces the error", func(t *testing.T) {
		boom := errors.New("boom")
		gateway := &itesting.StubGateway{
			UserFunc: func(ctx context.Context, username string) (api.User, error) {
				return profile("m1"), nil
			},
			AddFavoriteFunc: func(ctx context.Context, username, movieID string) (api.User, error) {
				return api.User{}, boom
			},
		}
		coord := favorites.NewCoordinator(gateway, "ana", nil)
		require.NoError(t, coord.Load(ctx))

		_, err := coord.Toggle(ctx, "m2")
		assert.ErrorIs(t, err, boom)
		assert.False(t, coord.IsFavorite("m2"))
		assert.Equal(t, api.FavoriteIDs{"m1"}, coord.Favorites())
	})
}

func TestCoordinatorIdempotence(t *testing.T) {
	ctx := context.Background()

	t.Run("adding an existing favorite is a local no-op", func(t *testing.T) {
		var calls atomic.Int64
		gateway := &itesting.StubGateway{
			UserFunc: func(ctx context.Context, username string) (api.User, error) {
				return profile("m1"), nil
			},
			AddFavoriteFunc: func(ctx context.Context, username, movieID string) (api.User, error) {
				calls.Add(1)
				return profile("m1"), nil
			},
		}
		coord := favorites.NewCoordinator(gateway, "ana", nil)
		require.NoError(t, coord.Load(ctx))

		require.NoError(t, coord.Add(ctx, "m1"))
		assert.Zero(t, calls.Load())
		assert.True(t, coord.IsFavorite("m1"))
	})

	t.Run("removing a non-favorite is a local no-op", func(t *testing.T) {
		var calls atomic.Int64
		gateway := &itesting.StubGateway{
			UserFunc: func(ctx context.Context, username string) (api.User, error) {
				return profile(), nil
			},
			RemoveFavoriteFunc: func(ctx context.Context, username, movieID string) (api.User, error) {
				calls.Add(1)
				return profile(), nil
			},
		}
		coord := favorites.NewCoordinator(gateway, "ana", nil)
		require.NoError(t, coord.Load(ctx))

		require.NoError(t, coord.Remove(ctx, "m9"))
		assert.Zero(t, calls.Load())
	})
}

func TestCoordinatorConflicts(t *testing.T) {
	ctx := context.Background()

	// blockingGateway parks AddFavorite until released, so tests can hold a
	// mutation in flight deterministically.
	newBlocking := func(entered chan<- string, release <-chan struct{}) *itesting.StubGateway {
		return &itesting.StubGateway{
			UserFunc: func(ctx context.Context, username string) (api.User, error) {
				return profile(), nil
			},
			AddFavoriteFunc: func(ctx context.Context, username, movieID string) (api.User, error) {
				entered <- movieID
				<-release
				return profile(movieID), nil
			},
		}
	}

	t.Run("second change to the same movie fails fast", func(t *testing.T) {
		entered := make(chan string, 1)
		release := make(chan struct{})
		coord := favorites.NewCoordinator(newBlocking(entered, release), "ana", nil)
		require.NoError(t, coord.Load(ctx))

		done := make(chan error, 1)
		go func() {
			_, err := coord.Toggle(ctx, "m1")
			done <- err
		}()

		<-entered

		_, err := coord.Toggle(ctx, "m1")
		assert.ErrorIs(t, err, shared.ErrConflictInProgress)

		close(release)
		require.NoError(t, <-done)
		assert.True(t, coord.IsFavorite("m1"))
	})

	t.Run("mutations to different movies are independent", func(t *testing.T) {
		entered := make(chan string, 2)
		release := make(chan struct{})
		coord := favorites.NewCoordinator(newBlocking(entered, release), "ana", nil)
		require.NoError(t, coord.Load(ctx))

		done := make(chan error, 2)
		go func() {
			_, err := coord.Toggle(ctx, "m1")
			done <- err
		}()
		go func() {
			_, err := coord.Toggle(ctx, "m2")
			done <- err
		}()

		// both mutations reach the network layer without waiting on each other
		seen := map[string]bool{<-entered: true, <-entered: true}
		assert.True(t, seen["m1"] && seen["m2"])

		close(release)
		require.NoError(t, <-done)
		require.NoError(t, <-done)
	})

	t.Run("reset discards in-flight results", func(t *testing.T) {
		entered := make(chan string, 1)
		release := make(chan struct{})
		coord := favorites.NewCoordinator(newBlocking(entered, release), "ana", nil)
		require.NoError(t, coord.Load(ctx))

		done := make(chan error, 1)
		go func() {
			_, err := coord.Toggle(ctx, "m1")
			done <- err
		}()

		<-entered
		coord.Reset()
		close(release)

		select {
		case err := <-done:
			assert.ErrorIs(t, err, shared.ErrViewDiscarded)
		case <-time.After(time.Second):
			t.Fatal("toggle never completed")
		}

		assert.False(t, coord.Loaded())
		assert.False(t, coord.IsFavorite("m1"))
	})
}

func TestFavoriteSet(t *testing.T) {
	catalog := []api.Movie{
		{ID: "m1", Title: "Arrival"},
		{ID: "m2", Title: "Brazil"},
		{ID: "m3", Title: "Chinatown"},
	}

	gateway := &itesting.StubGateway{
		UserFunc: func(ctx context.Context, username string) (api.User, error) {
			// m99 is not in the catalog, e.g. a movie removed server-side
			return profile("m3", "m1", "m99"), nil
		},
	}
	coord := favorites.NewCoordinator(gateway, "ana", nil)
	require.NoError(t, coord.Load(context.Background()))

	got := coord.FavoriteSet(catalog)
	require.Len(t, got, 2, "ids missing from the catalog are dropped, not errors")
	assert.Equal(t, "Arrival", got[0].Title, "catalog order wins, not profile order")
	assert.Equal(t, "Chinatown", got[1].Title)
}
