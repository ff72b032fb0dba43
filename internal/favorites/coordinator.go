// Package favorites maintains the signed-in user's favorite-movie set and
// serializes mutations to it.
//
// The set is derived state: the server's copy of the profile is authoritative
// and every server response replaces the local set wholesale. The coordinator
// allows one in-flight mutation per movie id; a second change to the same
// movie while the first is pending fails fast with
// [shared.ErrConflictInProgress] instead of queueing. Mutations to different
// movies proceed independently.
package favorites

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/flixfile/flixctl/internal/api"
	"github.com/flixfile/flixctl/internal/shared"
)

// Gateway is the slice of the catalog client the coordinator needs.
type Gateway interface {
	User(ctx context.Context, username string) (api.User, error)
	AddFavorite(ctx context.Context, username, movieID string) (api.User, error)
	RemoveFavorite(ctx context.Context, username, movieID string) (api.User, error)
}

// Coordinator owns the favorite-id set for one signed-in user.
type Coordinator struct {
	gateway  Gateway
	username string
	logger   *log.Logger

	mu      sync.Mutex
	loaded  bool
	set     map[string]struct{}
	pending map[string]struct{}
	epoch   uint64
}

// NewCoordinator creates a coordinator for username. The set starts unloaded;
// the first read or mutation fetches the profile.
func NewCoordinator(gateway Gateway, username string, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Coordinator{
		gateway:  gateway,
		username: username,
		logger:   logger,
		set:      make(map[string]struct{}),
		pending:  make(map[string]struct{}),
	}
}

// Username returns the user this coordinator tracks.
func (c *Coordinator) Username() string {
	return c.username
}

// Loaded reports whether the set has been populated from the server.
func (c *Coordinator) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Load fetches the profile and replaces the local set with the server's.
func (c *Coordinator) Load(ctx context.Context) error {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	user, err := c.gateway.User(ctx, c.username)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch {
		return shared.ErrViewDiscarded
	}

	c.replace(user.FavoriteMovies)
	c.loaded = true
	return nil
}

// IsFavorite reports whether the movie is in the local set. An unloaded
// coordinator reports false for everything.
func (c *Coordinator) IsFavorite(movieID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.set[movieID]
	return ok
}

// Favorites returns the current favorite ids, sorted for stable output.
func (c *Coordinator) Favorites() api.FavoriteIDs {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make(api.FavoriteIDs, 0, len(c.set))
	for id := range c.set {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}

// FavoriteSet filters catalog down to the user's favorites, preserving
// catalog order.
func (c *Coordinator) FavoriteSet(catalog []api.Movie) []api.Movie {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]api.Movie, 0)
	for _, m := range catalog {
		if _, ok := c.set[m.ID]; ok {
			out = append(out, m)
		}
	}

	return out
}

// direction selects what a mutation does to the movie's favorite state.
type direction int

const (
	dirAdd direction = iota
	dirRemove
	dirFlip
)

// Toggle flips the favorite state of movieID and reports the new state:
// true when the movie was added, false when removed. The direction is decided
// against the loaded set, so a movie that is already a server-side favorite
// gets removed even when the first call arrives before any Load.
func (c *Coordinator) Toggle(ctx context.Context, movieID string) (bool, error) {
	return c.mutate(ctx, movieID, dirFlip)
}

// Add marks movieID as a favorite. Adding an existing favorite is a no-op
// success with no network traffic.
func (c *Coordinator) Add(ctx context.Context, movieID string) error {
	_, err := c.mutate(ctx, movieID, dirAdd)
	return err
}

// Remove unmarks movieID. Removing a non-favorite is a no-op success with no
// network traffic.
func (c *Coordinator) Remove(ctx context.Context, movieID string) error {
	_, err := c.mutate(ctx, movieID, dirRemove)
	return err
}

// Reset discards the set and invalidates every in-flight operation. Results
// from calls started before the reset are dropped when they complete.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.loaded = false
	c.set = make(map[string]struct{})
}

func (c *Coordinator) mutate(ctx context.Context, movieID string, dir direction) (bool, error) {
	if !c.Loaded() {
		if err := c.Load(ctx); err != nil {
			return false, err
		}
	}

	c.mu.Lock()

	if _, busy := c.pending[movieID]; busy {
		c.mu.Unlock()
		return false, shared.ErrConflictInProgress
	}

	// the direction is read off the set under the lock, after the load above
	_, had := c.set[movieID]
	want := !had
	switch dir {
	case dirAdd:
		want = true
	case dirRemove:
		want = false
	}

	if had == want {
		c.mu.Unlock()
		return want, nil
	}

	epoch := c.epoch
	c.pending[movieID] = struct{}{}

	// optimistic flip so readers see the intended state while the request
	// is in flight; reverted on failure, overwritten by the server on success
	if want {
		c.set[movieID] = struct{}{}
	} else {
		delete(c.set, movieID)
	}

	c.mu.Unlock()

	var user api.User
	var err error
	if want {
		user, err = c.gateway.AddFavorite(ctx, c.username, movieID)
	} else {
		user, err = c.gateway.RemoveFavorite(ctx, c.username, movieID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.pending, movieID)

	if epoch != c.epoch {
		c.logger.Debug("dropping stale favorite mutation", "movie", movieID)
		return false, shared.ErrViewDiscarded
	}

	if err != nil {
		// roll back the optimistic flip
		if had {
			c.set[movieID] = struct{}{}
		} else {
			delete(c.set, movieID)
		}
		return false, err
	}

	c.replace(user.FavoriteMovies)
	return want, nil
}

// replace swaps the set for the server's list. Callers hold c.mu.
func (c *Coordinator) replace(ids api.FavoriteIDs) {
	c.set = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		c.set[id] = struct{}{}
	}
}
