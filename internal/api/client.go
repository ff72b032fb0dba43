package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/flixfile/flixctl/internal/session"
	"github.com/flixfile/flixctl/internal/shared"
)

const (
	// DefaultBaseURL is the hosted catalog instance.
	DefaultBaseURL = "https://flixfile.herokuapp.com"

	defaultTimeout = 15 * time.Second
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client talks to the movie catalog API. All other packages go through it;
// nothing else in the application opens a network connection.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions session.Store
	limiter  *rate.Limiter
	logger   *log.Logger
}

// ClientOpts configures a [Client]. The zero value is usable: nil or empty
// fields fall back to sane defaults.
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Sessions   session.Store
	Logger     *log.Logger
	Rate       float64
	Burst      int
}

// NewClient creates a gateway from opts, filling in defaults for anything
// unset.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}

	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}

	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	if opts.Rate <= 0 {
		opts.Rate = 5
	}

	if opts.Burst <= 0 {
		opts.Burst = 10
	}

	return &Client{
		baseURL:  opts.BaseURL,
		http:     opts.HTTPClient,
		sessions: opts.Sessions,
		limiter:  rate.NewLimiter(rate.Limit(opts.Rate), opts.Burst),
		logger:   opts.Logger,
	}
}

// doRequest builds, sends, and decodes a single API call. When authed is
// true the bearer token is read from the session store here, at call time;
// a missing token fails before any request is built.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any, authed bool) error {
	var token string
	if authed {
		sess, ok := c.sessions.Current()
		if !ok {
			return shared.ErrUnauthenticated
		}
		token = sess.Token
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", shared.GenerateID())

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "endpoint", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", shared.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverErr := &ServerError{Status: resp.StatusCode, Body: data}

		if authed && serverErr.Unauthorized() {
			// the token the server just refused is useless; drop it
			if clearErr := c.sessions.Clear(); clearErr != nil {
				c.logger.Warn("clearing rejected session", "error", clearErr)
			}
		}

		c.logger.Debug("api error", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
		return serverErr
	}

	// an empty 2xx body means success with nothing to say; the result stays
	// at its zero value
	if result == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}

	return nil
}

// Register creates a new account. The payload is validated locally before
// anything goes over the wire.
func (c *Client) Register(ctx context.Context, reg Registration) (User, error) {
	if err := validate.Struct(reg); err != nil {
		return User{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var user User
	if err := c.doRequest(ctx, http.MethodPost, "/users", reg, &user, false); err != nil {
		return User{}, err
	}

	return user, nil
}

// Login exchanges credentials for a bearer token and the user's profile. It
// does not touch the session store; persisting the session is the caller's
// decision.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	if err := validate.Struct(creds); err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var result LoginResult
	if err := c.doRequest(ctx, http.MethodPost, "/login", creds, &result, false); err != nil {
		return LoginResult{}, err
	}

	if result.Token == "" {
		return LoginResult{}, fmt.Errorf("%w: server returned no token", shared.ErrAuthFailed)
	}

	return result, nil
}

// Movies fetches the full catalog snapshot.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	var movies []Movie
	if err := c.doRequest(ctx, http.MethodGet, "/movies", nil, &movies, true); err != nil {
		return nil, err
	}

	return movies, nil
}

// Movie fetches a single catalog entry by title.
func (c *Client) Movie(ctx context.Context, title string) (Movie, error) {
	var movie Movie
	endpoint := "/movies/" + url.PathEscape(title)

	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &movie, true); err != nil {
		return Movie{}, err
	}

	return movie, nil
}

// Director fetches a director's details by name.
func (c *Client) Director(ctx context.Context, name string) (Director, error) {
	var director Director
	endpoint := "/directors/" + url.PathEscape(name)

	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &director, true); err != nil {
		return Director{}, err
	}

	return director, nil
}

// Genre fetches a genre's details by name.
func (c *Client) Genre(ctx context.Context, name string) (Genre, error) {
	var genre Genre
	endpoint := "/genres/" + url.PathEscape(name)

	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &genre, true); err != nil {
		return Genre{}, err
	}

	return genre, nil
}

// User fetches a user's profile by username.
func (c *Client) User(ctx context.Context, username string) (User, error) {
	var user User
	endpoint := "/users/" + url.PathEscape(username)

	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &user, true); err != nil {
		return User{}, err
	}

	return user, nil
}

// UpdateUser applies a partial profile update and returns the updated record.
func (c *Client) UpdateUser(ctx context.Context, username string, update ProfileUpdate) (User, error) {
	if err := validate.Struct(update); err != nil {
		return User{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	var user User
	endpoint := "/users/" + url.PathEscape(username)

	if err := c.doRequest(ctx, http.MethodPut, endpoint, update, &user, true); err != nil {
		return User{}, err
	}

	return user, nil
}

// DeleteUser removes an account. The session store is left untouched so
// callers can keep their ordering guarantees.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	endpoint := "/users/" + url.PathEscape(username)
	return c.doRequest(ctx, http.MethodDelete, endpoint, nil, nil, true)
}

// AddFavorite marks a movie as a favorite and returns the updated profile.
func (c *Client) AddFavorite(ctx context.Context, username, movieID string) (User, error) {
	var user User
	endpoint := "/users/" + url.PathEscape(username) + "/movies/" + url.PathEscape(movieID)

	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, &user, true); err != nil {
		return User{}, err
	}

	return user, nil
}

// RemoveFavorite unmarks a favorite and returns the updated profile.
func (c *Client) RemoveFavorite(ctx context.Context, username, movieID string) (User, error) {
	var user User
	endpoint := "/users/" + url.PathEscape(username) + "/movies/" + url.PathEscape(movieID)

	if err := c.doRequest(ctx, http.MethodDelete, endpoint, nil, &user, true); err != nil {
		return User{}, err
	}

	return user, nil
}
