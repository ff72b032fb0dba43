// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/flixfile/flixctl/internal/api"
)

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// CountingRoundTripper counts the requests it sees before delegating, so
// tests can assert that a code path performed zero network I/O.
type CountingRoundTripper struct {
	Requests atomic.Int64
	Next     http.RoundTripper
}

func (c *CountingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.Requests.Add(1)
	if c.Next == nil {
		return nil, errors.New("no transport configured")
	}
	return c.Next.RoundTrip(req)
}

// JSONResponse builds an *http.Response with the given status and body for
// use with [MockRoundTripper].
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

// StubGateway is a test double for the catalog operations the favorites
// coordinator uses. Unset function fields return zero values.
type StubGateway struct {
	UserFunc           func(ctx context.Context, username string) (api.User, error)
	AddFavoriteFunc    func(ctx context.Context, username, movieID string) (api.User, error)
	RemoveFavoriteFunc func(ctx context.Context, username, movieID string) (api.User, error)
}

func (s *StubGateway) User(ctx context.Context, username string) (api.User, error) {
	if s.UserFunc == nil {
		return api.User{}, nil
	}
	return s.UserFunc(ctx, username)
}

func (s *StubGateway) AddFavorite(ctx context.Context, username, movieID string) (api.User, error) {
	if s.AddFavoriteFunc == nil {
		return api.User{}, nil
	}
	return s.AddFavoriteFunc(ctx, username, movieID)
}

func (s *StubGateway) RemoveFavorite(ctx context.Context, username, movieID string) (api.User, error) {
	if s.RemoveFavoriteFunc == nil {
		return api.User{}, nil
	}
	return s.RemoveFavoriteFunc(ctx, username, movieID)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
