// Package api implements the HTTP client for the movie catalog service.
//
// # Gateway
//
// [Client] is the only component in the application that performs network I/O.
// It exposes one method per server operation and normalizes every outcome:
//
//   - a failure to reach the server wraps [shared.ErrTransport]
//   - a non-2xx response becomes a [*ServerError] carrying status and body
//   - a 2xx response with an empty body decodes to a zero value, never nil
//
// Methods that require authentication read the bearer token from the session
// store at call time. With no token present they fail with
// [shared.ErrUnauthenticated] before any request is built, so a signed-out
// client performs zero network I/O. A 401 on an authenticated call clears the
// session store, forcing re-login.
//
// The gateway never retries; callers decide whether to try again.
//
// # Wire format
//
// The server uses capitalized JSON keys (Title, Director, FavoriteMovies) and
// Mongo-style _id identifiers. The favorite-movie list arrives in two shapes
// depending on the endpoint: plain id strings from /login, or embedded movie
// objects from populated profile queries. [FavoriteIDs] folds both into a
// canonical []string at the decode boundary.
package api
