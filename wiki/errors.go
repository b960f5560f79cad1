package wiki

import (
	"errors"
	"net/http"

	"github.com/oakhollow/stardewiki/wiki/internal/fetch"
	"github.com/oakhollow/stardewiki/wiki/internal/wikiparse"
)

// The failure taxonomy, re-exported so callers can errors.As against it
// without reaching into internal packages. Zero search results is a success,
// never one of these.
type (
	// PageNotFoundError: no page exists under the requested exact title.
	PageNotFoundError = fetch.NotFoundError
	// NetworkError: the upstream API was unreachable after all retries.
	// The only retryable kind.
	NetworkError = fetch.NetworkError
	// RedirectError: the title resolves to a redirect page; the canonical
	// target is surfaced rather than followed.
	RedirectError = fetch.RedirectError
	// ParseError: page content could not be processed at all.
	ParseError = wikiparse.ParseError
)

// httpStatus maps a taxonomy error to the status code the HTTP API returns.
func httpStatus(err error) int {
	var (
		notFound *PageNotFoundError
		network  *NetworkError
		redirect *RedirectError
		parse    *ParseError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &network):
		return http.StatusBadGateway
	case errors.As(err, &redirect):
		return http.StatusConflict
	case errors.As(err, &parse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
