package fetch

import "fmt"

// NotFoundError reports that a requested page title does not exist upstream.
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page %q not found; use the search_wiki tool to find the exact page title", e.Title)
}

// NetworkError reports a transient upstream failure that survived all retries.
type NetworkError struct {
	Op  string // "search" or "page", plus the target
	Err error  // last underlying cause
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("wiki request failed (%s): %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RedirectError reports that a title is an alias for a different canonical
// page. The fetch client surfaces redirects instead of following them, so the
// caller can retry with the canonical title.
type RedirectError struct {
	From string
	To   string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("page %q redirects to %q; retry with the canonical title", e.From, e.To)
}
