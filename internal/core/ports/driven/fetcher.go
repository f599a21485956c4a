package driven

import "context"

// FetchResult is the outcome of one document fetch.
type FetchResult struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is the response body.
	Body string
}

// Fetcher retrieves documents over HTTP. Implementations send browser-like
// headers (many IR sites reject obvious bots) and apply their own rate
// limiting. Fetch failures are ordinary errors; discovery methods convert
// them into failed outcomes.
type Fetcher interface {
	// Fetch performs a GET request for the URL.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// PageRenderer loads a URL in a real browser engine, waits for the network
// to go idle and returns the rendered HTML. Used as a fallback for IR pages
// that assemble their content with JavaScript. Provided by the environment;
// may be absent, in which case methods skip their rendered fallback.
type PageRenderer interface {
	// Render returns the fully rendered HTML for the URL.
	Render(ctx context.Context, url string) (string, error)
}
