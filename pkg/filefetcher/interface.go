package filefetcher

import "context"

// Fetcher loads source image bytes from a local path or an http(s) URL.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}
