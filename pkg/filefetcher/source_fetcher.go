package filefetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

type httpGetFunc func(ctx context.Context, url string) (resp *http.Response, err error)

type readFileFunc func(name string) ([]byte, error)

type SourceFetcher struct {
	getter   httpGetFunc
	readFile readFileFunc
	maxSize  int64
}

var _ Fetcher = (*SourceFetcher)(nil)

// NewSourceFetcher returns a Fetcher reading local files and http(s) URLs.
// Sources bigger than maxSize bytes are rejected, zero means no limit.
func NewSourceFetcher(maxSize int64) Fetcher {
	getFunc := func(ctx context.Context, url string) (resp *http.Response, err error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		return http.DefaultClient.Do(req)
	}

	return &SourceFetcher{getFunc, os.ReadFile, maxSize}
}

func (fetcher *SourceFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if IsRemote(source) {
		return fetcher.fetchRemote(ctx, source)
	}

	return fetcher.fetchLocal(ctx, strings.TrimPrefix(source, "file://"))
}

func (fetcher *SourceFetcher) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	response, err := fetcher.getter(ctx, url)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, url)
	} else if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrResponseStatusNotOK, url, response.StatusCode)
	}

	return fetcher.readLimited(response.Body)
}

func (fetcher *SourceFetcher) fetchLocal(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fetcher.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}

		return nil, err
	}

	if fetcher.maxSize > 0 && int64(len(data)) > fetcher.maxSize {
		return nil, ErrSourceTooLarge
	}

	return data, nil
}

func (fetcher *SourceFetcher) readLimited(r io.Reader) ([]byte, error) {
	if fetcher.maxSize <= 0 {
		return io.ReadAll(r)
	}

	data, err := io.ReadAll(io.LimitReader(r, fetcher.maxSize+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > fetcher.maxSize {
		return nil, ErrSourceTooLarge
	}

	return data, nil
}

// IsRemote reports whether source should be downloaded over http(s).
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

var (
	ErrSourceNotFound      = errors.New("source image not found")
	ErrSourceTooLarge      = errors.New("source image too large")
	ErrResponseStatusNotOK = errors.New("response returned non-200 status code")
)
