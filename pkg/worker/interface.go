package worker

import (
	"context"

	"github.com/thebartekbanach/imgpipe/pkg/transform"
)

// Worker is an image being transformed. Apply never modifies the receiver
// observably, callers must continue with the returned Worker.
type Worker interface {
	Apply(op transform.Operation) (Worker, error)
	Encode(ctx context.Context) (mimeType string, data []byte, err error)
}

// Engine opens source image bytes as a Worker of a concrete image library.
type Engine interface {
	Name() string
	Open(ctx context.Context, source []byte) (Worker, error)
}

type Factory interface {
	CreateWorker(ctx context.Context, path, engineName string) (Worker, error)
}
