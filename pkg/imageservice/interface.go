package imageservice

import (
	"context"

	"github.com/thebartekbanach/imgpipe/pkg/imgrequest"
)

type ImageService interface {
	Handle(ctx context.Context, rawQuery, callerOrigin, device string, responseWriter imgrequest.ResponseWriter)
	Js(publicDir string) (string, error)
}
