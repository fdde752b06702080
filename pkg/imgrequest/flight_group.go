package imgrequest

import (
	"context"

	"golang.org/x/sync/singleflight"
)

type FlightResult struct {
	FromCache bool
	// Shared is set when the image was rendered for another request.
	Shared bool
}

// FlightGroup serves concurrent requests for the same fingerprint with a
// single render.
type FlightGroup struct {
	group singleflight.Group
}

func NewFlightGroup() *FlightGroup {
	return &FlightGroup{}
}

func (f *FlightGroup) Serve(ctx context.Context, img *Image, w ResponseWriter) (FlightResult, error) {
	fingerprint, err := img.Fingerprint()
	if err != nil {
		return FlightResult{}, err
	}

	type flight struct {
		response  *bufferedResponse
		fromCache bool
	}

	flights := f.group.DoChan(fingerprint, func() (interface{}, error) {
		// the render outlives callers which went away, waiters still need it
		renderCtx, cancel := detach(ctx)
		defer cancel()

		response := &bufferedResponse{}
		if err := img.Serve(renderCtx, response); err != nil {
			return nil, err
		}

		fromCache, err := img.IsFromCache(renderCtx)
		return flight{response, fromCache}, err
	})

	var done singleflight.Result
	select {
	case done = <-flights:
	case <-ctx.Done():
		return FlightResult{}, ctx.Err()
	}

	if done.Err != nil {
		return FlightResult{Shared: done.Shared}, done.Err
	}

	result := done.Val.(flight)
	if err := result.response.replay(w); err != nil {
		return FlightResult{}, err
	}

	return FlightResult{FromCache: result.fromCache, Shared: done.Shared}, nil
}

// detach drops cancellation of ctx but keeps its deadline.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}

	return context.WithCancel(detached)
}
