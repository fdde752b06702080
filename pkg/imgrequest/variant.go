package imgrequest

import "context"

type variantKind int

const (
	variantUnresolved variantKind = iota
	variantCacheHit
	variantCompute
)

// variant is the serving strategy bound to a builder. Only the field
// matching kind is set.
type variant struct {
	kind        variantKind
	fingerprint string
	hit         *CacheResultServer
	compute     *ComputeServer
}

func (v variant) isFromCache() bool {
	return v.kind == variantCacheHit
}

func (v variant) imageData() ([]byte, error) {
	switch v.kind {
	case variantCacheHit:
		return v.hit.ImageData()
	case variantCompute:
		return v.compute.ImageData()
	}

	return nil, ErrNotCreated
}

// serve creates the image first unless it comes from the cache.
func (v variant) serve(ctx context.Context, w ResponseWriter) error {
	switch v.kind {
	case variantCacheHit:
		return v.hit.Serve(w)
	case variantCompute:
		if v.compute.State() == ComputePending {
			if err := v.compute.Create(ctx); err != nil {
				return err
			}
		}

		return v.compute.Serve(w)
	}

	return ErrNotCreated
}
