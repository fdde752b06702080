package worker

import (
	"errors"
	"fmt"
	"math"

	"github.com/thebartekbanach/imgpipe/pkg/transform"
)

// Limits bounds the images a worker may decode and produce.
type Limits struct {
	MaxDimension int
	MaxPixels    int
}

var DefaultLimits = Limits{
	MaxDimension: 8192,
	MaxPixels:    50_000_000,
}

// CheckSource fails with ErrImageTooLarge when a decoded source would exceed
// the pixel limit.
func (l Limits) CheckSource(width, height int) error {
	if l.MaxPixels > 0 && width*height > l.MaxPixels {
		return fmt.Errorf("%w: source has %dx%d pixels, at most %d allowed", ErrImageTooLarge, width, height, l.MaxPixels)
	}

	return nil
}

// CheckSize fails with ErrInvalidArgument when op would produce an image
// larger than the limits. Zero dimensions are unknown and pass.
func (l Limits) CheckSize(op transform.Operation, width, height int) error {
	if l.MaxDimension > 0 && (width > l.MaxDimension || height > l.MaxDimension) {
		return invalidArgument(op, fmt.Sprintf("dimensions must not exceed %d", l.MaxDimension))
	}

	if l.MaxPixels > 0 && width*height > l.MaxPixels {
		return invalidArgument(op, fmt.Sprintf("result must not exceed %d pixels", l.MaxPixels))
	}

	return nil
}

// limitedWorker rejects operations growing the image beyond its limits. It
// follows the image size through the chain while the size is known.
type limitedWorker struct {
	Worker
	limits        Limits
	width, height int
}

func (w limitedWorker) Apply(op transform.Operation) (Worker, error) {
	width, height, err := w.resultSize(op)
	if err != nil {
		return nil, err
	}

	next, err := w.Worker.Apply(op)
	if err != nil {
		return nil, err
	}

	return limitedWorker{Worker: next, limits: w.limits, width: width, height: height}, nil
}

func (w limitedWorker) resultSize(op transform.Operation) (int, int, error) {
	switch op.Name {
	case OpResize, OpFit, OpThumbnail:
		size, err := ParseSize(op)
		if err != nil {
			// the engine reports malformed arguments
			return 0, 0, nil
		}

		width, height := size.Resolve(w.width, w.height)
		if err := w.limits.CheckSize(op, width, height); err != nil {
			return 0, 0, err
		}
		if width == 0 || height == 0 {
			return 0, 0, nil
		}
		return width, height, nil

	case OpCrop:
		spec, err := ParseCrop(op)
		if err != nil {
			return 0, 0, nil
		}

		if err := w.limits.CheckSize(op, spec.Width, spec.Height); err != nil {
			return 0, 0, err
		}
		if w.width == 0 || w.height == 0 {
			return spec.Width, spec.Height, nil
		}
		return min(spec.Width, w.width), min(spec.Height, w.height), nil

	case OpRotate:
		angle, err := op.Float(0)
		if err != nil || w.width == 0 || w.height == 0 {
			return 0, 0, nil
		}

		switch math.Mod(math.Abs(angle), 180) {
		case 0:
			return w.width, w.height, nil
		case 90:
			return w.height, w.width, nil
		}

		side := w.width + w.height
		return side, side, nil
	}

	return w.width, w.height, nil
}

var ErrImageTooLarge = errors.New("image too large")
