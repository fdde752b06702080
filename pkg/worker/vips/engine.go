package vipsworker

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
)

const EngineName = "vips"

var startup sync.Once

type Config struct {
	ConcurrencyLevel int
	MaxCacheMem      int
	// MaxPixels rejects larger sources, zero disables the check.
	MaxPixels int
}

type Engine struct {
	maxPixels int
}

var _ worker.Engine = Engine{}

// NewEngine starts libvips on first call. Shutdown releases it when the
// process exits.
func NewEngine(config Config) Engine {
	startup.Do(func() {
		vips.LoggingSettings(func(domain string, level vips.LogLevel, message string) {
			log.Printf("vips: %s: %s", domain, message)
		}, vips.LogLevelWarning)

		vips.Startup(&vips.Config{
			ConcurrencyLevel: config.ConcurrencyLevel,
			MaxCacheMem:      config.MaxCacheMem,
		})
	})

	return Engine{maxPixels: config.MaxPixels}
}

func Shutdown() {
	vips.Shutdown()
}

func (Engine) Name() string {
	return EngineName
}

func (e Engine) Open(ctx context.Context, source []byte) (worker.Worker, error) {
	img, err := vips.NewImageFromBuffer(source)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	limits := worker.Limits{MaxPixels: e.maxPixels}
	if err := limits.CheckSource(img.Width(), img.Height()); err != nil {
		return nil, err
	}

	format, ok := formatOf(img.Format())
	if !ok {
		format = worker.FormatPNG
	}

	return imageWorker{source: source, format: format, quality: 85}, nil
}

// imageWorker validates operations eagerly and runs them on a fresh libvips
// image during Encode.
type imageWorker struct {
	source  []byte
	steps   []step
	format  string
	quality int
}

type step func(img *vips.ImageRef) error

var _ worker.Worker = imageWorker{}

func (w imageWorker) Apply(op transform.Operation) (worker.Worker, error) {
	var next step

	switch op.Name {
	case worker.OpResize:
		size, err := worker.ParseSize(op)
		if err != nil {
			return nil, err
		}
		next = func(img *vips.ImageRef) error {
			width, height := size.Resolve(img.Width(), img.Height())
			return img.ResizeWithVScale(
				float64(width)/float64(img.Width()),
				float64(height)/float64(img.Height()),
				vips.KernelLanczos3,
			)
		}

	case worker.OpFit:
		size, err := worker.ParseSize(op)
		if err != nil {
			return nil, err
		}
		next = func(img *vips.ImageRef) error {
			width, height := size.Resolve(img.Width(), img.Height())
			scale := min(float64(width)/float64(img.Width()), float64(height)/float64(img.Height()))
			return img.Resize(scale, vips.KernelLanczos3)
		}

	case worker.OpThumbnail:
		size, err := worker.ParseSize(op)
		if err != nil {
			return nil, err
		}
		next = func(img *vips.ImageRef) error {
			width, height := size.Resolve(img.Width(), img.Height())
			return img.Thumbnail(width, height, vips.InterestingCentre)
		}

	case worker.OpCrop:
		spec, err := worker.ParseCrop(op)
		if err != nil {
			return nil, err
		}
		next = func(img *vips.ImageRef) error {
			x, y := spec.Origin(img.Width(), img.Height())
			return img.ExtractArea(x, y, min(spec.Width, img.Width()), min(spec.Height, img.Height()))
		}

	case worker.OpRotate:
		angle, err := worker.ParseFloat(op, -360, 360)
		if err != nil {
			return nil, err
		}
		vipsAngle, ok := rightAngle(angle)
		if !ok {
			return nil, fmt.Errorf("%w: %s: only multiples of 90 degrees", worker.ErrInvalidArgument, op)
		}
		next = func(img *vips.ImageRef) error {
			return img.Rotate(vipsAngle)
		}

	case worker.OpFlip:
		horizontal, err := worker.ParseFlip(op)
		if err != nil {
			return nil, err
		}
		direction := vips.DirectionVertical
		if horizontal {
			direction = vips.DirectionHorizontal
		}
		next = func(img *vips.ImageRef) error {
			return img.Flip(direction)
		}

	case worker.OpBlur:
		sigma, err := worker.ParseFloat(op, 0.1, 100)
		if err != nil {
			return nil, err
		}
		next = func(img *vips.ImageRef) error {
			return img.GaussianBlur(sigma)
		}

	case worker.OpSharpen:
		sigma := 1.0
		if len(op.Args) > 0 {
			var err error
			if sigma, err = worker.ParseFloat(op, 0.1, 100); err != nil {
				return nil, err
			}
		}
		next = func(img *vips.ImageRef) error {
			return img.Sharpen(sigma, 1, 2)
		}

	case worker.OpGrayscale:
		if err := worker.ExpectNoArgs(op); err != nil {
			return nil, err
		}
		next = func(img *vips.ImageRef) error {
			return img.ToColorSpace(vips.InterpretationBW)
		}

	case worker.OpBrightness:
		pct, err := worker.ParseFloat(op, -100, 100)
		if err != nil {
			return nil, err
		}
		next = func(img *vips.ImageRef) error {
			return img.Linear1(1, 255*pct/100)
		}

	case worker.OpContrast:
		pct, err := worker.ParseFloat(op, -100, 100)
		if err != nil {
			return nil, err
		}
		factor := 1 + pct/100
		next = func(img *vips.ImageRef) error {
			return img.Linear1(factor, 128*(1-factor))
		}

	case worker.OpFormat:
		format, err := worker.ParseFormat(op)
		if err != nil {
			return nil, err
		}
		if format == worker.FormatBMP {
			return nil, worker.Unsupported(op, EngineName)
		}
		w.format = format
		return w, nil

	case worker.OpQuality:
		quality, err := worker.ParseQuality(op)
		if err != nil {
			return nil, err
		}
		w.quality = quality
		return w, nil

	default:
		return nil, worker.Unsupported(op, EngineName)
	}

	w.steps = append(w.steps[:len(w.steps):len(w.steps)], next)
	return w, nil
}

func (w imageWorker) Encode(ctx context.Context) (string, []byte, error) {
	img, err := vips.NewImageFromBuffer(w.source)
	if err != nil {
		return "", nil, err
	}
	defer img.Close()

	if err := img.AutoRotate(); err != nil {
		return "", nil, err
	}

	for _, run := range w.steps {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		if err := run(img); err != nil {
			return "", nil, err
		}
	}

	data, err := w.export(img)
	if err != nil {
		return "", nil, err
	}

	return worker.MimeType(w.format), data, nil
}

func (w imageWorker) export(img *vips.ImageRef) (data []byte, err error) {
	switch w.format {
	case worker.FormatJPEG:
		params := vips.NewJpegExportParams()
		params.Quality = w.quality
		data, _, err = img.ExportJpeg(params)
	case worker.FormatWEBP:
		params := vips.NewWebpExportParams()
		params.Quality = w.quality
		data, _, err = img.ExportWebp(params)
	case worker.FormatGIF:
		data, _, err = img.ExportGIF(vips.NewGifExportParams())
	case worker.FormatTIFF:
		data, _, err = img.ExportTiff(vips.NewTiffExportParams())
	default:
		data, _, err = img.ExportPng(vips.NewPngExportParams())
	}

	return
}

func formatOf(imageType vips.ImageType) (string, bool) {
	switch imageType {
	case vips.ImageTypeJPEG:
		return worker.FormatJPEG, true
	case vips.ImageTypePNG:
		return worker.FormatPNG, true
	case vips.ImageTypeWEBP:
		return worker.FormatWEBP, true
	case vips.ImageTypeGIF:
		return worker.FormatGIF, true
	case vips.ImageTypeTIFF:
		return worker.FormatTIFF, true
	}

	return "", false
}

// rightAngle maps clockwise degrees onto libvips angles.
func rightAngle(degrees float64) (vips.Angle, bool) {
	switch int(degrees+360) % 360 {
	case 0:
		return vips.Angle0, float64(int(degrees)) == degrees
	case 90:
		return vips.Angle90, float64(int(degrees)) == degrees
	case 180:
		return vips.Angle180, float64(int(degrees)) == degrees
	case 270:
		return vips.Angle270, float64(int(degrees)) == degrees
	}

	return vips.Angle0, false
}
