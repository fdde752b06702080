package imagingworker

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
	"github.com/thebartekbanach/imgpipe/pkg/worker"

	_ "golang.org/x/image/webp"
)

const EngineName = "imaging"

type Engine struct{}

var _ worker.Engine = Engine{}

func NewEngine() Engine {
	return Engine{}
}

func (Engine) Name() string {
	return EngineName
}

func (Engine) Open(ctx context.Context, source []byte) (worker.Worker, error) {
	_, sourceFormat, err := image.DecodeConfig(bytes.NewReader(source))
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(source), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	format, encodable := worker.NormalizeFormat(sourceFormat)
	if !encodable || format == worker.FormatWEBP {
		format = worker.FormatPNG
	}

	return imageWorker{img: img, format: format, quality: 85}, nil
}

type imageWorker struct {
	img     image.Image
	format  string
	quality int
}

var _ worker.Worker = imageWorker{}

func (w imageWorker) Apply(op transform.Operation) (worker.Worker, error) {
	switch op.Name {
	case worker.OpResize:
		size, err := worker.ParseSize(op)
		if err != nil {
			return nil, err
		}
		w.img = imaging.Resize(w.img, size.Width, size.Height, imaging.Lanczos)

	case worker.OpFit:
		size, err := worker.ParseSize(op)
		if err != nil {
			return nil, err
		}
		width, height := size.Resolve(w.bounds())
		w.img = imaging.Fit(w.img, width, height, imaging.Lanczos)

	case worker.OpThumbnail:
		size, err := worker.ParseSize(op)
		if err != nil {
			return nil, err
		}
		width, height := size.Resolve(w.bounds())
		w.img = imaging.Fill(w.img, width, height, imaging.Center, imaging.Lanczos)

	case worker.OpCrop:
		spec, err := worker.ParseCrop(op)
		if err != nil {
			return nil, err
		}
		srcWidth, srcHeight := w.bounds()
		x, y := spec.Origin(srcWidth, srcHeight)
		origin := w.img.Bounds().Min
		w.img = imaging.Crop(w.img, image.Rect(x, y, x+spec.Width, y+spec.Height).Add(origin))

	case worker.OpRotate:
		angle, err := worker.ParseFloat(op, -360, 360)
		if err != nil {
			return nil, err
		}
		// positive angles rotate clockwise, imaging rotates counter-clockwise
		w.img = rotate(w.img, -angle)

	case worker.OpFlip:
		horizontal, err := worker.ParseFlip(op)
		if err != nil {
			return nil, err
		}
		if horizontal {
			w.img = imaging.FlipH(w.img)
		} else {
			w.img = imaging.FlipV(w.img)
		}

	case worker.OpBlur:
		sigma, err := worker.ParseFloat(op, 0.1, 100)
		if err != nil {
			return nil, err
		}
		w.img = blur.Gaussian(w.img, sigma)

	case worker.OpSharpen:
		if len(op.Args) == 0 {
			w.img = effect.Sharpen(w.img)
			break
		}
		sigma, err := worker.ParseFloat(op, 0.1, 100)
		if err != nil {
			return nil, err
		}
		w.img = imaging.Sharpen(w.img, sigma)

	case worker.OpGrayscale:
		if err := worker.ExpectNoArgs(op); err != nil {
			return nil, err
		}
		w.img = imaging.Grayscale(w.img)

	case worker.OpBrightness:
		pct, err := worker.ParseFloat(op, -100, 100)
		if err != nil {
			return nil, err
		}
		w.img = adjust.Brightness(w.img, pct/100)

	case worker.OpContrast:
		pct, err := worker.ParseFloat(op, -100, 100)
		if err != nil {
			return nil, err
		}
		w.img = adjust.Contrast(w.img, pct/100)

	case worker.OpFormat:
		format, err := worker.ParseFormat(op)
		if err != nil {
			return nil, err
		}
		if format == worker.FormatWEBP {
			return nil, worker.Unsupported(op, EngineName)
		}
		w.format = format

	case worker.OpQuality:
		quality, err := worker.ParseQuality(op)
		if err != nil {
			return nil, err
		}
		w.quality = quality

	default:
		return nil, worker.Unsupported(op, EngineName)
	}

	return w, nil
}

func (w imageWorker) Encode(ctx context.Context) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	format, err := imaging.FormatFromExtension(w.format)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", worker.ErrUnsupportedOperation, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, w.img, format, imaging.JPEGQuality(w.quality)); err != nil {
		return "", nil, err
	}

	return worker.MimeType(w.format), buf.Bytes(), nil
}

func (w imageWorker) bounds() (int, int) {
	size := w.img.Bounds().Size()
	return size.X, size.Y
}

func rotate(img image.Image, angle float64) image.Image {
	switch math.Mod(angle+360, 360) {
	case 0:
		return img
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	}

	return imaging.Rotate(img, angle, color.Transparent)
}
