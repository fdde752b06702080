package worker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thebartekbanach/imgpipe/pkg/transform"
)

const (
	OpResize     = "resize"
	OpFit        = "fit"
	OpThumbnail  = "thumbnail"
	OpCrop       = "crop"
	OpRotate     = "rotate"
	OpFlip       = "flip"
	OpBlur       = "blur"
	OpSharpen    = "sharpen"
	OpGrayscale  = "grayscale"
	OpBrightness = "brightness"
	OpContrast   = "contrast"
	OpFormat     = "format"
	OpQuality    = "quality"
)

// Anchor names accepted by crop.
const (
	AnchorCenter      = "center"
	AnchorTop         = "top"
	AnchorBottom      = "bottom"
	AnchorLeft        = "left"
	AnchorRight       = "right"
	AnchorTopLeft     = "topleft"
	AnchorTopRight    = "topright"
	AnchorBottomLeft  = "bottomleft"
	AnchorBottomRight = "bottomright"
)

// Output formats accepted by format.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatTIFF = "tiff"
	FormatBMP  = "bmp"
	FormatWEBP = "webp"
)

var mimeTypes = map[string]string{
	FormatJPEG: "image/jpeg",
	FormatPNG:  "image/png",
	FormatGIF:  "image/gif",
	FormatTIFF: "image/tiff",
	FormatBMP:  "image/bmp",
	FormatWEBP: "image/webp",
}

func MimeType(format string) string {
	if mime, ok := mimeTypes[format]; ok {
		return mime
	}

	return "application/octet-stream"
}

// NormalizeFormat maps format aliases to the names used by format.
func NormalizeFormat(name string) (string, bool) {
	name = strings.ToLower(name)
	if name == "jpg" {
		name = FormatJPEG
	} else if name == "tif" {
		name = FormatTIFF
	}

	_, known := mimeTypes[name]
	return name, known
}

// Size is a target box. A zero dimension is derived from the other one
// keeping the source aspect ratio.
type Size struct {
	Width  int
	Height int
}

// Resolve fills the missing dimension of s for a source of the given size.
func (s Size) Resolve(srcWidth, srcHeight int) (int, int) {
	width, height := s.Width, s.Height
	if srcWidth <= 0 || srcHeight <= 0 {
		return width, height
	}

	if width == 0 {
		width = max(1, srcWidth*height/srcHeight)
	}
	if height == 0 {
		height = max(1, srcHeight*width/srcWidth)
	}

	return width, height
}

// CropSpec is a parsed crop operation. Either Anchor is set or X and Y
// point to the top left corner of the cropped area.
type CropSpec struct {
	Size
	Anchor string
	X, Y   int
}

// Origin returns the top left corner of the crop area inside a source of the
// given size. The area is clamped to the source bounds.
func (c CropSpec) Origin(srcWidth, srcHeight int) (int, int) {
	width, height := min(c.Width, srcWidth), min(c.Height, srcHeight)
	if c.Anchor == "" {
		return clamp(c.X, 0, srcWidth-width), clamp(c.Y, 0, srcHeight-height)
	}

	x, y := (srcWidth-width)/2, (srcHeight-height)/2
	if strings.Contains(c.Anchor, "left") {
		x = 0
	} else if strings.Contains(c.Anchor, "right") {
		x = srcWidth - width
	}
	if strings.HasPrefix(c.Anchor, "top") {
		y = 0
	} else if strings.HasPrefix(c.Anchor, "bottom") {
		y = srcHeight - height
	}

	return x, y
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// MaxDimension bounds every dimension ParseSize accepts regardless of the
// configured Limits.
const MaxDimension = 1 << 16

// ParseSize reads the "w,h" arguments of resize, fit, thumbnail and crop.
// At least one dimension must be positive.
func ParseSize(op transform.Operation) (Size, error) {
	if len(op.Args) < 2 {
		return Size{}, invalidArgument(op, "width and height required")
	}

	width, errW := op.Int(0)
	height, errH := op.Int(1)
	if errW != nil || errH != nil || width < 0 || height < 0 || (width == 0 && height == 0) {
		return Size{}, invalidArgument(op, "dimensions must be non negative integers")
	}

	if width > MaxDimension || height > MaxDimension {
		return Size{}, invalidArgument(op, fmt.Sprintf("dimensions must not exceed %d", MaxDimension))
	}

	return Size{width, height}, nil
}

func ParseCrop(op transform.Operation) (CropSpec, error) {
	size, err := ParseSize(op)
	if err != nil {
		return CropSpec{}, err
	}

	if size.Width == 0 || size.Height == 0 {
		return CropSpec{}, invalidArgument(op, "crop needs both dimensions")
	}

	switch len(op.Args) {
	case 2:
		return CropSpec{Size: size, Anchor: AnchorCenter}, nil
	case 3:
		anchor := strings.ToLower(op.Arg(2))
		if !isAnchor(anchor) {
			return CropSpec{}, invalidArgument(op, "unknown anchor "+anchor)
		}
		return CropSpec{Size: size, Anchor: anchor}, nil
	case 4:
		x, errX := op.Int(2)
		y, errY := op.Int(3)
		if errX != nil || errY != nil || x < 0 || y < 0 {
			return CropSpec{}, invalidArgument(op, "offset must be non negative integers")
		}
		return CropSpec{Size: size, X: x, Y: y}, nil
	default:
		return CropSpec{}, invalidArgument(op, "too many arguments")
	}
}

func isAnchor(name string) bool {
	switch name {
	case AnchorCenter, AnchorTop, AnchorBottom, AnchorLeft, AnchorRight,
		AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight:
		return true
	}

	return false
}

// ParseFloat reads a single float argument within [lo, hi].
func ParseFloat(op transform.Operation, lo, hi float64) (float64, error) {
	if len(op.Args) != 1 {
		return 0, invalidArgument(op, "exactly one argument required")
	}

	value, err := op.Float(0)
	if err != nil || value < lo || value > hi {
		return 0, invalidArgument(op, fmt.Sprintf("value must be within [%v, %v]", lo, hi))
	}

	return value, nil
}

func ParseQuality(op transform.Operation) (int, error) {
	value, err := ParseFloat(op, 1, 100)
	if err != nil {
		return 0, err
	}

	return int(value), nil
}

// ParseFlip returns true for a horizontal flip.
func ParseFlip(op transform.Operation) (bool, error) {
	switch strings.ToLower(op.Arg(0)) {
	case "h", "horizontal", "":
		return true, nil
	case "v", "vertical":
		return false, nil
	}

	return false, invalidArgument(op, "direction must be h or v")
}

func ParseFormat(op transform.Operation) (string, error) {
	format, known := NormalizeFormat(op.Arg(0))
	if len(op.Args) != 1 || !known {
		return "", invalidArgument(op, "unknown format")
	}

	return format, nil
}

func ExpectNoArgs(op transform.Operation) error {
	if len(op.Args) != 0 {
		return invalidArgument(op, "no arguments expected")
	}

	return nil
}

func invalidArgument(op transform.Operation, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, op, reason)
}

func Unsupported(op transform.Operation, engine string) error {
	return fmt.Errorf("%w: %q by %s engine", ErrUnsupportedOperation, op.Name, engine)
}

var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidArgument      = errors.New("invalid operation argument")
)
