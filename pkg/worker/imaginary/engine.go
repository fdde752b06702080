package imaginaryworker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/thebartekbanach/imgpipe/pkg/transform"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
)

const EngineName = "imaginary"

type Config struct {
	ImaginaryServiceURL string
}

type httpRequestFunc func(req *http.Request) (*http.Response, error)

// Engine delegates processing to an imaginary service through its
// /pipeline endpoint. The source image is sent in the request body.
type Engine struct {
	config      Config
	makeRequest httpRequestFunc
}

var _ worker.Engine = (*Engine)(nil)

func NewEngine(config Config) *Engine {
	return &Engine{config, http.DefaultClient.Do}
}

func (e *Engine) Name() string {
	return EngineName
}

func (e *Engine) Open(ctx context.Context, source []byte) (worker.Worker, error) {
	if len(source) == 0 {
		return nil, ErrEmptySource
	}

	return imageWorker{engine: e, source: source}, nil
}

type pipelineOperation struct {
	Operation string                 `json:"operation"`
	Params    map[string]interface{} `json:"params"`
}

type imageWorker struct {
	engine     *Engine
	source     []byte
	operations []pipelineOperation
	format     string
	quality    int
}

var _ worker.Worker = imageWorker{}

func (w imageWorker) Apply(op transform.Operation) (worker.Worker, error) {
	var next pipelineOperation

	switch op.Name {
	case worker.OpResize:
		size, err := worker.ParseSize(op)
		if err != nil {
			return nil, err
		}
		next = pipelineOperation{"resize", sizeParams(size)}
		if size.Width > 0 && size.Height > 0 {
			next.Params["force"] = true
		}

	case worker.OpFit:
		size, err := worker.ParseSize(op)
		if err != nil {
			return nil, err
		}
		next = pipelineOperation{"fit", sizeParams(size)}

	case worker.OpThumbnail:
		size, err := worker.ParseSize(op)
		if err != nil {
			return nil, err
		}
		next = pipelineOperation{"crop", sizeParams(size)}
		next.Params["gravity"] = "centre"

	case worker.OpCrop:
		spec, err := worker.ParseCrop(op)
		if err != nil {
			return nil, err
		}
		if spec.Anchor == "" {
			next = pipelineOperation{"extract", map[string]interface{}{
				"top":        spec.Y,
				"left":       spec.X,
				"areawidth":  spec.Width,
				"areaheight": spec.Height,
			}}
		} else {
			next = pipelineOperation{"crop", sizeParams(spec.Size)}
			next.Params["gravity"] = gravity(spec.Anchor)
		}

	case worker.OpRotate:
		angle, err := worker.ParseFloat(op, -360, 360)
		if err != nil {
			return nil, err
		}
		degrees := int(angle)
		if float64(degrees) != angle || degrees%90 != 0 {
			return nil, fmt.Errorf("%w: %s: only multiples of 90 degrees", worker.ErrInvalidArgument, op)
		}
		next = pipelineOperation{"rotate", map[string]interface{}{"rotate": (degrees + 360) % 360}}

	case worker.OpFlip:
		horizontal, err := worker.ParseFlip(op)
		if err != nil {
			return nil, err
		}
		next = pipelineOperation{"flip", map[string]interface{}{}}
		if horizontal {
			next.Operation = "flop"
		}

	case worker.OpBlur:
		sigma, err := worker.ParseFloat(op, 0.1, 100)
		if err != nil {
			return nil, err
		}
		next = pipelineOperation{"blur", map[string]interface{}{"sigma": sigma}}

	case worker.OpFormat:
		format, err := worker.ParseFormat(op)
		if err != nil {
			return nil, err
		}
		if format == worker.FormatBMP || format == worker.FormatGIF {
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

	w.operations = append(w.operations[:len(w.operations):len(w.operations)], next)
	return w, nil
}

func (w imageWorker) Encode(ctx context.Context) (string, []byte, error) {
	req, err := w.buildRequest(ctx)
	if err != nil {
		return "", nil, err
	}

	response, err := w.engine.makeRequest(req)
	if err != nil {
		return "", nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		return "", nil, fmt.Errorf("%w: %d %s", ErrResponseStatusNotOK, response.StatusCode, strings.TrimSpace(string(message)))
	}

	contentType := response.Header.Get("Content-Type")
	if contentType == "" {
		return "", nil, ErrUnknownContentType
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return "", nil, err
	}

	return contentType, data, nil
}

func (w imageWorker) pipeline() []pipelineOperation {
	operations := append([]pipelineOperation{}, w.operations...)
	if w.format == "" && w.quality == 0 {
		return operations
	}

	params := map[string]interface{}{}
	if w.format != "" {
		params["type"] = w.format
	}
	if w.quality != 0 {
		params["quality"] = w.quality
	}

	operation := "convert"
	if w.format == "" {
		// imaginary needs a type for convert, quality alone goes through autorotate
		operation = "autorotate"
	}

	return append(operations, pipelineOperation{operation, params})
}

func (w imageWorker) buildRequest(ctx context.Context) (*http.Request, error) {
	operations := w.pipeline()
	if len(operations) == 0 {
		operations = []pipelineOperation{{"autorotate", map[string]interface{}{}}}
	}

	encoded, err := json.Marshal(operations)
	if err != nil {
		return nil, err
	}

	endpoint, err := url.Parse(strings.TrimRight(w.engine.config.ImaginaryServiceURL, "/") + "/pipeline")
	if err != nil {
		return nil, err
	}
	endpoint.RawQuery = url.Values{"operations": {string(encoded)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(w.source))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", http.DetectContentType(w.source))
	return req, nil
}

func sizeParams(size worker.Size) map[string]interface{} {
	params := map[string]interface{}{}
	if size.Width > 0 {
		params["width"] = size.Width
	}
	if size.Height > 0 {
		params["height"] = size.Height
	}

	return params
}

func gravity(anchor string) string {
	switch anchor {
	case worker.AnchorTop, worker.AnchorTopLeft, worker.AnchorTopRight:
		return "north"
	case worker.AnchorBottom, worker.AnchorBottomLeft, worker.AnchorBottomRight:
		return "south"
	case worker.AnchorLeft:
		return "west"
	case worker.AnchorRight:
		return "east"
	}

	return "centre"
}

var (
	ErrEmptySource         = errors.New("empty source image")
	ErrResponseStatusNotOK = errors.New("response status not OK")
	ErrUnknownContentType  = errors.New("unknown response content type")
)
