package imgrequest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/thebartekbanach/imgpipe/pkg/filefetcher"
	"github.com/thebartekbanach/imgpipe/pkg/provider"
	"github.com/thebartekbanach/imgpipe/pkg/transform"
	"github.com/thebartekbanach/imgpipe/pkg/worker"
)

type HookType int

const (
	HookModifyImagePath HookType = iota
)

// PathTransform modifies the resolved image path, e.g. to point to a
// different storage location.
type PathTransform interface {
	TransformPath(path string) string
}

type PathTransformFunc func(path string) string

func (f PathTransformFunc) TransformPath(path string) string {
	return f(path)
}

// Image builds image URLs and serves the images they point to. When Path
// was called the builder reads its own URL, otherwise it reads the request
// held by the provider.
//
// An Image is used for a single request.
type Image struct {
	provider      provider.Provider
	workers       worker.Factory
	cacheLifetime time.Duration
	serveRoute    string

	pathString     string
	pathTransforms []PathTransform
	device         string

	lock     sync.Mutex
	resolved variant
}

func New(p provider.Provider, workers worker.Factory, cacheLifetime time.Duration, serveRoute string) *Image {
	return &Image{
		provider:      p,
		workers:       workers,
		cacheLifetime: cacheLifetime,
		serveRoute:    serveRoute,
	}
}

// Path sets the image and its transform chain, replacing anything set
// before. The transform arguments are joined with commas.
func (i *Image) Path(base string, transformArgs ...string) (*Image, error) {
	if len(transformArgs) == 0 {
		return i, fmt.Errorf("%w: path needs an image and at least one transform", ErrInvalidRequest)
	}

	i.lock.Lock()
	defer i.lock.Unlock()

	i.pathString = i.serveRoute + "?" +
		i.provider.VarImage() + "=" + provider.EscapeValue(base) + "&" +
		i.provider.VarTransform() + "=" + provider.EscapeValue(strings.Join(transformArgs, ","))
	i.resolved = variant{}

	return i, nil
}

// Responsive appends a rule applied when the client device matches ruleKey.
// Rules are kept in call order.
func (i *Image) Responsive(ruleKey string, transformArgs ...string) (*Image, error) {
	if len(transformArgs) == 0 {
		return i, fmt.Errorf("%w: responsive rule needs a key and at least one transform", ErrInvalidRequest)
	}

	i.lock.Lock()
	defer i.lock.Unlock()

	if i.pathString == "" {
		return i, ErrPathNotSet
	}

	i.pathString += ";" + provider.EscapeValue(ruleKey) + ":" + provider.EscapeValue(strings.Join(transformArgs, ",")) +
		"&" + i.provider.VarResponsiveFlag() + "=true"
	i.resolved = variant{}

	return i, nil
}

// AddCallback registers fn under hook. Callbacks run in registration order.
func (i *Image) AddCallback(hook HookType, fn PathTransform) *Image {
	i.lock.Lock()
	defer i.lock.Unlock()

	if hook == HookModifyImagePath {
		i.pathTransforms = append(i.pathTransforms, fn)
		i.resolved = variant{}
	}

	return i
}

// ForDevice sets the device detection token used by responsive rules.
func (i *Image) ForDevice(token string) *Image {
	i.lock.Lock()
	defer i.lock.Unlock()

	i.device = token
	i.resolved = variant{}

	return i
}

func (i *Image) ImagePath() (string, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	return i.imagePath()
}

// Operations returns the transform chain of the request. Responsive rules
// are resolved against device.
func (i *Image) Operations(device string) (transform.Chain, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	return i.operations(device)
}

func (i *Image) Fingerprint() (string, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	if err := i.validate(); err != nil {
		return "", err
	}

	ops, err := i.operations(i.device)
	if err != nil {
		return "", err
	}

	imagePath, err := i.imagePath()
	if err != nil {
		return "", err
	}

	return transform.Fingerprint(imagePath, ops), nil
}

// Serve writes the image to w, rendering it first when it is not cached.
func (i *Image) Serve(ctx context.Context, w ResponseWriter) error {
	i.lock.Lock()
	defer i.lock.Unlock()

	v, err := i.resolve(ctx)
	if err != nil {
		return err
	}

	return v.serve(ctx, w)
}

func (i *Image) IsFromCache(ctx context.Context) (bool, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	v, err := i.resolve(ctx)
	if err != nil {
		return false, err
	}

	return v.isFromCache(), nil
}

func (i *Image) ImageData(ctx context.Context) ([]byte, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	v, err := i.resolve(ctx)
	if err != nil {
		return nil, err
	}

	return v.imageData()
}

func (i *Image) String() string {
	i.lock.Lock()
	defer i.lock.Unlock()

	return i.pathString
}

func (i *Image) resolve(ctx context.Context) (variant, error) {
	if i.resolved.kind != variantUnresolved {
		return i.resolved, nil
	}

	if err := i.validate(); err != nil {
		return variant{}, err
	}

	ops, err := i.operations(i.device)
	if err != nil {
		return variant{}, err
	}

	imagePath, err := i.imagePath()
	if err != nil {
		return variant{}, err
	}
	fingerprint := transform.Fingerprint(imagePath, ops)

	artifact, err := i.provider.GetFromCache(ctx, fingerprint)
	if err != nil {
		return variant{}, err
	}

	if artifact != nil {
		i.resolved = variant{
			kind:        variantCacheHit,
			fingerprint: fingerprint,
			hit:         NewCacheResultServer(*artifact),
		}
		return i.resolved, nil
	}

	engineName := i.provider.WorkerName()
	w, err := i.workers.CreateWorker(ctx, imagePath, engineName)
	if err != nil {
		return variant{}, fmt.Errorf("cannot open %s: %w", imagePath, err)
	}

	i.resolved = variant{
		kind:        variantCompute,
		fingerprint: fingerprint,
		compute: NewComputeServer(ComputeJob{
			Worker:      w,
			Operations:  ops,
			Lifetime:    i.cacheLifetime,
			Fingerprint: fingerprint,
			ImagePath:   imagePath,
			EngineName:  engineName,
		}, i.provider),
	}

	return i.resolved, nil
}

func (i *Image) validate() error {
	if i.queryValue(i.provider.VarImage()) == "" {
		return fmt.Errorf("%w: image not given", ErrInvalidRequest)
	}

	return nil
}

func (i *Image) imagePath() (string, error) {
	path, err := SourcePath(i.provider.PublicPath(), i.queryValue(i.provider.VarImage()))
	if err != nil {
		return "", err
	}

	for _, fn := range i.pathTransforms {
		path = fn.TransformPath(path)
	}

	return path, nil
}

func (i *Image) operations(device string) (transform.Chain, error) {
	value := i.queryValue(i.provider.VarTransform())

	if i.queryValue(i.provider.VarResponsiveFlag()) == "true" {
		chain, err := transform.ResolveResponsive(transform.ParseDevice(device), value, i.provider.Breakpoints())
		if err != nil {
			return nil, &TransformError{Operation: value, Err: err}
		}

		return chain, nil
	}

	chain, err := transform.ParseChain(value)
	if err != nil {
		return nil, &TransformError{Operation: value, Err: err}
	}

	return chain, nil
}

func (i *Image) queryValue(name string) string {
	if i.pathString == "" {
		return i.provider.QueryStringData(name)
	}

	_, rawQuery, _ := strings.Cut(i.pathString, "?")
	return provider.ParseQuery(rawQuery, i.provider.VarTransform()).Get(name)
}

// SourcePath resolves local images against the public path. Remote images
// are used as they are. Local images must not leave the public path.
func SourcePath(publicPath, image string) (string, error) {
	if filefetcher.IsRemote(image) {
		return image, nil
	}

	name := strings.TrimLeft(filepath.FromSlash(image), string(filepath.Separator))
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: image %q is outside of the public path", ErrInvalidRequest, image)
	}

	return publicPath + image, nil
}
