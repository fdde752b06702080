package imgrequest

import (
	"errors"
	"fmt"
)

// TransformError is returned when a transform chain cannot be parsed or the
// worker refuses one of its operations. Nothing is cached for such request.
type TransformError struct {
	Operation string
	Err       error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTransform, e.Operation, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

func (e *TransformError) Is(target error) bool {
	return target == ErrTransform
}

var (
	ErrInvalidRequest = errors.New("invalid image request")
	ErrPathNotSet     = fmt.Errorf("%w: path has to be set before responsive rules", ErrInvalidRequest)
	ErrTransform      = errors.New("image transformation failed")
	ErrAssetMissing   = errors.New("asset file is missing")

	ErrNotCreated     = errors.New("image was not created yet")
	ErrAlreadyCreated = errors.New("image was already created")
)
