package assets

import (
	"errors"
	"fmt"
	"path"

	"go.uber.org/multierr"

	"cellquest/content"
)

var (
	// ErrUnknownImageKey means chapter refers to an image key absent from
	// configuration. Nothing is probed in this case.
	ErrUnknownImageKey = errors.New("unknown image key")
	// ErrAllCandidatesFailed means every extension candidate of a known key
	// failed to load.
	ErrAllCandidatesFailed = errors.New("all candidates failed")
	// ErrLoadTimeout marks a candidate which did not load in allotted time.
	ErrLoadTimeout = errors.New("load timed out")
	// ErrTooLarge marks a candidate bigger than configured limit.
	ErrTooLarge = errors.New("image is too large")
)

// UnknownKeyError is a configuration error.
type UnknownKeyError struct {
	Key content.ImageKey
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown image key: %s", e.Key)
}

func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownImageKey
}

// NotFoundError carries full diagnostics of a failed resolution.
type NotFoundError struct {
	Key  content.ImageKey
	Base string
	// Attempts lists every candidate path tried, in probing order.
	Attempts []string
	// Present lists files found next to the candidates, when loader can
	// enumerate them.
	Present []string
	// Err combines failures of individual attempts.
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unable to load image %q: %d candidates failed", e.Key, len(e.Attempts))
}

func (e *NotFoundError) Unwrap() []error {
	return append([]error{ErrAllCandidatesFailed}, multierr.Errors(e.Err)...)
}

// Dir returns directory candidates were looked up in.
func (e *NotFoundError) Dir() string {
	return path.Dir(e.Base)
}
