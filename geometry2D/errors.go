package geometry2D

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// Failure classes a caller can tell apart with errors.Is or KindOf. Every
// error returned by this package wraps exactly one of them.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrConfigurationRejected = errors.New("configuration rejected")
	ErrResourceFailure       = errors.New("resource failure")
	ErrConvergenceFailure    = errors.New("meshing did not converge")
)

type ErrorKind uint8

const (
	KindNone ErrorKind = iota
	KindInvalidInput
	KindConfigurationRejected
	KindResourceFailure
	KindConvergenceFailure
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "InvalidInput"
	case KindConfigurationRejected:
		return "ConfigurationRejected"
	case KindResourceFailure:
		return "ResourceFailure"
	case KindConvergenceFailure:
		return "ConvergenceFailure"
	}
	return "unknown"
}

func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrConfigurationRejected):
		return KindConfigurationRejected
	case errors.Is(err, ErrResourceFailure):
		return KindResourceFailure
	case errors.Is(err, ErrConvergenceFailure):
		return KindConvergenceFailure
	}
	return KindUnknown
}

// Threading errors through every flip and walk of the mesh would bury the
// geometry. Helpers that find the mesh corrupted panic with a meshPanic and the
// session converts it back into an error.
type meshPanic struct {
	err error
}

func fatalf(kind error, format string, args ...interface{}) {
	panic(meshPanic{errors.Wrapf(kind, format, args...)})
}

func recoverMeshPanic(r interface{}) error {
	if r == nil {
		return nil
	}
	switch v := r.(type) {
	case meshPanic:
		return v.err
	case runtime.Error:
		return errors.Wrapf(ErrConvergenceFailure, "internal mesh error: %v", v)
	}
	return errors.Wrap(ErrConvergenceFailure, fmt.Sprint(r))
}
