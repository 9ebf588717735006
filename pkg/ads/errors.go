package ads

import (
	"errors"

	adserrors "github.com/go-drift/mobileads/pkg/errors"
)

var (
	// ErrNoRenderingContext is returned when a view is requested before the
	// host provided a rendering context.
	ErrNoRenderingContext = errors.New("ads: no rendering context available")

	// ErrAdNotFound is returned for a handle with no tracked ad.
	ErrAdNotFound = errors.New("ads: ad not found")

	// ErrAdNotLoaded is returned for an ad that has not finished loading.
	ErrAdNotLoaded = errors.New("ads: ad not loaded")

	// ErrNoSurface is returned for a loaded ad without a renderable surface.
	ErrNoSurface = errors.New("ads: ad has no surface")

	// ErrMalformedRequest is returned for creation requests of unexpected shape.
	ErrMalformedRequest = errors.New("ads: malformed creation request")

	// ErrUnknownMode is returned for a structured request with an unrecognized mode.
	ErrUnknownMode = errors.New("ads: unknown view mode")

	// ErrHandleInUse is returned when tracking an ad under a live handle.
	ErrHandleInUse = errors.New("ads: handle already in use")

	// ErrInvalidOptions is wrapped by native ad configuration errors.
	ErrInvalidOptions = errors.New("ads: invalid native ad options")
)

// kindOf maps sentinel errors to the reporting taxonomy.
func kindOf(err error) adserrors.ErrorKind {
	switch {
	case errors.Is(err, ErrNoRenderingContext):
		return adserrors.KindConfiguration
	case errors.Is(err, ErrAdNotFound), errors.Is(err, ErrAdNotLoaded), errors.Is(err, ErrNoSurface):
		return adserrors.KindLookup
	case errors.Is(err, ErrMalformedRequest), errors.Is(err, ErrUnknownMode):
		return adserrors.KindMalformedRequest
	case errors.Is(err, ErrInvalidOptions):
		return adserrors.KindValidation
	default:
		return adserrors.KindResource
	}
}
