package ads

import (
	"fmt"

	"github.com/go-drift/mobileads/pkg/platform"
)

// Mode selects how a surface is embedded.
type Mode string

const (
	// ModeStandard embeds the surface at the size the host allocates.
	ModeStandard Mode = "standard"
	// ModeAutoSizing lets the surface lay out at its intrinsic size and
	// reports that size to the SizeChangedListener.
	ModeAutoSizing Mode = "autosizing"
)

// Keys of a structured creation request.
const (
	keyAdID   = "adId"
	keyHandle = "handle"
	keyMode   = "mode"
)

// CreationRequest is a parsed creation request.
type CreationRequest struct {
	Handle AdHandle
	Mode   Mode
	// Params holds the remaining keys of a structured request.
	Params map[string]any
}

// ParseRequest interprets the creation arguments sent by the host: either a
// bare integer handle, or a map with "adId" (or "handle") and an optional
// "mode". A structured request without a mode uses ModeStandard.
func ParseRequest(args any) (CreationRequest, error) {
	if m, ok := platform.AsMap(args); ok {
		return parseStructured(m)
	}
	if args == nil {
		return CreationRequest{}, fmt.Errorf("%w: no arguments", ErrMalformedRequest)
	}
	h, err := parseHandle(args)
	if err != nil {
		return CreationRequest{}, err
	}
	return CreationRequest{Handle: h, Mode: ModeStandard}, nil
}

func parseStructured(m map[string]any) (CreationRequest, error) {
	raw, ok := m[keyAdID]
	if !ok {
		raw, ok = m[keyHandle]
	}
	if !ok {
		return CreationRequest{}, fmt.Errorf("%w: missing %q", ErrMalformedRequest, keyAdID)
	}
	h, err := parseHandle(raw)
	if err != nil {
		return CreationRequest{}, err
	}

	mode := ModeStandard
	if rawMode, ok := m[keyMode]; ok && rawMode != nil {
		s, ok := platform.AsString(rawMode)
		if !ok {
			return CreationRequest{}, fmt.Errorf("%w: mode of type %T", ErrMalformedRequest, rawMode)
		}
		switch Mode(s) {
		case ModeStandard, ModeAutoSizing:
			mode = Mode(s)
		default:
			return CreationRequest{}, fmt.Errorf("%w: %q", ErrUnknownMode, s)
		}
	}

	var params map[string]any
	for k, v := range m {
		if k == keyAdID || k == keyHandle || k == keyMode {
			continue
		}
		if params == nil {
			params = make(map[string]any)
		}
		params[k] = v
	}
	return CreationRequest{Handle: h, Mode: mode, Params: params}, nil
}

func parseHandle(v any) (AdHandle, error) {
	n, ok := platform.AsInt64(v)
	if !ok {
		return 0, fmt.Errorf("%w: handle of type %T", ErrMalformedRequest, v)
	}
	if n < 0 || n > int64(maxHandle) {
		return 0, fmt.Errorf("%w: handle %d out of range", ErrMalformedRequest, n)
	}
	return AdHandle(n), nil
}

const maxHandle = int(^uint32(0) >> 1)
