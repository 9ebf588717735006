package platform

import "errors"

var (
	// ErrChannelNotFound is returned for calls to a channel nobody registered.
	ErrChannelNotFound = errors.New("platform: channel not found")

	// ErrMethodNotFound is returned by handlers for methods they do not serve.
	ErrMethodNotFound = errors.New("platform: method not implemented")

	// ErrInvalidArguments is returned for calls whose arguments have the
	// wrong shape.
	ErrInvalidArguments = errors.New("platform: invalid arguments")

	// ErrPlatformUnavailable is returned by outgoing calls while no native
	// bridge is installed.
	ErrPlatformUnavailable = errors.New("platform: no native bridge")

	// ErrViewTypeNotFound is returned when creating a view of an
	// unregistered type.
	ErrViewTypeNotFound = errors.New("platform: view type not registered")

	// ErrViewNotFound is returned for an unknown view ID.
	ErrViewNotFound = errors.New("platform: view not found")
)
