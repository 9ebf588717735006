package platform

import (
	"sync"

	"github.com/go-drift/mobileads/pkg/errors"
)

// NativeBridge carries encoded calls from Go to the host.
type NativeBridge interface {
	InvokeMethod(channel, method string, args []byte) ([]byte, error)
}

var (
	bridgeMu sync.RWMutex
	bridge   NativeBridge

	dispatchMu sync.RWMutex
	dispatcher func(callback func())
)

// SetNativeBridge installs the host's bridge. Nil uninstalls it, after which
// outgoing calls fail with ErrPlatformUnavailable.
func SetNativeBridge(b NativeBridge) {
	bridgeMu.Lock()
	bridge = b
	bridgeMu.Unlock()
}

func invokeNative(channel, method string, args any) (any, error) {
	bridgeMu.RLock()
	b := bridge
	bridgeMu.RUnlock()
	if b == nil {
		return nil, ErrPlatformUnavailable
	}

	data, err := DefaultCodec.Encode(args)
	if err != nil {
		return nil, err
	}
	reply, err := b.InvokeMethod(channel, method, data)
	if err != nil {
		return nil, err
	}
	return DefaultCodec.Decode(reply)
}

// HandleMethodCall is the entry point for calls from the host. It decodes
// the arguments, runs the channel's handler and encodes the result.
func HandleMethodCall(channel, method string, args []byte) ([]byte, error) {
	ch := lookupChannel(channel)
	if ch == nil {
		errors.Report(&errors.AdError{
			Op:      "platform.HandleMethodCall",
			Kind:    errors.KindPlatform,
			Handle:  errors.NoHandle,
			Channel: channel,
			Err:     ErrChannelNotFound,
		})
		return nil, ErrChannelNotFound
	}

	decoded, err := DefaultCodec.Decode(args)
	if err != nil {
		return nil, err
	}
	result, err := ch.serve(method, decoded)
	if err != nil {
		return nil, err
	}
	return DefaultCodec.Encode(result)
}

// RegisterDispatch installs the function that runs callbacks on the host's
// layout goroutine. The host calls it once at startup.
func RegisterDispatch(fn func(callback func())) {
	dispatchMu.Lock()
	dispatcher = fn
	dispatchMu.Unlock()
}

// Dispatch hands callback to the registered dispatcher. It returns false,
// without running callback, when there is no dispatcher.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatcher
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

// ResetForTest uninstalls the bridge and the dispatcher and forgets every
// channel. Only tests should call it.
func ResetForTest() {
	SetNativeBridge(nil)
	RegisterDispatch(nil)
	channels.Lock()
	channels.byName = make(map[string]*MethodChannel)
	channels.Unlock()
}
