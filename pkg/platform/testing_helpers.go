package platform

import (
	"encoding/json"
	"sync"
)

// RecordedCall is an outgoing call captured by a RecordingBridge. Args is
// the JSON-decoded argument map, nil for non-map arguments.
type RecordedCall struct {
	Channel string
	Method  string
	Args    map[string]any
}

// RecordingBridge is a NativeBridge for tests. It records every call and
// answers with a null result, or with Err when set.
type RecordingBridge struct {
	mu    sync.Mutex
	calls []RecordedCall
	err   error
}

// InvokeMethod implements NativeBridge.
func (b *RecordingBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	var decoded map[string]any
	_ = json.Unmarshal(args, &decoded)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, RecordedCall{Channel: channel, Method: method, Args: decoded})
	if b.err != nil {
		return nil, b.err
	}
	return DefaultCodec.Encode(nil)
}

// FailWith makes subsequent calls return err.
func (b *RecordingBridge) FailWith(err error) {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}

// Calls returns the recorded calls for method, or all calls if method is "".
func (b *RecordingBridge) Calls(method string) []RecordedCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []RecordedCall
	for _, c := range b.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// SetupTestBridge installs a RecordingBridge and a synchronous dispatcher,
// and registers ResetForTest with cleanup:
//
//	bridge := platform.SetupTestBridge(t.Cleanup)
func SetupTestBridge(cleanup func(func())) *RecordingBridge {
	b := &RecordingBridge{}
	SetNativeBridge(b)
	RegisterDispatch(func(cb func()) { cb() })
	cleanup(ResetForTest)
	return b
}
