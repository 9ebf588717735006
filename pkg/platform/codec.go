// Package platform connects Go to the host embedding: method channels carry
// calls in both directions, and PlatformViewRegistry hosts platform views and
// runs their layout passes at the sizes the host assigns.
package platform

import "encoding/json"

// MessageCodec converts channel arguments and results to and from bytes.
type MessageCodec interface {
	Encode(value any) ([]byte, error)
	Decode(data []byte) (any, error)
}

// JSONCodec encodes messages as JSON. Decoded numbers are float64; use
// AsInt64 to read integer arguments.
type JSONCodec struct{}

// Encode marshals value.
func (JSONCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode unmarshals data. Empty input decodes to nil.
func (JSONCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DefaultCodec is used by every channel.
var DefaultCodec MessageCodec = JSONCodec{}
