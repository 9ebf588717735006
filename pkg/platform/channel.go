package platform

import "sync"

// MethodHandler serves calls arriving from the host on a channel.
type MethodHandler func(method string, args any) (any, error)

// MethodChannel is a named, bidirectional call channel to the host.
type MethodChannel struct {
	name string

	mu      sync.RWMutex
	handler MethodHandler
}

// channels maps names to the channels that receive incoming calls.
var channels = struct {
	sync.RWMutex
	byName map[string]*MethodChannel
}{byName: make(map[string]*MethodChannel)}

// NewMethodChannel creates a channel and routes incoming calls for name to
// it. Creating a second channel with the same name takes over the routing.
func NewMethodChannel(name string) *MethodChannel {
	ch := &MethodChannel{name: name}
	channels.Lock()
	channels.byName[name] = ch
	channels.Unlock()
	return ch
}

func lookupChannel(name string) *MethodChannel {
	channels.RLock()
	defer channels.RUnlock()
	return channels.byName[name]
}

// Name returns the channel name.
func (c *MethodChannel) Name() string {
	return c.name
}

// SetHandler installs the handler for incoming calls. Nil makes every
// incoming call fail with ErrMethodNotFound.
func (c *MethodChannel) SetHandler(handler MethodHandler) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
}

// Invoke sends a call to the host and waits for its result.
func (c *MethodChannel) Invoke(method string, args any) (any, error) {
	return invokeNative(c.name, method, args)
}

func (c *MethodChannel) serve(method string, args any) (any, error) {
	c.mu.RLock()
	h := c.handler
	c.mu.RUnlock()
	if h == nil {
		return nil, ErrMethodNotFound
	}
	return h(method, args)
}
