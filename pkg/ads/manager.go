package ads

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	adserrors "github.com/go-drift/mobileads/pkg/errors"
	"github.com/go-drift/mobileads/pkg/platform"
)

// DefaultChannel is the method channel the manager talks to the host on.
const DefaultChannel = "plugins.flutter.io/google_mobile_ads"

// Manager tracks ads by handle for one host embedding and relays size
// changes of auto-sized views back to the host. It implements AdRegistry
// and SizeChangedListener.
//
// Size notifications for the host are queued and sent by a delivery
// goroutine, so the layout pass that produced them never waits on the
// bridge. The goroutine exits whenever the queue drains.
type Manager struct {
	mu        sync.RWMutex
	ads       map[AdHandle]Ad
	ctx       RenderingContext
	listeners []SizeChangedListener
	channel   *platform.MethodChannel

	outMu   sync.Mutex
	outIdle *sync.Cond
	outbox  []sizeNotice
	sending bool
	closed  bool
}

type sizeNotice struct {
	handle        AdHandle
	width, height int
}

var (
	_ AdRegistry          = (*Manager)(nil)
	_ SizeChangedListener = (*Manager)(nil)
)

// NewManager creates a manager communicating on the named method channel.
func NewManager(channelName string) *Manager {
	if channelName == "" {
		channelName = DefaultChannel
	}
	m := &Manager{
		ads:     make(map[AdHandle]Ad),
		channel: platform.NewMethodChannel(channelName),
	}
	m.outIdle = sync.NewCond(&m.outMu)
	m.channel.SetHandler(m.handleMethodCall)
	return m
}

// TrackAd registers ad under its handle.
func (m *Manager) TrackAd(ad Ad) error {
	h := ad.Handle()
	if h < 0 {
		return fmt.Errorf("%w: negative handle %d", ErrMalformedRequest, h)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ads[h]; ok {
		return fmt.Errorf("%w: %d", ErrHandleInUse, h)
	}
	m.ads[h] = ad
	return nil
}

// AdForID implements AdRegistry.
func (m *Manager) AdForID(handle AdHandle) (Ad, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ad, ok := m.ads[handle]
	return ad, ok
}

// DisposeAd stops tracking the ad and releases its resources. Unknown
// handles are ignored.
func (m *Manager) DisposeAd(handle AdHandle) {
	m.mu.Lock()
	ad, ok := m.ads[handle]
	delete(m.ads, handle)
	m.mu.Unlock()

	if !ok {
		return
	}
	if d, ok := ad.(Disposer); ok {
		d.Dispose()
	}
	Logger().Debug("ad disposed", zap.Int("handle", int(handle)))
}

// DisposeAll disposes every tracked ad.
func (m *Manager) DisposeAll() {
	m.mu.RLock()
	handles := make([]AdHandle, 0, len(m.ads))
	for h := range m.ads {
		handles = append(handles, h)
	}
	m.mu.RUnlock()

	for _, h := range handles {
		m.DisposeAd(h)
	}
}

// SetRenderingContext installs the host context. Pass nil when the host
// detaches.
func (m *Manager) SetRenderingContext(ctx RenderingContext) {
	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()
}

// RenderingContext implements AdRegistry.
func (m *Manager) RenderingContext() (RenderingContext, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctx, m.ctx != nil
}

// AddSizeListener registers an in-process listener for size changes.
func (m *Manager) AddSizeListener(l SizeChangedListener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

// OnPlatformViewSizeChanged implements SizeChangedListener. It notifies
// in-process listeners synchronously and queues the size for the host.
// Delivery is fire-and-forget; channel failures are reported, not returned.
func (m *Manager) OnPlatformViewSizeChanged(handle AdHandle, width, height int) {
	m.mu.RLock()
	listeners := make([]SizeChangedListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, l := range listeners {
		l.OnPlatformViewSizeChanged(handle, width, height)
	}
	m.enqueue(sizeNotice{handle: handle, width: width, height: height})
}

func (m *Manager) enqueue(n sizeNotice) {
	m.outMu.Lock()
	defer m.outMu.Unlock()
	if m.closed {
		Logger().Debug("size notification dropped after close", zap.Int("handle", int(n.handle)))
		return
	}
	m.outbox = append(m.outbox, n)
	if !m.sending {
		m.sending = true
		go m.deliver()
	}
}

// deliver sends queued notifications in order until the queue is empty.
func (m *Manager) deliver() {
	for {
		m.outMu.Lock()
		if len(m.outbox) == 0 {
			m.sending = false
			m.outIdle.Broadcast()
			m.outMu.Unlock()
			return
		}
		n := m.outbox[0]
		m.outbox = m.outbox[1:]
		m.outMu.Unlock()

		m.send(n)
	}
}

func (m *Manager) send(n sizeNotice) {
	_, err := m.channel.Invoke("onPlatformViewSizeChanged", map[string]any{
		"adId":   int(n.handle),
		"width":  n.width,
		"height": n.height,
	})
	if err != nil {
		adserrors.Report(&adserrors.AdError{
			Op:      "ads.Manager.OnPlatformViewSizeChanged",
			Kind:    adserrors.KindPlatform,
			Handle:  int(n.handle),
			Channel: m.channel.Name(),
			Err:     err,
		})
	}
}

// Flush blocks until every queued size notification has been sent.
func (m *Manager) Flush() {
	m.outMu.Lock()
	for m.sending {
		m.outIdle.Wait()
	}
	m.outMu.Unlock()
}

// Close stops queuing size notifications, waits for pending ones and
// disposes every tracked ad.
func (m *Manager) Close() {
	m.outMu.Lock()
	m.closed = true
	m.outMu.Unlock()
	m.Flush()
	m.DisposeAll()
}

// handleMethodCall serves calls from the host.
func (m *Manager) handleMethodCall(method string, args any) (any, error) {
	switch method {
	case "disposeAd":
		h, err := handleArg(args)
		if err != nil {
			return nil, err
		}
		m.DisposeAd(h)
		return nil, nil

	case "isAdLoaded":
		h, err := handleArg(args)
		if err != nil {
			return nil, err
		}
		ad, ok := m.AdForID(h)
		if !ok {
			return false, nil
		}
		if ls, ok := ad.(LoadStater); ok {
			return ls.IsLoaded(), nil
		}
		return ad.Surface() != nil, nil

	default:
		return nil, platform.ErrMethodNotFound
	}
}

func handleArg(args any) (AdHandle, error) {
	m, ok := platform.AsMap(args)
	if !ok {
		return 0, platform.ErrInvalidArguments
	}
	h, err := parseHandle(m[keyAdID])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", platform.ErrInvalidArguments, err)
	}
	return h, nil
}
