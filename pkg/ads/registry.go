package ads

import "sync"

// BindingRegistry maps handles to live bindings. It is safe for concurrent
// use and never holds a lock while view code runs.
type BindingRegistry struct {
	m sync.Map // map[AdHandle]*Binding
}

// Load returns the binding registered for handle.
func (r *BindingRegistry) Load(handle AdHandle) (*Binding, bool) {
	v, ok := r.m.Load(handle)
	if !ok {
		return nil, false
	}
	return v.(*Binding), true
}

func (r *BindingRegistry) store(handle AdHandle, b *Binding) {
	r.m.Store(handle, b)
}

// Release removes the entry for handle only if it still holds b, so a stale
// release cannot evict a newer binding for the same handle.
func (r *BindingRegistry) Release(handle AdHandle, b *Binding) bool {
	return r.m.CompareAndDelete(handle, b)
}

// Len returns the number of registered bindings.
func (r *BindingRegistry) Len() int {
	n := 0
	r.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Range calls fn for every registered binding until fn returns false.
func (r *BindingRegistry) Range(fn func(handle AdHandle, b *Binding) bool) {
	r.m.Range(func(k, v any) bool {
		return fn(k.(AdHandle), v.(*Binding))
	})
}
