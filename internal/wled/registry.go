package wled

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrUnknownDevice = errors.New("unknown device")

// Registry holds the handler of every configured device and routes raw
// MQTT commands to them.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]*Handler)}
}

func (r *Registry) Get(id string) *Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[id]
}

func (r *Registry) Set(id string, h *Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = h
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, id)
}

func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.handlers[id]
	return exists
}

// IDs returns the registered device ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) InitializeAll() {
	for _, id := range r.IDs() {
		if h := r.Get(id); h != nil {
			h.Initialize()
		}
	}
}

// HandleCommand parses a raw channel name and payload and dispatches them
// to the device's handler.
func (r *Registry) HandleCommand(deviceID string, channel string, payload string) error {
	h := r.Get(deviceID)
	if h == nil {
		return fmt.Errorf("%w: %q", ErrUnknownDevice, deviceID)
	}
	ch, err := ParseChannel(channel)
	if err != nil {
		return err
	}
	cmd, err := ParseCommand(payload)
	if err != nil {
		return err
	}
	return h.HandleCommand(ch, cmd)
}
