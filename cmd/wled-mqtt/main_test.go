package main

import (
	"context"
	"sync"
	"testing"

	"github.com/denwilliams/go-wled-mqtt/internal/config"
	"github.com/denwilliams/go-wled-mqtt/internal/wled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu       sync.Mutex
	statuses map[string][]wled.Status
}

func (e *recordingEmitter) EmitStatus(ctx context.Context, id string, statusKey string, data interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.statuses == nil {
		e.statuses = make(map[string][]wled.Status)
	}
	e.statuses[id] = append(e.statuses[id], data.(wled.Status))
	return nil
}

type nopSender struct{}

func (nopSender) Enqueue(topic string, payload string) {}

func TestAddDevicesWaitsForConnectionBeforeInitializingBridged(t *testing.T) {
	connected := false
	bridge := wled.BridgeFunc(func() wled.Sender {
		if connected {
			return nopSender{}
		}
		return nil
	})
	emitter := &recordingEmitter{}
	registry := wled.NewRegistry()
	cfg := &config.Config{Devices: []string{"kitchen"}, Unbridged: []string{"attic"}}

	addDevices(registry, cfg, bridge, emitter, nil)

	assert.Equal(t, []string{"attic", "kitchen"}, registry.IDs())
	assert.Empty(t, emitter.statuses["kitchen"])
	require.Len(t, emitter.statuses["attic"], 1)
	assert.Equal(t, wled.StatusOffline, emitter.statuses["attic"][0].Kind)
	assert.Equal(t, wled.StatusUnknown, registry.Get("kitchen").Status().Kind)

	connected = true
	registry.InitializeAll()

	assert.Equal(t, []wled.Status{{Kind: wled.StatusOnline, Detail: wled.DetailNone}}, emitter.statuses["kitchen"])
	assert.Len(t, emitter.statuses["attic"], 1)
}
