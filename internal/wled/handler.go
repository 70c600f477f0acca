package wled

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/denwilliams/go-wled-mqtt/internal/logging"
)

const bridgeMissingMessage = "Device must have a valid bridge selected to be able to come online, check you have a bridge selected."

var ErrBridgeUnavailable = errors.New("bridge unavailable")

// Sender queues a message for publishing.
type Sender interface {
	Enqueue(topic string, payload string)
}

// Bridge is the parent connection of a thing. Handler returns nil while
// the bridge has no usable connection.
type Bridge interface {
	Handler() Sender
}

type BridgeFunc func() Sender

func (f BridgeFunc) Handler() Sender {
	return f()
}

type RefreshRequester interface {
	Request()
}

// Thing is a configured WLED device. A nil Bridge means none was selected.
type Thing struct {
	ID     string
	Bridge Bridge
	Config map[string]string
}

// Handler translates channel commands for one WLED device and forwards them
// to the sender resolved from its bridge.
type Handler struct {
	thing   Thing
	emitter StatusEmitter
	refresh RefreshRequester

	// initMu is held for the whole of Initialize.
	initMu sync.Mutex

	mu       sync.Mutex
	deviceID string
	config   map[string]string
	sender   Sender
	status   Status
}

func NewHandler(thing Thing, emitter StatusEmitter, refresh RefreshRequester) *Handler {
	return &Handler{
		thing:    thing,
		emitter:  emitter,
		refresh:  refresh,
		deviceID: thing.ID,
		status:   Status{Kind: StatusUnknown, Detail: DetailNone},
	}
}

func (h *Handler) DeviceID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.deviceID
}

func (h *Handler) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Initialize resolves the sender from the thing's bridge and reports the
// resulting status. It may be called again whenever the bridge changes.
func (h *Handler) Initialize() {
	h.initMu.Lock()
	defer h.initMu.Unlock()

	if h.thing.Bridge == nil {
		h.mu.Lock()
		h.sender = nil
		h.mu.Unlock()
		logging.Error("Device %s does not have a bridge selected, please fix", h.thing.ID)
		h.setStatus(Status{Kind: StatusOffline, Detail: DetailConfigurationPending, Message: bridgeMissingMessage})
		return
	}

	sender := h.thing.Bridge.Handler()

	h.mu.Lock()
	h.deviceID = h.thing.ID
	h.config = h.thing.Config
	h.sender = sender
	h.mu.Unlock()

	if sender == nil {
		logging.Error("Bridge handler for device %s is not available", h.thing.ID)
		h.setStatus(Status{Kind: StatusOffline, Detail: DetailConfigurationPending, Message: bridgeMissingMessage})
		return
	}

	h.setStatus(Status{Kind: StatusOnline, Detail: DetailNone})
}

// HandleCommand translates cmd for channel ch and enqueues the result.
// A Refresh command only raises the refresh request.
func (h *Handler) HandleCommand(ch Channel, cmd Command) error {
	if cmd == nil {
		return nil
	}

	if _, ok := cmd.(Refresh); ok {
		logging.Debug("Refresh command received for %s/%s", h.thing.ID, ch)
		refreshRequests.Inc()
		if h.refresh != nil {
			h.refresh.Request()
		}
		return nil
	}

	h.mu.Lock()
	id, sender := h.deviceID, h.sender
	h.mu.Unlock()

	msg, ok, err := Translate(id, ch, cmd)
	if err != nil {
		commandErrors.WithLabelValues(ch.String()).Inc()
		return fmt.Errorf("%s %s: %w", id, ch, err)
	}
	if !ok {
		logging.Debug("Ignoring command for unmapped channel %s on %s", ch, id)
		return nil
	}
	if sender == nil {
		return fmt.Errorf("%s: %w", id, ErrBridgeUnavailable)
	}

	sender.Enqueue(msg.Topic, msg.Payload)
	commandsTranslated.WithLabelValues(ch.String()).Inc()
	logging.Debug("Queued %s %s for %s %s", msg.Topic, msg.Payload, ch, cmd)
	return nil
}

func (h *Handler) setStatus(s Status) {
	h.mu.Lock()
	changed := h.status != s
	h.status = s
	h.mu.Unlock()

	if !changed {
		return
	}
	logging.Info("Device %s is %s", h.thing.ID, s.Kind)

	if h.emitter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.emitter.EmitStatus(ctx, h.thing.ID, "status", s); err != nil {
		logging.Warn("Failed to emit status for %s: %s", h.thing.ID, err)
	}
}
