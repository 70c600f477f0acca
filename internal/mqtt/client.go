package mqtt

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dchest/uniuri"
	"github.com/denwilliams/go-wled-mqtt/internal/logging"
	pm "github.com/eclipse/paho.mqtt.golang"
)

var (
	errQueueFull = errors.New("send queue full")
	errClosed    = errors.New("client closed")
)

const publishTimeout = 10 * time.Second

type Options struct {
	URI *url.URL
	// Prefix roots the command (<prefix>/set/...) and status topics.
	Prefix          string
	QoS             byte
	Retain          bool
	QueueSize       int
	RefreshInterval time.Duration
	// OnConnectionChange is called after the connection comes up or drops.
	OnConnectionChange func(connected bool)
}

type message struct {
	topic   string
	payload string
	retain  bool
}

// MQTTClient owns the broker connection. Outbound messages go through a
// bounded queue drained by a single worker, which also remembers the last
// payload of every topic so it can be republished on refresh.
type MQTTClient struct {
	client  pm.Client
	opts    Options
	refresh *Refresh
	handler CommandHandler
	publish func(topic string, retain bool, payload string) error

	queue     chan message
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
	closed    atomic.Bool
	connected atomic.Bool

	mu   sync.Mutex
	sent map[string]message
}

func NewMQTTClient(o Options, refresh *Refresh) *MQTTClient {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = time.Second
	}

	mc := &MQTTClient{
		opts:    o,
		refresh: refresh,
		queue:   make(chan message, o.QueueSize),
		done:    make(chan struct{}),
		sent:    make(map[string]message),
	}
	mc.publish = mc.publishToBroker

	broker := *o.URI
	broker.User = nil
	opts := pm.NewClientOptions().
		AddBroker(broker.String()).
		SetClientID("wled_mqtt_" + uniuri.New()).
		SetAutoReconnect(true).
		SetOnConnectHandler(mc.onConnect).
		SetConnectionLostHandler(mc.onConnectionLost)
	if u := o.URI.User; u != nil {
		opts.SetUsername(u.Username())
		if p, ok := u.Password(); ok {
			opts.SetPassword(p)
		}
	}

	mc.client = pm.NewClient(opts)
	return mc
}

// Connect opens the broker connection and starts the send worker. Commands
// received on the command topics are passed to h.
func (mc *MQTTClient) Connect(h CommandHandler) error {
	mc.handler = h
	if token := mc.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to %s: %w", mc.opts.URI.Host, token.Error())
	}
	mc.startWorker()
	return nil
}

func (mc *MQTTClient) Connected() bool {
	return mc.connected.Load()
}

// Enqueue queues a device message. It never blocks; a full queue drops the
// message.
func (mc *MQTTClient) Enqueue(topic string, payload string) {
	if err := mc.enqueue(message{topic: topic, payload: payload, retain: mc.opts.Retain}); err != nil {
		logging.Warn("Dropping %s %s: %s", topic, payload, err)
	}
}

func (mc *MQTTClient) enqueue(m message) error {
	if mc.closed.Load() {
		messagesDropped.Inc()
		return errClosed
	}
	select {
	case mc.queue <- m:
		queueDepth.Set(float64(len(mc.queue)))
		return nil
	default:
		messagesDropped.Inc()
		return errQueueFull
	}
}

// Disconnect flushes the send queue, then unsubscribes and disconnects.
func (mc *MQTTClient) Disconnect() {
	mc.closeOnce.Do(func() {
		logging.Info("Disconnecting from MQTT")
		mc.closed.Store(true)
		close(mc.done)
		mc.wg.Wait()

		if !mc.client.IsConnected() {
			return
		}
		if token := mc.client.Unsubscribe(mc.subscribeTopic()); token.Wait() && token.Error() != nil {
			logging.Warn("Error unsubscribing from %s: %s", mc.subscribeTopic(), token.Error())
		}
		mc.client.Disconnect(250)
	})
}

func (mc *MQTTClient) startWorker() {
	mc.startOnce.Do(func() {
		mc.wg.Add(1)
		go mc.run()
	})
}

func (mc *MQTTClient) run() {
	defer mc.wg.Done()

	tick := time.NewTicker(mc.opts.RefreshInterval)
	defer tick.Stop()

	for {
		select {
		case m := <-mc.queue:
			mc.send(m)
		case <-tick.C:
			if mc.refresh != nil && mc.refresh.Take() {
				mc.replay()
			}
		case <-mc.done:
			for {
				select {
				case m := <-mc.queue:
					mc.send(m)
				default:
					return
				}
			}
		}
	}
}

func (mc *MQTTClient) send(m message) {
	queueDepth.Set(float64(len(mc.queue)))
	if err := mc.publish(m.topic, m.retain, m.payload); err != nil {
		publishErrors.Inc()
		logging.Error("Error publishing to %s: %s", m.topic, err)
		return
	}
	messagesPublished.Inc()

	mc.mu.Lock()
	mc.sent[m.topic] = m
	mc.mu.Unlock()
}

// replay republishes the last payload of every topic, in topic order.
func (mc *MQTTClient) replay() {
	mc.mu.Lock()
	msgs := make([]message, 0, len(mc.sent))
	for _, m := range mc.sent {
		msgs = append(msgs, m)
	}
	mc.mu.Unlock()

	sort.Slice(msgs, func(i, j int) bool { return msgs[i].topic < msgs[j].topic })
	logging.Info("Refresh requested, resending %d messages", len(msgs))
	refreshes.Inc()
	for _, m := range msgs {
		mc.send(m)
	}
}

func (mc *MQTTClient) publishToBroker(topic string, retain bool, payload string) error {
	token := mc.client.Publish(topic, mc.opts.QoS, retain, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

func (mc *MQTTClient) commandPrefix() string {
	return mc.opts.Prefix + "/set/"
}

func (mc *MQTTClient) subscribeTopic() string {
	return mc.commandPrefix() + "+/+"
}

func (mc *MQTTClient) statusTopic(id string, key string) string {
	return mc.opts.Prefix + "/status/" + id + "/" + key
}

func (mc *MQTTClient) onMessage(client pm.Client, msg pm.Message) {
	topic, payload := msg.Topic(), msg.Payload()
	go mc.route(topic, payload)
}

func (mc *MQTTClient) route(topic string, payload []byte) {
	cmd, err := parseCommand(mc.commandPrefix(), topic, payload)
	if err != nil {
		logging.Warn("Ignoring message: %s", err)
		return
	}
	logging.Debug("Received message on topic %s: %s", topic, cmd.String())
	commandsReceived.Inc()

	if mc.handler == nil {
		return
	}
	if err := mc.handler.HandleCommand(cmd.DeviceID, cmd.Channel, cmd.Payload); err != nil {
		commandErrors.Inc()
		logging.Warn("Error handling command %s: %s", cmd.String(), err)
	}
}

func (mc *MQTTClient) onConnect(c pm.Client) {
	logging.Info("Connected to MQTT")

	topic := mc.subscribeTopic()
	if token := c.Subscribe(topic, mc.opts.QoS, mc.onMessage); token.Wait() && token.Error() != nil {
		logging.Error("Error subscribing to %s: %s", topic, token.Error())
	} else {
		logging.Info("Subscribed to %s", topic)
	}

	mc.setConnected(true)
}

func (mc *MQTTClient) onConnectionLost(c pm.Client, err error) {
	logging.Error("Lost connection to MQTT: %s", err)
	mc.setConnected(false)
}

func (mc *MQTTClient) setConnected(connected bool) {
	mc.connected.Store(connected)
	if connected {
		connectionState.Set(1)
	} else {
		connectionState.Set(0)
	}
	if mc.opts.OnConnectionChange != nil {
		mc.opts.OnConnectionChange(connected)
	}
}
