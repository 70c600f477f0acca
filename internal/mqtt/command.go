package mqtt

import (
	"errors"
	"fmt"
	"strings"
)

var errBadTopic = errors.New("bad command topic")

type CommandHandler interface {
	HandleCommand(deviceID string, channel string, payload string) error
}

type CommandHandlerFunc func(deviceID string, channel string, payload string) error

func (f CommandHandlerFunc) HandleCommand(deviceID string, channel string, payload string) error {
	return f(deviceID, channel, payload)
}

// Command is a channel command received on <prefix>/set/<device>/<channel>.
type Command struct {
	DeviceID string
	Channel  string
	Payload  string
}

func (c *Command) String() string {
	return fmt.Sprintf("device:%s channel:%s payload:%s", c.DeviceID, c.Channel, c.Payload)
}

// parseCommand splits a topic below the command prefix into device and channel.
func parseCommand(prefix string, topic string, payload []byte) (*Command, error) {
	if !strings.HasPrefix(topic, prefix) {
		return nil, fmt.Errorf("%w: %s", errBadTopic, topic)
	}
	parts := strings.Split(strings.TrimPrefix(topic, prefix), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: %s", errBadTopic, topic)
	}
	return &Command{DeviceID: parts[0], Channel: parts[1], Payload: string(payload)}, nil
}
