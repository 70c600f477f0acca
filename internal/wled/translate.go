package wled

import (
	"fmt"
	"strconv"
	"strings"
)

const topicRoot = "wled/"

// Message is a single outbound MQTT publish.
type Message struct {
	Topic   string
	Payload string
}

// Translate maps a channel command for a device onto the WLED message that
// implements it. ok is false when the channel has no mapping.
func Translate(deviceID string, ch Channel, cmd Command) (msg Message, ok bool, err error) {
	topic := topicRoot + deviceID
	api := func(payload string) (Message, bool, error) {
		return Message{Topic: topic + "/api", Payload: payload}, true, nil
	}

	switch ch {
	case ChannelColour:
		switch v := cmd.(type) {
		case OnOff:
			return Message{Topic: topic, Payload: v.String()}, true, nil
		case HSB:
			return Message{Topic: topic + "/col", Payload: v.Hex()}, true, nil
		}
		if cmd.String() == "0" {
			return Message{Topic: topic, Payload: "0"}, true, nil
		}
		n, err := intValue(cmd)
		if err != nil {
			return Message{}, false, err
		}
		return Message{Topic: topic, Payload: strconv.FormatInt(toByteScale(n), 10)}, true, nil
	case ChannelPalette:
		return api("FP=" + cmd.String())
	case ChannelEffect:
		return api("FX=" + cmd.String())
	case ChannelSpeed, ChannelIntensity:
		n, err := intValue(cmd)
		if err != nil {
			return Message{}, false, err
		}
		key := "SX="
		if ch == ChannelIntensity {
			key = "IX="
		}
		return api(key + strconv.FormatInt(toByteScale(n), 10))
	case ChannelSleep:
		if isOn(cmd) {
			return api("ND")
		}
		return api("NL=0")
	case ChannelPresets:
		return api("PL=" + cmd.String())
	case ChannelPresetDuration, ChannelPresetTransitionTime:
		n, err := intValue(cmd)
		if err != nil {
			return Message{}, false, err
		}
		key := "PT="
		if ch == ChannelPresetTransitionTime {
			key = "TT="
		}
		return api(key + strconv.FormatInt(toMillis(n), 10))
	case ChannelPresetCycle:
		if isOn(cmd) {
			return api("CY=1")
		}
		return api("CY=0")
	}

	return Message{}, false, nil
}

// toByteScale maps a percentage onto WLED's 0..255 range, truncating.
func toByteScale(percent int64) int64 {
	return percent * 255 / 100
}

// toMillis maps a 0..100 slider onto 0.5s..60.5s in milliseconds.
func toMillis(v int64) int64 {
	return v*600 + 500
}

func isOn(cmd Command) bool {
	v, ok := cmd.(OnOff)
	return ok && bool(v)
}

// intValue accepts 32-bit integers only; larger values are an error.
func intValue(cmd Command) (int64, error) {
	switch v := cmd.(type) {
	case Percent:
		return int64(v), nil
	case Text:
		n, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidCommand, cmd.String())
}
