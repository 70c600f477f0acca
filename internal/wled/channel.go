package wled

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownChannel = errors.New("unknown channel")

type Channel uint8

const (
	ChannelColour Channel = iota + 1
	ChannelPalette
	ChannelEffect
	ChannelSpeed
	ChannelIntensity
	ChannelSleep
	ChannelPresets
	ChannelPresetDuration
	ChannelPresetTransitionTime
	ChannelPresetCycle
)

var channelNames = map[Channel]string{
	ChannelColour:               "colour",
	ChannelPalette:              "palette",
	ChannelEffect:               "effect",
	ChannelSpeed:                "speed",
	ChannelIntensity:            "intensity",
	ChannelSleep:                "sleep",
	ChannelPresets:              "presets",
	ChannelPresetDuration:       "preset-duration",
	ChannelPresetTransitionTime: "preset-transition-time",
	ChannelPresetCycle:          "preset-cycle",
}

// Channels returns every known channel in declaration order.
func Channels() []Channel {
	out := make([]Channel, 0, len(channelNames))
	for c := ChannelColour; c <= ChannelPresetCycle; c++ {
		out = append(out, c)
	}
	return out
}

func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return fmt.Sprintf("channel(%d)", uint8(c))
}

// ParseChannel maps a channel wire name, as used in command topics, to a Channel.
func ParseChannel(name string) (Channel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range channelNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}
