package wled

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/icza/gox/imagex/colorx"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidCommand = errors.New("invalid command")

// Command is a value sent to a channel. The concrete type is decided once,
// by ParseCommand, when the payload enters the process.
type Command interface {
	fmt.Stringer
	command()
}

// Refresh asks for all previously sent state to be sent again.
type Refresh struct{}

type OnOff bool

// Percent is an integer in 0..100.
type Percent int

// HSB is a colour with hue in degrees and saturation/brightness in percent.
type HSB struct {
	Hue        float64
	Saturation float64
	Brightness float64

	// set when parsed from a web colour; the exact RGB and text are kept
	raw string
	rgb uint32
}

// Text carries any payload that is not one of the typed forms, such as an
// effect id above 100.
type Text string

func (Refresh) command() {}
func (OnOff) command()   {}
func (Percent) command() {}
func (HSB) command()     {}
func (Text) command()    {}

func (Refresh) String() string { return "REFRESH" }

func (o OnOff) String() string {
	if o {
		return "ON"
	}
	return "OFF"
}

func (p Percent) String() string { return strconv.Itoa(int(p)) }

func (c HSB) String() string {
	if c.raw != "" {
		return c.raw
	}
	return strconv.FormatFloat(c.Hue, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Saturation, 'f', -1, 64) + "," +
		strconv.FormatFloat(c.Brightness, 'f', -1, 64)
}

func (t Text) String() string { return string(t) }

// RGB packs the colour into a 24-bit 0xRRGGBB value. Each channel is
// converted from percent to 0..255 by truncation.
func (c HSB) RGB() uint32 {
	if c.raw != "" {
		return c.rgb
	}
	rgb := colorful.Hsv(math.Mod(c.Hue, 360), c.Saturation/100, c.Brightness/100).Clamped()
	return uint32(toByte(rgb.R))<<16 | uint32(toByte(rgb.G))<<8 | uint32(toByte(rgb.B))
}

// toByte scales a 0..1 channel to 0..255, rounding to two decimals before
// truncating so float noise does not drop a whole step.
func toByte(v float64) uint8 {
	return uint8(math.Round(v*255*100) / 100)
}

// Hex renders the colour as a lowercase web colour, e.g. "#ff0000".
func (c HSB) Hex() string {
	return fmt.Sprintf("#%06x", c.RGB())
}

// ParseCommand decides the command type of a raw payload.
//
// Accepted forms: REFRESH, ON/OFF (upper case only), an integer 0..100,
// "h,s,b" and web hex colours (#rrggbb or #rgb). Anything else becomes Text.
func ParseCommand(payload string) (Command, error) {
	s := strings.TrimSpace(payload)
	switch s {
	case "REFRESH":
		return Refresh{}, nil
	case "ON":
		return OnOff(true), nil
	case "OFF":
		return OnOff(false), nil
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	if strings.Count(s, ",") == 2 {
		return parseHSB(s)
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 && v <= 100 {
		return Percent(v), nil
	}
	return Text(s), nil
}

func parseHex(s string) (Command, error) {
	rgba, err := colorx.ParseHexColor(s)
	if err != nil {
		return nil, fmt.Errorf("%w: colour %q: %v", ErrInvalidCommand, s, err)
	}
	c, ok := colorful.MakeColor(rgba)
	if !ok {
		return nil, fmt.Errorf("%w: colour %q", ErrInvalidCommand, s)
	}
	h, sat, v := c.Hsv()
	return HSB{
		Hue:        h,
		Saturation: sat * 100,
		Brightness: v * 100,
		raw:        s,
		rgb:        uint32(rgba.R)<<16 | uint32(rgba.G)<<8 | uint32(rgba.B),
	}, nil
}

func parseHSB(s string) (Command, error) {
	parts := strings.Split(s, ",")
	var vals [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: hsb %q: %v", ErrInvalidCommand, s, err)
		}
		vals[i] = f
	}
	if vals[0] < 0 || vals[0] > 360 || vals[1] < 0 || vals[1] > 100 || vals[2] < 0 || vals[2] > 100 {
		return nil, fmt.Errorf("%w: hsb %q out of range", ErrInvalidCommand, s)
	}
	return HSB{Hue: vals[0], Saturation: vals[1], Brightness: vals[2]}, nil
}
