package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	MQTTURI         *url.URL
	TopicPrefix     string
	Devices         []string
	Unbridged       []string
	Port            int
	LogLevel        string
	QoS             byte
	Retain          bool
	QueueSize       int
	RefreshInterval time.Duration
}

// Load reads envFile into the environment, without overriding variables
// that are already set, and builds the Config from the environment. A
// missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	c := &Config{
		TopicPrefix:     getenv("MQTT_TOPIC_PREFIX", "wled-mqtt"),
		Devices:         splitList(os.Getenv("WLED_DEVICES")),
		Unbridged:       splitList(os.Getenv("WLED_UNBRIDGED")),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		QoS:             1,
		QueueSize:       256,
		RefreshInterval: time.Second,
	}

	raw := os.Getenv("MQTT_URI")
	if raw == "" {
		return nil, fmt.Errorf("%w: MQTT_URI is required", ErrInvalid)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: MQTT_URI %q is not a broker URL", ErrInvalid, raw)
	}
	c.MQTTURI = u
	c.TopicPrefix = strings.TrimSuffix(c.TopicPrefix, "/")

	if c.Port, err = getInt("PORT", 0); err != nil {
		return nil, err
	}
	qos, err := getInt("MQTT_QOS", int(c.QoS))
	if err != nil {
		return nil, err
	}
	if qos < 0 || qos > 2 {
		return nil, fmt.Errorf("%w: MQTT_QOS must be 0, 1 or 2", ErrInvalid)
	}
	c.QoS = byte(qos)
	if c.QueueSize, err = getInt("MQTT_QUEUE_SIZE", c.QueueSize); err != nil {
		return nil, err
	}
	if c.QueueSize <= 0 {
		return nil, fmt.Errorf("%w: MQTT_QUEUE_SIZE must be positive", ErrInvalid)
	}
	if v := os.Getenv("MQTT_RETAIN"); v != "" {
		if c.Retain, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%w: MQTT_RETAIN: %v", ErrInvalid, err)
		}
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		if c.RefreshInterval, err = time.ParseDuration(v); err != nil || c.RefreshInterval <= 0 {
			return nil, fmt.Errorf("%w: REFRESH_INTERVAL %q", ErrInvalid, v)
		}
	}

	return c, nil
}

func getenv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
