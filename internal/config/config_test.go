package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MQTT_URI", "MQTT_TOPIC_PREFIX", "WLED_DEVICES", "WLED_UNBRIDGED", "PORT",
		"LOG_LEVEL", "MQTT_QOS", "MQTT_RETAIN", "MQTT_QUEUE_SIZE", "REFRESH_INTERVAL",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MQTT_URI", "tcp://broker:1883")

	c, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "broker:1883", c.MQTTURI.Host)
	assert.Equal(t, "wled-mqtt", c.TopicPrefix)
	assert.Empty(t, c.Devices)
	assert.Equal(t, 0, c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, byte(1), c.QoS)
	assert.False(t, c.Retain)
	assert.Equal(t, 256, c.QueueSize)
	assert.Equal(t, time.Second, c.RefreshInterval)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MQTT_URI", "tcp://u:p@broker:1883")
	t.Setenv("MQTT_TOPIC_PREFIX", "home/wled/")
	t.Setenv("WLED_DEVICES", "kitchen, desk,,porch ")
	t.Setenv("WLED_UNBRIDGED", "attic")
	t.Setenv("PORT", "9100")
	t.Setenv("MQTT_QOS", "2")
	t.Setenv("MQTT_RETAIN", "true")
	t.Setenv("MQTT_QUEUE_SIZE", "16")
	t.Setenv("REFRESH_INTERVAL", "250ms")

	c, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "home/wled", c.TopicPrefix)
	assert.Equal(t, []string{"kitchen", "desk", "porch"}, c.Devices)
	assert.Equal(t, []string{"attic"}, c.Unbridged)
	assert.Equal(t, 9100, c.Port)
	assert.Equal(t, byte(2), c.QoS)
	assert.True(t, c.Retain)
	assert.Equal(t, 16, c.QueueSize)
	assert.Equal(t, 250*time.Millisecond, c.RefreshInterval)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing uri":      {},
		"bad uri":          {"MQTT_URI": "not a url"},
		"bad port":         {"MQTT_URI": "tcp://b:1883", "PORT": "http"},
		"bad qos":          {"MQTT_URI": "tcp://b:1883", "MQTT_QOS": "3"},
		"bad retain":       {"MQTT_URI": "tcp://b:1883", "MQTT_RETAIN": "maybe"},
		"zero queue":       {"MQTT_URI": "tcp://b:1883", "MQTT_QUEUE_SIZE": "0"},
		"bad refresh":      {"MQTT_URI": "tcp://b:1883", "REFRESH_INTERVAL": "soon"},
		"negative refresh": {"MQTT_URI": "tcp://b:1883", "REFRESH_INTERVAL": "-1s"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("MQTT_URI")
	os.Unsetenv("WLED_DEVICES")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MQTT_URI=tcp://from-file:1883\nWLED_DEVICES=strip\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file:1883", c.MQTTURI.Host)
	assert.Equal(t, []string{"strip"}, c.Devices)
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MQTT_URI", "tcp://broker:1883")

	c, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "broker:1883", c.MQTTURI.Host)
}
