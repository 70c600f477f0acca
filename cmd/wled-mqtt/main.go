package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/denwilliams/go-wled-mqtt/internal/config"
	"github.com/denwilliams/go-wled-mqtt/internal/logging"
	"github.com/denwilliams/go-wled-mqtt/internal/mqtt"
	"github.com/denwilliams/go-wled-mqtt/internal/web"
	"github.com/denwilliams/go-wled-mqtt/internal/wled"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "wled-mqtt",
		Short:        "Bridge smart-home channel commands to WLED over MQTT",
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides LOG_LEVEL")

	rootCmd.AddCommand(&cobra.Command{
		Use:          "send <device> <channel> <value>",
		Short:        "Translate and publish a single channel command",
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE:         runSend,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	logging.Init(nil, logLevel)
	logging.Info("Loading %s", envFile)
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if logLevel == "" {
		logging.Init(nil, cfg.LogLevel)
	}
	return cfg, nil
}

func clientOptions(cfg *config.Config) mqtt.Options {
	return mqtt.Options{
		URI:             cfg.MQTTURI,
		Prefix:          cfg.TopicPrefix,
		QoS:             cfg.QoS,
		Retain:          cfg.Retain,
		QueueSize:       cfg.QueueSize,
		RefreshInterval: cfg.RefreshInterval,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	refresh := &mqtt.Refresh{}
	registry := wled.NewRegistry()

	opts := clientOptions(cfg)
	opts.OnConnectionChange = func(connected bool) {
		registry.InitializeAll()
	}
	mc := mqtt.NewMQTTClient(opts, refresh)
	emitter := mqtt.NewMqttStatusEmitter(mc)

	bridge := wled.BridgeFunc(func() wled.Sender {
		if mc.Connected() {
			return mc
		}
		return nil
	})
	addDevices(registry, cfg, bridge, emitter, refresh)

	if err := mc.Connect(registry); err != nil {
		return err
	}
	defer mc.Disconnect()

	if cfg.Port > 0 {
		go startServer(cfg.Port, mc.Connected)
	}

	logging.Info("Ready")

	waitForExit()

	logging.Info("Terminating")
	return nil
}

// addDevices registers a handler per configured device. Devices without a
// bridge are initialized at once; bridged ones are first initialized by the
// connection callback.
func addDevices(registry *wled.Registry, cfg *config.Config, bridge wled.Bridge, emitter wled.StatusEmitter, refresh wled.RefreshRequester) {
	for _, id := range cfg.Devices {
		registry.Set(id, wled.NewHandler(wled.Thing{ID: id, Bridge: bridge}, emitter, refresh))
	}
	for _, id := range cfg.Unbridged {
		h := wled.NewHandler(wled.Thing{ID: id}, emitter, refresh)
		registry.Set(id, h)
		h.Initialize()
	}
	logging.Info("Configured %d WLED devices", len(registry.IDs()))
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ch, err := wled.ParseChannel(args[1])
	if err != nil {
		return err
	}
	command, err := wled.ParseCommand(args[2])
	if err != nil {
		return err
	}

	mc := mqtt.NewMQTTClient(clientOptions(cfg), &mqtt.Refresh{})
	if err := mc.Connect(nil); err != nil {
		return err
	}
	defer mc.Disconnect()

	h := wled.NewHandler(wled.Thing{
		ID:     args[0],
		Bridge: wled.BridgeFunc(func() wled.Sender { return mc }),
	}, nil, nil)
	h.Initialize()

	return h.HandleCommand(ch, command)
}

func waitForExit() {
	// Set up a channel to receive OS signals so we can gracefully exit
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	<-signalChan
	logging.Info("Exit signal received")
}

func startServer(port int, ready func() bool) {
	logging.Info("Creating HTTP server")
	server := http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: web.CreateHandler(ready),
	}
	logging.Info("Starting HTTP server on port %d", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error("Error running HTTP server: %s", err)
	}
}
