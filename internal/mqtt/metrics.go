package mqtt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wled_mqtt_messages_published_total",
		Help: "The total number of messages published to the broker",
	})
	messagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wled_mqtt_messages_dropped_total",
		Help: "The total number of messages dropped before publishing",
	})
	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wled_mqtt_publish_errors_total",
		Help: "The total number of failed publishes",
	})
	refreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wled_mqtt_refreshes_total",
		Help: "The total number of times retained state was resent",
	})
	commandsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wled_mqtt_commands_received_total",
		Help: "The total number of commands received on command topics",
	})
	commandErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wled_mqtt_command_errors_total",
		Help: "The total number of received commands that failed",
	})
	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wled_mqtt_queue_depth",
		Help: "Messages waiting in the send queue",
	})
	connectionState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wled_mqtt_connected",
		Help: "1 while connected to the broker",
	})
)
