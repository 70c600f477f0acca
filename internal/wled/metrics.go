package wled

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTranslated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wled_commands_translated_total",
		Help: "The total number of channel commands translated into WLED messages",
	}, []string{"channel"})

	commandErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wled_command_errors_total",
		Help: "The total number of channel commands that could not be translated",
	}, []string{"channel"})

	refreshRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wled_refresh_requests_total",
		Help: "The total number of refresh commands received",
	})
)
