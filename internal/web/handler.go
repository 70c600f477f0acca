package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CreateHandler serves Prometheus metrics on /metrics and a health check on
// /healthz that fails while ready returns false.
func CreateHandler(ready func() bool) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil && !ready() {
			http.Error(w, "mqtt disconnected", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}
