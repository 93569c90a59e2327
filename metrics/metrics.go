// Package metrics exposes the relay's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "socket_friend",
		Name:      "connected_clients",
		Help:      "Number of open websocket connections.",
	})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socket_friend",
		Name:      "events_total",
		Help:      "Inbound events processed, by event type.",
	}, []string{"type"})

	DroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socket_friend",
		Name:      "dropped_events_total",
		Help:      "Inbound events dropped before delivery, by reason.",
	}, []string{"reason"})
)

// Drop reasons.
const (
	DropMalformed = "malformed"
	DropUnknown   = "unknown_type"
	DropInvalid   = "invalid_payload"
	DropNotJoined = "not_joined"
	DropDuplicate = "duplicate_join"
)
