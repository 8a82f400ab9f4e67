// Package metrics holds the Prometheus collectors shared by the storefront components.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

var (
	// Registry is the registry served on /metrics.
	Registry = prometheus.NewRegistry()

	// StoreWrites counts collection saves by outcome (ok, error, conflict).
	StoreWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "writes_total",
		Help:      "Collection saves by collection and outcome.",
	}, []string{"collection", "result"})

	// StoreCacheHits counts loads served from the in-memory snapshot.
	StoreCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "cache_hits_total",
		Help:      "Collection loads answered without reading the file.",
	}, []string{"collection"})

	// RateLimitRejections counts rejected actions.
	RateLimitRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ratelimit",
		Name:      "rejections_total",
		Help:      "Actions rejected by the sliding window limiter.",
	}, []string{"action"})

	// TicketTransitions counts ticket lifecycle transitions.
	TicketTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tickets",
		Name:      "transitions_total",
		Help:      "Ticket lifecycle transitions by kind and ticket type.",
	}, []string{"transition", "ticket_type"})

	// VouchesRecorded counts recorded vouches.
	VouchesRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "vouches",
		Name:      "recorded_total",
		Help:      "Vouches recorded.",
	})

	// GatewayConnected is 1 while the gateway session is up.
	GatewayConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "connected",
		Help:      "Whether the Discord gateway session is connected.",
	})

	// Guilds is the number of guilds the bot is in.
	Guilds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "guilds",
		Help:      "Guilds the bot is a member of.",
	})

	// ConfigMigrations counts legacy MFA price migrations by outcome.
	ConfigMigrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "config",
		Name:      "mfa_migrations_total",
		Help:      "Legacy MFA price table migrations by outcome.",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		StoreWrites,
		StoreCacheHits,
		RateLimitRejections,
		TicketTransitions,
		VouchesRecorded,
		ConfigMigrations,
		GatewayConnected,
		Guilds,
	)
}

// promLogger routes promhttp errors into the bot logger.
type promLogger struct{}

// Println implements promhttp.Logger.
func (promLogger) Println(v ...interface{}) {
	logger.Error(fmt.Sprint(v...), "Metrics")
}

// Handler returns the HTTP handler exposing Registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		ErrorLog:      promLogger{},
		ErrorHandling: promhttp.ContinueOnError,
	})
}
