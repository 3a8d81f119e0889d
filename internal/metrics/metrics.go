// Package metrics holds the Prometheus collectors of the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vie_commands_total",
			Help: "Commands handled, by command and outcome (ok, failure kind or fault)",
		},
		[]string{"command", "outcome"},
	)
	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vie_command_duration_seconds",
			Help:    "Command handling latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	Games = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vie_games_total",
			Help: "Settled casino games, by game and result",
		},
		[]string{"game", "result"},
	)
	Wagered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vie_wagered_total",
			Help: "V wagered in casino games",
		},
		[]string{"game"},
	)
	StoreFlushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vie_store_flushes_total",
			Help: "Store flushes, by result",
		},
		[]string{"result"},
	)
	Players = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vie_players",
		Help: "Known player records",
	})
	PendingWrites = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vie_store_pending_writes",
		Help: "Player records waiting for a flush",
	})
	OpenBlackjack = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vie_blackjack_open_sessions",
		Help: "Unsettled blackjack hands",
	})
	FeedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vie_feed_clients",
		Help: "Connected activity feed clients",
	})
	Backups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vie_backups_total",
			Help: "Snapshot uploads, by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(Commands)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(Games)
	prometheus.MustRegister(Wagered)
	prometheus.MustRegister(StoreFlushes)
	prometheus.MustRegister(Players)
	prometheus.MustRegister(PendingWrites)
	prometheus.MustRegister(OpenBlackjack)
	prometheus.MustRegister(FeedClients)
	prometheus.MustRegister(Backups)
}
