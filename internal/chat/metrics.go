package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_connected_sessions",
		Help: "Number of currently registered sessions",
	})

	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total lines broadcast by kind",
	}, []string{"kind"})

	BroadcastSendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_broadcast_send_failures_total",
		Help: "Per-recipient writes dropped during broadcast",
	})

	CommandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_commands_total",
		Help: "Commands executed by name and origin",
	}, []string{"command", "origin"})

	CommandDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chat_command_duration_seconds",
		Help:    "Time to execute each command",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(ConnectedSessions)
	prometheus.MustRegister(MessagesTotal)
	prometheus.MustRegister(BroadcastSendFailures)
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CommandDuration)
}
