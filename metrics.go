package embedded

import "github.com/prometheus/client_golang/prometheus"

const (
	MetricInstanceStarts    = "instance_starts_total"
	MetricOpenConnections   = "open_connections"
	MetricStatements        = "statements_total"
	MetricStatementDuration = "statement_duration_seconds"
)

var CounterInstanceStarts = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "embedded",
		Name:      MetricInstanceStarts,
		Help:      "Number of times the database instance was started.",
	},
)

var GaugeOpenConnections = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "embedded",
		Name:      MetricOpenConnections,
		Help:      "Number of open connections.",
	},
)

var CounterStatements = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "embedded",
		Name:      MetricStatements,
		Help:      "Statements executed, by result kind.",
	},
	[]string{
		"kind",
	},
)

var HistogramStatementDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "embedded",
		Name:      MetricStatementDuration,
		Help:      "Time spent in the engine per executed statement.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
	},
)

func init() {
	prometheus.MustRegister(CounterInstanceStarts)
	prometheus.MustRegister(GaugeOpenConnections)
	prometheus.MustRegister(CounterStatements)
	prometheus.MustRegister(HistogramStatementDuration)
}
