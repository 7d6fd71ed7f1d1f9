package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of records consumed from Kafka (counted towards max.messages)",
		},
		[]string{"topic"},
	)
	KafkaMessagesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_decoded_total",
			Help: "Number of records whose value was decoded with structured fields",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of records that failed decoding or sink handling",
		},
		[]string{"topic"},
	)
)

var (
	KafkaCommits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_commits_total",
			Help: "Explicit offset commits",
		},
		[]string{"topic", "result"}, // committed|failed
	)
	KafkaPollEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_poll_events_total",
			Help: "Non-record poll outcomes",
		},
		[]string{"topic", "kind"}, // eof|transient|fatal
	)
)

var (
	RecentCacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recent_cache_ops_total",
			Help: "Recent-messages cache operations",
		},
		[]string{"op"}, // hit|miss|expired|evicted
	)
	RecentCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "recent_cache_size",
			Help: "Number of keys in the recent-messages cache",
		},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в default-регистраторе (повторный вызов безопасен).
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesDecoded, KafkaMessagesFailed,
			KafkaCommits, KafkaPollEvents,
			RecentCacheOps, RecentCacheSize,
		)
	})
}
