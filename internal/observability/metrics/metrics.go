package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "naturesvirtue"

// Metric names read back by Snapshot.
const (
	inboundName    = namespace + "_bot_inbound_events_total"
	languageName   = namespace + "_bot_detected_language_total"
	completionName = namespace + "_bot_completion_latency_seconds"
)

// BotMetrics exposes counters/histograms for the relay flow. A nil
// *BotMetrics is valid and records nothing.
type BotMetrics struct {
	inboundTotal        *prometheus.CounterVec
	outboundChunks      *prometheus.CounterVec
	completionLatency   *prometheus.HistogramVec
	languageTotal       *prometheus.CounterVec
	activeConversations prometheus.Gauge
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "inbound_events_total",
			Help:      "Inbound WhatsApp webhook events by processing outcome",
		}, []string{"outcome"}),
		outboundChunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "outbound_chunks_total",
			Help:      "Outbound WhatsApp message chunks by status",
		}, []string{"status"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "completion_latency_seconds",
			Help:      "Latency of reply generation calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 3, 5, 8, 13, 20, 30},
		}, []string{"provider", "status"}),
		languageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "detected_language_total",
			Help:      "Detected language of inbound text messages",
		}, []string{"language"}),
		activeConversations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "active_conversations",
			Help:      "Senders with in-memory conversation state",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.outboundChunks, m.completionLatency, m.languageTotal, m.activeConversations)
	return m
}

func (m *BotMetrics) ObserveInbound(outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(outcome).Inc()
}

func (m *BotMetrics) ObserveChunk(status string) {
	if m == nil {
		return
	}
	m.outboundChunks.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveCompletion(provider, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.completionLatency.WithLabelValues(provider, status).Observe(d.Seconds())
}

func (m *BotMetrics) ObserveLanguage(lang string) {
	if m == nil {
		return
	}
	m.languageTotal.WithLabelValues(lang).Inc()
}

func (m *BotMetrics) SetActiveConversations(n int) {
	if m == nil {
		return
	}
	m.activeConversations.Set(float64(n))
}
