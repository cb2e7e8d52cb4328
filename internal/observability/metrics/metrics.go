package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead intake pipeline.
type LeadMetrics struct {
	receivedTotal     prometheus.Counter
	channelDelivery   *prometheus.CounterVec
	processingSeconds prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		receivedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brokerage",
			Subsystem: "leads",
			Name:      "received_total",
			Help:      "Total leads accepted by the intake pipeline",
		}),
		channelDelivery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brokerage",
			Subsystem: "leads",
			Name:      "channel_delivery_total",
			Help:      "Per-channel delivery outcomes",
		}, []string{"channel", "status"}),
		processingSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "brokerage",
			Subsystem: "leads",
			Name:      "processing_seconds",
			Help:      "Wall time of one lead fan-out",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.receivedTotal, m.channelDelivery, m.processingSeconds)
	return m
}

func (m *LeadMetrics) ObserveReceived() {
	if m == nil {
		return
	}
	m.receivedTotal.Inc()
}

func (m *LeadMetrics) ObserveDelivery(channel string, success bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !success {
		status = "failed"
	}
	m.channelDelivery.WithLabelValues(channel, status).Inc()
}

func (m *LeadMetrics) ObserveProcessing(seconds float64) {
	if m == nil {
		return
	}
	m.processingSeconds.Observe(seconds)
}
