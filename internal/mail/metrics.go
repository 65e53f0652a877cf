package mail

import "github.com/prometheus/client_golang/prometheus"

var (
	sendsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadgate",
		Subsystem: "mail",
		Name:      "sends_total",
		Help:      "Total mail send attempts by result (delivered, skipped, failed).",
	}, []string{"result"})

	sendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "leadgate",
		Subsystem: "mail",
		Name:      "send_duration_seconds",
		Help:      "Duration of SMTP send attempts in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)

func init() {
	prometheus.MustRegister(sendsTotal, sendDuration)
}
