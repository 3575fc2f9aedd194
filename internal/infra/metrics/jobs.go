package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		transcriptionJobsTotal,
		transcriptionPollsTotal,
		transcriptionWaitSeconds,
	)
}

var (
	transcriptionJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcription_jobs_total",
			Help: "Transcription jobs by terminal outcome (completed/failed/timeout/cancelled).",
		},
		[]string{"outcome"},
	)

	transcriptionPollsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transcription_polls_total",
			Help: "Status polls issued against the transcription provider.",
		},
	)

	transcriptionWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transcription_wait_seconds",
			Help:    "Wall time from submit to terminal state.",
			Buckets: []float64{1, 2, 5, 10, 20, 40, 80, 160, 320},
		},
	)
)

func IncTranscriptionJob(outcome string) {
	transcriptionJobsTotal.WithLabelValues(outcome).Inc()
}

func IncTranscriptionPoll() {
	transcriptionPollsTotal.Inc()
}

func ObserveTranscriptionWait(seconds float64) {
	transcriptionWaitSeconds.Observe(seconds)
}
