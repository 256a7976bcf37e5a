// Package metrics 정렬 실행 통계를 prometheus 지표로 기록
package metrics

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rlaau/pqsort/bench"
	"github.com/rlaau/pqsort/qsort"
)

const namespace = "pqsort"

// Recorder 자체 레지스트리를 가진 지표 모음
type Recorder struct {
	registry *prometheus.Registry

	runs       prometheus.Counter
	elements   prometheus.Counter
	messages   prometheus.Counter
	partitions prometheus.Counter
	kernels    prometheus.Counter
	forwarded  *prometheus.CounterVec
	residual   prometheus.Counter
	peakLive   prometheus.Gauge
	duration   *prometheus.HistogramVec
}

// NewRecorder 지표 생성 및 등록
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_total",
			Help: "Completed queue-coordinated sort runs.",
		}),
		elements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "elements_sorted_total",
			Help: "Elements sorted by queue-coordinated runs.",
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "queue", Name: "messages_total",
			Help: "Messages put on the shared queue, forwards included.",
		}),
		partitions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "partitions_total",
			Help: "Ranges split by the partitioner.",
		}),
		kernels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "kernel_runs_total",
			Help: "Ranges finished by the insertion sort kernel.",
		}),
		forwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "queue", Name: "forwarded_total",
			Help: "Messages re-enqueued by a consumer that could not handle them.",
		}, []string{"kind"}),
		residual: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "queue", Name: "residual_total",
			Help: "Messages drained from the queue after shutdown.",
		}),
		peakLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "queue", Name: "peak_live_messages",
			Help: "Peak simultaneous queue occupancy of the last run.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "sort_duration_seconds",
			Help:    "Wall time per sort, by algorithm.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"algorithm"}),
	}

	r.registry.MustRegister(
		r.runs, r.elements, r.messages, r.partitions, r.kernels,
		r.forwarded, r.residual, r.peakLive, r.duration,
	)
	return r
}

// Registry 내부 레지스트리 (HTTP 노출이나 테스트용)
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun qsort.Run 결과 기록
func (r *Recorder) ObserveRun(s qsort.Stats) {
	r.runs.Inc()
	r.elements.Add(float64(s.N))
	r.messages.Add(float64(s.Messages))
	r.partitions.Add(float64(s.Partitions))
	r.kernels.Add(float64(s.Kernels))
	r.forwarded.WithLabelValues(qsort.KindDone.String()).Add(float64(s.ForwardedDone))
	r.forwarded.WithLabelValues(qsort.KindWork.String()).Add(float64(s.ForwardedWork))
	r.residual.Add(float64(s.Residual))
	r.peakLive.Set(float64(s.PeakLive))
	r.duration.WithLabelValues(bench.AlgoQueueQuicksort).Observe(s.Elapsed.Seconds())
}

// ObserveResults 벤치마크 결과의 실행 시간 기록
func (r *Recorder) ObserveResults(results []bench.Result) {
	for _, res := range results {
		r.duration.WithLabelValues(res.Algorithm).Observe(res.Duration.Seconds())
	}
}

// WriteTextfile node_exporter textfile 형식으로 저장
func (r *Recorder) WriteTextfile(filename string) error {
	if err := prometheus.WriteToTextfile(filename, r.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", filename)
	}
	return nil
}
