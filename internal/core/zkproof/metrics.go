package zkproof

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 证明编排指标
//
// 所有方法允许 nil 接收者，未启用指标时直接跳过。
type Metrics struct {
	proofsTotal    *prometheus.CounterVec
	verifyTotal    *prometheus.CounterVec
	setupDuration  *prometheus.HistogramVec
	proveDuration  *prometheus.HistogramVec
	verifyDuration *prometheus.HistogramVec
	provesInFlight prometheus.Gauge
}

// NewMetrics 创建指标并注册到 registerer
func NewMetrics(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	buckets := prometheus.ExponentialBuckets(0.005, 2, 14)

	m := &Metrics{
		proofsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "zkproof",
				Name:      "proofs_total",
				Help:      "生成的证明总数",
			},
			[]string{"kind", "scheme", "result"}, // result: ok, unsatisfied, error
		),
		verifyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "zkproof",
				Name:      "verifications_total",
				Help:      "验证的证明总数",
			},
			[]string{"kind", "scheme", "result"}, // result: valid, invalid, error
		),
		setupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "zkproof",
				Name:      "setup_duration_seconds",
				Help:      "可信设置耗时（秒）",
				Buckets:   buckets,
			},
			[]string{"kind", "scheme", "result"},
		),
		proveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "zkproof",
				Name:      "prove_duration_seconds",
				Help:      "证明生成耗时（秒）",
				Buckets:   buckets,
			},
			[]string{"kind", "scheme"},
		),
		verifyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "zkproof",
				Name:      "verify_duration_seconds",
				Help:      "证明验证耗时（秒）",
				Buckets:   buckets,
			},
			[]string{"kind", "scheme"},
		),
		provesInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "zkproof",
				Name:      "proves_in_flight",
				Help:      "正在进行的证明生成数量",
			},
		),
	}

	if registerer != nil {
		for _, c := range []prometheus.Collector{
			m.proofsTotal, m.verifyTotal, m.setupDuration,
			m.proveDuration, m.verifyDuration, m.provesInFlight,
		} {
			if err := registerer.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observeSetup(manifest Manifest, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.setupDuration.WithLabelValues(manifest.Kind, manifest.Scheme, result).Observe(d.Seconds())
}

func (m *Metrics) proveStarted() {
	if m == nil {
		return
	}
	m.provesInFlight.Inc()
}

func (m *Metrics) proveFinished(manifest Manifest, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.provesInFlight.Dec()
	m.proofsTotal.WithLabelValues(manifest.Kind, manifest.Scheme, result).Inc()
	m.proveDuration.WithLabelValues(manifest.Kind, manifest.Scheme).Observe(d.Seconds())
}

func (m *Metrics) observeVerify(kind, scheme, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.verifyTotal.WithLabelValues(kind, scheme, result).Inc()
	m.verifyDuration.WithLabelValues(kind, scheme).Observe(d.Seconds())
}
