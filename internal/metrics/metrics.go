package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "certchat"

// Verification kinds.
const (
	KindCertificate = "certificate"
	KindMessage     = "message"
	KindDocument    = "document"
	KindHMAC        = "hmac"
)

// Recorder owns the collectors and the registry they live on.
type Recorder struct {
	registry *prometheus.Registry

	authorities   prometheus.Counter
	issued        prometheus.Counter
	signatures    *prometheus.CounterVec
	verifications *prometheus.CounterVec
	opSeconds     *prometheus.HistogramVec
}

// New builds a Recorder on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		authorities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pki",
			Name:      "authorities_created_total",
			Help:      "Session certificate authorities created.",
		}),
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pki",
			Name:      "certificates_issued_total",
			Help:      "Leaf certificates issued.",
		}),
		signatures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signatures_total",
			Help:      "Signatures produced, by algorithm.",
		}, []string{"algorithm"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Verifications performed, by kind and result.",
		}, []string{"kind", "result"}),
		opSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of signing-layer operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
	}
	r.registry.MustRegister(r.authorities, r.issued, r.signatures, r.verifications, r.opSeconds)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// AuthorityCreated counts a new session CA.
func (r *Recorder) AuthorityCreated() {
	if r == nil {
		return
	}
	r.authorities.Inc()
}

// CertificateIssued counts an issued leaf certificate.
func (r *Recorder) CertificateIssued() {
	if r == nil {
		return
	}
	r.issued.Inc()
}

// Signed counts a signature made with algorithm.
func (r *Recorder) Signed(algorithm string) {
	if r == nil {
		return
	}
	r.signatures.WithLabelValues(algorithm).Inc()
}

// Verified counts a verification of kind with its outcome.
func (r *Recorder) Verified(kind string, ok bool) {
	if r == nil {
		return
	}
	result := "rejected"
	if ok {
		result = "accepted"
	}
	r.verifications.WithLabelValues(kind, result).Inc()
}

// ObserveOp records the time since started for operation.
func (r *Recorder) ObserveOp(operation string, started time.Time) {
	if r == nil {
		return
	}
	r.opSeconds.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// Snapshot returns every counter series keyed as name{label="value",...}.
func (r *Recorder) Snapshot() (map[string]float64, error) {
	if r == nil {
		return nil, nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			out[seriesName(mf.GetName(), m.GetLabel())] += m.GetCounter().GetValue()
		}
	}
	return out, nil
}

func seriesName(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	pairs := make([]string, 0, len(labels))
	for _, l := range labels {
		pairs = append(pairs, l.GetName()+"=\""+l.GetValue()+"\"")
	}
	sort.Strings(pairs)
	return name + "{" + strings.Join(pairs, ",") + "}"
}
