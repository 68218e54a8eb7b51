package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdqrcode"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	directives      *prom.CounterVec
	encodeDuration  prom.Histogram
	imageBytes      prom.Histogram
	documents       *prom.CounterVec
	convertDuration prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		directives: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "directives_total",
			Help:      "Directive resolutions by syntax and result",
		}, []string{"syntax", "result"}),
		encodeDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "encode_duration_seconds",
			Help:      "Time spent building and rendering one QR symbol",
			Buckets:   prom.ExponentialBuckets(0.0001, 4, 8),
		}),
		imageBytes: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "image_bytes",
			Help:      "Size of rendered PNG images before base64 encoding",
			Buckets:   prom.ExponentialBuckets(256, 2, 10),
		}),
		documents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Document conversions by result",
		}, []string{"result"}),
		convertDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "convert_duration_seconds",
			Help:      "Total document conversion duration",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.directives, pr.encodeDuration, pr.imageBytes, pr.documents, pr.convertDuration)
	return pr
}

func (p *PrometheusRecorder) IncDirective(syntax string, result ResultLabel) {
	if p == nil || p.directives == nil {
		return
	}
	p.directives.WithLabelValues(syntax, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveEncodeDuration(d time.Duration) {
	if p == nil || p.encodeDuration == nil {
		return
	}
	p.encodeDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveImageBytes(n int) {
	if p == nil || p.imageBytes == nil {
		return
	}
	p.imageBytes.Observe(float64(n))
}

func (p *PrometheusRecorder) IncDocument(result ResultLabel) {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveConvertDuration(d time.Duration) {
	if p == nil || p.convertDuration == nil {
		return
	}
	p.convertDuration.Observe(d.Seconds())
}
