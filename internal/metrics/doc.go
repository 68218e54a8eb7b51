// Package metrics provides observability hooks for directive resolution and
// document conversion.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs a nil check:
//
//	r := resolver.New(cfg) // records nothing
//	r = resolver.New(cfg, resolver.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// Serve exposes a registry on /metrics; the watch command starts it when a
// metrics listen address is configured.
package metrics
