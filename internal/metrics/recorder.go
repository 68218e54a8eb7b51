package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	// ResultLiteral marks a failed directive kept as literal text.
	ResultLiteral ResultLabel = "literal"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for directives and documents.
type Recorder interface {
	IncDirective(syntax string, result ResultLabel)
	ObserveEncodeDuration(d time.Duration)
	ObserveImageBytes(n int)
	IncDocument(result ResultLabel)
	ObserveConvertDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDirective(string, ResultLabel)     {}
func (NoopRecorder) ObserveEncodeDuration(time.Duration)  {}
func (NoopRecorder) ObserveImageBytes(int)                {}
func (NoopRecorder) IncDocument(ResultLabel)              {}
func (NoopRecorder) ObserveConvertDuration(time.Duration) {}
