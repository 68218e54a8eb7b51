package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
)

// ClassifiedError is an error with a category and structured fields.
type ClassifiedError struct {
	category ErrorCategory
	message  string
	cause    error
	fields   Fields
}

func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.category, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.category, e.message)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory { return e.category }
func (e *ClassifiedError) Message() string         { return e.message }
func (e *ClassifiedError) Cause() error            { return e.cause }

// Field returns one context value.
func (e *ClassifiedError) Field(key string) (any, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// WithContext returns a copy of e carrying one more field. The copy still
// matches e under errors.Is, so package sentinels can be returned with detail.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.fields = e.fields.with(key, value)
	return &cp
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// LogAttrs returns the category followed by the fields, ready for slog.
func (e *ClassifiedError) LogAttrs() []slog.Attr {
	return append([]slog.Attr{slog.String("category", string(e.category))}, e.fields.Attrs()...)
}

// AsClassified finds the first ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory reports whether err's chain carries a classified error of category.
func HasCategory(err error, category ErrorCategory) bool {
	classified, ok := AsClassified(err)
	return ok && classified.category == category
}
