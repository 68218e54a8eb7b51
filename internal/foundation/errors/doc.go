// Package errors classifies mdqrcode failures.
//
// Every failure surfaced to a user is a *ClassifiedError with an
// ErrorCategory and structured fields. The category picks the CLI exit code:
// a malformed directive exits 2, bad configuration 7, and an encoding or
// rendering failure 11.
//
//	err := errors.ValidationError("pixel size must be a positive integer").
//		WithContext("token", tok).
//		Build()
//
// Package-level sentinels built this way can be returned with extra detail
// through (*ClassifiedError).WithContext and still match under errors.Is.
package errors
