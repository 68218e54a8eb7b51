// Package directive recognizes inline QR directives and resolves their parameters.
//
// Two grammars exist:
//
//	[-[DATA]-]                 short syntax, no options
//	:qr:OPTS:[DATA]            domain syntax (also :QR:)
//
// OPTS is a colon-separated list of tokens. A bare positive integer sets the
// pixel size; fg=, bg= and ec= (keys case-insensitive) set the colors and the
// error-correction level. Unknown keys are ignored. For every field the last
// token wins.
//
// Matching is anchored at the start of the given line; the caller positions
// the line at the directive's trigger byte.
package directive
