package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySyntax     = "syntax"
	KeyDataLen    = "data_len"
	KeyPixelSize  = "pixel_size"
	KeyECLevel    = "ec_level"
	KeyForeground = "fg"
	KeyBackground = "bg"
	KeyBytes      = "bytes"
	KeyOption     = "option"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyOutput     = "output"
	KeyDurationMS = "duration_ms"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Syntax(s string) slog.Attr       { return slog.String(KeySyntax, s) }
func DataLen(n int) slog.Attr         { return slog.Int(KeyDataLen, n) }
func PixelSize(n int) slog.Attr       { return slog.Int(KeyPixelSize, n) }
func ECLevel(l string) slog.Attr      { return slog.String(KeyECLevel, l) }
func Foreground(c string) slog.Attr   { return slog.String(KeyForeground, c) }
func Background(c string) slog.Attr   { return slog.String(KeyBackground, c) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func Option(name string) slog.Attr    { return slog.String(KeyOption, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
