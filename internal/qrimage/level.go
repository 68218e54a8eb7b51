package qrimage

import "github.com/skip2/go-qrcode"

// Level is a QR error-correction level.
type Level string

const (
	LevelL Level = "L" // ~7% recovery
	LevelM Level = "M" // ~15% recovery
	LevelQ Level = "Q" // ~25% recovery
	LevelH Level = "H" // ~30% recovery
)

// ParseLevel maps raw to a Level. The match is exact: anything other than
// "L", "M", "Q" or "H" (including "q" or " H ") becomes L.
func ParseLevel(raw string) Level {
	switch l := Level(raw); l {
	case LevelM, LevelQ, LevelH:
		return l
	default:
		return LevelL
	}
}

func (l Level) recovery() qrcode.RecoveryLevel {
	switch l {
	case LevelM:
		return qrcode.Medium
	case LevelQ:
		return qrcode.High
	case LevelH:
		return qrcode.Highest
	default:
		return qrcode.Low
	}
}
