package directive

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/foundation/normalization"
)

// Overrides are the per-occurrence values parsed from OPTS. Nil fields fall
// back to the configuration.
type Overrides struct {
	PixelSize  *int
	Foreground *string
	Background *string
	ECLevel    *string
	// Ignored lists tokens with unknown keys.
	Ignored []string
}

var (
	// ErrInvalidPixelSize reports a bare OPTS token that is not a positive integer.
	ErrInvalidPixelSize = errors.ValidationError("pixel size must be a positive integer").Build()
	// ErrEmptyOption reports an empty OPTS token, as in ":qr:3::[data]".
	ErrEmptyOption = errors.ValidationError("empty option").Build()
	// ErrEmptyData reports a directive with nothing to encode.
	ErrEmptyData = errors.ValidationError("directive has no data to encode").Build()
)

// ParseOpts parses the OPTS segment (without its trailing colon).
func ParseOpts(opts string) (Overrides, error) {
	var o Overrides
	if opts == "" {
		return o, nil
	}

	for _, tok := range strings.Split(opts, ":") {
		key, value, hasValue := strings.Cut(tok, "=")
		if !hasValue {
			if strings.TrimSpace(tok) == "" {
				return Overrides{}, ErrEmptyOption.WithContext("opts", opts)
			}
			n, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil || n <= 0 {
				return Overrides{}, ErrInvalidPixelSize.WithContext("token", tok)
			}
			o.PixelSize = &n
			continue
		}

		v := value
		switch normalization.Fold(key) {
		case "fg":
			o.Foreground = &v
		case "bg":
			o.Background = &v
		case "ec":
			o.ECLevel = &v
		default:
			o.Ignored = append(o.Ignored, tok)
		}
	}
	return o, nil
}

// String renders the overrides in OPTS form, for logs and diagnostics.
func (o Overrides) String() string {
	var parts []string
	if o.PixelSize != nil {
		parts = append(parts, strconv.Itoa(*o.PixelSize))
	}
	if o.Foreground != nil {
		parts = append(parts, "fg="+*o.Foreground)
	}
	if o.Background != nil {
		parts = append(parts, "bg="+*o.Background)
	}
	if o.ECLevel != nil {
		parts = append(parts, "ec="+*o.ECLevel)
	}
	return strings.Join(parts, ":")
}
