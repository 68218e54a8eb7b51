package qrimage

import (
	"github.com/skip2/go-qrcode"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
)

// Request describes one QR image to produce.
type Request struct {
	Data       string
	PixelSize  int
	Level      Level
	Foreground string
	Background string
}

// Encoder produces PNG bytes for a Request.
type Encoder interface {
	Encode(req Request) ([]byte, error)
}

// QREncoder implements Encoder with github.com/skip2/go-qrcode.
type QREncoder struct {
	disableBorder bool
}

// Option configures a QREncoder.
type Option func(*QREncoder)

// WithoutBorder drops the four-module quiet zone around the symbol.
func WithoutBorder() Option {
	return func(e *QREncoder) { e.disableBorder = true }
}

// NewQREncoder returns the default encoding collaborator.
func NewQREncoder(opts ...Option) *QREncoder {
	e := &QREncoder{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode builds the symbol for req.Data and renders it as PNG.
func (e *QREncoder) Encode(req Request) ([]byte, error) {
	if req.PixelSize <= 0 {
		return nil, errors.EncodingError("pixel size must be positive").
			WithContext("pixel_size", req.PixelSize).
			Build()
	}
	fg, err := ParseColor(req.Foreground)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEncoding, "invalid foreground color").
			WithContext("fg", req.Foreground).
			Build()
	}
	bg, err := ParseColor(req.Background)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEncoding, "invalid background color").
			WithContext("bg", req.Background).
			Build()
	}

	level := req.Level
	if level == "" {
		level = LevelL
	}

	code, err := qrcode.New(req.Data, level.recovery())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEncoding, "qr symbol construction failed").
			WithContext("ec_level", string(level)).
			WithContext("data_len", len(req.Data)).
			Build()
	}
	code.ForegroundColor = fg
	code.BackgroundColor = bg
	code.DisableBorder = e.disableBorder

	// A negative size asks go-qrcode for |size| pixels per module.
	png, err := code.PNG(-req.PixelSize)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEncoding, "qr image rendering failed").Build()
	}
	return png, nil
}
