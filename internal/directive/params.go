package directive

import (
	"git.home.luguber.info/inful/mdqrcode/internal/config"
	"git.home.luguber.info/inful/mdqrcode/internal/qrimage"
)

// Params are the fully resolved values for one directive.
type Params struct {
	Data       string
	PixelSize  int
	Foreground string
	Background string
	Level      qrimage.Level
}

// Request converts the params into an encoding request.
func (p Params) Request() qrimage.Request {
	return qrimage.Request{
		Data:       p.Data,
		PixelSize:  p.PixelSize,
		Level:      p.Level,
		Foreground: p.Foreground,
		Background: p.Background,
	}
}

// Resolve parses m's OPTS and layers them over cfg.
func Resolve(m Match, cfg config.Config) (Params, Overrides, error) {
	if m.Data == "" {
		return Params{}, Overrides{}, ErrEmptyData.WithContext("directive", m.Raw)
	}

	o, err := ParseOpts(m.Opts)
	if err != nil {
		return Params{}, Overrides{}, err
	}

	p := Params{
		Data:       m.Data,
		PixelSize:  cfg.PixelSize,
		Foreground: cfg.Foreground,
		Background: cfg.Background,
		Level:      cfg.ECLevel,
	}
	if o.PixelSize != nil {
		p.PixelSize = *o.PixelSize
	}
	if o.Foreground != nil {
		p.Foreground = *o.Foreground
	}
	if o.Background != nil {
		p.Background = *o.Background
	}
	if o.ECLevel != nil {
		p.Level = qrimage.ParseLevel(*o.ECLevel)
	}
	return p, o, nil
}
