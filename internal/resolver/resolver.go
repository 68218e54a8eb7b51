// Package resolver turns recognized directives into inline image nodes.
package resolver

import (
	"encoding/base64"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
	"git.home.luguber.info/inful/mdqrcode/internal/directive"
	"git.home.luguber.info/inful/mdqrcode/internal/logfields"
	"git.home.luguber.info/inful/mdqrcode/internal/metrics"
	"git.home.luguber.info/inful/mdqrcode/internal/qrimage"
)

const (
	srcPrefix   = "data:image/png;base64,"
	titlePrefix = "qrcode for : "
)

// Image is the inline image produced for one directive.
type Image struct {
	// Src is a PNG data URI.
	Src string
	// Title is "qrcode for : <data> ", trailing space included.
	Title  string
	Params directive.Params
}

// Title returns the image title for data.
func Title(data string) string {
	return titlePrefix + data + " "
}

// DataURI wraps PNG bytes in a data URI.
func DataURI(png []byte) string {
	return srcPrefix + base64.StdEncoding.EncodeToString(png)
}

// Resolver resolves directive matches against one immutable configuration.
// It holds no per-match state and is safe for concurrent use when its
// encoder is.
type Resolver struct {
	cfg      config.Config
	grammars []*directive.Grammar
	encoder  qrimage.Encoder
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEncoder replaces the go-qrcode encoder.
func WithEncoder(enc qrimage.Encoder) Option {
	return func(r *Resolver) { r.encoder = enc }
}

// WithRecorder installs a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Resolver) { r.recorder = rec }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New returns a Resolver for cfg.
func New(cfg config.Config, opts ...Option) *Resolver {
	r := &Resolver{
		cfg:      cfg,
		grammars: directive.Grammars(cfg),
		encoder:  qrimage.NewQREncoder(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the configuration the resolver was built with.
func (r *Resolver) Config() config.Config { return r.cfg }

// Grammars returns the active grammars.
func (r *Resolver) Grammars() []*directive.Grammar { return r.grammars }

// Resolve encodes m into an Image. A nil match yields no image and no error.
func (r *Resolver) Resolve(m *directive.Match) (*Image, error) {
	if m == nil {
		return nil, nil
	}

	params, overrides, err := directive.Resolve(*m, r.cfg)
	if err != nil {
		return nil, r.fail(m, err)
	}
	for _, tok := range overrides.Ignored {
		r.logger.Debug("Ignoring unknown directive option", logfields.Option(tok), logfields.Syntax(string(m.Syntax)))
	}

	start := time.Now()
	png, err := r.encoder.Encode(params.Request())
	elapsed := time.Since(start)
	r.recorder.ObserveEncodeDuration(elapsed)
	if err != nil {
		return nil, r.fail(m, err)
	}
	r.recorder.ObserveImageBytes(len(png))
	r.recorder.IncDirective(string(m.Syntax), metrics.ResultSuccess)

	r.logger.Debug("Resolved QR directive",
		logfields.Syntax(string(m.Syntax)),
		logfields.DataLen(len(params.Data)),
		logfields.PixelSize(params.PixelSize),
		logfields.ECLevel(string(params.Level)),
		logfields.Foreground(params.Foreground),
		logfields.Background(params.Background),
		logfields.Bytes(len(png)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))

	return &Image{
		Src:    DataURI(png),
		Title:  Title(params.Data),
		Params: params,
	}, nil
}

// fail accounts for one failed directive under the configured error policy
// and returns err unchanged. Callers writing literal text record nothing.
func (r *Resolver) fail(m *directive.Match, err error) error {
	if r.cfg.OnError == config.OnErrorLiteral {
		r.logger.Warn("Keeping QR directive as literal text",
			logfields.Syntax(string(m.Syntax)),
			logfields.Error(err))
		r.recorder.IncDirective(string(m.Syntax), metrics.ResultLiteral)
	} else {
		r.recorder.IncDirective(string(m.Syntax), metrics.ResultFailed)
	}
	return err
}

// ResolveText matches text against the active grammars and resolves the
// directive found at its start. Text without a directive yields nil, nil.
func (r *Resolver) ResolveText(text string) (*Image, error) {
	return r.Resolve(directive.Find(r.grammars, text))
}
