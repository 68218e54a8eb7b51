// Package document converts whole markdown files: frontmatter handling,
// per-document option overrides, rendering and content fingerprints.
package document

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/frontmatter"
	"git.home.luguber.info/inful/mdqrcode/internal/logfields"
	"git.home.luguber.info/inful/mdqrcode/internal/markdown"
	"git.home.luguber.info/inful/mdqrcode/internal/metrics"
	"git.home.luguber.info/inful/mdqrcode/internal/qrimage"
	"git.home.luguber.info/inful/mdqrcode/internal/resolver"
)

// Result is one converted document.
type Result struct {
	HTML []byte
	// Fields are the parsed frontmatter fields; empty when there are none.
	Fields map[string]any
	// Fingerprint identifies the source content (frontmatter and body).
	Fingerprint string
	// Config is the effective configuration after frontmatter overrides.
	Config config.Config
}

// Converter renders markdown documents. It is safe for concurrent use when
// its encoder is.
type Converter struct {
	cfg      config.Config
	encoder  qrimage.Encoder
	recorder metrics.Recorder
	logger   *slog.Logger
	xhtml    bool
	unsafe   bool
}

// Option configures a Converter.
type Option func(*Converter)

func WithEncoder(enc qrimage.Encoder) Option {
	return func(c *Converter) { c.encoder = enc }
}

func WithRecorder(rec metrics.Recorder) Option {
	return func(c *Converter) { c.recorder = rec }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithXHTML makes void elements self-closing.
func WithXHTML(enabled bool) Option {
	return func(c *Converter) { c.xhtml = enabled }
}

// WithUnsafe lets raw HTML in the markdown through to the output.
func WithUnsafe(enabled bool) Option {
	return func(c *Converter) { c.unsafe = enabled }
}

// NewConverter returns a Converter using cfg as the base configuration.
func NewConverter(cfg config.Config, opts ...Option) *Converter {
	c := &Converter{
		cfg:      cfg,
		encoder:  qrimage.NewQREncoder(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert renders src to HTML. A `qrcode:` mapping in the frontmatter
// overrides options for this document only. On error no output is returned.
func (c *Converter) Convert(src []byte) (*Result, error) {
	start := time.Now()
	res, err := c.convert(src)
	c.recorder.ObserveConvertDuration(time.Since(start))
	if err != nil {
		c.recorder.IncDocument(metrics.ResultFailed)
		return nil, err
	}
	c.recorder.IncDocument(metrics.ResultSuccess)
	return res, nil
}

func (c *Converter) convert(src []byte) (*Result, error) {
	doc, fields, cfg, err := c.prepare(src)
	if err != nil {
		return nil, err
	}

	fp, err := Fingerprint(fields, doc.Body)
	if err != nil {
		return nil, err
	}

	md := markdown.New(cfg,
		markdown.WithResolver(c.resolver(cfg)),
		markdown.WithHTMLOptions(c.htmlOptions()...))

	var buf bytes.Buffer
	if err := md.Convert(doc.Body, &buf); err != nil {
		return nil, err
	}
	return &Result{HTML: buf.Bytes(), Fields: fields, Fingerprint: fp, Config: cfg}, nil
}

// Bake returns src with every directive replaced by its <img> element. The
// frontmatter and all other bytes are kept as they are.
func (c *Converter) Bake(src []byte) ([]byte, error) {
	doc, _, cfg, err := c.prepare(src)
	if err != nil {
		return nil, err
	}
	body, err := markdown.Bake(doc.Body, c.resolver(cfg), c.xhtml)
	if err != nil {
		return nil, err
	}
	return doc.Join(body), nil
}

// Fingerprint returns the content fingerprint of src without rendering it.
func (c *Converter) Fingerprint(src []byte) (string, error) {
	doc, fields, _, err := c.prepare(src)
	if err != nil {
		return "", err
	}
	return Fingerprint(fields, doc.Body)
}

// Scan reports the directives in src under the document's effective configuration.
func (c *Converter) Scan(src []byte) ([]markdown.Found, error) {
	doc, _, cfg, err := c.prepare(src)
	if err != nil {
		return nil, err
	}
	found := markdown.ScanDirectives(doc.Body, cfg)
	// Report lines relative to the whole file.
	if offset := len(src) - len(doc.Body); offset > 0 {
		lines := bytes.Count(src[:offset], []byte("\n"))
		for i := range found {
			found[i].Line += lines
			found[i].Start += offset
			found[i].End += offset
		}
	}
	return found, nil
}

// ConvertFile renders the file at in and writes <name>.html into outDir. It
// returns the output path.
func (c *Converter) ConvertFile(in, outDir string) (string, *Result, error) {
	start := time.Now()
	src, err := os.ReadFile(in)
	if err != nil {
		return "", nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read markdown file").
			WithContext("path", in).
			Build()
	}

	res, err := c.Convert(src)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return "", nil, ce.WithContext("path", in)
		}
		return "", nil, err
	}

	out := OutputPath(in, outDir)
	if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
		return "", nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(out)).
			Build()
	}
	if err := os.WriteFile(out, res.HTML, 0o600); err != nil {
		return "", nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to write html output").
			WithContext("path", out).
			Build()
	}

	c.logger.Info("Rendered document",
		logfields.File(in),
		logfields.Output(out),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return out, res, nil
}

// OutputPath maps a markdown path to its HTML path inside outDir.
func OutputPath(in, outDir string) string {
	base := filepath.Base(in)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".html")
}

func (c *Converter) prepare(src []byte) (frontmatter.Document, map[string]any, config.Config, error) {
	doc, err := frontmatter.Split(src)
	if err != nil {
		return frontmatter.Document{}, nil, config.Config{}, err
	}
	fields, err := frontmatter.ParseYAML(doc.Frontmatter)
	if err != nil {
		return frontmatter.Document{}, nil, config.Config{}, err
	}
	overrides, err := frontmatter.Options(fields)
	if err != nil {
		return frontmatter.Document{}, nil, config.Config{}, err
	}

	cfg := c.cfg
	if len(overrides) > 0 {
		if cfg, err = c.cfg.With(overrides); err != nil {
			return frontmatter.Document{}, nil, config.Config{}, err
		}
	}
	return doc, fields, cfg, nil
}

func (c *Converter) resolver(cfg config.Config) *resolver.Resolver {
	return resolver.New(cfg,
		resolver.WithEncoder(c.encoder),
		resolver.WithRecorder(c.recorder),
		resolver.WithLogger(c.logger))
}

func (c *Converter) htmlOptions() []renderer.Option {
	var opts []renderer.Option
	if c.xhtml {
		opts = append(opts, html.WithXHTML())
	}
	if c.unsafe {
		opts = append(opts, html.WithUnsafe())
	}
	return opts
}

// Fingerprint computes the mdfp content fingerprint of a document. A
// fingerprint field already present in the frontmatter is ignored.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != mdfp.FingerprintField {
			hashed[k] = v
		}
	}

	fm := ""
	if len(hashed) > 0 {
		serialized, err := frontmatter.SerializeYAML(hashed)
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryInternal, "failed to serialize frontmatter for fingerprint").Build()
		}
		fm = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
