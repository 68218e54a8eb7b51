// Package markdown wires QR directives into goldmark: an inline parser, the
// QRCode AST node and its HTML renderer.
package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
	"git.home.luguber.info/inful/mdqrcode/internal/resolver"
)

// Extension registers QR directive parsing and rendering on a goldmark instance.
type Extension struct {
	resolver    *resolver.Resolver
	priority    int
	htmlOptions []renderer.Option
}

// Option configures an Extension.
type Option func(*Extension)

// WithResolver replaces the resolver built from the configuration.
func WithResolver(r *resolver.Resolver) Option {
	return func(e *Extension) { e.resolver = r }
}

// WithPriority sets the inline parser priority. Lower runs earlier.
func WithPriority(p int) Option {
	return func(e *Extension) { e.priority = p }
}

// WithHTMLOptions sets goldmark renderer options, such as html.WithXHTML,
// used by New.
func WithHTMLOptions(opts ...renderer.Option) Option {
	return func(e *Extension) { e.htmlOptions = append(e.htmlOptions, opts...) }
}

// NewExtension returns an Extension for cfg.
func NewExtension(cfg config.Config, opts ...Option) *Extension {
	e := &Extension{priority: DefaultPriority}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = resolver.New(cfg)
	}
	return e
}

// Resolver returns the resolver the extension renders with.
func (e *Extension) Resolver() *resolver.Resolver { return e.resolver }

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	if grammars := e.resolver.Grammars(); len(grammars) > 0 {
		m.Parser().AddOptions(parser.WithInlineParsers(
			util.Prioritized(NewParser(grammars), e.priority),
		))
	}
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewHTMLRenderer(e.resolver), 500),
	))
}

// New returns a goldmark instance with GFM and the QR extension.
func New(cfg config.Config, opts ...Option) goldmark.Markdown {
	ext := NewExtension(cfg, opts...)
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, ext),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(ext.htmlOptions...),
	)
}
