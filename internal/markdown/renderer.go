package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
	"git.home.luguber.info/inful/mdqrcode/internal/resolver"
)

// HTMLRenderer renders QRCode nodes as inline <img> elements.
type HTMLRenderer struct {
	html.Config
	resolver *resolver.Resolver
}

// NewHTMLRenderer returns a renderer resolving nodes with r. Goldmark's
// HTML options reach it through SetOption.
func NewHTMLRenderer(r *resolver.Resolver, opts ...html.Option) renderer.NodeRenderer {
	h := &HTMLRenderer{Config: html.NewConfig(), resolver: r}
	for _, opt := range opts {
		opt.SetHTMLOption(&h.Config)
	}
	return h
}

// RegisterFuncs implements renderer.NodeRenderer.
func (h *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindQRCode, h.renderQRCode)
}

// SetOption passes goldmark's HTML options (XHTML and friends) through.
func (h *HTMLRenderer) SetOption(name renderer.OptionName, value any) {
	h.Config.SetOption(name, value)
}

func (h *HTMLRenderer) renderQRCode(w util.BufWriter, _ []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*QRCode)

	img, err := h.resolver.Resolve(&n.Match)
	if err != nil {
		if h.resolver.Config().OnError != config.OnErrorLiteral {
			return gmast.WalkStop, err
		}
		_, _ = w.Write(util.EscapeHTML([]byte(n.Match.Raw)))
		return gmast.WalkSkipChildren, nil
	}

	_, _ = w.WriteString(ImageTag(img, h.XHTML))
	return gmast.WalkSkipChildren, nil
}

// ImageTag formats img as an HTML element.
func ImageTag(img *resolver.Image, xhtml bool) string {
	var buf []byte
	buf = append(buf, `<img src="`...)
	buf = append(buf, util.EscapeHTML([]byte(img.Src))...)
	buf = append(buf, `" title="`...)
	buf = append(buf, util.EscapeHTML([]byte(img.Title))...)
	buf = append(buf, '"')
	if xhtml {
		buf = append(buf, " />"...)
	} else {
		buf = append(buf, '>')
	}
	return string(buf)
}
