package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
	"git.home.luguber.info/inful/mdqrcode/internal/directive"
	"git.home.luguber.info/inful/mdqrcode/internal/resolver"
)

// Found is one directive located in a markdown body.
type Found struct {
	Match directive.Match
	// Line is 1-based.
	Line  int
	Start int
	End   int
	// Params and Overrides are set when Err is nil.
	Params    directive.Params
	Overrides directive.Overrides
	Err       error
}

// ScanDirectives parses body and reports every directive goldmark sees, with
// resolved parameters or the error resolution would fail with. Nothing is
// encoded. Directives inside code spans and code blocks are not reported.
func ScanDirectives(body []byte, cfg config.Config) []Found {
	nodes := collect(body, NewExtension(cfg))

	found := make([]Found, 0, len(nodes))
	for _, n := range nodes {
		f := Found{
			Match: n.Match,
			Line:  bytes.Count(body[:n.Start], []byte("\n")) + 1,
			Start: n.Start,
			End:   n.End,
		}
		f.Params, f.Overrides, f.Err = directive.Resolve(n.Match, cfg)
		found = append(found, f)
	}
	return found
}

// Bake replaces each directive in body with its <img> element and leaves the
// rest of the source byte-for-byte intact. Failing directives stop the bake
// unless the configuration keeps them as literal text.
func Bake(body []byte, r *resolver.Resolver, xhtml bool) ([]byte, error) {
	nodes := collect(body, NewExtension(r.Config(), WithResolver(r)))

	edits := make([]Edit, 0, len(nodes))
	for _, n := range nodes {
		img, err := r.Resolve(&n.Match)
		if err != nil {
			if r.Config().OnError == config.OnErrorLiteral {
				continue
			}
			return nil, err
		}
		edits = append(edits, Edit{Start: n.Start, End: n.End, Replacement: []byte(ImageTag(img, xhtml))})
	}
	return ApplyEdits(body, edits)
}

func collect(body []byte, ext *Extension) []*QRCode {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM, ext))
	root := md.Parser().Parse(text.NewReader(body))

	var nodes []*QRCode
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if entering {
			if qr, ok := n.(*QRCode); ok {
				nodes = append(nodes, qr)
			}
		}
		return gmast.WalkContinue, nil
	})
	return nodes
}
