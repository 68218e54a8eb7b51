package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/mdqrcode/internal/directive"
)

// DefaultPriority places the directive parser ahead of goldmark's link
// parser (200), which would otherwise claim the '[' of the short syntax.
const DefaultPriority = 150

type qrParser struct {
	triggers []byte
	byByte   map[byte][]*directive.Grammar
}

// NewParser returns an inline parser recognizing the given grammars.
func NewParser(grammars []*directive.Grammar) parser.InlineParser {
	p := &qrParser{byByte: make(map[byte][]*directive.Grammar)}
	for _, g := range grammars {
		t := g.Trigger()
		if _, seen := p.byByte[t]; !seen {
			p.triggers = append(p.triggers, t)
		}
		p.byByte[t] = append(p.byByte[t], g)
	}
	return p
}

func (p *qrParser) Trigger() []byte {
	return p.triggers
}

func (p *qrParser) Parse(_ gmast.Node, block text.Reader, _ parser.Context) gmast.Node {
	line, segment := block.PeekLine()
	if len(line) == 0 {
		return nil
	}
	for _, g := range p.byByte[line[0]] {
		m, n, ok := g.Match(line)
		if !ok {
			continue
		}
		block.Advance(n)
		return NewQRCode(m, segment.Start, segment.Start+n)
	}
	return nil
}
