package directive

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
)

// Syntax identifies one of the two directive grammars.
type Syntax string

const (
	SyntaxShort  Syntax = "short"
	SyntaxDomain Syntax = "domain"
)

// Match is one recognized directive occurrence.
type Match struct {
	Syntax Syntax
	// Raw is the full matched text.
	Raw string
	// Opts is the OPTS segment without its trailing colon; empty for short syntax.
	Opts string
	// Data is the text to encode.
	Data string
}

// Grammar recognizes one syntax under a capture mode.
type Grammar struct {
	syntax  Syntax
	trigger byte
	re      *regexp.Regexp
	lazy    bool
}

// The lazy data pattern skips backslash-escaped bytes so an escaped closing
// bracket does not end the data.
const (
	greedyData = `(.*)`
	lazyData   = `((?:\\.|[^\\])*?)`
)

var (
	shortGreedy  = regexp.MustCompile(`^\[-\[` + greedyData + `\]-\]`)
	shortLazy    = regexp.MustCompile(`^\[-\[` + lazyData + `\]-\]`)
	domainGreedy = regexp.MustCompile(`^:(?:qr|QR):([^\[\]]+:)?\[` + greedyData + `\]`)
	domainLazy   = regexp.MustCompile(`^:(?:qr|QR):([^\[\]]+:)?\[` + lazyData + `\]`)
)

// NewGrammar returns the grammar for syntax under the capture mode.
func NewGrammar(syntax Syntax, capture config.CaptureMode) *Grammar {
	lazy := capture == config.CaptureLazy
	g := &Grammar{syntax: syntax, lazy: lazy}
	switch syntax {
	case SyntaxShort:
		g.trigger = '['
		g.re = shortGreedy
		if lazy {
			g.re = shortLazy
		}
	default:
		g.syntax = SyntaxDomain
		g.trigger = ':'
		g.re = domainGreedy
		if lazy {
			g.re = domainLazy
		}
	}
	return g
}

// Syntax returns the grammar's syntax.
func (g *Grammar) Syntax() Syntax { return g.syntax }

// Trigger is the first byte of every directive in this grammar.
func (g *Grammar) Trigger() byte { return g.trigger }

// Match tries to recognize a directive at the start of line. It returns the
// number of bytes consumed.
func (g *Grammar) Match(line []byte) (Match, int, bool) {
	if len(line) == 0 || line[0] != g.trigger {
		return Match{}, 0, false
	}
	loc := g.re.FindSubmatchIndex(line)
	if loc == nil {
		return Match{}, 0, false
	}

	m := Match{Syntax: g.syntax, Raw: string(line[loc[0]:loc[1]])}
	dataGroup := 1
	if g.syntax == SyntaxDomain {
		if loc[2] >= 0 {
			m.Opts = strings.TrimSuffix(string(line[loc[2]:loc[3]]), ":")
		}
		dataGroup = 2
	}
	m.Data = string(line[loc[2*dataGroup]:loc[2*dataGroup+1]])
	if g.lazy {
		m.Data = unescape(m.Data)
	}
	return m, loc[1], true
}

var escapes = strings.NewReplacer(`\\`, `\`, `\[`, `[`, `\]`, `]`)

func unescape(s string) string {
	return escapes.Replace(s)
}

// Grammars returns the grammars that cfg activates, short syntax first.
//
// Under PolicyCoexist each syntax follows its own flag. Under PolicyExclusive
// exactly one grammar is active: domain when UseDomainSyntax is set, short
// otherwise.
func Grammars(cfg config.Config) []*Grammar {
	var out []*Grammar
	switch cfg.SyntaxPolicy {
	case config.PolicyExclusive:
		if cfg.UseDomainSyntax {
			out = append(out, NewGrammar(SyntaxDomain, cfg.DataCapture))
		} else {
			out = append(out, NewGrammar(SyntaxShort, cfg.DataCapture))
		}
	default:
		if cfg.UseShortSyntax {
			out = append(out, NewGrammar(SyntaxShort, cfg.DataCapture))
		}
		if cfg.UseDomainSyntax {
			out = append(out, NewGrammar(SyntaxDomain, cfg.DataCapture))
		}
	}
	return out
}

// Find matches a directive at the start of text using the first grammar that
// accepts it. It returns nil when no grammar matches.
func Find(grammars []*Grammar, text string) *Match {
	for _, g := range grammars {
		if m, _, ok := g.Match([]byte(text)); ok {
			return &m
		}
	}
	return nil
}
