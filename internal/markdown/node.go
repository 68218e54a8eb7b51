package markdown

import (
	"strconv"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/mdqrcode/internal/directive"
)

// KindQRCode is the node kind of QRCode.
var KindQRCode = gmast.NewNodeKind("QRCode")

// QRCode is an inline node for one recognized directive. Resolution happens
// at render time so failures surface from Convert.
type QRCode struct {
	gmast.BaseInline

	Match directive.Match
	// Start and End are byte offsets of the directive in the source, End exclusive.
	Start int
	End   int
}

// NewQRCode returns a QRCode node for m spanning source[start:end].
func NewQRCode(m directive.Match, start, end int) *QRCode {
	return &QRCode{Match: m, Start: start, End: end}
}

// Kind implements ast.Node.
func (n *QRCode) Kind() gmast.NodeKind { return KindQRCode }

// Dump implements ast.Node.
func (n *QRCode) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"Syntax": string(n.Match.Syntax),
		"Opts":   n.Match.Opts,
		"Data":   n.Match.Data,
		"Start":  strconv.Itoa(n.Start),
	}, nil)
}
