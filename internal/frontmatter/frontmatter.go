// Package frontmatter splits YAML frontmatter from markdown documents and
// reads the per-document QR option block.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
)

// OptionsKey is the frontmatter mapping holding per-document option overrides.
const OptionsKey = "qrcode"

// ErrMissingClosingDelimiter reports a document that opens a frontmatter block
// without closing it.
var ErrMissingClosingDelimiter = errors.ValidationError("yaml frontmatter start delimiter found but closing delimiter is missing").Build()

// Document is a markdown source split at its frontmatter delimiters.
type Document struct {
	// Frontmatter is the raw YAML between the delimiters.
	Frontmatter []byte
	Body        []byte
	// Had reports whether the source carried a frontmatter block at all.
	Had bool
	// Newline is "\n" or "\r\n", detected from the first line ending.
	Newline string
}

// Split separates `---` delimited YAML frontmatter from the markdown body.
// A source without an opening delimiter is all body.
func Split(content []byte) (Document, error) {
	nl := detectNewline(content)
	doc := Document{Body: content, Newline: nl}

	delim := []byte("---" + nl)
	if !bytes.HasPrefix(content, delim) {
		return doc, nil
	}

	rest := content[len(delim):]
	if bytes.HasPrefix(rest, delim) {
		doc.Frontmatter, doc.Body, doc.Had = []byte{}, rest[len(delim):], true
		return doc, nil
	}

	idx := bytes.Index(rest, []byte(nl+"---"+nl))
	if idx < 0 {
		return Document{}, ErrMissingClosingDelimiter
	}
	doc.Frontmatter = rest[:idx+len(nl)]
	doc.Body = rest[idx+len(nl)+len(delim):]
	doc.Had = true
	return doc, nil
}

// Join reassembles the document around body, keeping the original
// frontmatter bytes and newline style.
func (d Document) Join(body []byte) []byte {
	if !d.Had {
		return body
	}
	delim := "---" + d.Newline
	out := make([]byte, 0, 2*len(delim)+len(d.Frontmatter)+len(body))
	out = append(out, delim...)
	out = append(out, d.Frontmatter...)
	out = append(out, delim...)
	return append(out, body...)
}

// ParseYAML parses raw frontmatter (without delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(frontmatter) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid yaml frontmatter").Build()
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Options returns the OptionsKey mapping as option strings. Scalars are
// formatted as YAML would print them; nested values are rejected.
func Options(fields map[string]any) (map[string]string, error) {
	raw, ok := fields[OptionsKey]
	if !ok || raw == nil {
		return nil, nil
	}
	block, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.ValidationError(fmt.Sprintf("frontmatter %q must be a mapping", OptionsKey)).
			WithContext("type", fmt.Sprintf("%T", raw)).
			Build()
	}

	out := make(map[string]string, len(block))
	for k, v := range block {
		switch v.(type) {
		case map[string]any, []any:
			return nil, errors.ValidationError(fmt.Sprintf("frontmatter option %s must be a scalar", k)).
				WithContext("option", k).
				Build()
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
