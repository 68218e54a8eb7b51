package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\n[-[x]-]\n")

	doc, err := Split(input)
	require.NoError(t, err)
	require.False(t, doc.Had)
	require.Empty(t, doc.Frontmatter)
	require.Equal(t, input, doc.Body)
}

func TestSplit_YAMLFrontmatter(t *testing.T) {
	doc, err := Split([]byte("---\nqrcode:\n  intPixelSize: 4\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, "qrcode:\n  intPixelSize: 4\n", string(doc.Frontmatter))
	require.Equal(t, "# Title\n", string(doc.Body))
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestSplit_CRLF(t *testing.T) {
	doc, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, "\r\n", doc.Newline)
	require.Equal(t, "key: value\r\n", string(doc.Frontmatter))
	require.Equal(t, "# Title\r\n", string(doc.Body))
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	doc, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Empty(t, doc.Frontmatter)
	require.Equal(t, "# Title\n", string(doc.Body))
}

func TestJoin_RoundTrip(t *testing.T) {
	cases := []string{
		"# Title\n\nHello\n",
		"---\nkey: value\n---\n# Title\n",
		"---\n---\n# Title\n",
		"---\r\nkey: value\r\n---\r\n# Title\r\n",
	}
	for _, input := range cases {
		doc, err := Split([]byte(input))
		require.NoError(t, err)
		require.Equal(t, input, string(doc.Join(doc.Body)))
	}
}

func TestJoin_ReplacesBody(t *testing.T) {
	doc, err := Split([]byte("---\ntitle: x\n---\n[-[a]-]\n"))
	require.NoError(t, err)
	require.Equal(t, "---\ntitle: x\n---\n<img>\n", string(doc.Join([]byte("<img>\n"))))
}

func TestParseYAML(t *testing.T) {
	fields, err := ParseYAML([]byte("title: abc\ntags:\n  - one\n"))
	require.NoError(t, err)
	require.Equal(t, "abc", fields["title"])
	require.Equal(t, []any{"one"}, fields["tags"])

	fields, err = ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)

	_, err = ParseYAML([]byte(": not yaml"))
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestOptions(t *testing.T) {
	fields, err := ParseYAML([]byte("qrcode:\n  intPixelSize: 4\n  useShortSyntax: false\n  fgColor: '#112233'\n  ecLevel: H\n"))
	require.NoError(t, err)

	opts, err := Options(fields)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"intPixelSize":   "4",
		"useShortSyntax": "false",
		"fgColor":        "#112233",
		"ecLevel":        "H",
	}, opts)
}

func TestOptions_AbsentOrInvalid(t *testing.T) {
	opts, err := Options(map[string]any{"title": "x"})
	require.NoError(t, err)
	require.Nil(t, opts)

	_, err = Options(map[string]any{"qrcode": "big"})
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = Options(map[string]any{"qrcode": map[string]any{"fgColor": []any{"a"}}})
	require.Error(t, err)
}
