package commands

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
	"git.home.luguber.info/inful/mdqrcode/internal/directive"
	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
)

func writeMarkdown(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, root *CLI, cmd interface {
	Run(*Global, *CLI) error
}) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := cmd.Run(&Global{Out: &out}, root)
	return out.String(), err
}

func TestParse_GlobalFlags(t *testing.T) {
	dir := t.TempDir()
	in := writeMarkdown(t, dir, "a.md", "[-[x]-]\n")

	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("mdqrcode"), kong.Vars{"version": "test"})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"-v", "--set", "intPixelSize=3", "--set", "ecLevel=H", "render", in, "-o", dir})
	require.NoError(t, err)
	require.Equal(t, "render <files>", ctx.Command())
	require.True(t, cli.Verbose)
	require.Equal(t, map[string]string{"intPixelSize": "3", "ecLevel": "H"}, cli.Set)
	require.Equal(t, []string{in}, cli.Render.Files)
}

func TestRender_Stdout(t *testing.T) {
	in := writeMarkdown(t, t.TempDir(), "a.md", "Hi [-[world]-]\n")

	out, err := run(t, &CLI{}, &RenderCmd{Files: []string{in}, Stdout: true})
	require.NoError(t, err)
	require.Contains(t, out, `<img src="data:image/png;base64,`)
	require.Contains(t, out, `title="qrcode for : world "`)
}

func TestRender_ToDirectory(t *testing.T) {
	dir := t.TempDir()
	in := writeMarkdown(t, dir, "poster.md", ":qr:4:[hello]\n")
	outDir := filepath.Join(dir, "site")

	out, err := run(t, &CLI{}, &RenderCmd{Files: []string{in}, Output: outDir})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "poster.html")+"\n", out)
	require.FileExists(t, filepath.Join(outDir, "poster.html"))
}

func TestRender_MalformedDirective(t *testing.T) {
	in := writeMarkdown(t, t.TempDir(), "bad.md", ":qr:abc:[x]\n")

	_, err := run(t, &CLI{}, &RenderCmd{Files: []string{in}, Stdout: true})
	require.ErrorIs(t, err, directive.ErrInvalidPixelSize)
	require.Equal(t, 2, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestRender_SetOverrides(t *testing.T) {
	in := writeMarkdown(t, t.TempDir(), "a.md", "[-[x]-]\n")

	out, err := run(t, &CLI{Set: map[string]string{config.OptUseShortSyntax: "false"}}, &RenderCmd{Files: []string{in}, Stdout: true})
	require.NoError(t, err)
	require.NotContains(t, out, "<img")

	_, err = run(t, &CLI{Set: map[string]string{"bogus": "1"}}, &RenderCmd{Files: []string{in}, Stdout: true})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestRender_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mdqrcode.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("options:\n  useDomainSyntax: \"no\"\nrender:\n  xhtml: true\n"), 0o600))
	in := writeMarkdown(t, dir, "a.md", ":qr:[x]\n\n[-[y]-]\n")

	out, err := run(t, &CLI{Config: cfgPath}, &RenderCmd{Files: []string{in}, Stdout: true})
	require.NoError(t, err)
	require.Contains(t, out, ":qr:[x]")
	require.Contains(t, out, `title="qrcode for : y " />`)
}

func TestEncode_DataURI(t *testing.T) {
	out, err := run(t, &CLI{}, &EncodeCmd{Data: "hello", PixelSize: 3, FG: "#112233", EC: "Q"})
	require.NoError(t, err)

	uri := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Zero(t, img.Bounds().Dx()%3)
}

func TestEncode_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr.png")
	out, err := run(t, &CLI{}, &EncodeCmd{Data: "hello", Output: path, NoBorder: true})
	require.NoError(t, err)
	require.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestLoad_FileLoggingReachesCommands(t *testing.T) {
	saved := slog.Default()
	t.Cleanup(func() { slog.SetDefault(saved) })

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mdqrcode.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: debug\n  format: json\n"), 0o600))

	// Global is built before Load, the way main does it.
	var stale, logs bytes.Buffer
	g := &Global{
		Logger: slog.New(slog.NewTextHandler(&stale, nil)),
		Out:    &bytes.Buffer{},
		Err:    &logs,
	}
	path := filepath.Join(dir, "qr.png")
	require.NoError(t, (&EncodeCmd{Data: "hello", Output: path}).Run(g, &CLI{Config: cfgPath}))

	require.Empty(t, stale.String())
	require.Same(t, slog.Default(), g.Logger)

	var wrote map[string]any
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if entry["msg"] == "Wrote QR image" {
			wrote = entry
		}
	}
	require.NotNil(t, wrote, logs.String())
	require.Equal(t, path, wrote["path"])
}

func TestEncode_Errors(t *testing.T) {
	_, err := run(t, &CLI{}, &EncodeCmd{Data: "x", PixelSize: -1})
	require.ErrorIs(t, err, directive.ErrInvalidPixelSize)

	_, err = run(t, &CLI{}, &EncodeCmd{Data: "x", FG: "nope"})
	require.True(t, errors.HasCategory(err, errors.CategoryEncoding))

	_, err = run(t, &CLI{}, &EncodeCmd{Data: ""})
	require.ErrorIs(t, err, directive.ErrEmptyData)
}

func TestScan(t *testing.T) {
	in := writeMarkdown(t, t.TempDir(), "a.md", "[-[one]-]\n\n:qr:3::[two]\n")

	out, err := run(t, &CLI{}, &ScanCmd{Files: []string{in}})
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.Contains(t, out, in+`:1: short size=2 fg=#000000 bg=#FFFFFF ec=L data="one"`)
	require.Contains(t, out, in+`:3: domain ":qr:3::[two]": empty option`)
}

func TestBake(t *testing.T) {
	dir := t.TempDir()
	in := writeMarkdown(t, dir, "a.md", "---\ntitle: t\n---\nSee [-[x]-]\n")

	_, err := run(t, &CLI{}, &BakeCmd{Files: []string{in}})
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	outDir := filepath.Join(dir, "baked")
	_, err = run(t, &CLI{}, &BakeCmd{Files: []string{in}, Output: outDir})
	require.NoError(t, err)

	baked, err := os.ReadFile(filepath.Join(outDir, "a.md"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(baked), "---\ntitle: t\n---\nSee <img src=\"data:image/png;base64,"))

	_, err = run(t, &CLI{}, &BakeCmd{Files: []string{in}, InPlace: true})
	require.NoError(t, err)
	inPlace, err := os.ReadFile(in)
	require.NoError(t, err)
	require.Equal(t, baked, inPlace)
}

func TestOptions(t *testing.T) {
	out, err := run(t, &CLI{Set: map[string]string{config.OptPixelSize: "7"}}, &OptionsCmd{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(config.Options())+1)
	require.Regexp(t, `^intPixelSize\s+2\s+7\s+`, lines[1])
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdqrcode.yaml")
	root := &CLI{Config: path}

	_, err := run(t, root, &InitCmd{})
	require.NoError(t, err)

	_, err = run(t, root, &InitCmd{})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = run(t, root, &InitCmd{Force: true})
	require.NoError(t, err)

	file, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", file.Metrics.Listen)
}
