package directive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/qrimage"
)

func TestParseOpts(t *testing.T) {
	o, err := ParseOpts("4:bg=#FF0000:FG=#0000FF:Ec=Q:size=9")
	require.NoError(t, err)
	require.Equal(t, 4, *o.PixelSize)
	require.Equal(t, "#FF0000", *o.Background)
	require.Equal(t, "#0000FF", *o.Foreground)
	require.Equal(t, "Q", *o.ECLevel)
	require.Equal(t, []string{"size=9"}, o.Ignored)
	require.Equal(t, "4:fg=#0000FF:bg=#FF0000:ec=Q", o.String())
}

func TestParseOpts_Empty(t *testing.T) {
	o, err := ParseOpts("")
	require.NoError(t, err)
	require.Nil(t, o.PixelSize)
	require.Nil(t, o.Foreground)
	require.Empty(t, o.String())
}

func TestParseOpts_LastTokenWins(t *testing.T) {
	o, err := ParseOpts("3:fg=red:5:fg=blue:ec=H:ec=M")
	require.NoError(t, err)
	require.Equal(t, 5, *o.PixelSize)
	require.Equal(t, "blue", *o.Foreground)
	require.Equal(t, "M", *o.ECLevel)
}

func TestParseOpts_ValueKeepsEquals(t *testing.T) {
	o, err := ParseOpts("fg=a=b")
	require.NoError(t, err)
	require.Equal(t, "a=b", *o.Foreground)
}

func TestParseOpts_Malformed(t *testing.T) {
	cases := map[string]error{
		"big":   ErrInvalidPixelSize,
		"0":     ErrInvalidPixelSize,
		"-2":    ErrInvalidPixelSize,
		"3.5":   ErrInvalidPixelSize,
		"3:":    ErrEmptyOption,
		"3: :4": ErrEmptyOption,
	}
	for in, want := range cases {
		_, err := ParseOpts(in)
		require.ErrorIs(t, err, want, in)
		require.True(t, errors.HasCategory(err, errors.CategoryValidation), in)
	}
}

func TestParseOpts_KeysFoldCaseButKeepSpaces(t *testing.T) {
	o, err := ParseOpts("FG=red: bg =blue:Ec=M")
	require.NoError(t, err)
	require.NotNil(t, o.Foreground)
	require.Equal(t, "red", *o.Foreground)
	require.Nil(t, o.Background)
	require.Equal(t, []string{" bg =blue"}, o.Ignored)
	require.NotNil(t, o.ECLevel)
	require.Equal(t, "M", *o.ECLevel)
}

func TestResolve_Defaults(t *testing.T) {
	p, _, err := Resolve(Match{Syntax: SyntaxShort, Data: "world"}, config.Defaults())
	require.NoError(t, err)
	require.Equal(t, Params{
		Data:       "world",
		PixelSize:  2,
		Foreground: "#000000",
		Background: "#FFFFFF",
		Level:      qrimage.LevelL,
	}, p)
}

func TestResolve_Overrides(t *testing.T) {
	m := Match{Syntax: SyntaxDomain, Opts: "3:fg=#112233", Data: "hello"}
	p, o, err := Resolve(m, config.Defaults())
	require.NoError(t, err)
	require.Equal(t, 3, p.PixelSize)
	require.Equal(t, "#112233", p.Foreground)
	require.Equal(t, "#FFFFFF", p.Background)
	require.Equal(t, qrimage.LevelL, p.Level)
	require.Nil(t, o.ECLevel)

	req := p.Request()
	require.Equal(t, "hello", req.Data)
	require.Equal(t, 3, req.PixelSize)
}

func TestResolve_OrderIndependentPerField(t *testing.T) {
	cfg := config.Defaults()
	a, _, err := Resolve(Match{Opts: "ec=Q:4:bg=#eee:fg=#111", Data: "x"}, cfg)
	require.NoError(t, err)
	b, _, err := Resolve(Match{Opts: "fg=#111:bg=#eee:4:ec=Q", Data: "x"}, cfg)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestResolve_UnknownECNormalizesToL(t *testing.T) {
	cfg, err := config.Configure(map[string]string{config.OptECLevel: "H"})
	require.NoError(t, err)

	for _, opts := range []string{"ec=Z", "ec=q", "ec=h", "ec= H ", "ec="} {
		p, _, err := Resolve(Match{Opts: opts, Data: "x"}, cfg)
		require.NoError(t, err, opts)
		require.Equal(t, qrimage.LevelL, p.Level, opts)
	}

	p, _, err := Resolve(Match{Opts: "ec=Q", Data: "x"}, cfg)
	require.NoError(t, err)
	require.Equal(t, qrimage.LevelQ, p.Level)
}

func TestResolve_ConfiguredDefaults(t *testing.T) {
	cfg, err := config.Configure(map[string]string{
		config.OptPixelSize:  "7",
		config.OptForeground: "navy",
		config.OptECLevel:    "M",
	})
	require.NoError(t, err)

	p, _, err := Resolve(Match{Opts: "bg=#eee", Data: "x"}, cfg)
	require.NoError(t, err)
	require.Equal(t, 7, p.PixelSize)
	require.Equal(t, "navy", p.Foreground)
	require.Equal(t, "#eee", p.Background)
	require.Equal(t, qrimage.LevelM, p.Level)
}

func TestResolve_Errors(t *testing.T) {
	_, _, err := Resolve(Match{Syntax: SyntaxShort, Raw: "[-[]-]"}, config.Defaults())
	require.ErrorIs(t, err, ErrEmptyData)

	_, _, err = Resolve(Match{Syntax: SyntaxDomain, Opts: "abc", Data: "x"}, config.Defaults())
	require.ErrorIs(t, err, ErrInvalidPixelSize)
}
