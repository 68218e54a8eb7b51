package commands

import (
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdqrcode/internal/directive"
	"git.home.luguber.info/inful/mdqrcode/internal/logfields"
	"git.home.luguber.info/inful/mdqrcode/internal/qrimage"
	"git.home.luguber.info/inful/mdqrcode/internal/resolver"
)

// EncodeCmd implements the 'encode' command.
type EncodeCmd struct {
	Data      string `arg:"" help:"Text to encode"`
	PixelSize int    `name:"pixel-size" short:"s" help:"Pixels per module (default: intPixelSize)"`
	FG        string `name:"fg" help:"Foreground color (default: fgColor)"`
	BG        string `name:"bg" help:"Background color (default: bgColor)"`
	EC        string `name:"ec" help:"Error-correction level L, M, Q or H (default: ecLevel)"`
	NoBorder  bool   `name:"no-border" help:"Omit the quiet zone around the symbol"`
	Output    string `short:"o" help:"Write the PNG to this file instead of printing a data URI"`
}

func (e *EncodeCmd) Run(g *Global, root *CLI) error {
	_, cfg, err := root.Load(g)
	if err != nil {
		return err
	}

	m := directive.Match{Syntax: directive.SyntaxDomain, Opts: e.opts(), Data: e.Data}
	params, _, err := directive.Resolve(m, cfg)
	if err != nil {
		return err
	}

	var encOpts []qrimage.Option
	if e.NoBorder {
		encOpts = append(encOpts, qrimage.WithoutBorder())
	}
	png, err := qrimage.NewQREncoder(encOpts...).Encode(params.Request())
	if err != nil {
		return err
	}

	if e.Output != "" {
		if err := writeFile(e.Output, png); err != nil {
			return err
		}
		g.logger().Info("Wrote QR image", logfields.Path(e.Output), logfields.Bytes(len(png)))
		return nil
	}
	_, err = fmt.Fprintln(g.out(), resolver.DataURI(png))
	return err
}

// opts renders the flags in directive OPTS form so they resolve exactly like
// an inline override.
func (e *EncodeCmd) opts() string {
	var parts []string
	if e.PixelSize != 0 {
		parts = append(parts, strconv.Itoa(e.PixelSize))
	}
	if e.FG != "" {
		parts = append(parts, "fg="+e.FG)
	}
	if e.BG != "" {
		parts = append(parts, "bg="+e.BG)
	}
	if e.EC != "" {
		parts = append(parts, "ec="+e.EC)
	}
	return strings.Join(parts, ":")
}
