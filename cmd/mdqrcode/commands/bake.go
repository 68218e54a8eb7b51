package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/metrics"
)

// BakeCmd implements the 'bake' command.
type BakeCmd struct {
	Files   []string `arg:"" type:"existingfile" help:"Markdown files to bake"`
	Output  string   `short:"o" help:"Directory for baked copies"`
	InPlace bool     `name:"in-place" short:"i" help:"Rewrite the files themselves"`
}

func (b *BakeCmd) Run(g *Global, root *CLI) error {
	if b.InPlace == (b.Output != "") {
		return errors.ValidationError("bake needs exactly one of --output or --in-place").Build()
	}
	file, cfg, err := root.Load(g)
	if err != nil {
		return err
	}
	conv := newConverter(g, file, cfg, metrics.NoopRecorder{})

	for _, in := range b.Files {
		src, err := readFile(in)
		if err != nil {
			return err
		}
		baked, err := conv.Bake(src)
		if err != nil {
			return withPath(err, in)
		}

		out := in
		if !b.InPlace {
			if err := ensureDir(b.Output); err != nil {
				return err
			}
			out = filepath.Join(b.Output, filepath.Base(in))
		}
		if err := writeFile(out, baked); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(g.out(), out)
	}
	return nil
}
