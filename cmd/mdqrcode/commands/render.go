package commands

import (
	"fmt"

	"git.home.luguber.info/inful/mdqrcode/internal/metrics"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Files  []string `arg:"" type:"existingfile" help:"Markdown files to render"`
	Output string   `short:"o" help:"Output directory (default: render.output_dir from config)"`
	Stdout bool     `help:"Write HTML to stdout instead of files"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	file, cfg, err := root.Load(g)
	if err != nil {
		return err
	}
	conv := newConverter(g, file, cfg, metrics.NoopRecorder{})

	if r.Stdout {
		for _, in := range r.Files {
			src, err := readFile(in)
			if err != nil {
				return err
			}
			res, err := conv.Convert(src)
			if err != nil {
				return withPath(err, in)
			}
			if _, err := g.out().Write(res.HTML); err != nil {
				return err
			}
		}
		return nil
	}

	dir := outputDir(r.Output, file)
	for _, in := range r.Files {
		out, _, err := conv.ConvertFile(in, dir)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(g.out(), out)
	}
	return nil
}
