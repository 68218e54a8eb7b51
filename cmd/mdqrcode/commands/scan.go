package commands

import (
	"fmt"
	"strconv"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/metrics"
)

// ScanCmd implements the 'scan' command.
type ScanCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Markdown files to scan"`
}

func (s *ScanCmd) Run(g *Global, root *CLI) error {
	file, cfg, err := root.Load(g)
	if err != nil {
		return err
	}
	conv := newConverter(g, file, cfg, metrics.NoopRecorder{})

	failed := 0
	for _, path := range s.Files {
		src, err := readFile(path)
		if err != nil {
			return err
		}
		found, err := conv.Scan(src)
		if err != nil {
			return withPath(err, path)
		}
		for _, f := range found {
			if f.Err != nil {
				failed++
				_, _ = fmt.Fprintf(g.out(), "%s:%d: %s %q: %s\n", path, f.Line, f.Match.Syntax, f.Match.Raw, message(f.Err))
				continue
			}
			_, _ = fmt.Fprintf(g.out(), "%s:%d: %s size=%d fg=%s bg=%s ec=%s data=%s\n",
				path, f.Line, f.Match.Syntax,
				f.Params.PixelSize, f.Params.Foreground, f.Params.Background, f.Params.Level,
				strconv.Quote(f.Params.Data))
		}
	}

	if failed > 0 {
		return errors.ValidationError(fmt.Sprintf("%d malformed directive(s)", failed)).
			WithContext("count", failed).
			Build()
	}
	return nil
}

func message(err error) string {
	if ce, ok := errors.AsClassified(err); ok {
		return ce.Message()
	}
	return err.Error()
}
