package commands

import (
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
)

// OptionsCmd implements the 'options' command.
type OptionsCmd struct{}

func (o *OptionsCmd) Run(g *Global, root *CLI) error {
	_, cfg, err := root.Load(g)
	if err != nil {
		return err
	}
	effective := cfg.Raw()

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "OPTION\tDEFAULT\tEFFECTIVE\tDESCRIPTION")
	for _, opt := range config.Options() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", opt.Name, opt.Default, effective[opt.Name], opt.Description)
	}
	return tw.Flush()
}
