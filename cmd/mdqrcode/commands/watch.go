package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdqrcode/internal/metrics"
	"git.home.luguber.info/inful/mdqrcode/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Dir         string        `arg:"" type:"existingdir" help:"Directory of markdown files"`
	Output      string        `short:"o" help:"Output directory (default: render.output_dir from config)"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (default: metrics.listen from config)"`
	Debounce    time.Duration `default:"200ms" help:"Quiet period before re-rendering changed files"`
	Rescan      time.Duration `help:"Also re-check every file at this interval (0 disables)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	file, cfg, err := root.Load(g)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rec metrics.Recorder = metrics.NoopRecorder{}
	addr := w.MetricsAddr
	if addr == "" {
		addr = file.Metrics.Listen
	}
	if addr != "" {
		reg := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
		srv, err := metrics.Serve(addr, reg, g.logger())
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	conv := newConverter(g, file, cfg, rec)
	return watch.New(w.Dir, outputDir(w.Output, file), conv,
		watch.WithDebounce(w.Debounce),
		watch.WithRescan(w.Rescan),
		watch.WithRecorder(rec),
		watch.WithLogger(g.logger()),
	).Run(ctx)
}
