package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mdqrcode/internal/config"
	"git.home.luguber.info/inful/mdqrcode/internal/document"
	"git.home.luguber.info/inful/mdqrcode/internal/metrics"
)

// DefaultConfigPath is where init writes when --config is not given.
const DefaultConfigPath = "mdqrcode.yaml"

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	// Out receives command output; stdout when nil.
	Out io.Writer
	// Err receives log output once Load configures logging; stderr when nil.
	Err io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) errOut() io.Writer {
	if g == nil || g.Err == nil {
		return os.Stderr
	}
	return g.Err
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config    string            `short:"c" help:"Tool configuration file (YAML)" type:"path"`
	Verbose   bool              `short:"v" help:"Enable verbose logging"`
	LogFormat string            `name:"log-format" help:"Log output format (text|json)"`
	Set       map[string]string `name:"set" help:"Override a QR option as key=value (repeatable)" placeholder:"KEY=VALUE"`
	Version   kong.VersionFlag  `name:"version" help:"Show version and exit"`

	Render  RenderCmd  `cmd:"" help:"Render markdown files to HTML"`
	Encode  EncodeCmd  `cmd:"" help:"Encode one value as a QR image"`
	Scan    ScanCmd    `cmd:"" help:"List the QR directives in markdown files without encoding them"`
	Bake    BakeCmd    `cmd:"" help:"Replace QR directives in markdown files with inline <img> elements"`
	Watch   WatchCmd   `cmd:"" help:"Render a directory and re-render files as they change"`
	Options OptionsCmd `cmd:"" help:"Show the QR options with their defaults and effective values"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.LogLevelInfo
	if c.Verbose {
		level = config.LogLevelDebug
	}
	slog.SetDefault(newLogger(os.Stderr, level, config.NormalizeLogFormat(c.LogFormat)))
	return nil
}

// Load reads the tool configuration and resolves the QR options, with --set
// overrides on top. It installs the logger built from the file's logging
// section (flags take precedence) on g and as the slog default.
func (c *CLI) Load(g *Global) (*config.File, config.Config, error) {
	file, err := config.LoadFile(c.Config)
	if err != nil {
		return nil, config.Config{}, err
	}

	level := config.NormalizeLogLevel(file.Logging.Level)
	if c.Verbose {
		level = config.LogLevelDebug
	}
	format := config.NormalizeLogFormat(file.Logging.Format)
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}
	logger := newLogger(g.errOut(), level, format)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}

	cfg, err := file.Resolve(c.Set)
	if err != nil {
		return nil, config.Config{}, err
	}
	return file, cfg, nil
}

func newLogger(w io.Writer, level config.LogLevel, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newConverter(g *Global, file *config.File, cfg config.Config, rec metrics.Recorder) *document.Converter {
	return document.NewConverter(cfg,
		document.WithRecorder(rec),
		document.WithLogger(g.logger()),
		document.WithXHTML(file.Render.XHTML),
		document.WithUnsafe(file.Render.Unsafe))
}

// outputDir picks the flag value, then the configured directory.
func outputDir(flag string, file *config.File) string {
	if flag != "" {
		return flag
	}
	return file.Render.OutputDir
}
