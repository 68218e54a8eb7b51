package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
)

// File represents the mdqrcode tool configuration file.
type File struct {
	// Options are extension option overrides, keyed by option name (see Options).
	Options map[string]string `yaml:"options,omitempty"`
	Logging LoggingConfig     `yaml:"logging"`
	Render  RenderConfig      `yaml:"render"`
	Metrics MetricsConfig     `yaml:"metrics,omitempty"`
}

// LoggingConfig controls the CLI log handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RenderConfig controls HTML output.
type RenderConfig struct {
	OutputDir string `yaml:"output_dir"`
	XHTML     bool   `yaml:"xhtml"`
	Unsafe    bool   `yaml:"unsafe"` // pass raw HTML in markdown through
}

// MetricsConfig controls the Prometheus endpoint of long-running commands.
type MetricsConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// DefaultFile returns the configuration used when no file is given.
func DefaultFile() *File {
	return &File{
		Logging: LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
		Render:  RenderConfig{OutputDir: "./out"},
	}
}

// LoadFile loads the tool configuration from path. An empty path yields DefaultFile.
// Variables from .env/.env.local are loaded first (existing environment wins) and
// ${VAR} references in the YAML are expanded.
func LoadFile(path string) (*File, error) {
	loadEnvFiles()

	if path == "" {
		return DefaultFile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}
	return ParseFile(data)
}

// ParseFile decodes YAML tool configuration, applying defaults and validating options.
func ParseFile(data []byte) (*File, error) {
	f := DefaultFile()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && err != io.EOF {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}

	if f.Render.OutputDir == "" {
		f.Render.OutputDir = "./out"
	}
	if _, err := Configure(f.Options); err != nil {
		return nil, err
	}
	return f, nil
}

// Resolve builds the extension configuration from the file options with
// overrides (typically CLI flags) layered on top.
func (f *File) Resolve(overrides map[string]string) (Config, error) {
	base, err := Configure(f.Options)
	if err != nil {
		return Config{}, err
	}
	return base.With(overrides)
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	example := DefaultFile()
	example.Options = make(map[string]string, len(optionSpecs))
	for _, opt := range optionSpecs {
		example.Options[opt.Name] = opt.Default
	}
	example.Metrics.Listen = ":9090"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}

func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load environment file", "path", name, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", name)
		return
	}
}
