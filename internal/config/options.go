package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
	"git.home.luguber.info/inful/mdqrcode/internal/foundation/normalization"
	"git.home.luguber.info/inful/mdqrcode/internal/qrimage"
)

// Option names accepted by Configure.
const (
	OptPixelSize       = "intPixelSize"
	OptUseShortSyntax  = "useShortSyntax"
	OptUseDomainSyntax = "useDomainSyntax"
	OptSyntaxPolicy    = "syntaxPolicy"
	OptDataCapture     = "dataCapture"
	OptOnError         = "onError"
	OptBackground      = "bgColor"
	OptForeground      = "fgColor"
	OptECLevel         = "ecLevel"
)

// OptionSpec describes one configuration option.
type OptionSpec struct {
	Name        string
	Default     string
	Description string
}

var optionSpecs = []OptionSpec{
	{OptPixelSize, "2", "Pixel size of each dark and light bit"},
	{OptUseShortSyntax, "true", "Enable the short syntax ( '[-[data to encode]-]' )"},
	{OptUseDomainSyntax, "true", "Enable the domain syntax ( ':qr:<opts>:[data to encode]' )"},
	{OptSyntaxPolicy, string(PolicyCoexist), "coexist: toggle each syntax independently; exclusive: domain if useDomainSyntax, else short"},
	{OptDataCapture, string(CaptureGreedy), "greedy: data runs to the last closing bracket on the line; lazy: to the first unescaped one"},
	{OptOnError, string(OnErrorFail), "fail: a bad directive fails the conversion; literal: keep the directive text"},
	{OptBackground, "#FFFFFF", "The color to use for background (\"light colored\") squares."},
	{OptForeground, "#000000", "The color to use for foreground (\"dark colored\") squares."},
	{OptECLevel, "L", "The error correcting level to use. One of L, M, H, or Q."},
}

// Options returns the option table: name, default value and description.
func Options() []OptionSpec {
	return slices.Clone(optionSpecs)
}

// SyntaxPolicy decides how the short and domain syntaxes interact.
type SyntaxPolicy string

const (
	PolicyCoexist   SyntaxPolicy = "coexist"
	PolicyExclusive SyntaxPolicy = "exclusive"
)

// CaptureMode decides where directive data ends.
type CaptureMode string

const (
	CaptureGreedy CaptureMode = "greedy"
	CaptureLazy   CaptureMode = "lazy"
)

// ErrorPolicy decides what a failing directive does to its document.
type ErrorPolicy string

const (
	OnErrorFail    ErrorPolicy = "fail"
	OnErrorLiteral ErrorPolicy = "literal"
)

var (
	syntaxPolicies = normalization.NewNormalizer(OptSyntaxPolicy, map[string]SyntaxPolicy{
		"coexist":   PolicyCoexist,
		"exclusive": PolicyExclusive,
	}, PolicyCoexist)
	captureModes = normalization.NewNormalizer(OptDataCapture, map[string]CaptureMode{
		"greedy": CaptureGreedy,
		"lazy":   CaptureLazy,
	}, CaptureGreedy)
	errorPolicies = normalization.NewNormalizer(OptOnError, map[string]ErrorPolicy{
		"fail":    OnErrorFail,
		"literal": OnErrorLiteral,
	}, OnErrorFail)
)

// Config is the resolved, immutable extension configuration.
type Config struct {
	PixelSize       int
	UseShortSyntax  bool
	UseDomainSyntax bool
	SyntaxPolicy    SyntaxPolicy
	DataCapture     CaptureMode
	OnError         ErrorPolicy
	Background      string
	Foreground      string
	ECLevel         qrimage.Level

	// raw holds the merged option strings so With can layer further overrides.
	raw map[string]string
}

// Defaults returns the configuration built from the option table alone.
func Defaults() Config {
	cfg, err := Configure(nil)
	if err != nil {
		panic("config: built-in defaults are invalid: " + err.Error())
	}
	return cfg
}

// Configure merges options onto the built-in defaults and coerces typed values.
// Unknown keys and malformed typed values are configuration errors.
func Configure(options map[string]string) (Config, error) {
	raw := make(map[string]string, len(optionSpecs))
	for _, opt := range optionSpecs {
		raw[opt.Name] = opt.Default
	}
	return build(raw, options)
}

// With returns a new Config with options layered over c. c is not modified.
func (c Config) With(options map[string]string) (Config, error) {
	if c.raw == nil {
		return Configure(options)
	}
	return build(maps.Clone(c.raw), options)
}

// Raw returns a copy of the merged option strings.
func (c Config) Raw() map[string]string {
	return maps.Clone(c.raw)
}

func build(raw, overrides map[string]string) (Config, error) {
	for k, v := range overrides {
		if _, known := raw[k]; !known {
			return Config{}, errors.ConfigError(fmt.Sprintf("unknown option %q", k)).
				WithContext("option", k).
				WithContext("valid", optionNames()).
				Build()
		}
		raw[k] = v
	}

	cfg := Config{raw: raw}
	var err error

	if cfg.PixelSize, err = strconv.Atoi(strings.TrimSpace(raw[OptPixelSize])); err != nil || cfg.PixelSize <= 0 {
		return Config{}, malformed(OptPixelSize, raw[OptPixelSize], err)
	}
	if cfg.UseShortSyntax, err = normalization.ParseBool(raw[OptUseShortSyntax]); err != nil {
		return Config{}, malformed(OptUseShortSyntax, raw[OptUseShortSyntax], err)
	}
	if cfg.UseDomainSyntax, err = normalization.ParseBool(raw[OptUseDomainSyntax]); err != nil {
		return Config{}, malformed(OptUseDomainSyntax, raw[OptUseDomainSyntax], err)
	}
	if cfg.SyntaxPolicy, err = syntaxPolicies.NormalizeWithError(raw[OptSyntaxPolicy]); err != nil {
		return Config{}, malformed(OptSyntaxPolicy, raw[OptSyntaxPolicy], err)
	}
	if cfg.DataCapture, err = captureModes.NormalizeWithError(raw[OptDataCapture]); err != nil {
		return Config{}, malformed(OptDataCapture, raw[OptDataCapture], err)
	}
	if cfg.OnError, err = errorPolicies.NormalizeWithError(raw[OptOnError]); err != nil {
		return Config{}, malformed(OptOnError, raw[OptOnError], err)
	}
	for _, name := range []string{OptBackground, OptForeground} {
		if _, err := qrimage.ParseColor(raw[name]); err != nil {
			return Config{}, malformed(name, raw[name], err)
		}
	}
	cfg.Background = strings.TrimSpace(raw[OptBackground])
	cfg.Foreground = strings.TrimSpace(raw[OptForeground])
	cfg.ECLevel = qrimage.ParseLevel(raw[OptECLevel])

	return cfg, nil
}

func malformed(option, value string, cause error) error {
	b := errors.ConfigError(fmt.Sprintf("invalid value %q for option %s", value, option)).
		WithContext("option", option).
		WithContext("value", value)
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b.Build()
}

func optionNames() []string {
	names := make([]string, 0, len(optionSpecs))
	for _, opt := range optionSpecs {
		names = append(names, opt.Name)
	}
	return names
}
