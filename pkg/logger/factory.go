package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Environment names the deployment a logger preset targets.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Option configures New.
type Option func(*options)

type options struct {
	level          slog.Level
	format         Format
	output         io.Writer
	attrs          []slog.Attr
	handlerOptions *slog.HandlerOptions
	extractors     []ContextExtractor
}

// WithLevel sets the minimum level.
func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = l }
}

// WithFormat sets the output format. It panics on an unknown format so a
// misconfigured service fails at startup.
func WithFormat(f Format) Option {
	return func(o *options) {
		switch f {
		case FormatJSON, FormatText:
			o.format = f
		default:
			panic(fmt.Errorf("logger: unknown format %q, expected %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput redirects records to w. Nil is ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithHandlerOptions replaces the slog handler options, including the level.
func WithHandlerOptions(ho *slog.HandlerOptions) Option {
	return func(o *options) {
		if ho != nil {
			o.handlerOptions = ho
		}
	}
}

// WithAttr attaches static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// WithContextExtractors registers extractors that add attributes from the
// context of each record, e.g. transaction.LoggerExtractor.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		for _, ex := range extractors {
			if ex != nil {
				o.extractors = append(o.extractors, ex)
			}
		}
	}
}

// WithEnvironment applies the preset for env and tags records with the
// service name. Unknown environments fall back to development.
//
//	development: text, debug
//	staging, production: json, info
func WithEnvironment(env Environment, service string) Option {
	return func(o *options) {
		switch env {
		case Production, Staging:
			o.level = slog.LevelInfo
			o.format = FormatJSON
		default:
			env = Development
			o.level = slog.LevelDebug
			o.format = FormatText
		}
		if service != "" {
			o.attrs = append(o.attrs, slog.String("service", service))
		}
		o.attrs = append(o.attrs, slog.String("env", string(env)))
	}
}

// New builds a logger. Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	ho := o.handlerOptions
	if ho == nil {
		ho = &slog.HandlerOptions{Level: o.level}
	}

	var h slog.Handler = slog.NewJSONHandler(o.output, ho)
	if o.format == FormatText {
		h = slog.NewTextHandler(o.output, ho)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}

	return slog.New(NewLogHandlerDecorator(h, o.extractors...))
}

// Config is the environment-driven logger configuration.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"SERVICE_NAME" envDefault:"entityhubd"`
	Level   string `env:"LOG_LEVEL"`
	Format  string `env:"LOG_FORMAT"`
}

// NewFromConfig applies the environment preset, then explicit level and
// format overrides, then opts.
func NewFromConfig(cfg Config, opts ...Option) (*slog.Logger, error) {
	base := []Option{WithEnvironment(Environment(strings.ToLower(cfg.Env)), cfg.Service)}

	if cfg.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
		}
		base = append(base, WithLevel(lvl))
	}

	if cfg.Format != "" {
		f := Format(strings.ToLower(cfg.Format))
		if f != FormatJSON && f != FormatText {
			return nil, fmt.Errorf("logger: invalid format %q", cfg.Format)
		}
		base = append(base, WithFormat(f))
	}

	return New(append(base, opts...)...), nil
}

// SetAsDefault installs l as the process-wide slog default.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}
