// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luthersystems/qrca/diagnostic"
	"github.com/luthersystems/qrca/rca"
)

// Option configures an exported command factory (CheckCommand,
// AnalyzeCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	v            *viper.Viper
	logger       *slog.Logger
	analyzerOpts []rca.Option
}

// WithViper reads settings from v instead of the global viper instance.
func WithViper(v *viper.Viper) Option {
	return func(c *cmdConfig) { c.v = v }
}

// WithLogger injects the logger handed to the analyzer.  Without it the
// logger is built from the log-level setting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *cmdConfig) { c.logger = logger }
}

// WithAnalyzerOptions appends options passed to every analyzer the
// command creates, for example a tracer provider.
func WithAnalyzerOptions(opts ...rca.Option) Option {
	return func(c *cmdConfig) { c.analyzerOpts = append(c.analyzerOpts, opts...) }
}

func newConfig(opts []Option) *cmdConfig {
	c := &cmdConfig{v: viper.GetViper()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// bind binds local flags of cmd to settings of the same name.
func (c *cmdConfig) bind(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := c.v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func (c *cmdConfig) newLogger(stderr io.Writer) (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	level := c.v.GetString("log-level")
	if level == "" {
		level = "warn"
	}
	return newLogger(stderr, level)
}

// analyzerOptions returns the analyzer options with the command logger.
func (c *cmdConfig) analyzerOptions(stderr io.Writer) ([]rca.Option, error) {
	logger, err := c.newLogger(stderr)
	if err != nil {
		return nil, err
	}
	return append([]rca.Option{rca.WithLogger(logger)}, c.analyzerOpts...), nil
}

func (c *cmdConfig) newRenderer(sources map[string]string) (*diagnostic.Renderer, error) {
	mode, err := diagnostic.ParseColorMode(c.v.GetString("color"))
	if err != nil {
		return nil, err
	}
	return &diagnostic.Renderer{Color: mode, SourceReader: diagnostic.MapReader(sources)}, nil
}
