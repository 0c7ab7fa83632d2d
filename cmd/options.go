// Copyright © 2024 The ELPS authors

package cmd

import (
	"strings"

	"github.com/luthersystems/jsltcheck/analysis"
	"github.com/luthersystems/jsltcheck/lint"
)

// Option configures an exported command factory (LintCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	builtins  []string
	analyzers []*lint.Analyzer
}

// WithBuiltins adds function names an embedding JSLT runtime provides on
// top of the standard library, so calls to them are not reported as
// undefined.
func WithBuiltins(names ...string) Option {
	return func(c *cmdConfig) { c.builtins = append(c.builtins, names...) }
}

// WithAnalyzers registers extra checks that run after the default ones.
// They can be selected with --checks like any default check.
func WithAnalyzers(analyzers ...*lint.Analyzer) Option {
	return func(c *cmdConfig) { c.analyzers = append(c.analyzers, analyzers...) }
}

func newCmdConfig(opts []Option) *cmdConfig {
	var c cmdConfig
	for _, o := range opts {
		o(&c)
	}
	return &c
}

// builtinSet merges the standard catalog, embedder builtins and the
// configured extra names.
func (c *cmdConfig) builtinSet(extra []string) analysis.BuiltinSet {
	return analysis.DefaultBuiltins().With(c.builtins...).With(extra...)
}

// selectAnalyzers resolves check names against the default and embedder
// analyzers.  No names selects all of them.
func (c *cmdConfig) selectAnalyzers(names []string) ([]*lint.Analyzer, error) {
	var defaults []string
	extra := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if c.isExtra(name) {
			extra[name] = true
			continue
		}
		defaults = append(defaults, name)
	}
	if len(defaults) == 0 && len(extra) == 0 {
		all := lint.DefaultAnalyzers()
		return append(all, c.analyzers...), nil
	}
	var selected []*lint.Analyzer
	if len(defaults) > 0 {
		var err error
		selected, err = lint.SelectAnalyzers(defaults)
		if err != nil {
			return nil, err
		}
	}
	for _, a := range c.analyzers {
		if extra[a.Name] {
			selected = append(selected, a)
		}
	}
	return selected, nil
}

func (c *cmdConfig) isExtra(name string) bool {
	for _, a := range c.analyzers {
		if a.Name == name {
			return true
		}
	}
	return false
}

// allAnalyzers lists every analyzer the command knows, defaults first.
func (c *cmdConfig) allAnalyzers() []*lint.Analyzer {
	return append(lint.DefaultAnalyzers(), c.analyzers...)
}
