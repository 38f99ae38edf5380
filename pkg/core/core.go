// Package core is the library entry point for kvpath: load a document,
// resolve a member path in it, check a CEL predicate and render the result.
package core

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/kvpath/internal/cel"
	"github.com/oakwood-commons/kvpath/internal/formatter"
	"github.com/oakwood-commons/kvpath/pkg/loader"
	"github.com/oakwood-commons/kvpath/pkg/resolve"
)

// ErrAssertionFailed is returned by Assert when the predicate is false.
var ErrAssertionFailed = errors.New("assertion failed")

// Evaluator checks a boolean predicate over the document root and a value.
type Evaluator interface {
	Check(expr string, root, value any) (bool, error)
}

// Formatter renders a value in a named output mode.
type Formatter interface {
	Render(v any, mode string) (string, error)
	Stringify(v any) string
}

// Engine bundles the pieces the CLI uses so other programs can do the same.
type Engine struct {
	Resolver  *resolve.Resolver
	Evaluator Evaluator
	Formatter Formatter
}

// Option configures the Engine.
type Option func(*Engine)

// WithResolver replaces the default path resolver.
func WithResolver(r *resolve.Resolver) Option {
	return func(e *Engine) {
		e.Resolver = r
	}
}

// WithEvaluator sets a custom predicate evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) {
		e.Evaluator = ev
	}
}

// WithFormatter sets a custom formatter.
func WithFormatter(f Formatter) Option {
	return func(e *Engine) {
		e.Formatter = f
	}
}

// New creates an Engine, filling in a plain resolver, the CEL evaluator and
// the built-in formatter for anything not supplied.
func New(opts ...Option) (*Engine, error) {
	engine := &Engine{}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.Resolver == nil {
		engine.Resolver = resolve.New()
	}
	if engine.Evaluator == nil {
		eval, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		engine.Evaluator = eval
	}
	if engine.Formatter == nil {
		engine.Formatter = defaultFormatter{}
	}
	return engine, nil
}

// LoadRoot parses input into a single root; multi-document input returns a slice.
func LoadRoot(input string) (any, error) {
	return loader.LoadRoot(input)
}

// LoadFile reads a file and parses it into a single root.
func LoadFile(path string) (any, error) {
	return loader.LoadFile(path)
}

// LoadFileWithLogger is LoadFile with the detected format logged at V(1).
func LoadFileWithLogger(path string, lgr logr.Logger) (any, error) {
	return loader.LoadFileWithLogger(path, lgr)
}

// LoadObject parses strings and byte slices and returns anything else as-is,
// so Go values can be resolved directly.
func LoadObject(value any) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("object input is nil")
	}
	switch v := value.(type) {
	case string:
		return loader.LoadRoot(v)
	case []byte:
		return loader.LoadRootBytes(v)
	default:
		return value, nil
	}
}

// Resolve walks path from root.
func (e *Engine) Resolve(root any, path string) (any, error) {
	return e.Resolver.Resolve(root, path)
}

// Assert returns nil when expr holds for value, ErrAssertionFailed when it
// does not, and the evaluation error otherwise.
func (e *Engine) Assert(expr string, root, value any) error {
	ok, err := e.Evaluator.Check(expr, root, value)
	if err != nil {
		return fmt.Errorf("assert %q: %w", expr, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAssertionFailed, expr)
	}
	return nil
}

// Render encodes v; mode is one of auto, raw, json, yaml, toml or tree.
func (e *Engine) Render(v any, mode string) (string, error) {
	return e.Formatter.Render(v, mode)
}

// Stringify renders v as a single line.
func (e *Engine) Stringify(v any) string {
	return e.Formatter.Stringify(v)
}

type defaultFormatter struct{}

func (defaultFormatter) Render(v any, mode string) (string, error) {
	m, err := formatter.ParseMode(mode)
	if err != nil {
		return "", err
	}
	return formatter.Render(v, formatter.Options{Mode: m, YAML: formatter.DefaultYAMLOptions()})
}

func (defaultFormatter) Stringify(v any) string {
	return formatter.Stringify(v)
}
