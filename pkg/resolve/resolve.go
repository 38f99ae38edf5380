// Package resolve walks dot-delimited member paths through Go values.
//
// Each segment of a path is looked up as a named member of the value produced
// by the previous segment, starting from the root. Values that implement
// Lookup answer for themselves; everything else goes through a reflective
// lookup over struct fields, string-keyed maps and zero-argument getters.
//
//	v, err := resolve.Resolve(root, "user.name")
//
// The first missing segment ends the walk and its error is returned as-is.
package resolve

import (
	"strings"

	"github.com/go-logr/logr"
)

// Separator splits a path into segments.
const Separator = "."

// Resolver resolves paths. The zero value is ready to use; a Resolver is
// safe for concurrent use once built.
type Resolver struct {
	adapters []Adapter
	indexing bool
	log      logr.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIndexing lets numeric segments index into slices and arrays.
func WithIndexing(enabled bool) Option {
	return func(r *Resolver) {
		r.indexing = enabled
	}
}

// WithAdapter registers a hook that can turn cursors into a Lookup before
// the reflective fallback runs. Adapters are tried in registration order.
func WithAdapter(a Adapter) Option {
	return func(r *Resolver) {
		if a != nil {
			r.adapters = append(r.adapters, a)
		}
	}
}

// WithLogger traces every step at V(1).
func WithLogger(lgr logr.Logger) Option {
	return func(r *Resolver) {
		r.log = lgr
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{log: logr.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = New()

// Resolve resolves path against root with the default Resolver.
func Resolve(root any, path string) (any, error) {
	return defaultResolver.Resolve(root, path)
}

// Split returns the segments of path. An empty path is one empty segment.
func Split(path string) []string {
	return strings.Split(path, Separator)
}

// Resolve returns the value reached by looking up every segment of path in
// turn, starting at root.
func (r *Resolver) Resolve(root any, path string) (any, error) {
	cur := root
	for i, seg := range Split(path) {
		next, err := r.step(cur, seg)
		if err != nil {
			r.log.V(1).Info("lookup failed", "path", path, "step", i, "segment", seg, "error", err.Error())
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Trace resolves path like Resolve but returns every cursor visited, root
// first and the terminal value last.
func (r *Resolver) Trace(root any, path string) ([]any, error) {
	segs := Split(path)
	trace := make([]any, 0, len(segs)+1)
	trace = append(trace, root)
	for _, seg := range segs {
		next, err := r.step(trace[len(trace)-1], seg)
		if err != nil {
			return nil, err
		}
		trace = append(trace, next)
	}
	return trace, nil
}

// Has reports whether path resolves against root.
func (r *Resolver) Has(root any, path string) bool {
	_, err := r.Resolve(root, path)
	return err == nil
}

func (r *Resolver) step(cur any, seg string) (any, error) {
	v, err := r.lookup(cur).Get(seg)
	if err != nil {
		return nil, err
	}
	if r.log.V(1).Enabled() {
		r.log.V(1).Info("resolved segment", "segment", seg, "type", typeName(v))
	}
	return v, nil
}

func (r *Resolver) lookup(v any) Lookup {
	if l, ok := v.(Lookup); ok {
		return l
	}
	for _, a := range r.adapters {
		if l, ok := a(v); ok {
			return l
		}
	}
	return memberLookup{value: v, indexing: r.indexing}
}

// ResolveAs resolves path and asserts the terminal value to T.
func ResolveAs[T any](r *Resolver, root any, path string) (T, error) {
	var zero T
	if r == nil {
		r = defaultResolver
	}
	v, err := r.Resolve(root, path)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &TypeError{Path: path, Want: typeNameOf[T](), Got: typeName(v)}
	}
	return typed, nil
}

func typeNameOf[T any]() string {
	var p *T
	return strings.TrimPrefix(typeName(p), "*")
}
