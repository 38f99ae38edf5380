// Package formatter renders resolved values for the CLI.
package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Mode selects the output encoding.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeRaw  Mode = "raw"
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
	ModeTOML Mode = "toml"
	ModeTree Mode = "tree"
)

// Modes lists every accepted mode in help order.
var Modes = []Mode{ModeAuto, ModeRaw, ModeJSON, ModeYAML, ModeTOML, ModeTree}

// ErrTOMLNeedsTable is returned when a non-map value is rendered as TOML.
var ErrTOMLNeedsTable = errors.New("toml output requires a map value")

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	names := make([]string, len(Modes))
	for i, known := range Modes {
		names[i] = string(known)
	}
	return "", fmt.Errorf("unknown output format %q (want %s)", s, strings.Join(names, "|"))
}

// Options configure Render.
type Options struct {
	Mode Mode
	// Terminal reports whether output goes to a TTY; auto mode uses YAML
	// for collections on a terminal and JSON otherwise.
	Terminal bool
	YAML     YAMLFormatOptions
}

// Render encodes v. The result always ends with a newline.
func Render(v any, opts Options) (string, error) {
	mode := opts.Mode
	if mode == "" || mode == ModeAuto {
		mode = autoMode(v, opts.Terminal)
	}

	var out string
	switch mode {
	case ModeRaw:
		out = Stringify(v)
	case ModeJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		out = string(b)
	case ModeYAML:
		s, err := FormatYAML(v, opts.YAML)
		if err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		out = s
	case ModeTOML:
		if reflect.Indirect(reflect.ValueOf(v)).Kind() != reflect.Map {
			return "", ErrTOMLNeedsTable
		}
		b, err := toml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode toml: %w", err)
		}
		out = string(b)
	case ModeTree:
		out = FormatTree(v)
	default:
		return "", fmt.Errorf("unknown output format %q", mode)
	}

	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

func autoMode(v any, terminal bool) Mode {
	if !IsCollection(v) {
		return ModeRaw
	}
	if terminal {
		return ModeYAML
	}
	return ModeJSON
}

// IsCollection reports whether v is a map, slice, array or struct (through pointers).
func IsCollection(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() { //nolint:exhaustive // everything else is a scalar
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		_, isBytes := v.([]byte)
		return !isBytes
	default:
		return false
	}
}

// Stringify returns a single-value rendering: scalars as plain text,
// collections as compact JSON, nil as "null".
func Stringify(v any) string {
	if v == nil {
		return "null"
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "null"
		}
		if !IsCollection(v) {
			return Stringify(rv.Elem().Interface())
		}
	}
	if IsCollection(v) {
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// SortedKeys returns the keys of a string-keyed map in ascending order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
