// Package limiter trims list and map results to a window of records.
package limiter

import (
	"fmt"
	"reflect"
	"sort"
)

// Config holds the record window. Zero values disable a setting.
type Config struct {
	Limit  int // keep at most this many records
	Offset int // skip this many records first
	Tail   int // keep only the last N records; excludes Limit and ignores Offset
}

// Validate rejects negative values and Limit combined with Tail.
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive reports whether any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Apply returns the windowed records of a slice, array or string-keyed map.
// Maps are windowed over their sorted keys. Anything else is returned
// unchanged.
func (c Config) Apply(data any) any {
	if !c.IsActive() || data == nil {
		return data
	}

	rv := reflect.ValueOf(data)
	switch rv.Kind() { //nolint:exhaustive // scalars pass through
	case reflect.Slice:
		start, end := c.window(rv.Len())
		return rv.Slice(start, end).Interface()
	case reflect.Array:
		start, end := c.window(rv.Len())
		out := make([]any, 0, end-start)
		for i := start; i < end; i++ {
			out = append(out, rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return data
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		start, end := c.window(len(keys))

		out := reflect.MakeMapWithSize(rv.Type(), end-start)
		for _, k := range keys[start:end] {
			key := reflect.ValueOf(k).Convert(rv.Type().Key())
			out.SetMapIndex(key, rv.MapIndex(key))
		}
		return out.Interface()
	default:
		return data
	}
}

// window returns the [start, end) bounds for a collection of n records.
func (c Config) window(n int) (int, int) {
	if c.Tail > 0 {
		return max(n-c.Tail, 0), n
	}
	start := min(c.Offset, n)
	end := n
	if c.Limit > 0 {
		end = min(start+c.Limit, n)
	}
	return start, end
}
