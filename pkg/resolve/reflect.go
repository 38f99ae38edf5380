package resolve

import (
	"reflect"
	"strconv"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// memberLookup is the reflective fallback used for cursors that do not
// implement Lookup themselves.
type memberLookup struct {
	value    any
	indexing bool
}

func (m memberLookup) Get(name string) (any, error) {
	return member(m.value, name, m.indexing)
}

// Member looks up name on v the same way Resolve does for a single segment:
// struct field, json/yaml tag, string map key, then zero-argument getter.
func Member(v any, name string) (any, error) {
	return member(v, name, false)
}

func member(v any, name string, indexing bool) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, attrError(v, name)
	}

	elem := rv
	for elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Interface {
		if elem.IsNil() {
			return nil, attrError(v, name)
		}
		elem = elem.Elem()
	}

	switch elem.Kind() { //nolint:exhaustive // only kinds that carry members
	case reflect.Struct:
		if field, ok := structField(elem, name); ok {
			return field.Interface(), nil
		}
	case reflect.Map:
		if elem.Type().Key().Kind() == reflect.String {
			value := elem.MapIndex(reflect.ValueOf(name).Convert(elem.Type().Key()))
			if value.IsValid() {
				return value.Interface(), nil
			}
		}
	case reflect.Slice, reflect.Array:
		if indexing {
			if idx, err := strconv.Atoi(name); err == nil && idx >= 0 && idx < elem.Len() {
				return elem.Index(idx).Interface(), nil
			}
		}
	}

	return getter(v, rv, elem, name)
}

// structField finds an exported field by Go name (including promoted fields)
// and then by json or yaml tag name.
func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	typ := rv.Type()
	if sf, ok := typ.FieldByName(name); ok && sf.IsExported() {
		field, err := rv.FieldByIndexErr(sf.Index)
		if err == nil {
			return field, true
		}
	}
	if name == "" {
		return reflect.Value{}, false
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tagName(sf.Tag.Get("json")) == name || tagName(sf.Tag.Get("yaml")) == name {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tagName(tag string) string {
	n := strings.Split(tag, ",")[0]
	if n == "-" {
		return ""
	}
	return n
}

// getter calls an exported zero-argument method returning T or (T, error).
// Methods declared on the pointer receiver are reached through a copy when v
// was passed by value; v itself is never modified.
func getter(v any, rv, elem reflect.Value, name string) (any, error) {
	if name == "" {
		return nil, attrError(v, name)
	}
	m := rv.MethodByName(name)
	if !m.IsValid() && rv.Kind() != reflect.Pointer {
		p := reflect.New(elem.Type())
		p.Elem().Set(elem)
		m = p.MethodByName(name)
	}
	if !m.IsValid() || !isGetter(m.Type()) {
		return nil, attrError(v, name)
	}

	out := m.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

func isGetter(t reflect.Type) bool {
	if t.NumIn() != 0 {
		return false
	}
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errorType
	default:
		return false
	}
}
