package resolve

// Lookup is the member-access capability the resolver walks over.
// Get returns the member called name, or an error when there is none.
type Lookup interface {
	Get(name string) (any, error)
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc func(name string) (any, error)

func (f LookupFunc) Get(name string) (any, error) {
	return f(name)
}

// Attrs is a Lookup backed by a string-keyed map.
type Attrs map[string]any

func (a Attrs) Get(name string) (any, error) {
	v, ok := a[name]
	if !ok {
		return nil, attrError(a, name)
	}
	return v, nil
}

// Adapter turns an arbitrary cursor into a Lookup. It returns false when it
// does not handle the value, so the next adapter (or the reflective default)
// is tried.
type Adapter func(v any) (Lookup, bool)
