package cmd

import (
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/kvpath/pkg/loader"
	"github.com/oakwood-commons/kvpath/pkg/resolve"
)

// decodeAdapter lets a walk continue into a string that holds a serialized
// document, such as a JSON annotation or a bearer token. The decoded
// document is looked up with inner; strings it contains are decoded again
// on the next step.
func decodeAdapter(inner *resolve.Resolver, lgr logr.Logger) resolve.Adapter {
	return func(v any) (resolve.Lookup, bool) {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		doc, ok := loader.TryDecode(s)
		if !ok {
			return nil, false
		}
		lgr.V(1).Info("decoded embedded document", "bytes", len(s), "format", string(loader.Detect(s)))
		return resolve.LookupFunc(func(name string) (any, error) {
			return inner.Resolve(doc, name)
		}), true
	}
}
