package cel

import (
	"reflect"
	"testing"
)

func TestRootPaths(t *testing.T) {
	eval := newTestEvaluator(t)
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{name: "select_chain", expr: `_.user.name == "Ada"`, want: []string{"user.name"}},
		{name: "constant_index", expr: `_.items[0].id > 0`, want: []string{"items.0.id"}},
		{name: "string_index", expr: `_["user"].name != ""`, want: []string{"user.name"}},
		{name: "dynamic_index", expr: `_.items[_.idx].id > 0`, want: []string{"items", "idx"}},
		{name: "value_only", expr: `value > 3`, want: nil},
		{name: "bare_root", expr: `size(_) > 0`, want: nil},
		{name: "dedupe", expr: `_.a.b == 1 || _.a.b == 2`, want: []string{"a.b"}},
		{name: "presence_test_skipped", expr: `has(_.a.b) && _.c == 1`, want: []string{"c"}},
		{name: "method_target", expr: `_.user.name.startsWith("A")`, want: []string{"user.name"}},
		{name: "comprehension_range", expr: `_.items.all(i, i.id > 0)`, want: []string{"items"}},
		{name: "list_and_map", expr: `[_.a, {"k": _.b}].size() == 2`, want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.RootPaths(tt.expr)
			if err != nil {
				t.Fatalf("RootPaths(%q) error: %v", tt.expr, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RootPaths(%q) = %#v, want %#v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestRootPathsParseError(t *testing.T) {
	eval := newTestEvaluator(t)
	if _, err := eval.RootPaths(`_.a ==`); err == nil {
		t.Fatal("expected parse error")
	}
}
