package cel

import (
	"errors"
	"testing"

	"github.com/google/cel-go/common/types"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	eval, err := NewEvaluator()
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	return eval
}

func TestCheck(t *testing.T) {
	root := map[string]any{
		"user": map[string]any{"name": "Ada", "roles": []any{"admin", "dev"}},
	}
	tests := []struct {
		name  string
		expr  string
		value any
		want  bool
	}{
		{name: "equality", expr: `value == "Ada"`, value: "Ada", want: true},
		{name: "strings_ext", expr: `value.lowerAscii() == "ada"`, value: "Ada", want: true},
		{name: "int_compare", expr: `value > 40`, value: 42, want: true},
		{name: "root_access", expr: `size(_.user.roles) == 2`, value: nil, want: true},
		{name: "list_membership", expr: `"admin" in value`, value: []any{"admin"}, want: true},
		{name: "false_result", expr: `value == "Grace"`, value: "Ada", want: false},
	}
	eval := newTestEvaluator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Check(tt.expr, root, tt.value)
			if err != nil {
				t.Fatalf("Check(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Check(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCheckNonBool(t *testing.T) {
	_, err := newTestEvaluator(t).Check(`value + 1`, nil, 1)
	if !errors.Is(err, ErrNotBool) {
		t.Fatalf("expected ErrNotBool, got %v", err)
	}
}

func TestCheckCompileError(t *testing.T) {
	_, err := newTestEvaluator(t).Check(`value ==`, nil, 1)
	if err == nil {
		t.Fatal("expected compilation error")
	}
}

func TestEvaluateConvertsCollections(t *testing.T) {
	out, err := newTestEvaluator(t).Evaluate(`{"a": [1, 2]}`, nil, nil)
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	m, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", out)
	}
	list, ok := m["a"].([]any)
	if !ok || len(list) != 2 || list[0] != int64(1) {
		t.Fatalf("unexpected list: %#v", m["a"])
	}
}

func TestToGoScalars(t *testing.T) {
	if got := ToGo(types.String("x")); got != "x" {
		t.Errorf("ToGo(String) = %v", got)
	}
	if got := ToGo(types.Int(3)); got != int64(3) {
		t.Errorf("ToGo(Int) = %v", got)
	}
	if got := ToGo(types.NullValue); got != nil {
		t.Errorf("ToGo(Null) = %v", got)
	}
	if got := ToGo(nil); got != nil {
		t.Errorf("ToGo(nil) = %v", got)
	}
}
