package cel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

const indexFunction = "_[_]"

// RootPaths lists the dotted member paths expr reads from the document root,
// in the order they first appear. `_.items[0].name` yields "items.0.name".
// Presence tests such as has(_.a.b) are not reported.
func (e *Evaluator) RootPaths(expr string) ([]string, error) {
	ast, issues := e.env.Parse(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("parse error: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, err
	}

	var paths []string
	seen := map[string]bool{}
	walkRootPaths(parsed.GetExpr(), func(segs []string) {
		p := strings.Join(segs, ".")
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	})
	return paths, nil
}

func walkRootPaths(e *exprpb.Expr, emit func([]string)) {
	if e == nil {
		return
	}
	if segs, ok := rootChain(e); ok {
		if len(segs) > 0 {
			emit(segs)
		}
		return
	}

	switch k := e.ExprKind.(type) {
	case *exprpb.Expr_SelectExpr:
		if !k.SelectExpr.GetTestOnly() {
			walkRootPaths(k.SelectExpr.GetOperand(), emit)
		}
	case *exprpb.Expr_CallExpr:
		walkRootPaths(k.CallExpr.GetTarget(), emit)
		for _, arg := range k.CallExpr.GetArgs() {
			walkRootPaths(arg, emit)
		}
	case *exprpb.Expr_ListExpr:
		for _, elem := range k.ListExpr.GetElements() {
			walkRootPaths(elem, emit)
		}
	case *exprpb.Expr_StructExpr:
		for _, entry := range k.StructExpr.GetEntries() {
			walkRootPaths(entry.GetMapKey(), emit)
			walkRootPaths(entry.GetValue(), emit)
		}
	case *exprpb.Expr_ComprehensionExpr:
		c := k.ComprehensionExpr
		walkRootPaths(c.GetIterRange(), emit)
		walkRootPaths(c.GetAccuInit(), emit)
		walkRootPaths(c.GetLoopCondition(), emit)
		walkRootPaths(c.GetLoopStep(), emit)
		walkRootPaths(c.GetResult(), emit)
	}
}

// rootChain reports the segments of a select/index chain that starts at the
// root variable.
func rootChain(e *exprpb.Expr) ([]string, bool) {
	switch k := e.ExprKind.(type) {
	case *exprpb.Expr_IdentExpr:
		return nil, k.IdentExpr.GetName() == RootVar
	case *exprpb.Expr_SelectExpr:
		if k.SelectExpr.GetTestOnly() {
			return nil, false
		}
		segs, ok := rootChain(k.SelectExpr.GetOperand())
		if !ok {
			return nil, false
		}
		return append(segs, k.SelectExpr.GetField()), true
	case *exprpb.Expr_CallExpr:
		call := k.CallExpr
		if call.GetFunction() != indexFunction || len(call.GetArgs()) != 2 {
			return nil, false
		}
		seg, ok := constSegment(call.GetArgs()[1].GetConstExpr())
		if !ok {
			return nil, false
		}
		segs, ok := rootChain(call.GetArgs()[0])
		if !ok {
			return nil, false
		}
		return append(segs, seg), true
	}
	return nil, false
}

func constSegment(c *exprpb.Constant) (string, bool) {
	if c == nil {
		return "", false
	}
	switch v := c.ConstantKind.(type) {
	case *exprpb.Constant_StringValue:
		return v.StringValue, true
	case *exprpb.Constant_Int64Value:
		return strconv.FormatInt(v.Int64Value, 10), true
	case *exprpb.Constant_Uint64Value:
		return strconv.FormatUint(v.Uint64Value, 10), true
	}
	return "", false
}
