package resolve

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type user struct {
	Name  string
	Email *string `json:"email,omitempty"`
}

type account struct {
	User  *user
	Owner user `json:"owner" yaml:"account_owner"`
	Tags  map[string]string
	Items []string
	note  string
}

func (a account) Summary() string { return "account of " + a.User.Name }

func (a *account) Count() int { return len(a.Items) }

func (a account) Failing() (string, error) { return "", errGetter }

func (a account) WithArgs(n int) int { return n }

var errGetter = errors.New("getter failed")

func newAccount() *account {
	return &account{
		User:  &user{Name: "Ada"},
		Owner: user{Name: "Grace"},
		Tags:  map[string]string{"env": "prod"},
		Items: []string{"a", "b"},
		note:  "hidden",
	}
}

func TestResolveScenarioUserName(t *testing.T) {
	root := Attrs{"user": Attrs{"name": "Ada"}}
	got, err := Resolve(root, "user.name")
	require.NoError(t, err)
	require.Equal(t, "Ada", got)
}

func TestResolveScenarioMissingEmail(t *testing.T) {
	root := Attrs{"user": Attrs{"name": "Ada"}}
	_, err := Resolve(root, "user.email")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAttributeNotFound)

	var attrErr *AttributeError
	require.ErrorAs(t, err, &attrErr)
	require.Equal(t, "email", attrErr.Name)
}

func TestResolveScenarioDeepChain(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": map[string]any{"d": 42},
			},
		},
	}
	got, err := Resolve(root, "a.b.c.d")
	require.NoError(t, err)
	require.Equal(t, 42, got)
}

func TestResolveSingleSegmentMatchesDirectAccess(t *testing.T) {
	acct := newAccount()
	got, err := Resolve(acct, "User")
	require.NoError(t, err)
	require.Same(t, acct.User, got)
}

func TestResolveChainMatchesDirectAccess(t *testing.T) {
	acct := newAccount()
	got, err := Resolve(acct, "User.Name")
	require.NoError(t, err)
	require.Equal(t, acct.User.Name, got)
}

func TestResolveOrderSensitive(t *testing.T) {
	root := Attrs{
		"a": Attrs{"b": "ab"},
		"b": Attrs{"a": "ba"},
	}
	ab, err := Resolve(root, "a.b")
	require.NoError(t, err)
	ba, err := Resolve(root, "b.a")
	require.NoError(t, err)
	require.NotEqual(t, ab, ba)
}

func TestResolveStopsAtFirstMissingSegment(t *testing.T) {
	root := Attrs{
		"a":       Attrs{"x": 1},
		"missing": Attrs{"c": "exists elsewhere"},
	}
	_, err := Resolve(root, "a.missing.c")
	var attrErr *AttributeError
	require.ErrorAs(t, err, &attrErr)
	require.Equal(t, "missing", attrErr.Name)
}

func TestResolveHasNoSideEffects(t *testing.T) {
	root := map[string]any{"user": map[string]any{"name": "Ada"}}
	before := map[string]any{"user": map[string]any{"name": "Ada"}}

	first, err := Resolve(root, "user.name")
	require.NoError(t, err)
	second, err := Resolve(root, "user.name")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.True(t, reflect.DeepEqual(before, root))
}

func TestResolveEmptyPathFails(t *testing.T) {
	root := Attrs{"a": 1}
	_, err := Resolve(root, "")
	require.ErrorIs(t, err, ErrAttributeNotFound)

	_, err = Resolve(newAccount(), "")
	require.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestResolveEmptyMiddleSegmentFails(t *testing.T) {
	root := Attrs{"a": Attrs{"b": 1}}
	_, err := Resolve(root, "a..b")
	require.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestResolveEmptyKeyIsAMember(t *testing.T) {
	root := map[string]any{"": "blank"}
	got, err := Resolve(root, "")
	require.NoError(t, err)
	require.Equal(t, "blank", got)
}

func TestResolveStructMembers(t *testing.T) {
	tests := []struct {
		name string
		path string
		want any
	}{
		{name: "field_by_name", path: "Owner.Name", want: "Grace"},
		{name: "json_tag", path: "owner.Name", want: "Grace"},
		{name: "yaml_tag", path: "account_owner.Name", want: "Grace"},
		{name: "typed_map_key", path: "Tags.env", want: "prod"},
		{name: "value_getter", path: "Summary", want: "account of Ada"},
		{name: "pointer_getter", path: "Count", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(newAccount(), tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePointerGetterOnValue(t *testing.T) {
	acct := *newAccount()
	got, err := Resolve(acct, "Count")
	require.NoError(t, err)
	require.Equal(t, 2, got)
	require.Len(t, acct.Items, 2)
}

func TestResolveStructMissingMembers(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "unexported_field", path: "note"},
		{name: "unknown_field", path: "Nope"},
		{name: "method_with_args", path: "WithArgs"},
		{name: "missing_map_key", path: "Tags.region"},
		{name: "slice_without_indexing", path: "Items.0"},
		{name: "scalar_has_no_members", path: "Owner.Name.Length"},
		{name: "nil_pointer_field", path: "User.Email.Domain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(newAccount(), tt.path)
			require.ErrorIs(t, err, ErrAttributeNotFound)
		})
	}
}

func TestResolveGetterErrorPropagates(t *testing.T) {
	_, err := Resolve(newAccount(), "Failing")
	require.Same(t, errGetter, err)
}

func TestResolveLookupErrorReturnedVerbatim(t *testing.T) {
	sentinel := errors.New("denied")
	root := Attrs{"guarded": LookupFunc(func(string) (any, error) {
		return nil, sentinel
	})}
	_, err := Resolve(root, "guarded.anything")
	require.Same(t, sentinel, err)
}

func TestResolveNilRoot(t *testing.T) {
	_, err := Resolve(nil, "a")
	var attrErr *AttributeError
	require.ErrorAs(t, err, &attrErr)
	require.Equal(t, "nil", attrErr.Type)
}

func TestResolverIndexing(t *testing.T) {
	r := New(WithIndexing(true))
	got, err := r.Resolve(newAccount(), "Items.1")
	require.NoError(t, err)
	require.Equal(t, "b", got)

	_, err = r.Resolve(newAccount(), "Items.2")
	require.ErrorIs(t, err, ErrAttributeNotFound)
	_, err = r.Resolve(newAccount(), "Items.-1")
	require.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestResolverAdapter(t *testing.T) {
	type opaque struct{ secret string }
	r := New(WithAdapter(func(v any) (Lookup, bool) {
		o, ok := v.(opaque)
		if !ok {
			return nil, false
		}
		return Attrs{"secret": o.secret}, true
	}))
	got, err := r.Resolve(Attrs{"box": opaque{secret: "s3cr3t"}}, "box.secret")
	require.NoError(t, err)
	require.Equal(t, "s3cr3t", got)
}

func TestResolverTrace(t *testing.T) {
	root := Attrs{"a": Attrs{"b": "leaf"}}
	trace, err := New().Trace(root, "a.b")
	require.NoError(t, err)
	require.Len(t, trace, 3)
	require.Equal(t, "leaf", trace[2])

	_, err = New().Trace(root, "a.c")
	require.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestResolverHas(t *testing.T) {
	var r Resolver
	root := Attrs{"a": Attrs{"b": nil}}
	require.True(t, r.Has(root, "a.b"))
	require.False(t, r.Has(root, "a.b.c"))
}

func TestResolveAs(t *testing.T) {
	acct := newAccount()
	name, err := ResolveAs[string](nil, acct, "User.Name")
	require.NoError(t, err)
	require.Equal(t, "Ada", name)

	_, err = ResolveAs[int](nil, acct, "User.Name")
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, "int", typeErr.Want)
	require.Equal(t, "string", typeErr.Got)
}

func TestResolveConcurrentUse(t *testing.T) {
	r := New(WithIndexing(true))
	root := map[string]any{"items": []any{map[string]any{"id": 7}}}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := r.Resolve(root, "items.0.id")
			if err != nil || v != 7 {
				t.Errorf("Resolve() = %v, %v", v, err)
			}
		}()
	}
	wg.Wait()
}

func TestAttributeErrorMessage(t *testing.T) {
	err := &AttributeError{Type: "resolve.Attrs", Name: "email"}
	require.Equal(t, "'resolve.Attrs' object has no attribute 'email'", err.Error())
}
