package settings

import (
	"context"
	"testing"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func() context.Context
		wantOk   bool
		wantOut  string
	}{
		{
			name: "context_with_settings",
			setupCtx: func() context.Context {
				return IntoContext(context.Background(), &Run{Output: "json", Indexing: true})
			},
			wantOk:  true,
			wantOut: "json",
		},
		{
			name:     "context_without_settings",
			setupCtx: context.Background,
			wantOk:   false,
		},
		{
			name: "context_with_nil_settings",
			setupCtx: func() context.Context {
				return IntoContext(context.Background(), nil)
			},
			wantOk: false,
		},
		{
			name: "context_with_wrong_type",
			setupCtx: func() context.Context {
				return context.WithValue(context.Background(), runContextKey{}, "wrong type")
			},
			wantOk: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.setupCtx())
			if ok != tt.wantOk {
				t.Fatalf("FromContext() ok = %v; want %v", ok, tt.wantOk)
			}
			if ok && got.Output != tt.wantOut {
				t.Errorf("FromContext() Output = %q; want %q", got.Output, tt.wantOut)
			}
		})
	}
}

func TestIntoContextFromContextRoundtrip(t *testing.T) {
	s := &Run{Assert: "value == 1", IsQuiet: true}
	got, ok := FromContext(IntoContext(context.Background(), s))
	if !ok {
		t.Fatal("FromContext() failed to retrieve settings")
	}
	if got != s {
		t.Error("FromContext() returned a different pointer")
	}
}

func TestFromContextOrDefault(t *testing.T) {
	if got := FromContextOrDefault(context.Background()); got.Output != "auto" {
		t.Errorf("FromContextOrDefault() Output = %q; want auto", got.Output)
	}
	s := &Run{Output: "yaml"}
	if got := FromContextOrDefault(IntoContext(context.Background(), s)); got != s {
		t.Error("FromContextOrDefault() should return stored settings")
	}
}
