package settings

import (
	"testing"
)

func TestNewCliParams(t *testing.T) {
	want := Run{
		MinLogLevel: 0,
		Input:       InputSettings{FromStdin: true},
		Output:      "auto",
		ExitOnError: true,
	}
	got := NewCliParams()
	if *got != want {
		t.Errorf("NewCliParams() = %+v, want %+v", got, want)
	}
	if NewCliParams() == got {
		t.Error("NewCliParams() should return a fresh value on every call")
	}
}

func TestVersionInformationDefaults(t *testing.T) {
	if VersionInformation.BuildVersion == "" {
		t.Error("BuildVersion should have a default")
	}
	if CliBinaryName != "kvpath" {
		t.Errorf("CliBinaryName = %q", CliBinaryName)
	}
}
