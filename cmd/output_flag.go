package cmd

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/oakwood-commons/kvpath/internal/formatter"
)

// formatFlag validates --output while flags are parsed.
type formatFlag struct {
	mode formatter.Mode
}

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(f.mode) }

func (f *formatFlag) Set(s string) error {
	m, err := formatter.ParseMode(s)
	if err != nil {
		return err
	}
	f.mode = m
	return nil
}

func (f *formatFlag) Type() string { return "format" }

func formatNames() string {
	names := make([]string, len(formatter.Modes))
	for i, m := range formatter.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}
