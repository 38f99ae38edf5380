package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/kvpath/internal/formatter"
	"github.com/oakwood-commons/kvpath/pkg/logger"
	"github.com/oakwood-commons/kvpath/pkg/resolve"
	"github.com/oakwood-commons/kvpath/pkg/settings"
)

const traceValueWidth = 60

func newTraceCmd(opts *rootOptions) *cobra.Command {
	traceCmd := &cobra.Command{
		Use:   "trace <path> [file]",
		Short: "Show the value reached after every segment of a path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			run := settings.FromContextOrDefault(ctx)
			lgr := logger.FromContext(ctx)

			path := args[0]
			if len(args) == 2 {
				run.Input = settings.InputSettings{Path: args[1], FromStdin: args[1] == "-"}
			}
			root, err := loadInput(cmd, run.Input, *lgr)
			if err != nil {
				return err
			}

			r := newResolver(run, *lgr)
			steps, err := r.Trace(root, path)
			if err != nil {
				return resolveFailure(r, root, path, err)
			}
			return writeTrace(cmd, resolve.Split(path), steps)
		},
	}
	traceCmd.Flags().BoolVar(&opts.indexing, "index", false, "let numeric segments index into lists (default from config)")
	traceCmd.Flags().BoolVar(&opts.decode, "decode", false, "continue into strings holding serialized documents (default from config)")
	return traceCmd
}

// writeTrace prints one row per cursor: the path walked so far, the Go type
// and a shortened rendering of the value.
func writeTrace(cmd *cobra.Command, segs []string, steps []any) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tPATH\tTYPE\tVALUE")
	for i, v := range steps {
		at := "(root)"
		if i > 0 {
			at = strings.Join(segs[:i], resolve.Separator)
		}
		fmt.Fprintf(tw, "%d\t%s\t%T\t%s\n", i, at, v, shorten(formatter.Stringify(v), traceValueWidth))
	}
	return tw.Flush()
}

// shorten truncates by display width so wide runes do not break alignment.
func shorten(s string, n int) string {
	return runewidth.Truncate(strings.ReplaceAll(s, "\n", `\n`), n, "…")
}
