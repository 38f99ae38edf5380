package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/kvpath/internal/cel"
	"github.com/oakwood-commons/kvpath/internal/config"
	"github.com/oakwood-commons/kvpath/internal/formatter"
	"github.com/oakwood-commons/kvpath/internal/limiter"
	"github.com/oakwood-commons/kvpath/pkg/core"
	"github.com/oakwood-commons/kvpath/pkg/loader"
	"github.com/oakwood-commons/kvpath/pkg/logger"
	"github.com/oakwood-commons/kvpath/pkg/resolve"
	"github.com/oakwood-commons/kvpath/pkg/settings"
)

// ErrAssertionFailed is returned when --assert evaluates to false.
var ErrAssertionFailed = core.ErrAssertionFailed

// rootOptions holds the flag values for one command tree.
type rootOptions struct {
	output     formatFlag
	assertExpr string
	indexing   bool
	decode     bool
	quiet      bool
	limits     limiter.Config
	configFile string
	debug      bool
	logLevel   string

	cfg config.Config
}

// NewRootCmd builds the kvpath command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   settings.CliBinaryName + " <path> [file]",
		Short: "Resolve a dotted member path in a JSON, YAML or TOML document",
		Long: `kvpath looks up each '.'-separated segment of <path> as a member of the
value produced by the previous segment, starting at the document root, and
prints the value it ends on. The document is read from [file], or from stdin
when [file] is omitted or "-".

A missing segment stops the walk and exits non-zero.`,
		Example: `  kvpath user.name people.yaml
  kubectl get pod web -o json | kvpath metadata.labels.app
  kvpath --index items.0.id data.json --assert 'value > 0'`,
		Args:              cobra.RangeArgs(1, 2),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
		RunE:              opts.runResolve,
	}
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	flags := rootCmd.Flags()
	flags.VarP(&opts.output, "output", "o", "output format: "+formatNames()+" (default from config or auto)")
	flags.StringVar(&opts.assertExpr, "assert", "", "CEL predicate over 'value' (the result) and '_' (the document); exit non-zero when false")
	flags.BoolVar(&opts.indexing, "index", false, "let numeric segments index into lists (default from config)")
	flags.BoolVar(&opts.decode, "decode", false, "continue into strings holding JSON, YAML, TOML or a JWT (default from config)")
	flags.IntVar(&opts.limits.Limit, "limit", 0, "print at most N records of a list or map result")
	flags.IntVar(&opts.limits.Offset, "offset", 0, "skip the first N records of a list or map result")
	flags.IntVar(&opts.limits.Tail, "tail", 0, "print only the last N records of a list or map result")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "print nothing; report success through the exit status")

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&opts.configFile, "config-file", "", "path to a YAML config file")
	pflags.BoolVar(&opts.debug, "debug", false, "log every resolution step to stderr")
	pflags.StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error|v1|v2 (default from config)")

	rootCmd.AddCommand(newTraceCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// setup merges config file and flags into settings.Run and installs the
// logger and settings in the command context.
func (o *rootOptions) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ResolvePath(o.configFile))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	o.cfg = cfg

	run := settings.NewCliParams()
	run.Indexing = cfg.Resolve.Indexing
	run.Decode = cfg.Resolve.Decode
	run.Output = cfg.Output.Format

	flags := cmd.Flags()
	if f := flags.Lookup("index"); f != nil && f.Changed {
		run.Indexing = f.Value.String() == "true"
	}
	if f := flags.Lookup("decode"); f != nil && f.Changed {
		run.Decode = f.Value.String() == "true"
	}
	if f := flags.Lookup("output"); f != nil && f.Changed {
		run.Output = f.Value.String()
	}
	if _, err := formatter.ParseMode(run.Output); err != nil {
		return err
	}
	run.Assert = o.assertExpr
	run.IsQuiet = o.quiet

	levelName := cfg.Log.Level
	if o.debug {
		levelName = "debug"
	}
	if o.logLevel != "" {
		levelName = o.logLevel
	}
	if run.MinLogLevel, err = logger.ParseLevel(levelName); err != nil {
		return err
	}

	lgr := buildLogger(cmd.ErrOrStderr(), logger.Options{Level: run.MinLogLevel, Console: cfg.Log.Console})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(ctx)
	return nil
}

// buildLogger installs the global logger when writing to the process stderr
// so main can Sync it, and builds a private one for any other writer.
func buildLogger(w io.Writer, opts logger.Options) *logr.Logger {
	if w == os.Stderr {
		opts.Output = os.Stderr
		return logger.Init(opts)
	}
	opts.Output = w
	lgr := logger.New(opts)
	return &lgr
}

func (o *rootOptions) runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	run := settings.FromContextOrDefault(ctx)
	lgr := logger.FromContext(ctx)

	if err := o.limits.Validate(); err != nil {
		return err
	}

	path := args[0]
	if len(args) == 2 {
		run.Input = settings.InputSettings{Path: args[1], FromStdin: args[1] == "-"}
	}

	root, err := loadInput(cmd, run.Input, *lgr)
	if err != nil {
		return err
	}

	r := newResolver(run, *lgr)
	value, err := r.Resolve(root, path)
	if err != nil {
		return resolveFailure(r, root, path, err)
	}
	lgr.V(1).Info("resolved", logger.PathKey, path)

	if run.Assert != "" {
		if err := checkAssertion(run.Assert, root, value); err != nil {
			return err
		}
	}
	if run.IsQuiet {
		return nil
	}
	return printValue(cmd, o.limits.Apply(value), run.Output, o.yamlOptions())
}

func newResolver(run *settings.Run, lgr logr.Logger) *resolve.Resolver {
	opts := []resolve.Option{
		resolve.WithIndexing(run.Indexing),
		resolve.WithLogger(lgr.WithName("resolve")),
	}
	if run.Decode {
		inner := resolve.New(resolve.WithIndexing(run.Indexing))
		opts = append(opts, resolve.WithAdapter(decodeAdapter(inner, lgr.WithName("decode"))))
	}
	return resolve.New(opts...)
}

func loadInput(cmd *cobra.Command, in settings.InputSettings, lgr logr.Logger) (any, error) {
	if in.Path == "" || in.FromStdin {
		root, err := loader.LoadReader(cmd.InOrStdin(), lgr.WithValues("file", "-"))
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return root, nil
	}
	return loader.LoadFileWithLogger(in.Path, lgr)
}

func checkAssertion(expr string, root, value any) error {
	eval, err := cel.NewEvaluator()
	if err != nil {
		return err
	}
	engine, err := core.New(core.WithEvaluator(eval))
	if err != nil {
		return err
	}
	err = engine.Assert(expr, root, value)
	if err == nil || errors.Is(err, ErrAssertionFailed) {
		return err
	}
	if missing := missingRootPath(eval, expr, root); missing != nil {
		return fmt.Errorf("assert %q: %w", expr, missing)
	}
	return err
}

// missingRootPath explains a failed assertion by the first document path it
// reads that does not resolve.
func missingRootPath(eval *cel.Evaluator, expr string, root any) error {
	paths, err := eval.RootPaths(expr)
	if err != nil {
		return nil
	}
	r := resolve.New(resolve.WithIndexing(true))
	for _, p := range paths {
		if _, err := r.Resolve(root, p); err != nil {
			return resolveFailure(r, root, p, err)
		}
	}
	return nil
}

// resolveFailure adds the members available where the walk stopped.
func resolveFailure(r *resolve.Resolver, root any, path string, err error) error {
	if !errors.Is(err, resolve.ErrAttributeNotFound) {
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	if hint := availableMembers(r, root, path); hint != "" {
		return fmt.Errorf("resolve %q: %w (%s)", path, err, hint)
	}
	return fmt.Errorf("resolve %q: %w", path, err)
}

func availableMembers(r *resolve.Resolver, root any, path string) string {
	cur := root
	var walked []string
	for _, seg := range resolve.Split(path) {
		next, err := r.Resolve(cur, seg)
		if err == nil {
			cur = next
			walked = append(walked, seg)
			continue
		}
		m, ok := cur.(map[string]any)
		if !ok || len(m) == 0 {
			return ""
		}
		at := "root"
		if len(walked) > 0 {
			at = strings.Join(walked, resolve.Separator)
		}
		return fmt.Sprintf("members of %s: %s", at, strings.Join(formatter.SortedKeys(m), ", "))
	}
	return ""
}

func printValue(cmd *cobra.Command, value any, mode string, yamlOpts formatter.YAMLFormatOptions) error {
	m, err := formatter.ParseMode(mode)
	if err != nil {
		return err
	}
	out, err := formatter.Render(value, formatter.Options{
		Mode:     m,
		Terminal: isTerminal(cmd.OutOrStdout()),
		YAML:     yamlOpts,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func (o *rootOptions) yamlOptions() formatter.YAMLFormatOptions {
	if o.cfg.Output.YAML.Indent == 0 {
		return formatter.DefaultYAMLOptions()
	}
	return formatter.YAMLFormatOptions{
		Indent:              o.cfg.Output.YAML.Indent,
		LiteralBlockStrings: o.cfg.Output.YAML.LiteralBlockStrings,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
