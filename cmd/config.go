package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/kvpath/internal/config"
	"github.com/oakwood-commons/kvpath/internal/formatter"
	"github.com/oakwood-commons/kvpath/pkg/resolve"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var output formatFlag

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show the merged configuration",
		Long: `Print the configuration after merging the embedded defaults with the user
file ($XDG_CONFIG_HOME/kvpath/config.yaml or --config-file).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printConfigValue(cmd, opts.cfg, output, opts.yamlOptions())
		},
	}
	configCmd.PersistentFlags().VarP(&output, "output", "o", "output format: "+formatNames()+" (default yaml)")

	getCmd := &cobra.Command{
		Use:     "get <path>",
		Short:   "Print one configuration value, e.g. output.yaml.indent",
		Args:    cobra.ExactArgs(1),
		Example: "  kvpath config get log.level",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := resolve.Resolve(opts.cfg, args[0])
			if err != nil {
				return fmt.Errorf("config %q: %w", args[0], err)
			}
			return printConfigValue(cmd, v, output, opts.yamlOptions())
		},
	}

	defaultsCmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the built-in default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
			return err
		},
	}

	configCmd.AddCommand(getCmd, defaultsCmd)
	return configCmd
}

func printConfigValue(cmd *cobra.Command, v any, output formatFlag, yamlOpts formatter.YAMLFormatOptions) error {
	mode := output.mode
	if mode == "" {
		mode = formatter.ModeYAML
		if !formatter.IsCollection(v) {
			mode = formatter.ModeRaw
		}
	}
	out, err := formatter.Render(v, formatter.Options{Mode: mode, YAML: yamlOpts})
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}
