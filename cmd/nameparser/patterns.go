package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipstream/nameparser/internal/nameparser"
)

func newPatternsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect pattern tables",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check [FILE]",
		Short: "Compile a pattern table and report invalid patterns",
		Long: `check compiles FILE, or the configured parser.patterns_file, or the built-in
table, and lists the patterns of every mode. Invalid patterns make the command fail.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			defer log.Close()

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			table, err := loadTable(cfg, path, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, mode := range []nameparser.Mode{nameparser.ModeStandard, nameparser.ModeSports, nameparser.ModeAnime} {
				patterns := table.Patterns(mode)
				fmt.Fprintf(out, "%s: %d patterns\n", mode, len(patterns))
				for _, p := range patterns {
					fmt.Fprintf(out, "  %s/%d_%s %v\n", p.Group, p.Position, p.Name, p.Fields())
				}
			}

			if errs := table.Errors(); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(out, "error: %v\n", e)
				}
				return fmt.Errorf("%d invalid patterns", len(errs))
			}
			return nil
		},
	})
	return cmd
}
