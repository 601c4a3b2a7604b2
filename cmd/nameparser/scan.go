package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slipstream/nameparser/internal/library/scanner"
)

func newScanCmd(root *rootOptions) *cobra.Command {
	var (
		flags  parserFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "scan FOLDER",
		Short: "Parse every video file under a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.newScanner(cmd.Context(), flags)
			if err != nil {
				return err
			}

			result, err := svc.ScanFolder(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			return printScan(cmd.OutOrStdout(), result, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the scan result as JSON")
	return cmd
}

func printScan(w io.Writer, result *scanner.ScanResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for _, f := range result.Parsed {
		fmt.Fprintf(w, "%s\t%s\n", f.Path, f.Result)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "%s\t%s: %s\n", e.Path, e.Kind, e.Error)
	}
	_, err := fmt.Fprintf(w, "scanned %d files: %d parsed, %d failed, %d skipped\n",
		result.TotalFiles, len(result.Parsed), len(result.Errors), result.Skipped)
	return err
}
