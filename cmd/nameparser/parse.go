package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slipstream/nameparser/internal/library/quality"
	"github.com/slipstream/nameparser/internal/nameparser"
)

func newParseCmd(root *rootOptions) *cobra.Command {
	var (
		flags   parserFlags
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "parse NAME...",
		Short: "Parse release names or paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.newParser(cmd.Context(), flags)
			if err != nil {
				return err
			}

			var parseOpts []nameparser.ParseOption
			if noCache {
				parseOpts = append(parseOpts, nameparser.SkipCache())
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, name := range args {
				res, err := p.Parse(cmd.Context(), name, parseOpts...)
				if err != nil {
					if ctxErr := cmd.Context().Err(); ctxErr != nil {
						return ctxErr
					}
					failed++
					fmt.Fprintf(out, "%s: %v\n", name, err)
					continue
				}
				if err := printResult(out, res, asJSON); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d names could not be parsed", failed, len(args))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the parse cache")
	return cmd
}

func printResult(w io.Writer, res *nameparser.ParseResult, asJSON bool) error {
	if !asJSON {
		q := res.Quality.String()
		if def, ok := quality.Lookup(res.Quality); ok {
			q = def.Name
		}
		_, err := fmt.Fprintf(w, "%s [QUALITY: %s]\n", res, q)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
