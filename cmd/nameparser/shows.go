package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newShowsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shows",
		Short: "Manage the show database",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "import FILE",
			Short: "Import shows, episodes and scene numbering from a YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd, root)
				if err != nil {
					return err
				}
				defer a.Close()

				stats, err := a.store.ImportPath(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d shows, %d episodes, %d exceptions, %d scene mappings, %d absolute mappings\n",
					stats.Shows, stats.Episodes, stats.Exceptions, stats.SceneMappings, stats.AbsoluteMaps)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List registered shows",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := openApp(cmd, root)
				if err != nil {
					return err
				}
				defer a.Close()

				shows, err := a.store.ListShows(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SHOW\tNAME\tTYPE")
				for _, s := range shows {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Ref(), s.Name, showType(s.Anime, s.Sports, s.AirByDate))
				}
				return tw.Flush()
			},
		},
	)
	return cmd
}

func showType(anime, sports, airByDate bool) string {
	var kinds []string
	if anime {
		kinds = append(kinds, "anime")
	}
	if sports {
		kinds = append(kinds, "sports")
	}
	if airByDate {
		kinds = append(kinds, "air-by-date")
	}
	if len(kinds) == 0 {
		return "standard"
	}
	return strings.Join(kinds, ",")
}
