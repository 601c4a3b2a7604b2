package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "nameparser",
		Short: "Identify TV releases from file and directory names",
		Long: `nameparser turns release names such as "Show.Name.S01E02.720p.HDTV-GRP.mkv"
into structured episode identities. Shows, scene numbering and absolute numbering
come from a local SQLite show database that is filled with "shows import".`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	cmd.AddCommand(
		newParseCmd(opts),
		newScanCmd(opts),
		newWatchCmd(opts),
		newShowsCmd(opts),
		newPatternsCmd(opts),
	)
	return cmd
}
