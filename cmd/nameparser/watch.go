package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slipstream/nameparser/internal/library/scanner"
	"github.com/slipstream/nameparser/internal/scheduler"
	"github.com/slipstream/nameparser/internal/scheduler/tasks"
	"github.com/slipstream/nameparser/internal/watcher"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	var flags parserFlags

	cmd := &cobra.Command{
		Use:   "watch FOLDER...",
		Short: "Parse new video files as they appear",
		Long: `watch parses video files created in the given folders. When watch.rescan_cron
is set, every folder is also rescanned on that schedule.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := a.newScanner(ctx, flags)
			if err != nil {
				return err
			}
			return runWatch(ctx, cmd, a, svc, args)
		},
	}

	flags.register(cmd)
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, a *app, svc *scanner.Service, folders []string) error {
	var outMu sync.Mutex
	out := cmd.OutOrStdout()

	wcfg := watcher.DefaultConfig()
	wcfg.DebounceDelay = a.cfg.Watch.Debounce
	wcfg.SkipSamples = a.cfg.Scan.SkipSamples

	ws, err := watcher.NewService(svc, wcfg, func(path string, parsed *scanner.ParsedFile, err error) {
		outMu.Lock()
		defer outMu.Unlock()
		if err != nil {
			fmt.Fprintf(out, "%s\t%s: %v\n", path, scanner.ErrorKind(err), err)
			return
		}
		fmt.Fprintf(out, "%s\t%s\n", path, parsed.Result)
	}, a.log.Logger)
	if err != nil {
		return err
	}
	if err := ws.Start(folders); err != nil {
		return err
	}
	defer ws.Stop()

	if cron := a.cfg.Watch.RescanCron; cron != "" {
		sched, err := scheduler.New(a.log.Logger)
		if err != nil {
			return err
		}
		task := tasks.NewRescanTask(svc, ws.WatchedFolders(), func(result *scanner.ScanResult) {
			outMu.Lock()
			defer outMu.Unlock()
			_ = printScan(out, result, false)
		}, a.log.Logger)
		if err := tasks.RegisterRescanTask(sched, cron, task); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	a.log.Info().Strs("folders", ws.WatchedFolders()).Msg("Watching for new files")
	<-ctx.Done()
	a.log.Info().Msg("Shutting down")
	return nil
}
