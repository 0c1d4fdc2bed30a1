package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmowery/weightline/internal/analyzer"
	"github.com/kmowery/weightline/internal/core/constants"
	"github.com/kmowery/weightline/internal/data/watch"
	"github.com/kmowery/weightline/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the timeline whenever measurement files change",
	Long: `watch renders the timeline once, then monitors the data directory and
re-renders after each change to a measurement file or the profile.

Changes are debounced so a burst of writes produces a single re-render.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	config, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	watcher, err := watch.NewWatcher(config.DataDir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", config.DataDir, err)
	}
	defer watcher.Close()

	render := func() {
		// A fresh analyzer each round so file caches revalidate.
		if err := analyzer.New(config).Run(); err != nil {
			util.LogError("Render failed: " + err.Error())
		}
	}

	render()
	fmt.Fprintf(os.Stderr, "\nWatching %s for changes (Ctrl+C to stop)\n", config.DataDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	debounce := time.Duration(constants.WatchDebounceMillis) * time.Millisecond
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			util.LogDebug(fmt.Sprintf("File event: %s %s", event.Operation, event.Path))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			timerCh = timer.C

		case <-timerCh:
			timerCh = nil
			render()
			fmt.Fprintf(os.Stderr, "\nWatching %s for changes (Ctrl+C to stop)\n", config.DataDir)

		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nStopped")
			return nil
		}
	}
}
