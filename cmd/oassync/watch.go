package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erraggy/oassync/remote"
	"github.com/erraggy/oassync/watch"
)

// watchFlags contains flags for the watch command
type watchFlags struct {
	interval time.Duration
}

func setupWatchFlags() (*flag.FlagSet, *watchFlags) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags := &watchFlags{}

	fs.DurationVar(&flags.interval, "interval", 30*time.Second, "poll interval for URL targets")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oassync watch [flags] <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "Watch an OpenAPI document and keep an in-memory store in sync with it.\n")
		_, _ = fmt.Fprintf(output, "Local files are watched via filesystem notifications; URLs are polled.\n")
		_, _ = fmt.Fprintf(output, "Each applied change is printed as it happens. Runs until interrupted.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oassync watch openapi.yaml\n")
		_, _ = fmt.Fprintf(output, "  oassync watch --interval 10s https://example.com/api/openapi.yaml\n")
	}

	return fs, flags
}

func handleWatch(args []string) error {
	fs, flags := setupWatchFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("watch command requires exactly one file path or URL")
	}

	target := fs.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []watch.Option{
		watch.WithInterval(flags.interval),
		watch.WithNotify(printUpdate),
		watch.WithErrorHandler(func(err error) {
			fmt.Fprintf(os.Stderr, "sync error: %v\n", err)
		}),
	}

	var err error
	if remote.IsURL(target) {
		err = watch.NewPoller(target, opts...).Run(ctx)
	} else {
		err = watch.NewWatcher(target, opts...).Run(ctx)
	}
	if err == context.Canceled {
		return nil
	}
	return err
}

func printUpdate(u watch.Update) {
	if u.Result == nil {
		fmt.Printf("seeded store from %s (%d bytes)\n", u.Document.Location, u.Document.Size)
		return
	}
	fmt.Printf("%s changed: %d diff entries, applied %d/%d commands\n",
		u.Document.Location, len(u.Entries), u.Applied, len(u.Result.Commands))
	for _, cmd := range u.Result.Commands {
		fmt.Printf("  %s\n", cmd)
	}
	for _, d := range u.Result.Diagnostics {
		fmt.Printf("  %s\n", d)
	}
}
