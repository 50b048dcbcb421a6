package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/reconcile"
	"github.com/erraggy/oassync/remote"
	"github.com/erraggy/oassync/structdiff"
)

// planFlags contains flags for the plan command
type planFlags struct {
	format string
}

func setupPlanFlags() (*flag.FlagSet, *planFlags) {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	flags := &planFlags{}

	fs.StringVar(&flags.format, "format", "text", "output format: text or json")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oassync plan [flags] <base> <revision>\n\n")
		_, _ = fmt.Fprintf(output, "Compare two versions of an OpenAPI document (files or URLs) and print the\n")
		_, _ = fmt.Fprintf(output, "mutation commands that would bring a store seeded from the base document\n")
		_, _ = fmt.Fprintf(output, "up to date with the revision. Nothing is applied.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oassync plan base.yaml revised.yaml\n")
		_, _ = fmt.Fprintf(output, "  oassync plan --format json v1.yaml v2.yaml\n")
		_, _ = fmt.Fprintf(output, "  oassync plan local.yaml https://example.com/api/openapi.yaml\n")
	}

	return fs, flags
}

// planReport is the JSON shape of the plan command output.
type planReport struct {
	Base         string   `json:"base"`
	Revision     string   `json:"revision"`
	TotalEntries int      `json:"totalEntries"`
	Commands     []string `json:"commands"`
	Diagnostics  []string `json:"diagnostics"`
}

func handlePlan(args []string) error {
	fs, flags := setupPlanFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("plan command requires a base and a revision document")
	}
	if flags.format != "text" && flags.format != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", flags.format)
	}

	ctx := context.Background()
	var fetcher remote.Fetcher

	base, err := fetcher.Fetch(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("fetching base document: %w", err)
	}
	rev, err := fetcher.Fetch(ctx, fs.Arg(1))
	if err != nil {
		return fmt.Errorf("fetching revision document: %w", err)
	}

	tables := entity.FromDocument(base.Raw)
	entries := structdiff.Diff(base.Raw, rev.Raw)
	res := reconcile.New(tables).Plan(entries)

	if flags.format == "json" {
		report := planReport{
			Base:         base.Location,
			Revision:     rev.Location,
			TotalEntries: len(entries),
			Commands:     make([]string, 0, len(res.Commands)),
			Diagnostics:  make([]string, 0, len(res.Diagnostics)),
		}
		for _, cmd := range res.Commands {
			report.Commands = append(report.Commands, cmd.String())
		}
		for _, d := range res.Diagnostics {
			report.Diagnostics = append(report.Diagnostics, d.String())
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if len(entries) == 0 {
		fmt.Println("Documents are identical: nothing to plan.")
		return nil
	}
	fmt.Printf("Planned %d commands from %d diff entries:\n", len(res.Commands), len(entries))
	for _, cmd := range res.Commands {
		fmt.Printf("  %s\n", cmd)
	}
	if len(res.Diagnostics) > 0 {
		fmt.Printf("\nDiagnostics (%d):\n", len(res.Diagnostics))
		for _, d := range res.Diagnostics {
			fmt.Printf("  %s\n", d)
		}
	}
	return nil
}
