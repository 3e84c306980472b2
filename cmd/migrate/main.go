// Command migrate runs the one-shot legacy database migration: it reads the
// SQL dump from the configured dump source, migrates every phase in
// dependency order and prints a per-phase tally plus post-run entity counts.
// Record-level failures are logged and tallied but do not fail the run; the
// exit code is non-zero only for fatal conditions (unreadable dump,
// unreachable store).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"clubcore/internal/blob"
	"clubcore/internal/core"
	"clubcore/internal/dump"
	"clubcore/internal/migrate"
)

var exitFunc = os.Exit

func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var dumpKey, metricsOut string
	fs.StringVar(&dumpKey, "dump", "legacy_dump.sql", "dump key within the dump source (fs source resolves it under CLUBCORE_DUMP_FS_ROOT, default ./data)")
	fs.StringVar(&metricsOut, "metrics-out", "", "optional file to write run counters in Prometheus text format")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx := context.Background()

	text, err := readDump(ctx, dumpKey)
	if err != nil {
		fmt.Fprintf(stderr, "fatal: %v\n", err)
		return 1
	}
	d := dump.Parse(text)
	fmt.Fprintf(stdout, "parsed %d table(s) from %s\n", len(d.Tables), dumpKey)

	store, err := core.OpenPersistentStore()
	if err != nil {
		fmt.Fprintf(stderr, "fatal: open store: %v\n", err)
		return 1
	}

	prom := migrate.NewPrometheusRecorder()
	recorder := migrate.MultiRecorder(prom, migrate.NewExpvarRecorder("clubcore_migration"))
	m := migrate.New(store,
		migrate.WithRecorder(recorder),
		migrate.WithLogf(func(format string, args ...any) {
			fmt.Fprintf(stdout, format+"\n", args...)
		}),
	)

	report, err := m.Run(ctx, d)
	if err != nil {
		fmt.Fprintf(stderr, "fatal: %v\n", err)
		return 1
	}

	total := report.Total()
	fmt.Fprintf(stdout, "migration complete: %s\n", total.String())
	fmt.Fprintf(stdout, "entity counts: %s\n", strings.Join(report.SortedCounts(), " "))

	if metricsOut != "" {
		if err := writeMetrics(prom, metricsOut); err != nil {
			fmt.Fprintf(stderr, "fatal: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "metrics written to %s\n", metricsOut)
	}
	return 0
}

func readDump(ctx context.Context, key string) (string, error) {
	source, err := blob.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("open dump source: %w", err)
	}
	rc, _, err := source.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read dump %s: %w", key, err)
	}
	defer rc.Close()
	text, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read dump %s: %w", key, err)
	}
	return string(text), nil
}

func writeMetrics(prom *migrate.PrometheusRecorder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	if err := prom.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
