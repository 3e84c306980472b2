// Command companion-emails is the one-off corrective pass that replaces
// synthesized companion addresses with the real spouse address from the
// legacy dump. It re-parses the dump solely to rebuild the member-to-spouse
// email lookup, scans existing users for the synthetic marker and rewrites
// each email only when the real address is known and still free.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

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
	fs := flag.NewFlagSet("companion-emails", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var dumpKey string
	fs.StringVar(&dumpKey, "dump", "legacy_dump.sql", "dump key within the dump source (fs source resolves it under CLUBCORE_DUMP_FS_ROOT, default ./data)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx := context.Background()

	source, err := blob.Open(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "fatal: open dump source: %v\n", err)
		return 1
	}
	rc, _, err := source.Get(ctx, dumpKey)
	if err != nil {
		fmt.Fprintf(stderr, "fatal: read dump %s: %v\n", dumpKey, err)
		return 1
	}
	text, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		fmt.Fprintf(stderr, "fatal: read dump %s: %v\n", dumpKey, err)
		return 1
	}

	store, err := core.OpenPersistentStore()
	if err != nil {
		fmt.Fprintf(stderr, "fatal: open store: %v\n", err)
		return 1
	}

	m := migrate.New(store, migrate.WithLogf(func(format string, args ...any) {
		fmt.Fprintf(stdout, format+"\n", args...)
	}))
	report, err := m.RepairCompanionEmails(ctx, dump.Parse(string(text)))
	if err != nil {
		fmt.Fprintf(stderr, "fatal: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "companion email repair: %s\n", report.String())
	return 0
}
