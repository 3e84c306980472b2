// Package testutil provides reusable testing helpers for enforcing
// architectural boundaries across the repository.
package testutil

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// AssertImportBoundary loads every package in the module and fails if any
// package outside allowed imports a package matching forbidden. Test
// variants and generated test mains are skipped: test code may exercise a
// concrete backend directly.
func AssertImportBoundary(t testing.TB, allowed func(pkgPath string) bool, forbidden func(importPath string) bool, reason string) {
	t.Helper()

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "clubcore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		// Test variants share PkgPath with the real package; only the ID
		// carries the .test marker.
		if strings.Contains(pkg.ID, ".test") {
			continue
		}
		if allowed(pkg.PkgPath) {
			continue
		}
		for importPath := range pkg.Imports {
			if forbidden(importPath) {
				seen[pkg.PkgPath+": "+importPath] = struct{}{}
			}
		}
	}

	if len(seen) == 0 {
		return
	}
	violations := make([]string, 0, len(seen))
	for v := range seen {
		violations = append(violations, v)
	}
	sort.Strings(violations)
	t.Fatalf("forbidden imports (%s):\n%s", reason, strings.Join(violations, "\n"))
}

// ImportsUnder reports whether path is pkg itself or a package below it.
func ImportsUnder(prefix string) func(string) bool {
	return func(path string) bool {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
}
