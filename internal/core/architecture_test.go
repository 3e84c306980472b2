package core

import (
	"strings"
	"testing"

	"clubcore/testutil"
)

// The storage backends are wired exclusively through this package's factory.
// Migration code sees domain.PersistentStore only.
func TestOnlyCorePackageImportsPersistenceBackends(t *testing.T) {
	testutil.AssertImportBoundary(t,
		func(pkgPath string) bool {
			return pkgPath == "clubcore/internal/core" ||
				strings.HasPrefix(pkgPath, "clubcore/internal/infra/persistence")
		},
		testutil.ImportsUnder("clubcore/internal/infra/persistence"),
		"persistence backends are opened through the core factory",
	)
}
