package core

import (
	"testing"

	"fopmanager/testutil"
)

// The state manager talks to storage only through domain.PersistentStore;
// drivers are reached via the infra packages wired in storage.go.
func TestCoreDoesNotImportStorageDrivers(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.StorageDriverForbidden, "core must use the infra persistence packages")
}
