package blob

import (
	"context"
	"fmt"
	"os"

	fsblob "clubcore/internal/infra/blob/fs"
	memblob "clubcore/internal/infra/blob/memory"
	s3blob "clubcore/internal/infra/blob/s3"
)

// Open selects a dump-source implementation using environment variables.
//
//	CLUBCORE_DUMP_SOURCE: fs|s3|memory (default fs)
//	CLUBCORE_DUMP_FS_ROOT: directory root when source=fs (default ./data)
//	(S3 specific variables documented in the s3 backend)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("CLUBCORE_DUMP_SOURCE")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("CLUBCORE_DUMP_FS_ROOT"))
	case DriverS3:
		return s3blob.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown dump source %s", driver)
	}
}

// NewFilesystem constructs a filesystem-backed dump source rooted at root.
// An empty root defaults to ./data.
func NewFilesystem(root string) (Store, error) {
	return fsblob.New(root)
}

// NewMemory constructs an in-memory dump source, primarily for tests.
func NewMemory() Store {
	return memblob.New()
}
