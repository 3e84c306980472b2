// Package blob re-exports the dump-source abstractions for stable imports.
package blob

import (
	"clubcore/internal/blob/core"
)

type (
	// Driver identifies a dump-source backend.
	Driver = core.Driver
	// PutOptions configures an object write.
	PutOptions = core.PutOptions
	// Info describes stored object metadata.
	Info = core.Info
	// Store is the interface for dump-source backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem backend.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible backend.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test backend.
	DriverMemory = core.DriverMemory
)

// ErrNotFound indicates a key with no object behind it.
var ErrNotFound = core.ErrNotFound
