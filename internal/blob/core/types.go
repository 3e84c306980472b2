// Package core defines the dump-source contract shared by the blob backends.
// Backends live under internal/infra/blob and must not be imported directly
// by migration code; use the blob facade instead.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a dump-source backend.
type Driver string

const (
	// DriverFilesystem reads dump files from a local directory tree.
	DriverFilesystem Driver = "fs"
	// DriverS3 reads dump files from an S3 (or S3-compatible) bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps objects in process memory, for tests.
	DriverMemory Driver = "memory"
)

// ErrNotFound is returned when a key has no object behind it.
var ErrNotFound = errors.New("blob: object not found")

// Info describes a stored object.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// PutOptions carries optional attributes for Put.
type PutOptions struct {
	ContentType string
}

// Store is the minimal object interface the migration engine needs: fetch a
// legacy dump by key, archive run artifacts next to it, and enumerate what a
// source holds.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (io.ReadCloser, Info, error)
	Head(ctx context.Context, key string) (Info, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}
