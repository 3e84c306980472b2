// Package fs implements the dump source on a local directory tree. It is the
// default backend: operators drop the legacy dump file under the root and the
// migrator reads it by relative key.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clubcore/internal/blob/core"
)

// Store serves objects from a root directory. Keys map to relative paths.
type Store struct {
	root string
}

// New returns a filesystem store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "data"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve dump root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create dump root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root reports the absolute directory the store serves from.
func (s *Store) Root() string { return s.root }

// Driver reports the backend identifier.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// sanitizeKey rejects empty keys and anything that would escape the root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return clean, nil
}

func (s *Store) pathFor(key string) (string, error) {
	rel, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, rel), nil
}

// Put writes the object atomically: payload goes to a temp file in the same
// directory and is renamed over the target.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	if err := ctx.Err(); err != nil {
		return core.Info{}, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return core.Info{}, fmt.Errorf("create object dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return core.Info{}, fmt.Errorf("create temp object: %w", err)
	}
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), r)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return core.Info{}, fmt.Errorf("write object %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return core.Info{}, fmt.Errorf("close temp object: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return core.Info{}, fmt.Errorf("rename object %q: %w", key, err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return core.Info{}, fmt.Errorf("stat object %q: %w", key, err)
	}
	return core.Info{
		Key:          filepath.ToSlash(mustRel(s.root, path)),
		Size:         size,
		ContentType:  opts.ContentType,
		ETag:         hex.EncodeToString(hasher.Sum(nil)),
		LastModified: st.ModTime().UTC(),
	}, nil
}

// Get opens the object for reading.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, core.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.Info{}, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return nil, core.Info{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.Info{}, core.ErrNotFound
		}
		return nil, core.Info{}, fmt.Errorf("open object %q: %w", key, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, core.Info{}, fmt.Errorf("stat object %q: %w", key, err)
	}
	info := core.Info{
		Key:          filepath.ToSlash(mustRel(s.root, path)),
		Size:         st.Size(),
		LastModified: st.ModTime().UTC(),
	}
	return f, info, nil
}

// Head reports object metadata without opening it.
func (s *Store) Head(ctx context.Context, key string) (core.Info, error) {
	if err := ctx.Err(); err != nil {
		return core.Info{}, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return core.Info{}, err
	}
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Info{}, core.ErrNotFound
		}
		return core.Info{}, fmt.Errorf("stat object %q: %w", key, err)
	}
	if st.IsDir() {
		return core.Info{}, core.ErrNotFound
	}
	return core.Info{
		Key:          filepath.ToSlash(mustRel(s.root, path)),
		Size:         st.Size(),
		LastModified: st.ModTime().UTC(),
	}, nil
}

// List walks the root and returns every object whose key starts with prefix,
// sorted by key.
func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var infos []core.Info
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		key := filepath.ToSlash(mustRel(s.root, path))
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		st, err := d.Info()
		if err != nil {
			return err
		}
		infos = append(infos, core.Info{
			Key:          key,
			Size:         st.Size(),
			LastModified: st.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func mustRel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
