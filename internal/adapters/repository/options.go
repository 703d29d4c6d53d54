// Package repository defines the week capture store interface and errors.
package repository

import "os"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithPath sets the backing file path. An empty path keeps the store
// memory-only, which is what the tests use.
func WithPath(path string) Option {
	return func(s *FileStore) {
		s.path = path
	}
}

// WithFileMode sets the permission bits used when writing the backing file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}
