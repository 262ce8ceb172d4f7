package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes each table as a CSV file named after the table, relative
// to Dir. With Compress set the file is snappy-framed and gets a .sz suffix.
type FileSink struct {
	Dir      string
	Compress bool
}

// NewFileSink creates a sink writing under dir.
func NewFileSink(dir string, compress bool) *FileSink {
	return &FileSink{Dir: dir, Compress: compress}
}

// Path returns where a table with the given name is written.
func (s *FileSink) Path(name string) string {
	if s.Compress {
		name += CompressedSuffix
	}
	return filepath.Join(s.Dir, name)
}

// Write creates or truncates the table's file.
func (s *FileSink) Write(_ context.Context, t *Table) error {
	data, err := encodeCSV(t, s.Compress)
	if err != nil {
		return fmt.Errorf("encoding csv: %w", err)
	}

	path := s.Path(t.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Close is a no-op; every Write is complete on return.
func (s *FileSink) Close() error {
	return nil
}
