package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// CompressedSuffix is appended to the names of snappy-framed outputs.
const CompressedSuffix = ".sz"

// Sink stores finished tables.
type Sink interface {
	Write(ctx context.Context, t *Table) error
	Close() error
}

// WriteCSV writes the header and every row of t.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// encodeCSV renders t to memory, snappy-framed when compress is set.
func encodeCSV(t *Table, compress bool) ([]byte, error) {
	var buf bytes.Buffer
	if !compress {
		err := WriteCSV(&buf, t)
		return buf.Bytes(), err
	}
	sw := snappy.NewBufferedWriter(&buf)
	if err := WriteCSV(sw, t); err != nil {
		return nil, err
	}
	if err := sw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteAll writes every table to every sink, continuing past failures, and
// returns the joined errors.
func WriteAll(ctx context.Context, sinks []Sink, tables ...*Table) error {
	var errs []error
	for _, s := range sinks {
		for _, t := range tables {
			if err := s.Write(ctx, t); err != nil {
				errs = append(errs, fmt.Errorf("table %s: %w", t.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// CloseAll closes every sink and returns the joined errors.
func CloseAll(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
