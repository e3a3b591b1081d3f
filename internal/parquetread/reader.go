package parquetread

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// Reader streams the values of one column of a Parquet file as timestamp
// strings. Integer columns are rendered as epoch inputs ("@1704150000") and
// null cells as "".
type Reader struct {
	file   *os.File
	pf     *parquet.File
	leaf   parquet.LeafColumn
	group  int
	pages  parquet.Pages
	values parquet.ValueReader
	buf    []parquet.Value
}

// Open opens a Parquet file and positions a Reader on column. Nested
// columns are addressed with dots, e.g. "event.ts".
func Open(path, column string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	leaf, err := ValidateColumn(pf.Schema(), column)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Reader{file: f, pf: pf, leaf: leaf}, nil
}

// NumRows returns the total number of rows in the Parquet file.
func (r *Reader) NumRows() int64 {
	return r.pf.NumRows()
}

// Read reads up to len(dst) cells into dst.
// Returns the number of cells read and io.EOF when done.
func (r *Reader) Read(dst []string) (int, error) {
	if len(r.buf) < len(dst) {
		r.buf = make([]parquet.Value, len(dst))
	}
	n := 0
	for n < len(dst) {
		if r.values == nil {
			if err := r.nextPage(); err != nil {
				if err == io.EOF && n > 0 {
					return n, nil
				}
				return n, err
			}
		}
		m, err := r.values.ReadValues(r.buf[:len(dst)-n])
		for i := 0; i < m; i++ {
			dst[n+i] = cell(r.buf[i])
		}
		n += m
		if err == io.EOF {
			r.values = nil
			continue
		}
		if err != nil {
			return n, fmt.Errorf("read parquet values: %w", err)
		}
	}
	return n, nil
}

// nextPage advances to the next page of the column, crossing row groups.
func (r *Reader) nextPage() error {
	for {
		if r.pages == nil {
			groups := r.pf.RowGroups()
			if r.group >= len(groups) {
				return io.EOF
			}
			r.pages = groups[r.group].ColumnChunks()[r.leaf.ColumnIndex].Pages()
			r.group++
		}
		page, err := r.pages.ReadPage()
		if err == io.EOF {
			r.pages.Close()
			r.pages = nil
			continue
		}
		if err != nil {
			return fmt.Errorf("read parquet page (row group %d): %w", r.group-1, err)
		}
		r.values = page.Values()
		return nil
	}
}

func cell(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	switch v.Kind() {
	case parquet.Int32:
		return "@" + strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return "@" + strconv.FormatInt(v.Int64(), 10)
	default:
		return string(v.ByteArray())
	}
}

// Close releases all resources.
func (r *Reader) Close() error {
	if r.pages != nil {
		r.pages.Close()
		r.pages = nil
	}
	return r.file.Close()
}
