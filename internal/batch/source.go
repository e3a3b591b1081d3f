package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gyeh/kaltime/internal/parquetread"
)

// source yields one timestamp string per input row.
type source interface {
	Read(dst []string) (int, error)
	Close() error
}

// IsParquet reports whether path is read as Parquet rather than text lines.
func IsParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}

func openSource(path, column string) (source, error) {
	if IsParquet(path) {
		return parquetread.Open(path, column)
	}
	return openLines(path)
}

// lineSource reads a text file with one timestamp per line.
type lineSource struct {
	file    *os.File
	scanner *bufio.Scanner
}

func openLines(path string) (*lineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	return &lineSource{file: f, scanner: bufio.NewScanner(f)}, nil
}

func (s *lineSource) Read(dst []string) (int, error) {
	n := 0
	for n < len(dst) && s.scanner.Scan() {
		dst[n] = strings.TrimSuffix(s.scanner.Text(), "\r")
		n++
	}
	if err := s.scanner.Err(); err != nil {
		return n, fmt.Errorf("read line: %w", err)
	}
	if n < len(dst) {
		return n, io.EOF
	}
	return n, nil
}

func (s *lineSource) Close() error {
	return s.file.Close()
}
