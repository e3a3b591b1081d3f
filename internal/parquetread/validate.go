package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ValidateColumn checks that column exists, is a flat leaf, and holds
// strings or integers.
func ValidateColumn(schema *parquet.Schema, column string) (parquet.LeafColumn, error) {
	if column == "" {
		return parquet.LeafColumn{}, fmt.Errorf("--column is required for parquet input")
	}
	leaf, ok := schema.Lookup(strings.Split(column, ".")...)
	if !ok {
		names := make([]string, 0, len(schema.Fields()))
		for _, field := range schema.Fields() {
			names = append(names, field.Name())
		}
		return parquet.LeafColumn{}, fmt.Errorf("missing column: %s; have: %s",
			column, strings.Join(names, ", "))
	}
	if leaf.MaxRepetitionLevel > 0 {
		return parquet.LeafColumn{}, fmt.Errorf("column %s is repeated; need one value per row", column)
	}

	switch kind := leaf.Node.Type().Kind(); kind {
	case parquet.ByteArray, parquet.FixedLenByteArray, parquet.Int32, parquet.Int64:
		return leaf, nil
	default:
		return parquet.LeafColumn{}, fmt.Errorf("column %s has type %s; need a string or integer column",
			column, kind)
	}
}
