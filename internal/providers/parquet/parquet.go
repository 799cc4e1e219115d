// Package parquet contributes structured-array cases read from Parquet
// files. Column types come from the Parquet schema, so the resulting record
// array carries explicit field types instead of types inferred from values.
package parquet

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	pq "github.com/segmentio/parquet-go"

	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// Module is the runtime library the batch depends on: record arrays are
// rebuilt as numpy structured arrays.
const Module = "numpy"

// Planet is one row of the sample table the provider round-trips through a
// Parquet file.
type Planet struct {
	Name      string  `parquet:"name"`
	Radius    int32   `parquet:"radius"`
	Mass      float32 `parquet:"mass"`
	Distance  float64 `parquet:"distance"`
	Moons     int64   `parquet:"moons"`
	Habitable bool    `parquet:"habitable"`
}

// Planets is the sample table.
var Planets = []Planet{
	{Name: "Mercury", Radius: 2440, Mass: 0.33, Distance: 57.9, Moons: 0, Habitable: false},
	{Name: "Venus", Radius: 6052, Mass: 4.87, Distance: 108.2, Moons: 0, Habitable: false},
	{Name: "Earth", Radius: 6371, Mass: 5.97, Distance: 149.6, Moons: 1, Habitable: true},
	{Name: "Mars", Radius: 3390, Mass: 0.642, Distance: 228.0, Moons: 2, Habitable: false},
}

// Provider returns the parquet batch, gated on probe finding numpy.
func Provider(probe catalog.ModuleProbe) catalog.Provider {
	return catalog.Requires(provider{}, probe, Module)
}

type provider struct{}

func (provider) Name() string { return "parquet" }

func (provider) Cases(context.Context) ([]catalog.Case, error) {
	var buf bytes.Buffer
	if err := Write(&buf, Planets); err != nil {
		return nil, err
	}
	rec, err := ReadRecordArray(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return nil, err
	}
	return []catalog.Case{{
		Name:    "parquet_recarray_grid",
		Data:    rec,
		Options: table.Kwargs("headers", "keys", "tablefmt", "grid"),
	}}, nil
}

// Write encodes rows as a Parquet file.
func Write[T any](w io.Writer, rows []T) error {
	writer := pq.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

// ReadFile reads the Parquet file at path into a record array.
func ReadFile(path string) (*table.RecordArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return ReadRecordArray(f, stat.Size())
}

// ReadRecordArray reads a flat Parquet file into a record array. Every
// top-level column must be a required primitive; byte-array columns become
// fixed-width unicode fields sized to their longest value.
func ReadRecordArray(r io.ReaderAt, size int64) (*table.RecordArray, error) {
	file, err := pq.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	fields := file.Schema().Fields()
	kinds := make([]pq.Kind, len(fields))
	for i, f := range fields {
		if !f.Leaf() || f.Repeated() || f.Optional() {
			return nil, fmt.Errorf("column %q: only required primitive columns are supported", f.Name())
		}
		kinds[i] = f.Type().Kind()
		if _, err := dtype(kinds[i], 0); err != nil {
			return nil, fmt.Errorf("column %q: %w", f.Name(), err)
		}
	}

	reader := pq.NewReader(file)
	defer func() { _ = reader.Close() }()

	var rows []table.Tuple
	widths := make([]int, len(fields))
	buf := make([]pq.Row, 64)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			tuple := make(table.Tuple, len(fields))
			for _, v := range row {
				col := v.Column()
				if col < 0 || col >= len(fields) {
					return nil, fmt.Errorf("value for unknown column %d", col)
				}
				tuple[col] = value(kinds[col], v)
				if s, ok := tuple[col].(string); ok {
					widths[col] = max(widths[col], utf8.RuneCountInString(s))
				}
			}
			rows = append(rows, tuple)
		}
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
	}

	out := make([]table.Field, len(fields))
	for i, f := range fields {
		t, _ := dtype(kinds[i], widths[i])
		out[i] = table.Field{Name: f.Name(), Type: t}
	}
	return table.NewRecordArray(out, rows...)
}

// dtype maps a Parquet physical type to a numpy type code.
func dtype(kind pq.Kind, width int) (table.DType, error) {
	switch kind {
	case pq.Boolean:
		return "?", nil
	case pq.Int32:
		return "i4", nil
	case pq.Int64:
		return "i8", nil
	case pq.Float:
		return "f4", nil
	case pq.Double:
		return "f8", nil
	case pq.ByteArray:
		return table.DType(fmt.Sprintf("U%d", max(width, 1))), nil
	}
	return "", fmt.Errorf("unsupported physical type %s", kind)
}

func value(kind pq.Kind, v pq.Value) any {
	switch kind {
	case pq.Boolean:
		return v.Boolean()
	case pq.Int32:
		return v.Int32()
	case pq.Int64:
		return v.Int64()
	case pq.Float:
		return v.Float()
	case pq.Double:
		return v.Double()
	default:
		return string(v.ByteArray())
	}
}
