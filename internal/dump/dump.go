// Package dump writes and reads raw sequences of sampled symbols.
//
// A dump is a flat run of little-endian signed 32-bit records, one per
// symbol, with no header and no length prefix. The record count is the file
// size divided by RecordSize.
package dump

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// RecordSize is the size of one record in bytes.
const RecordSize = 4

// Record value bounds.
const (
	MinRecord = math.MinInt32
	MaxRecord = math.MaxInt32
)

// ErrTruncatedRecord indicates input that ends inside a record.
var ErrTruncatedRecord = errors.New("truncated record")

// Symbols produces the values to dump.
type Symbols interface {
	Next() int
}

// Write draws length symbols from src and writes them to w. It returns the
// number of records written.
func Write(w io.Writer, src Symbols, length int) (int, error) {
	if w == nil {
		return 0, errors.New("writer is required")
	}
	if src == nil {
		return 0, errors.New("symbol source is required")
	}
	if length < 0 {
		return 0, fmt.Errorf("length must be non-negative, got %d", length)
	}
	bw := bufio.NewWriter(w)
	var rec [RecordSize]byte
	for i := 0; i < length; i++ {
		v := src.Next()
		if v < MinRecord || v > MaxRecord {
			return i, fmt.Errorf("record %d: value %d does not fit in 32 bits", i, v)
		}
		binary.LittleEndian.PutUint32(rec[:], uint32(int32(v)))
		if _, err := bw.Write(rec[:]); err != nil {
			return i, fmt.Errorf("write record %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return length, fmt.Errorf("flush records: %w", err)
	}
	return length, nil
}

// Read decodes every record from r.
func Read(r io.Reader) ([]int32, error) {
	br := bufio.NewReader(r)
	var (
		out []int32
		rec [RecordSize]byte
	)
	for {
		n, err := io.ReadFull(br, rec[:])
		switch {
		case err == io.EOF:
			return out, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return out, fmt.Errorf("%w: %d trailing bytes", ErrTruncatedRecord, n)
		case err != nil:
			return out, fmt.Errorf("read record %d: %w", len(out), err)
		}
		out = append(out, int32(binary.LittleEndian.Uint32(rec[:])))
	}
}
