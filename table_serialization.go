package cabal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// TableMagic is the 4-byte prefix identifying a serialized similarity
// table. Callers that accept either a raw report or a saved table can
// sniff this prefix to tell the two apart.
const TableMagic = "PPMT"

// tableFormatVersion is the current on-disk format version.
const tableFormatVersion uint32 = 1

var (
	// ErrInvalidMagic is returned by ReadFrom when the input does not
	// begin with TableMagic.
	ErrInvalidMagic = errors.New("cabal: not a serialized similarity table")

	// ErrUnsupportedVersion is returned by ReadFrom when the input uses
	// a format version this build does not understand.
	ErrUnsupportedVersion = errors.New("cabal: unsupported table format version")
)

// WriteTo serializes the table to w.
//
// The serialization format is:
// 1. Magic number (4 bytes) - "PPMT" identifier for validation
// 2. Version (4 bytes) - format version for forward compatibility
// 3. Name count (4 bytes)
// 4. For each name, in index order:
//   - Name length in bytes (4 bytes)
//   - Name bytes (UTF-8)
//
// 5. Packed upper-triangular score matrix (n*(n-1)/2 entries, 4 bytes each)
//
// All integers are little-endian. Only the edge set needs to survive a
// round trip; since names are written in their canonical ascending order,
// a reload reproduces the exact same index assignment as well.
//
// Returns the number of bytes written.
func (t *PPMTable) WriteTo(w io.Writer) (int64, error) {
	var bytesWritten int64

	// Helper function to track writes
	write := func(data interface{}) error {
		err := binary.Write(w, binary.LittleEndian, data)
		if err == nil {
			switch v := data.(type) {
			case uint32:
				bytesWritten += 4
			case []uint32:
				bytesWritten += int64(len(v) * 4)
			}
		}
		return err
	}

	// 1. Write magic number "PPMT"
	if _, err := io.WriteString(w, TableMagic); err != nil {
		return bytesWritten, fmt.Errorf("failed to write magic number: %w", err)
	}
	bytesWritten += int64(len(TableMagic))

	// 2. Write version
	if err := write(tableFormatVersion); err != nil {
		return bytesWritten, fmt.Errorf("failed to write version: %w", err)
	}

	// 3. Write name count
	if err := write(uint32(len(t.names))); err != nil {
		return bytesWritten, fmt.Errorf("failed to write name count: %w", err)
	}

	// 4. Write each name, length prefixed, in index order
	for i, name := range t.names {
		if err := write(uint32(len(name))); err != nil {
			return bytesWritten, fmt.Errorf("failed to write name %d length: %w", i, err)
		}
		if _, err := io.WriteString(w, name); err != nil {
			return bytesWritten, fmt.Errorf("failed to write name %d: %w", i, err)
		}
		bytesWritten += int64(len(name))
	}

	// 5. Write the packed score matrix in one block
	if err := write(t.ppms); err != nil {
		return bytesWritten, fmt.Errorf("failed to write score matrix: %w", err)
	}

	return bytesWritten, nil
}

// ReadFrom deserializes a table from r, replacing the receiver's
// contents. The input must have been produced by WriteTo.
//
// Beyond the magic number and version, ReadFrom validates the structural
// invariants a well-formed table relies on: names must arrive in strict
// ascending order (which also rules out duplicates) and the score payload
// must match the name count exactly. Violations mean the input is corrupt
// or was not written by WriteTo, and are reported as errors rather than
// producing a malformed table.
//
// Returns the number of bytes read.
func (t *PPMTable) ReadFrom(r io.Reader) (int64, error) {
	var bytesRead int64

	// Helper function to track reads
	read := func(data interface{}) error {
		err := binary.Read(r, binary.LittleEndian, data)
		if err == nil {
			switch v := data.(type) {
			case *uint32:
				bytesRead += 4
			case []uint32:
				bytesRead += int64(len(v) * 4)
			}
		}
		return err
	}

	// 1. Read and validate magic number
	magic := make([]byte, len(TableMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return bytesRead, fmt.Errorf("failed to read magic number: %w", err)
	}
	bytesRead += int64(len(magic))
	if string(magic) != TableMagic {
		return bytesRead, fmt.Errorf("magic number %q: %w", string(magic), ErrInvalidMagic)
	}

	// 2. Read version
	var version uint32
	if err := read(&version); err != nil {
		return bytesRead, fmt.Errorf("failed to read version: %w", err)
	}
	if version != tableFormatVersion {
		return bytesRead, fmt.Errorf("version %d: %w", version, ErrUnsupportedVersion)
	}

	// 3. Read name count
	var nameCount uint32
	if err := read(&nameCount); err != nil {
		return bytesRead, fmt.Errorf("failed to read name count: %w", err)
	}

	// 4. Read names, enforcing the canonical ascending order
	names := make([]string, nameCount)
	index := make(map[string]uint32, nameCount)
	for i := uint32(0); i < nameCount; i++ {
		var nameLen uint32
		if err := read(&nameLen); err != nil {
			return bytesRead, fmt.Errorf("failed to read name %d length: %w", i, err)
		}
		buf := make([]byte, nameLen)
		if _, err := io.ReadFull(r, buf); err != nil {
			return bytesRead, fmt.Errorf("failed to read name %d: %w", i, err)
		}
		bytesRead += int64(nameLen)

		name := string(buf)
		if i > 0 && names[i-1] >= name {
			return bytesRead, fmt.Errorf("names %q and %q are not in strict ascending order", names[i-1], name)
		}
		names[i] = name
		index[name] = i
	}

	// 5. Read the packed score matrix
	n := int(nameCount)
	ppms := make([]uint32, n*(n-1)/2)
	if err := read(ppms); err != nil {
		return bytesRead, fmt.Errorf("failed to read score matrix: %w", err)
	}

	// Update table state only after the whole payload parsed cleanly
	t.names = names
	t.index = index
	t.ppms = ppms

	return bytesRead, nil
}
