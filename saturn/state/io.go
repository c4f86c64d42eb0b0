package state

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
)

// Save writes a versioned, gzip-compressed save state. The header (magic
// + version) is plain binary so Load can pick the right record type
// before touching the compressed body; the body itself is gob-encoded,
// the idiomatic choice for a composite Go record versus hand-rolling a
// binary.Write call per field (see DESIGN.md).
func Save(w io.Writer, s *State) error {
	var header bytes.Buffer
	header.WriteString(magic)
	if err := binary.Write(&header, binary.LittleEndian, uint32(currentVersion)); err != nil {
		return fmt.Errorf("state: writing version: %w", err)
	}
	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("state: writing header: %w", err)
	}

	gz := gzip.NewWriter(w)
	if err := gob.NewEncoder(gz).Encode(s); err != nil {
		return fmt.Errorf("state: encoding body: %w", err)
	}
	return gz.Close()
}

// Load reads a save state of any supported version, upgrading it to the
// current in-memory layout via the documented field-by-field migrations.
// Invalid headers and out-of-range versions are rejected atomically —
// Load never returns a partially-populated State.
func Load(r io.Reader) (*State, error) {
	magicBuf := make([]byte, len(magic))
	if _, err := io.ReadFull(r, magicBuf); err != nil {
		return nil, fmt.Errorf("state: reading magic: %w", err)
	}
	if string(magicBuf) != magic {
		return nil, fmt.Errorf("state: invalid magic %q", magicBuf)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("state: reading version: %w", err)
	}
	if version < 1 || version > currentVersion {
		return nil, fmt.Errorf("state: unsupported version %d", version)
	}

	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("state: opening compressed body: %w", err)
	}
	defer gz.Close()

	switch version {
	case 1, 2:
		var old legacyState
		if err := gob.NewDecoder(gz).Decode(&old); err != nil {
			return nil, fmt.Errorf("state: decoding v%d body: %w", version, err)
		}
		return upgradeToV3(&old), nil
	default:
		var s State
		if err := gob.NewDecoder(gz).Decode(&s); err != nil {
			return nil, fmt.Errorf("state: decoding v%d body: %w", version, err)
		}
		s.Version = currentVersion
		return &s, nil
	}
}
