// Package store provides the persistence backends for named inventory
// snapshots: filesystem (JSON documents), memory, sqlite, s3 and an
// age-encrypted variant of the filesystem layout.
package store

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
)

// encodeSnapshot writes a snapshot as an indented JSON document, the
// format shared by the filesystem, memory, s3 and encrypted backends.
func encodeSnapshot(w io.Writer, snapshot *inventory.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// decodeSnapshot reads a JSON snapshot document. A document that cannot
// be deserialized at all is a hard error; data is never silently dropped.
func decodeSnapshot(r io.Reader) (*inventory.Snapshot, error) {
	var snapshot inventory.Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snapshot, nil
}
