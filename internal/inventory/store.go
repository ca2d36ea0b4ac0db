package inventory

// Store persists named inventory snapshots. Implementations live in
// internal/store and are selected by config.
type Store interface {
	// Load returns the snapshot for the named inventory. Loading a name
	// that was never saved returns an empty snapshot, not an error.
	Load(name string) (*Snapshot, error)

	// Save durably replaces the snapshot for the named inventory.
	Save(name string, snapshot *Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}
