package store

import (
	"fmt"
	"os"
	"path/filepath"

	"filippo.io/age"

	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
)

// PassphraseFunc supplies the passphrase for the encrypted store. It is
// called at most once per invocation, on the first load or save.
type PassphraseFunc func() (string, error)

// EncryptedStore keeps each named inventory as an age-encrypted JSON
// document <dataDir>/<name>.json.age, sealed with a passphrase via
// age's scrypt recipient. The layout otherwise matches FileSystemStore,
// including atomic temp-file-and-rename saves.
type EncryptedStore struct {
	dataDir    string
	passphrase PassphraseFunc
	cached     string
	haveCached bool
}

// NewEncryptedStore creates an encrypted store rooted at dataDir,
// creating the directory if needed.
func NewEncryptedStore(dataDir string, passphrase PassphraseFunc) (*EncryptedStore, error) {
	if passphrase == nil {
		return nil, fmt.Errorf("encrypted store requires a passphrase source")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &EncryptedStore{dataDir: dataDir, passphrase: passphrase}, nil
}

func (s *EncryptedStore) documentPath(name string) string {
	return filepath.Join(s.dataDir, name+".json.age")
}

func (s *EncryptedStore) getPassphrase() (string, error) {
	if s.haveCached {
		return s.cached, nil
	}
	p, err := s.passphrase()
	if err != nil {
		return "", fmt.Errorf("obtaining passphrase: %w", err)
	}
	if p == "" {
		return "", fmt.Errorf("empty passphrase")
	}
	s.cached = p
	s.haveCached = true
	return p, nil
}

// Load decrypts and reads the named inventory document. A name that
// was never saved yields an empty snapshot without asking for the
// passphrase.
func (s *EncryptedStore) Load(name string) (*inventory.Snapshot, error) {
	f, err := os.Open(s.documentPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return inventory.EmptySnapshot(), nil
		}
		return nil, fmt.Errorf("opening inventory document: %w", err)
	}
	defer f.Close()

	passphrase, err := s.getPassphrase()
	if err != nil {
		return nil, err
	}
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	decReader, err := age.Decrypt(f, identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting inventory %q: %w", name, err)
	}

	snapshot, err := decodeSnapshot(decReader)
	if err != nil {
		return nil, fmt.Errorf("reading inventory %q: %w", name, err)
	}
	return snapshot, nil
}

// Save encrypts and atomically replaces the named inventory document.
func (s *EncryptedStore) Save(name string, snapshot *inventory.Snapshot) error {
	passphrase, err := s.getPassphrase()
	if err != nil {
		return err
	}
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dataDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	encWriter, err := age.Encrypt(tmpFile, recipient)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if err := encodeSnapshot(encWriter, snapshot); err != nil {
		tmpFile.Close()
		return err
	}
	if err := encWriter.Close(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.documentPath(name)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Close is a no-op for the encrypted store.
func (s *EncryptedStore) Close() error { return nil }

// Compile-time check that EncryptedStore implements inventory.Store
var _ inventory.Store = (*EncryptedStore)(nil)
