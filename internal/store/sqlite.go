package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
	"github.com/AnneKitsune/inventory-managoat/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore keeps named inventories in a single SQLite database.
// Each save replaces the named inventory's rows in one transaction, so
// the document semantics match the filesystem backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates) the database at path.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the named inventory. A name without a row yields an empty
// snapshot.
func (s *SQLiteStore) Load(name string) (*inventory.Snapshot, error) {
	snapshot := inventory.EmptySnapshot()

	err := s.db.QueryRow(
		`SELECT next_type_id, next_instance_id FROM inventories WHERE name = ?`, name,
	).Scan(&snapshot.NextTypeID, &snapshot.NextInstanceID)
	if errors.Is(err, sql.ErrNoRows) {
		return inventory.EmptySnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading inventory %q: %w", name, err)
	}

	types, err := s.loadTypes(name)
	if err != nil {
		return nil, fmt.Errorf("loading inventory %q: %w", name, err)
	}
	instances, err := s.loadInstances(name)
	if err != nil {
		return nil, fmt.Errorf("loading inventory %q: %w", name, err)
	}

	snapshot.Types = types
	snapshot.Instances = instances
	return snapshot, nil
}

func (s *SQLiteStore) loadTypes(name string) ([]inventory.ItemType, error) {
	rows, err := s.db.Query(
		`SELECT id, name, minimum_quantity, ttl_ns, open_by_default
		 FROM item_types WHERE inventory = ? ORDER BY position`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("querying types: %w", err)
	}
	defer rows.Close()

	var types []inventory.ItemType
	for rows.Next() {
		var t inventory.ItemType
		var ttl sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &t.MinimumQuantity, &ttl, &t.OpenByDefault); err != nil {
			return nil, fmt.Errorf("scanning type: %w", err)
		}
		if ttl.Valid {
			d := time.Duration(ttl.Int64)
			t.TTL = &d
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (s *SQLiteStore) loadInstances(name string) ([]inventory.ItemInstance, error) {
	rows, err := s.db.Query(
		`SELECT id, type_id, quantity, model, serial, extra, location, value,
		        opened_at_ns, expires_at_ns, created_at_ns, trashed
		 FROM item_instances WHERE inventory = ? ORDER BY position`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("querying instances: %w", err)
	}
	defer rows.Close()

	var instances []inventory.ItemInstance
	for rows.Next() {
		var i inventory.ItemInstance
		var model, serial, extra, location sql.NullString
		var value sql.NullFloat64
		var opened, expires sql.NullInt64
		var created int64
		if err := rows.Scan(&i.ID, &i.TypeID, &i.Quantity, &model, &serial, &extra, &location,
			&value, &opened, &expires, &created, &i.Trashed); err != nil {
			return nil, fmt.Errorf("scanning instance: %w", err)
		}
		i.Model = nullStringPtr(model)
		i.Serial = nullStringPtr(serial)
		i.Extra = nullStringPtr(extra)
		i.Location = nullStringPtr(location)
		if value.Valid {
			v := value.Float64
			i.Value = &v
		}
		i.OpenedAt = nullTimePtr(opened)
		i.ExpiresAt = nullTimePtr(expires)
		i.CreatedAt = time.Unix(0, created)
		instances = append(instances, i)
	}
	return instances, rows.Err()
}

// Save replaces the named inventory's rows in one transaction.
func (s *SQLiteStore) Save(name string, snapshot *inventory.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO inventories (name, next_type_id, next_instance_id) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET next_type_id = excluded.next_type_id,
		                                 next_instance_id = excluded.next_instance_id`,
		name, snapshot.NextTypeID, snapshot.NextInstanceID,
	); err != nil {
		return fmt.Errorf("saving inventory row: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM item_types WHERE inventory = ?`, name); err != nil {
		return fmt.Errorf("clearing types: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM item_instances WHERE inventory = ?`, name); err != nil {
		return fmt.Errorf("clearing instances: %w", err)
	}

	for pos, t := range snapshot.Types {
		var ttl sql.NullInt64
		if t.TTL != nil {
			ttl = sql.NullInt64{Int64: int64(*t.TTL), Valid: true}
		}
		if _, err := tx.Exec(
			`INSERT INTO item_types (inventory, id, position, name, minimum_quantity, ttl_ns, open_by_default)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			name, t.ID, pos, t.Name, t.MinimumQuantity, ttl, t.OpenByDefault,
		); err != nil {
			return fmt.Errorf("saving type %d: %w", t.ID, err)
		}
	}

	for pos, i := range snapshot.Instances {
		if _, err := tx.Exec(
			`INSERT INTO item_instances (inventory, id, position, type_id, quantity, model, serial,
			                             extra, location, value, opened_at_ns, expires_at_ns, created_at_ns, trashed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			name, i.ID, pos, i.TypeID, i.Quantity,
			ptrNullString(i.Model), ptrNullString(i.Serial), ptrNullString(i.Extra), ptrNullString(i.Location),
			ptrNullFloat(i.Value), timeNullInt(i.OpenedAt), timeNullInt(i.ExpiresAt),
			i.CreatedAt.UnixNano(), i.Trashed,
		); err != nil {
			return fmt.Errorf("saving instance %d: %w", i.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func nullStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTimePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64)
	return &t
}

func ptrNullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func ptrNullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func timeNullInt(p *time.Time) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: p.UnixNano(), Valid: true}
}

// Compile-time check that SQLiteStore implements inventory.Store
var _ inventory.Store = (*SQLiteStore)(nil)
