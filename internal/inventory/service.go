package inventory

import (
	"fmt"
	"time"
)

// Service is the orchestration layer between the CLI and the record
// store. It loads the named inventory through the Store, applies
// operations with logging, tracks whether anything mutated, and saves
// the snapshot back on Save. Query operations never trigger a save.
type Service struct {
	inv     *Inventory
	store   Store
	name    string
	logger  Logger
	mutated bool
}

// NewService loads the named inventory from the store and wraps it.
// A name that was never saved yields an empty inventory.
func NewService(store Store, name string, logger Logger, clock Clock) (*Service, error) {
	snapshot, err := store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("loading inventory %q: %w", name, err)
	}
	return &Service{
		inv:    FromSnapshot(snapshot, clock),
		store:  store,
		name:   name,
		logger: logger,
	}, nil
}

// Mutated reports whether any operation changed the inventory since load.
func (s *Service) Mutated() bool { return s.mutated }

// Save persists the inventory if it mutated. Safe to call on a clean
// service; it does nothing.
func (s *Service) Save() error {
	if !s.mutated {
		return nil
	}
	if err := s.store.Save(s.name, s.inv.Snapshot()); err != nil {
		return fmt.Errorf("saving inventory %q: %w", s.name, err)
	}
	s.logger.Debug("inventory saved", "name", s.name)
	return nil
}

// CreateType creates a new item type.
func (s *Service) CreateType(name string, minimumQuantity float64, ttl *time.Duration, openByDefault bool) (ItemType, error) {
	t, err := s.inv.CreateType(name, minimumQuantity, ttl, openByDefault)
	if err != nil {
		return ItemType{}, err
	}
	s.mutated = true
	s.logger.Info("type created", "id", t.ID, "name", t.Name)
	return t, nil
}

// UpdateType applies a partial update to a type.
func (s *Service) UpdateType(id int64, u TypeUpdate) error {
	if err := s.inv.UpdateType(id, u); err != nil {
		return err
	}
	s.mutated = true
	s.logger.Info("type updated", "id", id)
	return nil
}

// DeleteType removes a type, leaving its instances with a dangling
// type reference.
func (s *Service) DeleteType(id int64) error {
	if err := s.inv.DeleteType(id); err != nil {
		return err
	}
	s.mutated = true
	s.logger.Info("type deleted", "id", id)
	return nil
}

// CreateInstance creates a new instance of an existing type.
func (s *Service) CreateInstance(n NewInstance) (ItemInstance, error) {
	inst, err := s.inv.CreateInstance(n)
	if err != nil {
		return ItemInstance{}, err
	}
	s.mutated = true
	s.logger.Info("instance created", "id", inst.ID, "type_id", inst.TypeID, "quantity", inst.Quantity)
	return inst, nil
}

// UpdateInstance applies a partial update to an instance.
func (s *Service) UpdateInstance(id int64, u InstanceUpdate) error {
	if err := s.inv.UpdateInstance(id, u); err != nil {
		return err
	}
	s.mutated = true
	s.logger.Info("instance updated", "id", id)
	return nil
}

// DeleteInstance permanently removes an instance.
func (s *Service) DeleteInstance(id int64) error {
	if err := s.inv.DeleteInstance(id); err != nil {
		return err
	}
	s.mutated = true
	s.logger.Info("instance deleted", "id", id)
	return nil
}

// Use consumes amount from an instance, clamping at zero.
func (s *Service) Use(id int64, amount float64) error {
	if err := s.inv.Use(id, amount); err != nil {
		return err
	}
	s.mutated = true
	s.logger.Info("instance used", "id", id, "amount", amount)
	return nil
}

// Trash marks an instance as disposed, keeping it for audit.
// Re-trashing an already-trashed instance leaves the service clean, so
// the no-op does not trigger a document rewrite.
func (s *Service) Trash(id int64) error {
	inst, err := s.inv.GetInstance(id)
	if err != nil {
		return err
	}
	if inst.Trashed {
		return nil
	}
	if err := s.inv.Trash(id); err != nil {
		return err
	}
	s.mutated = true
	s.logger.Info("instance trashed", "id", id)
	return nil
}

// Open stamps an instance as opened now.
func (s *Service) Open(id int64) error {
	if err := s.inv.Open(id); err != nil {
		return err
	}
	s.mutated = true
	s.logger.Info("instance opened", "id", id)
	return nil
}

// GetType returns a type by id.
func (s *Service) GetType(id int64) (ItemType, error) { return s.inv.GetType(id) }

// GetInstance returns an instance by id.
func (s *Service) GetInstance(id int64) (ItemInstance, error) { return s.inv.GetInstance(id) }

// ListTypes returns all types in insertion order.
func (s *Service) ListTypes() []ItemType { return s.inv.ListTypes() }

// FindTypesByName returns types matching the query case-insensitively.
func (s *Service) FindTypesByName(query string) []ItemType { return s.inv.FindTypesByName(query) }

// ListInstances returns all instances in insertion order, trashed included.
func (s *Service) ListInstances() []ItemInstance { return s.inv.ListInstances() }

// TotalQuantity returns the active quantity total for a type.
func (s *Service) TotalQuantity(typeID int64) float64 { return s.inv.TotalQuantity(typeID) }

// ListMissing returns types below their minimum quantity.
func (s *Service) ListMissing() []MissingType { return s.inv.ListMissing() }

// ListExpired returns non-trashed instances past their expiry.
func (s *Service) ListExpired() []ItemInstance { return s.inv.ListExpired() }
