package inventory

import (
	"strings"
	"time"
)

// Inventory is the in-memory record store for one named inventory: the
// two collections, their id counters, and every query and mutation the
// CLI exposes. It is not safe for concurrent use; a single invocation
// loads it, applies at most one operation, and saves it.
type Inventory struct {
	types          []ItemType
	instances      []ItemInstance
	nextTypeID     int64
	nextInstanceID int64
	clock          Clock
}

// New creates an empty inventory.
func New(clock Clock) *Inventory {
	return FromSnapshot(EmptySnapshot(), clock)
}

// FromSnapshot builds an inventory from a loaded snapshot. Counters
// below 1 (from a hand-edited or legacy document) are bumped so newly
// assigned ids never collide with existing records.
func FromSnapshot(s *Snapshot, clock Clock) *Inventory {
	inv := &Inventory{
		types:          append([]ItemType(nil), s.Types...),
		instances:      append([]ItemInstance(nil), s.Instances...),
		nextTypeID:     s.NextTypeID,
		nextInstanceID: s.NextInstanceID,
		clock:          clock,
	}
	for _, t := range inv.types {
		if t.ID >= inv.nextTypeID {
			inv.nextTypeID = t.ID + 1
		}
	}
	for _, i := range inv.instances {
		if i.ID >= inv.nextInstanceID {
			inv.nextInstanceID = i.ID + 1
		}
	}
	if inv.nextTypeID < 1 {
		inv.nextTypeID = 1
	}
	if inv.nextInstanceID < 1 {
		inv.nextInstanceID = 1
	}
	return inv
}

// Snapshot returns the serializable representation of the inventory.
func (inv *Inventory) Snapshot() *Snapshot {
	return &Snapshot{
		Types:          append([]ItemType(nil), inv.types...),
		Instances:      append([]ItemInstance(nil), inv.instances...),
		NextTypeID:     inv.nextTypeID,
		NextInstanceID: inv.nextInstanceID,
	}
}

// Type operations

// CreateType creates a new item type and returns it with its assigned id.
// minimumQuantity must be non-negative.
func (inv *Inventory) CreateType(name string, minimumQuantity float64, ttl *time.Duration, openByDefault bool) (ItemType, error) {
	if minimumQuantity < 0 {
		return ItemType{}, ErrInvalidArgument
	}
	t := ItemType{
		ID:              inv.nextTypeID,
		Name:            name,
		MinimumQuantity: minimumQuantity,
		TTL:             ttl,
		OpenByDefault:   openByDefault,
	}
	inv.nextTypeID++
	inv.types = append(inv.types, t)
	return t, nil
}

// GetType returns the item type with the given id.
func (inv *Inventory) GetType(id int64) (ItemType, error) {
	if t := inv.findType(id); t != nil {
		return *t, nil
	}
	return ItemType{}, ErrTypeNotFound
}

// UpdateType applies a partial update to a type. Unset fields keep
// their prior value. Changing the TTL does not touch the expiry of
// existing instances; it only affects instances created afterwards.
func (inv *Inventory) UpdateType(id int64, u TypeUpdate) error {
	t := inv.findType(id)
	if t == nil {
		return ErrTypeNotFound
	}
	if u.MinimumQuantity != nil && *u.MinimumQuantity < 0 {
		return ErrInvalidArgument
	}
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.MinimumQuantity != nil {
		t.MinimumQuantity = *u.MinimumQuantity
	}
	if u.ClearTTL {
		t.TTL = nil
	} else if u.TTL != nil {
		t.TTL = u.TTL
	}
	if u.OpenByDefault != nil {
		t.OpenByDefault = *u.OpenByDefault
	}
	return nil
}

// DeleteType removes a type. Its instances are kept with a dangling
// type_id: they stay listable and auditable, but drop out of the
// missing report since there is no minimum to measure against anymore.
func (inv *Inventory) DeleteType(id int64) error {
	for i := range inv.types {
		if inv.types[i].ID == id {
			inv.types = append(inv.types[:i], inv.types[i+1:]...)
			return nil
		}
	}
	return ErrTypeNotFound
}

// ListTypes returns all types in insertion order.
func (inv *Inventory) ListTypes() []ItemType {
	return append([]ItemType(nil), inv.types...)
}

// FindTypesByName returns types whose name contains the query,
// case-insensitively, in insertion order.
func (inv *Inventory) FindTypesByName(query string) []ItemType {
	q := strings.ToLower(query)
	var out []ItemType
	for _, t := range inv.types {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}

// Instance operations

// NewInstance describes an instance to create. Quantity defaults to 1
// when nil. ExpiresAt defaults to creation time + the type's TTL when
// the type has one.
type NewInstance struct {
	TypeID    int64
	Quantity  *float64
	Model     *string
	Serial    *string
	Extra     *string
	Location  *string
	Value     *float64
	ExpiresAt *time.Time
}

// CreateInstance creates an instance of an existing type and returns it
// with its assigned id. The type must exist at creation time.
func (inv *Inventory) CreateInstance(n NewInstance) (ItemInstance, error) {
	t := inv.findType(n.TypeID)
	if t == nil {
		return ItemInstance{}, ErrTypeNotFound
	}

	quantity := 1.0
	if n.Quantity != nil {
		quantity = *n.Quantity
	}
	if quantity < 0 {
		return ItemInstance{}, ErrInvalidArgument
	}

	now := inv.clock.Now()
	expires := n.ExpiresAt
	if expires == nil && t.TTL != nil {
		e := now.Add(*t.TTL)
		expires = &e
	}

	// The TTL clock runs from creation regardless of the opened state;
	// opened_at is recorded so a ttl-from-open policy can use it later.
	var opened *time.Time
	if t.OpenByDefault {
		o := now
		opened = &o
	}

	inst := ItemInstance{
		ID:        inv.nextInstanceID,
		TypeID:    n.TypeID,
		Quantity:  quantity,
		Model:     n.Model,
		Serial:    n.Serial,
		Extra:     n.Extra,
		Location:  n.Location,
		Value:     n.Value,
		OpenedAt:  opened,
		ExpiresAt: expires,
		CreatedAt: now,
	}
	inv.nextInstanceID++
	inv.instances = append(inv.instances, inst)
	return inst, nil
}

// GetInstance returns the item instance with the given id.
func (inv *Inventory) GetInstance(id int64) (ItemInstance, error) {
	if i := inv.findInstance(id); i != nil {
		return *i, nil
	}
	return ItemInstance{}, ErrInstanceNotFound
}

// UpdateInstance applies a partial update to an instance. Unset fields
// keep their prior value.
func (inv *Inventory) UpdateInstance(id int64, u InstanceUpdate) error {
	inst := inv.findInstance(id)
	if inst == nil {
		return ErrInstanceNotFound
	}
	if u.Quantity != nil && *u.Quantity < 0 {
		return ErrInvalidArgument
	}
	if u.Quantity != nil {
		inst.Quantity = *u.Quantity
	}
	if u.Model != nil {
		inst.Model = u.Model
	}
	if u.Serial != nil {
		inst.Serial = u.Serial
	}
	if u.Extra != nil {
		inst.Extra = u.Extra
	}
	if u.Location != nil {
		inst.Location = u.Location
	}
	if u.Value != nil {
		inst.Value = u.Value
	}
	if u.ClearOpened {
		inst.OpenedAt = nil
	} else if u.OpenedAt != nil {
		inst.OpenedAt = u.OpenedAt
	}
	if u.ClearExpires {
		inst.ExpiresAt = nil
	} else if u.ExpiresAt != nil {
		inst.ExpiresAt = u.ExpiresAt
	}
	return nil
}

// DeleteInstance permanently removes an instance. This is the only
// operation that drops a record; trashing keeps it for audit.
func (inv *Inventory) DeleteInstance(id int64) error {
	for i := range inv.instances {
		if inv.instances[i].ID == id {
			inv.instances = append(inv.instances[:i], inv.instances[i+1:]...)
			return nil
		}
	}
	return ErrInstanceNotFound
}

// ListInstances returns all instances in insertion order, trashed
// records included.
func (inv *Inventory) ListInstances() []ItemInstance {
	return append([]ItemInstance(nil), inv.instances...)
}

// Queries

// TotalQuantity returns the sum of quantities over all non-trashed
// instances of the given type. It is computed fresh on every call so it
// always reflects current instance state.
func (inv *Inventory) TotalQuantity(typeID int64) float64 {
	total := 0.0
	for _, i := range inv.instances {
		if i.TypeID == typeID && !i.Trashed {
			total += i.Quantity
		}
	}
	return total
}

// ListMissing returns every type whose total active quantity is
// strictly below its minimum, in insertion order. A type exactly at its
// minimum is not missing.
func (inv *Inventory) ListMissing() []MissingType {
	var out []MissingType
	for _, t := range inv.types {
		total := inv.TotalQuantity(t.ID)
		if total < t.MinimumQuantity {
			out = append(out, MissingType{Type: t, TotalQuantity: total})
		}
	}
	return out
}

// ListExpired returns every non-trashed instance whose expiry is before
// the current clock time, in insertion order.
func (inv *Inventory) ListExpired() []ItemInstance {
	now := inv.clock.Now()
	var out []ItemInstance
	for _, i := range inv.instances {
		if !i.Trashed && i.ExpiresAt != nil && i.ExpiresAt.Before(now) {
			out = append(out, i)
		}
	}
	return out
}

// Quantity engine

// Use consumes amount from an instance's quantity. Consuming more than
// is available clamps the quantity to zero and succeeds: the goods are
// physically gone regardless of bookkeeping precision. Negative amounts
// fail with ErrInvalidArgument and leave the instance unchanged.
func (inv *Inventory) Use(id int64, amount float64) error {
	inst := inv.findInstance(id)
	if inst == nil {
		return ErrInstanceNotFound
	}
	if amount < 0 {
		return ErrInvalidArgument
	}
	inst.Quantity -= amount
	if inst.Quantity < 0 {
		inst.Quantity = 0
	}
	return nil
}

// Trash marks an instance as disposed. The record is kept as an audit
// trail and excluded from active totals; only DeleteInstance removes it.
// Trashing an already-trashed instance is a no-op, not an error.
func (inv *Inventory) Trash(id int64) error {
	inst := inv.findInstance(id)
	if inst == nil {
		return ErrInstanceNotFound
	}
	inst.Trashed = true
	return nil
}

// Open stamps an instance as opened at the current clock time. The
// expiry is not recomputed; TTLs run from creation.
func (inv *Inventory) Open(id int64) error {
	inst := inv.findInstance(id)
	if inst == nil {
		return ErrInstanceNotFound
	}
	now := inv.clock.Now()
	inst.OpenedAt = &now
	return nil
}

func (inv *Inventory) findType(id int64) *ItemType {
	for i := range inv.types {
		if inv.types[i].ID == id {
			return &inv.types[i]
		}
	}
	return nil
}

func (inv *Inventory) findInstance(id int64) *ItemInstance {
	for i := range inv.instances {
		if inv.instances[i].ID == id {
			return &inv.instances[i]
		}
	}
	return nil
}
