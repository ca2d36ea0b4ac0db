package inventory

import "time"

// ItemType is a category of item with a minimum-quantity policy and an
// optional time-to-live that new instances inherit as an expiry.
type ItemType struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	MinimumQuantity float64        `json:"minimum_quantity"`
	TTL             *time.Duration `json:"ttl,omitempty"`
	OpenByDefault   bool           `json:"open_by_default"`
}

// ItemInstance is a concrete quantity of a type. Quantities are real
// numbers so partial consumption (1.8 of a unit) works naturally.
type ItemInstance struct {
	ID        int64      `json:"id"`
	TypeID    int64      `json:"type_id"`
	Quantity  float64    `json:"quantity"`
	Model     *string    `json:"model,omitempty"`
	Serial    *string    `json:"serial,omitempty"`
	Extra     *string    `json:"extra,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Value     *float64   `json:"value,omitempty"`
	OpenedAt  *time.Time `json:"opened_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	Trashed   bool       `json:"trashed"`
}

// Snapshot is the serializable representation of one named inventory.
// The id counters are part of the document: ids are assigned from them
// and never recycled, so deletions cannot cause reuse.
type Snapshot struct {
	Types          []ItemType     `json:"types"`
	Instances      []ItemInstance `json:"instances"`
	NextTypeID     int64          `json:"next_type_id"`
	NextInstanceID int64          `json:"next_instance_id"`
}

// EmptySnapshot returns the state of a never-saved inventory.
// Loading an unknown name yields this, so a fresh inventory is created
// implicitly on first use.
func EmptySnapshot() *Snapshot {
	return &Snapshot{NextTypeID: 1, NextInstanceID: 1}
}

// MissingType pairs a type with its current total active quantity for
// the missing report.
type MissingType struct {
	Type          ItemType
	TotalQuantity float64
}

// TypeUpdate carries a partial update for an ItemType. Nil fields keep
// their prior value. ClearTTL removes the TTL; it wins over TTL.
type TypeUpdate struct {
	Name            *string
	MinimumQuantity *float64
	TTL             *time.Duration
	ClearTTL        bool
	OpenByDefault   *bool
}

// InstanceUpdate carries a partial update for an ItemInstance. Nil
// fields keep their prior value; the Clear flags remove optional
// timestamps and win over the corresponding pointer field.
type InstanceUpdate struct {
	Quantity     *float64
	Model        *string
	Serial       *string
	Extra        *string
	Location     *string
	Value        *float64
	OpenedAt     *time.Time
	ClearOpened  bool
	ExpiresAt    *time.Time
	ClearExpires bool
}
