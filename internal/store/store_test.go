package store

import (
	"testing"
	"time"

	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
)

// sampleSnapshot exercises every field class: optional strings, optional
// numerics, optional timestamps, a trashed instance and a dangling type
// reference left by a deleted type.
func sampleSnapshot() *inventory.Snapshot {
	ttl := 48 * time.Hour
	model := "DX-7"
	serial := "123-abc"
	location := "garage"
	value := 99.5
	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	opened := created.Add(10 * time.Minute)
	expires := created.Add(ttl)

	return &inventory.Snapshot{
		Types: []inventory.ItemType{
			{ID: 1, Name: "Milk", MinimumQuantity: 2, TTL: &ttl},
			{ID: 3, Name: "Drill", MinimumQuantity: 0, OpenByDefault: true},
		},
		Instances: []inventory.ItemInstance{
			{ID: 1, TypeID: 1, Quantity: 1.5, OpenedAt: &opened, ExpiresAt: &expires, CreatedAt: created},
			{ID: 2, TypeID: 3, Quantity: 1, Model: &model, Serial: &serial, Location: &location, Value: &value, CreatedAt: created},
			{ID: 4, TypeID: 9, Quantity: 0.5, CreatedAt: created, Trashed: true},
		},
		NextTypeID:     4,
		NextInstanceID: 5,
	}
}

func timePtrEqual(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}

func stringPtrEqual(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func float64PtrEqual(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

// assertSnapshotsEquivalent compares snapshots field by field, treating
// timestamps as equal when they name the same instant.
func assertSnapshotsEquivalent(t *testing.T, got, want *inventory.Snapshot) {
	t.Helper()

	if got.NextTypeID != want.NextTypeID || got.NextInstanceID != want.NextInstanceID {
		t.Errorf("counters = (%d, %d), want (%d, %d)",
			got.NextTypeID, got.NextInstanceID, want.NextTypeID, want.NextInstanceID)
	}

	if len(got.Types) != len(want.Types) {
		t.Fatalf("types length = %d, want %d", len(got.Types), len(want.Types))
	}
	for i, w := range want.Types {
		g := got.Types[i]
		if g.ID != w.ID || g.Name != w.Name || g.MinimumQuantity != w.MinimumQuantity || g.OpenByDefault != w.OpenByDefault {
			t.Errorf("type %d = %+v, want %+v", i, g, w)
		}
		if (g.TTL == nil) != (w.TTL == nil) || (g.TTL != nil && *g.TTL != *w.TTL) {
			t.Errorf("type %d TTL = %v, want %v", i, g.TTL, w.TTL)
		}
	}

	if len(got.Instances) != len(want.Instances) {
		t.Fatalf("instances length = %d, want %d", len(got.Instances), len(want.Instances))
	}
	for i, w := range want.Instances {
		g := got.Instances[i]
		if g.ID != w.ID || g.TypeID != w.TypeID || g.Quantity != w.Quantity || g.Trashed != w.Trashed {
			t.Errorf("instance %d = %+v, want %+v", i, g, w)
		}
		if !stringPtrEqual(g.Model, w.Model) || !stringPtrEqual(g.Serial, w.Serial) ||
			!stringPtrEqual(g.Extra, w.Extra) || !stringPtrEqual(g.Location, w.Location) {
			t.Errorf("instance %d descriptive fields = %+v, want %+v", i, g, w)
		}
		if !float64PtrEqual(g.Value, w.Value) {
			t.Errorf("instance %d Value = %v, want %v", i, g.Value, w.Value)
		}
		if !timePtrEqual(g.OpenedAt, w.OpenedAt) || !timePtrEqual(g.ExpiresAt, w.ExpiresAt) {
			t.Errorf("instance %d timestamps = (%v, %v), want (%v, %v)",
				i, g.OpenedAt, g.ExpiresAt, w.OpenedAt, w.ExpiresAt)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) {
			t.Errorf("instance %d CreatedAt = %v, want %v", i, g.CreatedAt, w.CreatedAt)
		}
	}
}

// roundTrip saves the sample snapshot under two names and checks both
// load back equivalent, plus that unknown names yield empty snapshots.
func roundTrip(t *testing.T, s inventory.Store) {
	t.Helper()

	empty, err := s.Load("never-saved")
	if err != nil {
		t.Fatalf("Load(never-saved) error = %v", err)
	}
	if len(empty.Types) != 0 || len(empty.Instances) != 0 || empty.NextTypeID != 1 || empty.NextInstanceID != 1 {
		t.Errorf("Load(never-saved) = %+v, want empty snapshot", empty)
	}

	want := sampleSnapshot()
	if err := s.Save("groceries", want); err != nil {
		t.Fatalf("Save(groceries) error = %v", err)
	}
	if err := s.Save("workshop", inventory.EmptySnapshot()); err != nil {
		t.Fatalf("Save(workshop) error = %v", err)
	}

	got, err := s.Load("groceries")
	if err != nil {
		t.Fatalf("Load(groceries) error = %v", err)
	}
	assertSnapshotsEquivalent(t, got, want)

	// Names are isolated documents.
	other, err := s.Load("workshop")
	if err != nil {
		t.Fatalf("Load(workshop) error = %v", err)
	}
	if len(other.Types) != 0 || len(other.Instances) != 0 {
		t.Errorf("Load(workshop) = %+v, want empty snapshot", other)
	}

	// Saving again replaces, not appends.
	want.Types = want.Types[:1]
	want.NextTypeID = 7
	if err := s.Save("groceries", want); err != nil {
		t.Fatalf("second Save(groceries) error = %v", err)
	}
	got, err = s.Load("groceries")
	if err != nil {
		t.Fatalf("second Load(groceries) error = %v", err)
	}
	assertSnapshotsEquivalent(t, got, want)
}
