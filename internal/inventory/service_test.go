package inventory_test

import (
	"testing"
	"time"

	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
	"github.com/AnneKitsune/inventory-managoat/internal/store"
	"github.com/AnneKitsune/inventory-managoat/internal/testutil"
)

func newTestService(t *testing.T, st inventory.Store, clock inventory.Clock) *inventory.Service {
	t.Helper()
	svc, err := inventory.NewService(st, "test", inventory.NewNopLogger(), clock)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestService_SaveOnlyWhenMutated(t *testing.T) {
	st := store.NewMemoryStore()
	clock := testutil.FixedClock()

	t.Run("queries do not mark the service mutated", func(t *testing.T) {
		svc := newTestService(t, st, clock)

		svc.ListTypes()
		svc.ListInstances()
		svc.ListMissing()
		svc.ListExpired()

		if svc.Mutated() {
			t.Error("Mutated() = true after queries only")
		}
	})

	t.Run("mutations mark and save persists", func(t *testing.T) {
		svc := newTestService(t, st, clock)

		typ, err := svc.CreateType("Milk", 2, nil, false)
		if err != nil {
			t.Fatalf("CreateType() error = %v", err)
		}
		if _, err := svc.CreateInstance(inventory.NewInstance{TypeID: typ.ID}); err != nil {
			t.Fatalf("CreateInstance() error = %v", err)
		}
		if !svc.Mutated() {
			t.Fatal("Mutated() = false after mutations")
		}
		if err := svc.Save(); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		// A fresh service sees the persisted state.
		reloaded := newTestService(t, st, clock)
		if types := reloaded.ListTypes(); len(types) != 1 || types[0].Name != "Milk" {
			t.Errorf("reloaded types = %v, want [Milk]", types)
		}
		if instances := reloaded.ListInstances(); len(instances) != 1 {
			t.Errorf("reloaded instances length = %d, want 1", len(instances))
		}
	})

	t.Run("save on a clean service is a no-op", func(t *testing.T) {
		svc := newTestService(t, st, clock)
		if err := svc.Save(); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	})
}

func TestService_RetrashDoesNotMark(t *testing.T) {
	st := store.NewMemoryStore()
	clock := testutil.FixedClock()

	// First invocation: create and trash an instance.
	svc := newTestService(t, st, clock)
	typ, err := svc.CreateType("Milk", 0, nil, false)
	if err != nil {
		t.Fatalf("CreateType() error = %v", err)
	}
	inst, err := svc.CreateInstance(inventory.NewInstance{TypeID: typ.ID})
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	if err := svc.Trash(inst.ID); err != nil {
		t.Fatalf("Trash() error = %v", err)
	}
	if err := svc.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Second invocation: trashing again succeeds but stays clean, so
	// the document is not rewritten.
	later := newTestService(t, st, clock)
	if err := later.Trash(inst.ID); err != nil {
		t.Fatalf("Trash() second call error = %v", err)
	}
	if later.Mutated() {
		t.Error("Mutated() = true after re-trashing an already-trashed instance")
	}
}

func TestService_FailedMutationsDoNotMark(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore(), testutil.FixedClock())

	if _, err := svc.CreateInstance(inventory.NewInstance{TypeID: 404}); err == nil {
		t.Fatal("CreateInstance() expected error for unknown type")
	}
	if err := svc.Use(404, 1); err == nil {
		t.Fatal("Use() expected error for unknown instance")
	}

	if svc.Mutated() {
		t.Error("Mutated() = true after failed operations only")
	}
}

func TestService_ExpiryAcrossInvocations(t *testing.T) {
	st := store.NewMemoryStore()
	clock := testutil.FixedClock()

	// First invocation: create a type with a 1s TTL and one instance.
	svc := newTestService(t, st, clock)
	ttl := time.Second
	typ, err := svc.CreateType("Milk", 1, &ttl, false)
	if err != nil {
		t.Fatalf("CreateType() error = %v", err)
	}
	if _, err := svc.CreateInstance(inventory.NewInstance{TypeID: typ.ID}); err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	if err := svc.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Second invocation, after the TTL has passed.
	clock.Advance(2 * time.Second)
	later := newTestService(t, st, clock)

	if expired := later.ListExpired(); len(expired) != 1 {
		t.Errorf("ListExpired() length = %d, want 1", len(expired))
	}
	if missing := later.ListMissing(); len(missing) != 0 {
		t.Errorf("ListMissing() = %v, want empty while stock is on hand", missing)
	}
}
