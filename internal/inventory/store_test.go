package inventory

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T, items []Item) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fridge.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	store.items = items
	if err := store.Save(); err != nil {
		t.Fatalf("Failed to save test items: %v", err)
	}
	return store
}

func TestNewStoreSeedsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fridge.json")

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if store.Count() != len(DefaultItems()) {
		t.Errorf("Expected %d default items, got %d", len(DefaultItems()), store.Count())
	}

	// The defaults must have been persisted immediately.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected inventory file %s to be created", path)
	}
}

func TestNewStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fridge.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("Expected corrupt file to regenerate defaults, got error: %v", err)
	}
	if store.Count() != len(DefaultItems()) {
		t.Errorf("Expected default inventory after corrupt load, got %d items", store.Count())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fridge.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	store.items = []Item{
		{Name: "Milk", Quantity: 1, Unit: "gallon", ExpiryDate: "2025-07-20", Category: "dairy"},
		{Name: "Rice", Quantity: 2, Unit: "cups", ExpiryDate: "2026-01-01", Category: "grain"},
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("Failed to reload store: %v", err)
	}
	if reloaded.Count() != 2 {
		t.Fatalf("Expected 2 items after reload, got %d", reloaded.Count())
	}
	if reloaded.items[0] != store.items[0] || reloaded.items[1] != store.items[1] {
		t.Errorf("Round-trip mismatch: saved %+v, loaded %+v", store.items, reloaded.items)
	}
}

func TestAddItem(t *testing.T) {
	store := newTestStore(t, []Item{
		{Name: "Eggs", Quantity: 6, Unit: "pieces", ExpiryDate: "2025-07-30", Category: "dairy"},
	})

	t.Run("MergeSameNameAndUnit", func(t *testing.T) {
		err := store.AddItem(Item{Name: "eggs", Quantity: 6, Unit: "Pieces", ExpiryDate: "2025-08-02", Category: "dairy"})
		if err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
		if store.Count() != 1 {
			t.Fatalf("Expected merge into a single record, got %d records", store.Count())
		}
		if store.items[0].Quantity != 12 {
			t.Errorf("Expected quantity 12 after merge, got %d", store.items[0].Quantity)
		}
	})

	t.Run("AppendNewItem", func(t *testing.T) {
		err := store.AddItem(Item{Name: "Butter", Quantity: 1, Unit: "stick", ExpiryDate: "2025-08-10"})
		if err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
		if store.Count() != 2 {
			t.Fatalf("Expected 2 records, got %d", store.Count())
		}
		if store.items[1].Category != "misc" {
			t.Errorf("Expected default category 'misc', got '%s'", store.items[1].Category)
		}
	})

	t.Run("RejectInvalid", func(t *testing.T) {
		err := store.AddItem(Item{Name: "Ghost", Quantity: -1, Unit: "piece", ExpiryDate: "2025-08-10"})
		if err == nil {
			t.Fatal("Expected error for negative quantity, got nil")
		}
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("AddThenRemoveRestoresQuantity", func(t *testing.T) {
		store := newTestStore(t, []Item{
			{Name: "Milk", Quantity: 2, Unit: "gallon", ExpiryDate: "2025-07-25", Category: "dairy"},
		})

		if err := store.AddItem(Item{Name: "Milk", Quantity: 3, Unit: "gallon", ExpiryDate: "2025-07-25", Category: "dairy"}); err != nil {
			t.Fatalf("AddItem failed: %v", err)
		}
		if err := store.RemoveItem("Milk", 3); err != nil {
			t.Fatalf("RemoveItem failed: %v", err)
		}
		if store.items[0].Quantity != 2 {
			t.Errorf("Expected quantity restored to 2, got %d", store.items[0].Quantity)
		}
	})

	t.Run("ZeroQuantityDeletesRecord", func(t *testing.T) {
		store := newTestStore(t, []Item{
			{Name: "Bread", Quantity: 1, Unit: "loaf", ExpiryDate: "2025-07-20", Category: "grain"},
		})

		if err := store.RemoveItem("bread", 1); err != nil {
			t.Fatalf("RemoveItem failed: %v", err)
		}
		if store.Count() != 0 {
			t.Errorf("Expected record deleted at zero quantity, got %d records", store.Count())
		}
	})

	t.Run("NeverGoesNegative", func(t *testing.T) {
		store := newTestStore(t, []Item{
			{Name: "Cheese", Quantity: 2, Unit: "oz", ExpiryDate: "2025-08-01", Category: "dairy"},
		})

		if err := store.RemoveItem("Cheese", 10); err != nil {
			t.Fatalf("RemoveItem failed: %v", err)
		}
		if store.Count() != 0 {
			t.Errorf("Expected over-removal to delete the record, got %d records", store.Count())
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		store := newTestStore(t, []Item{
			{Name: "Rice", Quantity: 2, Unit: "cups", ExpiryDate: "2026-01-01", Category: "grain"},
		})

		err := store.RemoveItem("Caviar", 1)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
		if store.items[0].Quantity != 2 {
			t.Errorf("Expected inventory unchanged after miss, got quantity %d", store.items[0].Quantity)
		}
	})
}

func TestExpiringSoon(t *testing.T) {
	store := newTestStore(t, []Item{
		{Name: "Rice", Quantity: 2, Unit: "cups", ExpiryDate: "2026-01-01", Category: "grain"},
		{Name: "Milk", Quantity: 1, Unit: "gallon", ExpiryDate: "2025-07-20", Category: "dairy"},
		{Name: "Bread", Quantity: 1, Unit: "loaf", ExpiryDate: "2025-07-18", Category: "grain"},
		{Name: "Yogurt", Quantity: 1, Unit: "cup", ExpiryDate: "2025-07-16", Category: "dairy"},
		{Name: "Cheese", Quantity: 8, Unit: "oz", ExpiryDate: "2025-07-23", Category: "dairy"},
	})
	store.now = func() time.Time {
		return time.Date(2025, 7, 18, 10, 30, 0, 0, time.UTC)
	}

	t.Run("WindowInclusiveAndSorted", func(t *testing.T) {
		expiring := store.ExpiringSoon(5)
		// Yogurt (already expired), Bread (today), Milk and Cheese (within 5 days).
		want := []string{"Yogurt", "Bread", "Milk", "Cheese"}
		if len(expiring) != len(want) {
			t.Fatalf("Expected %d expiring items, got %d: %+v", len(want), len(expiring), expiring)
		}
		for i, name := range want {
			if expiring[i].Name != name {
				t.Errorf("Expected item %d to be %s, got %s", i, name, expiring[i].Name)
			}
		}
	})

	t.Run("BoundaryExcludesDayAfter", func(t *testing.T) {
		expiring := store.ExpiringSoon(4)
		for _, item := range expiring {
			if item.Name == "Cheese" {
				t.Errorf("Cheese expires 2025-07-23, outside a 4-day window from 2025-07-18")
			}
		}
	})

	t.Run("SpecScenario", func(t *testing.T) {
		milkStore := newTestStore(t, []Item{
			{Name: "Milk", Quantity: 1, Unit: "gallon", ExpiryDate: "2025-07-20", Category: "dairy"},
		})
		milkStore.now = store.now

		expiring := milkStore.ExpiringSoon(5)
		if len(expiring) != 1 || expiring[0].Name != "Milk" {
			t.Fatalf("Expected the Milk item, got %+v", expiring)
		}
		low := milkStore.LowStock(1)
		if len(low) != 1 || low[0].Name != "Milk" {
			t.Fatalf("Expected the Milk item in low stock, got %+v", low)
		}
	})
}

func TestLowStock(t *testing.T) {
	store := newTestStore(t, []Item{
		{Name: "Milk", Quantity: 1, Unit: "gallon", ExpiryDate: "2025-07-25", Category: "dairy"},
		{Name: "Eggs", Quantity: 8, Unit: "pieces", ExpiryDate: "2025-07-30", Category: "dairy"},
		{Name: "Carrots", Quantity: 2, Unit: "pieces", ExpiryDate: "2025-07-28", Category: "vegetable"},
	})

	low := store.LowStock(2)
	if len(low) != 2 {
		t.Fatalf("Expected 2 low-stock items, got %d", len(low))
	}
	for _, item := range low {
		if item.Quantity > 2 {
			t.Errorf("Item %s with quantity %d should not be low stock", item.Name, item.Quantity)
		}
	}
}

func TestSummary(t *testing.T) {
	store := newTestStore(t, []Item{
		{Name: "Milk", Quantity: 1, Unit: "gallon", ExpiryDate: "2025-07-25", Category: "dairy"},
		{Name: "Cheese", Quantity: 8, Unit: "oz", ExpiryDate: "2025-08-01", Category: "dairy"},
		{Name: "Rice", Quantity: 2, Unit: "cups", ExpiryDate: "2026-01-01", Category: "grain"},
	})

	summary := store.Summary()
	if len(summary["dairy"]) != 2 {
		t.Errorf("Expected 2 dairy items, got %d", len(summary["dairy"]))
	}
	if len(summary["grain"]) != 1 {
		t.Errorf("Expected 1 grain item, got %d", len(summary["grain"]))
	}
}

func TestSaveIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fridge.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// No temp file may be left behind and the target must be valid JSON.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("Expected temp file to be renamed away")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read inventory file: %v", err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		t.Errorf("Inventory file is not valid JSON: %v", err)
	}
}
