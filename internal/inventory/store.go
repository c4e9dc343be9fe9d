package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when a named item is not in the inventory.
var ErrNotFound = errors.New("item not found in inventory")

// Store provides file-backed storage for the fridge inventory.
//
// The backing file is a JSON array of item records. A store always holds a
// usable inventory: an absent or corrupt file is replaced by the default
// starter set.
type Store struct {
	filePath string
	items    []Item
	now      func() time.Time
}

// NewStore loads the inventory from filePath, seeding and persisting the
// default starter inventory when the file is absent or unparsable. It fails
// only when the default inventory cannot be written back.
func NewStore(filePath string) (*Store, error) {
	s := &Store{
		filePath: filePath,
		now:      time.Now,
	}

	data, err := os.ReadFile(filePath)
	if err == nil {
		var items []Item
		if jsonErr := unmarshalItems(data, &items); jsonErr == nil {
			s.items = items
			return s, nil
		} else {
			log.Printf("Warning: inventory file %s is corrupt (%v), regenerating defaults", filePath, jsonErr)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: failed to read inventory file %s (%v), regenerating defaults", filePath, err)
	}

	s.items = DefaultItems()
	if err := s.Save(); err != nil {
		return nil, fmt.Errorf("failed to persist default inventory: %w", err)
	}
	return s, nil
}

func unmarshalItems(data []byte, items *[]Item) error {
	if err := json.Unmarshal(data, items); err != nil {
		return err
	}
	for _, item := range *items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Save serializes the full item list, overwriting the backing file. The write
// goes to a temporary file first so a crash mid-write cannot truncate the
// inventory.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create inventory directory: %w", err)
		}
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write inventory file: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("failed to replace inventory file: %w", err)
	}
	return nil
}

// Items returns a snapshot copy of the current inventory.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns the number of distinct item records.
func (s *Store) Count() int {
	return len(s.items)
}

// AddItem appends a new record, or increments the quantity of an existing
// record with the same name and unit.
func (s *Store) AddItem(item Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.Category == "" {
		item.Category = "misc"
	}

	for i := range s.items {
		if strings.EqualFold(s.items[i].Name, item.Name) && strings.EqualFold(s.items[i].Unit, item.Unit) {
			s.items[i].Quantity += item.Quantity
			s.saveOrWarn()
			return nil
		}
	}

	s.items = append(s.items, item)
	s.saveOrWarn()
	return nil
}

// RemoveItem decrements the quantity of the named item. A quantity that
// reaches or passes zero deletes the record. Returns ErrNotFound when no item
// matches; the inventory is left unchanged in that case.
func (s *Store) RemoveItem(name string, quantity int) error {
	for i := range s.items {
		if !strings.EqualFold(s.items[i].Name, name) {
			continue
		}
		s.items[i].Quantity -= quantity
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		s.saveOrWarn()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// ExpiringSoon returns items whose expiry date falls on or before
// today+days, ordered by ascending expiry date. Items that have already
// expired are included.
func (s *Store) ExpiringSoon(days int) []Item {
	cutoff := s.today().AddDate(0, 0, days)

	var expiring []Item
	for _, item := range s.items {
		expiry, err := item.ExpiresOn()
		if err != nil {
			continue
		}
		if !expiry.After(cutoff) {
			expiring = append(expiring, item)
		}
	}

	sort.SliceStable(expiring, func(i, j int) bool {
		return expiring[i].ExpiryDate < expiring[j].ExpiryDate
	})
	return expiring
}

// LowStock returns items whose quantity is at or below threshold.
func (s *Store) LowStock(threshold int) []Item {
	var low []Item
	for _, item := range s.items {
		if item.Quantity <= threshold {
			low = append(low, item)
		}
	}
	return low
}

// Summary returns the inventory grouped by category.
func (s *Store) Summary() map[string][]Item {
	summary := make(map[string][]Item)
	for _, item := range s.items {
		summary[item.Category] = append(summary[item.Category], item)
	}
	return summary
}

func (s *Store) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Store) saveOrWarn() {
	if err := s.Save(); err != nil {
		log.Printf("Warning: %v", err)
	}
}
