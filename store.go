// store.go
package prefdoc

import (
	"errors"
	"fmt"
)

// ItemKind tags the shape held by a Store Item.
type ItemKind int

// Store item shapes. ItemInvalid never appears on a live item.
const (
	ItemInvalid ItemKind = iota
	ItemPreference
	ItemGroup
	ItemStore
	ItemGroupArray
	ItemStoreArray
)

var itemKindNames = map[ItemKind]string{
	ItemInvalid:    "invalid",
	ItemPreference: "preference",
	ItemGroup:      "group",
	ItemStore:      "store",
	ItemGroupArray: "group array",
	ItemStoreArray: "store array",
}

func (k ItemKind) String() string {
	if name, ok := itemKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Item is the tagged union a Store maps names to. Exactly one payload is
// set, matching the kind tag; extracting the wrong shape fails.
type Item struct {
	kind   ItemKind
	pref   Preference
	group  *Group
	store  *Store
	groups []*Group
	stores []*Store
}

// Kind returns the item's shape tag.
func (it Item) Kind() ItemKind { return it.kind }

func (it Item) mismatch(want ItemKind) error {
	return fmt.Errorf("%w: item holds %s, not %s", ErrItemMismatch, it.kind, want)
}

// Preference extracts the item as a Preference, failing on any other
// shape.
func (it Item) Preference() (Preference, error) {
	if it.kind != ItemPreference {
		return nil, it.mismatch(ItemPreference)
	}
	return it.pref, nil
}

// Group extracts the item as a Group, failing on any other shape.
func (it Item) Group() (*Group, error) {
	if it.kind != ItemGroup {
		return nil, it.mismatch(ItemGroup)
	}
	return it.group, nil
}

// Store extracts the item as a nested Store, failing on any other shape.
func (it Item) Store() (*Store, error) {
	if it.kind != ItemStore {
		return nil, it.mismatch(ItemStore)
	}
	return it.store, nil
}

// Groups extracts the item as a group array, failing on any other shape.
func (it Item) Groups() ([]*Group, error) {
	if it.kind != ItemGroupArray {
		return nil, it.mismatch(ItemGroupArray)
	}
	return append([]*Group(nil), it.groups...), nil
}

// Stores extracts the item as a store array, failing on any other shape.
func (it Item) Stores() ([]*Store, error) {
	if it.kind != ItemStoreArray {
		return nil, it.mismatch(ItemStoreArray)
	}
	return append([]*Store(nil), it.stores...), nil
}

// Store is an insertion-ordered, name-keyed collection of heterogeneous
// items: preferences, groups, nested stores, and arrays of either. Stores
// nest arbitrarily, forming tree-shaped configuration namespaces. A Store
// is not safe for concurrent mutation.
type Store struct {
	desc  string
	names []string
	items map[string]Item
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{items: make(map[string]Item)}
}

// Description returns the store description, or "".
func (s *Store) Description() string { return s.desc }

// SetDescription sets the comment block rendered before the store.
func (s *Store) SetDescription(desc string) { s.desc = desc }

func (s *Store) insert(name string, it Item) error {
	if _, exists := s.items[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.items[name] = it
	s.names = append(s.names, name)
	return nil
}

// AddPreference inserts p under its own name, claiming ownership.
func (s *Store) AddPreference(p Preference) error {
	if p == nil {
		return ErrNilArgument
	}
	if _, exists := s.items[p.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name())
	}
	if err := p.claim(); err != nil {
		return err
	}
	return s.insert(p.Name(), Item{kind: ItemPreference, pref: p})
}

// AddGroup inserts g under name.
func (s *Store) AddGroup(name string, g *Group) error {
	if g == nil {
		return ErrNilArgument
	}
	return s.insert(name, Item{kind: ItemGroup, group: g})
}

// AddStore inserts a nested store under name.
func (s *Store) AddStore(name string, nested *Store) error {
	if nested == nil {
		return ErrNilArgument
	}
	return s.insert(name, Item{kind: ItemStore, store: nested})
}

// AddGroups inserts an array of groups under name.
func (s *Store) AddGroups(name string, groups []*Group) error {
	for _, g := range groups {
		if g == nil {
			return ErrNilArgument
		}
	}
	return s.insert(name, Item{kind: ItemGroupArray, groups: append([]*Group(nil), groups...)})
}

// AddStores inserts an array of stores under name.
func (s *Store) AddStores(name string, stores []*Store) error {
	for _, st := range stores {
		if st == nil {
			return ErrNilArgument
		}
	}
	return s.insert(name, Item{kind: ItemStoreArray, stores: append([]*Store(nil), stores...)})
}

// RemoveByName removes the named item, releasing preference ownership.
func (s *Store) RemoveByName(name string) error {
	it, exists := s.items[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if it.kind == ItemPreference {
		it.pref.release()
	}
	delete(s.items, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return nil
}

// ContainsName reports whether an item with the given name exists.
func (s *Store) ContainsName(name string) bool {
	_, exists := s.items[name]
	return exists
}

// Names returns the item names in insertion order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of items in the store.
func (s *Store) Len() int { return len(s.names) }

// Get returns the named item or ErrNotFound.
func (s *Store) Get(name string) (Item, error) {
	it, exists := s.items[name]
	if !exists {
		return Item{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return it, nil
}

func (s *Store) itemAs(name string, want ItemKind) (Item, error) {
	it, err := s.Get(name)
	if err != nil {
		return Item{}, err
	}
	if it.kind != want {
		return Item{}, fmt.Errorf("%w: %q holds %s, not %s", ErrItemMismatch, name, it.kind, want)
	}
	return it, nil
}

// GetPreference extracts the named item as a Preference.
func (s *Store) GetPreference(name string) (Preference, error) {
	it, err := s.itemAs(name, ItemPreference)
	if err != nil {
		return nil, err
	}
	return it.pref, nil
}

// GetGroup extracts the named item as a Group.
func (s *Store) GetGroup(name string) (*Group, error) {
	it, err := s.itemAs(name, ItemGroup)
	if err != nil {
		return nil, err
	}
	return it.group, nil
}

// GetStore extracts the named item as a nested Store.
func (s *Store) GetStore(name string) (*Store, error) {
	it, err := s.itemAs(name, ItemStore)
	if err != nil {
		return nil, err
	}
	return it.store, nil
}

// GetGroups extracts the named item as a group array.
func (s *Store) GetGroups(name string) ([]*Group, error) {
	it, err := s.itemAs(name, ItemGroupArray)
	if err != nil {
		return nil, err
	}
	return append([]*Group(nil), it.groups...), nil
}

// GetStores extracts the named item as a store array.
func (s *Store) GetStores(name string) ([]*Store, error) {
	it, err := s.itemAs(name, ItemStoreArray)
	if err != nil {
		return nil, err
	}
	return append([]*Store(nil), it.stores...), nil
}

// SetValue applies a value to a directly held preference by name.
func (s *Store) SetValue(name string, value any) error {
	p, err := s.GetPreference(name)
	if err != nil {
		return err
	}
	return p.SetAny(value)
}

// SetValuesToNull clears every preference value in the subtree, in
// insertion order.
func (s *Store) SetValuesToNull() {
	for _, name := range s.names {
		switch it := s.items[name]; it.kind {
		case ItemPreference:
			it.pref.SetToNull()
		case ItemGroup:
			it.group.SetValuesToNull()
		case ItemStore:
			it.store.SetValuesToNull()
		case ItemGroupArray:
			for _, g := range it.groups {
				g.SetValuesToNull()
			}
		case ItemStoreArray:
			for _, st := range it.stores {
				st.SetValuesToNull()
			}
		}
	}
}

// SetValuesToDefault resets every preference in the subtree to its
// default, in insertion order, joining individual failures.
func (s *Store) SetValuesToDefault() error {
	var errs []error
	for _, name := range s.names {
		switch it := s.items[name]; it.kind {
		case ItemPreference:
			if err := it.pref.SetToDefault(); err != nil {
				errs = append(errs, err)
			}
		case ItemGroup:
			if err := it.group.SetValuesToDefault(); err != nil {
				errs = append(errs, err)
			}
		case ItemStore:
			if err := it.store.SetValuesToDefault(); err != nil {
				errs = append(errs, err)
			}
		case ItemGroupArray:
			for _, g := range it.groups {
				if err := g.SetValuesToDefault(); err != nil {
					errs = append(errs, err)
				}
			}
		case ItemStoreArray:
			for _, st := range it.stores {
				if err := st.SetValuesToDefault(); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	return errors.Join(errs...)
}
