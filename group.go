// group.go
package prefdoc

import (
	"errors"
	"fmt"
)

// Group is an insertion-ordered, name-keyed collection of Preferences.
// Iteration order equals insertion order and is significant for rendering.
// A Group is not safe for concurrent mutation.
type Group struct {
	desc  string
	names []string
	prefs map[string]Preference
}

// NewGroup creates a Group seeded with the given preferences.
func NewGroup(prefs ...Preference) (*Group, error) {
	g := &Group{prefs: make(map[string]Preference)}
	if err := g.Add(prefs...); err != nil {
		return nil, err
	}
	return g, nil
}

// MustGroup is NewGroup for static declarations; it panics on error.
func MustGroup(prefs ...Preference) *Group {
	g, err := NewGroup(prefs...)
	if err != nil {
		panic(err)
	}
	return g
}

// Description returns the group description, or "".
func (g *Group) Description() string { return g.desc }

// SetDescription sets the comment block rendered before the group.
func (g *Group) SetDescription(desc string) { g.desc = desc }

// Add appends preferences in argument order. It rejects nil entries and
// name collisions, and claims exclusive ownership of each preference; a
// preference already held by another container is rejected.
func (g *Group) Add(prefs ...Preference) error {
	for _, p := range prefs {
		if p == nil {
			return ErrNilArgument
		}
		if _, exists := g.prefs[p.Name()]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateName, p.Name())
		}
		if err := p.claim(); err != nil {
			return err
		}
		g.prefs[p.Name()] = p
		g.names = append(g.names, p.Name())
	}
	return nil
}

// Remove detaches p from the group.
func (g *Group) Remove(p Preference) error {
	if p == nil {
		return ErrNilArgument
	}
	return g.RemoveByName(p.Name())
}

// RemoveByName detaches the named preference, releasing its ownership.
func (g *Group) RemoveByName(name string) error {
	p, exists := g.prefs[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	p.release()
	delete(g.prefs, name)
	for i, n := range g.names {
		if n == name {
			g.names = append(g.names[:i], g.names[i+1:]...)
			break
		}
	}
	return nil
}

// Contains reports whether p itself is in the group.
func (g *Group) Contains(p Preference) bool {
	if p == nil {
		return false
	}
	held, exists := g.prefs[p.Name()]
	return exists && held == p
}

// ContainsName reports whether a preference with the given name exists.
func (g *Group) ContainsName(name string) bool {
	_, exists := g.prefs[name]
	return exists
}

// Get returns the named preference or ErrNotFound.
func (g *Group) Get(name string) (Preference, error) {
	p, exists := g.prefs[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, nil
}

// Names returns the preference names in insertion order.
func (g *Group) Names() []string {
	return append([]string(nil), g.names...)
}

// Len returns the number of preferences in the group.
func (g *Group) Len() int { return len(g.names) }

// GetValue returns the named preference's current value as a dynamically
// typed payload; the second result is false when the value is null.
func (g *Group) GetValue(name string) (any, bool, error) {
	p, err := g.Get(name)
	if err != nil {
		return nil, false, err
	}
	v, present := p.ValueAny()
	return v, present, nil
}

// SetValue applies a dynamically typed value to the named preference
// through its normal validity and constraint checks.
func (g *Group) SetValue(name string, value any) error {
	p, err := g.Get(name)
	if err != nil {
		return err
	}
	return p.SetAny(value)
}

// SetValuesToNull clears every preference value, in insertion order.
func (g *Group) SetValuesToNull() {
	for _, name := range g.names {
		g.prefs[name].SetToNull()
	}
}

// SetValuesToDefault resets every preference to its default, in insertion
// order. Individual failures do not stop the sweep; all are joined into
// the returned error.
func (g *Group) SetValuesToDefault() error {
	var errs []error
	for _, name := range g.names {
		if err := g.prefs[name].SetToDefault(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GroupValueAs returns the named preference's current value as T,
// performing a kind-checked cast.
func GroupValueAs[T any](g *Group, name string) (T, error) {
	p, err := g.Get(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return ValueOf[T](p)
}

// GroupDefaultAs returns the named preference's default value as T,
// performing a kind-checked cast.
func GroupDefaultAs[T any](g *Group, name string) (T, error) {
	p, err := g.Get(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return DefaultOf[T](p)
}
