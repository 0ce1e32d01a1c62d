package datastore

import (
	"reflect"
	"sort"

	"github.com/muir/reflectutils"
)

// Store maps a type identity to a single value of that type.
//
// A Store is not safe for concurrent mutation. Stores attached to router
// nodes are populated during registration and only read afterwards.
type Store struct {
	values map[reflect.Type]any
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[reflect.Type]any)}
}

// Add binds v under the identity of T, replacing any previous value of T.
func Add[T any](s *Store, v T) {
	s.Insert(reflect.TypeFor[T](), v)
}

// Insert binds v under the given type identity. It panics when v is not
// assignable to typ, since a mismatched binding could never be retrieved.
func (s *Store) Insert(typ reflect.Type, v any) {
	if typ == nil {
		panic("datastore: nil type")
	}
	if v == nil && !nilable(typ) {
		panic("datastore: nil value for non-nilable type " + reflectutils.TypeName(typ))
	}
	if v != nil && !reflect.TypeOf(v).AssignableTo(typ) {
		panic("datastore: value of type " + reflectutils.TypeName(reflect.TypeOf(v)) +
			" is not assignable to " + reflectutils.TypeName(typ))
	}
	if s.values == nil {
		s.values = make(map[reflect.Type]any)
	}
	s.values[typ] = v
}

// Get returns the value bound to T.
func Get[T any](s *Store) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	raw, ok := s.values[reflect.TypeFor[T]()]
	if !ok {
		return zero, false
	}
	if raw == nil {
		// A nil interface or pointer value was stored under T.
		return zero, true
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Has reports whether a value is bound to T.
func Has[T any](s *Store) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[reflect.TypeFor[T]()]
	return ok
}

// Len returns the number of bound types.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Clone returns a shallow copy of s. The values themselves are shared.
func (s *Store) Clone() *Store {
	c := &Store{values: make(map[reflect.Type]any, s.Len())}
	if s != nil {
		for k, v := range s.values {
			c.values[k] = v
		}
	}
	return c
}

// Combine returns a new store holding the parent's values overlaid with the
// child's. Either argument may be nil.
func Combine(parent, child *Store) *Store {
	c := parent.Clone()
	if child != nil {
		for k, v := range child.values {
			c.values[k] = v
		}
	}
	return c
}

// TypeNames returns the sorted names of the bound types.
func (s *Store) TypeNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.values))
	for t := range s.values {
		names = append(names, reflectutils.TypeName(t))
	}
	sort.Strings(names)
	return names
}

// TypeName returns the human readable name of T.
func TypeName[T any]() string {
	return reflectutils.TypeName(reflect.TypeFor[T]())
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
