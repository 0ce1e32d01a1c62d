// Package datastore implements a type-keyed value store used to carry shared
// data through the router and the request pipeline.
//
// A Store holds at most one value per type. Values are keyed by their static
// type identity, so an interface type and a concrete type implementing it
// occupy different slots:
//
//	s := datastore.New()
//	datastore.Add(s, &Config{Name: "api"})
//	cfg, ok := datastore.Get[*Config](s)
//
// # Scopes
//
// Stores are layered with Combine. The result is a fresh store in which the
// child's values shadow the parent's on a type collision and every other
// parent value passes through:
//
//	merged := datastore.Combine(routerScope, routeScope)
//
// Neither input is modified, which lets router nodes keep their scope stores
// immutable while each request builds its own combined view.
//
// Retrieval is always checked: a missing type or a value whose dynamic type
// does not match the requested type reports false instead of panicking.
package datastore
