// Package mux implements the segmented path router that maps request paths
// to their handlers.
//
// Routes are stored in a trie built at registration time. Each node maps
// literal segments to entries and holds at most one placeholder entry for
// segments written as ":name":
//
//	r := mux.NewRouter()
//	r.AddStatic("/", []byte("Root"))
//	r.AddRoute("/hello/world", mux.MethodGet, helloWorld)
//	r.AddRoute("/hello/:name", mux.MethodGet, helloName)
//	r.AddRoute("/hello/:name/:age", mux.MethodGet, helloNameAge)
//
// # Resolution
//
// Resolution walks the path one segment at a time. A literal child always
// wins over the placeholder of the same node, and there is no backtracking:
// once a literal matches, the placeholder is not tried. A placeholder matches
// exactly one concrete segment.
//
// By default a leaf only matches when the whole path is consumed, so with the
// routes above "/hello/world/extra" resolves to nothing. EarlyTermination
// lets a literal leaf match regardless of trailing segments.
//
// # Entries
//
// A path resolves to an Entry:
//   - StaticPayload answers every method with 200 and a literal body;
//   - MethodPipelines runs the pipeline registered for the request method,
//     or answers 405 Method Not Allowed (RFC 9110 Section 15.5.6);
//   - a *Router reached as a final target answers 500.
//
// A path that resolves to nothing is answered with 404 Not Found by Dispatch.
//
// # Scope Data
//
// Values added with AddData are stored on the node and inherited by every
// route beneath it. Resolution combines the stores of all visited nodes, the
// inner node winning on a type collision:
//
//	r.AddData(db)
//	r.AddModule("/admin", mux.ModuleFunc(func(sub *mux.Router) {
//		sub.AddData(adminPolicy)
//		sub.AddRoute("/users", mux.MethodGet, listUsers)
//	}))
//
// Handlers read scope data through pipeline.Data.
//
// # Modules
//
// A Module contributes a subtree built against a fresh router and mounted at
// a prefix with AddModule. Mounting over an existing route keeps it as the
// module's root unless the module registers "/" itself.
package mux
