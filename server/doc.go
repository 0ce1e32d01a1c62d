// Package server runs a mux router behind a TCP listener.
//
// Each accepted connection carries exactly one request: it is read with
// httpwire, dispatched through the router, answered and closed.
// Connections are served by a fixed-size pool of workers.
//
//	cfg, err := server.LoadConfig("iris.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	srv := server.New(cfg)
//	srv.AddRoute("/hello/:name", mux.MethodGet, hello)
//
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// A handler that panics, for example because a value it depends on was never
// provided, aborts its connection without an answer. The panic is logged and
// counted in iris_contract_violations_total.
package server
