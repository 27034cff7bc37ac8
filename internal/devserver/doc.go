// Package devserver is an in-memory storefront API for local development and
// integration tests.
//
// # Overview
//
// The server speaks the same REST/JSON contract the client consumes: the
// catalog, search, per-session carts and wishlists, checkout and the
// newsletter. Everything lives in memory and resets on restart.
//
// # Cart Semantics
//
// POST /api/cart adds a signed quantity to the session's row for a product.
// Rows are never deleted by a delta; a quantity at or below zero stays in
// the cart as a tombstone and GET /api/cart returns it. Checkout is the only
// operation that clears a cart.
//
// # Checkout
//
// The server prices the live lines with a pricing.Policy, so the charged
// total never depends on numbers the client sends.
//
// # Failure Injection
//
// Options.FailMutations (or SetFailMutations at runtime) makes every cart
// POST answer 503, which exercises the client's rollback path:
//
//	srv := devserver.New(devserver.Options{FailMutations: true})
//	ts := httptest.NewServer(srv.Handler())
//	defer ts.Close()
package devserver
