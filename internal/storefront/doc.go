// Package storefront provides the HTTP client for the nut storefront API.
//
// # Overview
//
// The storefront backend owns products, carts, wishlists and orders. This
// package speaks its JSON API and nothing more: it does not cache, retry or
// reconcile. Local cart state lives in the cart package, which consumes
// FetchCart and ApplyCartDelta through its Remote interface.
//
// # Sessions
//
// Carts and wishlists are scoped by a session.Handle. Every scoped call takes
// the handle explicitly; the client sends it both as the session_id cookie and
// the X-Session-ID header so either backend style can pick it up.
//
// # Cart Semantics
//
// The cart endpoint is delta based: POST /api/cart adds the given quantity
// (possibly negative) to the product's row. The backend never deletes rows,
// so FetchCart may return rows whose quantity is zero or below. Callers must
// treat those as absent.
//
// # Errors
//
// Non-2xx responses become *APIError. A 404 unwraps to ErrNotFound:
//
//	p, err := client.FetchProduct(ctx, "42")
//	if errors.Is(err, storefront.ErrNotFound) {
//		// unknown product
//	}
//
// Checkout and Subscribe validate their input before any request is made and
// return *ValidationError listing every problem.
//
// # Transport
//
// Each request is bounded by the client timeout (5s by default). When
// Options.RequestsPerSecond is set, requests wait on a token bucket before
// they are sent.
package storefront
