// Package state holds the catalog and wishlist the poller last fetched.
//
// The poller writes with Update after each fetch. The TUI reads with
// Snapshot on every tick and on demand after a wishlist toggle. Both sides
// only ever see copies; a Snapshot can be kept and rendered without locking.
//
// A failed poll keeps the previous products and wishlist and records the
// error, so a flaky storefront shows stale data plus a warning instead of an
// empty shop:
//
//	products, err1 := client.FetchProducts(ctx, query)
//	wishlist, err2 := client.FetchWishlist(ctx, handle)
//	store.Update(products, wishlist, errors.Join(err1, err2))
//
// Two or more consecutive failures mark the snapshot offline.
//
// The zero Store is ready to use. The cart is not kept here: cart.Controller
// owns it and has its own reconciliation rules.
package state
