// Package cart reconciles the client's view of a shopping cart with the
// storefront's cart service.
//
// # Overview
//
// A Controller holds the single local State for one session. The UI and the
// CLI read copies of it through State and Quote; only the controller writes
// it. Mutations are optimistic: the local state changes first, the remote
// delta is sent second, and the change is undone if the remote call fails.
//
// # Mutation Lifecycle
//
// AddItem, RemoveItem and UpdateQuantity all follow the same steps:
//
//	snapshot := current state
//	state = optimistic(state)        // OnChange fires, notice emitted
//	err := remote.ApplyCartDelta(...)
//	if err != nil {
//		state = snapshot             // OnChange fires, failure notice
//		return err
//	}
//	go Load(...)                     // reconcile with server truth
//
// There is no queueing and no retry. Each mutation restores its own
// snapshot, so when two mutations overlap, a failing one can erase the
// other's optimistic change until the next Load.
//
// # Deltas and Tombstones
//
// The remote only accepts quantity deltas and never deletes rows. Removing a
// line sends the negative of its quantity, which leaves a zero row behind.
// Load drops every row at or below zero and merges duplicate rows.
//
// # Refresh Ordering
//
// Every local write advances an internal epoch. Loads started within one
// epoch share a single fetch. A fetch that returns after the epoch has moved
// on is discarded rather than overwriting newer local state.
//
// # Totals
//
// State exposes LineCount, TotalQuantity and Subtotal. Controller.Quote
// applies the configured pricing.Policy for shipping, tax and the
// free-shipping progress bar. Nothing derived is cached.
package cart
