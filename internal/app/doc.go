// Package app provides the orchestration layer for the nutmunch client.
//
// # Overview
//
// This package wires together configuration, the session handle, logging, the
// storefront client, the cart controller, polling and the UI. It is the
// composition root: domain packages never construct each other.
//
// # Architecture
//
// Open builds everything the TUI and the CLI commands share:
//
//  1. Load config from ~/.config/nutmunch/config.toml (defaults if missing)
//  2. Load UI preferences
//  3. Build the zap logger (a file by default; the TUI owns the terminal)
//  4. Load or create the session handle
//  5. Create the storefront HTTP client
//  6. Create the cart controller bound to that client and session
//
// Run additionally primes the store and cart, starts the poller and blocks in
// the TUI until the shopper quits or the context is cancelled.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> Open()              config, prefs, logger, session, client, cart
//	       ├─────> Poller.Refresh()    initial catalog, wishlist and cart fetch
//	       ├─────> go Poller.Run()     periodic refresh with backoff
//	       └─────> ui.Run()            TUI (blocks)
//
//	Poller tick:
//	┌─────────────────────────────────────────┐
//	│  ├─> FetchProducts()   ┐                │
//	│  ├─> FetchWishlist()   ├ errgroup       │
//	│  ├─> Cart.Load()       ┘                │
//	│  └─> store.Update()                     │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller refreshes every interval (default 5 seconds). When the catalog or
// wishlist fetch fails, the wait doubles per consecutive failure up to 30
// seconds and resets on the next success. Cart refresh failures do not count:
// the controller logs them and keeps its state.
//
// Cart mutations do not wait for the poller. The controller reconciles after
// each successful mutation on its own.
//
// # Error Handling
//
// Fatal errors (returned from Open and Run):
//   - Invalid configuration file
//   - Logger, session file or client initialization failure
//
// Recoverable errors (logged, polling continues):
//   - Catalog, wishlist and cart fetch failures
//   - Network timeouts during polling
package app
