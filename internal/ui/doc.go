// Package ui provides the terminal storefront built on Bubble Tea.
//
// # Overview
//
// The UI is a single Bubble Tea model with one view per screen: the shop
// table, a product page, the cart with its order summary, the wishlist, the
// checkout form and a tail of the client log. A help overlay lists every
// key binding.
//
// # Data Flow
//
// Catalog and wishlist data come from state.Store, which the app poller
// refreshes in the background. The model re-reads the store on every tick.
//
// The cart is owned by the cart controller. The model never keeps its own
// copy of the cart; every render reads Cart.State so the screen always shows
// the controller's optimistic view. Mutations run as tea.Cmds because the
// controller blocks on the network. Notices and change signals flow back
// through Events, which the controller sees as a cart.Notifier:
//
//	events := ui.NewEvents()
//	ctrl := cart.NewController(client, handle, cart.Options{
//		Notifier: events,
//		OnChange: events.CartChanged,
//	})
//
// # Themes
//
// Themes cycle with T and persist through the prefs package along with the
// last category filter and sort order.
package ui
