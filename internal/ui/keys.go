package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the TUI reacts to.
type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Dismiss    key.Binding

	ViewShop        key.Binding
	ViewCart        key.Binding
	ViewWishlist    key.Binding
	ViewCheckout    key.Binding
	ViewDiagnostics key.Binding

	Open           key.Binding
	AddToCart      key.Binding
	ToggleWishlist key.Binding
	CycleCategory  key.Binding
	CycleSort      key.Binding
	Search         key.Binding

	Increase key.Binding
	Decrease key.Binding
	Remove   key.Binding
	Refresh  key.Binding

	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit:       bind("e", "Quit", "ctrl+c", "e"),
		Help:       bind("h/?", "Toggle help", "h", "?"),
		CycleTheme: bind("T", "Cycle theme", "T"),
		Tab:        bind("tab", "Next view", "tab"),
		ShiftTab:   bind("shift+tab", "Previous view", "shift+tab"),
		Escape:     bind("esc", "Back", "esc"),
		Dismiss:    bind("x", "Dismiss notice", "x"),

		ViewShop:        bind("s", "Shop", "s"),
		ViewCart:        bind("c", "Cart", "c"),
		ViewWishlist:    bind("W", "Wishlist", "W"),
		ViewCheckout:    bind("o", "Checkout", "o"),
		ViewDiagnostics: bind("L", "Client log", "L"),

		Open:           bind("enter", "Product details", "enter"),
		AddToCart:      bind("a", "Add to cart", "a"),
		ToggleWishlist: bind("w", "Save or unsave", "w"),
		CycleCategory:  bind("f", "Cycle category", "f"),
		CycleSort:      bind("r", "Cycle sort", "r"),
		Search:         bind("/", "Search catalog", "/"),

		Increase: bind("+", "One more", "+", "=", "right"),
		Decrease: bind("-", "One fewer", "-", "_", "left"),
		Remove:   bind("D", "Remove line", "D", "delete"),
		Refresh:  bind("R", "Reload", "R"),

		Up:     bind("k/↑", "Up", "k", "up"),
		Down:   bind("j/↓", "Down", "j", "down"),
		Top:    bind("g", "Top", "g", "home"),
		Bottom: bind("G", "Bottom", "G", "end"),

		NextField: bind("tab", "Next field", "tab", "down"),
		PrevField: bind("shift+tab", "Previous field", "shift+tab", "up"),
		Submit:    bind("enter", "Place order", "enter"),
	}
}
