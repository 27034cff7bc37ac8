package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nutmunch/internal/cart"
)

const eventBuffer = 64

// Events carries cart notices and change signals from the controller's
// goroutines into the Bubble Tea loop. It implements cart.Notifier.
type Events struct {
	ch chan tea.Msg
}

// NewEvents returns an empty event hub.
func NewEvents() *Events {
	return &Events{ch: make(chan tea.Msg, eventBuffer)}
}

var _ cart.Notifier = (*Events)(nil)

// Notify queues a notice for the toast line.
func (e *Events) Notify(n cart.Notice) {
	e.send(noticeMsg(n))
}

// CartChanged signals that the cart should be re-rendered. The UI reads the
// controller's current state rather than the value passed here.
func (e *Events) CartChanged(cart.State) {
	e.send(cartChangedMsg{})
}

// send never blocks the controller. When the buffer is full the event is
// dropped; the next tick re-renders from current state anyway.
func (e *Events) send(msg tea.Msg) {
	select {
	case e.ch <- msg:
	default:
	}
}

func (e *Events) wait() tea.Cmd {
	if e == nil {
		return nil
	}
	return func() tea.Msg {
		return <-e.ch
	}
}

type noticeMsg cart.Notice

type cartChangedMsg struct{}
