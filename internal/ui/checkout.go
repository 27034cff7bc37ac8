package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/nutmunch/internal/pricing"
	"github.com/five82/nutmunch/internal/storefront"
)

const (
	fieldName = iota
	fieldEmail
	fieldAddress
	fieldCity
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Email", "Address", "City"}

type checkoutState struct {
	inputs     [fieldCount]textinput.Model
	focus      int
	problems   []string
	submitting bool
	order      *storefront.Order
}

type checkoutResultMsg struct {
	order *storefront.Order
	err   error
}

func newCheckoutState() checkoutState {
	var cs checkoutState
	placeholders := [fieldCount]string{"Ada Lovelace", "ada@example.com", "12 Orchard Lane", "Modesto"}
	for i := range cs.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 120
		cs.inputs[i] = ti
	}
	return cs
}

func (c checkoutState) request() storefront.CheckoutRequest {
	return storefront.CheckoutRequest{
		CustomerName: c.inputs[fieldName].Value(),
		Email:        c.inputs[fieldEmail].Value(),
		Address:      c.inputs[fieldAddress].Value(),
		City:         c.inputs[fieldCity].Value(),
	}.Normalize()
}

// enterCheckout resets a finished checkout and focuses the form.
func (m *Model) enterCheckout() tea.Cmd {
	if m.checkout.order != nil {
		m.checkout = newCheckoutState()
		m.resizeInputs()
	}
	m.checkout.problems = nil
	return m.focusField(m.checkout.focus)
}

func (m *Model) focusField(i int) tea.Cmd {
	m.checkout.focus = i
	var cmd tea.Cmd
	for j := range m.checkout.inputs {
		if j == i {
			cmd = m.checkout.inputs[j].Focus()
		} else {
			m.checkout.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *Model) resizeInputs() {
	w := m.width - 20
	if w < 20 {
		w = 20
	}
	for i := range m.checkout.inputs {
		m.checkout.inputs[i].Width = w
	}
	m.shop.search.Width = w
}

func (m Model) handleCheckoutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		for i := range m.checkout.inputs {
			m.checkout.inputs[i].Blur()
		}
		m.currentView = ViewShop
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		cmd := m.focusField((m.checkout.focus + 1) % fieldCount)
		return m, cmd

	case key.Matches(msg, m.keys.PrevField):
		cmd := m.focusField((m.checkout.focus + fieldCount - 1) % fieldCount)
		return m, cmd

	case key.Matches(msg, m.keys.Submit):
		if m.checkout.focus < fieldCount-1 {
			cmd := m.focusField(m.checkout.focus + 1)
			return m, cmd
		}
		return m.submitCheckout()
	}

	var cmd tea.Cmd
	m.checkout.inputs[m.checkout.focus], cmd = m.checkout.inputs[m.checkout.focus].Update(msg)
	return m, cmd
}

// handleCheckoutDoneKey handles keys on the confirmation screen.
func (m Model) handleCheckoutDoneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Open) {
		return m.switchView(ViewShop)
	}
	return m, nil
}

func (m Model) submitCheckout() (tea.Model, tea.Cmd) {
	if m.checkout.submitting {
		return m, nil
	}
	if m.cart.State().Empty() {
		m.checkout.problems = []string{"your cart is empty"}
		return m, nil
	}

	req := m.checkout.request()
	if err := req.Validate(); err != nil {
		var verr *storefront.ValidationError
		if errors.As(err, &verr) {
			m.checkout.problems = verr.Problems
		} else {
			m.checkout.problems = []string{err.Error()}
		}
		return m, nil
	}

	m.checkout.problems = nil
	m.checkout.submitting = true
	return m, m.checkoutCmd(req)
}

func (m Model) checkoutCmd(req storefront.CheckoutRequest) tea.Cmd {
	client, c, ctx, handle := m.client, m.cart, m.ctx, m.session
	return func() tea.Msg {
		order, err := client.Checkout(ctx, handle, req)
		if err == nil {
			// The server empties the cart on success.
			_ = c.Reload(ctx)
		}
		return checkoutResultMsg{order: order, err: err}
	}
}

func (m *Model) handleCheckoutResult(msg checkoutResultMsg) {
	m.checkout.submitting = false
	if msg.err != nil {
		m.log.Warn("checkout failed", zap.Error(msg.err))
		m.checkout.problems = []string{"order could not be placed, please try again"}
		m.showError("Checkout failed")
		return
	}
	m.checkout.order = msg.order
	for i := range m.checkout.inputs {
		m.checkout.inputs[i].Blur()
	}
	m.showInfo(fmt.Sprintf("Order #%d confirmed", msg.order.ID))
}

// renderCheckout renders the shipping form or the order confirmation.
func (m Model) renderCheckout() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString("\n")

	if o := m.checkout.order; o != nil {
		b.WriteString(" " + styles.SuccessText.Render("Order Confirmed") + "\n\n")
		b.WriteString(" " + styles.Text.Render(fmt.Sprintf("Thank you, %s. Your order is being prepared for dispatch.", o.CustomerName)) + "\n\n")
		b.WriteString(" " + styles.FaintText.Render(pad("Order ID", 12)) + styles.Text.Render(fmt.Sprintf("#%d", o.ID)) + "\n")
		b.WriteString(" " + styles.FaintText.Render(pad("Total", 12)) + styles.Text.Render(formatPrice(o.TotalAmount)) + "\n")
		if o.Status != "" {
			b.WriteString(" " + styles.FaintText.Render(pad("Status", 12)) + styles.Text.Render(o.Status) + "\n")
		}
		b.WriteString("\n " + styles.MutedText.Render("Press enter or s to keep shopping.") + "\n")
		return b.String()
	}

	s := m.cart.State()
	q := m.cart.Quote()
	b.WriteString(" " + styles.Text.Bold(true).Render("Shipping details") + "\n")
	b.WriteString(" " + styles.MutedText.Render(fmt.Sprintf("%d items · total %s", s.TotalQuantity(), pricing.FormatMoney(q.GrandTotal))) + "\n\n")

	for i, ti := range m.checkout.inputs {
		label := pad(fieldLabels[i], 10)
		if i == m.checkout.focus {
			b.WriteString(" " + styles.AccentText.Render("▸ "+label))
		} else {
			b.WriteString(" " + styles.MutedText.Render("  "+label))
		}
		b.WriteString(ti.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.checkout.submitting {
		b.WriteString(" " + styles.InfoText.Render("Placing order...") + "\n")
	}
	for _, p := range m.checkout.problems {
		b.WriteString(" " + styles.DangerText.Render("• "+p) + "\n")
	}
	return b.String()
}
