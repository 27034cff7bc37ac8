package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/nutmunch/internal/prefs"
	"github.com/five82/nutmunch/internal/storefront"
)

var sortOrder = []string{
	storefront.SortFeatured,
	storefront.SortPriceAsc,
	storefront.SortPriceDesc,
	storefront.SortName,
}

type shopState struct {
	list     listState
	category string
	sort     string

	searching  bool
	search     textinput.Model
	query      string
	results    []storefront.Product
	hasResults bool
}

func newShopState(p prefs.Prefs) shopState {
	ti := textinput.New()
	ti.Placeholder = "almonds, raw, reserve..."
	ti.Prompt = "/ "
	ti.CharLimit = 64
	return shopState{
		category: p.Category,
		sort:     p.Sort,
		search:   ti,
	}
}

type searchResultsMsg struct {
	query    string
	products []storefront.Product
	err      error
}

// filterProducts applies the category filter and sort order to products
// without modifying the input. Featured order is the catalog's own order.
func filterProducts(products []storefront.Product, category, sortBy string) []storefront.Product {
	out := make([]storefront.Product, 0, len(products))
	for _, p := range products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		out = append(out, p)
	}

	switch sortBy {
	case storefront.SortPriceAsc:
		slices.SortStableFunc(out, func(a, b storefront.Product) int { return cmpFloat(a.Price, b.Price) })
	case storefront.SortPriceDesc:
		slices.SortStableFunc(out, func(a, b storefront.Product) int { return cmpFloat(b.Price, a.Price) })
	case storefront.SortName:
		slices.SortStableFunc(out, func(a, b storefront.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
	return out
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func sortLabel(sortBy string) string {
	switch sortBy {
	case storefront.SortPriceAsc:
		return "price ↑"
	case storefront.SortPriceDesc:
		return "price ↓"
	case storefront.SortName:
		return "name"
	default:
		return "featured"
	}
}

// nextOption returns the entry after current in options, wrapping around.
func nextOption(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

// visibleProducts returns the rows the shop table shows.
func (m Model) visibleProducts() []storefront.Product {
	source := m.snapshot.Products
	if m.shop.hasResults {
		source = m.shop.results
	}
	return filterProducts(source, m.shop.category, m.shop.sort)
}

func (m Model) selectedProduct() (storefront.Product, bool) {
	products := m.visibleProducts()
	if m.shop.list.selected < 0 || m.shop.list.selected >= len(products) {
		return storefront.Product{}, false
	}
	return products[m.shop.list.selected], true
}

func (m Model) handleShopKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.visibleProducts()
	if m.shop.list.move(m.keys, msg, len(products)) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		m.shop.searching = true
		m.shop.search.SetValue(m.shop.query)
		cmd := m.shop.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.CycleCategory):
		options := append([]string{""}, m.snapshot.Categories()...)
		m.shop.category = nextOption(options, m.shop.category)
		m.shop.list.selected = 0
		m.prefs.Category = m.shop.category
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.shop.sort = nextOption(sortOrder, m.shop.sort)
		m.shop.list.selected = 0
		m.prefs.Sort = m.shop.sort
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.reloadCartCmd()
	}

	p, ok := m.selectedProduct()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Open):
		return m.openDetail(p), nil
	case key.Matches(msg, m.keys.AddToCart):
		return m, m.addCmd(p, 1)
	case key.Matches(msg, m.keys.ToggleWishlist):
		return m, m.toggleWishlistCmd(p)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.shop.searching = false
		m.shop.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.shop.searching = false
		m.shop.search.Blur()
		query := strings.TrimSpace(m.shop.search.Value())
		if query == "" {
			m.clearSearch()
			return m, nil
		}
		return m, m.searchCmd(query)
	}

	var cmd tea.Cmd
	m.shop.search, cmd = m.shop.search.Update(msg)
	return m, cmd
}

func (m *Model) clearSearch() {
	m.shop.query = ""
	m.shop.results = nil
	m.shop.hasResults = false
	m.shop.search.SetValue("")
	m.shop.list.selected = 0
}

func (m *Model) handleSearchResults(msg searchResultsMsg) {
	if msg.err != nil {
		m.log.Warn("search failed", zap.String("query", msg.query), zap.Error(msg.err))
		m.showError(fmt.Sprintf("Search for %q failed", msg.query))
		return
	}
	m.shop.query = msg.query
	m.shop.results = msg.products
	m.shop.hasResults = true
	m.shop.list.selected = 0
}

func (m Model) searchCmd(query string) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		products, err := client.SearchProducts(ctx, query)
		return searchResultsMsg{query: query, products: products, err: err}
	}
}

// renderShop renders the catalog table.
func (m Model) renderShop() string {
	styles := m.theme.Styles()
	var b strings.Builder

	// Filter line
	category := m.shop.category
	if category == "" {
		category = "all"
	}
	filter := fmt.Sprintf(" category: %s   sort: %s", category, sortLabel(m.shop.sort))
	if m.shop.hasResults {
		filter += fmt.Sprintf("   search: %q (esc clears)", m.shop.query)
	}
	b.WriteString(styles.MutedText.Render(filter))
	b.WriteString("\n")
	if m.shop.searching {
		b.WriteString(" " + m.shop.search.View())
	}
	b.WriteString("\n")

	products := m.visibleProducts()
	if len(products) == 0 {
		switch {
		case !m.snapshot.HasCatalog && !m.shop.hasResults:
			b.WriteString(styles.MutedText.Render(" Loading catalog..."))
		case m.shop.hasResults:
			b.WriteString(styles.MutedText.Render(" No products match your search."))
		default:
			b.WriteString(styles.MutedText.Render(" No products in this category."))
		}
		return b.String()
	}

	nameWidth := m.width - 48
	if nameWidth < 16 {
		nameWidth = 16
	}

	header := "   " + pad("NAME", nameWidth) + " " + pad("CATEGORY", 12) + " " + pad("WEIGHT", 8) + " " + padLeft("PRICE", 9) + "  " + pad("STOCK", 8)
	b.WriteString(styles.FaintText.Render(header))
	b.WriteString("\n")

	rows := m.contentHeight() - 4
	start := scrollStart(m.shop.list.selected, len(products), rows)
	cartState := m.cart.State()
	for i := start; i < len(products) && i < start+rows; i++ {
		p := products[i]
		marker := "  "
		if m.snapshot.InWishlist(p.ID) {
			marker = "♥ "
		}
		stock := "in stock"
		switch {
		case p.StockQuantity <= 0:
			stock = "sold out"
		case p.StockQuantity < 10:
			stock = fmt.Sprintf("%d left", p.StockQuantity)
		}
		if line, ok := cartState.Find(p.ID); ok {
			stock = fmt.Sprintf("%d in cart", line.Quantity)
		}

		row := " " + marker + pad(p.Name, nameWidth) + " " + pad(p.Category, 12) + " " + pad(p.Weight, 8) + " " + padLeft(formatPrice(p.Price), 9) + "  " + pad(stock, 10)
		if i == m.shop.list.selected {
			b.WriteString(styles.Selected.Render(pad(row, m.width)))
		} else {
			b.WriteString(styles.Text.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// scrollStart returns the first visible row so that selected stays in view.
func scrollStart(selected, total, rows int) int {
	if rows <= 0 || total <= rows {
		return 0
	}
	start := selected - rows/2
	if start < 0 {
		start = 0
	}
	if start > total-rows {
		start = total - rows
	}
	return start
}
