package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/nutmunch/internal/cart"
	"github.com/five82/nutmunch/internal/pricing"
	"github.com/five82/nutmunch/internal/prefs"
	"github.com/five82/nutmunch/internal/session"
	"github.com/five82/nutmunch/internal/state"
	"github.com/five82/nutmunch/internal/storefront"
)

// DefaultUIInterval is how often the UI re-reads the store and expires notices.
const DefaultUIInterval = time.Second

// noticeTTL is how long a notice stays on the toast line.
const noticeTTL = 4 * time.Second

// View represents the current active view.
type View int

const (
	ViewShop View = iota
	ViewDetail
	ViewCart
	ViewWishlist
	ViewCheckout
	ViewDiagnostics
)

// viewCycle is the tab order. Detail is reached from a list, not by tab.
var viewCycle = []View{ViewShop, ViewCart, ViewWishlist, ViewCheckout, ViewDiagnostics}

// Shop is the part of the storefront the UI calls directly.
type Shop interface {
	storefront.Catalog
	storefront.Wishlist
	Checkout(ctx context.Context, handle session.Handle, req storefront.CheckoutRequest) (*storefront.Order, error)
}

// Cart is the cart controller as seen by the UI.
type Cart interface {
	State() cart.State
	Quote() pricing.Quote
	Reload(ctx context.Context) error
	AddItem(ctx context.Context, product storefront.Product, quantity int) error
	RemoveItem(ctx context.Context, id storefront.ProductID) error
	UpdateQuantity(ctx context.Context, id storefront.ProductID, quantity int) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    Shop
	Session   session.Handle
	Store     *state.Store
	Cart      Cart
	Events    *Events
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
	PollTick  time.Duration
	Logger    *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    Shop
	session   session.Handle
	store     *state.Store
	cart      Cart
	events    *Events
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	pollTick  time.Duration
	log       *zap.Logger
	keys      keyMap

	// UI state
	theme        Theme
	currentView  View
	previousView View
	width        int
	height       int
	ready        bool
	showHelp     bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	shop     shopState
	detail   detailState
	cartView listState
	wishlist listState
	checkout checkoutState
	diag     diagState
	toast    *toast
}

// listState tracks the cursor of a simple list view.
type listState struct {
	selected int
}

func (l *listState) clamp(n int) {
	if l.selected >= n {
		l.selected = n - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

func (l *listState) move(k keyMap, msg tea.KeyMsg, n int) bool {
	switch {
	case key.Matches(msg, k.Down):
		l.selected++
	case key.Matches(msg, k.Up):
		l.selected--
	case key.Matches(msg, k.Top):
		l.selected = 0
	case key.Matches(msg, k.Bottom):
		l.selected = n - 1
	default:
		return false
	}
	l.clamp(n)
	return true
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	if pollTick > DefaultUIInterval {
		// The store is polled slowly but notices must expire on time.
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		session:     opts.Session,
		store:       opts.Store,
		cart:        opts.Cart,
		events:      opts.Events,
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		pollTick:    pollTick,
		log:         log,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewShop,
	}
	m.shop = newShopState(opts.Prefs)
	m.checkout = newCheckoutState()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.events != nil {
		cmds = append(cmds, m.events.wait())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.diag.viewport = viewport.New(msg.Width, m.contentHeight())
		}
		m.ready = true
		m.resizeInputs()
		m.updateDiagViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.shop.list.clamp(len(m.visibleProducts()))
		m.wishlist.clamp(len(m.snapshot.Wishlist))
		return m, nil

	case noticeMsg:
		m.showNotice(cart.Notice(msg), time.Now())
		return m, m.events.wait()

	case cartChangedMsg:
		m.cartView.clamp(m.cart.State().LineCount())
		return m, m.events.wait()

	case searchResultsMsg:
		m.handleSearchResults(msg)
		return m, nil

	case wishlistMsg:
		return m.handleWishlistResult(msg)

	case checkoutResultMsg:
		m.handleCheckoutResult(msg)
		return m, nil

	case logLinesMsg:
		m.diag.lines = msg.lines
		m.diag.err = msg.err
		m.updateDiagViewport()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Handle help overlay
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Text inputs swallow printable keys.
	if m.currentView == ViewShop && m.shop.searching {
		return m.handleSearchKey(msg)
	}
	if m.currentView == ViewCheckout && m.checkout.order == nil {
		return m.handleCheckoutKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.toast = nil
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.cycleView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.cycleView(-1))

	case key.Matches(msg, m.keys.ViewShop):
		return m.switchView(ViewShop)

	case key.Matches(msg, m.keys.ViewCart):
		return m.switchView(ViewCart)

	case key.Matches(msg, m.keys.ViewWishlist):
		return m.switchView(ViewWishlist)

	case key.Matches(msg, m.keys.ViewCheckout):
		return m.switchView(ViewCheckout)

	case key.Matches(msg, m.keys.ViewDiagnostics):
		return m.switchView(ViewDiagnostics)

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewDetail {
			return m.switchView(m.previousView)
		}
		if m.currentView == ViewShop && m.shop.hasResults {
			m.clearSearch()
			return m, nil
		}
		return m.switchView(ViewShop)
	}

	// View-specific keys
	switch m.currentView {
	case ViewShop:
		return m.handleShopKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewCart:
		return m.handleCartKey(msg)
	case ViewWishlist:
		return m.handleWishlistKey(msg)
	case ViewCheckout:
		return m.handleCheckoutDoneKey(msg)
	case ViewDiagnostics:
		return m.handleDiagKey(msg)
	}

	return m, nil
}

func (m Model) cycleView(step int) View {
	current := m.currentView
	if current == ViewDetail {
		current = m.previousView
	}
	idx := 0
	for i, v := range viewCycle {
		if v == current {
			idx = i
			break
		}
	}
	n := len(viewCycle)
	return viewCycle[((idx+step)%n+n)%n]
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if m.currentView != ViewDetail {
		m.previousView = m.currentView
	}
	m.currentView = v
	switch v {
	case ViewCheckout:
		cmd := m.enterCheckout()
		return m, cmd
	case ViewDiagnostics:
		return m, m.refreshLogsCmd()
	}
	return m, nil
}

// openDetail shows product p, returning to the current view on esc.
func (m Model) openDetail(p storefront.Product) Model {
	m.previousView = m.currentView
	m.currentView = ViewDetail
	m.detail = detailState{product: p, quantity: 1}
	return m
}

// handleTick processes the polling tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Fetch latest snapshot
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	if m.toast != nil && !now.Before(m.toast.expires) {
		m.toast = nil
	}

	if m.currentView == ViewDiagnostics {
		cmds = append(cmds, m.refreshLogsCmd())
	}

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save prefs failed", zap.Error(err))
	}
}

func (m Model) contentHeight() int {
	// header, command bar and notice line
	h := m.height - 3
	if h < 1 {
		return 1
	}
	return h
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.fitHeight(m.renderContent(), m.contentHeight()))
	b.WriteString("\n")
	b.WriteString(m.renderToast())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewShop:
		return m.renderShop()
	case ViewDetail:
		return m.renderDetail()
	case ViewCart:
		return m.renderCart()
	case ViewWishlist:
		return m.renderWishlist()
	case ViewCheckout:
		return m.renderCheckout()
	case ViewDiagnostics:
		return m.renderDiagnostics()
	default:
		return ""
	}
}

// fitHeight pads or trims content to exactly height lines.
func (m Model) fitHeight(content string, height int) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
