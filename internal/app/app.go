package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/nutmunch/internal/cart"
	"github.com/five82/nutmunch/internal/config"
	"github.com/five82/nutmunch/internal/logging"
	"github.com/five82/nutmunch/internal/prefs"
	"github.com/five82/nutmunch/internal/session"
	"github.com/five82/nutmunch/internal/state"
	"github.com/five82/nutmunch/internal/storefront"
	"github.com/five82/nutmunch/internal/ui"
)

// The storefront client is the cart controller's remote.
var _ cart.Remote = (*storefront.Client)(nil)

// Options configure the nutmunch application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/nutmunch/prefs.toml
	PollEvery  int    // seconds; zero uses default

	// Notifier and OnCartChange are handed to the cart controller.
	Notifier     cart.Notifier
	OnCartChange func(cart.State)
}

// Env is the set of dependencies shared by the TUI and the CLI commands.
type Env struct {
	Config  config.Config
	Prefs   prefs.Prefs
	Session session.Handle
	Client  *storefront.Client
	Store   *state.Store
	Cart    *cart.Controller
	Log     *zap.Logger
}

// Open loads configuration, the session handle and the logger, and builds the
// storefront client and cart controller. The cart starts empty; call
// Cart.Load or Poller.Refresh to populate it.
func Open(ctx context.Context, opts Options) (*Env, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	handle, err := session.Load(cfg.SessionFile)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("load session: %w", err)
	}

	client, err := storefront.NewClient(cfg.APIURL, storefront.Options{
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger.Named("storefront"),
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init storefront client: %w", err)
	}

	policy := cfg.Pricing()
	controller := cart.NewController(client, handle, cart.Options{
		Policy:   &policy,
		Notifier: opts.Notifier,
		Logger:   logger,
		OnChange: opts.OnCartChange,
	})

	logger.Info("nutmunch starting",
		zap.String("api_url", client.BaseURL()),
		zap.String("session", handle.String()))

	return &Env{
		Config:  cfg,
		Prefs:   userPrefs,
		Session: handle,
		Client:  client,
		Store:   &state.Store{},
		Cart:    controller,
		Log:     logger,
	}, nil
}

// Close stops background cart refreshes and flushes the log.
func (e *Env) Close() {
	e.Cart.Close()
	_ = e.Log.Sync()
}

// NewPoller returns a poller that keeps e.Store and e.Cart fresh.
func (e *Env) NewPoller(interval time.Duration) *Poller {
	return &Poller{
		Catalog:  e.Client,
		Wishlist: e.Client,
		Cart:     e.Cart,
		Store:    e.Store,
		Session:  e.Session,
		Interval: interval,
		Log:      e.Log.Named("poller"),
	}
}

// Run boots the nutmunch TUI until the context is cancelled or the shopper quits.
func Run(ctx context.Context, opts Options) error {
	events := ui.NewEvents()
	opts.Notifier = events
	opts.OnCartChange = events.CartChanged

	env, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	poller := env.NewPoller(interval)

	// Do initial refresh to populate store and cart before UI starts
	_ = poller.Refresh(ctx)

	// Start background poller
	go poller.Run(ctx)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    env.Client,
		Session:   env.Session,
		Store:     env.Store,
		Cart:      env.Cart,
		Events:    events,
		Prefs:     env.Prefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   env.Config.LogPath(),
		PollTick:  interval,
		Logger:    env.Log.Named("ui"),
	})
}
