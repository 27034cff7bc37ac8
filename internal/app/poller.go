package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/nutmunch/internal/session"
	"github.com/five82/nutmunch/internal/state"
	"github.com/five82/nutmunch/internal/storefront"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// cartLoader is the slice of cart.Controller the poller needs.
type cartLoader interface {
	Load(ctx context.Context) error
}

// Poller refreshes the catalog, wishlist and cart on an interval, backing off
// while the storefront is failing.
type Poller struct {
	Catalog  storefront.Catalog
	Wishlist storefront.Wishlist
	Cart     cartLoader
	Store    *state.Store
	Session  session.Handle
	Interval time.Duration
	Log      *zap.Logger
}

// Run refreshes until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := p.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
		} else {
			failures = 0
		}

		wait := calculateBackoff(failures, interval)
		if failures > 0 {
			p.logger().Debug("backing off", zap.Int("failures", failures), zap.Duration("wait", wait))
		}
		timer.Reset(wait)
	}
}

// Refresh fetches the catalog, wishlist and cart concurrently. Catalog and
// wishlist failures are recorded in the store and returned. Cart refresh
// failures are logged by the controller and leave the cart unchanged.
func (p *Poller) Refresh(ctx context.Context) error {
	var (
		products []storefront.Product
		wishlist []storefront.Product
		g        errgroup.Group
	)

	g.Go(func() error {
		var err error
		products, err = p.Catalog.FetchProducts(ctx, storefront.ProductQuery{})
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		wishlist, err = p.Wishlist.FetchWishlist(ctx, p.Session)
		if err != nil {
			return fmt.Errorf("fetch wishlist: %w", err)
		}
		return nil
	})
	if p.Cart != nil {
		g.Go(func() error {
			_ = p.Cart.Load(ctx)
			return nil
		})
	}

	err := g.Wait()
	p.Store.Update(products, wishlist, err)
	if err != nil {
		p.logger().Warn("catalog poll failed", zap.Error(err))
	}
	return err
}

func (p *Poller) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// calculateBackoff doubles base once per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
