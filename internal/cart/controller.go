package cart

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/five82/nutmunch/internal/pricing"
	"github.com/five82/nutmunch/internal/session"
	"github.com/five82/nutmunch/internal/storefront"
)

// Remote is the cart service the controller reconciles against.
type Remote interface {
	FetchCart(ctx context.Context, handle session.Handle) ([]storefront.CartItem, error)
	ApplyCartDelta(ctx context.Context, handle session.Handle, id storefront.ProductID, delta int) (storefront.CartItem, error)
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	// Policy prices the cart for Quote. Nil means pricing.DefaultPolicy.
	Policy *pricing.Policy
	// Notifier receives shopper-facing notices.
	Notifier Notifier
	Logger   *zap.Logger
	// OnChange is called after every local state change. It runs on the
	// goroutine that made the change and must not call back into the
	// controller synchronously.
	OnChange func(State)
}

// Controller owns the client view of one session's cart.
type Controller struct {
	remote   Remote
	handle   session.Handle
	policy   pricing.Policy
	notifier Notifier
	log      *zap.Logger
	onChange func(State)

	// background refreshes run under ctx until Close.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	loads singleflight.Group

	mu    sync.Mutex
	state State
	epoch uint64
}

// NewController returns a controller with an empty cart. Call Load to
// populate it from the remote.
func NewController(remote Remote, handle session.Handle, opts Options) *Controller {
	policy := pricing.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = discardNotifier{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		remote:   remote,
		handle:   handle,
		policy:   policy,
		notifier: notifier,
		log:      log.Named("cart").With(zap.String("session", handle.String())),
		onChange: opts.OnChange,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Handle returns the session the controller is bound to.
func (c *Controller) Handle() session.Handle { return c.handle }

// State returns a copy of the current cart.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Quote prices the current cart.
func (c *Controller) Quote() pricing.Quote {
	c.mu.Lock()
	subtotal := c.state.Subtotal()
	c.mu.Unlock()
	return c.policy.Quote(subtotal)
}

// Policy returns the pricing rules used by Quote.
func (c *Controller) Policy() pricing.Policy { return c.policy }

// Load replaces the local cart with the remote one. Rows at or below zero
// quantity are dropped. On failure the local cart is left unchanged.
//
// Loads that start between the same pair of local writes share one fetch,
// so a Load may return what the remote held before a change made outside
// this controller. Use Reload after such a change. A fetch that completes
// after a local write is discarded, since it may predate that write.
//
// The shared fetch runs until the controller is closed; ctx only bounds how
// long this caller waits for it.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()
	return c.load(ctx, epoch)
}

// Reload fetches the cart without joining a fetch already in flight, and
// makes any such fetch stale. Use it after the remote cart changed outside
// this controller, as checkout does.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()
	return c.load(ctx, epoch)
}

func (c *Controller) load(ctx context.Context, epoch uint64) error {
	ch := c.loads.DoChan(strconv.FormatUint(epoch, 10), func() (any, error) {
		items, err := c.remote.FetchCart(c.ctx, c.handle)
		if err != nil {
			return nil, err
		}
		return normalizeLines(items), nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		c.log.Debug("stopped waiting for cart refresh", zap.Uint64("epoch", epoch), zap.Error(ctx.Err()))
		return fmt.Errorf("load cart: %w", ctx.Err())
	}
	if res.Err != nil {
		c.log.Warn("cart refresh failed", zap.Uint64("epoch", epoch), zap.Error(res.Err))
		return fmt.Errorf("load cart: %w", res.Err)
	}
	fetched := res.Val.(State)

	c.mu.Lock()
	if c.epoch != epoch {
		current := c.epoch
		c.mu.Unlock()
		c.log.Debug("discarding stale cart refresh",
			zap.Uint64("fetched_epoch", epoch),
			zap.Uint64("current_epoch", current))
		return nil
	}
	c.state = fetched.Clone()
	view := c.state.Clone()
	c.mu.Unlock()

	c.log.Debug("cart refreshed",
		zap.Int("lines", view.LineCount()),
		zap.Int("quantity", view.TotalQuantity()),
		zap.Bool("shared", res.Shared))
	c.changed(view)
	return nil
}

// AddItem adds quantity units of product. Zero means one; a negative
// quantity is ignored.
func (c *Controller) AddItem(ctx context.Context, product storefront.Product, quantity int) error {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 || product.ID == "" {
		return nil
	}

	line := lineFromProduct(product, quantity)
	snapshot, ok := c.apply(func(s State) (State, bool) {
		return s.withAdded(line, quantity), true
	})
	if !ok {
		return nil
	}
	c.notify(Notice{
		Kind:      NoticeAdded,
		ProductID: product.ID,
		Message:   fmt.Sprintf("Added %d × %s", quantity, line.Name),
	})

	return c.commit(ctx, "add item", product.ID, quantity, snapshot,
		fmt.Sprintf("Could not add %s to cart", line.Name))
}

// RemoveItem deletes the line for id. A missing line is ignored.
func (c *Controller) RemoveItem(ctx context.Context, id storefront.ProductID) error {
	var removed Line
	snapshot, ok := c.apply(func(s State) (State, bool) {
		line, found := s.Find(id)
		if !found {
			return s, false
		}
		removed = line
		return s.without(id), true
	})
	if !ok {
		return nil
	}
	c.notify(Notice{
		Kind:      NoticeRemoved,
		ProductID: id,
		Message:   fmt.Sprintf("Removed %s", removed.Name),
	})

	return c.commit(ctx, "remove item", id, -removed.Quantity, snapshot,
		fmt.Sprintf("Could not remove %s from cart", removed.Name))
}

// UpdateQuantity sets the line for id to quantity. Quantities below one, a
// missing line, or an unchanged quantity are ignored without contacting the
// remote.
func (c *Controller) UpdateQuantity(ctx context.Context, id storefront.ProductID, quantity int) error {
	if quantity < 1 {
		return nil
	}

	var before Line
	snapshot, ok := c.apply(func(s State) (State, bool) {
		line, found := s.Find(id)
		if !found || line.Quantity == quantity {
			return s, false
		}
		before = line
		return s.withQuantity(id, quantity), true
	})
	if !ok {
		return nil
	}
	c.notify(Notice{
		Kind:      NoticeUpdated,
		ProductID: id,
		Message:   fmt.Sprintf("%s quantity set to %d", before.Name, quantity),
	})

	return c.commit(ctx, "update quantity", id, quantity-before.Quantity, snapshot,
		fmt.Sprintf("Could not update %s quantity", before.Name))
}

// Wait blocks until background refreshes started by mutations finish.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels background refreshes and waits for them to exit.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}

// apply runs fn against the current state under the lock. When fn reports
// a change, the result becomes the new state, the epoch advances, and the
// prior state is returned as the rollback snapshot.
func (c *Controller) apply(fn func(State) (State, bool)) (State, bool) {
	c.mu.Lock()
	snapshot := c.state
	next, changed := fn(snapshot)
	if !changed {
		c.mu.Unlock()
		return snapshot, false
	}
	c.state = next
	c.epoch++
	view := c.state.Clone()
	c.mu.Unlock()

	c.changed(view)
	return snapshot.Clone(), true
}

// commit sends delta to the remote. Success schedules a refresh; failure
// restores snapshot and notifies the shopper.
func (c *Controller) commit(ctx context.Context, op string, id storefront.ProductID, delta int, snapshot State, failure string) error {
	if _, err := c.remote.ApplyCartDelta(ctx, c.handle, id, delta); err != nil {
		c.mu.Lock()
		c.state = snapshot
		c.epoch++
		view := c.state.Clone()
		c.mu.Unlock()

		c.log.Warn("cart mutation rolled back",
			zap.String("op", op),
			zap.String("product_id", id.String()),
			zap.Int("delta", delta),
			zap.Error(err))
		c.changed(view)
		c.notify(Notice{Kind: NoticeFailed, ProductID: id, Message: failure})
		return fmt.Errorf("%s: %w", op, err)
	}

	c.log.Debug("cart mutation applied",
		zap.String("op", op),
		zap.String("product_id", id.String()),
		zap.Int("delta", delta))
	c.refresh()
	return nil
}

// refresh reloads the cart in the background.
func (c *Controller) refresh() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		// Load logs its own failures.
		_ = c.Load(c.ctx)
	}()
}

func (c *Controller) changed(view State) {
	if c.onChange != nil {
		c.onChange(view)
	}
}

func (c *Controller) notify(n Notice) {
	c.notifier.Notify(n)
}
