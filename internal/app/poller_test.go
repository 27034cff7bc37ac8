package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/five82/nutmunch/internal/session"
	"github.com/five82/nutmunch/internal/state"
	"github.com/five82/nutmunch/internal/storefront"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeShop struct {
	mu          sync.Mutex
	products    []storefront.Product
	wishlist    []storefront.Product
	productsErr error
	calls       atomic.Int32
	handles     []session.Handle
}

func (f *fakeShop) FetchProducts(context.Context, storefront.ProductQuery) ([]storefront.Product, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products, f.productsErr
}

func (f *fakeShop) FetchProduct(context.Context, storefront.ProductID) (*storefront.Product, error) {
	return nil, storefront.ErrNotFound
}

func (f *fakeShop) SearchProducts(context.Context, string) ([]storefront.Product, error) {
	return nil, nil
}

func (f *fakeShop) FetchWishlist(_ context.Context, handle session.Handle) ([]storefront.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handles = append(f.handles, handle)
	return f.wishlist, nil
}

func (f *fakeShop) AddToWishlist(context.Context, session.Handle, storefront.ProductID) error {
	return nil
}

func (f *fakeShop) RemoveFromWishlist(context.Context, session.Handle, storefront.ProductID) error {
	return nil
}

type fakeCart struct {
	loads atomic.Int32
	err   error
}

func (f *fakeCart) Load(context.Context) error {
	f.loads.Add(1)
	return f.err
}

func newTestPoller(shop *fakeShop, c *fakeCart) *Poller {
	return &Poller{
		Catalog:  shop,
		Wishlist: shop,
		Cart:     c,
		Store:    &state.Store{},
		Session:  "poll-session",
		Interval: 10 * time.Millisecond,
	}
}

func TestPollerRefreshPopulatesStoreAndCart(t *testing.T) {
	shop := &fakeShop{
		products: []storefront.Product{{ID: "1", Name: "Almonds"}, {ID: "2", Name: "Walnuts"}},
		wishlist: []storefront.Product{{ID: "2"}},
	}
	c := &fakeCart{}
	p := newTestPoller(shop, c)

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	snap := p.Store.Snapshot()
	if len(snap.Products) != 2 || !snap.InWishlist("2") {
		t.Fatalf("snapshot = %#v", snap)
	}
	if c.loads.Load() != 1 {
		t.Fatalf("cart loads = %d, want 1", c.loads.Load())
	}
	if len(shop.handles) != 1 || shop.handles[0] != "poll-session" {
		t.Fatalf("wishlist handles = %v", shop.handles)
	}
}

func TestPollerRefreshRecordsCatalogFailure(t *testing.T) {
	shop := &fakeShop{productsErr: errors.New("down")}
	p := newTestPoller(shop, &fakeCart{err: errors.New("cart down")})

	err := p.Refresh(context.Background())
	if err == nil || err.Error() != "fetch products: down" {
		t.Fatalf("Refresh error = %v, want fetch products: down", err)
	}
	snap := p.Store.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.LastError == nil {
		t.Fatalf("snapshot = %#v, want one recorded failure", snap)
	}
}

func TestPollerRefreshIgnoresCartFailure(t *testing.T) {
	shop := &fakeShop{products: []storefront.Product{{ID: "1"}}}
	p := newTestPoller(shop, &fakeCart{err: errors.New("cart down")})

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if snap := p.Store.Snapshot(); snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	shop := &fakeShop{products: []storefront.Product{{ID: "1"}}}
	c := &fakeCart{}
	p := newTestPoller(shop, c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for shop.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("poller made %d calls, want at least 3", shop.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
	if c.loads.Load() < 3 {
		t.Fatalf("cart loads = %d, want at least 3", c.loads.Load())
	}
}
