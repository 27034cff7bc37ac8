package state

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/five82/nutmunch/internal/storefront"
)

// Snapshot represents the latest catalog data available to the UI.
type Snapshot struct {
	Products            []storefront.Product
	Wishlist            []storefront.Product
	HasCatalog          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the storefront has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// InWishlist reports whether id is saved to the wishlist.
func (s Snapshot) InWishlist(id storefront.ProductID) bool {
	for _, p := range s.Wishlist {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Product looks up a catalog entry by id.
func (s Snapshot) Product(id storefront.ProductID) (storefront.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return storefront.Product{}, false
}

// Categories lists the distinct catalog categories in sorted order.
func (s Snapshot) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.Products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored catalog and wishlist. When err is non-nil the
// previous data is kept but the error is recorded for visibility.
func (s *Store) Update(products, wishlist []storefront.Product, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Products = cloneProducts(products)
	s.snapshot.Wishlist = cloneProducts(wishlist)
	s.snapshot.HasCatalog = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// SetWishlist replaces only the wishlist, after a local toggle.
func (s *Store) SetWishlist(wishlist []storefront.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Wishlist = cloneProducts(wishlist)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Products = cloneProducts(s.snapshot.Products)
	snap.Wishlist = cloneProducts(s.snapshot.Wishlist)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneProducts(items []storefront.Product) []storefront.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]storefront.Product, len(items))
	copy(dup, items)
	return dup
}
