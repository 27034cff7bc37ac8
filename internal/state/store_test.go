package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/nutmunch/internal/storefront"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	products := []storefront.Product{{ID: "1", Name: "Almonds", Category: "Roasted"}, {ID: "2", Category: "Raw"}}
	wishlist := []storefront.Product{{ID: "2"}}

	before := time.Now()
	s.Update(products, wishlist, nil)

	snap := s.Snapshot()
	if !snap.HasCatalog || len(snap.Products) != 2 || snap.Products[0].Name != "Almonds" {
		t.Fatalf("snapshot products = %#v, want 2 items", snap.Products)
	}
	if !snap.InWishlist("2") || snap.InWishlist("1") {
		t.Fatalf("InWishlist wrong for %#v", snap.Wishlist)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Products[0].Name = "mutated"
	snap2 := s.Snapshot()
	if snap2.Products[0].Name != "Almonds" {
		t.Fatalf("Snapshot should clone products; got %q", snap2.Products[0].Name)
	}

	// Nor should the caller's slice alias the store.
	products[0].Name = "caller"
	if s.Snapshot().Products[0].Name != "Almonds" {
		t.Fatal("Update should clone products")
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]storefront.Product{{ID: "1"}}, []storefront.Product{{ID: "1"}}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, nil, origErr)

	snap := s.Snapshot()
	if len(snap.Products) != 1 || snap.Products[0].ID != "1" {
		t.Fatalf("products changed on error: got %#v want %#v", snap.Products, prev.Products)
	}
	if !snap.InWishlist("1") {
		t.Fatal("wishlist changed on error")
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store: failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	for i, wantOffline := range []bool{false, true, true} {
		s.Update(nil, nil, errors.New("fail"))
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != i+1 {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i+1)
		}
		if snap.IsOffline() != wantOffline {
			t.Fatalf("after %d failures IsOffline() = %v, want %v", i+1, snap.IsOffline(), wantOffline)
		}
	}

	// Success resets counter
	s.Update(nil, nil, nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success failures=%d offline=%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_SetWishlist(t *testing.T) {
	var s Store
	s.Update([]storefront.Product{{ID: "1"}, {ID: "2"}}, nil, nil)

	s.SetWishlist([]storefront.Product{{ID: "2"}})

	snap := s.Snapshot()
	if !snap.InWishlist("2") || len(snap.Products) != 2 {
		t.Fatalf("SetWishlist snapshot = %#v", snap)
	}
}

func TestSnapshot_CategoriesAndLookup(t *testing.T) {
	snap := Snapshot{Products: []storefront.Product{
		{ID: "1", Category: "Roasted"},
		{ID: "2", Category: "Raw"},
		{ID: "3", Category: "Roasted"},
		{ID: "4"},
	}}

	if got, want := snap.Categories(), []string{"Raw", "Roasted"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	if p, ok := snap.Product("3"); !ok || p.Category != "Roasted" {
		t.Fatalf("Product(3) = %#v, %v", p, ok)
	}
	if _, ok := snap.Product("9"); ok {
		t.Fatal("Product(9) should be missing")
	}
}
