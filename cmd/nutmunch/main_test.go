package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/five82/nutmunch/internal/devserver"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type cliHarness struct {
	server     *devserver.Server
	configPath string
	prefsPath  string
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	srv := devserver.New(devserver.Options{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	configPath := filepath.Join(home, "config.toml")
	config := fmt.Sprintf(`api_url = %q
session_file = %q

[log]
level = "debug"
output = %q
`, ts.URL, filepath.Join(home, "session"), filepath.Join(home, "nutmunch.log"))
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return &cliHarness{
		server:     srv,
		configPath: configPath,
		prefsPath:  filepath.Join(home, "prefs.toml"),
	}
}

func (h *cliHarness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", h.configPath, "--prefs", h.prefsPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *cliHarness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := h.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestProductsFilterAndSort(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "products", "--category", "Raw", "--sort", "price_desc")
	assertContains(t, out, "Chilean Chandler Walnuts", "Organic Nonpareil Supreme", "$34.00")
	if strings.Index(out, "Chilean") > strings.Index(out, "Organic") {
		t.Errorf("price_desc should list walnuts first:\n%s", out)
	}
	if strings.Contains(out, "Pistachios") {
		t.Errorf("Raw filter leaked a roasted product:\n%s", out)
	}
}

func TestProductsRejectsUnknownSort(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "products", "--sort", "random")
	if err == nil || !strings.Contains(err.Error(), "unknown sort") {
		t.Fatalf("err = %v, want unknown sort", err)
	}
}

func TestSearch(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "search", "honey")
	assertContains(t, out, "Wildflower Honey Glazed")

	out = h.mustRun(t, "search", "macadamia")
	assertContains(t, out, "No products found.")
}

func TestCartLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "cart")
	assertContains(t, out, "Your cart is empty.")

	out = h.mustRun(t, "cart", "add", "1", "2")
	assertContains(t, out,
		"Added 2 × Sea Salt & Smoke Almonds",
		"Subtotal  $48.00",
		"Shipping  $15.00",
		"Spend $2.00 more for free shipping.",
	)

	out = h.mustRun(t, "cart", "set", "1", "3")
	assertContains(t, out,
		"Sea Salt & Smoke Almonds quantity set to 3",
		"Subtotal  $72.00",
		"Shipping  free",
		"Total     $77.76",
	)

	out = h.mustRun(t, "cart", "show")
	assertContains(t, out, "$72.00")

	out = h.mustRun(t, "cart", "remove", "1")
	assertContains(t, out, "Removed Sea Salt & Smoke Almonds", "Your cart is empty.")
}

func TestCartArgumentErrors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero quantity", []string{"cart", "set", "1", "0"}, "at least 1"},
		{"bad quantity", []string{"cart", "add", "1", "lots"}, "whole number"},
		{"missing line", []string{"cart", "set", "1", "2"}, "not in the cart"},
		{"remove missing", []string{"cart", "remove", "3"}, "not in the cart"},
		{"unknown product", []string{"cart", "add", "99"}, "fetch product 99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestCartRollsBackWhenServerFails(t *testing.T) {
	h := newHarness(t)
	h.server.SetFailMutations(true)

	out, err := h.run(t, "cart", "add", "5")
	if err == nil {
		t.Fatal("expected add to fail")
	}
	assertContains(t, out, "Added 1 × Salted Kerman Pistachios", "Could not add Salted Kerman Pistachios to cart")

	h.server.SetFailMutations(false)
	out = h.mustRun(t, "cart")
	assertContains(t, out, "Your cart is empty.")
}

func TestWishlist(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "wishlist", "add", "4")
	assertContains(t, out, "Saved product 4 to wishlist")

	out = h.mustRun(t, "wishlist")
	assertContains(t, out, "Premium Mamra Almonds")

	out = h.mustRun(t, "wishlist", "remove", "4")
	assertContains(t, out, "Removed product 4 from wishlist")

	out = h.mustRun(t, "wishlist", "list")
	assertContains(t, out, "Your wishlist is empty.")
}

func TestCheckout(t *testing.T) {
	h := newHarness(t)
	details := []string{"--name", "Ada Lovelace", "--email", "ada@example.com", "--address", "12 Orchard Lane", "--city", "Modesto"}

	_, err := h.run(t, append([]string{"checkout"}, details...)...)
	if err == nil || !strings.Contains(err.Error(), "cart is empty") {
		t.Fatalf("err = %v, want cart is empty", err)
	}

	h.mustRun(t, "cart", "add", "1", "2")
	out := h.mustRun(t, append([]string{"checkout"}, details...)...)
	assertContains(t, out, "confirmed for Ada Lovelace: $66.84 charged")

	if orders := h.server.Orders(); len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	out = h.mustRun(t, "cart")
	assertContains(t, out, "Your cart is empty.")
}

func TestCheckoutValidatesLocally(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "checkout", "--name", "Ada", "--email", "not-an-email")
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"email is not a valid email", "address is required", "city is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err = %v, want %q", err, want)
		}
	}
	if orders := h.server.Orders(); len(orders) != 0 {
		t.Fatalf("orders = %d, want 0", len(orders))
	}
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "subscribe", "ada@example.com")
	assertContains(t, out, "Subscribed ada@example.com")
	if !h.server.Subscribed("ada@example.com") {
		t.Fatal("server did not record the subscriber")
	}

	if _, err := h.run(t, "subscribe", "nope"); err == nil {
		t.Fatal("expected invalid email to fail")
	}
}
