package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/nutmunch/internal/cart"
	"github.com/five82/nutmunch/internal/session"
	"github.com/five82/nutmunch/internal/storefront"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSession = session.Handle("dev-session")

func newTestServer(t *testing.T, opts Options) (*Server, *storefront.Client) {
	t.Helper()
	srv := New(opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := storefront.NewClient(ts.URL, storefront.Options{})
	require.NoError(t, err)
	return srv, client
}

func productIDs(products []storefront.Product) []storefront.ProductID {
	ids := make([]storefront.ProductID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestSeedCatalog(t *testing.T) {
	catalog := SeedCatalog()
	require.Len(t, catalog, 6)

	first := catalog[0]
	assert.Equal(t, "sea-salt-smoke-almonds", first.Slug)
	assert.Equal(t, 100, first.StockQuantity)

	facts, err := first.NutritionFacts()
	require.NoError(t, err)
	assert.Equal(t, "150 mg", facts["Sodium"])
	assert.Equal(t, "579 kcal", facts["Calories"])
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	_, client := newTestServer(t, Options{})

	lo, hi := 20.0, 30.0
	tests := []struct {
		name  string
		query storefront.ProductQuery
		want  []storefront.ProductID
	}{
		{"all in catalog order", storefront.ProductQuery{}, []storefront.ProductID{"1", "2", "3", "4", "5", "6"}},
		{"category", storefront.ProductQuery{Category: "Raw"}, []storefront.ProductID{"2", "6"}},
		{"featured keeps catalog order", storefront.ProductQuery{SortBy: storefront.SortFeatured, Category: "Roasted"}, []storefront.ProductID{"1", "5"}},
		{"name", storefront.ProductQuery{SortBy: storefront.SortName}, []storefront.ProductID{"6", "2", "4", "5", "1", "3"}},
		{"price ascending", storefront.ProductQuery{SortBy: storefront.SortPriceAsc}, []storefront.ProductID{"5", "3", "1", "2", "6", "4"}},
		{"price descending", storefront.ProductQuery{SortBy: storefront.SortPriceDesc}, []storefront.ProductID{"4", "6", "2", "1", "3", "5"}},
		{"price band", storefront.ProductQuery{MinPrice: &lo, MaxPrice: &hi}, []storefront.ProductID{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := client.FetchProducts(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, productIDs(products))
		})
	}
}

func TestListProductsRejectsBadQuery(t *testing.T) {
	_, client := newTestServer(t, Options{})

	_, err := client.FetchProducts(context.Background(), storefront.ProductQuery{SortBy: "random"})
	var apiErr *storefront.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	_, client := newTestServer(t, Options{})

	p, err := client.FetchProduct(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "Premium Mamra Almonds", p.Name)

	_, err = client.FetchProduct(ctx, "99")
	assert.True(t, errors.Is(err, storefront.ErrNotFound), "got %v", err)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	_, client := newTestServer(t, Options{})

	products, err := client.SearchProducts(ctx, "kerman")
	require.NoError(t, err)
	assert.Equal(t, []storefront.ProductID{"4", "5"}, productIDs(products))

	products, err = client.SearchProducts(ctx, "macadamia")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCartDeltasNeverDeleteRows(t *testing.T) {
	ctx := context.Background()
	_, client := newTestServer(t, Options{})

	row, err := client.ApplyCartDelta(ctx, testSession, "1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, row.Quantity)
	require.NotNil(t, row.Product)
	assert.Equal(t, "Sea Salt & Smoke Almonds", row.Product.Name)

	row, err = client.ApplyCartDelta(ctx, testSession, "1", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, row.Quantity)

	_, err = client.ApplyCartDelta(ctx, testSession, "1", -5)
	require.NoError(t, err)

	rows, err := client.FetchCart(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, rows, 1, "tombstoned row must remain")
	assert.Equal(t, 0, rows[0].Quantity)
	assert.Equal(t, string(testSession), rows[0].SessionID)

	other, err := client.FetchCart(ctx, session.Handle("someone-else"))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCartUnknownProduct(t *testing.T) {
	_, client := newTestServer(t, Options{})

	_, err := client.ApplyCartDelta(context.Background(), testSession, "99", 1)
	assert.True(t, errors.Is(err, storefront.ErrNotFound), "got %v", err)
}

func TestSessionRequired(t *testing.T) {
	srv := New(Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "session required")

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: storefront.SessionCookie, Value: "cookie-session"})
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestWishlist(t *testing.T) {
	ctx := context.Background()
	_, client := newTestServer(t, Options{})

	require.NoError(t, client.AddToWishlist(ctx, testSession, "3"))
	require.NoError(t, client.AddToWishlist(ctx, testSession, "3"))
	require.NoError(t, client.AddToWishlist(ctx, testSession, "6"))

	saved, err := client.FetchWishlist(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, []storefront.ProductID{"3", "6"}, productIDs(saved))
	assert.Equal(t, "Wildflower Honey Glazed", saved[0].Name)

	require.NoError(t, client.RemoveFromWishlist(ctx, testSession, "3"))
	require.NoError(t, client.RemoveFromWishlist(ctx, testSession, "3"))

	saved, err = client.FetchWishlist(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, []storefront.ProductID{"6"}, productIDs(saved))

	err = client.AddToWishlist(ctx, testSession, "99")
	assert.True(t, errors.Is(err, storefront.ErrNotFound), "got %v", err)
}

func TestCheckoutPricesServerSide(t *testing.T) {
	ctx := context.Background()
	srv, client := newTestServer(t, Options{})

	_, err := client.ApplyCartDelta(ctx, testSession, "1", 2)
	require.NoError(t, err)
	_, err = client.ApplyCartDelta(ctx, testSession, "5", 1)
	require.NoError(t, err)
	_, err = client.ApplyCartDelta(ctx, testSession, "5", -1)
	require.NoError(t, err)

	order, err := client.Checkout(ctx, testSession, storefront.CheckoutRequest{
		CustomerName: "Ada Lovelace",
		Email:        "ada@example.com",
		Address:      "12 Orchard Lane",
		City:         "Modesto",
	})
	require.NoError(t, err)

	// 2 × $24 = $48, not above $50: $15 shipping and $3.84 tax.
	assert.Equal(t, 66.84, order.TotalAmount)
	assert.Equal(t, "Ada Lovelace", order.CustomerName)
	assert.Equal(t, "completed", order.Status)
	assert.Equal(t, []storefront.Order{*order}, srv.Orders())

	rows, err := client.FetchCart(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	_, client := newTestServer(t, Options{})

	_, err := client.Checkout(context.Background(), testSession, storefront.CheckoutRequest{
		CustomerName: "Ada", Email: "ada@example.com", Address: "1 Lane", City: "Modesto",
	})
	var apiErr *storefront.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "cart is empty", apiErr.Body)
}

func TestCheckoutValidatesOnServer(t *testing.T) {
	srv := New(Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"customer_name":"Ada","email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(storefront.SessionHeader, string(testSession))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "email is not a valid email")
	assert.Contains(t, rec.Body.String(), "address is required")
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	srv, client := newTestServer(t, Options{})

	require.NoError(t, client.Subscribe(ctx, " Ada@Example.com "))
	assert.True(t, srv.Subscribed("ada@example.com"))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(`{"email":"nope"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestFailMutationsRollsBackController(t *testing.T) {
	ctx := context.Background()
	srv, client := newTestServer(t, Options{})

	var (
		mu      sync.Mutex
		notices []cart.Notice
	)
	ctrl := cart.NewController(client, testSession, cart.Options{
		Notifier: cart.NotifierFunc(func(n cart.Notice) {
			mu.Lock()
			defer mu.Unlock()
			notices = append(notices, n)
		}),
	})
	t.Cleanup(ctrl.Close)

	catalog, err := client.FetchProducts(ctx, storefront.ProductQuery{})
	require.NoError(t, err)
	almonds := catalog[0]

	require.NoError(t, ctrl.AddItem(ctx, almonds, 2))
	ctrl.Wait()
	assert.Equal(t, 2, ctrl.State().TotalQuantity())

	srv.SetFailMutations(true)
	err = ctrl.AddItem(ctx, almonds, 3)
	require.Error(t, err)
	var apiErr *storefront.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, 2, ctrl.State().TotalQuantity(), "failed add must roll back")

	require.Error(t, ctrl.RemoveItem(ctx, almonds.ID))
	assert.Equal(t, 2, ctrl.State().TotalQuantity(), "failed remove must restore the line")

	srv.SetFailMutations(false)
	require.NoError(t, ctrl.RemoveItem(ctx, almonds.ID))
	ctrl.Wait()
	assert.True(t, ctrl.State().Empty())

	rows, err := client.FetchCart(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Quantity, "remote keeps the tombstone")

	mu.Lock()
	defer mu.Unlock()
	kinds := make([]cart.NoticeKind, 0, len(notices))
	for _, n := range notices {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []cart.NoticeKind{
		cart.NoticeAdded,
		cart.NoticeAdded, cart.NoticeFailed,
		cart.NoticeRemoved, cart.NoticeFailed,
		cart.NoticeRemoved,
	}, kinds)
}
