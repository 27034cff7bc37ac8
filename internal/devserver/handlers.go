package devserver

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/five82/nutmunch/internal/storefront"
)

type deltaBody struct {
	ProductID storefront.ProductID `json:"product_id"`
	Quantity  int                  `json:"quantity"`
}

type wishlistBody struct {
	ProductID storefront.ProductID `json:"product_id"`
}

type subscribeBody struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) listProducts(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	sortBy := strings.TrimSpace(c.Query("sort_by"))

	minPrice, ok := parsePrice(c, "min_price")
	if !ok {
		return
	}
	maxPrice, ok := parsePrice(c, "max_price")
	if !ok {
		return
	}

	s.mu.Lock()
	out := make([]storefront.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		if minPrice != nil && p.Price < *minPrice {
			continue
		}
		if maxPrice != nil && p.Price > *maxPrice {
			continue
		}
		out = append(out, p)
	}
	s.mu.Unlock()

	switch sortBy {
	case storefront.SortFeatured:
	case storefront.SortPriceAsc:
		slices.SortStableFunc(out, func(a, b storefront.Product) int { return comparePrice(a.Price, b.Price) })
	case storefront.SortPriceDesc:
		slices.SortStableFunc(out, func(a, b storefront.Product) int { return comparePrice(b.Price, a.Price) })
	case storefront.SortName:
		slices.SortStableFunc(out, func(a, b storefront.Product) int { return strings.Compare(a.Name, b.Name) })
	default:
		abort(c, http.StatusBadRequest, "unknown sort_by "+strconv.Quote(sortBy))
		return
	}

	c.JSON(http.StatusOK, out)
}

func parsePrice(c *gin.Context, name string) (*float64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		abort(c, http.StatusBadRequest, name+" must be a non-negative number")
		return nil, false
	}
	return &v, true
}

func comparePrice(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (s *Server) getProduct(c *gin.Context) {
	s.mu.Lock()
	p, ok := s.product(storefront.ProductID(c.Param("id")))
	s.mu.Unlock()
	if !ok {
		abort(c, http.StatusNotFound, "Product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) searchProducts(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	out := []storefront.Product{}
	if q == "" {
		c.JSON(http.StatusOK, out)
		return
	}

	s.mu.Lock()
	for _, p := range s.products {
		haystack := strings.ToLower(strings.Join([]string{p.Name, p.Description, p.Category, p.Origin}, " "))
		if strings.Contains(haystack, q) {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

// getCart returns every row for the session, tombstones included.
func (s *Server) getCart(c *gin.Context) {
	session := c.GetString(sessionKey)

	s.mu.Lock()
	rows := s.carts[session]
	out := make([]storefront.CartItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

// applyCartDelta adds the requested quantity to the session's row for the
// product. Rows are never deleted; a quantity at or below zero is a tombstone.
func (s *Server) applyCartDelta(c *gin.Context) {
	if s.failMutations.Load() {
		abort(c, http.StatusServiceUnavailable, "cart temporarily unavailable")
		return
	}

	var body deltaBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abort(c, http.StatusBadRequest, "invalid cart request")
		return
	}
	session := c.GetString(sessionKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.product(body.ProductID)
	if !ok {
		abort(c, http.StatusNotFound, "Product not found")
		return
	}

	for _, row := range s.carts[session] {
		if row.ProductID == body.ProductID {
			row.Quantity += body.Quantity
			c.JSON(http.StatusOK, *row)
			return
		}
	}

	s.nextRowID++
	row := &storefront.CartItem{
		ID:        s.nextRowID,
		SessionID: session,
		ProductID: p.ID,
		Quantity:  body.Quantity,
		Product:   &p,
	}
	s.carts[session] = append(s.carts[session], row)
	c.JSON(http.StatusOK, *row)
}

func (s *Server) getWishlist(c *gin.Context) {
	session := c.GetString(sessionKey)

	s.mu.Lock()
	ids := s.wishlists[session]
	out := make([]storefront.WishlistItem, 0, len(ids))
	for i, id := range ids {
		item := storefront.WishlistItem{ID: int64(i + 1), ProductID: id}
		if p, ok := s.product(id); ok {
			item.Product = &p
		}
		out = append(out, item)
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

// addToWishlist saves a product. Saving it twice is not an error.
func (s *Server) addToWishlist(c *gin.Context) {
	var body wishlistBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abort(c, http.StatusBadRequest, "invalid wishlist request")
		return
	}
	session := c.GetString(sessionKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.product(body.ProductID); !ok {
		abort(c, http.StatusNotFound, "Product not found")
		return
	}
	if !slices.Contains(s.wishlists[session], body.ProductID) {
		s.wishlists[session] = append(s.wishlists[session], body.ProductID)
	}
	c.Status(http.StatusCreated)
}

// removeFromWishlist drops a product. Removing an unsaved product is not an error.
func (s *Server) removeFromWishlist(c *gin.Context) {
	id := storefront.ProductID(c.Param("id"))
	session := c.GetString(sessionKey)

	s.mu.Lock()
	s.wishlists[session] = slices.DeleteFunc(s.wishlists[session], func(saved storefront.ProductID) bool {
		return saved == id
	})
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

// checkout prices the live cart lines with the server's policy, records the
// order and clears the session's cart.
func (s *Server) checkout(c *gin.Context) {
	var req storefront.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid checkout request")
		return
	}
	req = req.Normalize()
	if err := storefront.ValidateStruct(req); err != nil {
		var verr *storefront.ValidationError
		if errors.As(err, &verr) {
			abort(c, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	session := c.GetString(sessionKey)

	s.mu.Lock()
	defer s.mu.Unlock()

	subtotal := decimal.Zero
	items := 0
	for _, row := range s.carts[session] {
		if row.Quantity <= 0 {
			continue
		}
		p, ok := s.product(row.ProductID)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(row.Quantity))))
		items += row.Quantity
	}
	if items == 0 {
		abort(c, http.StatusBadRequest, "cart is empty")
		return
	}

	quote := s.policy.Quote(subtotal)
	s.nextOrderID++
	order := storefront.Order{
		ID:           s.nextOrderID,
		CustomerName: req.CustomerName,
		TotalAmount:  quote.GrandTotal.Round(2).InexactFloat64(),
		Status:       "completed",
	}
	s.orders = append(s.orders, order)
	delete(s.carts, session)

	s.log.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("session", session),
		zap.Int("items", items),
		zap.String("total", quote.GrandTotal.StringFixed(2)))
	c.JSON(http.StatusOK, order)
}

func (s *Server) subscribe(c *gin.Context) {
	var body subscribeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abort(c, http.StatusBadRequest, "invalid subscribe request")
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	if err := storefront.ValidateStruct(body); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	s.subscribers[normalizeEmail(body.Email)] = struct{}{}
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"email": body.Email})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
