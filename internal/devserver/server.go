package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/five82/nutmunch/internal/logging"
	"github.com/five82/nutmunch/internal/pricing"
	"github.com/five82/nutmunch/internal/storefront"
)

const shutdownTimeout = 5 * time.Second

// Options configure a Server.
type Options struct {
	// Catalog replaces the seeded products when non-nil.
	Catalog []storefront.Product
	// Policy prices checkouts. Nil uses pricing.DefaultPolicy.
	Policy *pricing.Policy
	// FailMutations makes every cart POST answer 503.
	FailMutations bool
	Logger        *zap.Logger
}

// Server is an in-memory storefront API.
type Server struct {
	mu          sync.Mutex
	products    []storefront.Product
	carts       map[string][]*storefront.CartItem
	wishlists   map[string][]storefront.ProductID
	orders      []storefront.Order
	subscribers map[string]struct{}
	nextRowID   int64
	nextOrderID int64

	policy        pricing.Policy
	failMutations atomic.Bool
	log           *zap.Logger
	engine        *gin.Engine
}

// New builds a Server with its routes registered.
func New(opts Options) *Server {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = SeedCatalog()
	}
	policy := pricing.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	s := &Server{
		products:    append([]storefront.Product(nil), catalog...),
		carts:       make(map[string][]*storefront.CartItem),
		wishlists:   make(map[string][]storefront.ProductID),
		subscribers: make(map[string]struct{}),
		policy:      policy,
		log:         logging.OrNop(opts.Logger),
	}
	s.failMutations.Store(opts.FailMutations)
	s.engine = s.routes()
	return s
}

// Handler exposes the API for httptest or a custom listener.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// SetFailMutations toggles cart POST failures at runtime.
func (s *Server) SetFailMutations(fail bool) {
	s.failMutations.Store(fail)
}

// Orders returns the orders placed so far.
func (s *Server) Orders() []storefront.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storefront.Order(nil), s.orders...)
}

// Subscribed reports whether email joined the newsletter.
func (s *Server) Subscribed(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subscribers[normalizeEmail(email)]
	return ok
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dev storefront listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(requestID(), requestLogger(s.log), recovery(s.log))

	api := engine.Group("/api")
	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	api.GET("/search", s.searchProducts)
	api.POST("/subscribe", s.subscribe)

	sessioned := api.Group("", requireSession())
	sessioned.GET("/cart", s.getCart)
	sessioned.POST("/cart", s.applyCartDelta)
	sessioned.GET("/wishlist", s.getWishlist)
	sessioned.POST("/wishlist", s.addToWishlist)
	sessioned.DELETE("/wishlist/:id", s.removeFromWishlist)
	sessioned.POST("/checkout", s.checkout)

	engine.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "route not found")
	})
	return engine
}

// product looks up id. Callers hold s.mu.
func (s *Server) product(id storefront.ProductID) (storefront.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return storefront.Product{}, false
}
