package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/five82/nutmunch/internal/app"
	"github.com/five82/nutmunch/internal/devserver"
	"github.com/five82/nutmunch/internal/logging"
	"github.com/five82/nutmunch/internal/storefront"
)

var knownSorts = []string{storefront.SortPriceAsc, storefront.SortPriceDesc, storefront.SortName}

func newProductsCmd(flags *globalFlags) *cobra.Command {
	var category, sortBy string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Long: `Lists the catalog, optionally filtered by category and sorted.

Example:
  nutmunch products --category Raw --sort price_asc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortBy != "" && !slices.Contains(knownSorts, sortBy) {
				return fmt.Errorf("unknown sort %q (want one of %s)", sortBy, strings.Join(knownSorts, ", "))
			}
			return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
				products, err := env.Client.FetchProducts(ctx, storefront.ProductQuery{Category: category, SortBy: sortBy})
				if err != nil {
					return fmt.Errorf("fetch products: %w", err)
				}
				printProducts(cmd.OutOrStdout(), products)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only show this category")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort order: price_asc, price_desc or name")
	return cmd
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
				products, err := env.Client.SearchProducts(ctx, query)
				if err != nil {
					return fmt.Errorf("search: %w", err)
				}
				printProducts(cmd.OutOrStdout(), products)
				return nil
			})
		},
	}
}

func newCartCmd(flags *globalFlags) *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Long: `Shows the cart for this machine's session, or changes it.

Available subcommands:
  show   - Print the cart and its totals (default)
  add    - Add a product, optionally with a quantity
  remove - Remove a product's line
  set    - Set a line's quantity`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartShow(cmd, flags)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the cart and its totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartShow(cmd, flags)
		},
	}

	addCmd := &cobra.Command{
		Use:   "add [product-id] [quantity]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity := 1
			if len(args) == 2 {
				n, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				quantity = n
			}
			id := storefront.ProductID(args[0])
			return withLoadedCart(cmd, flags, func(ctx context.Context, env *app.Env) error {
				product, err := env.Client.FetchProduct(ctx, id)
				if err != nil {
					return fmt.Errorf("fetch product %s: %w", id, err)
				}
				return env.Cart.AddItem(ctx, *product, quantity)
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove [product-id]",
		Short: "Remove a product's line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := storefront.ProductID(args[0])
			return withLoadedCart(cmd, flags, func(ctx context.Context, env *app.Env) error {
				if _, ok := env.Cart.State().Find(id); !ok {
					return fmt.Errorf("product %s is not in the cart", id)
				}
				return env.Cart.RemoveItem(ctx, id)
			})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set [product-id] [quantity]",
		Short: "Set a line's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := parseQuantity(args[1])
			if err != nil {
				return err
			}
			id := storefront.ProductID(args[0])
			return withLoadedCart(cmd, flags, func(ctx context.Context, env *app.Env) error {
				if _, ok := env.Cart.State().Find(id); !ok {
					return fmt.Errorf("product %s is not in the cart", id)
				}
				return env.Cart.UpdateQuantity(ctx, id, quantity)
			})
		},
	}

	cartCmd.AddCommand(showCmd, addCmd, removeCmd, setCmd)
	return cartCmd
}

func runCartShow(cmd *cobra.Command, flags *globalFlags) error {
	return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
		if err := env.Cart.Load(ctx); err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		printCart(cmd.OutOrStdout(), env.Cart.State(), env.Cart.Quote())
		return nil
	})
}

// withLoadedCart loads the cart, runs mutate, waits for the follow-up
// reload and prints the result.
func withLoadedCart(cmd *cobra.Command, flags *globalFlags, mutate func(ctx context.Context, env *app.Env) error) error {
	return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
		if err := env.Cart.Load(ctx); err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if err := mutate(ctx, env); err != nil {
			return err
		}
		env.Cart.Wait()
		printCart(cmd.OutOrStdout(), env.Cart.State(), env.Cart.Quote())
		return nil
	})
}

func parseQuantity(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("quantity %q must be a whole number of at least 1", raw)
	}
	return n, nil
}

func newWishlistCmd(flags *globalFlags) *cobra.Command {
	listRun := func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
			products, err := env.Client.FetchWishlist(ctx, env.Session)
			if err != nil {
				return fmt.Errorf("fetch wishlist: %w", err)
			}
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Your wishlist is empty.")
				return nil
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		})
	}

	wishlistCmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show or change the wishlist",
		Args:  cobra.NoArgs,
		RunE:  listRun,
	}

	wishlistCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved products",
			Args:  cobra.NoArgs,
			RunE:  listRun,
		},
		&cobra.Command{
			Use:   "add [product-id]",
			Short: "Save a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := storefront.ProductID(args[0])
				return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
					if err := env.Client.AddToWishlist(ctx, env.Session, id); err != nil {
						return fmt.Errorf("add %s to wishlist: %w", id, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Saved product %s to wishlist\n", id)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove [product-id]",
			Short: "Drop a saved product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := storefront.ProductID(args[0])
				return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
					if err := env.Client.RemoveFromWishlist(ctx, env.Session, id); err != nil {
						return fmt.Errorf("remove %s from wishlist: %w", id, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed product %s from wishlist\n", id)
					return nil
				})
			},
		},
	)
	return wishlistCmd
}

func newCheckoutCmd(flags *globalFlags) *cobra.Command {
	var req storefront.CheckoutRequest
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Long: `Places an order for everything in the cart. The storefront prices the
order and empties the cart.

Example:
  nutmunch checkout --name "Ada Lovelace" --email ada@example.com \
    --address "12 Orchard Lane" --city Modesto`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req = req.Normalize()
			if err := req.Validate(); err != nil {
				var verr *storefront.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("invalid shipping details: %s", strings.Join(verr.Problems, ", "))
				}
				return err
			}
			return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
				if err := env.Cart.Load(ctx); err != nil {
					return fmt.Errorf("load cart: %w", err)
				}
				if env.Cart.State().Empty() {
					return errors.New("cart is empty")
				}
				order, err := env.Client.Checkout(ctx, env.Session, req)
				if err != nil {
					return fmt.Errorf("checkout: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Order #%d confirmed for %s: %s charged\n",
					order.ID, order.CustomerName, money(order.TotalAmount))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.CustomerName, "name", "", "name for the shipping label")
	cmd.Flags().StringVar(&req.Email, "email", "", "email for the receipt")
	cmd.Flags().StringVar(&req.Address, "address", "", "street address")
	cmd.Flags().StringVar(&req.City, "city", "", "city")
	return cmd
}

func newSubscribeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe [email]",
		Short: "Join the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, func(ctx context.Context, env *app.Env) error {
				if err := env.Client.Subscribe(ctx, args[0]); err != nil {
					return fmt.Errorf("subscribe: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Subscribed %s\n", strings.TrimSpace(args[0]))
				return nil
			})
		},
	}
}

func newDevserverCmd() *cobra.Command {
	var (
		addr          string
		failMutations bool
		logLevel      string
	)
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run an in-memory storefront API",
		Long: `Serves the storefront API from memory with a seeded catalog, for local
development. --fail-mutations makes every cart change fail with 503 so the
client's rollback can be watched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logCfg := logging.DefaultConfig()
			logCfg.Level = logLevel
			logger, err := logging.New(logCfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			gin.SetMode(gin.ReleaseMode)
			srv := devserver.New(devserver.Options{
				FailMutations: failMutations,
				Logger:        logger.Named("devserver"),
			})
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8000", "listen address")
	cmd.Flags().BoolVar(&failMutations, "fail-mutations", false, "answer every cart change with 503")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	return cmd
}
