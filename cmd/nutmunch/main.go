package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/nutmunch/internal/app"
	"github.com/five82/nutmunch/internal/cart"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "nutmunch: %v\n", err)
		return 1
	}
	return 0
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	prefsPath  string
	poll       int
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		PrefsPath:  g.prefsPath,
		PollEvery:  g.poll,
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "nutmunch",
		Short: "Shop the nutmunch storefront from the terminal",
		Long: `nutmunch is a terminal client for the nutmunch nut storefront.

Run without arguments to open the interactive shop. The subcommands cover
the same catalog, cart, wishlist and checkout operations for scripts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/nutmunch/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/nutmunch/prefs.toml)")
	pf.IntVar(&flags.poll, "poll", 0, "catalog refresh interval in seconds (default 5)")

	root.AddCommand(
		newProductsCmd(flags),
		newSearchCmd(flags),
		newCartCmd(flags),
		newWishlistCmd(flags),
		newCheckoutCmd(flags),
		newSubscribeCmd(flags),
		newDevserverCmd(),
	)
	return root
}

// withEnv opens the shared dependencies for a one-shot command. Cart notices
// are printed to the command's output.
func withEnv(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, env *app.Env) error) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	opts := flags.options()
	opts.Notifier = cart.NotifierFunc(func(n cart.Notice) {
		fmt.Fprintln(out, n.Message)
	})

	env, err := app.Open(ctx, opts)
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(ctx, env)
}
