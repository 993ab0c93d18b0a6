package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/hormonegroup/storefront/internal/reconcile"
)

// NewServeCommand creates the serve command.
func (a *App) NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront REST API",
		Long: `Start the storefront API server.

Endpoints:
  - Public catalog listing and detail endpoints
  - Checkout session creation
  - Admin provisioning endpoint (bearer-protected)
  - Content store publish webhook (bearer-protected)
  - Payment provider webhook (signature-verified)`,
		Example: `  # Start on default port 8080
  storefront serve

  # Start on a custom port
  storefront serve --port 3000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd)
		},
	}

	cmd.Flags().IntP("port", "p", 0, "Server port (overrides HTTP_PORT)")
	cmd.Flags().String("host", "", "Bind address (overrides HTTP_HOST)")

	return cmd
}

func (a *App) runServe(cmd *cobra.Command) error {
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		a.config.HTTPPort = port
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		a.config.HTTPHost = host
	}

	srv, err := a.Server()
	if err != nil {
		return err
	}

	// Serve until the signal context is cancelled, then drain.
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// NewReconcileCommand creates the reconcile command, a one-shot CLI
// equivalent of the provisioning endpoint.
func (a *App) NewReconcileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile a catalog item with the payment provider",
		Long: `Ensure a published lab test has a matching provider product and price,
creating or replacing them as needed, and write the resulting
identifiers back to the content store.`,
		Example: `  # Reconcile by document id
  storefront reconcile --id 5f2d...

  # Reconcile by slug
  storefront reconcile --slug testosterone-check`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReconcile(cmd)
		},
	}

	cmd.Flags().String("id", "", "Content store document id")
	cmd.Flags().String("slug", "", "Catalog item slug")

	return cmd
}

func (a *App) runReconcile(cmd *cobra.Command) error {
	id, _ := cmd.Flags().GetString("id")
	slug, _ := cmd.Flags().GetString("slug")

	reconciler, err := a.Reconciler()
	if err != nil {
		return err
	}

	result, err := reconciler.Reconcile(cmd.Context(), reconcile.Request{ID: id, Slug: slug})
	if err != nil {
		return err
	}

	fmt.Printf("stripe product: %s\n", result.StripeProductID)
	fmt.Printf("stripe price:   %s\n", result.StripePriceID)
	fmt.Printf("persisted:      %t\n", result.Persisted)
	return nil
}

// NewListCommand creates the list command.
func (a *App) NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog items and their provider identifiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd)
		},
	}
}

func (a *App) runList(cmd *cobra.Command) error {
	client, err := a.ContentClient()
	if err != nil {
		return err
	}

	items, err := client.ListTests(cmd.Context())
	if err != nil {
		return err
	}

	for _, item := range items {
		price := "-"
		if item.PriceAmount != nil {
			price = item.PriceAmount.String()
		}
		fmt.Printf("%-30s %8s  product=%s price=%s\n",
			item.Slug, price, orDash(item.StripeProductID), orDash(item.StripePriceID))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("storefront version %s\n", a.version)
			fmt.Printf("commit: %s\n", a.commit)
			fmt.Printf("built: %s\n", a.date)
			fmt.Printf("built by: %s\n", a.builtBy)
			fmt.Printf("go version: %s\n", runtime.Version())
			fmt.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
