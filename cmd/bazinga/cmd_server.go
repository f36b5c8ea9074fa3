package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bazinga/storefront/config"
	"github.com/bazinga/storefront/database/migrations"
	"github.com/bazinga/storefront/internal/kernel"
	"github.com/bazinga/storefront/internal/server"
	"github.com/bazinga/storefront/pkg/auth"
	"github.com/bazinga/storefront/pkg/cache"
	"github.com/bazinga/storefront/pkg/database"
	"github.com/bazinga/storefront/pkg/logger"
	"github.com/bazinga/storefront/pkg/schedule"
	"github.com/bazinga/storefront/pkg/storage"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close(database.DB)

		if !skipMigrate {
			if err := migrations.Apply(database.DB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		tokens, err := auth.NewTokenServiceFromConfig()
		if err != nil {
			return err
		}
		if config.JWTSecret() == "change-me-in-production" && config.AppEnv() == "production" {
			return fmt.Errorf("refusing to start in production with the default JWT_SECRET")
		}

		c, err := cache.Connect(ctx)
		if err != nil {
			// The catalog works without a cache.
			logger.Warn("redis unavailable, catalog cache disabled", "error", err)
		}
		defer c.Close()

		disk, err := storage.FromConfig(ctx)
		if err != nil {
			return err
		}

		k := kernel.New(kernel.Deps{DB: database.DB, Tokens: tokens, Cache: c, Disk: disk})
		defer k.Close()

		jobs := schedule.New()
		if c.Enabled() {
			jobs.Every(config.CatalogWarmInterval(), "catalog:warm", k.Catalog().Warm)
		}
		go jobs.Run(ctx)

		return server.Start(ctx, ":"+config.AppPort(), k.Handler())
	},
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := kernel.New(kernel.Deps{})
		defer k.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, r := range k.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Method, r.Path, r.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "no-migrate", false, "Do not run pending migrations on start")
}
