package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"learnpath/cmd/fx/agent_fx"
	"learnpath/cmd/fx/assessment_fx"
	"learnpath/cmd/fx/catalog_fx"
	"learnpath/cmd/fx/config_fx"
	"learnpath/cmd/fx/controllers_fx"
	"learnpath/cmd/fx/db_fx"
	"learnpath/cmd/fx/logger_fx"
	"learnpath/cmd/fx/memcache_fx"
	"learnpath/internal/agent"
	"learnpath/internal/catalog"
	"learnpath/internal/models/response_models"
)

const ensureTimeout = 3 * time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "learnpath",
		Short:        "Programming skills assessment and learning roadmap service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.AddCommand(newServeCmd(), newAgentCmd(), newCatalogCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newAgentCmd() *cobra.Command {
	agentCmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage the remote evaluator agent",
	}
	agentCmd.AddCommand(&cobra.Command{
		Use:   "ensure",
		Short: "Confirm the stored agent exists, creating it if needed, and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnsureAgent(cmd)
		},
	})
	return agentCmd
}

func newCatalogCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the question catalog as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat *catalog.Catalog
				err error
			)
			if path != "" {
				cat, err = catalog.Load(path)
			} else {
				cat, err = catalog.Default()
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(response_models.QuestionSet{Questions: cat.Questions})
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "catalog YAML file (defaults to the built-in catalog)")
	return cmd
}

func coreModules() fx.Option {
	return fx.Options(
		config_fx.Module,
		logger_fx.Module,
		memcache_fx.Module,
		db_fx.Module,
		catalog_fx.Module,
		agent_fx.Module,
	)
}

func runServe() error {
	app := fx.New(
		coreModules(),
		assessment_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideSessionSigner),
		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)
	if err := app.Err(); err != nil {
		return err
	}

	app.Run()
	return nil
}

func runEnsureAgent(cmd *cobra.Command) error {
	var agentID string
	app := fx.New(
		coreModules(),
		fx.Invoke(func(lc fx.Lifecycle, manager *agent.Manager) {
			lc.Append(fx.Hook{OnStart: func(ctx context.Context) error {
				id, err := manager.EnsureAgent(ctx)
				agentID = id
				return err
			}})
		}),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), ensureTimeout)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(context.Background()) }()

	fmt.Fprintln(cmd.OutOrStdout(), agentID)
	return nil
}
