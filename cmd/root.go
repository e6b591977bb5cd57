package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tanya/internal/app"
	"tanya/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tanya",
	Short: "Tanya CLI App",
	Long:  `Tanya is a customer-support FAQ service that resolves free-form questions against a curated catalog using lexical matching and semantic retrieval.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		appInstance, err := app.NewApp(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend connectivity and other diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Printf("Catalog: %d categories loaded from %s\n",
			len(appInstance.Catalog.Categories()), appInstance.Config.Catalog.Path)

		if appInstance.VectorStore != nil {
			fmt.Println("Checking vector index connectivity...")
			if err := appInstance.VectorStore.Ping(ctx); err != nil {
				return fmt.Errorf("vector index ping failed: %w", err)
			}
			fmt.Println("Vector index connection successful.")
		} else {
			fmt.Println("Vector index: not configured (semantic retrieval disabled).")
		}

		if appInstance.CompletionService != nil {
			fmt.Printf("Checking completion provider %s...\n", appInstance.CompletionService.Name())
			if err := appInstance.CompletionService.Status(ctx); err != nil {
				return fmt.Errorf("completion provider check failed: %w", err)
			}
			fmt.Println("Completion provider reachable.")
		} else {
			fmt.Println("Generative rewriting: disabled.")
		}
		return nil
	},
}
