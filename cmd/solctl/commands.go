package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"sol-backend/application/services"
	domainservices "sol-backend/domain/services"
	"sol-backend/infrastructure/config"
	"sol-backend/infrastructure/di"
	"sol-backend/interfaces/http/rest"
	"sol-backend/pkg/auth"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "solctl",
		Short:         "Operate the Sol coaching backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newClassifyCmd(),
		newParseCmd(),
		newSectionsCmd(),
		newContextCmd(),
		newSynthesizeCmd(),
		newTokenCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			container, err := loadContainer(ctx)
			if err != nil {
				return err
			}
			defer container.Logger.Sync()

			if addr == "" {
				addr = container.Config.ServerAddress
			}
			return rest.Serve(ctx, addr, container.Router.Setup(), container.Logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to SERVER_ADDRESS)")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify FILE",
		Short: "Show how a document would be routed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0])
			if err != nil {
				return err
			}
			classification := domainservices.NewDocumentClassifier().Classify(args[0], text)
			return printJSON(cmd.OutOrStdout(), classification)
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a saved extraction response (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			response, err := readInput(args[0])
			if err != nil {
				return err
			}
			extraction, err := services.ParseExtraction(response, services.DefaultExtractionConfig())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), extraction)
		},
	}
}

func newSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections FILE",
		Short: "Split a visioning questionnaire into sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), domainservices.ParseVisioning(text))
		},
	}
}

func newContextCmd() *cobra.Command {
	var (
		email  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print a user's aggregated context",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Logger.Sync()

			uc, err := container.Aggregator.Aggregate(cmd.Context(), email)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), uc)
			}
			fmt.Fprintln(cmd.OutOrStdout(), uc.Summary())
			if uc.HasDegraded() {
				fmt.Fprintf(cmd.ErrOrStderr(), "degraded slices: %v\n", uc.Degraded)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full bundle as JSON")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSynthesizeCmd() *cobra.Command {
	var (
		email string
		force bool
		all   bool
	)
	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Check or force essence synthesis for one user or all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && email == "" {
				return fmt.Errorf("either --email or --all is required")
			}

			container, err := loadContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Logger.Sync()

			if all {
				report, err := container.Synthesizer.SweepAll(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			}

			res, err := container.Synthesizer.SynthesizeIfDue(cmd.Context(), email, force)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().BoolVar(&force, "force", false, "run even when the essence is fresh")
	cmd.Flags().BoolVar(&all, "all", false, "sweep every profile")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing (needs JWT_SECRET)",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			validator, err := auth.NewJWTValidator(auth.JWTConfig{
				SecretKey: secret,
				Issuer:    config.Defaults().JWTIssuer,
			})
			if err != nil {
				return err
			}
			token, err := validator.GenerateToken(email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func loadContainer(ctx context.Context) (*di.Container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return container, nil
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
