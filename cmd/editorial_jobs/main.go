package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/core/services"
	"github.com/SscSPs/editorial_workflow/internal/platform/config"
	"github.com/SscSPs/editorial_workflow/internal/repositories"
	"github.com/spf13/cobra"
)

var (
	rootCtx   context.Context
	logger    *slog.Logger
	cfg       *config.Config
	backend   *repositories.Backend
	container *portssvc.ServiceContainer

	actorUsername string
	journalFilter string
)

var rootCmd = &cobra.Command{
	Use:           "editorial_jobs",
	Short:         "Operator jobs for the editorial workflow service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
		slog.SetDefault(logger)

		if cmd.Annotations["storage"] == "none" {
			return nil
		}
		backend, err = repositories.Open(rootCtx, cfg, logger, false)
		if err != nil {
			return err
		}
		container = services.NewServiceContainer(cfg, backend.Repos, nil)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if backend != nil {
			backend.Close()
		}
	},
}

func main() {
	var stop context.CancelFunc
	rootCtx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(rootCtx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// resolveActor maps --actor to the user id the services authorize.
func resolveActor(ctx context.Context) (string, error) {
	if actorUsername == "" {
		return "", fmt.Errorf("--actor is required")
	}
	user, err := container.User.GetUserByUsername(ctx, actorUsername)
	if err != nil {
		return "", fmt.Errorf("resolving actor %q: %w", actorUsername, err)
	}
	return user.UserID, nil
}

func journalRef() *string {
	if journalFilter == "" {
		return nil
	}
	return &journalFilter
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
