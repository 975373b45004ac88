package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sruthykbenni/kelly/internal/engine"
)

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Manage the local generation engine container",
	Long: `Manage the local generation engine container lifecycle.

The engine is an ollama server running in Docker. Model weights are
persisted to ~/.kelly/models/ and survive container restarts.

Examples:
  kelly engine start   # Start the engine container
  kelly engine stop    # Stop the container (weights preserved)
  kelly engine status  # Check container status
  kelly engine logs    # View container logs`,
}

// engineManager builds the Docker manager from current config.
func engineManager() (*engine.DockerManager, error) {
	h, err := getHome()
	if err != nil {
		return nil, err
	}
	cm, err := getConfigManager(h)
	if err != nil {
		return nil, err
	}
	return getDockerManager(h, cm.Get())
}

var engineStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the engine container",
	Long: `Start the engine container.

If the container doesn't exist, it will be created and started.
If it exists but is stopped, it will be started.
If it's already running, this is a no-op.

Model weights are persisted to ~/.kelly/models/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := engineManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Starting engine...")
		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("failed to start engine: %w", err)
		}

		fmt.Printf("Engine is running at %s\n", mgr.URL())
		return nil
	},
}

var engineStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the engine container",
	Long: `Stop the engine container.

This stops the container but preserves model weights. Use
'kelly engine start' to restart it later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := engineManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Stopping engine...")
		if err := mgr.Stop(ctx); err != nil {
			return fmt.Errorf("failed to stop engine: %w", err)
		}

		fmt.Println("Engine stopped")
		return nil
	},
}

var engineStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show engine container status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := engineManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		status, err := mgr.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		switch status {
		case engine.StatusRunning:
			fmt.Printf("Status: %s\n", status)
			fmt.Printf("URL: %s\n", mgr.URL())

			if err := mgr.WaitReady(ctx, 5*time.Second); err != nil {
				fmt.Printf("Health: unhealthy (%v)\n", err)
			} else {
				fmt.Println("Health: healthy")
			}
		case engine.StatusStopped:
			fmt.Printf("Status: %s (use 'kelly engine start' to start)\n", status)
		case engine.StatusNotFound:
			fmt.Printf("Status: %s (use 'kelly engine start' to create)\n", status)
		default:
			fmt.Printf("Status: %s\n", status)
		}

		return nil
	},
}

var engineLogsTail string

var engineLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show engine container logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := engineManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		logs, err := mgr.Logs(ctx, engineLogsTail)
		if err != nil {
			return fmt.Errorf("failed to get logs: %w", err)
		}

		fmt.Print(logs)
		return nil
	},
}

var engineRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the engine container",
	Long: `Remove the engine container.

This stops and removes the container. Model weights in ~/.kelly/models/
are NOT deleted - only the container is removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, err := engineManager()
		if err != nil {
			return err
		}
		defer mgr.Close()

		fmt.Println("Removing engine container...")
		if err := mgr.Remove(ctx); err != nil {
			return fmt.Errorf("failed to remove container: %w", err)
		}

		fmt.Println("Engine container removed (model weights preserved)")
		return nil
	},
}

var enginePullCmd = &cobra.Command{
	Use:   "pull [model]",
	Short: "Pull a model into the engine",
	Long: `Pull a model into the running engine.

With no argument, pulls the configured local backend model. The first
pull downloads the weights and can take a while.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}
		cm, err := getConfigManager(h)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		model := ""
		if len(args) == 1 {
			model = args[0]
		} else if be, ok := cfg.GetBackend(cfg.Defaults.LocalBackend); ok {
			model = be.Model
		}
		if model == "" {
			return fmt.Errorf("no model given and none configured")
		}

		mgr, err := getDockerManager(h, cfg)
		if err != nil {
			return err
		}
		defer mgr.Close()

		if err := mgr.Start(ctx); err != nil {
			return fmt.Errorf("failed to start engine: %w", err)
		}

		fmt.Printf("Pulling %s...\n", model)
		if err := mgr.PullModel(ctx, model); err != nil {
			return err
		}

		fmt.Printf("Model %s is ready\n", model)
		return nil
	},
}

func init() {
	engineCmd.AddCommand(engineStartCmd)
	engineCmd.AddCommand(engineStopCmd)
	engineCmd.AddCommand(engineStatusCmd)
	engineCmd.AddCommand(engineLogsCmd)
	engineCmd.AddCommand(engineRemoveCmd)
	engineCmd.AddCommand(enginePullCmd)

	engineLogsCmd.Flags().StringVar(&engineLogsTail, "tail", "100", "Number of lines to show from the end")

	rootCmd.AddCommand(engineCmd)
}
