package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/sruthykbenni/kelly/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage kelly configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to ~/.kelly/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}

		if h.ConfigExists() {
			return fmt.Errorf("config already exists at %s", h.ConfigPath())
		}

		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}

		fmt.Printf("Wrote default config to %s\n", h.ConfigPath())
		fmt.Println("Set OPENAI_API_KEY in your environment to enable the hosted backend.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration after merging the config file,
environment overrides and defaults. API key placeholders are shown
unresolved; credentials are never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}

		cm, err := getConfigManager(h)
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cm.Get())
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}

		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
