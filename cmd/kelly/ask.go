package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askLocal bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask Kelly one question and print the poem",
	Long: `Ask Kelly a single question. The answer is always a short poem.

The hosted backend is used when an API key is configured; otherwise the
question goes to the local model (starting its container if needed).

Examples:
  kelly ask "why is the sky blue?"
  kelly ask --local "what is entropy?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return fmt.Errorf("question is empty")
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		cfg := s.manager.Get()
		preferHosted := cfg.Defaults.PreferHosted && !askLocal

		answer := s.answerWith(cmd.Context(), question, preferHosted)
		fmt.Println(answer.Text)

		if answer.IsError {
			return fmt.Errorf("generation failed (%s)", answer.ErrorType)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askLocal, "local", false, "force the local backend even when an API key is configured")
	rootCmd.AddCommand(askCmd)
}
