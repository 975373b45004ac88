package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sruthykbenni/kelly/internal/conversation"
	"github.com/sruthykbenni/kelly/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat with Kelly",
	Long: `Open the interactive chat interface.

Type a question and press enter; Kelly answers in verse. Press ctrl+r to
have her take another pass at the last question. The conversation keeps
every answer, including regenerated ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.Close()

		// Apply config file edits without restarting the chat.
		s.manager.WatchConfig()

		log := conversation.NewLog()
		answer := func(ctx context.Context, question string) string {
			return s.Answer(ctx, question).Text
		}

		model := tui.New(cmd.Context(), log, answer)
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

		if _, err := program.Run(); err != nil {
			return fmt.Errorf("chat interface failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
