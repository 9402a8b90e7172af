package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/hangwatch/internal/app"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand(container *app.Container) *cobra.Command {
	var (
		limit int
		clear bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past supervised executions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clear {
				if err := container.HistoryStore.Clear(); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			}
			records, err := container.HistoryStore.Records()
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no history yet")
				return nil
			}
			RenderHistory(cmd.OutOrStdout(), records, limit)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many entries")
	cmd.Flags().BoolVar(&clear, "clear", false, "Delete all history entries")

	return cmd
}
