package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/hangwatch/internal/app"
)

// NewStatsCommand creates the stats command
func NewStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize execution history",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := container.StatsService.GetStatistics()
			if err != nil {
				return fmt.Errorf("aggregate statistics: %w", err)
			}
			RenderSummary(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}
