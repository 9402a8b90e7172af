package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/hangwatch/internal/app"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run the full read-only diagnostic sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := container.Diagnostics.RunFull(cmd.Context())
			if err != nil {
				return fmt.Errorf("diagnostics: %w", err)
			}
			RenderDiagnostics(cmd.OutOrStdout(), results)
			fmt.Fprintf(cmd.OutOrStdout(), "report written under %s\n", container.Diagnostics.ReportDir())
			return nil
		},
	}
}
