package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/gym-membership/internal/membership"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

func newStatusCmd(d Deps) *cobra.Command {
	var paid, plan, on string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Evaluate a membership without touching the database",
		Example: "  gymctl status --paid 2024-01-31 --plan mensal\n" +
			"  gymctl status --paid 2024-01-31 --plan monthly --on 2024-03-01",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := time.Now()
			if on != "" {
				t, err := time.Parse(models.DateLayout, on)
				if err != nil {
					return fmt.Errorf("--on: %w", models.ErrInvalidDate)
				}
				ref = t
			}

			res := membership.EvaluateString(paid, plan, ref)
			out := cmd.OutOrStdout()
			statusColor(res.Status).Fprintf(out, "status: %s\n", res.Status)
			if res.DueDate != nil {
				fmt.Fprintf(out, "due date: %s\n", res.DueDate.Format(models.DateLayout))
			}
			fmt.Fprintf(out, "reference: %s\n", ref.Format(models.DateLayout))
			return nil
		},
	}
	cmd.Flags().StringVar(&paid, "paid", "", "last payment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&plan, "plan", "", "plan label, e.g. monthly, trimestral, anual")
	cmd.Flags().StringVar(&on, "on", "", "reference date (YYYY-MM-DD), today when empty")
	return cmd
}

func statusColor(s membership.Status) *color.Color {
	switch s {
	case membership.StatusCurrent:
		return color.New(color.FgGreen)
	case membership.StatusOverdue:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow)
	}
}
