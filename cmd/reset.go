package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/logging"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		yes, _ := cmd.Flags().GetBool("yes")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		repo := st.PerformanceRepo()
		records, err := repo.List(ctx)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No quiz results to delete.")
			return nil
		}

		if !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete %d quiz results from %s? [y/N] ", len(records), settings.DB)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := repo.Reset(ctx); err != nil {
			return fmt.Errorf("reset history: %w", err)
		}
		logging.FromContext(ctx).WithField("records", len(records)).Info("performance history reset")
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d quiz results.\n", len(records))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
