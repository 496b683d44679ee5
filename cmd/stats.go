package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/performance"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz performance by subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, _ := cmd.Flags().GetInt("recent")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.PerformanceRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		printReport(cmd, records, recent)
		return nil
	},
}

func printReport(cmd *cobra.Command, records []performance.Record, recent int) {
	out := cmd.OutOrStdout()
	report := performance.Aggregate(records)
	if report.Empty() {
		fmt.Fprintln(out, "No data yet. Take a quiz to see your progress!")
		return
	}

	fmt.Fprintf(out, "Overall Average Score: %d%% across %d quizzes\n\n", report.Overall, report.Quizzes)

	fmt.Fprintln(out, "Average Score by Subject")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	fmt.Fprintf(out, "%-12s  %7s  %7s\n", "Subject", "Quizzes", "Average")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	for _, s := range report.Subjects {
		fmt.Fprintf(out, "%-12s  %7d  %6d%%\n", s.Subject, s.Quizzes, s.Average)
	}

	if recent <= 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Recent Quizzes")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	start := max(0, len(records)-recent)
	for i := len(records) - 1; i >= start; i-- {
		r := records[i]
		fmt.Fprintf(out, "%-16s  %-10s  %2d/%-2d  %3d%%\n",
			r.CompletedAt.Local().Format("2006-01-02 15:04"), r.Subject,
			r.Score, r.TotalQuestions, performance.Percentage(r.Score, r.TotalQuestions))
	}
}

func init() {
	statsCmd.Flags().IntP("recent", "n", 5, "Number of recent quizzes to list (0 to hide)")
}
