package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/tutor"
)

var explainCmd = &cobra.Command{
	Use:   "explain [question]",
	Short: "Explain a question step by step",
	Example: `  examprep explain "If x - 2 is a factor of x² + 2x - k, find k"
  examprep explain --image question.png
  examprep explain --simplify "Balance: Fe + O2 -> Fe2O3"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		imagePath, _ := cmd.Flags().GetString("image")
		simplify, _ := cmd.Flags().GetBool("simplify")

		in := tutor.ExplainInput{Question: strings.TrimSpace(strings.Join(args, " "))}
		if imagePath != "" {
			img, err := tutor.LoadImage(imagePath)
			if err != nil {
				return err
			}
			in.Image = img
		}
		if in.Empty() {
			return tutor.ErrEmptyQuestion
		}
		if !settings.LLMConfigured {
			return errNoProvider
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ts, err := buildTutor(ctx, st.EventRepo())
		if err != nil {
			return err
		}

		exp, err := ts.tutor.Explain(ctx, in)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, exp.Text)

		if !simplify {
			return nil
		}
		simpler, err := ts.tutor.Simplify(ctx, tutor.SimplifyInput{Question: exp.Question, Explanation: exp.Text})
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintln(out, "In simpler terms")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		fmt.Fprintln(out, simpler)
		return nil
	},
}

func init() {
	explainCmd.Flags().StringP("image", "i", "", "Path to a photo of the question (png, jpeg, gif or webp)")
	explainCmd.Flags().BoolP("simplify", "s", false, "Also print a simpler version of the explanation")
}
