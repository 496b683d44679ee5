package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/app"
	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/performance"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the interactive tutor",
	RunE: func(cmd *cobra.Command, args []string) error {
		ephemeral, _ := cmd.Flags().GetBool("ephemeral")
		return runApp(cmd, ephemeral)
	},
}

func init() {
	playCmd.Flags().Bool("ephemeral", false, "Keep quiz results in memory only")
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command, ephemeral bool) error {
	opts, closeStore, err := appOptions(cmd.Context(), ephemeral)
	if err != nil {
		return err
	}
	defer closeStore()
	return app.Run(cmd.Context(), opts)
}

// appOptions opens the store and wires the tutor. An ephemeral run touches
// no database: results live in memory and LLM calls are not recorded.
func appOptions(ctx context.Context, ephemeral bool) (app.Options, func() error, error) {
	var (
		perf       performance.Store
		sink       llm.EventSink
		closeStore = func() error { return nil }
	)
	if ephemeral {
		perf = performance.NewMemoryStore()
	} else {
		st, err := openStore()
		if err != nil {
			return app.Options{}, nil, err
		}
		closeStore = st.Close
		perf = st.PerformanceRepo()
		sink = st.EventRepo()
	}

	ts, err := buildTutor(ctx, sink)
	if err != nil {
		closeStore()
		return app.Options{}, nil, err
	}

	return app.Options{
		Tutor:                ts.tutor,
		CanExplain:           ts.canExplain,
		Performance:          perf,
		DefaultQuestionCount: settings.DefaultQuestionCount,
		Status:               ts.status,
	}, closeStore, nil
}
