package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/examprep/internal/config"
	"github.com/abhisek/examprep/internal/logging"
	"github.com/abhisek/examprep/internal/store"
)

var (
	// settings is resolved once per invocation before any command runs.
	settings  *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "examprep",
	Short: "AI tutor for WAEC exam practice",
	Long: "examprep is a terminal tutor for secondary-school students preparing for WAEC exams.\n" +
		"Ask for step-by-step explanations of questions, practice with multiple-choice quizzes,\n" +
		"and track your performance by subject.",
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Assigned here because setup refers back to rootCmd.
	rootCmd.PersistentPreRunE = setup
	config.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and configures logging. The TUI owns the
// terminal, so its logs go to a file unless one is configured.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	settings = cfg

	logCfg := cfg.Log
	if logCfg.File == "" && runsTUI(cmd) {
		dir, err := store.DataDir()
		if err != nil {
			return err
		}
		logCfg.File = filepath.Join(dir, "examprep.log")
	}
	_, closer, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	logCloser = closer

	ctx := logging.WithFields(cmd.Context(), logrus.Fields{"command": cmd.Name()})
	cmd.SetContext(ctx)

	log := logging.FromContext(ctx).WithField("db", cfg.DB)
	if cfg.File != "" {
		log = log.WithField("config_file", cfg.File)
	}
	if cfg.LLMConfigured {
		log = log.WithFields(logrus.Fields{"provider": cfg.LLM.Provider, "model": cfg.LLM.Model()})
	}
	log.Debug("configuration loaded")
	return nil
}

func runsTUI(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == playCmd
}
