package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/examprep/internal/llm"
	"github.com/abhisek/examprep/internal/logging"
	"github.com/abhisek/examprep/internal/store"
	"github.com/abhisek/examprep/internal/tutor"
)

var errNoProvider = errors.New("no LLM provider configured: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY")

// newProvider builds the LLM provider chain. Tests swap it for a scripted mock.
var newProvider = llm.NewProvider

// openStore opens the database named by the resolved configuration.
func openStore() (*store.Store, error) {
	if err := store.EnsureDir(settings.DB); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	st, err := store.Open(settings.DB)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// tutorSetup is the content provider chosen for this run.
type tutorSetup struct {
	tutor      tutor.ContentProvider
	canExplain bool
	status     string
}

// buildTutor picks quizzes from the question bank when one is configured and
// everything else from the LLM. Either may be missing; with neither, the
// tutor is nil. sink may be nil.
func buildTutor(ctx context.Context, sink llm.EventSink) (tutorSetup, error) {
	log := logging.FromContext(ctx)

	var llmTutor *tutor.LLMTutor
	if settings.LLMConfigured {
		provider, err := newProvider(ctx, settings.LLM, sink)
		if err != nil {
			return tutorSetup{}, fmt.Errorf("llm provider: %w", err)
		}
		llmTutor = tutor.NewLLMTutor(provider, tutor.DefaultConfig())
	} else {
		log.Warn("no LLM provider configured, AI features are unavailable")
	}

	var bankTutor *tutor.BankTutor
	if settings.Bank != "" {
		bank, err := tutor.LoadBank(settings.Bank)
		if err != nil {
			return tutorSetup{}, err
		}
		bankTutor = tutor.NewBankTutor(bank, uint64(time.Now().UnixNano()))
		log.WithField("bank", settings.Bank).Info("question bank loaded")
	}

	switch {
	case bankTutor != nil && llmTutor != nil:
		return tutorSetup{
			tutor:      tutor.Split{Quizzes: bankTutor, Explainer: llmTutor},
			canExplain: true,
			status:     settings.LLM.Model() + " + bank",
		}, nil
	case bankTutor != nil:
		return tutorSetup{tutor: bankTutor, status: "question bank"}, nil
	case llmTutor != nil:
		return tutorSetup{tutor: llmTutor, canExplain: true, status: settings.LLM.Model()}, nil
	}
	return tutorSetup{status: "offline"}, nil
}
