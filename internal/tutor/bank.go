package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/abhisek/examprep/internal/quiz"
)

// Bank is a local pool of questions grouped by subject.
type Bank struct {
	pools map[quiz.Subject][]quiz.Question
}

// LoadBank reads a JSON question bank: an array of quizzes, each with a
// subject and its questions. Subjects may repeat.
func LoadBank(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()
	b, err := ReadBank(f)
	if err != nil {
		return nil, fmt.Errorf("question bank %s: %w", path, err)
	}
	return b, nil
}

// ReadBank decodes and validates a question bank.
func ReadBank(r io.Reader) (*Bank, error) {
	var quizzes []quiz.Quiz
	if err := json.NewDecoder(r).Decode(&quizzes); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	b := &Bank{pools: make(map[quiz.Subject][]quiz.Question)}
	for i, q := range quizzes {
		if err := quiz.Validate(q); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		b.pools[q.Subject] = append(b.pools[q.Subject], q.Questions...)
	}
	return b, nil
}

// Count returns how many questions the bank holds for subject.
func (b *Bank) Count(subject quiz.Subject) int {
	return len(b.pools[subject])
}

// BankTutor serves quizzes from a Bank. It cannot explain questions.
type BankTutor struct {
	bank *Bank

	mu  sync.Mutex
	rng *rand.Rand
}

var _ ContentProvider = (*BankTutor)(nil)

// NewBankTutor creates a tutor that draws from bank, shuffling with seed.
func NewBankTutor(bank *Bank, seed uint64) *BankTutor {
	return &BankTutor{bank: bank, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// GenerateQuiz draws count distinct questions for subject in random order.
func (t *BankTutor) GenerateQuiz(ctx context.Context, subject quiz.Subject, count int) (*quiz.Quiz, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !subject.Valid() {
		return nil, fmt.Errorf("unknown subject %q", subject)
	}
	if err := CheckCount(count); err != nil {
		return nil, err
	}
	pool := t.bank.pools[subject]
	if len(pool) < count {
		return nil, fmt.Errorf("the question bank has %d %s questions, asked for %d", len(pool), subject, count)
	}

	t.mu.Lock()
	order := t.rng.Perm(len(pool))
	t.mu.Unlock()

	q := &quiz.Quiz{Subject: subject, Questions: make([]quiz.Question, count)}
	for i := range count {
		qq := pool[order[i]]
		qq.Options = append([]string(nil), qq.Options...)
		q.Questions[i] = qq
	}
	return q, nil
}

func (t *BankTutor) Explain(context.Context, ExplainInput) (*Explanation, error) {
	return nil, ErrUnavailable
}

func (t *BankTutor) Simplify(context.Context, SimplifyInput) (string, error) {
	return "", ErrUnavailable
}
