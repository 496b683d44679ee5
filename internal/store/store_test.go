package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/examprep/internal/performance"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{performanceTable, llmEventTable, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestPerformanceRepo_AppendList(t *testing.T) {
	s := openTestStore(t)
	repo := s.PerformanceRepo()
	ctx := context.Background()

	at := time.Date(2026, 4, 2, 15, 4, 5, 123, time.UTC)
	records := []performance.Record{
		{SessionID: "a", Subject: "Maths", Score: 1, TotalQuestions: 2, CompletedAt: at},
		{SessionID: "b", Subject: "Biology", Score: 5, TotalQuestions: 5, CompletedAt: at.Add(time.Minute)},
		{SessionID: "c", Subject: "Maths", Score: 2, TotalQuestions: 2, CompletedAt: at.Add(2 * time.Minute)},
	}
	for _, rec := range records {
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	for i, rec := range got {
		want := records[i]
		if rec.SessionID != want.SessionID || rec.Subject != want.Subject ||
			rec.Score != want.Score || rec.TotalQuestions != want.TotalQuestions {
			t.Errorf("record %d = %+v, want %+v", i, rec, want)
		}
		if !rec.CompletedAt.Equal(want.CompletedAt) {
			t.Errorf("record %d CompletedAt = %v, want %v", i, rec.CompletedAt, want.CompletedAt)
		}
		if rec.ID == 0 {
			t.Errorf("record %d has no ID", i)
		}
	}

	report := performance.Aggregate(got)
	if avg, _ := report.AveragePercentage("Maths"); avg != 75 {
		t.Errorf("Maths average = %d, want 75", avg)
	}
}

func TestPerformanceRepo_Reset(t *testing.T) {
	s := openTestStore(t)
	repo := s.PerformanceRepo()
	ctx := context.Background()

	if err := repo.Append(ctx, performance.Record{Subject: "English", Score: 1, TotalQuestions: 1, CompletedAt: time.Now()}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records after reset, want 0", len(got))
	}
}

func TestEventRepo_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "quiz-gen", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "req", ResponseBody: "resp"},
		{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "explain", InputTokens: 50, OutputTokens: 200, LatencyMs: 500, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "explain", InputTokens: 10, LatencyMs: 100, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Model != "gpt-4o-mini" {
		t.Errorf("newest event model = %q, want gpt-4o-mini", all[0].Model)
	}
	if all[0].Success {
		t.Error("newest event should be a failure")
	}

	explain, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "explain", Limit: 1})
	if err != nil {
		t.Fatalf("query explain: %v", err)
	}
	if len(explain) != 1 || explain[0].Purpose != "explain" {
		t.Fatalf("filtered query = %+v", explain)
	}

	oldest := all[len(all)-1]
	got, err := repo.GetLLMEvent(ctx, oldest.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != "req" || got.ResponseBody != "resp" {
		t.Fatalf("get = %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestEventRepo_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Model: "m1", Purpose: "explain", InputTokens: 10, OutputTokens: 20, LatencyMs: 100},
		{Model: "m1", Purpose: "explain", InputTokens: 30, OutputTokens: 40, LatencyMs: 300},
		{Model: "m2", Purpose: "quiz-gen", InputTokens: 5, OutputTokens: 5, LatencyMs: 50},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	ex := byPurpose[0]
	if ex.Purpose != "explain" || ex.Calls != 2 || ex.InputTokens != 40 || ex.OutputTokens != 60 || ex.AvgLatencyMs != 200 {
		t.Errorf("explain usage = %+v", ex)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "m2" || byModel[1].Calls != 1 {
		t.Errorf("usage by model = %+v", byModel)
	}
}
