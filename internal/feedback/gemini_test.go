package feedback

import (
	"context"
	"testing"

	"resumescore/internal/config"
	"resumescore/internal/errors"
)

func TestFallbackGenerate(t *testing.T) {
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	g := &GeminiGenerator{
		config:   &config.AIConfig{Model: "gemini-2.0-flash"},
		fallback: NewRuleBasedGenerator(),
		logger:   logger,
	}

	req := Request{
		JobRole:       "Backend Developer",
		SkillsFound:   []string{"Go", "Docker"},
		SkillsMissing: []string{"Kubernetes"},
	}

	// Degrading must work before any hook is registered.
	withoutHook := g.fallbackGenerate(context.Background(), req)
	if withoutHook == "" {
		t.Fatal("expected rule-based feedback without a hook")
	}

	calls := 0
	g.SetFallbackHook(func(context.Context) { calls++ })

	got := g.fallbackGenerate(context.Background(), req)
	if calls != 1 {
		t.Errorf("fallback hook invoked %d times, want 1", calls)
	}

	want := NewRuleBasedGenerator().Generate(context.Background(), req)
	if got != want {
		t.Errorf("degraded feedback differs from rule-based output:\ngot:  %s\nwant: %s", got, want)
	}
}
