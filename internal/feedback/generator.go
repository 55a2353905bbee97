package feedback

import (
	"context"

	"resumescore/internal/config"
	"resumescore/internal/errors"
)

// Request carries the analysis context a generator turns into feedback.
type Request struct {
	ResumeText    string
	JobRole       string
	SkillsFound   []string
	SkillsMissing []string
}

// Generator produces improvement feedback for an analyzed resume.
// Implementations must always return usable text; failures degrade to
// a simpler strategy rather than surfacing an error.
type Generator interface {
	Generate(ctx context.Context, req Request) string
}

// NewGenerator selects the feedback strategy from configuration: the
// Gemini-backed generator when an API key is configured, the
// rule-based generator otherwise.
func NewGenerator(cfg *config.AIConfig, logger *errors.Logger) (Generator, error) {
	if cfg.APIKey == "" {
		logger.Info("No AI API key configured, using rule-based feedback")
		return NewRuleBasedGenerator(), nil
	}

	gemini, err := NewGeminiGenerator(cfg, logger)
	if err != nil {
		return nil, err
	}
	return gemini, nil
}
