package feedback

import (
	"context"
	"fmt"
	"strings"

	"resumescore/internal/types"
)

// RuleBasedGenerator builds feedback from fixed templates. It is the
// fallback for every generative failure, so it must never fail itself.
type RuleBasedGenerator struct{}

// Ensure RuleBasedGenerator implements Generator
var _ Generator = (*RuleBasedGenerator)(nil)

// NewRuleBasedGenerator creates a rule-based feedback generator.
func NewRuleBasedGenerator() *RuleBasedGenerator {
	return &RuleBasedGenerator{}
}

// Generate assembles template sentences from the skill partition. The
// output is deterministic for a given request.
func (r *RuleBasedGenerator) Generate(_ context.Context, req Request) string {
	var feedback []string

	if len(req.SkillsMissing) > 0 {
		feedback = append(feedback, fmt.Sprintf("Consider adding these important skills for %s: %s",
			req.JobRole, strings.Join(topN(req.SkillsMissing, 5), ", ")))
	}

	if len(req.SkillsFound) > 0 {
		feedback = append(feedback, fmt.Sprintf("Good job including these relevant skills: %s",
			strings.Join(topN(req.SkillsFound, 5), ", ")))
	}

	if len(req.SkillsMissing) > 5 {
		feedback = append(feedback, "Focus on acquiring the most critical missing skills for this role.")
	}

	if len(req.SkillsFound) < 5 {
		feedback = append(feedback, "Try to include more technical skills relevant to the position.")
	}

	feedback = append(feedback,
		"Make sure your resume includes keywords from the job description.",
		"Quantify your achievements with specific metrics where possible.")

	return strings.Join(feedback, " ")
}

// Suggestions derives section-level improvement hints from a finished
// report. Used by the text and markdown formatters.
func Suggestions(report types.AnalysisReport) []string {
	var suggestions []string

	if !report.Sections.Summary {
		suggestions = append(suggestions, "Add a professional summary section at the top of your resume.")
	}

	if !report.Sections.Experience {
		suggestions = append(suggestions, "Include a detailed work experience section with specific achievements.")
	}

	if !report.Sections.Skills {
		suggestions = append(suggestions, "Create a dedicated skills section to highlight your technical abilities.")
	}

	if report.FormattingQuality < 70 {
		suggestions = append(suggestions, "Improve resume formatting - avoid tables, graphics, and complex layouts that ATS systems struggle with.")
	}

	if report.KeywordDensity < 20 {
		suggestions = append(suggestions, "Increase keyword density by including more relevant technical terms and skills.")
	}

	return suggestions
}

func topN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
