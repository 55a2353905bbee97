package analysis

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resumescore/internal/catalog"
	"resumescore/internal/errors"
	"resumescore/internal/feedback"
	"resumescore/internal/types"
)

// Analyzer runs the full analysis pipeline for one resume.
type Analyzer struct {
	catalog   *catalog.Catalog
	generator feedback.Generator
	logger    *errors.Logger
	tracer    trace.Tracer
}

// NewAnalyzer creates an analyzer bound to a skill catalog and a
// feedback generator.
func NewAnalyzer(cat *catalog.Catalog, gen feedback.Generator, logger *errors.Logger) *Analyzer {
	return &Analyzer{
		catalog:   cat,
		generator: gen,
		logger:    logger,
		tracer:    otel.Tracer("resumescore/analysis"),
	}
}

// Analyze scores the extracted resume text against the requested job
// role and assembles the full report. Empty text still produces a
// complete (low-scoring) report; an unknown role falls back to the
// catalog default.
func (a *Analyzer) Analyze(ctx context.Context, extractedText, jobRole string) types.AnalysisReport {
	ctx, span := a.tracer.Start(ctx, "analysis.Analyze",
		trace.WithAttributes(
			attribute.String("analysis.job_role", jobRole),
			attribute.Int("analysis.text_length", len(extractedText)),
		))
	defer span.End()

	lowerText := strings.ToLower(extractedText)
	normalized := Normalize(extractedText)

	role, skills, exact := a.catalog.Lookup(jobRole)
	if !exact {
		a.logger.Warn("unknown job role, using default",
			"requested_role", jobRole,
			"resolved_role", role)
	}

	found, missing := ExtractSkills(normalized, skills)

	atsScore := ATSScore(lowerText, normalized, found, missing, skills)
	matchPct := MatchPercentage(len(found), len(skills))
	sections := DetectSections(lowerText)

	aiFeedback := a.generator.Generate(ctx, feedback.Request{
		ResumeText:    extractedText,
		JobRole:       role,
		SkillsFound:   found,
		SkillsMissing: missing,
	})

	report := types.AnalysisReport{
		ATSScore:          atsScore,
		SkillsFound:       found,
		SkillsMissing:     missing,
		MatchPercentage:   matchPct,
		JobRole:           role,
		Sections:          sections,
		FormattingQuality: FormattingQualityField(extractedText),
		KeywordDensity:    KeywordDensityField(lowerText, skills),
		AIFeedback:        aiFeedback,
		OverallScore:      atsScore,
	}

	span.SetAttributes(
		attribute.Int("analysis.ats_score", atsScore),
		attribute.Int("analysis.skills_found", len(found)),
		attribute.Int("analysis.skills_missing", len(missing)),
	)

	return report
}
