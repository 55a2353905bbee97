package analysis

import (
	"math"
	"regexp"
	"strings"

	"resumescore/internal/types"
)

// SkillMatchScore is the found/required ratio on a 0-100 scale,
// rounded before it enters the weighted aggregate.
func SkillMatchScore(foundCount, missingCount int) int {
	total := foundCount + missingCount
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(foundCount) / float64(total) * 100))
}

// KeywordDensityScore scores how densely the role's keywords occur in
// the normalized text. The optimal density is around 2% of all words;
// both keyword stuffing and keyword absence are penalized.
func KeywordDensityScore(normalized string, keywords []string) float64 {
	totalWords := len(strings.Fields(normalized))
	if totalWords == 0 {
		return 0
	}

	keywordCount := 0
	for _, keyword := range keywords {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(keyword)) + `\b`)
		keywordCount += len(re.FindAllString(normalized, -1))
	}

	density := float64(keywordCount) / float64(totalWords) * 100

	switch {
	case density > 3:
		return math.Max(0, 100-((density-3)*20))
	case density < 0.5:
		return math.Max(0, density*50)
	default:
		return math.Min(100, density*33.33)
	}
}

// SectionsScore counts structural indicator words, 20 points per hit.
// With four indicator words per section the score can exceed 100; the
// aggregate clamps, so the overshoot is kept as-is.
func SectionsScore(text string) int {
	found := 0
	for _, section := range sectionIndicators {
		re := regexp.MustCompile(`(?i)\b` + section + `\b`)
		if re.MatchString(text) {
			found++
		}
	}
	return int(math.Round(float64(found) / 5 * 100))
}

// FormattingScore checks for formatting traits ATS parsers care about.
// The double-space penalty is applied twice (-10 then -5), matching the
// calibrated behavior.
func FormattingScore(text string) int {
	score := 100

	if strings.Contains(text, "  ") {
		score -= 10 // multiple spaces
	}
	if strings.Contains(text, "\t") {
		score -= 10 // tabs
	}
	if strings.Contains(text, "  ") {
		score -= 5 // extra spaces
	}

	if strings.Contains(text, "\n") {
		score += 5 // proper line breaks
	}
	if strings.Contains(text, ":") {
		score += 5 // section separators
	}

	return clampInt(score, 0, 100)
}

// LengthScore rates the word count against the typical 200-600 word
// sweet spot for a resume.
func LengthScore(text string) int {
	wordCount := len(strings.Fields(text))

	switch {
	case wordCount < 100:
		return 30
	case wordCount > 1000:
		return 40
	case wordCount >= 200 && wordCount <= 600:
		return 100
	case wordCount >= 100 && wordCount < 200:
		return 70
	case wordCount > 600 && wordCount <= 1000:
		return 80
	}

	return 50
}

// KeywordDensityField computes the report's keywordDensity field. It is
// a coarser presence-based measure than KeywordDensityScore and is kept
// separate on purpose: clients depend on both values as they are.
func KeywordDensityField(lowerText string, keywords []string) int {
	totalWords := len(strings.Fields(lowerText))
	if totalWords == 0 {
		return 0
	}

	found := 0
	for _, keyword := range keywords {
		if strings.Contains(lowerText, strings.ToLower(keyword)) {
			found++
		}
	}

	pct := int(math.Round(float64(found) / float64(totalWords) * 100))
	if pct > 100 {
		pct = 100
	}
	return pct
}

// FormattingQualityField computes the report's formattingQuality field,
// a simplified check distinct from the aggregate's FormattingScore.
func FormattingQualityField(text string) int {
	score := 100

	if strings.Contains(text, "  ") {
		score -= 10
	}
	if len(text) < 500 {
		score -= 20
	}
	if len(text) > 5000 {
		score -= 10
	}

	if score < 0 {
		return 0
	}
	return score
}

// DetectSections reports which standard resume sections appear in the
// text, using loose substring matching.
func DetectSections(text string) types.SectionFlags {
	return types.SectionFlags{
		Summary:    summarySectionRe.MatchString(text),
		Experience: experienceSectionRe.MatchString(text),
		Education:  educationSectionRe.MatchString(text),
		Skills:     skillsSectionRe.MatchString(text),
		Contact:    contactSectionRe.MatchString(text),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
