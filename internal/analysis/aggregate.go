package analysis

import (
	"math"
	"strings"
)

// Weights of the five sub-scores in the aggregate ATS score.
const (
	weightSkillMatch     = 0.40
	weightKeywordDensity = 0.25
	weightSections       = 0.15
	weightFormatting     = 0.10
	weightLength         = 0.10
)

// ATSScore combines the five sub-scores into the weighted aggregate and
// applies the adjustment pass. lowerText is the raw resume text
// lower-cased; normalized is the match-ready form of the same text.
func ATSScore(lowerText, normalized string, found, missing, required []string) int {
	skillMatch := float64(SkillMatchScore(len(found), len(missing)))
	density := KeywordDensityScore(normalized, required)
	sections := float64(SectionsScore(lowerText))
	formatting := float64(FormattingScore(lowerText))
	length := float64(LengthScore(lowerText))

	score := skillMatch*weightSkillMatch +
		density*weightKeywordDensity +
		sections*weightSections +
		formatting*weightFormatting +
		length*weightLength

	score = applyAdjustments(score, lowerText, found)

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// applyAdjustments nudges the aggregate for traits that help or hurt
// automated resume parsing. Adjustments are sequential; the result is
// clamped to [0,100].
func applyAdjustments(score float64, lowerText string, found []string) float64 {
	adjusted := score

	// Too many special characters confuse parsers.
	if len(specialCharsRe.FindAllString(lowerText, -1)) > 50 {
		adjusted -= 10
	}

	// Complete contact information.
	if strings.Contains(lowerText, "email") && strings.Contains(lowerText, "@") &&
		strings.Contains(lowerText, "phone") && phoneRe.MatchString(lowerText) {
		adjusted += 5
	}

	// No experience section at all.
	if !strings.Contains(lowerText, "experience") && !strings.Contains(lowerText, "work") {
		adjusted -= 10
	}

	// Skills section present but too short.
	if span, ok := skillsSectionSpan(lowerText); ok && span < 50 {
		adjusted -= 5
	}

	// Quantified achievements.
	if len(numberRe.FindAllString(lowerText, -1)) > 10 {
		adjusted += 5
	}

	// Long resume without the skills to justify it.
	wordCount := len(strings.Fields(lowerText))
	if wordCount > 800 && len(found) < 10 {
		adjusted -= 5
	}

	return math.Max(0, math.Min(100, adjusted))
}

// skillsSectionSpan measures the length of the skills section: from the
// first "skills" occurrence up to the nearest blank line, "education"
// or "experience" marker, or end of text.
func skillsSectionSpan(lowerText string) (int, bool) {
	idx := strings.Index(lowerText, "skills")
	if idx < 0 {
		return 0, false
	}

	rest := lowerText[idx+len("skills"):]
	end := len(rest)
	for _, terminator := range []string{"\n\n", "education", "experience"} {
		if i := strings.Index(rest, terminator); i >= 0 && i < end {
			end = i
		}
	}

	return len("skills") + end, true
}

// MatchPercentage is the share of required skills found. An empty
// required list yields 0 rather than an undefined ratio.
func MatchPercentage(foundCount, requiredCount int) int {
	if requiredCount == 0 {
		return 0
	}
	return int(math.Round(float64(foundCount) / float64(requiredCount) * 100))
}
