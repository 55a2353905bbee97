package analysis

import (
	"regexp"
	"strings"
)

// skillVariants returns the lower-cased skill name plus any aliases
// from the variant table. Only the first matching rule contributes.
func skillVariants(skill string) []string {
	lower := strings.ToLower(skill)
	variants := []string{lower}

	for _, rule := range variantRules {
		if strings.Contains(lower, rule.trigger) {
			variants = append(variants, rule.variants...)
			break
		}
	}

	return variants
}

// matchesSkill reports whether any variant of the skill occurs as a
// whole word in the normalized text.
func matchesSkill(normalized, skill string) bool {
	for _, variant := range skillVariants(skill) {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(variant) + `\b`)
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// ExtractSkills partitions the required skill list into found and
// missing, preserving catalog order. Both slices are always non-nil.
func ExtractSkills(normalized string, required []string) (found, missing []string) {
	found = []string{}
	missing = []string{}

	for _, skill := range required {
		if matchesSkill(normalized, skill) {
			found = append(found, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return found, missing
}
