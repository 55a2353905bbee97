package analysis

import "regexp"

// Pattern tables used across normalization, matching and scoring.
// The character classes mirror the heuristics the scoring model was
// calibrated against, so they are deliberately fixed.
var (
	// punctuationRe strips punctuation ahead of skill matching.
	punctuationRe = regexp.MustCompile("[.,/#!$%^&*;:{}=\\-_`~()]")

	// whitespaceRe collapses runs of whitespace into single spaces.
	whitespaceRe = regexp.MustCompile(`\s+`)

	// specialCharsRe counts characters that tend to confuse ATS parsers.
	specialCharsRe = regexp.MustCompile("[!@#$%^&*()_+=\\[\\]{}|;':\",./<>?~`]")

	// phoneRe matches common US-style phone number shapes.
	phoneRe = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)

	// numberRe matches standalone digit runs (metrics, dates, percentages).
	numberRe = regexp.MustCompile(`\b\d+\b`)
)

// sectionIndicators are the words whose presence suggests a well
// structured resume, grouped by the canonical section they belong to.
var sectionIndicators = []string{
	"summary", "objective", "profile",
	"experience", "work", "employment", "professional",
	"education", "degree", "school", "university",
	"skills", "technologies", "technical", "competencies",
	"contact", "email", "phone", "address",
}

// Section presence for the report uses looser substring matching than
// the structural score above.
var (
	summarySectionRe    = regexp.MustCompile(`(?i)(summary|objective|profile)`)
	experienceSectionRe = regexp.MustCompile(`(?i)(experience|work|employment|professional)`)
	educationSectionRe  = regexp.MustCompile(`(?i)(education|degree|school|university)`)
	skillsSectionRe     = regexp.MustCompile(`(?i)(skills|technologies|technical|competencies)`)
	contactSectionRe    = regexp.MustCompile(`(?i)(email|phone|address|contact)`)
)

// variantRule maps a trigger substring in a skill name to the aliases
// that should also count as a match for that skill.
type variantRule struct {
	trigger  string
	variants []string
}

// variantRules is ordered; the first rule whose trigger appears in the
// lower-cased skill name wins.
var variantRules = []variantRule{
	{"javascript", []string{"js", "javascript"}},
	{"node.js", []string{"node", "nodejs"}},
	{"c#", []string{"csharp", "c sharp"}},
	{"react", []string{"reactjs", "react.js"}},
	{"vue.js", []string{"vue", "vuejs"}},
	{"angular", []string{"angularjs", "angular.js"}},
	{"typescript", []string{"ts", "typescript"}},
	{"html", []string{"html5", "html 5"}},
	{"css", []string{"css3", "css 3"}},
	{"python", []string{"python3", "python 3"}},
	{"java", []string{"java8", "java 8", "java11", "java 11"}},
	{"sql", []string{"mysql", "postgresql", "mssql"}},
}
