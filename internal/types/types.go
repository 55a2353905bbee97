package types

// AnalyzeInput represents the input for a single resume analysis
type AnalyzeInput struct {
	Text    string `json:"text"`
	JobRole string `json:"jobRole"`
}

// SectionFlags reports which of the five standard resume sections were detected
type SectionFlags struct {
	Summary    bool `json:"summary"`
	Experience bool `json:"experience"`
	Education  bool `json:"education"`
	Skills     bool `json:"skills"`
	Contact    bool `json:"contact"`
}

// AnalysisReport is the aggregate result of one analysis run.
// All score fields are integers in [0,100]; SkillsFound and SkillsMissing
// together cover the role's full skill list exactly once.
type AnalysisReport struct {
	ATSScore          int          `json:"atsScore"`
	SkillsFound       []string     `json:"skillsFound"`
	SkillsMissing     []string     `json:"skillsMissing"`
	MatchPercentage   int          `json:"matchPercentage"`
	JobRole           string       `json:"jobRole"`
	Sections          SectionFlags `json:"sections"`
	FormattingQuality int          `json:"formattingQuality"`
	KeywordDensity    int          `json:"keywordDensity"`
	AIFeedback        string       `json:"aiFeedback"`
	OverallScore      int          `json:"overallScore"`
}
