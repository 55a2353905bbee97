package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumescore/internal/feedback"
	"resumescore/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisReport", &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisReport", &ReportMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisReport:
		return "AnalysisReport"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ReportTextFormatter handles text formatting for analysis reports
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.AnalysisReport)
	if !ok {
		return "", fmt.Errorf("expected AnalysisReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Job Role: %s\n", report.JobRole))
	output.WriteString(fmt.Sprintf("ATS Score: %d/100\n", report.ATSScore))
	output.WriteString(fmt.Sprintf("Skill Match: %d%%\n", report.MatchPercentage))
	output.WriteString(fmt.Sprintf("Keyword Density: %d%%\n", report.KeywordDensity))
	output.WriteString(fmt.Sprintf("Formatting Quality: %d/100\n\n", report.FormattingQuality))

	output.WriteString("=== SKILLS FOUND ===\n")
	if len(report.SkillsFound) > 0 {
		for _, skill := range report.SkillsFound {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	} else {
		output.WriteString("None detected.\n")
	}
	output.WriteString("\n")

	output.WriteString("=== SKILLS MISSING ===\n")
	if len(report.SkillsMissing) > 0 {
		for _, skill := range report.SkillsMissing {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	} else {
		output.WriteString("None, all required skills are present.\n")
	}
	output.WriteString("\n")

	output.WriteString("=== SECTIONS ===\n")
	for _, section := range sectionRows(report.Sections) {
		output.WriteString(fmt.Sprintf("%-12s %s\n", section.name+":", presenceLabel(section.present)))
	}
	output.WriteString("\n")

	output.WriteString("=== FEEDBACK ===\n")
	output.WriteString(report.AIFeedback)
	output.WriteString("\n")

	if suggestions := feedback.Suggestions(report); len(suggestions) > 0 {
		output.WriteString("\n=== SUGGESTIONS ===\n")
		for i, suggestion := range suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return "AnalysisReport"
}

// ReportMarkdownFormatter handles markdown formatting for analysis reports
type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.AnalysisReport)
	if !ok {
		return "", fmt.Errorf("expected AnalysisReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Job Role:** %s\n\n", report.JobRole))
	output.WriteString(fmt.Sprintf("**ATS Score:** %d/100\n\n", report.ATSScore))
	output.WriteString(fmt.Sprintf("**Skill Match:** %d%%\n\n", report.MatchPercentage))
	output.WriteString(fmt.Sprintf("**Keyword Density:** %d%%\n\n", report.KeywordDensity))
	output.WriteString(fmt.Sprintf("**Formatting Quality:** %d/100\n\n", report.FormattingQuality))

	output.WriteString("## Skills Found\n\n")
	if len(report.SkillsFound) > 0 {
		for _, skill := range report.SkillsFound {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	} else {
		output.WriteString("None detected.\n")
	}
	output.WriteString("\n")

	output.WriteString("## Skills Missing\n\n")
	if len(report.SkillsMissing) > 0 {
		for _, skill := range report.SkillsMissing {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	} else {
		output.WriteString("None, all required skills are present.\n")
	}
	output.WriteString("\n")

	output.WriteString("## Sections\n\n")
	for _, section := range sectionRows(report.Sections) {
		output.WriteString(fmt.Sprintf("- **%s:** %s\n", section.name, presenceLabel(section.present)))
	}
	output.WriteString("\n")

	output.WriteString("## Feedback\n\n")
	output.WriteString(report.AIFeedback)
	output.WriteString("\n")

	if suggestions := feedback.Suggestions(report); len(suggestions) > 0 {
		output.WriteString("\n## Suggestions\n\n")
		for i, suggestion := range suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return "AnalysisReport"
}

type sectionRow struct {
	name    string
	present bool
}

func sectionRows(sections types.SectionFlags) []sectionRow {
	return []sectionRow{
		{"Summary", sections.Summary},
		{"Experience", sections.Experience},
		{"Education", sections.Education},
		{"Skills", sections.Skills},
		{"Contact", sections.Contact},
	}
}

func presenceLabel(present bool) string {
	if present {
		return "present"
	}
	return "missing"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
