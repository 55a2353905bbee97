package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"resumescore/internal/analysis"
	"resumescore/internal/catalog"
	"resumescore/internal/common"
	"resumescore/internal/feedback"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Score a resume against a job role",
	Long: `Analyze a resume file against the skill requirements of a job role.
PDF files are extracted automatically; anything else is read as plain text.

The analysis includes:
- ATS score with skill match, keyword density, structure, formatting,
  and length sub-scores
- Skills found and missing for the role
- Section detection (summary, experience, education, skills, contact)
- Improvement feedback, AI-generated when an API key is configured`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyze,
}

var analyzeConfig common.CommandConfig
var analyzeRole string

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeRole, "role", "r", "", "Job role to score against (default: "+catalog.DefaultRole+")")
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = analyzeCmd.RegisterFlagCompletionFunc("role", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return catalog.New().Roles(), cobra.ShellCompDirectiveNoFileComp
	})
}

func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	// Apply default format if not specified
	if analyzeConfig.OutputFormat == "" {
		analyzeConfig.OutputFormat = cfg.App.DefaultFormat
	}
	// Validate format against supported formats
	return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cat := catalog.New()
	if cfg.Catalog.File != "" {
		if err := cat.LoadFile(cfg.Catalog.File); err != nil {
			return fmt.Errorf("failed to load catalog file: %w", err)
		}
	}

	generator, err := feedback.NewGenerator(&cfg.AI, logger)
	if err != nil {
		return fmt.Errorf("failed to create feedback generator: %w", err)
	}

	analyzer := analysis.NewAnalyzer(cat, generator, logger)

	err = common.RunAnalysisCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args[0],
		analyzeRole,
		cfg.App.MaxFileSize,
		analyzer.Analyze,
	)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	logger.Info("Resume analysis completed successfully")
	return nil
}
