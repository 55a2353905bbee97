package common

import (
	"context"

	"resumescore/internal/errors"
	"resumescore/internal/types"
)

// AnalyzeFunc runs the analysis pipeline over extracted resume text.
type AnalyzeFunc func(ctx context.Context, text, jobRole string) types.AnalysisReport

// RunAnalysisCommand encapsulates the common logic for file-based
// analysis commands: read and extract the resume, run the pipeline,
// and hand the report to the output handler.
func RunAnalysisCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	path string,
	jobRole string,
	maxFileSize int64,
	analyze AnalyzeFunc,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	text, err := fileProcessor.ReadResume(path, maxFileSize)
	if err != nil {
		return err
	}

	logger.Info("Starting resume analysis",
		"file", path,
		"job_role", jobRole,
		"text_chars", len(text),
		"output_format", cmdConfig.OutputFormat)

	report := analyze(ctx, text, jobRole)

	return outputHandler.HandleOutput(report, cmdConfig)
}
