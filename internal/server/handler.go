package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"resumescore/internal/extract"
	"resumescore/internal/observability"
)

// createAnalyzeHandler wraps the analyze handler with observability
func (s *Server) createAnalyzeHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescore.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Parse request
		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.Text) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "text field is required", http.StatusBadRequest)
			return
		}

		// Size validation
		if s.MaxRequestSize > 0 && len(req.Text) > int(s.MaxRequestSize) {
			err := fmt.Errorf("resume text too large: %d chars", len(req.Text))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Resume text too large", fmt.Sprintf("text exceeds size limit of %d characters", s.MaxRequestSize), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.text_length", len(req.Text)),
			attribute.String("request.job_role", req.JobRole),
			attribute.String("operation", "analyze"),
		)

		start := time.Now()
		report := s.Analyzer.Analyze(ctx, req.Text, req.JobRole)
		om.GetMetrics().RecordAnalysis(ctx, report.JobRole, report.ATSScore, time.Since(start))

		response := AnalyzeResponse{
			WordCount:      len(strings.Fields(req.Text)),
			AnalysisReport: report,
		}

		if s.Store != nil {
			record, err := s.Store.Save(ctx, report, "", response.WordCount)
			if err != nil {
				span.RecordError(err)
				s.Logger.LogError(err, "Failed to persist analysis")
			} else {
				response.ID = record.ID
			}
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", report.ATSScore),
			attribute.Int("response.skills_found", len(report.SkillsFound)),
		)

		writeJSONResponse(w, response)
	}
}

// createUploadHandler wraps the PDF upload handler with observability.
// The request is a multipart form with a "resume" file and an optional
// "jobRole" field.
func (s *Server) createUploadHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumescore.api")
		ctx, span := tracer.Start(ctx, "api.upload")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if s.MaxUploadSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadSize)
		}

		if err := r.ParseMultipartForm(s.MaxUploadSize); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			om.GetMetrics().RecordUpload(ctx, false)
			writeErrorResponse(w, "Invalid upload", fmt.Sprintf("failed to parse multipart form (limit is %d bytes)", s.MaxUploadSize), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("resume")
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			om.GetMetrics().RecordUpload(ctx, false)
			writeErrorResponse(w, "Missing resume file", "resume file field is required", http.StatusBadRequest)
			return
		}
		defer func() {
			if err := file.Close(); err != nil {
				s.Logger.LogError(err, "Failed to close uploaded file")
			}
		}()

		if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
			err := fmt.Errorf("unsupported file type: %s", header.Filename)
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			om.GetMetrics().RecordUpload(ctx, false)
			writeErrorResponse(w, "Unsupported file type", "only PDF files are accepted", http.StatusBadRequest)
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			span.RecordError(err)
			om.GetMetrics().RecordUpload(ctx, false)
			writeErrorResponse(w, "Failed to read upload", err.Error(), http.StatusBadRequest)
			return
		}

		text, err := extract.TextFromBytes(data)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "extract"))
			om.GetMetrics().RecordUpload(ctx, false)
			writeErrorResponse(w, "Failed to extract text from PDF", err.Error(), http.StatusUnprocessableEntity)
			return
		}

		jobRole := r.FormValue("jobRole")

		span.SetAttributes(
			attribute.String("upload.file_name", header.Filename),
			attribute.Int("upload.file_size", len(data)),
			attribute.Int("upload.text_length", len(text)),
			attribute.String("request.job_role", jobRole),
			attribute.String("operation", "upload"),
		)

		start := time.Now()
		report := s.Analyzer.Analyze(ctx, text, jobRole)
		om.GetMetrics().RecordAnalysis(ctx, report.JobRole, report.ATSScore, time.Since(start))
		om.GetMetrics().RecordUpload(ctx, true)

		response := AnalyzeResponse{
			FileName:       header.Filename,
			WordCount:      len(strings.Fields(text)),
			AnalysisReport: report,
		}

		if s.Store != nil {
			record, err := s.Store.Save(ctx, report, header.Filename, response.WordCount)
			if err != nil {
				span.RecordError(err)
				s.Logger.LogError(err, "Failed to persist analysis")
			} else {
				response.ID = record.ID
			}
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("ats.score", report.ATSScore),
		)

		writeJSONResponse(w, response)
	}
}
