package feedback

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"

	"resumescore/internal/config"
	"resumescore/internal/errors"
)

// GeminiGenerator produces feedback through the Gemini API, protected
// by a circuit breaker and retry with exponential backoff. Every
// failure path degrades to the rule-based generator.
type GeminiGenerator struct {
	client   *genai.Client
	config   *config.AIConfig
	breaker  *circuitBreaker
	fallback *RuleBasedGenerator
	logger   *errors.Logger
	tracer   trace.Tracer

	// onFallback is invoked once per degraded call. The server sets it
	// to record the fallback metric.
	onFallback func(context.Context)
}

// Ensure GeminiGenerator implements Generator
var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a Gemini-backed feedback generator.
func NewGeminiGenerator(cfg *config.AIConfig, logger *errors.Logger) (*GeminiGenerator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiGenerator{
		client:   client,
		config:   cfg,
		breaker:  newCircuitBreaker(cfg, logger),
		fallback: NewRuleBasedGenerator(),
		logger:   logger,
		tracer:   otel.Tracer("resumescore/feedback"),
	}, nil
}

// Generate calls Gemini and falls back to the rule-based strategy when
// the call fails for any reason.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) string {
	ctx, span := g.tracer.Start(ctx, "feedback.Generate",
		trace.WithAttributes(
			attribute.String("ai.provider", "gemini"),
			attribute.String("ai.model", g.config.Model),
			attribute.String("feedback.job_role", req.JobRole),
		))
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	result, err := g.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.generateWithRetry(callCtx, req)
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("feedback.fallback", true))
		g.logger.Warn("AI feedback generation failed, using rule-based fallback",
			"job_role", req.JobRole,
			"error", err.Error())
		return g.fallbackGenerate(ctx, req)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		span.SetAttributes(attribute.Bool("feedback.fallback", true))
		g.logger.Warn("AI returned empty feedback, using rule-based fallback",
			"job_role", req.JobRole)
		return g.fallbackGenerate(ctx, req)
	}

	span.SetAttributes(
		attribute.Bool("feedback.fallback", false),
		attribute.Int("feedback.length", len(text)),
	)
	if usage := result.UsageMetadata; usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", int64(usage.PromptTokenCount)),
			attribute.Int64("ai.tokens.output", int64(usage.CandidatesTokenCount)),
		)
	}

	return text
}

// SetFallbackHook registers a callback invoked whenever a generative
// call degrades to the rule-based strategy.
func (g *GeminiGenerator) SetFallbackHook(hook func(context.Context)) {
	g.onFallback = hook
}

// fallbackGenerate produces rule-based feedback for a degraded call and
// notifies the fallback hook.
func (g *GeminiGenerator) fallbackGenerate(ctx context.Context, req Request) string {
	if g.onFallback != nil {
		g.onFallback(ctx)
	}
	return g.fallback.Generate(ctx, req)
}

// generateWithRetry executes the Gemini call with retry and
// exponential backoff plus jitter.
func (g *GeminiGenerator) generateWithRetry(ctx context.Context, req Request) (*genai.GenerateContentResponse, error) {
	prompt := fmt.Sprintf(userPromptTemplate,
		req.JobRole,
		strings.Join(req.SkillsFound, ", "),
		req.JobRole,
		strings.Join(req.SkillsMissing, ", "))

	genaiConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	if g.config.Temperature > 0 {
		temp := g.config.Temperature
		genaiConfig.Temperature = &temp
	}

	var lastErr error
	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying feedback generation",
				"attempt", attempt,
				"max_retries", g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genaiConfig)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}

	return nil, fmt.Errorf("feedback generation failed after %d retries: %w", g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// Stats returns circuit breaker statistics for the stats endpoint.
func (g *GeminiGenerator) Stats() map[string]any {
	return g.breaker.Stats()
}

// Healthy reports whether the circuit breaker allows requests.
func (g *GeminiGenerator) Healthy() bool {
	return g.breaker.Healthy()
}
