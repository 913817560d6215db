package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxAttemptsPerBackend = 3
	defaultBaseBackoff    = 1 * time.Second
	defaultMaxBackoff     = 4 * time.Second
)

// ErrAllProvidersFailed is the only gateway error that crosses the component
// boundary: every configured backend was exhausted.
var ErrAllProvidersFailed = errors.New("all providers failed")

// GenerateRequest carries one content-generation call.
type GenerateRequest struct {
	Topic      string
	Mode       string
	Difficulty string
	Provider   string        // preferred backend id; empty or unknown falls back to the first configured
	Timeout    time.Duration // wall-clock bound per backend attempt
}

// GenerateResult is the tagged success outcome: which backend produced the
// text and whether the preferred one had to be substituted.
type GenerateResult struct {
	Output   string // sanitized except in quiz mode
	RawText  string // unprocessed provider response
	Provider string // id of the backend that answered
	Warning  string // non-empty when a fallback backend answered
}

// Sanitizer post-processes non-quiz output for presentation.
type Sanitizer func(string) string

// Gateway issues generation requests against an ordered, extensible list of
// backends with bounded retry and automatic failover.
type Gateway struct {
	backends []Backend
	sanitize Sanitizer
	logger   *zap.Logger

	baseBackoff time.Duration
	maxBackoff  time.Duration
}

// NewGateway builds a gateway over the given backend order. sanitize is
// applied to every non-quiz response.
func NewGateway(backends []Backend, sanitize Sanitizer, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sanitize == nil {
		sanitize = func(s string) string { return s }
	}
	return &Gateway{
		backends:    backends,
		sanitize:    sanitize,
		logger:      logger.Named("ai"),
		baseBackoff: defaultBaseBackoff,
		maxBackoff:  defaultMaxBackoff,
	}
}

// Generate runs the request against the preferred backend first, then falls
// back through the remaining configured backends in order. Each backend gets
// up to three attempts with exponential backoff; timeouts and empty responses
// count as transient failures.
func (g *Gateway) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	mode := NormalizeMode(req.Mode)
	difficulty := NormalizeDifficulty(req.Difficulty)
	prompt := BuildPrompt(req.Topic, mode, difficulty)

	candidates := g.orderedBackends(req.Provider)
	if len(candidates) == 0 {
		g.logger.Error("no configured providers",
			zap.String("mode", mode),
			zap.String("difficulty", difficulty),
		)
		return GenerateResult{}, ErrAllProvidersFailed
	}

	preferred := candidates[0]
	for _, backend := range candidates {
		raw, err := g.callWithRetry(ctx, backend, prompt, req.Timeout, mode, difficulty)
		if err != nil {
			if ctx.Err() != nil {
				// Caller abandoned the request; stop consuming backends.
				return GenerateResult{}, fmt.Errorf("%w: %v", ErrAllProvidersFailed, ctx.Err())
			}
			continue
		}

		result := GenerateResult{
			RawText:  raw,
			Provider: backend.ID(),
		}
		if mode == ModeQuiz {
			// Quiz output stays machine-parsable downstream.
			result.Output = raw
		} else {
			result.Output = g.sanitize(raw)
		}
		if backend.ID() != preferred.ID() {
			result.Warning = fmt.Sprintf("%s unavailable. Switched to %s backup.", preferred.Name(), backend.Name())
			g.logger.Warn("provider fallback",
				zap.String("mode", mode),
				zap.String("from", preferred.ID()),
				zap.String("to", backend.ID()),
			)
		}
		return result, nil
	}

	g.logger.Error("all providers exhausted",
		zap.String("mode", mode),
		zap.String("difficulty", difficulty),
		zap.Int("providers", len(candidates)),
	)
	return GenerateResult{}, ErrAllProvidersFailed
}

// orderedBackends returns the configured backends with the preferred one
// first. An unknown or unset preference keeps the default order.
func (g *Gateway) orderedBackends(preferredID string) []Backend {
	preferredID = strings.ToLower(strings.TrimSpace(preferredID))

	ordered := make([]Backend, 0, len(g.backends))
	for _, b := range g.backends {
		if b.Configured() && b.ID() == preferredID {
			ordered = append(ordered, b)
			break
		}
	}
	for _, b := range g.backends {
		if !b.Configured() {
			continue
		}
		if len(ordered) > 0 && b.ID() == ordered[0].ID() {
			continue
		}
		ordered = append(ordered, b)
	}
	return ordered
}

// callWithRetry runs up to three attempts against one backend. Every attempt
// is bounded by timeout; waits between attempts grow exponentially from the
// base and are capped. All failure classes are retried the same way.
func (g *Gateway) callWithRetry(ctx context.Context, backend Backend, prompt string, timeout time.Duration, mode, difficulty string) (string, error) {
	if timeout <= 0 {
		timeout = 25 * time.Second
	}

	var lastErr error
	backoff := g.baseBackoff
	for attempt := 1; attempt <= maxAttemptsPerBackend; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		text, err := backend.Generate(attemptCtx, prompt)
		cancel()

		if err == nil && strings.TrimSpace(text) == "" {
			err = errEmptyResponse
		}
		if err == nil {
			return text, nil
		}
		lastErr = err

		// Topic text may be sensitive; log request shape only.
		g.logger.Warn("provider attempt failed",
			zap.String("provider", backend.ID()),
			zap.String("mode", mode),
			zap.String("difficulty", difficulty),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt == maxAttemptsPerBackend {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		backoff *= 2
		if backoff > g.maxBackoff {
			backoff = g.maxBackoff
		}
	}
	return "", lastErr
}
