// Package casenote drafts AI strategy notes for participants via the
// Gemini API.
package casenote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/xyston/caseload/internal/logger"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel   = "gemini-2.0-flash"
	defaultTimeout = 30 * time.Second

	// NoContent is stored when the model returns no text.
	NoContent = "No content generated."
)

var (
	// ErrMissingAPIKey is returned before any request when no key is configured.
	ErrMissingAPIKey = errors.New("casenote: Gemini API Key is missing")
	// ErrUnauthorized indicates the key was rejected.
	ErrUnauthorized = errors.New("casenote: unauthorized (API key invalid or lacks access)")
	// ErrRateLimited indicates the API quota was hit.
	ErrRateLimited = errors.New("casenote: rate limited")
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config configures the Gemini client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // override for tests and proxies
	Timeout time.Duration
}

// Client calls the Gemini generateContent endpoint through the GenAI SDK.
type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
	log     *logger.Logger
}

// NewClient creates a client. An empty key yields ErrMissingAPIKey.
func NewClient(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	if log == nil {
		log = logger.Nop()
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      key,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("casenote: creating client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		genai:   gc,
		model:   model,
		timeout: timeout,
		log:     log.With("component", "casenote", "model", model),
	}, nil
}

// Generate sends a single-turn prompt and returns the text of the first
// candidate. An empty answer yields NoContent.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		c.log.Warn("generate failed", "err", err, "elapsed", time.Since(start))
		return "", classify(err)
	}
	c.log.Debug("generate ok", "elapsed", time.Since(start), "candidates", len(resp.Candidates))

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return NoContent, nil
	}
	return text, nil
}

// classify maps API status codes onto the package's sentinel errors.
func classify(err error) error {
	code, msg, ok := apiStatus(err)
	if !ok {
		return fmt.Errorf("casenote: %w", err)
	}
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return fmt.Errorf("casenote: API error %d: %s", code, msg)
}

// apiStatus unwraps a genai.APIError, returned by value or by pointer
// depending on the call path.
func apiStatus(err error) (int, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, true
	}
	var apiPtr *genai.APIError
	if errors.As(err, &apiPtr) && apiPtr != nil {
		return apiPtr.Code, apiPtr.Message, true
	}
	return 0, "", false
}
