// Package inference calls the hosted text-generation endpoint and turns every
// failure into an absent result.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/despacho-chat/internal/domain"
	"github.com/ashureev/despacho-chat/internal/prompt"
	"github.com/ashureev/despacho-chat/internal/validator"
)

// DefaultURL is the hosted model used when none is configured.
const DefaultURL = "https://api-inference.huggingface.co/models/HuggingFaceH4/zephyr-7b-beta"

// maxResponseBodySize caps how much of a response body is read (1MB).
const maxResponseBodySize = 1 << 20

var (
	errStatus    = errors.New("unexpected status")
	errMalformed = errors.New("malformed payload")
	errRemote    = errors.New("remote error")
)

// Parameters are the generation settings sent with every request.
type Parameters struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	Temperature       float64 `json:"temperature"`
	DoSample          bool    `json:"do_sample"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

// DefaultParameters returns the fixed generation settings.
func DefaultParameters() Parameters {
	return Parameters{
		MaxNewTokens:      150,
		Temperature:       0.5,
		DoSample:          true,
		TopP:              0.9,
		RepetitionPenalty: 1.1,
	}
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

type generation struct {
	GeneratedText *string `json:"generated_text"`
}

type errorPayload struct {
	Error any `json:"error"`
}

// Config holds configuration for the inference client.
type Config struct {
	URL        string
	Token      string
	Timeout    time.Duration
	Parameters Parameters
}

// DefaultConfig returns default configuration without a credential.
func DefaultConfig() Config {
	return Config{
		URL:        DefaultURL,
		Timeout:    30 * time.Second,
		Parameters: DefaultParameters(),
	}
}

// Result is either a validated reply (OK) or absent with the reason it was dropped.
type Result struct {
	Text   string
	OK     bool
	Reason string
}

func absent(reason string) Result {
	return Result{Reason: reason}
}

// Client sends prompts to the inference endpoint.
type Client struct {
	cfg       Config
	http      *http.Client
	validator *validator.Validator
	logger    *slog.Logger
}

// NewClient creates a client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, v *validator.Validator, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = validator.New(nil, nil)
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Parameters == (Parameters{}) {
		cfg.Parameters = DefaultParameters()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:       cfg,
		http:      httpClient,
		validator: v,
		logger:    logger,
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c.cfg.Token != ""
}

// TryRemote asks the model to answer message given history.
// It never returns an error: any failure or rejected output is an absent Result.
func (c *Client) TryRemote(ctx context.Context, message string, history []domain.Turn) Result {
	if !c.Enabled() {
		c.logger.Debug("Inference skipped, no API token configured")
		return absent("no_credential")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	generated, err := c.generate(ctx, prompt.Build(history, message))
	if err != nil {
		c.logger.Warn("Inference request failed", "error", err, "url", c.cfg.URL)
		return absent(failureReason(err))
	}

	text := ExtractReply(generated)
	if verdict := c.validator.Check(text, message); !verdict.OK() {
		c.logger.Info("Inference reply rejected", "reason", verdict.Reason, "phrase", verdict.Phrase, "reply_length", len(text))
		return absent("rejected:" + string(verdict.Reason))
	}

	c.logger.Info("Inference reply accepted", "reply_length", len(text))
	return Result{Text: text, OK: true}
}

// ExtractReply returns the text after the last assistant cue, or the whole text, trimmed.
func ExtractReply(generated string) string {
	if i := strings.LastIndex(generated, prompt.AssistantCue); i >= 0 {
		return strings.TrimSpace(generated[i+len(prompt.AssistantCue):])
	}
	return strings.TrimSpace(generated)
}

func (c *Client) generate(ctx context.Context, inputs string) (string, error) {
	body, err := json.Marshal(request{Inputs: inputs, Parameters: c.cfg.Parameters})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("Failed to close inference response body", "error", closeErr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w %d: %s", errStatus, resp.StatusCode, truncate(string(data), 200))
	}

	return parseGeneration(data)
}

// parseGeneration expects a JSON array whose first element has generated_text,
// or an object carrying an error.
func parseGeneration(data []byte) (string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: empty body", errMalformed)
	}

	switch trimmed[0] {
	case '[':
		var gens []generation
		if err := json.Unmarshal(trimmed, &gens); err != nil {
			return "", fmt.Errorf("%w: %w", errMalformed, err)
		}
		if len(gens) == 0 || gens[0].GeneratedText == nil {
			return "", fmt.Errorf("%w: missing generated_text", errMalformed)
		}
		return *gens[0].GeneratedText, nil
	case '{':
		var e errorPayload
		if err := json.Unmarshal(trimmed, &e); err == nil && e.Error != nil {
			return "", fmt.Errorf("%w: %v", errRemote, e.Error)
		}
		return "", fmt.Errorf("%w: unexpected object", errMalformed)
	default:
		return "", fmt.Errorf("%w: unexpected payload", errMalformed)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, errStatus):
		return "status"
	case errors.Is(err, errRemote):
		return "remote_error"
	case errors.Is(err, errMalformed):
		return "malformed"
	default:
		return "transport"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
