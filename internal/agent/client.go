package agent

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
)

// Model selection for outbound requests. Remediation rewrites whole files and
// gets the stronger model; test maintenance is cheaper work.
//
// Environment variable overrides:
// - DD_HEALTH_MODEL_REMEDIATION: model for remediation requests
// - DD_HEALTH_MODEL_TESTS: model for test maintenance requests
const (
	// ModelRemediation is the default model for restructuring requests
	ModelRemediation = "claude-sonnet-4-5-20250929"

	// ModelTests is the default model for test maintenance requests
	ModelTests = "claude-3-5-haiku-20241022"
)

// GetRemediationModel returns the remediation model, checking the env override first.
func GetRemediationModel() string {
	if model := os.Getenv("DD_HEALTH_MODEL_REMEDIATION"); model != "" {
		return model
	}
	return ModelRemediation
}

// GetTestModel returns the test maintenance model, checking the env override first.
func GetTestModel() string {
	if model := os.Getenv("DD_HEALTH_MODEL_TESTS"); model != "" {
		return model
	}
	return ModelTests
}

// Client is the Anthropic-backed Sink. A weighted semaphore of one keeps
// requests strictly sequential: the remediation agent is rate-sensitive and
// the executor's pacing assumes one in-flight request at a time.
type Client struct {
	client    *anthropic.Client
	model     string
	testModel string
	sem       *semaphore.Weighted
	maxTokens int64
}

var _ Sink = (*Client)(nil)

// Config holds client configuration.
type Config struct {
	APIKey    string // Anthropic API key (if empty, reads from ANTHROPIC_API_KEY env var)
	Model     string // Model for remediation requests (default: GetRemediationModel())
	TestModel string // Model for test maintenance requests (default: GetTestModel())
	MaxTokens int64  // Response budget per request (default: 8192)
}

// NewClient creates an Anthropic-backed action sink.
func NewClient(cfg *Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = GetRemediationModel()
	}
	testModel := cfg.TestModel
	if testModel == "" {
		testModel = GetTestModel()
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 8192
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Client{
		client:    &client,
		model:     model,
		testModel: testModel,
		sem:       semaphore.NewWeighted(1),
		maxTokens: maxTokens,
	}, nil
}

// RequestRemediation sends a restructuring instruction for one file.
func (c *Client) RequestRemediation(ctx context.Context, req RemediationRequest) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to acquire request slot: %w", err)
	}
	defer c.sem.Release(1)

	prompt := buildRemediationPrompt(req)

	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return fmt.Errorf("remediation request for %s failed: %w", req.File, err)
	}

	fmt.Printf("AgentClient: remediation request dispatched for %s (lines=%d, mi=%.1f)\n",
		req.File, req.CurrentLines, req.MaintainabilityIndex)
	return nil
}

// RequestTestUpdate sends a test regeneration or coverage top-up instruction.
func (c *Client) RequestTestUpdate(ctx context.Context, req TestUpdateRequest) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("failed to acquire request slot: %w", err)
	}
	defer c.sem.Release(1)

	prompt := buildTestUpdatePrompt(req)

	_, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.testModel),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return fmt.Errorf("test update request for %s failed: %w", req.File, err)
	}

	fmt.Printf("AgentClient: %s request dispatched for %s\n", req.Kind, req.File)
	return nil
}

func buildRemediationPrompt(req RemediationRequest) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Refactor the file %s to improve its maintainability.\n\n", req.File))
	b.WriteString("Current metrics:\n")
	b.WriteString(fmt.Sprintf("- Lines: %d\n", req.CurrentLines))
	b.WriteString(fmt.Sprintf("- Complexity: %.1f\n", req.Complexity))
	b.WriteString(fmt.Sprintf("- Maintainability index: %.1f\n\n", req.MaintainabilityIndex))

	if len(req.Actions) > 0 {
		b.WriteString("Suggested restructuring, most impactful first:\n")
		for i, action := range req.Actions {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, action))
		}
		b.WriteString("\n")
	}

	b.WriteString("Requirements:\n")
	b.WriteString("- Observable behavior must not change\n")
	b.WriteString("- Preserve the public interface of the file\n")
	b.WriteString("- Remove any artifacts left unused by the restructuring (dead exports, orphaned helpers, stale imports)\n")

	return b.String()
}

func buildTestUpdatePrompt(req TestUpdateRequest) string {
	var b strings.Builder

	switch req.Kind {
	case TestUpdateIncreaseCoverage:
		b.WriteString(fmt.Sprintf("Add tests for %s to raise its coverage.\n\n", req.File))
		b.WriteString(fmt.Sprintf("Measured coverage: %.1f%%\n", req.Current))
		b.WriteString(fmt.Sprintf("Target coverage: %.1f%%\n\n", req.Target))
		b.WriteString("Focus on untested branches and error paths. Do not modify the file under test.\n")
	default:
		b.WriteString(fmt.Sprintf("Regenerate the tests for %s after its recent refactoring.\n\n", req.File))
		b.WriteString("Requirements:\n")
		b.WriteString("- Cover the file's current public interface\n")
		b.WriteString("- Remove tests for code that no longer exists\n")
		b.WriteString("- Do not modify the file under test\n")
	}

	return b.String()
}
