package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := NewClient(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(&Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, GetRemediationModel(), client.model)
	assert.Equal(t, GetTestModel(), client.testModel)
	assert.Equal(t, int64(8192), client.maxTokens)
}

func TestModelEnvOverrides(t *testing.T) {
	t.Setenv("DD_HEALTH_MODEL_REMEDIATION", "claude-test-remediation")
	t.Setenv("DD_HEALTH_MODEL_TESTS", "claude-test-tests")

	assert.Equal(t, "claude-test-remediation", GetRemediationModel())
	assert.Equal(t, "claude-test-tests", GetTestModel())
}

func TestBuildRemediationPrompt(t *testing.T) {
	prompt := buildRemediationPrompt(RemediationRequest{
		File:                 "src/components/Dashboard.tsx",
		CurrentLines:         445,
		Complexity:           35,
		MaintainabilityIndex: 0,
		Actions:              []string{"Extract subcomponents", "Move state into a hook"},
	})

	assert.Contains(t, prompt, "src/components/Dashboard.tsx")
	assert.Contains(t, prompt, "Lines: 445")
	assert.Contains(t, prompt, "1. Extract subcomponents")
	assert.Contains(t, prompt, "2. Move state into a hook")
	assert.Contains(t, prompt, "Observable behavior must not change")
	assert.Contains(t, prompt, "unused")
}

func TestBuildTestUpdatePrompt(t *testing.T) {
	regen := buildTestUpdatePrompt(TestUpdateRequest{
		File: "src/utils/parser.ts",
		Kind: TestUpdateRegenerate,
	})
	assert.Contains(t, regen, "Regenerate the tests for src/utils/parser.ts")
	assert.Contains(t, regen, "Do not modify the file under test")

	coverage := buildTestUpdatePrompt(TestUpdateRequest{
		File:    "src/utils/parser.ts",
		Kind:    TestUpdateIncreaseCoverage,
		Current: 65,
		Target:  95,
	})
	assert.Contains(t, coverage, "Measured coverage: 65.0%")
	assert.Contains(t, coverage, "Target coverage: 95.0%")
}
