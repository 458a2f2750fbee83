package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ProviderGroq, cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, 10, cfg.MaxLabels)
	assert.Equal(t, 10, cfg.MaxToolCalls)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeFile(t, "eventpost.yaml", `
llm:
  provider: anthropic
  model: claude-3-5-haiku-latest
aws:
  region: eu-central-1
max_tool_calls: 6
call_timeout: 12s
log:
  level: debug
  format: json
`)

	t.Setenv(EnvAnthropicAPIKey, "sk-ant-test")
	t.Setenv(EnvAWSRegion, "eu-west-1")
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvModel, "")

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.LLM.Model)
	assert.Equal(t, "sk-ant-test", cfg.LLM.APIKey)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, 6, cfg.MaxToolCalls)
	assert.Equal(t, 10, cfg.MaxLabels)
	assert.Equal(t, 12*time.Second, cfg.CallTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ModelDefaultFollowsProvider(t *testing.T) {
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvModel, "")

	for _, tc := range []struct {
		provider string
		keyEnv   string
		want     string
	}{
		{ProviderGroq, EnvGroqAPIKey, DefaultGroqModel},
		{ProviderOpenAI, EnvOpenAIAPIKey, ""},
		{ProviderAnthropic, EnvAnthropicAPIKey, ""},
		{ProviderGemini, EnvGeminiAPIKey, ""},
	} {
		t.Run(tc.provider, func(t *testing.T) {
			t.Setenv(tc.keyEnv, "sk-x")
			path := writeFile(t, "eventpost.yaml", "llm:\n  provider: "+tc.provider+"\n")

			cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.LLM.Model)
		})
	}
}

func TestLoad_MaxLabelsNotConfigurable(t *testing.T) {
	t.Setenv(EnvProvider, "")
	t.Setenv(EnvGroqAPIKey, "gsk")
	path := writeFile(t, "eventpost.yaml", "max_labels: 3\n")

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxLabels)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "EVENTPOST_MODEL=llama-3.1-8b-instant\n")

	t.Setenv(EnvModel, "")
	require.NoError(t, os.Unsetenv(EnvModel))
	t.Setenv(EnvProvider, "")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Model)
}

func TestLoad_CredentialsCSV(t *testing.T) {
	csvPath := writeFile(t, "keys.csv", "Access key ID,Secret access key\nAKIATEST,s3cr3t\n")
	cfgPath := writeFile(t, "eventpost.yaml", "aws:\n  credentials_csv: "+csvPath+"\n")

	t.Setenv(EnvAWSAccessKeyID, "")
	t.Setenv(EnvAWSSecretKey, "")
	t.Setenv(EnvProvider, "")

	cfg, err := Load(cfgPath, filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.Equal(t, "AKIATEST", cfg.AWS.AccessKeyID)
	assert.Equal(t, "s3cr3t", cfg.AWS.SecretAccessKey)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvProvider, "")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "llm: [unclosed")
	_, err = Load(bad, filepath.Join(t.TempDir(), "none.env"))
	assert.Error(t, err)

	unknown := writeFile(t, "unknown.yaml", "llm:\n  provider: watson\n")
	_, err = Load(unknown, filepath.Join(t.TempDir(), "none.env"))
	assert.ErrorContains(t, err, "unknown provider")
}

func TestApplyEnv_ProviderSpecificKey(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(mapLookup(map[string]string{
		EnvOpenAIAPIKey: "sk-openai",
		EnvGroqAPIKey:   " gsk-groq ",
	}))
	assert.Equal(t, "gsk-groq", cfg.LLM.APIKey)

	cfg = Default()
	cfg.ApplyEnv(mapLookup(map[string]string{
		EnvProvider:     "OpenAI",
		EnvOpenAIAPIKey: "sk-openai",
		EnvGroqAPIKey:   "gsk-groq",
	}))
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-openai", cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MaxToolCalls = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.CallTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.AWS.Region = ""
	assert.Error(t, cfg.Validate())
}
