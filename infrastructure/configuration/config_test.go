package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration(t *testing.T) {
	t.Run("defaults_are_applied", func(t *testing.T) {
		require.NotZero(t, C.App.Port)
		require.NotEmpty(t, C.Database.Vendor)
		require.NotEmpty(t, C.LLM.ScriptChain)
		require.NotEmpty(t, C.LLM.PlannerChain)
		require.NotEmpty(t, C.Notify.Queue)
	})

	t.Run("planner_chain_ends_without_json_mode", func(t *testing.T) {
		chain := DefaultPlannerChain()
		require.Len(t, chain, 3)
		assert.True(t, chain[0].JSONMode)
		assert.True(t, chain[1].JSONMode)
		assert.False(t, chain[2].JSONMode)
		assert.Equal(t, "meta-llama/llama-3.1-8b-instruct:free", chain[2].Model)
	})
}

func TestInitApp_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8088")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("SITE_URL", "https://scriptgo.example/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	var c Config
	initApp(&c)

	assert.Equal(t, 8088, c.App.Port)
	assert.Equal(t, "s3cret", c.App.SecretKey)
	assert.Equal(t, "https://scriptgo.example", c.App.SiteURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.App.AllowedOrigins)
}

func TestInitLLM_Defaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("LLM_TIMEOUT_SECONDS", "")

	var c Config
	initLLM(&c)

	assert.Equal(t, 60, c.LLM.TimeoutSeconds)
	assert.InDelta(t, 0.7, c.LLM.Temperature, 0.0001)
	assert.True(t, c.LLM.HasKey("openrouter"))
	assert.False(t, c.LLM.HasKey("unknown"))
	assert.Equal(t, DefaultScriptChain(), c.LLM.ScriptChain)
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("SCRIPTGO_TEST_KEY", "")
	assert.Equal(t, "fallback", getConfigValue("YOUR_KEY", "SCRIPTGO_TEST_KEY", "fallback"))
	assert.Equal(t, "config", getConfigValue("config", "SCRIPTGO_TEST_KEY", "fallback"))

	t.Setenv("SCRIPTGO_TEST_KEY", "env")
	assert.Equal(t, "env", getConfigValue("config", "SCRIPTGO_TEST_KEY", "fallback"))
}

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nSCRIPTGO_FROM_FILE=\"hello\"\nSCRIPTGO_KEEP=file\n"), 0o600))
	t.Setenv("SCRIPTGO_KEEP", "env")
	t.Cleanup(func() { _ = os.Unsetenv("SCRIPTGO_FROM_FILE") })

	loaded := LoadEnvFromFile(filepath.Join(dir, "missing.env"), path)

	assert.Equal(t, []string{path}, loaded)
	assert.Equal(t, "hello", os.Getenv("SCRIPTGO_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("SCRIPTGO_KEEP"))
}
