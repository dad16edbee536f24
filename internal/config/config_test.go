package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultDataDirectory(t *testing.T) {
	tests := []struct {
		name     string
		xdgHome  string
		expected string
	}{
		{
			name:     "With XDG_DATA_HOME set",
			xdgHome:  "/custom/data",
			expected: "/custom/data/litewrite",
		},
		{
			name:    "Without XDG_DATA_HOME",
			xdgHome: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_DATA_HOME", tt.xdgHome)
			result := GetDefaultDataDirectory()

			if tt.xdgHome == "" {
				homeDir, _ := os.UserHomeDir()
				assert.Equal(t, filepath.Join(homeDir, ".local", "share", "litewrite"), result)
				return
			}
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfigSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	dataDir := filepath.Join(tempDir, "test-data")
	testConfig := &Config{
		DataDirectory:         dataDir,
		DatabasePath:          filepath.Join(dataDir, "litewrite.db"),
		StorageBackend:        BackendBadger,
		GeminiAPIKey:          "secret",
		GeminiModel:           "gemini-test",
		RequestTimeoutSeconds: 15,
		IDStrategy:            IDStrategyUUID,
		Debug:                 true,
		ServerHost:            "0.0.0.0",
		ServerPort:            9999,
	}

	require.NoError(t, Save(testConfig))

	configFile := filepath.Join(tempDir, "litewrite", "config.json")
	info, err := os.Stat(configFile)
	require.NoError(t, err, "config file was not created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testConfig, loaded)
}

func TestInitializeConfig(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	dataDir := filepath.Join(tempDir, "data")
	cfg, err := InitializeConfig(dataDir, "key-123")
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDirectory)
	assert.Equal(t, filepath.Join(dataDir, "litewrite.db"), cfg.DatabasePath)
	assert.Equal(t, "key-123", cfg.GeminiAPIKey)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)

	_, err = os.Stat(filepath.Join(tempDir, "litewrite", "config.json"))
	require.NoError(t, err, "config file was not created during initialization")
}

func TestGetDatabasePath(t *testing.T) {
	tests := []struct {
		name         string
		config       Config
		expectedPath string
	}{
		{
			name: "With DatabasePath set",
			config: Config{
				DatabasePath:  "/custom/path/notes.db",
				DataDirectory: "/data",
			},
			expectedPath: "/custom/path/notes.db",
		},
		{
			name: "Without DatabasePath set",
			config: Config{
				DataDirectory: "/data",
			},
			expectedPath: "/data/litewrite.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedPath, tt.config.GetDatabasePath())
		})
	}
}

func TestGetGeminiURL(t *testing.T) {
	cfg := Config{GeminiModel: "gemini-1.5-flash"}
	assert.Equal(t,
		"https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent",
		cfg.GetGeminiURL())

	cfg.GeminiAPIURL = "https://gateway.example.com/gemini"
	assert.Equal(t, "https://gateway.example.com/gemini", cfg.GetGeminiURL())
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, 60*time.Second, (&Config{}).RequestTimeout())
	assert.Equal(t, 5*time.Second, (&Config{RequestTimeoutSeconds: 5}).RequestTimeout())
}

func TestLoadWithDefaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(tempDir, "share"))

	// Create a partial config file
	configDir := filepath.Join(tempDir, "litewrite")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	partialConfig := map[string]interface{}{
		"gemini_model": "custom-model",
	}
	data, err := json.MarshalIndent(partialConfig, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.json"), data, 0600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "custom-model", cfg.GeminiModel)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, IDStrategyTimestamp, cfg.IDStrategy)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, filepath.Join(tempDir, "share", "litewrite"), cfg.DataDirectory)
	assert.Equal(t, filepath.Join(tempDir, "share", "litewrite", "litewrite.db"), cfg.DatabasePath)
}

func TestLoadWithoutFileUsesEnvironment(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("LITEWRITE_GEMINI_API_KEY", "from-env")
	t.Setenv("LITEWRITE_STORAGE_BACKEND", BackendNone)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.GeminiAPIKey)
	assert.Equal(t, BackendNone, cfg.StorageBackend)
	assert.True(t, cfg.HasAI())
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidBackend(BackendSQLite))
	assert.True(t, IsValidBackend(BackendBadger))
	assert.True(t, IsValidBackend(BackendNone))
	assert.False(t, IsValidBackend("indexeddb"))

	assert.True(t, IsValidIDStrategy(IDStrategyTimestamp))
	assert.True(t, IsValidIDStrategy(IDStrategyUUID))
	assert.False(t, IsValidIDStrategy("random"))
}
