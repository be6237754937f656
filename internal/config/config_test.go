// config_test.go — 配置加载默认值 + 环境变量覆盖测试。
package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// 确保关键环境变量未设置
	os.Unsetenv("AGENT_BASE_URL")
	os.Unsetenv("CONSOLE_LISTEN_ADDR")
	os.Unsetenv("POSTGRES_SCHEMA")

	cfg := Load()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"AgentBaseURL", cfg.AgentBaseURL, "http://127.0.0.1:8700"},
		{"AgentRequestTimeout", cfg.AgentRequestTimeout, 30},
		{"AgentSyncTimeout", cfg.AgentSyncTimeout, 600},
		{"AgentMaxLineBytes", cfg.AgentMaxLineBytes, 1048576},
		{"ConsoleListenAddr", cfg.ConsoleListenAddr, ":8600"},
		{"ConsoleDevMode", cfg.ConsoleDevMode, false},
		{"PostgresSchema", cfg.PostgresSchema, "public"},
		{"PostgresPoolMinSize", cfg.PostgresPoolMinSize, 1},
		{"PostgresPoolMaxSize", cfg.PostgresPoolMaxSize, 10},
		{"UploadMaxBytes", cfg.UploadMaxBytes, 16777216},
		{"WSSendBuffer", cfg.WSSendBuffer, 64},
		{"LogLevel", cfg.LogLevel, "INFO"},
		{"AppEnv", cfg.AppEnv, "production"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AGENT_BASE_URL", "http://agent.internal:9000")
	t.Setenv("AGENT_REQUEST_TIMEOUT_SEC", "5")
	t.Setenv("POSTGRES_SCHEMA", "test_schema")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CONSOLE_DEV_MODE", "true")

	cfg := Load()

	if cfg.AgentBaseURL != "http://agent.internal:9000" {
		t.Errorf("AgentBaseURL = %q", cfg.AgentBaseURL)
	}
	if cfg.AgentRequestTimeout != 5 {
		t.Errorf("AgentRequestTimeout = %d, want 5", cfg.AgentRequestTimeout)
	}
	if cfg.PostgresSchema != "test_schema" {
		t.Errorf("PostgresSchema = %q, want 'test_schema'", cfg.PostgresSchema)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %q, want 'DEBUG'", cfg.LogLevel)
	}
	if !cfg.ConsoleDevMode {
		t.Errorf("ConsoleDevMode = false, want true")
	}
}

func TestLoadReturnsNonNil(t *testing.T) {
	cfg := Load()
	if cfg == nil {
		t.Fatal("Load() returned nil")
	}
}
