// Package config 全局配置加载与管理。
//
// 所有字段通过 struct tag 声明环境变量映射:
//
//	`env:"VAR_NAME" default:"value" min:"0"`
//
// Load() 使用反射自动填充，无需手动逐行赋值。
package config

import (
	"github.com/multi-agent/agent-console/pkg/util"
)

// Config 应用全局配置，字段名与 .env 变量一一对应。
type Config struct {
	// Agent 平台 (远端执行引擎)
	AgentBaseURL        string `env:"AGENT_BASE_URL" default:"http://127.0.0.1:8700"`
	AgentAPIToken       string `env:"AGENT_API_TOKEN"`
	AgentRequestTimeout int    `env:"AGENT_REQUEST_TIMEOUT_SEC" default:"30" min:"1"`
	AgentSyncTimeout    int    `env:"AGENT_SYNC_TIMEOUT_SEC" default:"600" min:"1"`
	AgentMaxLineBytes   int    `env:"AGENT_MAX_LINE_BYTES" default:"1048576" min:"4096"` // 单条 NDJSON 事件上限 1MB

	// Console HTTP 服务
	ConsoleListenAddr string `env:"CONSOLE_LISTEN_ADDR" default:":8600"`
	ConsoleDevMode    bool   `env:"CONSOLE_DEV_MODE" default:"false"`

	// PostgreSQL
	PostgresConnStr        string `env:"POSTGRES_CONNECTION_STRING"`
	PostgresSchema         string `env:"POSTGRES_SCHEMA" default:"public"`
	PostgresPoolMinSize    int    `env:"POSTGRES_POOL_MIN_SIZE" default:"1" min:"1"`
	PostgresPoolMaxSize    int    `env:"POSTGRES_POOL_MAX_SIZE" default:"10" min:"1"`
	PostgresPoolTimeoutSec int    `env:"POSTGRES_POOL_TIMEOUT_SEC" default:"10" min:"1"`

	// 附件上传
	UploadMaxBytes int `env:"UPLOAD_MAX_BYTES" default:"16777216" min:"1024"` // 16MB

	// WebSocket 推送
	WSSendBuffer int `env:"WS_SEND_BUFFER" default:"64" min:"1"`

	// 日志
	LogLevel string `env:"LOG_LEVEL" default:"INFO"`
	LogDir   string `env:"LOG_DIR"`
	AppEnv   string `env:"APP_ENV" default:"production"`
}

// Load 从环境变量加载配置 (通过反射读取 struct tag)。
func Load() *Config {
	var cfg Config
	util.LoadFromEnv(&cfg)
	return &cfg
}
