// Package store 提供所有数据库模型结构体。
//
// Go struct 的 db tag 直接对应 PostgreSQL 列名,
// 配合 pgx.RowToStructByName 免去逐字段扫描。
package store

import "time"

// ========================================
// 会话 — 表 sessions
// ========================================

// SessionRow 会话记录。
type SessionRow struct {
	SessionID string    `db:"session_id" json:"session_id"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MessageRow 消息记录。records / output_files / attachments 为 JSONB,
// 原样透传给前端, store 层不解析其内部结构。
type MessageRow struct {
	MessageID   string    `db:"message_id" json:"message_id"`
	SessionID   string    `db:"session_id" json:"session_id"`
	Role        string    `db:"role" json:"role"`
	Content     string    `db:"content" json:"content"`
	TraceID     string    `db:"trace_id" json:"trace_id"`
	Error       string    `db:"error" json:"error"`
	Records     []byte    `db:"records" json:"records"`
	OutputFiles []byte    `db:"output_files" json:"output_files"`
	Attachments []byte    `db:"attachments" json:"attachments"`
	Seq         int64     `db:"seq" json:"seq"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ========================================
// 技能 — 表 skills
// ========================================

// Skill Agent 可挂载的技能。
type Skill struct {
	SkillKey    string    `db:"skill_key" json:"skill_key"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Path        string    `db:"path" json:"path"`
	Enabled     bool      `db:"enabled" json:"enabled"`
	UpdatedBy   string    `db:"updated_by" json:"updated_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ========================================
// MCP 服务器 — 表 mcp_servers
// ========================================

// MCPServer MCP 服务器配置。
type MCPServer struct {
	ServerKey string         `db:"server_key" json:"server_key"`
	Name      string         `db:"name" json:"name"`
	Command   string         `db:"command" json:"command"`
	Args      []string       `db:"args" json:"args"`
	Env       map[string]any `db:"env" json:"env"`
	Enabled   bool           `db:"enabled" json:"enabled"`
	UpdatedBy string         `db:"updated_by" json:"updated_by"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ========================================
// Agent 预设 — 表 agent_presets
// ========================================

// AgentPreset 一组可复用的 run 参数: 模型、系统提示、技能与 MCP 挂载。
type AgentPreset struct {
	PresetKey     string    `db:"preset_key" json:"preset_key"`
	Name          string    `db:"name" json:"name"`
	Model         string    `db:"model" json:"model"`
	SystemPrompt  string    `db:"system_prompt" json:"system_prompt"`
	MaxTurns      int       `db:"max_turns" json:"max_turns"`
	SkillKeys     []string  `db:"skill_keys" json:"skill_keys"`
	MCPServerKeys []string  `db:"mcp_server_keys" json:"mcp_server_keys"`
	Enabled       bool      `db:"enabled" json:"enabled"`
	UpdatedBy     string    `db:"updated_by" json:"updated_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
