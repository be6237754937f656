// Package agent 封装远端 Agent 执行平台的 HTTP API 客户端。
//
// 支持: 流式 run (chunked NDJSON)、同步 run、steering 注入、
// 会话历史拉取、附件上传。
package agent

import "encoding/json"

// Event Agent 平台 wire 事件信封。
//
// 每条事件携带 turn 号 (同一 run 内单调不减), 具体载荷按 Type 解析 Data。
type Event struct {
	Type string          `json:"event_type"`
	Turn int             `json:"turn"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ========================================
// 事件类型常量
// ========================================

const (
	// 生命周期
	EventRunStarted = "run_started"
	EventTurnStart  = "turn_start"
	EventComplete   = "complete"
	EventError      = "error"
	EventTraceSaved = "trace_saved"

	// Agent 输出
	EventTextDelta  = "text_delta"
	EventAssistant  = "assistant"
	EventToolCall   = "tool_call"
	EventToolResult = "tool_result"
	EventOutputFile = "output_file"

	// Steering
	EventSteeringReceived = "steering_received"
)

// ========================================
// 事件数据类型
// ========================================

// RunStartedData run 建立, 下发临时 trace id (steering/cancel 的目标)。
type RunStartedData struct {
	TraceID string `json:"trace_id"`
}

// TurnStartData 新 turn 开始。
type TurnStartData struct {
	Turn     int `json:"turn"`
	MaxTurns int `json:"max_turns,omitempty"`
}

// TextDeltaData 助手文本增量片段。
type TextDeltaData struct {
	Delta string `json:"delta"`
}

// AssistantData 助手整块文本 (非增量)。
type AssistantData struct {
	Content string `json:"content"`
}

// ToolCallData 工具调用。
type ToolCallData struct {
	Tool  string          `json:"tool"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResultData 工具结果。与 tool_call 仅按出现顺序配对, 无强引用。
type ToolResultData struct {
	Tool    string `json:"tool,omitempty"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// OutputFileData run 中途产出的文件制品。
type OutputFileData struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// CompleteData run 终态。同一 run 的第二条 complete 必须被忽略 (first wins)。
type CompleteData struct {
	Success    bool   `json:"success"`
	Answer     string `json:"answer"`
	TotalTurns int    `json:"total_turns"`
}

// ErrorData 错误。非终态 — run 结束以流关闭或 complete/abort 为准。
type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// TraceSavedData 持久化后的正式 trace id (可能不同于 run_started 下发的临时 id)。
type TraceSavedData struct {
	TraceID string `json:"trace_id"`
}

// SteeringReceivedData 平台确认收到 steering 注入。
type SteeringReceivedData struct {
	Text string `json:"text"`
}

// ========================================
// 请求/响应
// ========================================

// RunRequest 发起一次 run。
type RunRequest struct {
	SessionID   string   `json:"session_id,omitempty"`
	Prompt      string   `json:"prompt"`
	Attachments []string `json:"attachments,omitempty"`
	Preset      string   `json:"preset,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	MaxTurns    int      `json:"max_turns,omitempty"`
	Stream      bool     `json:"stream"`
}

// AtomicStep 同步 run 的单个执行步骤。
// ToolName 非空 → 工具调用 (Content 为其结果); 否则为助手思考文本块。
type AtomicStep struct {
	ToolName string          `json:"tool_name,omitempty"`
	Input    json.RawMessage `json:"input,omitempty"`
	Content  string          `json:"content,omitempty"`
}

// AtomicResult 同步 (非流式) run 的原子结果。
type AtomicResult struct {
	TraceID    string       `json:"trace_id,omitempty"`
	Success    bool         `json:"success"`
	Answer     string       `json:"answer"`
	TotalTurns int          `json:"total_turns"`
	Steps      []AtomicStep `json:"steps,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// ContentBlock 持久化条目的类型化内容块。
type ContentBlock struct {
	Type    string `json:"type"` // "text" | "tool_result"
	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
}

// PersistedEntry 持久化会话的单条消息。
// Content 为 JSON 字符串 (纯文本) 或 ContentBlock 数组。
type PersistedEntry struct {
	Role    string          `json:"role"` // "user" | "assistant"
	Content json.RawMessage `json:"content"`
}

// PersistedConversation GET /v1/sessions/:id 响应。
type PersistedConversation struct {
	SessionID string           `json:"session_id"`
	Entries   []PersistedEntry `json:"entries"`
}

// SteerRequest POST /v1/runs/:trace_id/steer 请求。
type SteerRequest struct {
	Text string `json:"text"`
}

// SteerAck steer 响应。
type SteerAck struct {
	Accepted bool   `json:"accepted"`
	TraceID  string `json:"trace_id"`
}

// UploadedFile 附件上传响应。
type UploadedFile struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	URL         string `json:"url"`
}
