// record.go — 渲染层可见的展示记录 (事件折叠的产物)。
//
// DisplayRecord 是扁平结构, Kind 区分形态, 各形态只用自己相关的
// 字段。记录不携带时间戳和随机 id: 同一事件序列折叠两次必须得到
// 字节一致的结果, 才能支撑回放和持久化对账。
package transcript

import "encoding/json"

// DisplayRecord 形态。
const (
	KindTurnStart  = "turn_start"
	KindAssistant  = "assistant"
	KindToolCall   = "tool_call"
	KindToolResult = "tool_result"
	KindOutputFile = "output_file"
	KindComplete   = "complete"
	KindError      = "error"
	KindSteering   = "steering"
)

// DisplayRecord 一条渲染记录。
type DisplayRecord struct {
	Kind string `json:"kind"`
	Turn int    `json:"turn,omitempty"`

	// turn_start
	MaxTurns int `json:"max_turns,omitempty"`

	// assistant / tool_result / steering / error 的文本内容
	Text string `json:"text,omitempty"`

	// tool_call / tool_result
	Tool    string          `json:"tool,omitempty"`
	Input   json.RawMessage `json:"input,omitempty"`
	IsError bool            `json:"is_error,omitempty"`

	// output_file
	File *OutputFile `json:"file,omitempty"`

	// complete
	Success    bool   `json:"success,omitempty"`
	Answer     string `json:"answer,omitempty"`
	TotalTurns int    `json:"total_turns,omitempty"`

	// error
	Code string `json:"code,omitempty"`
}

// OutputFile run 过程中产出的文件工件。
type OutputFile struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}
