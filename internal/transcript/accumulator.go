// accumulator.go — 事件折叠器: 把一个 run 的有序事件流折叠成渲染记录。
//
// 折叠规则:
//   - text_delta 追加进同 turn 且仍是末尾的 assistant 记录, 否则开新记录;
//   - assistant 整块事件对同 turn 末尾的 assistant 记录做整体替换
//     (增量之后跟最终整块, 替换才不会翻倍), 否则同样开新记录;
//   - tool_call / tool_result / output_file / steering 各自追加独立记录;
//   - 第一条 complete 生效, 重复 complete 丢弃;
//   - error 记录错误状态但不终结折叠, 流关闭才算结束;
//   - run_started / trace_saved 只捕获 trace id, 不产生记录;
//   - 坏 payload 丢弃并记日志, 折叠继续。
//
// Accumulator 本身不加锁, 由持有方 (Session) 保证单写入者。
package transcript

import (
	"encoding/json"

	"github.com/multi-agent/agent-console/internal/agent"
	"github.com/multi-agent/agent-console/pkg/logger"
)

// Accumulator 单个 run 的折叠状态。零值不可用, 用 NewAccumulator 创建。
type Accumulator struct {
	records []DisplayRecord

	// 打开中的 assistant 记录下标, -1 表示没有。
	// 合并额外要求该记录仍在末尾且 turn 相同, 中间插入的
	// tool 记录会自然切断合并。
	assistantIndex int
	assistantTurn  int

	// 原地改写 (delta 合并 / 整块替换) 的累计次数。这类改写不
	// 增长 records, 推送侧靠它识别打开记录又变了。
	merges int

	traceID     string
	completed   bool
	success     bool
	answer      string
	totalTurns  int
	errText     string
	outputFiles []OutputFile
}

// NewAccumulator 创建空折叠器。
func NewAccumulator() *Accumulator {
	return &Accumulator{assistantIndex: -1}
}

// Apply 折叠一个事件。坏事件丢弃, 折叠永不中断。
func (a *Accumulator) Apply(ev *agent.Event) {
	if ev == nil {
		return
	}
	switch ev.Type {
	case agent.EventRunStarted:
		var data agent.RunStartedData
		if !a.decode(ev, &data) {
			return
		}
		if data.TraceID != "" {
			a.traceID = data.TraceID
		}

	case agent.EventTraceSaved:
		var data agent.TraceSavedData
		if !a.decode(ev, &data) {
			return
		}
		if data.TraceID != "" {
			a.traceID = data.TraceID
		}

	case agent.EventTurnStart:
		var data agent.TurnStartData
		if !a.decode(ev, &data) {
			return
		}
		a.assistantIndex = -1
		a.records = append(a.records, DisplayRecord{
			Kind:     KindTurnStart,
			Turn:     data.Turn,
			MaxTurns: data.MaxTurns,
		})

	case agent.EventTextDelta:
		var data agent.TextDeltaData
		if !a.decode(ev, &data) {
			return
		}
		a.appendAssistantText(ev.Turn, data.Delta, false)

	case agent.EventAssistant:
		var data agent.AssistantData
		if !a.decode(ev, &data) {
			return
		}
		a.appendAssistantText(ev.Turn, data.Content, true)

	case agent.EventToolCall:
		var data agent.ToolCallData
		if !a.decode(ev, &data) {
			return
		}
		a.records = append(a.records, DisplayRecord{
			Kind:  KindToolCall,
			Turn:  ev.Turn,
			Tool:  data.Tool,
			Input: data.Input,
		})

	case agent.EventToolResult:
		var data agent.ToolResultData
		if !a.decode(ev, &data) {
			return
		}
		a.records = append(a.records, DisplayRecord{
			Kind:    KindToolResult,
			Turn:    ev.Turn,
			Tool:    data.Tool,
			Text:    data.Content,
			IsError: data.IsError,
		})

	case agent.EventOutputFile:
		var data agent.OutputFileData
		if !a.decode(ev, &data) {
			return
		}
		file := OutputFile{
			FileID:      data.FileID,
			Filename:    data.Filename,
			Size:        data.Size,
			ContentType: data.ContentType,
			URL:         data.URL,
			Description: data.Description,
		}
		a.outputFiles = append(a.outputFiles, file)
		local := file
		a.records = append(a.records, DisplayRecord{
			Kind: KindOutputFile,
			Turn: ev.Turn,
			File: &local,
		})

	case agent.EventComplete:
		if a.completed {
			logger.Debug("accumulator: duplicate complete ignored",
				logger.FieldTraceID, a.traceID)
			return
		}
		var data agent.CompleteData
		if !a.decode(ev, &data) {
			return
		}
		a.completed = true
		a.success = data.Success
		a.answer = data.Answer
		a.totalTurns = data.TotalTurns
		a.assistantIndex = -1
		a.records = append(a.records, DisplayRecord{
			Kind:       KindComplete,
			Turn:       ev.Turn,
			Success:    data.Success,
			Answer:     data.Answer,
			TotalTurns: data.TotalTurns,
		})

	case agent.EventError:
		var data agent.ErrorData
		if !a.decode(ev, &data) {
			return
		}
		a.errText = data.Message
		a.records = append(a.records, DisplayRecord{
			Kind: KindError,
			Turn: ev.Turn,
			Text: data.Message,
			Code: data.Code,
		})

	case agent.EventSteeringReceived:
		var data agent.SteeringReceivedData
		if !a.decode(ev, &data) {
			return
		}
		a.records = append(a.records, DisplayRecord{
			Kind: KindSteering,
			Turn: ev.Turn,
			Text: data.Text,
		})

	default:
		logger.Debug("accumulator: skip unknown event",
			logger.FieldEventType, ev.Type)
	}
}

// appendAssistantText assistant 文本合并。replace 为 true 时
// (整块事件) 替换打开记录的全文而非追加。
func (a *Accumulator) appendAssistantText(turn int, text string, replace bool) {
	if text == "" {
		return
	}
	last := len(a.records) - 1
	if a.assistantIndex >= 0 &&
		a.assistantIndex == last &&
		a.assistantTurn == turn &&
		a.records[last].Kind == KindAssistant {
		if replace {
			a.records[last].Text = text
		} else {
			a.records[last].Text += text
		}
		a.merges++
		return
	}
	a.records = append(a.records, DisplayRecord{
		Kind: KindAssistant,
		Turn: turn,
		Text: text,
	})
	a.assistantIndex = len(a.records) - 1
	a.assistantTurn = turn
}

// decode 解析事件 payload。失败时记日志并返回 false, 事件被丢弃。
func (a *Accumulator) decode(ev *agent.Event, out any) bool {
	if len(ev.Data) == 0 {
		// 空 payload 对所有形态都按零值处理
		return true
	}
	if err := json.Unmarshal(ev.Data, out); err != nil {
		logger.Warn("accumulator: drop malformed event payload",
			logger.FieldEventType, ev.Type,
			logger.FieldTurn, ev.Turn,
			logger.FieldError, err.Error())
		return false
	}
	return true
}

// ========================================
// 读取侧
// ========================================

// Records 当前记录序列。返回内部切片, 调用方只读。
func (a *Accumulator) Records() []DisplayRecord { return a.records }

// Merges 累计的原地改写次数。计数变了而记录数没变, 说明末尾的
// assistant 记录被合并更新过。
func (a *Accumulator) Merges() int { return a.merges }

// TraceID 已捕获的 trace id, 未捕获时为空串。
func (a *Accumulator) TraceID() string { return a.traceID }

// Completed 是否收到过 complete。
func (a *Accumulator) Completed() bool { return a.completed }

// Success complete 携带的成功标记, 未完成时恒为 false。
func (a *Accumulator) Success() bool { return a.success }

// Answer complete 携带的最终回答。
func (a *Accumulator) Answer() string { return a.answer }

// TotalTurns complete 携带的总轮数。
func (a *Accumulator) TotalTurns() int { return a.totalTurns }

// ErrText 最近一条 error 事件的消息, 没有时为空串。
func (a *Accumulator) ErrText() string { return a.errText }

// OutputFiles 按到达顺序的产出文件列表, 重复 file_id 不去重。
func (a *Accumulator) OutputFiles() []OutputFile { return a.outputFiles }
