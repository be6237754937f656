// adapter.go — 非流式结果适配: 把原子 run 结果展开成等价事件流再折叠,
// 保证同步路径和流式路径产出的记录形态一致。
package transcript

import (
	"encoding/json"

	"github.com/multi-agent/agent-console/internal/agent"
)

// FoldAtomicResult 把同步 run 结果折叠成与等价事件流相同的记录。
//
// 每个执行步骤占一个 turn: 带工具名的步骤展开为 tool_call (+有内容时
// 的 tool_result), 纯文本步骤展开为 assistant 整块。末尾恰好一条
// complete, 结果带错误时再跟一条 error。
func FoldAtomicResult(result *agent.AtomicResult) *Accumulator {
	acc := NewAccumulator()
	if result == nil {
		return acc
	}
	for _, ev := range expandResult(result) {
		acc.Apply(ev)
	}
	return acc
}

func expandResult(result *agent.AtomicResult) []*agent.Event {
	events := make([]*agent.Event, 0, len(result.Steps)*2+3)
	if result.TraceID != "" {
		events = append(events, makeEvent(agent.EventRunStarted, 0,
			agent.RunStartedData{TraceID: result.TraceID}))
	}

	for i, step := range result.Steps {
		turn := i + 1
		if step.ToolName != "" {
			events = append(events, makeEvent(agent.EventToolCall, turn,
				agent.ToolCallData{Tool: step.ToolName, Input: step.Input}))
			if step.Content != "" {
				events = append(events, makeEvent(agent.EventToolResult, turn,
					agent.ToolResultData{Tool: step.ToolName, Content: step.Content}))
			}
			continue
		}
		if step.Content != "" {
			events = append(events, makeEvent(agent.EventAssistant, turn,
				agent.AssistantData{Content: step.Content}))
		}
	}

	finalTurn := len(result.Steps)
	events = append(events, makeEvent(agent.EventComplete, finalTurn,
		agent.CompleteData{
			Success:    result.Success,
			Answer:     result.Answer,
			TotalTurns: result.TotalTurns,
		}))
	if result.Error != "" {
		events = append(events, makeEvent(agent.EventError, finalTurn,
			agent.ErrorData{Message: result.Error}))
	}
	return events
}

func makeEvent(eventType string, turn int, payload any) *agent.Event {
	data, err := json.Marshal(payload)
	if err != nil {
		// payload 全部是本包构造的具体结构体, marshal 不会失败
		data = nil
	}
	return &agent.Event{Type: eventType, Turn: turn, Data: data}
}
