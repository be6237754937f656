package transcript

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/multi-agent/agent-console/internal/agent"
)

func TestAdapterEquivalence(t *testing.T) {
	// 同步结果与逻辑等价的事件流必须折叠出相同记录
	result := &agent.AtomicResult{
		Success:    true,
		Answer:     "final text",
		TotalTurns: 2,
		Steps: []agent.AtomicStep{
			{ToolName: "search", Content: "r1"},
			{Content: "final text"},
		},
	}
	got := FoldAtomicResult(result).Records()

	want := foldAll(t, []*agent.Event{
		ev(t, agent.EventToolCall, 1, agent.ToolCallData{Tool: "search"}),
		ev(t, agent.EventToolResult, 1, agent.ToolResultData{Tool: "search", Content: "r1"}),
		ev(t, agent.EventAssistant, 2, agent.AssistantData{Content: "final text"}),
		ev(t, agent.EventComplete, 2, agent.CompleteData{Success: true, Answer: "final text", TotalTurns: 2}),
	}).Records()

	if !reflect.DeepEqual(got, want) {
		t.Errorf("adapter output diverges from stream fold:\ngot  = %+v\nwant = %+v", got, want)
	}
}

func TestAdapterToolWithoutResult(t *testing.T) {
	result := &agent.AtomicResult{
		Success: true,
		Answer:  "ok",
		Steps: []agent.AtomicStep{
			{ToolName: "bash", Input: json.RawMessage(`{"command":"true"}`)},
		},
	}
	records := FoldAtomicResult(result).Records()
	// 无结果内容时只有 tool_call, 不合成空 tool_result
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2: %+v", len(records), records)
	}
	if records[0].Kind != KindToolCall || records[1].Kind != KindComplete {
		t.Errorf("unexpected shapes: %+v", records)
	}
}

func TestAdapterError(t *testing.T) {
	result := &agent.AtomicResult{
		Success: false,
		Error:   "budget exceeded",
		Steps: []agent.AtomicStep{
			{Content: "partial reasoning"},
		},
	}
	acc := FoldAtomicResult(result)
	records := acc.Records()
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3: %+v", len(records), records)
	}
	last := records[len(records)-1]
	if last.Kind != KindError || last.Text != "budget exceeded" {
		t.Errorf("error record = %+v", last)
	}
	if acc.Success() {
		t.Error("success must be false")
	}
}

func TestAdapterTraceCapture(t *testing.T) {
	result := &agent.AtomicResult{TraceID: "tr_sync", Success: true, Answer: "x"}
	acc := FoldAtomicResult(result)
	if acc.TraceID() != "tr_sync" {
		t.Errorf("TraceID = %q", acc.TraceID())
	}
}

func TestAdapterConsecutiveTextSteps(t *testing.T) {
	// 相邻纯文本步骤各占一个 turn, 折叠成两条独立 assistant 记录
	result := &agent.AtomicResult{
		Success: true,
		Steps: []agent.AtomicStep{
			{Content: "step one"},
			{Content: "step two"},
		},
	}
	records := FoldAtomicResult(result).Records()
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3: %+v", len(records), records)
	}
	if records[0].Text != "step one" || records[1].Text != "step two" {
		t.Errorf("steps must not merge: %+v", records)
	}
}

func TestAdapterNilResult(t *testing.T) {
	if got := FoldAtomicResult(nil).Records(); len(got) != 0 {
		t.Errorf("nil result must fold to nothing: %+v", got)
	}
}
