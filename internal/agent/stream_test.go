package agent

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// collectStream 读尽事件流, 返回全部事件类型序列。
func collectStream(t *testing.T, s *Stream) []string {
	t.Helper()
	var types []string
	for {
		ev, err := s.Next()
		if err == io.EOF {
			return types
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		types = append(types, ev.Type)
	}
}

func ndjsonServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode run request: %v", err)
		}
		if !req.Stream {
			t.Error("OpenStream must force stream=true")
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, line := range lines {
			io.WriteString(w, line+"\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
}

func TestStreamEventSequence(t *testing.T) {
	srv := ndjsonServer(t, []string{
		`{"event_type":"run_started","turn":0,"data":{"trace_id":"tr_1"}}`,
		`{"event_type":"turn_start","turn":1,"data":{"turn":1,"max_turns":10}}`,
		`{"event_type":"text_delta","turn":1,"data":{"delta":"Hel"}}`,
		`{"event_type":"text_delta","turn":1,"data":{"delta":"lo"}}`,
		`{"event_type":"complete","turn":1,"data":{"success":true,"answer":"Hello","total_turns":1}}`,
	})
	defer srv.Close()

	s, err := newTestClient(srv.URL).OpenStream(context.Background(), RunRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	defer s.Close()

	types := collectStream(t, s)
	want := []string{EventRunStarted, EventTurnStart, EventTextDelta, EventTextDelta, EventComplete}
	if len(types) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(types), len(want), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, types[i], want[i])
		}
	}
}

func TestStreamSkipsMalformedLines(t *testing.T) {
	srv := ndjsonServer(t, []string{
		`{"event_type":"run_started","turn":0,"data":{"trace_id":"tr_1"}}`,
		`{not json at all`,
		``,
		`{"turn":1,"data":{"delta":"x"}}`,
		`{"event_type":"complete","turn":1,"data":{"success":true}}`,
	})
	defer srv.Close()

	s, err := newTestClient(srv.URL).OpenStream(context.Background(), RunRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	defer s.Close()

	types := collectStream(t, s)
	want := []string{EventRunStarted, EventComplete}
	if len(types) != 2 || types[0] != want[0] || types[1] != want[1] {
		t.Errorf("got %v, want %v", types, want)
	}
}

func TestStreamPayloadDecoding(t *testing.T) {
	srv := ndjsonServer(t, []string{
		`{"event_type":"tool_call","turn":2,"data":{"tool":"bash","input":{"command":"ls"}}}`,
	})
	defer srv.Close()

	s, err := newTestClient(srv.URL).OpenStream(context.Background(), RunRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	defer s.Close()

	ev, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Type != EventToolCall || ev.Turn != 2 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	var call ToolCallData
	if err := json.Unmarshal(ev.Data, &call); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if call.Tool != "bash" {
		t.Errorf("tool = %q", call.Tool)
	}
}

func TestStreamNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).OpenStream(context.Background(), RunRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestStreamNextAfterClose(t *testing.T) {
	srv := ndjsonServer(t, []string{
		`{"event_type":"run_started","turn":0,"data":{}}`,
	})
	defer srv.Close()

	s, err := newTestClient(srv.URL).OpenStream(context.Background(), RunRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("OpenStream: %v", err)
	}
	s.Close()
	if _, err := s.Next(); err == nil {
		t.Error("Next after Close should fail")
	}
	// Close 可重复调用
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
