package session

import (
	"context"
	"testing"

	apperrors "github.com/multi-agent/agent-console/pkg/errors"
)

func TestManagerSubmitCreatesSession(t *testing.T) {
	ft := &fakeTransport{stream: newChanStream()}
	m := NewManager(ft, nil, nil)

	result, err := m.Submit(context.Background(), "", "hello", nil, RunOptions{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("manager must return the minted session id")
	}
	s, ok := m.Get(result.SessionID)
	if !ok {
		t.Fatal("new session must be registered under its minted id")
	}

	ft.stream.finish()
	waitState(t, s, StateErrored) // 空流没有终态事件

	// 二次提交复用同一会话
	ft.stream = newChanStream()
	again, err := m.Submit(context.Background(), result.SessionID, "more", nil, RunOptions{})
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if again.SessionID != result.SessionID {
		t.Errorf("session id changed: %s vs %s", again.SessionID, result.SessionID)
	}
	ft.stream.finish()
}

func TestManagerUnknownSession(t *testing.T) {
	m := NewManager(&fakeTransport{stream: newChanStream()}, nil, nil)
	if _, err := m.Submit(context.Background(), "nope", "hi", nil, RunOptions{}); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Submit: want ErrNotFound, got %v", err)
	}
	if _, err := m.Steer(context.Background(), "nope", "hi"); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Steer: want ErrNotFound, got %v", err)
	}
	if err := m.Cancel("nope"); !apperrors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Cancel: want ErrNotFound, got %v", err)
	}
}

func TestManagerCancel(t *testing.T) {
	ft := &fakeTransport{stream: newChanStream()}
	m := NewManager(ft, nil, nil)
	result, err := m.Submit(context.Background(), "", "hello", nil, RunOptions{})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := m.Cancel(result.SessionID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	s, _ := m.Get(result.SessionID)
	if s.State() != StateCancelled {
		t.Errorf("state = %s", s.State())
	}
	if len(s.Messages()) != 0 {
		t.Errorf("rollback incomplete: %+v", s.Messages())
	}
}
