// manager.go — 会话句柄管理: 按会话 id 维护 Session 实例。
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/multi-agent/agent-console/internal/agent"
	"github.com/multi-agent/agent-console/pkg/errors"
)

// Manager 持有所有活跃会话。会话 id 懒创建, 因此新会话先以无 id
// 状态存在, 首次提交铸造 id 后再登记进索引。
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	transport Transport
	store     Store
	observer  Observer
}

// NewManager 创建管理器。store 和 observer 可为 nil。
func NewManager(transport Transport, store Store, observer Observer) *Manager {
	return &Manager{
		sessions:  map[string]*Session{},
		transport: transport,
		store:     store,
		observer:  observer,
	}
}

// Get 按 id 查会话。
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// resolve 返回已有会话, 或 (sessionID 为空时) 一个尚未登记的新会话。
func (m *Manager) resolve(sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return NewSession(m.transport, m.store, m.observer), nil
	}
	if s, ok := m.Get(sessionID); ok {
		return s, nil
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "Manager.resolve", "session %s", sessionID)
}

// register 把已铸造 id 的会话登记进索引。
func (m *Manager) register(s *Session) {
	id := s.ID()
	if id == "" {
		return
	}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
}

// Submit 向指定会话发起流式 run。sessionID 为空时新建会话,
// 返回结果里带上铸造出的会话 id。
func (m *Manager) Submit(ctx context.Context, sessionID, text string, attachments []string, opts RunOptions) (*SubmitResult, error) {
	s, err := m.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	result, err := s.Submit(ctx, text, attachments, opts)
	if err != nil {
		return nil, err
	}
	m.register(s)
	return result, nil
}

// SubmitSync 非流式提交, 其余语义与 Submit 一致。
func (m *Manager) SubmitSync(ctx context.Context, sessionID, text string, attachments []string, opts RunOptions) (*SubmitResult, error) {
	s, err := m.resolve(sessionID)
	if err != nil {
		return nil, err
	}
	result, err := s.SubmitSync(ctx, text, attachments, opts)
	if err != nil {
		return nil, err
	}
	m.register(s)
	return result, nil
}

// Steer 向指定会话的进行中 run 注入消息。
func (m *Manager) Steer(ctx context.Context, sessionID, text string) (*agent.SteerAck, error) {
	s, ok := m.Get(sessionID)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "Manager.Steer", "session %s", sessionID)
	}
	return s.Steer(ctx, text)
}

// Cancel 取消指定会话的进行中 run。
func (m *Manager) Cancel(sessionID string) error {
	s, ok := m.Get(sessionID)
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "Manager.Cancel", "session %s", sessionID)
	}
	return s.Cancel()
}

// Restore 从平台侧持久化数据恢复会话并登记。
func (m *Manager) Restore(ctx context.Context, sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "Manager.Restore", "empty session id")
	}
	conv, err := m.transport.GetSession(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.Restore", "fetch persisted conversation")
	}
	s := newRestoredSession(sessionID, RestoreMessages(conv), m.transport, m.store, m.observer)
	m.register(s)
	return s, nil
}
