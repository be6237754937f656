// session.go — 会话实体与生命周期状态机。
//
// 状态机: Idle → Running → {Complete, Errored, Cancelled} → Idle。
// 每个会话同一时刻至多一个 Running run; Running 期间的第二次提交
// 被拒绝, 想影响进行中的 run 只能走 steering 侧信道。
//
// Message 列表是会话内唯一共享可变资源, 由 mu 保护, 同一时刻只有
// 一个写入者 (活跃 run 的折叠循环, 或无 run 时的 submit/cancel/restore)。
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/multi-agent/agent-console/internal/agent"
	"github.com/multi-agent/agent-console/internal/transcript"
)

// State 会话状态。
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateComplete  State = "complete"
	StateErrored   State = "errored"
	StateCancelled State = "cancelled"
)

// Message 一条会话消息。settle 之后不可变; Loading 为 true 表示
// 所属 run 仍在进行, 内容还在增长。
type Message struct {
	ID          string                     `json:"id"`
	Role        string                     `json:"role"`
	Content     string                     `json:"content"`
	Attachments []string                   `json:"attachments,omitempty"`
	OutputFiles []transcript.OutputFile    `json:"output_files,omitempty"`
	TraceID     string                     `json:"trace_id,omitempty"`
	Error       string                     `json:"error,omitempty"`
	Records     []transcript.DisplayRecord `json:"records,omitempty"`
	Loading     bool                       `json:"loading,omitempty"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// EventStream run 事件流的最小读取面, 便于测试替身。
type EventStream interface {
	Next() (*agent.Event, error)
	Close() error
}

// Transport 会话层依赖的平台调用面。*agent.Client 经 ClientTransport
// 包装后满足该接口。
type Transport interface {
	OpenStream(ctx context.Context, req agent.RunRequest) (EventStream, error)
	RunSync(ctx context.Context, req agent.RunRequest) (*agent.AtomicResult, error)
	Steer(ctx context.Context, traceID, text string) (*agent.SteerAck, error)
	GetSession(ctx context.Context, sessionID string) (*agent.PersistedConversation, error)
}

// Store 消息落库面。落库是尽力而为: 失败记日志, 不影响 run 结果。
type Store interface {
	EnsureSession(ctx context.Context, sessionID string) error
	SaveMessage(ctx context.Context, sessionID string, msg *Message) error
}

// Observer 每追加一条记录回调一次, 供渲染层实时推送。
// 回调在会话锁外执行, 不允许回调中再调用会话方法以外的阻塞操作。
type Observer func(sessionID, messageID string, rec transcript.DisplayRecord)

// activeRun 当前 run 的簿记。cancel 回滚靠 submit 时捕获的两条
// 消息 id, 不靠 "最后 N 条" 这种易受并发干扰的定位方式。
type activeRun struct {
	cancel          context.CancelFunc
	acc             *transcript.Accumulator
	userMsgID       string
	assistantMsgID  string
	cancelled       bool
	emittedRecords  int
	emittedMerges   int
}

// Session 一个逻辑会话。
type Session struct {
	mu sync.RWMutex

	// id 懒创建: 首次真正提交前不铸造
	id       string
	messages []*Message
	state    State
	run      *activeRun

	transport Transport
	store     Store
	observer  Observer
}

// NewSession 创建空会话。observer 和 store 可为 nil。
func NewSession(transport Transport, store Store, observer Observer) *Session {
	return &Session{
		state:     StateIdle,
		transport: transport,
		store:     store,
		observer:  observer,
	}
}

// newRestoredSession 从持久化消息恢复会话, id 已知。
func newRestoredSession(id string, messages []*Message, transport Transport, store Store, observer Observer) *Session {
	return &Session{
		id:        id,
		messages:  messages,
		state:     StateIdle,
		transport: transport,
		store:     store,
		observer:  observer,
	}
}

// ID 会话 id, 首次提交前为空串。
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// State 当前状态。
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Messages 消息列表快照。消息体浅拷贝, 记录切片只读共享。
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, 0, len(s.messages))
	for _, msg := range s.messages {
		out = append(out, *msg)
	}
	return out
}

// TraceID 当前 run 已捕获的 trace id, 无 run 或未捕获时为空串。
func (s *Session) TraceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.run == nil {
		return ""
	}
	return s.run.acc.TraceID()
}

// ========================================
// 锁内辅助
// ========================================

func (s *Session) ensureIDLocked() string {
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s.id
}

func (s *Session) findMessageLocked(id string) *Message {
	for _, msg := range s.messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

func (s *Session) deleteMessageLocked(id string) {
	for i, msg := range s.messages {
		if msg.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}
