// sessions.go — 会话与消息持久化 (表 sessions + messages)。
//
// SessionStore 同时实现 session.Store, 供 run 收尾时尽力而为落库。
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/multi-agent/agent-console/internal/session"
	"github.com/multi-agent/agent-console/pkg/util"
)

// SessionStore 会话存储。
type SessionStore struct{ BaseStore }

// NewSessionStore 创建。
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{NewBaseStore(pool)}
}

const sessionCols = `session_id, title, created_at, updated_at`

const messageCols = `message_id, session_id, role, content, trace_id, error,
	records, output_files, attachments, seq, created_at`

// EnsureSession 幂等建会话, 已存在时只刷新 updated_at。
func (s *SessionStore) EnsureSession(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (session_id) VALUES ($1)
		 ON CONFLICT (session_id) DO UPDATE SET updated_at = NOW()`,
		sessionID)
	return err
}

// SaveMessage 写入或覆盖一条消息 (UPSERT, settle 后重复保存幂等)。
func (s *SessionStore) SaveMessage(ctx context.Context, sessionID string, msg *session.Message) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (message_id, session_id, role, content, trace_id, error,
		   records, output_files, attachments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9::jsonb)
		 ON CONFLICT (message_id) DO UPDATE SET
		   content=EXCLUDED.content, trace_id=EXCLUDED.trace_id, error=EXCLUDED.error,
		   records=EXCLUDED.records, output_files=EXCLUDED.output_files,
		   attachments=EXCLUDED.attachments`,
		msg.ID, sessionID, msg.Role, msg.Content, msg.TraceID, msg.Error,
		mustMarshalJSON(emptySlice(msg.Records)),
		mustMarshalJSON(emptySlice(msg.OutputFiles)),
		mustMarshalJSON(emptySlice(msg.Attachments)))
	return err
}

// SetTitle 更新会话标题。
func (s *SessionStore) SetTitle(ctx context.Context, sessionID, title string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE sessions SET title=$1, updated_at=NOW() WHERE session_id=$2`,
		util.TruncateRunes(title, 200), sessionID)
	return err
}

// List 最近会话列表。
func (s *SessionStore) List(ctx context.Context, keyword string, limit int) ([]SessionRow, error) {
	q := NewQueryBuilder().KeywordLike(keyword, "session_id", "title")
	sql, params := q.Build("SELECT "+sessionCols+" FROM sessions", "updated_at DESC", limit)
	rows, err := s.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, err
	}
	return collectRows[SessionRow](rows)
}

// Get 按 id 查会话。
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*SessionRow, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+sessionCols+" FROM sessions WHERE session_id = $1", sessionID)
	if err != nil {
		return nil, err
	}
	return collectOne[SessionRow](rows)
}

// ListMessages 按写入顺序取会话消息。
func (s *SessionStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]MessageRow, error) {
	q := NewQueryBuilder().Eq("session_id", sessionID)
	sql, params := q.Build("SELECT "+messageCols+" FROM messages", "seq ASC", limit)
	rows, err := s.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, err
	}
	return collectRows[MessageRow](rows)
}

// Delete 删除会话 (消息级联删除)。
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.deleteByKey(ctx, "sessions", "session_id", sessionID)
}

// emptySlice nil 切片写库时统一成空数组, JSONB 列里不出现 null。
func emptySlice[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
