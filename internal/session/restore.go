// restore.go — 从持久化会话恢复消息列表。
//
// 持久化条目的 content 是 JSON 字符串或类型化内容块列表 (text 块
// 与 tool_result 块混排)。恢复规则:
//   - user 条目只有纯文本 content 才保留, tool_result 块列表不可
//     作为用户气泡渲染, 整条丢弃;
//   - assistant 条目取所有 text 块拼接 (纯文本则直接取), 拼出来是
//     空白的 (纯工具轮次) 整条丢弃, 不渲染空气泡。
package session

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/multi-agent/agent-console/internal/agent"
	"github.com/multi-agent/agent-console/pkg/errors"
	"github.com/multi-agent/agent-console/pkg/logger"
)

// RestoreMessages 把持久化会话转换为可作为初始状态的消息列表。
func RestoreMessages(conv *agent.PersistedConversation) []*Message {
	if conv == nil {
		return nil
	}
	out := make([]*Message, 0, len(conv.Entries))
	for _, entry := range conv.Entries {
		switch entry.Role {
		case RoleUser:
			text, plain := decodePlainText(entry.Content)
			if !plain {
				continue
			}
			out = append(out, &Message{
				ID:      uuid.NewString(),
				Role:    RoleUser,
				Content: text,
			})
		case RoleAssistant:
			text := decodeAssistantText(entry.Content)
			if strings.TrimSpace(text) == "" {
				continue
			}
			out = append(out, &Message{
				ID:      uuid.NewString(),
				Role:    RoleAssistant,
				Content: text,
			})
		default:
			logger.Debug("restore: skip entry with unknown role",
				logger.FieldKey, entry.Role)
		}
	}
	return out
}

// decodePlainText content 为 JSON 字符串时返回其值, 否则 plain 为 false。
func decodePlainText(raw json.RawMessage) (string, bool) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false
	}
	return text, true
}

// decodeAssistantText 拼接 assistant content 的可展示文本。
func decodeAssistantText(raw json.RawMessage) string {
	if text, plain := decodePlainText(raw); plain {
		return text
	}
	var blocks []agent.ContentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, block := range blocks {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Restore 用平台侧持久化数据整体替换会话消息列表。
// 仅允许在无活跃 run 时调用。
func (s *Session) Restore(ctx context.Context) error {
	s.mu.RLock()
	if s.state == StateRunning {
		s.mu.RUnlock()
		return errors.Wrap(errors.ErrRunActive, "Session.Restore", "cannot restore during a run")
	}
	sessionID := s.id
	s.mu.RUnlock()
	if sessionID == "" {
		return errors.Wrap(errors.ErrInvalidInput, "Session.Restore", "session has no id yet")
	}

	conv, err := s.transport.GetSession(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "Session.Restore", "fetch persisted conversation")
	}
	restored := RestoreMessages(conv)

	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return errors.Wrap(errors.ErrRunActive, "Session.Restore", "run started during restore")
	}
	s.messages = restored
	s.state = StateIdle
	s.mu.Unlock()

	logger.Info("session: restored",
		logger.FieldSessionID, sessionID,
		logger.FieldCount, len(restored))
	return nil
}
