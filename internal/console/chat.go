// chat.go — 聊天 / run 生命周期 handlers。
package console

import (
	"github.com/gin-gonic/gin"

	"github.com/multi-agent/agent-console/internal/session"
)

type submitRequest struct {
	SessionID   string   `json:"session_id"`
	Text        string   `json:"text"`
	Attachments []string `json:"attachments"`
	Preset      string   `json:"preset"`
	Skills      []string `json:"skills"`
	MaxTurns    int      `json:"max_turns"`
}

func (r *submitRequest) options() session.RunOptions {
	return session.RunOptions{
		Preset:   r.Preset,
		Skills:   r.Skills,
		MaxTurns: r.MaxTurns,
	}
}

// submitChat 发起流式 run。记录经 websocket 增量推送。
func (s *Server) submitChat(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	if req.Text == "" {
		badRequest(c, "invalid_request", "text is required")
		return
	}
	result, err := s.sessions.Submit(c.Request.Context(), req.SessionID, req.Text, req.Attachments, req.options())
	if err != nil {
		fail(c, err)
		return
	}
	created(c, result)
}

// submitChatSync 非流式提交。和 submitChat 一样立即返回乐观消息 id,
// run 在后台等平台的原子结果; settle 后记录经 websocket 一次性推送。
func (s *Server) submitChatSync(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	if req.Text == "" {
		badRequest(c, "invalid_request", "text is required")
		return
	}
	result, err := s.sessions.SubmitSync(c.Request.Context(), req.SessionID, req.Text, req.Attachments, req.options())
	if err != nil {
		fail(c, err)
		return
	}
	created(c, result)
}

// steerChat 向进行中的 run 注入消息。
func (s *Server) steerChat(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	ack, err := s.sessions.Steer(c.Request.Context(), req.SessionID, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, ack)
}

// cancelChat 取消进行中的 run, 回滚本次提交的乐观消息。
func (s *Server) cancelChat(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	if err := s.sessions.Cancel(req.SessionID); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"ok": true})
}

// listLiveMessages 活跃会话的内存消息快照 (含进行中 run 的部分记录)。
func (s *Server) listLiveMessages(c *gin.Context) {
	sess, ok := s.sessions.Get(c.Param("session_id"))
	if !ok {
		notFound(c, "session not found")
		return
	}
	success(c, gin.H{
		"session_id": sess.ID(),
		"state":      sess.State(),
		"messages":   sess.Messages(),
	})
}

// restoreSession 从平台侧持久化数据恢复会话。
func (s *Server) restoreSession(c *gin.Context) {
	sess, err := s.sessions.Restore(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{
		"session_id": sess.ID(),
		"messages":   sess.Messages(),
	})
}

// ========================================
// 持久化会话
// ========================================

func (s *Server) listSessions(c *gin.Context) {
	items, err := s.stores.Session.List(c.Request.Context(), c.Query("keyword"), queryLimit(c, 100))
	if err != nil {
		serverError(c, err)
		return
	}
	success(c, items)
}

func (s *Server) listPersistedMessages(c *gin.Context) {
	items, err := s.stores.Session.ListMessages(c.Request.Context(), c.Param("session_id"), queryLimit(c, 500))
	if err != nil {
		serverError(c, err)
		return
	}
	success(c, items)
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.stores.Session.Delete(c.Request.Context(), c.Param("session_id")); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"ok": true})
}
