// run.go — run 驱动: 提交、折叠循环、steering、取消、收尾。
package session

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/multi-agent/agent-console/internal/agent"
	"github.com/multi-agent/agent-console/internal/transcript"
	"github.com/multi-agent/agent-console/pkg/errors"
	"github.com/multi-agent/agent-console/pkg/logger"
	"github.com/multi-agent/agent-console/pkg/util"
)

// RunOptions 一次提交的可选参数。
type RunOptions struct {
	Preset   string
	Skills   []string
	MaxTurns int
}

// SubmitResult 提交时乐观创建的两条消息 id。
type SubmitResult struct {
	SessionID      string `json:"session_id"`
	UserMsgID      string `json:"user_message_id"`
	AssistantMsgID string `json:"assistant_message_id"`
}

// Submit 发起流式 run。
//
// Idle → Running: 创建用户消息和空的 loading 助手消息, 必要时铸造
// 会话 id, 然后在后台 goroutine 里打开传输并折叠事件。Running 期间
// 再次提交返回 ErrRunActive。
func (s *Session) Submit(ctx context.Context, text string, attachments []string, opts RunOptions) (*SubmitResult, error) {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return nil, errors.Wrap(errors.ErrRunActive, "Session.Submit", "run already in flight")
	}
	sessionID := s.ensureIDLocked()

	userMsg := &Message{
		ID:          uuid.NewString(),
		Role:        RoleUser,
		Content:     text,
		Attachments: attachments,
	}
	assistantMsg := &Message{
		ID:      uuid.NewString(),
		Role:    RoleAssistant,
		Loading: true,
	}
	s.messages = append(s.messages, userMsg, assistantMsg)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	run := &activeRun{
		cancel:         cancel,
		acc:            transcript.NewAccumulator(),
		userMsgID:      userMsg.ID,
		assistantMsgID: assistantMsg.ID,
	}
	s.run = run
	s.state = StateRunning
	s.mu.Unlock()

	req := agent.RunRequest{
		SessionID:   sessionID,
		Prompt:      text,
		Attachments: attachments,
		Preset:      opts.Preset,
		Skills:      opts.Skills,
		MaxTurns:    opts.MaxTurns,
	}
	util.SafeGo(func() {
		s.runLoop(runCtx, req, run)
	})

	return &SubmitResult{
		SessionID:      sessionID,
		UserMsgID:      userMsg.ID,
		AssistantMsgID: assistantMsg.ID,
	}, nil
}

// runLoop 打开事件流并逐条折叠, 直到流耗尽或失败。
func (s *Session) runLoop(ctx context.Context, req agent.RunRequest, run *activeRun) {
	stream, err := s.transport.OpenStream(ctx, req)
	if err != nil {
		s.finalizeError(run, err)
		return
	}
	defer stream.Close()

	for {
		ev, err := stream.Next()
		if err == io.EOF {
			s.finalize(run)
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				// 主动取消, 回滚已在 Cancel 里完成
				return
			}
			s.finalizeError(run, err)
			return
		}
		if !s.applyEvent(run, ev) {
			return
		}
	}
}

// applyEvent 折叠一个事件。单事件折叠在会话锁内完成, 与 Cancel
// 互斥 — 取消永远不会打断一次折叠的中途。返回 false 表示 run 已
// 被取消, 折叠循环应当退出。
func (s *Session) applyEvent(run *activeRun, ev *agent.Event) bool {
	s.mu.Lock()
	if run.cancelled {
		s.mu.Unlock()
		return false
	}
	run.acc.Apply(ev)

	msg := s.findMessageLocked(run.assistantMsgID)
	if msg == nil {
		s.mu.Unlock()
		return false
	}
	records := run.acc.Records()
	msg.Records = records
	msg.TraceID = run.acc.TraceID()

	var fresh []transcript.DisplayRecord
	if len(records) > run.emittedRecords {
		fresh = records[run.emittedRecords:]
		run.emittedRecords = len(records)
	} else if run.acc.Merges() > run.emittedMerges && len(records) > 0 {
		// 原地合并没有新增记录, 把末尾记录重发一遍作为更新信号
		fresh = records[len(records)-1:]
	}
	run.emittedMerges = run.acc.Merges()
	sessionID := s.id
	msgID := msg.ID
	observer := s.observer
	s.mu.Unlock()

	// 回调在锁外, 按折叠顺序逐条通知
	if observer != nil {
		for _, rec := range fresh {
			observer(sessionID, msgID, rec)
		}
	}
	return true
}

// finalize 流正常耗尽后的收尾: Complete 或 (只收到 error 事件时) Errored。
func (s *Session) finalize(run *activeRun) {
	s.mu.Lock()
	if run.cancelled || s.run != run {
		s.mu.Unlock()
		return
	}
	msg := s.findMessageLocked(run.assistantMsgID)
	if msg != nil {
		msg.Loading = false
		msg.Records = run.acc.Records()
		msg.TraceID = run.acc.TraceID()
		msg.OutputFiles = run.acc.OutputFiles()
		msg.Content = run.acc.Answer()
		if msg.Content == "" {
			msg.Content = accumulatedText(msg.Records)
		}
	}
	if run.acc.Completed() {
		s.state = StateComplete
	} else if run.acc.ErrText() != "" {
		s.state = StateErrored
		if msg != nil {
			msg.Error = run.acc.ErrText()
		}
	} else {
		// 流结束但没有终态事件, 按传输异常处理
		s.state = StateErrored
		if msg != nil {
			msg.Error = "stream ended without terminal event"
		}
	}
	s.run = nil
	userMsg := s.findMessageLocked(run.userMsgID)
	sessionID := s.id
	// 同步路径整个折叠结果都还没通知过, 在这里补发
	var fresh []transcript.DisplayRecord
	if msg != nil && len(msg.Records) > run.emittedRecords {
		fresh = msg.Records[run.emittedRecords:]
		run.emittedRecords = len(msg.Records)
	}
	msgID := run.assistantMsgID
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		for _, rec := range fresh {
			observer(sessionID, msgID, rec)
		}
	}
	logger.Info("session: run settled",
		logger.FieldSessionID, sessionID,
		logger.FieldTraceID, run.acc.TraceID(),
		logger.FieldState, string(s.State()))
	s.persist(sessionID, userMsg, msg)
}

// finalizeError 传输层失败的收尾: 保留已折叠的部分记录, 追加一条
// 合成 error 记录, 消息 settle 为 Errored。
func (s *Session) finalizeError(run *activeRun, cause error) {
	s.mu.Lock()
	if run.cancelled || s.run != run {
		s.mu.Unlock()
		return
	}
	errRec := transcript.DisplayRecord{
		Kind: transcript.KindError,
		Text: cause.Error(),
		Code: "transport_error",
	}
	msg := s.findMessageLocked(run.assistantMsgID)
	if msg != nil {
		msg.Loading = false
		msg.Records = append(run.acc.Records(), errRec)
		msg.TraceID = run.acc.TraceID()
		msg.OutputFiles = run.acc.OutputFiles()
		msg.Content = accumulatedText(msg.Records)
		msg.Error = cause.Error()
	}
	s.state = StateErrored
	s.run = nil
	userMsg := s.findMessageLocked(run.userMsgID)
	sessionID := s.id
	msgID := run.assistantMsgID
	observer := s.observer
	s.mu.Unlock()

	logger.Warn("session: run failed",
		logger.FieldSessionID, sessionID,
		logger.FieldError, cause.Error())
	if observer != nil {
		observer(sessionID, msgID, errRec)
	}
	s.persist(sessionID, userMsg, msg)
}

// SubmitSync 非流式提交: 立即返回乐观消息 id, 后台 goroutine 等
// 平台返回原子结果, 经适配器折叠成与流式路径形态一致的记录。
// 生命周期语义与 Submit 相同。
func (s *Session) SubmitSync(ctx context.Context, text string, attachments []string, opts RunOptions) (*SubmitResult, error) {
	s.mu.Lock()
	if s.state == StateRunning {
		s.mu.Unlock()
		return nil, errors.Wrap(errors.ErrRunActive, "Session.SubmitSync", "run already in flight")
	}
	sessionID := s.ensureIDLocked()
	userMsg := &Message{
		ID:          uuid.NewString(),
		Role:        RoleUser,
		Content:     text,
		Attachments: attachments,
	}
	assistantMsg := &Message{ID: uuid.NewString(), Role: RoleAssistant, Loading: true}
	s.messages = append(s.messages, userMsg, assistantMsg)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	run := &activeRun{
		cancel:         cancel,
		acc:            transcript.NewAccumulator(),
		userMsgID:      userMsg.ID,
		assistantMsgID: assistantMsg.ID,
	}
	s.run = run
	s.state = StateRunning
	s.mu.Unlock()

	req := agent.RunRequest{
		SessionID:   sessionID,
		Prompt:      text,
		Attachments: attachments,
		Preset:      opts.Preset,
		Skills:      opts.Skills,
		MaxTurns:    opts.MaxTurns,
	}
	util.SafeGo(func() {
		defer cancel()
		result, err := s.transport.RunSync(runCtx, req)
		if err != nil {
			s.finalizeError(run, err)
			return
		}
		s.mu.Lock()
		if run.cancelled || s.run != run {
			s.mu.Unlock()
			return
		}
		run.acc = transcript.FoldAtomicResult(result)
		s.mu.Unlock()
		s.finalize(run)
	})

	return &SubmitResult{
		SessionID:      sessionID,
		UserMsgID:      userMsg.ID,
		AssistantMsgID: assistantMsg.ID,
	}, nil
}

// Steer 向进行中的 run 注入一条用户消息。
//
// 要求状态为 Running 且已捕获 trace id — 二者都在调用时刻从会话锁
// 内读取, 不用调用方早先缓存的值。注入消息不同步追加进消息列表,
// 稍后以 steering_received 事件出现在同一条助手消息里。steer 失败
// 是可报告的非致命错误, 不改变 run 自身的状态。
func (s *Session) Steer(ctx context.Context, text string) (*agent.SteerAck, error) {
	s.mu.RLock()
	if s.state != StateRunning || s.run == nil {
		s.mu.RUnlock()
		return nil, errors.Wrap(errors.ErrNoActiveRun, "Session.Steer", "no run in flight")
	}
	traceID := s.run.acc.TraceID()
	s.mu.RUnlock()

	if traceID == "" {
		return nil, errors.Wrap(errors.ErrNoTrace, "Session.Steer", "run has not reported a trace id yet")
	}
	ack, err := s.transport.Steer(ctx, traceID, text)
	if err != nil {
		return nil, errors.Wrap(err, "Session.Steer", "steer call failed")
	}
	return ack, nil
}

// Cancel 取消当前 run。
//
// 中断传输, 并按提交时捕获的 id 精确删除本次 run 的两条乐观消息;
// 其余会话状态不动。服务端的执行和 trace 不删除, 回滚的只是本地
// 视图。无活跃 run 时返回 ErrNoActiveRun。
func (s *Session) Cancel() error {
	s.mu.Lock()
	if s.state != StateRunning || s.run == nil {
		s.mu.Unlock()
		return errors.Wrap(errors.ErrNoActiveRun, "Session.Cancel", "no run in flight")
	}
	run := s.run
	run.cancelled = true
	run.cancel()
	s.deleteMessageLocked(run.userMsgID)
	s.deleteMessageLocked(run.assistantMsgID)
	s.run = nil
	s.state = StateCancelled
	sessionID := s.id
	s.mu.Unlock()

	logger.Info("session: run cancelled",
		logger.FieldSessionID, sessionID,
		logger.FieldTraceID, run.acc.TraceID())
	return nil
}

// persist 尽力而为落库。失败只记日志, 不影响 run 结果。
func (s *Session) persist(sessionID string, msgs ...*Message) {
	if s.store == nil {
		return
	}
	ctx := context.Background()
	if err := s.store.EnsureSession(ctx, sessionID); err != nil {
		logger.Warn("session: persist session failed",
			logger.FieldSessionID, sessionID,
			logger.FieldError, err.Error())
		return
	}
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		if err := s.store.SaveMessage(ctx, sessionID, msg); err != nil {
			logger.Warn("session: persist message failed",
				logger.FieldSessionID, sessionID,
				logger.FieldMessageID, msg.ID,
				logger.FieldError, err.Error())
		}
	}
}

// accumulatedText 从记录序列拼出助手可见文本, 用于 complete 没给
// answer 的情况。
func accumulatedText(records []transcript.DisplayRecord) string {
	var out string
	for _, rec := range records {
		if rec.Kind == transcript.KindAssistant {
			if out != "" {
				out += "\n"
			}
			out += rec.Text
		}
	}
	return out
}
