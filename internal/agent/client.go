// client.go — Agent 平台 HTTP 客户端 (REST + chunked NDJSON 流)。
//
// 调用面 (对应平台 v1 API):
//   - OpenStream  POST /v1/runs (stream=true)  → 事件流
//   - RunSync     POST /v1/runs (stream=false) → AtomicResult
//   - Steer       POST /v1/runs/:trace/steer
//   - GetSession  GET  /v1/sessions/:id
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/multi-agent/agent-console/pkg/errors"
	"github.com/multi-agent/agent-console/internal/config"
)

// Client Agent 平台 HTTP API 客户端。
type Client struct {
	baseURL      string
	token        string
	maxLineBytes int

	// httpCli 用于普通 REST 请求 (带整体超时)。
	// streamCli 用于流式 run — 不能设 Timeout, 否则长流会被掐断;
	// 生命周期由调用方 context 控制。
	httpCli   *http.Client
	streamCli *http.Client

	syncTimeout time.Duration
}

// NewClient 创建客户端。
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.AgentBaseURL, "/"),
		token:        cfg.AgentAPIToken,
		maxLineBytes: cfg.AgentMaxLineBytes,
		httpCli:      &http.Client{Timeout: time.Duration(cfg.AgentRequestTimeout) * time.Second},
		streamCli:    &http.Client{},
		syncTimeout:  time.Duration(cfg.AgentSyncTimeout) * time.Second,
	}
}

// RunSync 发起同步 (非流式) run, 阻塞到平台返回原子结果。
func (c *Client) RunSync(ctx context.Context, req RunRequest) (*AtomicResult, error) {
	req.Stream = false
	runCtx, cancel := context.WithTimeout(ctx, c.syncTimeout)
	defer cancel()

	var result AtomicResult
	if err := c.postJSON(runCtx, "/v1/runs", req, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// Steer 向进行中的 trace 注入一条用户消息。
//
// 目标 run 的传输不受影响 — 注入稍后以 steering_received 事件
// 出现在同一条事件流里。
func (c *Client) Steer(ctx context.Context, traceID, text string) (*SteerAck, error) {
	if strings.TrimSpace(traceID) == "" {
		return nil, apperrors.Wrap(apperrors.ErrNoTrace, "Client.Steer", "empty trace id")
	}
	var ack SteerAck
	path := "/v1/runs/" + url.PathEscape(traceID) + "/steer"
	if err := c.postJSON(ctx, path, SteerRequest{Text: text}, &ack, http.StatusOK, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &ack, nil
}

// GetSession 拉取持久化会话 (已沉淀消息, 非实时事件)。
func (c *Client) GetSession(ctx context.Context, sessionID string) (*PersistedConversation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "Client.GetSession", "empty session id")
	}
	var conv PersistedConversation
	if err := c.getJSON(ctx, "/v1/sessions/"+url.PathEscape(sessionID), &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ========================================
// 通用 HTTP helpers (消除重复 marshal→post→check→decode)
// ========================================

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// postJSON POST JSON 请求。out 为 nil 时不解析响应体。
func (c *Client) postJSON(ctx context.Context, path string, reqBody any, out any, okStatus ...int) error {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, "Client.postJSON", "POST %s", path)
	}
	defer resp.Body.Close()
	if !statusOK(resp.StatusCode, okStatus) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperrors.Newf("Client.postJSON", "POST %s status %d: %s", path, resp.StatusCode, body)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// getJSON GET 请求并解析 JSON。
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return apperrors.Wrapf(err, "Client.getJSON", "GET %s", path)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return apperrors.Wrapf(apperrors.ErrNotFound, "Client.getJSON", "GET %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperrors.Newf("Client.getJSON", "GET %s status %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// statusOK 检查状态码是否在允许列表中。
func statusOK(code int, allowed []int) bool {
	for _, ok := range allowed {
		if code == ok {
			return true
		}
	}
	return false
}
