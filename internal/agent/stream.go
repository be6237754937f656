// stream.go — 流式 run: chunked 响应体按行解析为事件序列。
//
// 平台以 newline-delimited JSON 推送事件, 每行一个完整 Event。
// 坏行 (截断/非 JSON) 跳过并记日志, 不中断整条流。
package agent

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/multi-agent/agent-console/pkg/errors"
	"github.com/multi-agent/agent-console/pkg/logger"
	"github.com/multi-agent/agent-console/pkg/util"
)

// Stream 一条进行中的事件流。非并发安全: Next 只能由单个 goroutine 调用。
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	cancel  context.CancelFunc
	closed  bool
}

// OpenStream 发起流式 run 并返回事件流。
//
// 返回的 Stream 持有响应体, 调用方必须 Close (或耗尽到 io.EOF)。
// ctx 取消会立即中断底层连接, 正在阻塞的 Next 返回错误。
func (c *Client) OpenStream(ctx context.Context, runReq RunRequest) (*Stream, error) {
	runReq.Stream = true
	data, err := json.Marshal(runReq)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := c.newRequest(streamCtx, http.MethodPost, "/v1/runs", strings.NewReader(string(data)))
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.streamCli.Do(req)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "Client.OpenStream", "POST /v1/runs")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, errors.Newf("Client.OpenStream", "POST /v1/runs status %d: %s", resp.StatusCode, body)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), c.maxLineBytes)

	return &Stream{body: resp.Body, scanner: scanner, cancel: cancel}, nil
}

// Next 读取下一个事件。
//
// 流正常结束返回 (nil, io.EOF)。无法解析的行跳过并继续读下一行,
// 因此调用方看到的序列只含结构合法的事件。
func (s *Stream) Next() (*Event, error) {
	if s.closed {
		return nil, errors.ErrStreamClosed
	}
	for s.scanner.Scan() {
		raw := s.scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			logger.Warn("stream: skip malformed line",
				logger.FieldError, err.Error(),
				logger.FieldRaw, util.TruncateRunes(string(raw), 200))
			continue
		}
		if ev.Type == "" {
			logger.Warn("stream: skip line without event_type",
				logger.FieldRaw, util.TruncateRunes(string(raw), 200))
			continue
		}
		return &ev, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Stream.Next", "read event line")
	}
	return nil, io.EOF
}

// Close 中断流并释放连接。可重复调用。
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	return s.body.Close()
}
