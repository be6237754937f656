// ws.go — websocket 推送中心: 把折叠出的展示记录实时广播给 UI。
//
// 广播是 drop-on-slow: 落后的客户端丢消息而不是阻塞折叠循环,
// UI 靠 GET /api/chat/:session_id/messages 全量对账补齐。
package console

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/multi-agent/agent-console/internal/session"
	"github.com/multi-agent/agent-console/internal/transcript"
	"github.com/multi-agent/agent-console/pkg/logger"
	"github.com/multi-agent/agent-console/pkg/util"
)

// RecordEvent 广播给 UI 的单条记录。
type RecordEvent struct {
	SessionID string                   `json:"session_id"`
	MessageID string                   `json:"message_id"`
	Record    transcript.DisplayRecord `json:"record"`
}

// Hub websocket 客户端集合。
type Hub struct {
	mu      sync.RWMutex
	clients map[string]chan RecordEvent

	sendBuffer int
	devMode    bool
}

// NewHub 创建推送中心。sendBuffer 是每客户端发送队列容量。
func NewHub(sendBuffer int, devMode bool) *Hub {
	if sendBuffer < 1 {
		sendBuffer = 1
	}
	return &Hub{
		clients:    make(map[string]chan RecordEvent),
		sendBuffer: sendBuffer,
		devMode:    devMode,
	}
}

// Broadcast 向所有客户端广播。慢客户端丢弃, 永不阻塞调用方。
func (h *Hub) Broadcast(event RecordEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.clients {
		select {
		case ch <- event:
		default:
			logger.Debug("ws: drop event for slow client", logger.FieldKey, id)
		}
	}
}

// Observer 返回接入 session.Manager 的观察者回调。
func (h *Hub) Observer() session.Observer {
	return func(sessionID, messageID string, rec transcript.DisplayRecord) {
		h.Broadcast(RecordEvent{SessionID: sessionID, MessageID: messageID, Record: rec})
	}
}

func (h *Hub) subscribe(id string) chan RecordEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan RecordEvent, h.sendBuffer)
	h.clients[id] = ch
	return ch
}

// unsubscribe 不关闭 ch — 写循环通过 conn 关闭退出, GC 回收 channel。
func (h *Hub) unsubscribe(id string) {
	h.mu.Lock()
	delete(h.clients, id)
	h.mu.Unlock()
}

// clientCount 当前连接数 (测试用)。
func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ========================================
// gin handler
// ========================================

const (
	wsWriteWait = 10 * time.Second
	wsPingEvery = 30 * time.Second
)

// wsHandler 升级连接并接入 Hub。
func (s *Server) wsHandler(c *gin.Context) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if s.hub.devMode {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws: upgrade failed", logger.FieldError, err.Error())
		return
	}

	clientID := fmt.Sprintf("ws-%d", time.Now().UnixNano())
	ch := s.hub.subscribe(clientID)
	logger.Info("ws: client connected", logger.FieldKey, clientID)

	done := make(chan struct{})

	// 读循环只为感知关闭, 管理台推送是单向的
	util.SafeGo(func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	util.SafeGo(func() {
		defer func() {
			s.hub.unsubscribe(clientID)
			conn.Close()
			logger.Info("ws: client disconnected", logger.FieldKey, clientID)
		}()
		ping := time.NewTicker(wsPingEvery)
		defer ping.Stop()
		for {
			select {
			case event := <-ch:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
