// Package console 提供管理台 HTTP 服务: 会话聊天、steering、
// 技能/MCP/预设 CRUD、附件上传与 websocket 实时推送。
package console

import (
	"github.com/gin-gonic/gin"

	"github.com/multi-agent/agent-console/internal/agent"
	"github.com/multi-agent/agent-console/internal/config"
	"github.com/multi-agent/agent-console/internal/session"
	"github.com/multi-agent/agent-console/internal/store"
)

// Server 管理台 HTTP 服务。
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	sessions *session.Manager
	client   *agent.Client
	stores   *Stores
	hub      *Hub
}

// Stores 聚合所有 store 依赖 (DRY: 一次注入)。
type Stores struct {
	Session *store.SessionStore
	Skill   *store.SkillStore
	MCP     *store.MCPServerStore
	Preset  *store.AgentPresetStore
}

// NewServer 创建管理台服务。
func NewServer(cfg *config.Config, client *agent.Client, sessions *session.Manager, stores *Stores, hub *Hub) *Server {
	if !cfg.ConsoleDevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	s := &Server{
		router:   r,
		cfg:      cfg,
		sessions: sessions,
		client:   client,
		stores:   stores,
		hub:      hub,
	}
	s.registerRoutes()
	return s
}

// Engine 返回 Gin 引擎。
func (s *Server) Engine() *gin.Engine { return s.router }

// registerRoutes 注册 API 路由。
func (s *Server) registerRoutes() {
	api := s.router.Group("/api")

	// 聊天 / run 生命周期
	api.POST("/chat/submit", s.submitChat)
	api.POST("/chat/submit-sync", s.submitChatSync)
	api.POST("/chat/steer", s.steerChat)
	api.POST("/chat/cancel", s.cancelChat)
	api.GET("/chat/:session_id/messages", s.listLiveMessages)
	api.POST("/chat/:session_id/restore", s.restoreSession)

	// 持久化会话
	api.GET("/sessions", s.listSessions)
	api.GET("/sessions/:session_id/messages", s.listPersistedMessages)
	api.DELETE("/sessions/:session_id", s.deleteSession)

	// 技能
	api.GET("/skills", s.listSkills)
	api.POST("/skills", s.saveSkill)
	api.POST("/skills/toggle", s.toggleSkill)
	api.POST("/skills/delete-batch", s.deleteSkillBatch)
	api.DELETE("/skills/:key", s.deleteSkill)

	// MCP 服务器
	api.GET("/mcp-servers", s.listMCPServers)
	api.POST("/mcp-servers", s.saveMCPServer)
	api.POST("/mcp-servers/toggle", s.toggleMCPServer)
	api.DELETE("/mcp-servers/:key", s.deleteMCPServer)

	// Agent 预设
	api.GET("/presets", s.listPresets)
	api.POST("/presets", s.savePreset)
	api.POST("/presets/toggle", s.togglePreset)
	api.DELETE("/presets/:key", s.deletePreset)

	// 附件
	api.POST("/files", s.uploadFile)
	api.DELETE("/files/:file_id", s.deleteFile)

	// 实时推送
	api.GET("/events", s.wsHandler)
}
