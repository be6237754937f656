// crud.go — 技能 / MCP 服务器 / Agent 预设 CRUD handlers。
package console

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/multi-agent/agent-console/internal/store"
)

// queryLimit 从 query 读分页参数 (DRY)。
func queryLimit(c *gin.Context, def int) int {
	v, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if v < 1 {
		return def
	}
	if v > 2000 {
		return 2000
	}
	return v
}

// queryEnabled 解析可选的 enabled 过滤参数, 缺省返回 nil (不过滤)。
func queryEnabled(c *gin.Context) *bool {
	raw := c.Query("enabled")
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// ========================================
// 技能
// ========================================

func (s *Server) listSkills(c *gin.Context) {
	items, err := s.stores.Skill.List(c.Request.Context(),
		c.Query("keyword"), queryEnabled(c), queryLimit(c, 100))
	if err != nil {
		serverError(c, err)
		return
	}
	success(c, items)
}

func (s *Server) saveSkill(c *gin.Context) {
	var req store.Skill
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	if req.SkillKey == "" {
		badRequest(c, "invalid_request", "skill_key is required")
		return
	}
	item, err := s.stores.Skill.Save(c.Request.Context(), &req)
	if err != nil {
		serverError(c, err)
		return
	}
	success(c, item)
}

func (s *Server) toggleSkill(c *gin.Context) {
	var req struct {
		SkillKey  string `json:"skill_key"`
		Enabled   bool   `json:"enabled"`
		UpdatedBy string `json:"updated_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	if err := s.stores.Skill.SetEnabled(c.Request.Context(), req.SkillKey, req.Enabled, req.UpdatedBy); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"ok": true})
}

func (s *Server) deleteSkill(c *gin.Context) {
	if err := s.stores.Skill.Delete(c.Request.Context(), c.Param("key")); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"ok": true})
}

func (s *Server) deleteSkillBatch(c *gin.Context) {
	var req struct {
		SkillKeys []string `json:"skill_keys"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	n, err := s.stores.Skill.DeleteBatch(c.Request.Context(), req.SkillKeys)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"deleted": n})
}

// ========================================
// MCP 服务器
// ========================================

func (s *Server) listMCPServers(c *gin.Context) {
	items, err := s.stores.MCP.List(c.Request.Context(),
		c.Query("keyword"), queryEnabled(c), queryLimit(c, 100))
	if err != nil {
		serverError(c, err)
		return
	}
	success(c, items)
}

func (s *Server) saveMCPServer(c *gin.Context) {
	var req store.MCPServer
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	if req.ServerKey == "" {
		badRequest(c, "invalid_request", "server_key is required")
		return
	}
	item, err := s.stores.MCP.Save(c.Request.Context(), &req)
	if err != nil {
		serverError(c, err)
		return
	}
	success(c, item)
}

func (s *Server) toggleMCPServer(c *gin.Context) {
	var req struct {
		ServerKey string `json:"server_key"`
		Enabled   bool   `json:"enabled"`
		UpdatedBy string `json:"updated_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	if err := s.stores.MCP.SetEnabled(c.Request.Context(), req.ServerKey, req.Enabled, req.UpdatedBy); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"ok": true})
}

func (s *Server) deleteMCPServer(c *gin.Context) {
	if err := s.stores.MCP.Delete(c.Request.Context(), c.Param("key")); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"ok": true})
}

// ========================================
// Agent 预设
// ========================================

func (s *Server) listPresets(c *gin.Context) {
	items, err := s.stores.Preset.List(c.Request.Context(),
		c.Query("keyword"), queryEnabled(c), queryLimit(c, 100))
	if err != nil {
		serverError(c, err)
		return
	}
	success(c, items)
}

func (s *Server) savePreset(c *gin.Context) {
	var req store.AgentPreset
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	if req.PresetKey == "" {
		badRequest(c, "invalid_request", "preset_key is required")
		return
	}
	item, err := s.stores.Preset.Save(c.Request.Context(), &req)
	if err != nil {
		serverError(c, err)
		return
	}
	success(c, item)
}

func (s *Server) togglePreset(c *gin.Context) {
	var req struct {
		PresetKey string `json:"preset_key"`
		Enabled   bool   `json:"enabled"`
		UpdatedBy string `json:"updated_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request", err.Error())
		return
	}
	if err := s.stores.Preset.SetEnabled(c.Request.Context(), req.PresetKey, req.Enabled, req.UpdatedBy); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"ok": true})
}

func (s *Server) deletePreset(c *gin.Context) {
	if err := s.stores.Preset.Delete(c.Request.Context(), c.Param("key")); err != nil {
		fail(c, err)
		return
	}
	success(c, gin.H{"ok": true})
}
